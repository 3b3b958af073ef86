package meili

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sethvargo/go-retry"
	"github.com/simonhull/heron/pkg/indexconfig"
)

var _ indexconfig.Client = (*Client)(nil)

// Client talks to a Meilisearch server over HTTP.
type Client struct {
	http         *resty.Client
	apiKey       string
	pollInterval time.Duration
	maxWait      time.Duration
	timeout      time.Duration
	logger       Logger
}

// New creates a client for the server at host, e.g. "http://localhost:7700".
func New(host string, opts ...Option) *Client {
	c := &Client{
		pollInterval: DefaultPollInterval,
		maxWait:      DefaultMaxWait,
		timeout:      DefaultTimeout,
		logger:       discardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.http = resty.New().
		SetBaseURL(strings.TrimSuffix(host, "/")).
		SetTimeout(c.timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if c.apiKey != "" {
		c.http.SetAuthToken(c.apiKey)
	}
	return c
}

type createIndexRequest struct {
	UID        string  `json:"uid"`
	PrimaryKey *string `json:"primaryKey,omitempty"`
}

// CreateIndex enqueues the creation of index uid.
func (c *Client) CreateIndex(ctx context.Context, uid string, primaryKey *string) (*indexconfig.TaskInfo, error) {
	var info indexconfig.TaskInfo
	body := createIndexRequest{UID: uid, PrimaryKey: primaryKey}
	if err := c.do(ctx, http.MethodPost, "/indexes", body, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// UpdateSettings enqueues a settings update of index uid.
func (c *Client) UpdateSettings(ctx context.Context, uid string, settings *indexconfig.Settings) (*indexconfig.TaskInfo, error) {
	var info indexconfig.TaskInfo
	path := "/indexes/" + url.PathEscape(uid) + "/settings"
	if err := c.do(ctx, http.MethodPatch, path, settings, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetTask fetches the current state of a task.
func (c *Client) GetTask(ctx context.Context, taskUID int64) (*indexconfig.Task, error) {
	var task indexconfig.Task
	path := "/tasks/" + strconv.FormatInt(taskUID, 10)
	if err := c.do(ctx, http.MethodGet, path, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

var errPending = errors.New("task pending")

// WaitForTask polls a task until it reaches a terminal status. A failed or
// canceled task is returned without error; callers inspect its status.
func (c *Client) WaitForTask(ctx context.Context, taskUID int64) (*indexconfig.Task, error) {
	var task *indexconfig.Task
	backoff := retry.WithMaxDuration(c.maxWait, retry.NewConstant(c.pollInterval))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		t, err := c.GetTask(ctx, taskUID)
		if err != nil {
			return err
		}
		task = t
		if !t.Status.IsTerminal() {
			c.logger.Debug("waiting for task", "task", taskUID, "status", t.Status)
			return retry.RetryableError(errPending)
		}
		return nil
	})

	switch {
	case errors.Is(err, errPending):
		return nil, fmt.Errorf("%w: task %d still %s after %s", ErrWaitTimeout, taskUID, task.Status, c.maxWait)
	case err != nil:
		return nil, err
	}
	return task, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	apiErr := &APIError{}
	req := c.http.R().SetContext(ctx).SetError(apiErr)
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		apiErr.Status = resp.StatusCode()
		if apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(resp.String())
		}
		return apiErr
	}
	return nil
}
