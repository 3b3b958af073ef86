package meili

import (
	"io"
	"time"

	charmlog "github.com/charmbracelet/log"
)

const (
	DefaultPollInterval = 50 * time.Millisecond
	DefaultMaxWait      = 5 * time.Second
	DefaultTimeout      = 10 * time.Second
)

// Logger receives debug output while tasks are polled.
// *log.Logger from github.com/charmbracelet/log satisfies it.
type Logger interface {
	Debug(msg any, keyvals ...any)
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sends key as a bearer token.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithPollInterval sets the delay between task status requests.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// WithMaxWait bounds how long WaitForTask polls.
func WithMaxWait(d time.Duration) Option {
	return func(c *Client) {
		c.maxWait = d
	}
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

func discardLogger() Logger {
	return charmlog.New(io.Discard)
}
