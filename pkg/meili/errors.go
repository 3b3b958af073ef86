package meili

import (
	"errors"
	"fmt"
)

// ErrWaitTimeout is returned by WaitForTask when the task is still pending
// after the maximum wait.
var ErrWaitTimeout = errors.New("timed out waiting for task")

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Link    string `json:"link"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("meilisearch: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("meilisearch: status %d: %s (%s)", e.Status, e.Message, e.Code)
}
