package indexconfig

import (
	"fmt"
	"time"
)

// TaskStatus is the lifecycle state of an asynchronous task.
type TaskStatus string

const (
	TaskStatusEnqueued   TaskStatus = "enqueued"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusSucceeded  TaskStatus = "succeeded"
	TaskStatusFailed     TaskStatus = "failed"
	TaskStatusCanceled   TaskStatus = "canceled"
)

// IsTerminal reports whether the task will not change state anymore.
func (s TaskStatus) IsTerminal() bool {
	switch s {
	case TaskStatusSucceeded, TaskStatusFailed, TaskStatusCanceled:
		return true
	}
	return false
}

// Task types checked by the runtime.
const (
	TaskTypeIndexCreation  = "indexCreation"
	TaskTypeSettingsUpdate = "settingsUpdate"
)

// TaskInfo is the summary returned when a task is enqueued.
type TaskInfo struct {
	TaskUID    int64      `json:"taskUid"`
	IndexUID   string     `json:"indexUid"`
	Status     TaskStatus `json:"status"`
	Type       string     `json:"type"`
	EnqueuedAt time.Time  `json:"enqueuedAt"`
}

// TaskError describes why a task failed.
type TaskError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Type    string `json:"type"`
	Link    string `json:"link"`
}

// Task is the full state of an asynchronous task.
type Task struct {
	UID        int64      `json:"uid"`
	IndexUID   string     `json:"indexUid"`
	Status     TaskStatus `json:"status"`
	Type       string     `json:"type"`
	Error      *TaskError `json:"error,omitempty"`
	EnqueuedAt time.Time  `json:"enqueuedAt"`
	StartedAt  *time.Time `json:"startedAt,omitempty"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

// MakeIndex turns a finished index creation task into an index handle bound
// to client.
func (t *Task) MakeIndex(client Client) (*Index, error) {
	if err := t.succeeded(); err != nil {
		return nil, err
	}
	if t.Type != TaskTypeIndexCreation {
		return nil, fmt.Errorf("%w: task %d has type %q", ErrNotIndexCreation, t.UID, t.Type)
	}
	return NewIndex(t.IndexUID, client), nil
}

func (t *Task) succeeded() error {
	switch t.Status {
	case TaskStatusSucceeded:
		return nil
	case TaskStatusFailed, TaskStatusCanceled:
		return &TaskFailedError{Task: t}
	}
	return fmt.Errorf("%w: task %d is %s", ErrTaskNotFinished, t.UID, t.Status)
}
