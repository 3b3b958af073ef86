package indexconfig

import (
	"errors"
	"fmt"
)

var (
	// ErrTaskFailed matches every TaskFailedError.
	ErrTaskFailed = errors.New("task failed")

	// ErrTaskNotFinished is returned when a task is inspected before it
	// reached a terminal state.
	ErrTaskNotFinished = errors.New("task not finished")

	// ErrNotIndexCreation is returned by MakeIndex for other task types.
	ErrNotIndexCreation = errors.New("not an index creation task")

	// ErrAlreadyRegistered is returned when two providers share an index
	// name.
	ErrAlreadyRegistered = errors.New("index already registered")
)

// TaskFailedError carries a task that ended as failed or canceled.
type TaskFailedError struct {
	Task *Task
}

func (e *TaskFailedError) Error() string {
	if e.Task.Error != nil {
		return fmt.Sprintf("task %d on %s %s: %s (%s)",
			e.Task.UID, e.Task.IndexUID, e.Task.Status, e.Task.Error.Message, e.Task.Error.Code)
	}
	return fmt.Sprintf("task %d on %s %s", e.Task.UID, e.Task.IndexUID, e.Task.Status)
}

func (e *TaskFailedError) Is(target error) bool {
	return target == ErrTaskFailed
}
