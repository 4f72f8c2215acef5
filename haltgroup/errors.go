package haltgroup

import (
	"errors"
	"fmt"
)

// ErrTimeout is returned by Join when the collected tasks did not all stop
// before the configured join timeout. The tasks themselves are left running;
// escalation (for example a forced process exit) is up to the caller.
var ErrTimeout = errors.New("tasks did not stop before the join timeout")

// TaskError is returned by Join when a collected task ended abnormally,
// either by returning a non-nil error or by panicking. If several tasks
// fail, only the first failure in collection order is reported.
type TaskError struct {
	// Task identifies the failed task, as logged (name or id).
	Task string
	// Err is the task's returned error, or a *PanicError if it panicked.
	Err error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %s failed: %v", e.Task, e.Err)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

// PanicError wraps a panic recovered from a spawned task.
type PanicError struct {
	// Value is the value the task panicked with.
	Value any
	// Stack is the goroutine stack captured at recovery.
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}
