package haltgroup

import (
	"os"
	"runtime/debug"

	"github.com/google/uuid"
)

// Task is the completion handle for one spawned unit of work. Spawn creates
// it and Join collects it; callers normally never touch a Task directly.
type Task struct {
	id   uuid.UUID
	name string
	done chan struct{}

	// err is written by the task goroutine before done is closed and must
	// only be read after done is closed.
	err error
}

// ID returns the task's unique id.
func (t *Task) ID() uuid.UUID {
	return t.id
}

// String returns the task's name if it has one, otherwise its id. Tasks are
// identified by this in logs and in TaskError.
func (t *Task) String() string {
	if t.name != "" {
		return t.name
	}
	return t.id.String()
}

// Done returns a channel that is closed when the task has finished, normally
// or not.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Err returns the task's outcome: nil for normal completion, the returned
// error, or a *PanicError. Only valid after Done is closed.
func (t *Task) Err() error {
	return t.err
}

// run executes the task body in the calling goroutine, capturing the outcome.
// It is started on a fresh goroutine by Spawn.
func (t *Task) run(h *HaltHandle, fn func(Tripwire) error) {
	defer close(t.done)
	defer func() {
		if v := recover(); v != nil {
			stack := debug.Stack()
			if abortingOnPanic() {
				h.logger.Error("Task panicked, aborting process", "task", t, "panic", v)
				os.Stderr.Write(stack)
				os.Exit(2)
			}
			h.logger.Error("Task panicked", "task", t, "panic", v)
			t.err = &PanicError{Value: v, Stack: stack}
		}
	}()

	t.err = fn(h.tripwire)
}
