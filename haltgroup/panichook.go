package haltgroup

import (
	"sync"
	"sync/atomic"
)

var (
	abortOnPanicOnce sync.Once
	abortOnPanic     atomic.Bool
)

// AbortOnTaskPanic makes any panic in a spawned task terminate the whole
// process after reporting, instead of being captured as that task's
// TaskFailed outcome. This turns a worker panic into the same loud failure
// it would be on the main goroutine.
//
// The policy is process-wide and applies to every HaltHandle. It can be
// called any number of times, from any goroutine; only the first call has
// any effect, and it cannot be undone.
func AbortOnTaskPanic() {
	abortOnPanicOnce.Do(func() {
		abortOnPanic.Store(true)
	})
}

func abortingOnPanic() bool {
	return abortOnPanic.Load()
}
