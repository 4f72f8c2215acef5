package haltgroup

import (
	"context"
	"sync"
)

// Trigger is the firing half of a cancellation pair. Cancel fires the shared
// signal exactly once; it is not an error if nobody is listening.
type Trigger struct {
	once sync.Once
	ch   chan struct{}
}

// Cancel fires the cancellation signal. Only the first call has any effect.
func (t *Trigger) Cancel() {
	t.once.Do(func() { close(t.ch) })
}

// Tripwire is the observing half of a cancellation pair. It is a small value
// type; copying it is cloning, and every copy observes the same single
// firing, including copies made after the Trigger already fired.
type Tripwire struct {
	ch <-chan struct{}
}

// NewTripwire creates a connected cancellation pair.
func NewTripwire() (*Trigger, Tripwire) {
	ch := make(chan struct{})
	return &Trigger{ch: ch}, Tripwire{ch: ch}
}

// Done returns a channel that is closed when the associated Trigger fires.
// Use it in a select statement to make blocking work cancellable.
func (tw Tripwire) Done() <-chan struct{} {
	return tw.ch
}

// Fired reports whether the associated Trigger has fired.
func (tw Tripwire) Fired() bool {
	select {
	case <-tw.ch:
		return true
	default:
		return false
	}
}

// Wait blocks until the associated Trigger fires or ctx is done. It returns
// nil on firing and ctx.Err() otherwise.
func (tw Tripwire) Wait(ctx context.Context) error {
	select {
	case <-tw.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
