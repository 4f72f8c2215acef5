package haltgroup

import (
	"context"
	"sync"
)

// taskEvent is a message on the registration queue: either a spawned task's
// handle, or the ready marker telling Join that no more tasks will follow.
type taskEvent struct {
	task  *Task
	ready bool
}

// eventQueue is an unbounded multi-producer single-consumer queue of
// registration events. push never blocks and never fails, even with no
// consumer; a shutdown in progress must not be disrupted by a missing
// receiver. pop blocks until an event arrives or ctx is done.
//
// The wake channel has capacity 1 and is written with a non-blocking send,
// so a push that races past a sleeping consumer still leaves a wakeup
// behind. The single consumer re-checks the slice after every wakeup.
type eventQueue struct {
	mu     sync.Mutex
	events []taskEvent
	wake   chan struct{}
}

func newEventQueue() *eventQueue {
	return &eventQueue{
		wake: make(chan struct{}, 1),
	}
}

func (q *eventQueue) push(ev taskEvent) {
	q.mu.Lock()
	q.events = append(q.events, ev)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *eventQueue) pop(ctx context.Context) (taskEvent, error) {
	for {
		q.mu.Lock()
		if len(q.events) > 0 {
			ev := q.events[0]
			q.events = q.events[1:]
			q.mu.Unlock()
			return ev, nil
		}
		q.mu.Unlock()

		select {
		case <-q.wake:
		case <-ctx.Done():
			return taskEvent{}, ctx.Err()
		}
	}
}

func (q *eventQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}
