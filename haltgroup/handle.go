package haltgroup

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/haltgroup/go-haltgroup/internal/finitestate"
)

// HaltHandle coordinates graceful shutdown of a dynamically sized group of
// tasks: spawn any number of tasks, mark the group ready, halt them all with
// one broadcast, and join on their completion.
type HaltHandle struct {
	// tripwire is the prototype copied into every spawned task.
	tripwire Tripwire

	// mu guards the two take-once records below.
	mu   sync.Mutex
	halt *haltState
	join *joinState

	// registry carries task registrations from Spawn/Ready to Join.
	registry *eventQueue

	fsm *finitestate.Machine

	// signalWatcherInstalled allows at most one OnSignal watcher per handle.
	signalWatcherInstalled atomic.Bool

	joinTimeout time.Duration
	logger      *slog.Logger
}

// haltState is consumed by the first Halt call, which makes every later call
// a no-op.
type haltState struct {
	trigger *Trigger
	notify  chan struct{}
}

// joinState is consumed by Join. The notify channel is shared with haltState
// and closed on halt, so a Join that starts after Halt still observes it.
type joinState struct {
	events *eventQueue
	notify chan struct{}
}

// Option represents a functional option for configuring a HaltHandle.
type Option func(*HaltHandle)

// WithLogHandler sets a custom slog handler for the HaltHandle instance.
func WithLogHandler(handler slog.Handler) Option {
	return func(h *HaltHandle) {
		if handler != nil {
			h.logger = slog.New(handler.WithGroup("HaltGroup"))
		}
	}
}

// WithJoinTimeout bounds how long Join waits for the collected tasks to
// finish after halt. Zero (the default) means wait indefinitely. The timeout
// covers only the task-completion wait, not the wait for Halt itself.
func WithJoinTimeout(d time.Duration) Option {
	return func(h *HaltHandle) {
		h.joinTimeout = d
	}
}

// New creates a new HaltHandle with the provided options.
func New(opts ...Option) (*HaltHandle, error) {
	trigger, tripwire := NewTripwire()
	notify := make(chan struct{})
	registry := newEventQueue()

	h := &HaltHandle{
		tripwire: tripwire,
		halt:     &haltState{trigger: trigger, notify: notify},
		join:     &joinState{events: registry, notify: notify},
		registry: registry,
		logger:   slog.Default().WithGroup("HaltGroup"),
	}

	for _, opt := range opts {
		opt(h)
	}

	machine, err := finitestate.New(h.logger.Handler())
	if err != nil {
		return nil, fmt.Errorf("failed to create join state machine: %w", err)
	}
	h.fsm = machine

	return h, nil
}

// String returns a string representation of the HaltHandle instance.
func (h *HaltHandle) String() string {
	return fmt.Sprintf("HaltHandle<pending: %d>", h.registry.len())
}

// Spawn starts fn on a new goroutine and registers its completion handle for
// collection by Join. fn receives a copy of the handle's Tripwire and should
// use it to detect when Halt has been called; a non-nil return or a panic
// makes the task's outcome abnormal.
//
// Spawn never blocks and may be called from any goroutine, before or after
// Halt. Tasks spawned after Ready are started but will not be collected by
// the current Join; that ordering is the caller's responsibility.
func (h *HaltHandle) Spawn(fn func(Tripwire) error) {
	h.SpawnNamed("", fn)
}

// SpawnNamed is Spawn with a human-readable task name for logs and errors.
func (h *HaltHandle) SpawnNamed(name string, fn func(Tripwire) error) {
	t := &Task{
		id:   uuid.New(),
		name: name,
		done: make(chan struct{}),
	}
	go t.run(h, fn)

	h.registry.push(taskEvent{task: t})
	h.logger.Debug("Spawned task", "task", t)
}

// Ready tells the handle that all tasks to be collected by Join were
// spawned. It must be called exactly once, after every Spawn call whose task
// the upcoming Join should wait for.
func (h *HaltHandle) Ready() {
	h.registry.push(taskEvent{ready: true})
	h.logger.Debug("Ready, no more tasks will be registered")
}

// Halt tells every spawned task to stop, by firing the shared Tripwire, and
// wakes a pending or future Join. The first call wins; any further calls,
// from any goroutine, do nothing. Cancellation is advisory: a task that
// never checks its Tripwire keeps running.
func (h *HaltHandle) Halt() {
	h.mu.Lock()
	hs := h.halt
	h.halt = nil
	h.mu.Unlock()

	if hs == nil {
		h.logger.Debug("Halt already initiated, ignoring")
		return
	}

	h.logger.Info("Halt initiated, canceling tasks...")
	hs.trigger.Cancel()
	close(hs.notify)
}

// GetState returns the current state of the join lifecycle.
func (h *HaltHandle) GetState() string {
	return h.fsm.GetState()
}

// GetStateChan returns a channel that emits the join lifecycle state
// whenever it changes, including the terminal state. Delivery is
// synchronous, so a slow subscriber delays transitions rather than losing
// them. The channel is closed when the context is canceled.
func (h *HaltHandle) GetStateChan(ctx context.Context) <-chan string {
	return h.fsm.GetStateChanWithTimeout(ctx)
}

// transition moves the join lifecycle machine, logging instead of failing if
// the transition is not allowed.
func (h *HaltHandle) transition(state string) {
	if !h.fsm.TransitionBool(state) {
		h.logger.Debug("Join state transition rejected",
			"from", h.fsm.GetState(), "to", state)
	}
}
