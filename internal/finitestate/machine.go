package finitestate

import (
	"context"
	"log/slog"
	"time"

	"github.com/robbyt/go-fsm"
)

// States of the join lifecycle. Each Join traverses New through to exactly
// one of the three terminal states, never backwards.
const (
	StatusNew            = "New"
	StatusWaitingForHalt = "WaitingForHalt"
	StatusDraining       = "Draining"
	StatusAwaitingTasks  = "AwaitingTasks"
	StatusDone           = "Done"
	StatusTimeout        = "Timeout"
	StatusTaskFailed     = "TaskFailed"
)

// JoinTransitions is the allowed state graph for the join lifecycle.
// Canceled joins may stop in any non-terminal state, so every live state may
// also move straight to a terminal one.
var JoinTransitions = fsm.TransitionsConfig{
	StatusNew:            {StatusWaitingForHalt, StatusDone, StatusTimeout, StatusTaskFailed},
	StatusWaitingForHalt: {StatusDraining, StatusDone, StatusTimeout, StatusTaskFailed},
	StatusDraining:       {StatusAwaitingTasks, StatusDone, StatusTimeout, StatusTaskFailed},
	StatusAwaitingTasks:  {StatusDone, StatusTimeout, StatusTaskFailed},
	StatusDone:           {},
	StatusTimeout:        {},
	StatusTaskFailed:     {},
}

// Machine is a wrapper around go-fsm.Machine that provides additional
// functionality for the join lifecycle.
type Machine struct {
	*fsm.Machine
}

// GetStateChanWithTimeout returns a channel that emits the state whenever it
// changes. The channel is closed when the provided context is canceled.
func (m *Machine) GetStateChanWithTimeout(ctx context.Context) <-chan string {
	return m.GetStateChanWithOptions(ctx, fsm.WithSyncTimeout(5*time.Second))
}

// New creates the join lifecycle state machine with the specified logger.
func New(handler slog.Handler) (*Machine, error) {
	f, err := fsm.New(handler, StatusNew, JoinTransitions)
	if err != nil {
		return nil, err
	}
	return &Machine{Machine: f}, nil
}
