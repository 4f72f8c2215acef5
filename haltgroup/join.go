package haltgroup

import (
	"context"

	"github.com/haltgroup/go-haltgroup/internal/finitestate"
)

// Join waits for Halt, collects every task registered before Ready, and then
// waits for all of them to finish. It returns nil when every collected task
// completed normally, ErrTimeout when they did not all stop within the
// configured join timeout, or a *TaskError carrying the first abnormal
// outcome in collection order (later failures are discarded).
//
// Join is decoupled from call order: Halt and Ready may happen before or
// after Join starts, from any goroutine, without losing tasks. On timeout
// the still-running tasks are left alone; stopping them remains the
// Tripwire's job, not Join's.
//
// ctx cancellation aborts any of Join's waits with ctx.Err(). Join must be
// called at most once per handle; a second call panics.
func (h *HaltHandle) Join(ctx context.Context) error {
	h.mu.Lock()
	js := h.join
	h.join = nil
	h.mu.Unlock()

	if js == nil {
		panic("haltgroup: Join called more than once")
	}

	h.transition(finitestate.StatusWaitingForHalt)
	select {
	case <-js.notify:
	case <-ctx.Done():
		return ctx.Err()
	}

	// Collect task handles until the ready marker. The registry preserves
	// send order, and Ready is program-ordered after the spawns it bounds,
	// so this drain gathers exactly the intended set no matter how Halt and
	// Join raced with them.
	h.transition(finitestate.StatusDraining)
	var tasks []*Task
	for {
		ev, err := js.events.pop(ctx)
		if err != nil {
			return err
		}
		if ev.ready {
			break
		}
		tasks = append(tasks, ev.task)
	}
	h.logger.Debug("Collected tasks", "count", len(tasks))

	h.transition(finitestate.StatusAwaitingTasks)
	waitCtx := ctx
	if h.joinTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, h.joinTimeout)
		defer cancel()
	}

	for _, t := range tasks {
		select {
		case <-t.Done():
		case <-waitCtx.Done():
			if err := ctx.Err(); err != nil {
				return err
			}
			h.transition(finitestate.StatusTimeout)
			h.logger.Warn("Tasks did not stop before the join timeout",
				"timeout", h.joinTimeout, "stuckTask", t)
			return ErrTimeout
		}
	}

	for _, t := range tasks {
		if err := t.Err(); err != nil {
			h.transition(finitestate.StatusTaskFailed)
			h.logger.Error("Task failed", "task", t, "error", err)
			return &TaskError{Task: t.String(), Err: err}
		}
	}

	h.transition(finitestate.StatusDone)
	h.logger.Info("All tasks stopped", "tasks", len(tasks))
	return nil
}
