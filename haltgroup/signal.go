package haltgroup

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

var defaultSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}

// HaltOnSignal installs a watcher that calls Halt on the first delivery of
// one of the given OS signals (SIGINT and SIGTERM if none are given). At
// most one watcher is ever installed per handle; repeated calls, including
// through OnSignal, are no-ops.
func (h *HaltHandle) HaltOnSignal(ctx context.Context, signals ...os.Signal) {
	h.OnSignal(ctx, h.Halt, signals...)
}

// OnSignal is the general form of HaltOnSignal: it runs fn instead of the
// bare Halt when the first signal arrives. The watcher stops listening after
// the first delivery or when ctx is done, whichever comes first.
func (h *HaltHandle) OnSignal(ctx context.Context, fn func(), signals ...os.Signal) {
	if !h.signalWatcherInstalled.CompareAndSwap(false, true) {
		h.logger.Debug("Signal watcher already installed, ignoring")
		return
	}

	if len(signals) == 0 {
		signals = defaultSignals
	}

	ch := make(chan os.Signal, 1) // OS signals must be buffered
	signal.Notify(ch, signals...)
	h.logger.Debug("Listening for signals", "signals", signals)

	go func() {
		defer signal.Stop(ch)
		select {
		case sig := <-ch:
			h.logger.Info("Received signal", "signal", sig)
			fn()
		case <-ctx.Done():
			h.logger.Debug("Signal watcher context canceled")
		}
	}()
}
