package haltgroup

import (
	"context"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Signal tests raise real process-wide signals, so they each use a distinct
// signal number and do not run in parallel with each other.
// Cannot use synctest: signal.Notify is not virtualized.

func TestHaltOnSignal_HaltsOnFirstSignal(t *testing.T) {
	h, err := New()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h.HaltOnSignal(ctx, syscall.SIGUSR1)
	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGUSR1))

	require.Eventually(t, func() bool {
		return h.tripwire.Fired()
	}, 2*time.Second, 10*time.Millisecond, "signal delivery should initiate halt")
}

func TestOnSignal_InstallsAtMostOnce(t *testing.T) {
	h, err := New()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var first, second atomic.Int64
	h.OnSignal(ctx, func() { first.Add(1) }, syscall.SIGUSR2)
	h.OnSignal(ctx, func() { second.Add(1) }, syscall.SIGUSR2) // no-op

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGUSR2))

	require.Eventually(t, func() bool {
		return first.Load() == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Zero(t, second.Load(), "second watcher must not have been installed")
	assert.True(t, h.signalWatcherInstalled.Load())
}

func TestOnSignal_DefaultSignals(t *testing.T) {
	t.Parallel()

	h, err := New()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	h.OnSignal(ctx, func() {})

	assert.True(t, h.signalWatcherInstalled.Load())
	cancel() // watcher goroutine exits and stops listening
}
