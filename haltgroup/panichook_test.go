package haltgroup

import (
	"context"
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbortOnTaskPanic_OffByDefault(t *testing.T) {
	t.Parallel()

	assert.False(t, abortingOnPanic())
}

// The abort path terminates the process, so it is exercised in a re-executed
// copy of the test binary.
func TestAbortOnTaskPanic_AbortsProcess(t *testing.T) {
	if os.Getenv("HALTGROUP_ABORT_TEST") == "1" {
		AbortOnTaskPanic()
		AbortOnTaskPanic() // repeated installs are no-ops

		h, err := New()
		require.NoError(t, err)

		h.SpawnNamed("boomer", func(Tripwire) error {
			panic("kaboom")
		})
		h.Ready()
		h.Halt()
		_ = h.Join(context.Background())

		// Unreachable: the panicking task aborts the process before Join
		// can observe its completion.
		os.Exit(0)
	}

	cmd := exec.Command(os.Args[0], "-test.run", "^TestAbortOnTaskPanic_AbortsProcess$")
	cmd.Env = append(os.Environ(), "HALTGROUP_ABORT_TEST=1")
	out, err := cmd.CombinedOutput()

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr, "subprocess should exit abnormally, output: %s", out)
	assert.Equal(t, 2, exitErr.ExitCode())
	assert.Contains(t, string(out), "kaboom")
}
