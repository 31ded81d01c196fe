package execrunner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_CapturesStdoutTrimmed(t *testing.T) {
	r := New()
	res, err := r.Run(context.Background(), "echo", "hello")
	require.NoError(t, err)

	assert.True(t, res.Success())
	assert.Equal(t, "hello", res.Stdout)
}

func TestRun_TrimsStderr(t *testing.T) {
	r := New()
	res, err := r.Run(context.Background(), "sh", "-c", "echo oops >&2; exit 1")
	require.NoError(t, err)

	assert.False(t, res.Success())
	assert.Equal(t, "oops", res.Stderr)
}

func TestRun_NonZeroExitIsNotAnError(t *testing.T) {
	r := New()
	res, err := r.Run(context.Background(), "sh", "-c", "exit 3")
	require.NoError(t, err)

	assert.False(t, res.Success())
	assert.Equal(t, 3, res.ExitCode)
}

func TestRun_MissingBinary(t *testing.T) {
	r := New()
	_, err := r.Run(context.Background(), "definitely-not-a-binary-xyz")
	assert.ErrorContains(t, err, "starting definitely-not-a-binary-xyz")
}

func TestRun_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New()
	_, err := r.Run(ctx, "sleep", "5")
	assert.ErrorIs(t, err, context.Canceled)
}
