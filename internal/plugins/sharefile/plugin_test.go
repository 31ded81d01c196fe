package sharefile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/korben-sh/korben/internal/ports"
)

type recordingRunner struct {
	calls [][]string
}

func (r *recordingRunner) Run(_ context.Context, command string, args ...string) (ports.CommandResult, error) {
	r.calls = append(r.calls, append([]string{command}, args...))
	// head-bucket misses so CreateBucket proceeds.
	if len(args) > 1 && args[1] == "head-bucket" {
		return ports.CommandResult{ExitCode: 1}, nil
	}
	return ports.CommandResult{}, nil
}

func TestShareFile(t *testing.T) {
	t.Setenv("AWS_REGION", "us-east-2")

	file := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, os.WriteFile(file, []byte("pdf"), 0o644))

	runner := &recordingRunner{}
	out, err := shareFile(runner)(context.Background(), map[string]string{"file": file})
	require.NoError(t, err)

	assert.Contains(t, out, "3 day(s)")
	assert.Contains(t, out, ".s3.us-east-2.amazonaws.com/report.pdf")

	var uploaded bool
	for _, call := range runner.calls {
		line := strings.Join(call, " ")
		if strings.Contains(line, "s3 cp "+file+" s3://share-") {
			uploaded = true
			assert.True(t, strings.HasSuffix(line, "/report.pdf"))
		}
	}
	assert.True(t, uploaded, "expected an upload call")
}

func TestShareFile_MissingFile(t *testing.T) {
	runner := &recordingRunner{}

	_, err := shareFile(runner)(context.Background(), map[string]string{"file": "/nope/missing.txt"})
	assert.ErrorContains(t, err, "file not found")
	assert.Empty(t, runner.calls)
}

func TestShareFile_CustomExpiration(t *testing.T) {
	file := filepath.Join(t.TempDir(), "x.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	runner := &recordingRunner{}
	out, err := shareFile(runner)(context.Background(), map[string]string{"file": file, "expiration": "7"})
	require.NoError(t, err)
	assert.Contains(t, out, "7 day(s)")
}

func TestShareFile_InvalidExpiration(t *testing.T) {
	file := filepath.Join(t.TempDir(), "x.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := shareFile(&recordingRunner{})(context.Background(), map[string]string{"file": file, "expiration": "soon"})
	assert.ErrorContains(t, err, "invalid expiration")
}
