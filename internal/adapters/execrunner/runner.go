// Package execrunner provides the os/exec-backed command runner.
package execrunner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/korben-sh/korben/internal/ports"
)

// Runner executes actual shell commands.
type Runner struct{}

// New creates a Runner.
func New() *Runner {
	return &Runner{}
}

// Run executes a command and returns the result. A non-zero exit code is
// reported through the result, not as an error. Trailing newlines are
// stripped from both streams; callers splice them into error messages
// and URLs.
func (r *Runner) Run(ctx context.Context, command string, args ...string) (ports.CommandResult, error) {
	cmd := exec.CommandContext(ctx, command, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := ports.CommandResult{
		Stdout: strings.TrimRight(stdout.String(), "\n"),
		Stderr: strings.TrimRight(stderr.String(), "\n"),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		if ctx.Err() != nil {
			return result, fmt.Errorf("running %s: %w", command, ctx.Err())
		}
		return result, fmt.Errorf("starting %s: %w", command, err)
	}

	return result, nil
}

// Ensure Runner implements ports.CommandRunner.
var _ ports.CommandRunner = (*Runner)(nil)
