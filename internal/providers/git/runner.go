package git

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
)

// Runner is the narrow interface over the external git executable
type Runner interface {
	LookPath(bin string) (string, error)
	Run(ctx context.Context, bin string, args []string) error
}

// ExecRunner runs git as a subprocess
type ExecRunner struct{}

// NewExecRunner creates a new ExecRunner
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// LookPath resolves the binary on PATH
func (r *ExecRunner) LookPath(bin string) (string, error) {
	return exec.LookPath(bin)
}

// Run executes the binary. Stderr is captured and folded into the
// returned error on failure.
func (r *ExecRunner) Run(ctx context.Context, bin string, args []string) error {
	cmd := exec.CommandContext(ctx, bin, args...)

	var stderr bytes.Buffer
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := bytes.TrimSpace(stderr.Bytes())
		if len(msg) > 0 {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}
