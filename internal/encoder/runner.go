package encoder

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
)

// ExecRunner runs commands with os/exec, capturing stdout and stderr
type ExecRunner struct{}

// Run executes name with args. Output streams are captured so nothing reaches the terminal.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	hideWindow(cmd)

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
			err = errors.Join(ErrNotFound, err)
		}
		return stdout.Bytes(), &CommandError{Name: name, Args: args, Stderr: stderr.Bytes(), Err: err}
	}
	return stdout.Bytes(), nil
}
