package encoder

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCoverUnsupported is returned for containers that cannot carry an attached picture
	ErrCoverUnsupported = errors.New("container does not support embedded covers")

	// ErrNotFound is returned when the encoder binary cannot be executed
	ErrNotFound = errors.New("encoder not found")
)

// CommandError describes a failed external command with its captured stderr
type CommandError struct {
	Name   string
	Args   []string
	Stderr []byte
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s failed: %v", e.Name, e.Err)
	if tail := strings.TrimSpace(e.Tail(StderrTailBytes)); tail != "" {
		msg += ": " + tail
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Tail returns at most the last n bytes of stderr
func (e *CommandError) Tail(n int) string {
	if len(e.Stderr) == 0 {
		return ""
	}
	if n <= 0 || len(e.Stderr) <= n {
		return string(e.Stderr)
	}
	return string(e.Stderr[len(e.Stderr)-n:])
}

// StderrTail extracts the stderr tail from err if it wraps a CommandError
func StderrTail(err error, n int) string {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Tail(n)
	}
	return ""
}
