// Package encodertest provides a fake encoder.Runner that simulates ffmpeg
// and ffprobe on the local filesystem.
package encodertest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/ytget/audiofixture/internal/encoder"
)

// Call records one invocation
type Call struct {
	Name string
	Args []string
}

// Output returns the last argument, which is the output path for ffmpeg calls
func (c Call) Output() string {
	if len(c.Args) == 0 {
		return ""
	}
	return c.Args[len(c.Args)-1]
}

// IsCover reports whether the call attaches a cover
func (c Call) IsCover() bool {
	for _, arg := range c.Args {
		if arg == "-disposition:v" {
			return true
		}
	}
	return false
}

// Runner is a concurrency-safe fake. ffmpeg calls write a small file to
// their output path; ffprobe calls print Duration.
type Runner struct {
	// Fail decides whether a call fails. nil never fails.
	Fail func(call Call) bool
	// Duration printed by ffprobe
	Duration float64

	mu    sync.Mutex
	calls []Call
}

// Run implements encoder.Runner
func (r *Runner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	call := Call{Name: name, Args: append([]string(nil), args...)}

	r.mu.Lock()
	r.calls = append(r.calls, call)
	r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, &encoder.CommandError{Name: name, Args: args, Err: err}
	}
	if r.Fail != nil && r.Fail(call) {
		return nil, &encoder.CommandError{
			Name:   name,
			Args:   args,
			Stderr: []byte("Unknown encoder '" + strings.Join(args, " ") + "'"),
			Err:    errors.New("exit status 1"),
		}
	}

	if strings.Contains(name, "ffprobe") {
		return []byte(fmt.Sprintf("%f\n", r.Duration)), nil
	}
	if len(args) == 1 && args[0] == encoder.FFmpegVersionFlag {
		return []byte("ffmpeg version fake\n"), nil
	}

	out := call.Output()
	if out != "" {
		content := "tone"
		if call.IsCover() {
			content = "tone+cover"
		}
		if err := os.WriteFile(out, []byte(content), 0644); err != nil {
			return nil, &encoder.CommandError{Name: name, Args: args, Err: err}
		}
	}
	return nil, nil
}

// Calls returns a copy of the recorded invocations
func (r *Runner) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// CoverCalls returns the recorded cover invocations
func (r *Runner) CoverCalls() []Call {
	var covers []Call
	for _, c := range r.Calls() {
		if c.IsCover() {
			covers = append(covers, c)
		}
	}
	return covers
}
