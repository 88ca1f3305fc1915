package encoder

import (
	"context"
)

// Runner executes an external command and returns its stdout.
// Failures must be reported as *CommandError so stderr reaches the caller.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// Encoder defines the interface for the encoder service.
type Encoder interface {
	CheckAvailable(ctx context.Context) error
	GenerateTone(ctx context.Context, req ToneRequest) error
	EmbedCover(ctx context.Context, audioPath string, cover []byte) error
	ProbeDuration(ctx context.Context, path string) (float64, error)
}
