package generate

import (
	"context"

	"github.com/ytget/audiofixture/internal/model"
)

// Generator defines the interface for the generation service.
type Generator interface {
	SetUpdateCallback(func(*model.Track))
	Run(ctx context.Context, roots []*model.Playlist) (*Summary, error)
}
