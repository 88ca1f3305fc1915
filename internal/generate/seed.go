package generate

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/ytget/audiofixture/internal/model"
	"github.com/ytget/audiofixture/internal/playlistcache"
	"github.com/ytget/audiofixture/internal/store"
)

// Seeder persists per-playlist customization
type Seeder interface {
	SeedPlaylist(ctx context.Context, seed store.Seed) error
}

// SeedDatabase writes favorites, order and exclusions for every playlist with
// generated tracks. Draws come from rng in pre-order so a run seed reproduces them.
// It returns the number of playlists seeded.
func SeedDatabase(ctx context.Context, seeder Seeder, roots []*model.Playlist, rng *rand.Rand, favoriteRatio, excludeRatio float64) (int, error) {
	seeded := 0
	err := model.WalkAll(roots, func(playlist *model.Playlist) error {
		completed := playlist.GetCompletedTracks()
		if len(completed) == 0 {
			return nil
		}

		songs := make([]string, 0, len(completed))
		for _, track := range completed {
			songs = append(songs, playlistcache.SongUUID(track.RelPath()))
		}

		seed := store.PlanSeed(playlist.TagID(), songs, rng, favoriteRatio, excludeRatio)
		if err := seeder.SeedPlaylist(ctx, seed); err != nil {
			return fmt.Errorf("seed %s: %w", playlist.RelPath, err)
		}
		seeded++
		return nil
	})
	return seeded, err
}
