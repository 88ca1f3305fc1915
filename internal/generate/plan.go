package generate

import (
	"math/rand"
	"path/filepath"

	"github.com/ytget/audiofixture/internal/config"
	"github.com/ytget/audiofixture/internal/model"
)

// Plan builds the playlist tree for cfg, picking every random attribute up front.
// Folders are visited in configuration order and descended while depth < MaxDepth.
// For each track the draws happen in a fixed order: format, sample rate,
// frequency, title, artist, album. The result depends only on cfg and rng.
func Plan(cfg *config.Config, rng *rand.Rand) []*model.Playlist {
	roots := make([]*model.Playlist, 0, len(cfg.Playlists))
	for _, spec := range cfg.Playlists {
		roots = append(roots, planFolder(cfg, rng, spec, cfg.OutputDir, "", 0))
	}
	return roots
}

func planFolder(cfg *config.Config, rng *rand.Rand, spec config.PlaylistSpec, parentPath, parentRel string, depth int) *model.Playlist {
	relPath := spec.Name
	if parentRel != "" {
		relPath = parentRel + "/" + spec.Name
	}
	path := filepath.Join(parentPath, spec.Name)
	freq := spec.Range()

	playlist := model.NewPlaylist(spec.Name, path, relPath, depth, spec.Count, freq)

	for i := 0; i < spec.Count; i++ {
		format := cfg.Formats[rng.Intn(len(cfg.Formats))]
		sampleRate := cfg.SampleRates[rng.Intn(len(cfg.SampleRates))]
		frequency := freq.Min + rng.Intn(freq.Max-freq.Min+1)

		fileName := model.FileNameFor(i, frequency, sampleRate, format.Ext)
		playlist.AddTrack(&model.Track{
			Index:      i,
			Folder:     relPath,
			FileName:   fileName,
			Path:       filepath.Join(path, fileName),
			Format:     format,
			SampleRate: sampleRate,
			Frequency:  frequency,
			Duration:   cfg.Duration,
			Title:      pick(rng, cfg.Metadata.Titles),
			Artist:     pick(rng, cfg.Metadata.Artists),
			Album:      pick(rng, cfg.Metadata.Albums),
			Status:     model.TaskStatusPending,
		})
	}

	if depth < cfg.MaxDepth {
		for _, sub := range spec.Subfolders {
			playlist.AddChild(planFolder(cfg, rng, sub, path, relPath, depth+1))
		}
	}
	return playlist
}

func pick(rng *rand.Rand, pool []string) string {
	if len(pool) == 0 {
		return ""
	}
	return pool[rng.Intn(len(pool))]
}
