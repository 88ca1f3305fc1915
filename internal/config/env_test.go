package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyEnv(t *testing.T) {
	t.Run("overrides set variables", func(t *testing.T) {
		t.Setenv("FIXTURE_OUTPUT_DIR", "/env/out")
		t.Setenv("FIXTURE_FFMPEG", "/opt/ffmpeg/bin/ffmpeg")
		t.Setenv("FIXTURE_JOBS", "8")
		t.Setenv("FIXTURE_SEED", "1234")
		t.Setenv("FIXTURE_DURATION", "1.5")
		t.Setenv("FIXTURE_PLAYLIST_JSON", "true")
		t.Setenv("FIXTURE_SEED_DB", "/env/playlist.db")

		cfg := DefaultConfig()
		require.NoError(t, cfg.ApplyEnv())

		assert.Equal(t, "/env/out", cfg.OutputDir)
		assert.Equal(t, "/opt/ffmpeg/bin/ffmpeg", cfg.FFmpegPath)
		assert.Equal(t, DefaultFFprobePath, cfg.FFprobePath)
		assert.Equal(t, 8, cfg.Jobs)
		assert.Equal(t, int64(1234), cfg.Seed)
		assert.Equal(t, 1.5, cfg.Duration)
		assert.True(t, cfg.PlaylistJSON)
		assert.Equal(t, "/env/playlist.db", cfg.SeedDB.Path)
	})

	t.Run("unset variables keep values", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Jobs = 3
		require.NoError(t, cfg.ApplyEnv())

		assert.Equal(t, 3, cfg.Jobs)
		assert.Equal(t, DefaultFFmpegPath, cfg.FFmpegPath)
	})

	t.Run("malformed number fails", func(t *testing.T) {
		t.Setenv("FIXTURE_JOBS", "many")

		cfg := DefaultConfig()
		assert.Error(t, cfg.ApplyEnv())
	})
}
