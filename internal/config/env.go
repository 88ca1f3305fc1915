package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// envOverrides lists the settings that can be changed through the environment.
// Pointers distinguish "unset" from zero values.
type envOverrides struct {
	OutputDir    *string  `env:"FIXTURE_OUTPUT_DIR"`
	FFmpegPath   *string  `env:"FIXTURE_FFMPEG"`
	FFprobePath  *string  `env:"FIXTURE_FFPROBE"`
	Jobs         *int     `env:"FIXTURE_JOBS"`
	Seed         *int64   `env:"FIXTURE_SEED"`
	Duration     *float64 `env:"FIXTURE_DURATION"`
	PlaylistJSON *bool    `env:"FIXTURE_PLAYLIST_JSON"`
	SeedDB       *string  `env:"FIXTURE_SEED_DB"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from FIXTURE_* environment variables
func (c *Config) ApplyEnv() error {
	var o envOverrides
	if err := ParseEnv(&o); err != nil {
		return err
	}

	if o.OutputDir != nil && *o.OutputDir != "" {
		c.OutputDir = *o.OutputDir
	}
	if o.FFmpegPath != nil && *o.FFmpegPath != "" {
		c.FFmpegPath = *o.FFmpegPath
	}
	if o.FFprobePath != nil && *o.FFprobePath != "" {
		c.FFprobePath = *o.FFprobePath
	}
	if o.Jobs != nil {
		c.Jobs = *o.Jobs
	}
	if o.Seed != nil {
		c.Seed = *o.Seed
	}
	if o.Duration != nil {
		c.Duration = *o.Duration
	}
	if o.PlaylistJSON != nil {
		c.PlaylistJSON = *o.PlaylistJSON
	}
	if o.SeedDB != nil {
		c.SeedDB.Path = *o.SeedDB
	}
	return nil
}
