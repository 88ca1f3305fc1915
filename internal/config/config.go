package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ytget/audiofixture/internal/encoder"
	"github.com/ytget/audiofixture/internal/model"
	"github.com/ytget/audiofixture/internal/platform"
)

// PlaylistSpec describes one folder of the target playlist hierarchy
type PlaylistSpec struct {
	Name       string         `yaml:"name"`
	Count      int            `yaml:"count"`
	FreqRange  []int          `yaml:"freq_range,flow,omitempty"` // [min, max] Hz, inclusive
	Subfolders []PlaylistSpec `yaml:"subfolders,omitempty"`
}

// Range returns the frequency range, falling back to 440-880 Hz when unset
func (p PlaylistSpec) Range() model.FrequencyRange {
	if len(p.FreqRange) != 2 {
		return model.FrequencyRange{Min: DefaultFrequencyMinHz, Max: DefaultFrequencyMaxHz}
	}
	return model.FrequencyRange{Min: p.FreqRange[0], Max: p.FreqRange[1]}
}

// TotalCount returns the track count of this folder and all subfolders
func (p PlaylistSpec) TotalCount() int {
	total := p.Count
	for _, sub := range p.Subfolders {
		total += sub.TotalCount()
	}
	return total
}

// Metadata holds the pools random title/artist/album tags are drawn from
type Metadata struct {
	Titles  []string `yaml:"titles"`
	Artists []string `yaml:"artists"`
	Albums  []string `yaml:"albums"`
}

// CoverConfig controls the generated block-pattern cover art
type CoverConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Size      int      `yaml:"size"`       // square edge in pixels
	BlockSize int      `yaml:"block_size"` // edge of one block in pixels
	Quality   int      `yaml:"quality"`    // JPEG quality 1-100
	Formats   []string `yaml:"formats"`    // extensions that receive a cover
}

// SeedDBConfig controls seeding of the player's playlist database
type SeedDBConfig struct {
	Path          string  `yaml:"path,omitempty"` // empty disables seeding
	FavoriteRatio float64 `yaml:"favorite_ratio"`
	ExcludeRatio  float64 `yaml:"exclude_ratio"`
}

// Config is the complete generator configuration
type Config struct {
	OutputDir    string         `yaml:"output_dir"`
	FFmpegPath   string         `yaml:"ffmpeg"`
	FFprobePath  string         `yaml:"ffprobe"`
	Duration     float64        `yaml:"duration"` // seconds per tone
	MaxDepth     int            `yaml:"max_depth"`
	Seed         int64          `yaml:"seed"` // 0 picks a time-based seed
	Jobs         int            `yaml:"jobs"` // concurrent encoder processes
	Formats      []model.Format `yaml:"formats"`
	SampleRates  []int          `yaml:"sample_rates,flow"`
	Metadata     Metadata       `yaml:"metadata"`
	Cover        CoverConfig    `yaml:"cover"`
	PlaylistJSON bool           `yaml:"playlist_json"`
	SeedDB       SeedDBConfig   `yaml:"seed_db"`
	Report       bool           `yaml:"report"`
	Playlists    []PlaylistSpec `yaml:"playlists"`
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	outputDir, err := platform.GetDefaultOutputDir()
	if err != nil {
		outputDir = DefaultOutputDirSuffix
	}

	return &Config{
		OutputDir:   outputDir,
		FFmpegPath:  DefaultFFmpegPath,
		FFprobePath: DefaultFFprobePath,
		Duration:    DefaultDuration,
		MaxDepth:    DefaultMaxDepth,
		Jobs:        DefaultJobs,
		Formats:     DefaultFormats(),
		SampleRates: DefaultSampleRates(),
		Metadata:    DefaultMetadata(),
		Cover: CoverConfig{
			Enabled:   true,
			Size:      DefaultCoverSize,
			BlockSize: DefaultCoverBlockSize,
			Quality:   DefaultCoverQuality,
			Formats:   DefaultCoverFormats(),
		},
		SeedDB: SeedDBConfig{
			FavoriteRatio: DefaultFavoriteRatio,
			ExcludeRatio:  DefaultExcludeRatio,
		},
		Report:    true,
		Playlists: DefaultPlaylists(),
	}
}

// Load reads the YAML file at path over the defaults and applies environment overrides.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// TotalTracks returns the number of tracks the playlist tree plans, honoring MaxDepth
func (c *Config) TotalTracks() int {
	var count func(specs []PlaylistSpec, depth int) int
	count = func(specs []PlaylistSpec, depth int) int {
		total := 0
		for _, spec := range specs {
			total += spec.Count
			if depth < c.MaxDepth {
				total += count(spec.Subfolders, depth+1)
			}
		}
		return total
	}
	return count(c.Playlists, 0)
}

// HasCover reports whether files with the given extension get an embedded cover
func (c *Config) HasCover(ext string) bool {
	if !c.Cover.Enabled {
		return false
	}
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, f := range c.Cover.Formats {
		if strings.ToLower(f) == ext {
			return true
		}
	}
	return false
}

// Validate checks the configuration for values the generator cannot work with
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.OutputDir) == "" {
		errs = append(errs, errors.New("output_dir is required"))
	}
	if c.Duration <= 0 {
		errs = append(errs, fmt.Errorf("duration must be positive, got %v", c.Duration))
	}
	if c.Jobs < 1 {
		errs = append(errs, fmt.Errorf("jobs must be at least 1, got %d", c.Jobs))
	}
	if c.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("max_depth must not be negative, got %d", c.MaxDepth))
	}

	if len(c.Formats) == 0 {
		errs = append(errs, errors.New("at least one format is required"))
	}
	known := make(map[string]bool, len(c.Formats))
	for i, f := range c.Formats {
		if f.Name() == "" || f.Codec == "" {
			errs = append(errs, fmt.Errorf("formats[%d]: ext and codec are required", i))
			continue
		}
		known[f.Name()] = true
	}

	if len(c.SampleRates) == 0 {
		errs = append(errs, errors.New("at least one sample rate is required"))
	}
	for _, rate := range c.SampleRates {
		if rate <= 0 {
			errs = append(errs, fmt.Errorf("sample rate must be positive, got %d", rate))
		}
	}

	if len(c.Metadata.Titles) == 0 || len(c.Metadata.Artists) == 0 || len(c.Metadata.Albums) == 0 {
		errs = append(errs, errors.New("metadata titles, artists and albums must not be empty"))
	}

	if c.Cover.Enabled {
		if c.Cover.Size <= 0 || c.Cover.BlockSize <= 0 {
			errs = append(errs, errors.New("cover size and block_size must be positive"))
		} else if c.Cover.BlockSize > c.Cover.Size {
			errs = append(errs, fmt.Errorf("cover block_size %d exceeds size %d", c.Cover.BlockSize, c.Cover.Size))
		}
		if c.Cover.Quality < 1 || c.Cover.Quality > 100 {
			errs = append(errs, fmt.Errorf("cover quality must be 1-100, got %d", c.Cover.Quality))
		}
		for _, f := range c.Cover.Formats {
			if !known[strings.ToLower(f)] {
				errs = append(errs, fmt.Errorf("cover format %q is not in formats", f))
			} else if !encoder.SupportsCover(strings.ToLower(f)) {
				errs = append(errs, fmt.Errorf("cover format %q cannot carry an embedded picture", f))
			}
		}
	}

	if c.SeedDB.FavoriteRatio < 0 || c.SeedDB.FavoriteRatio > 1 {
		errs = append(errs, fmt.Errorf("seed_db.favorite_ratio must be within [0, 1], got %v", c.SeedDB.FavoriteRatio))
	}
	if c.SeedDB.ExcludeRatio < 0 || c.SeedDB.ExcludeRatio > 1 {
		errs = append(errs, fmt.Errorf("seed_db.exclude_ratio must be within [0, 1], got %v", c.SeedDB.ExcludeRatio))
	}

	if len(c.Playlists) == 0 {
		errs = append(errs, errors.New("at least one playlist is required"))
	}
	errs = append(errs, validatePlaylists(c.Playlists, "")...)

	return errors.Join(errs...)
}

func validatePlaylists(specs []PlaylistSpec, parent string) []error {
	var errs []error
	seen := make(map[string]bool, len(specs))

	for _, spec := range specs {
		path := spec.Name
		if parent != "" {
			path = parent + "/" + spec.Name
		}

		switch {
		case strings.TrimSpace(spec.Name) == "":
			errs = append(errs, fmt.Errorf("playlist under %q has an empty name", parent))
		case strings.ContainsAny(spec.Name, `/\`) || spec.Name == "." || spec.Name == "..":
			errs = append(errs, fmt.Errorf("playlist %q: name must be a single folder name", path))
		case seen[strings.ToLower(spec.Name)]:
			errs = append(errs, fmt.Errorf("playlist %q: duplicate folder name", path))
		}
		seen[strings.ToLower(spec.Name)] = true

		if spec.Count < 0 {
			errs = append(errs, fmt.Errorf("playlist %q: count must not be negative", path))
		}
		if len(spec.FreqRange) != 0 && len(spec.FreqRange) != 2 {
			errs = append(errs, fmt.Errorf("playlist %q: freq_range must be [min, max]", path))
		} else {
			r := spec.Range()
			if r.Min <= 0 || r.Min > r.Max {
				errs = append(errs, fmt.Errorf("playlist %q: invalid freq_range [%d, %d]", path, r.Min, r.Max))
			}
		}

		errs = append(errs, validatePlaylists(spec.Subfolders, path)...)
	}
	return errs
}
