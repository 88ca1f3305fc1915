package playlistcache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/ytget/audiofixture/internal/model"
	"github.com/ytget/audiofixture/internal/platform"
)

// CacheVersion is the sidecar format version the player understands
const CacheVersion = 1

// Description written into every generated sidecar
const Description = "Generated test fixtures"

// Cache is the playlist.json document
type Cache struct {
	Version      int       `json:"version"`
	PlaylistName string    `json:"playlistName"`
	Description  string    `json:"description"`
	Tags         []string  `json:"tags"`
	Songs        []Song    `json:"songs"`
	GeneratedAt  time.Time `json:"generatedAt"`
	LastModified time.Time `json:"lastModified"`
}

// Song is one entry of the sidecar
type Song struct {
	UUID           string    `json:"uuid"`
	FileName       string    `json:"fileName"` // relative to the playlist folder
	Title          string    `json:"title"`
	Artist         string    `json:"artist"`
	Album          string    `json:"album"`
	Duration       float64   `json:"duration"` // seconds
	Enabled        bool      `json:"enabled"`
	Tags           []string  `json:"tags"`
	FileModifiedAt time.Time `json:"fileModifiedAt"`
}

// SongUUID returns the stable identifier of a file given its output-relative slash path
func SongUUID(relPath string) string {
	return uuid.NewMD5(uuid.NameSpaceURL, []byte(relPath)).String()
}

// Build assembles the sidecar for the completed tracks of playlist.
// File modification times are read from disk; missing files are skipped.
func Build(playlist *model.Playlist, now time.Time) *Cache {
	cache := &Cache{
		Version:      CacheVersion,
		PlaylistName: playlist.Name,
		Description:  Description,
		Tags:         []string{},
		Songs:        []Song{},
		GeneratedAt:  now,
		LastModified: now,
	}

	for _, track := range playlist.GetCompletedTracks() {
		info, err := os.Stat(track.Path)
		if err != nil {
			continue
		}
		cache.Songs = append(cache.Songs, Song{
			UUID:           SongUUID(track.RelPath()),
			FileName:       track.FileName,
			Title:          track.Title,
			Artist:         track.Artist,
			Album:          track.Album,
			Duration:       track.Duration,
			Enabled:        true,
			Tags:           []string{},
			FileModifiedAt: info.ModTime(),
		})
	}
	return cache
}

// Write builds the sidecar for playlist and stores it in the playlist folder.
// It returns the written path.
func Write(playlist *model.Playlist, now time.Time) (string, error) {
	path := filepath.Join(playlist.Path, platform.PlaylistJSONName)

	data, err := json.MarshalIndent(Build(playlist, now), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, platform.DefaultFilePermissions); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// Read parses the sidecar stored in dir
func Read(dir string) (*Cache, error) {
	path := filepath.Join(dir, platform.PlaylistJSONName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var cache Cache
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cache, nil
}
