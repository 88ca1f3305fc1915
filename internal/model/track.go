package model

import (
	"fmt"
	"strings"
	"time"
)

// Track represents a single planned or generated fixture file
type Track struct {
	Index         int       // zero-based position inside its folder
	Folder        string    // folder-relative path using forward slashes ("Rock/80s")
	FileName      string    // base name, see FileNameFor
	Path          string    // absolute output path
	Format        Format    // container and codec
	SampleRate    int       // Hz
	Frequency     int       // sine frequency in Hz
	Duration      float64   // seconds
	Title         string    // random metadata written into the file
	Artist        string    // random metadata written into the file
	Album         string    // random metadata written into the file
	Status        TaskStatus
	CoverEmbedded bool      // true once the cover replaced the original file
	LastError     string    // last error message if any
	StartedAt     time.Time // when encoding started
	FinishedAt    time.Time // when encoding finished
	FileSize      int64     // file size in bytes
}

// FileNameFor builds the fixture file name for a track
func FileNameFor(index, frequency, sampleRate int, ext string) string {
	return fmt.Sprintf("track_%04d_%dHz_%dHz.%s", index+1, frequency, sampleRate, strings.TrimPrefix(ext, "."))
}

// RelPath returns the output-relative path of the file using forward slashes
func (t *Track) RelPath() string {
	if t.Folder == "" {
		return t.FileName
	}
	return t.Folder + "/" + t.FileName
}

// GetElapsedString returns the encode time formatted as mm:ss.s, or a dash when unknown
func (t *Track) GetElapsedString() string {
	if t.StartedAt.IsZero() || t.FinishedAt.IsZero() || t.FinishedAt.Before(t.StartedAt) {
		return "—"
	}

	elapsed := t.FinishedAt.Sub(t.StartedAt)
	minutes := int(elapsed / time.Minute)
	seconds := (elapsed % time.Minute).Seconds()

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%02d:%04.1f", minutes, seconds))
	return b.String()
}

// GetDisplayTitle returns the metadata title, the file name, or the path in order of preference
func (t *Track) GetDisplayTitle() string {
	if t.Title != "" {
		return t.Title
	}

	if t.FileName != "" {
		name := t.FileName
		if idx := strings.LastIndex(name, "."); idx > 0 {
			name = name[:idx]
		}
		return name
	}

	return t.Path
}
