package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ytget/audiofixture/internal/generate"
	"github.com/ytget/audiofixture/internal/model"
	"github.com/ytget/audiofixture/internal/platform"
)

// Rough per-song costs used for the pre-run estimate
const (
	SecondsPerSong = 0.5
	BytesPerSong   = 100_000
)

// Title is the first line of the report
const Title = "Audio fixture generation report"

// Estimate is the expected cost of generating a number of songs
type Estimate struct {
	Songs    int
	Duration time.Duration
	Bytes    uint64
}

// EstimateFor returns the estimate for total songs
func EstimateFor(total int) Estimate {
	if total < 0 {
		total = 0
	}
	return Estimate{
		Songs:    total,
		Duration: time.Duration(float64(total) * SecondsPerSong * float64(time.Second)),
		Bytes:    uint64(total) * BytesPerSong,
	}
}

// HumanDuration returns the estimated time as "~N s"
func (e Estimate) HumanDuration() string {
	return fmt.Sprintf("~%.0f s", e.Duration.Seconds())
}

// HumanSize returns the estimated disk usage as "~N MB"
func (e Estimate) HumanSize() string {
	return "~" + humanize.Bytes(e.Bytes)
}

// Render writes the plain-text report for summary to w
func Render(w io.Writer, summary *generate.Summary, generatedAt time.Time) error {
	var b strings.Builder

	fmt.Fprintln(&b, Title)
	fmt.Fprintf(&b, "Generated at: %s\n", generatedAt.Format(time.DateTime))
	fmt.Fprintf(&b, "Seed: %d\n", summary.Seed)
	fmt.Fprintf(&b, "Planned: %d\n", summary.Planned)
	fmt.Fprintf(&b, "Generated: %d\n", summary.Generated)
	fmt.Fprintf(&b, "Failed: %d\n", summary.Failed)
	fmt.Fprintf(&b, "Covers: %d\n", summary.Covers)
	fmt.Fprintf(&b, "Elapsed: %.1f s\n", summary.Elapsed.Seconds())
	if summary.Generated > 0 {
		fmt.Fprintf(&b, "Average: %.2f s/song\n", summary.Elapsed.Seconds()/float64(summary.Generated))
	}

	b.WriteString("\nDirectory structure:\n")
	_ = model.WalkAll(summary.Roots, func(playlist *model.Playlist) error {
		b.WriteString(treeLine(playlist))
		return nil
	})

	_, err := io.WriteString(w, b.String())
	return err
}

// treeLine renders one folder, nested folders get a "└─ " branch
func treeLine(playlist *model.Playlist) string {
	indent := strings.Repeat("  ", playlist.Depth+1)
	branch := ""
	if playlist.Depth > 0 {
		branch = "└─ "
	}

	line := fmt.Sprintf("%s%s%s: %d/%d songs", indent, branch, playlist.Name, len(playlist.GetCompletedTracks()), playlist.Planned)
	if failed := len(playlist.GetFailedTracks()); failed > 0 {
		line += fmt.Sprintf(" (%d failed)", failed)
	}
	return line + "\n"
}

// Write renders the report into dir/name and returns the written path
func Write(dir, name string, summary *generate.Summary, generatedAt time.Time) (string, error) {
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, platform.DefaultFilePermissions)
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}

	if err := Render(f, summary, generatedAt); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write report: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close report: %w", err)
	}
	return path, nil
}
