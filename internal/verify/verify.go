package verify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"go.uber.org/zap"

	"github.com/ytget/audiofixture/internal/platform"
)

// DefaultTolerance is the accepted duration drift in seconds
const DefaultTolerance = 0.25

// ErrInvalidTolerance is returned for a negative duration tolerance
var ErrInvalidTolerance = errors.New("tolerance must not be negative")

// TaggedFormats are the extensions whose tags can be read back
var TaggedFormats = []string{"mp3", "flac", "ogg"}

// Problems reported for a file
const (
	ProblemEmpty           = "file is empty"
	ProblemUnreadableTags  = "tags are unreadable"
	ProblemMissingTitle    = "title tag is missing"
	ProblemMissingArtist   = "artist tag is missing"
	ProblemMissingAlbum    = "album tag is missing"
	ProblemMissingCover    = "embedded cover is missing"
	ProblemDurationUnknown = "duration could not be probed"
	ProblemDurationDrift   = "duration is off"
)

// Issue is one problem found in one file
type Issue struct {
	Path    string // relative to the verified root
	Problem string
	Detail  string
}

func (i Issue) String() string {
	if i.Detail == "" {
		return fmt.Sprintf("%s: %s", i.Path, i.Problem)
	}
	return fmt.Sprintf("%s: %s (%s)", i.Path, i.Problem, i.Detail)
}

// Prober measures the playable duration of a file
type Prober interface {
	ProbeDuration(ctx context.Context, path string) (float64, error)
}

// Options controls which checks run
type Options struct {
	// CoverFormats lists extensions that must carry an embedded picture
	CoverFormats []string
	// Prober enables the duration check when set
	Prober    Prober
	Duration  float64 // expected seconds
	Tolerance float64 // accepted drift in seconds, 0 requires an exact match
	Logger    *zap.Logger
}

// Result summarizes a verification pass
type Result struct {
	Files  int
	Issues []Issue
}

// OK reports whether no issue was found
func (r *Result) OK() bool {
	return len(r.Issues) == 0
}

// Run checks every audio file under root. Temp files left by an interrupted
// run are ignored. The returned error is only set when root cannot be walked.
func Run(ctx context.Context, root string, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Tolerance < 0 || math.IsNaN(opts.Tolerance) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTolerance, opts.Tolerance)
	}

	result := &Result{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !platform.IsAudioFile(path) || platform.IsTempFile(path) {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		result.Files++
		issues := checkFile(ctx, path, rel, opts)
		for _, issue := range issues {
			logger.Debug("verification issue", zap.String("file", issue.Path), zap.String("problem", issue.Problem))
		}
		result.Issues = append(result.Issues, issues...)
		return nil
	})
	if err != nil {
		return result, fmt.Errorf("walk %s: %w", root, err)
	}
	return result, nil
}

func checkFile(ctx context.Context, path, rel string, opts Options) []Issue {
	var issues []Issue
	add := func(problem, detail string) {
		issues = append(issues, Issue{Path: rel, Problem: problem, Detail: detail})
	}

	size, err := platform.FileSize(path)
	if err != nil || size == 0 {
		add(ProblemEmpty, "")
		return issues
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if contains(TaggedFormats, ext) {
		issues = append(issues, checkTags(path, rel, contains(opts.CoverFormats, ext))...)
	}

	if opts.Prober != nil && opts.Duration > 0 {
		duration, err := opts.Prober.ProbeDuration(ctx, path)
		switch {
		case err != nil:
			add(ProblemDurationUnknown, err.Error())
		case math.Abs(duration-opts.Duration) > opts.Tolerance:
			add(ProblemDurationDrift, fmt.Sprintf("got %.3fs, want %.3fs", duration, opts.Duration))
		}
	}
	return issues
}

func checkTags(path, rel string, wantCover bool) []Issue {
	f, err := os.Open(path)
	if err != nil {
		return []Issue{{Path: rel, Problem: ProblemUnreadableTags, Detail: err.Error()}}
	}
	defer f.Close()

	return inspect(f, rel, wantCover)
}

// inspect reads the tags from r and reports missing fields
func inspect(r io.ReadSeeker, rel string, wantCover bool) []Issue {
	m, err := tag.ReadFrom(r)
	if err != nil {
		return []Issue{{Path: rel, Problem: ProblemUnreadableTags, Detail: err.Error()}}
	}

	var issues []Issue
	if strings.TrimSpace(m.Title()) == "" {
		issues = append(issues, Issue{Path: rel, Problem: ProblemMissingTitle})
	}
	if strings.TrimSpace(m.Artist()) == "" {
		issues = append(issues, Issue{Path: rel, Problem: ProblemMissingArtist})
	}
	if strings.TrimSpace(m.Album()) == "" {
		issues = append(issues, Issue{Path: rel, Problem: ProblemMissingAlbum})
	}
	if wantCover && (m.Picture() == nil || len(m.Picture().Data) == 0) {
		issues = append(issues, Issue{Path: rel, Problem: ProblemMissingCover})
	}
	return issues
}

func contains(list []string, ext string) bool {
	for _, item := range list {
		if strings.EqualFold(strings.TrimPrefix(item, "."), ext) {
			return true
		}
	}
	return false
}
