package generate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ytget/audiofixture/internal/config"
	"github.com/ytget/audiofixture/internal/cover"
	"github.com/ytget/audiofixture/internal/encoder"
	"github.com/ytget/audiofixture/internal/model"
	"github.com/ytget/audiofixture/internal/platform"
	"github.com/ytget/audiofixture/internal/playlistcache"
)

// ProgressInterval is how often (in tracks) a progress line is logged
const ProgressInterval = 10

// Summary describes a finished run
type Summary struct {
	Seed      int64
	Planned   int
	Generated int
	Failed    int
	Covers    int
	Elapsed   time.Duration
	Roots     []*model.Playlist
}

// Options configures the generation service
type Options struct {
	Encoder encoder.Encoder
	Config  *config.Config
	Seed    int64
	Logger  *zap.Logger
	Now     func() time.Time
}

var _ Generator = (*Service)(nil)

// Service turns a planned playlist tree into files on disk
type Service struct {
	encoder encoder.Encoder
	cfg     *config.Config
	seed    int64
	logger  *zap.Logger
	now     func() time.Time

	mu       sync.Mutex // guards track state and the counters below
	covers   int
	onUpdate func(*model.Track) // callback for progress reporting
}

// NewService creates a new generation service
func NewService(opts Options) *Service {
	s := &Service{
		encoder: opts.Encoder,
		cfg:     opts.Config,
		seed:    opts.Seed,
		logger:  opts.Logger,
		now:     opts.Now,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// SetUpdateCallback sets the callback invoked on every track state change.
// The callback runs while the service holds its lock, so it may read the
// status of any planned track but must not call back into the service.
func (s *Service) SetUpdateCallback(callback func(*model.Track)) {
	s.onUpdate = callback
}

// Run creates every folder of roots in pre-order and generates its tracks.
// Encoder failures are logged and skipped; only cancellation or a folder that
// cannot be created stops the run.
func (s *Service) Run(ctx context.Context, roots []*model.Playlist) (*Summary, error) {
	start := s.now()
	s.covers = 0

	err := model.WalkAll(roots, func(playlist *model.Playlist) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := platform.CreateDirectoryIfNotExists(playlist.Path); err != nil {
			return fmt.Errorf("create folder %s: %w", playlist.RelPath, err)
		}
		if err := s.runFolder(ctx, playlist); err != nil {
			return err
		}
		if s.cfg.PlaylistJSON {
			s.writeSidecar(playlist)
		}
		return nil
	})

	summary := s.summarize(roots, s.now().Sub(start))
	return summary, err
}

// runFolder generates the tracks of one folder with at most Jobs encoders in flight
func (s *Service) runFolder(ctx context.Context, playlist *model.Playlist) error {
	if playlist.Planned == 0 {
		return nil
	}

	log := s.logger.With(zap.String("folder", playlist.RelPath), zap.Int("depth", playlist.Depth))
	log.Info("generating folder", zap.Int("count", playlist.Planned))

	jobs := s.cfg.Jobs
	if jobs < 1 {
		jobs = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for _, track := range playlist.Tracks {
		if gctx.Err() != nil {
			break
		}
		if track.Index%ProgressInterval == 0 {
			log.Info("progress",
				zap.String("done", fmt.Sprintf("%d/%d", track.Index, playlist.Planned)),
				zap.String("format", track.Format.Name()),
				zap.Int("sample_rate", track.SampleRate),
				zap.Int("frequency", track.Frequency))
		}

		g.Go(func() error {
			s.runTrack(gctx, log, track)
			return nil
		})
	}

	// runTrack never fails the group; errors are recorded on the track
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return err
	}

	log.Info("folder complete",
		zap.String("generated", fmt.Sprintf("%d/%d", len(playlist.GetCompletedTracks()), playlist.Planned)))
	return nil
}

// runTrack encodes one tone and attaches its cover
func (s *Service) runTrack(ctx context.Context, log *zap.Logger, track *model.Track) {
	s.setStatus(track, func() {
		track.Status = model.TaskStatusEncoding
		track.StartedAt = s.now()
	})

	err := s.encoder.GenerateTone(ctx, encoder.ToneRequest{
		OutputPath: track.Path,
		Frequency:  track.Frequency,
		Duration:   track.Duration,
		SampleRate: track.SampleRate,
		Format:     track.Format,
		Title:      track.Title,
		Artist:     track.Artist,
		Album:      track.Album,
	})
	if err != nil {
		if ctx.Err() == nil {
			log.Warn("encoder failed, skipping track",
				zap.String("file", track.FileName),
				zap.Error(err))
		}
		s.setStatus(track, func() {
			track.Status = model.TaskStatusError
			track.LastError = err.Error()
			track.FinishedAt = s.now()
		})
		return
	}

	if s.cfg.HasCover(track.Format.Ext) {
		s.setStatus(track, func() { track.Status = model.TaskStatusEmbedding })
		if err := s.embedCover(ctx, track); err != nil {
			log.Warn("cover failed, keeping track without cover",
				zap.String("file", track.FileName),
				zap.Error(err))
		} else {
			s.mu.Lock()
			track.CoverEmbedded = true
			s.covers++
			s.mu.Unlock()
		}
	}

	size, err := platform.FileSize(track.Path)
	if err != nil {
		log.Debug("cannot stat generated file", zap.String("file", track.FileName), zap.Error(err))
	}

	s.setStatus(track, func() {
		track.Status = model.TaskStatusCompleted
		track.FileSize = size
		track.FinishedAt = s.now()
	})
}

func (s *Service) embedCover(ctx context.Context, track *model.Track) error {
	opts := cover.Options{Size: s.cfg.Cover.Size, BlockSize: s.cfg.Cover.BlockSize}
	data, err := cover.Render(cover.SeedFor(track.RelPath(), track.Frequency), opts, s.cfg.Cover.Quality)
	if err != nil {
		return err
	}
	return s.encoder.EmbedCover(ctx, track.Path, data)
}

func (s *Service) writeSidecar(playlist *model.Playlist) {
	path, err := playlistcache.Write(playlist, s.now())
	if err != nil {
		s.logger.Warn("cannot write playlist cache", zap.String("folder", playlist.RelPath), zap.Error(err))
		return
	}
	s.logger.Info("playlist cache written", zap.String("path", path))
}

// setStatus applies update and notifies the callback under the lock
func (s *Service) setStatus(track *model.Track, update func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	update()
	s.notifyUpdate(track)
}

// notifyUpdate calls the update callback if set
func (s *Service) notifyUpdate(track *model.Track) {
	if s.onUpdate != nil {
		s.onUpdate(track)
	}
}

func (s *Service) summarize(roots []*model.Playlist, elapsed time.Duration) *Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary := &Summary{Seed: s.seed, Elapsed: elapsed, Roots: roots, Covers: s.covers}
	_ = model.WalkAll(roots, func(playlist *model.Playlist) error {
		summary.Planned += playlist.Planned
		summary.Generated += len(playlist.GetCompletedTracks())
		summary.Failed += len(playlist.GetFailedTracks())
		return nil
	})
	return summary
}
