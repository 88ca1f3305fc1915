package encoder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ytget/audiofixture/internal/model"
	"github.com/ytget/audiofixture/internal/platform"
)

// FFmpeg constants for tone synthesis
const (
	// Input settings
	LavfiFormat   = "lavfi"
	SineSourceFmt = "sine=frequency=%d:duration=%s:sample_rate=%d"

	// Cover settings
	CoverVideoCodec    = "mjpeg"
	CoverDisposition   = "attached_pic"
	CoverStreamTitle   = "title=Album cover"
	CoverStreamComment = "comment=Cover (front)"
	AudioStreamMap     = "0:a"
	CoverStreamMap     = "1:0"
	CopyCodec          = "copy"

	// Vorbis has to be re-encoded when a picture stream is added
	VorbisCodec   = "libvorbis"
	VorbisQuality = "4"

	// Executable and I/O constants
	FFmpegCommand       = "ffmpeg"
	FFprobeCommand      = "ffprobe"
	FFmpegVersionFlag   = "-version"
	FFprobeLogLevel     = "error"
	FFprobeShowEntries  = "format=duration"
	FFprobeOutputFormat = "csv=p=0"

	// StderrTailBytes is how much encoder output is kept in warnings
	StderrTailBytes = 500
)

// ToneRequest describes one synthesized file
type ToneRequest struct {
	OutputPath string
	Frequency  int     // Hz
	Duration   float64 // seconds
	SampleRate int     // Hz
	Format     model.Format
	Title      string
	Artist     string
	Album      string
}

// Options configures the encoder service
type Options struct {
	FFmpegPath  string
	FFprobePath string
	Runner      Runner
	Logger      *zap.Logger
}

// Service drives ffmpeg and ffprobe
type Service struct {
	ffmpeg  string
	ffprobe string
	runner  Runner
	logger  *zap.Logger
}

// NewService creates a new encoder service
func NewService(opts Options) *Service {
	s := &Service{
		ffmpeg:  opts.FFmpegPath,
		ffprobe: opts.FFprobePath,
		runner:  opts.Runner,
		logger:  opts.Logger,
	}
	if s.ffmpeg == "" {
		s.ffmpeg = FFmpegCommand
	}
	if s.ffprobe == "" {
		s.ffprobe = FFprobeCommand
	}
	if s.runner == nil {
		s.runner = ExecRunner{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// CheckAvailable verifies the ffmpeg binary can be executed
func (s *Service) CheckAvailable(ctx context.Context) error {
	if _, err := s.runner.Run(ctx, s.ffmpeg, FFmpegVersionFlag); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNotFound, s.ffmpeg, err)
	}
	return nil
}

// GenerateTone synthesizes a sine tone into req.OutputPath, overwriting any existing file
func (s *Service) GenerateTone(ctx context.Context, req ToneRequest) error {
	args := s.BuildToneArgs(req)
	s.logger.Debug("encoding tone",
		zap.String("path", req.OutputPath),
		zap.Int("frequency", req.Frequency),
		zap.Int("sample_rate", req.SampleRate),
		zap.String("codec", req.Format.Codec))

	if _, err := s.runner.Run(ctx, s.ffmpeg, args...); err != nil {
		return fmt.Errorf("generate %s: %w", req.OutputPath, err)
	}
	return nil
}

// BuildToneArgs builds the ffmpeg command arguments for a tone
func (s *Service) BuildToneArgs(req ToneRequest) []string {
	args := []string{
		"-f", LavfiFormat, // Synthetic input
		"-i", fmt.Sprintf(SineSourceFmt, req.Frequency, formatSeconds(req.Duration), req.SampleRate),
		"-c:a", req.Format.Codec, // Audio codec
	}

	// Bitrate wins over VBR quality
	if req.Format.Bitrate != "" {
		args = append(args, "-b:a", req.Format.Bitrate)
	} else if req.Format.Quality != "" {
		args = append(args, "-q:a", req.Format.Quality)
	}

	return append(args,
		"-metadata", "title="+req.Title,
		"-metadata", "artist="+req.Artist,
		"-metadata", "album="+req.Album,
		"-y",           // Overwrite output file
		req.OutputPath, // Output file
	)
}

// BuildCoverArgs builds the ffmpeg command arguments that attach coverPath to audioPath,
// writing the result to tempPath. Containers without picture support return ErrCoverUnsupported.
func (s *Service) BuildCoverArgs(audioPath, coverPath, tempPath string) ([]string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(audioPath), "."))
	inputs := []string{
		"-i", audioPath,
		"-i", coverPath,
		"-map", AudioStreamMap, // Audio stream
		"-map", CoverStreamMap, // Picture stream
	}

	switch ext {
	case "mp3", "flac":
		args := append(inputs,
			"-c:a", CopyCodec, // Keep audio as is
			"-c:v", CoverVideoCodec,
			"-disposition:v", CoverDisposition,
			"-y", tempPath,
		)
		return args, nil
	case "ogg":
		args := append(inputs,
			"-c:a", VorbisCodec, "-q:a", VorbisQuality,
			"-c:v", CopyCodec,
			"-disposition:v", CoverDisposition,
			"-metadata:s:v", CoverStreamTitle,
			"-metadata:s:v", CoverStreamComment,
			"-y", tempPath,
		)
		return args, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrCoverUnsupported, ext)
	}
}

// EmbedCover attaches the JPEG cover to audioPath in place. The original file is
// only replaced after the encoder succeeded; temp files are removed either way.
func (s *Service) EmbedCover(ctx context.Context, audioPath string, cover []byte) (err error) {
	coverPath := platform.TempCoverPath(audioPath)
	tempPath := platform.TempAudioPath(audioPath)

	args, err := s.BuildCoverArgs(audioPath, coverPath, tempPath)
	if err != nil {
		return err
	}

	defer func() {
		if rmErr := platform.RemoveIfExists(coverPath); rmErr != nil && err == nil {
			err = fmt.Errorf("remove temp cover: %w", rmErr)
		}
		if err != nil {
			_ = platform.RemoveIfExists(tempPath)
		}
	}()

	if err := os.WriteFile(coverPath, cover, platform.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write temp cover: %w", err)
	}

	if _, err := s.runner.Run(ctx, s.ffmpeg, args...); err != nil {
		return fmt.Errorf("embed cover into %s: %w", audioPath, err)
	}

	if err := platform.ReplaceFile(tempPath, audioPath); err != nil {
		return fmt.Errorf("replace %s: %w", audioPath, err)
	}
	return nil
}

// ProbeDuration gets the duration of an audio file using ffprobe
func (s *Service) ProbeDuration(ctx context.Context, path string) (float64, error) {
	output, err := s.runner.Run(ctx, s.ffprobe, s.BuildProbeArgs(path)...)
	if err != nil {
		return 0, fmt.Errorf("failed to run ffprobe: %w", err)
	}

	durationStr := strings.TrimSpace(string(output))
	duration, err := strconv.ParseFloat(durationStr, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}

	return duration, nil
}

// BuildProbeArgs builds the ffprobe arguments that print the container duration
func (s *Service) BuildProbeArgs(path string) []string {
	return []string{"-v", FFprobeLogLevel, "-show_entries", FFprobeShowEntries, "-of", FFprobeOutputFormat, path}
}

// SupportsCover reports whether the encoder can attach a picture to the extension
func SupportsCover(ext string) bool {
	_, err := (&Service{}).BuildCoverArgs("x."+strings.TrimPrefix(ext, "."), "", "")
	return !errors.Is(err, ErrCoverUnsupported)
}

// formatSeconds renders a duration without trailing zeros ("5", "2.5")
func formatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', -1, 64)
}
