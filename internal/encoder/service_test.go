package encoder

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ytget/audiofixture/internal/model"
)

// recordingRunner is a minimal in-package Runner
type recordingRunner struct {
	name   string
	args   []string
	stdout []byte
	err    error
	onRun  func(args []string)
}

func (r *recordingRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	r.name = name
	r.args = args
	if r.onRun != nil {
		r.onRun(args)
	}
	return r.stdout, r.err
}

func TestNewService_Defaults(t *testing.T) {
	service := NewService(Options{})

	if service.ffmpeg != FFmpegCommand {
		t.Errorf("Expected ffmpeg command %s, got %s", FFmpegCommand, service.ffmpeg)
	}
	if service.ffprobe != FFprobeCommand {
		t.Errorf("Expected ffprobe command %s, got %s", FFprobeCommand, service.ffprobe)
	}
	if _, ok := service.runner.(ExecRunner); !ok {
		t.Errorf("Expected ExecRunner by default, got %T", service.runner)
	}
	if service.logger == nil {
		t.Error("Expected a no-op logger by default")
	}
}

func TestBuildToneArgs(t *testing.T) {
	service := NewService(Options{})

	tests := []struct {
		name     string
		format   model.Format
		expected []string
	}{
		{
			name:   "bitrate",
			format: model.Format{Ext: "mp3", Codec: "libmp3lame", Bitrate: "192k"},
			expected: []string{
				"-f", "lavfi",
				"-i", "sine=frequency=440:duration=5:sample_rate=44100",
				"-c:a", "libmp3lame",
				"-b:a", "192k",
				"-metadata", "title=Echoes",
				"-metadata", "artist=Luna Echo",
				"-metadata", "album=Night Sessions",
				"-y", "/out/a.mp3",
			},
		},
		{
			name:   "quality",
			format: model.Format{Ext: "ogg", Codec: "libvorbis", Quality: "4"},
			expected: []string{
				"-f", "lavfi",
				"-i", "sine=frequency=440:duration=5:sample_rate=44100",
				"-c:a", "libvorbis",
				"-q:a", "4",
				"-metadata", "title=Echoes",
				"-metadata", "artist=Luna Echo",
				"-metadata", "album=Night Sessions",
				"-y", "/out/a.mp3",
			},
		},
		{
			name:   "bitrate wins over quality",
			format: model.Format{Ext: "mp3", Codec: "libmp3lame", Bitrate: "128k", Quality: "2"},
			expected: []string{
				"-f", "lavfi",
				"-i", "sine=frequency=440:duration=5:sample_rate=44100",
				"-c:a", "libmp3lame",
				"-b:a", "128k",
				"-metadata", "title=Echoes",
				"-metadata", "artist=Luna Echo",
				"-metadata", "album=Night Sessions",
				"-y", "/out/a.mp3",
			},
		},
		{
			name:   "lossless",
			format: model.Format{Ext: "wav", Codec: "pcm_s16le"},
			expected: []string{
				"-f", "lavfi",
				"-i", "sine=frequency=440:duration=5:sample_rate=44100",
				"-c:a", "pcm_s16le",
				"-metadata", "title=Echoes",
				"-metadata", "artist=Luna Echo",
				"-metadata", "album=Night Sessions",
				"-y", "/out/a.mp3",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := service.BuildToneArgs(ToneRequest{
				OutputPath: "/out/a.mp3",
				Frequency:  440,
				Duration:   5.0,
				SampleRate: 44100,
				Format:     tt.format,
				Title:      "Echoes",
				Artist:     "Luna Echo",
				Album:      "Night Sessions",
			})

			if len(args) != len(tt.expected) {
				t.Fatalf("Expected %d args, got %d: %v", len(tt.expected), len(args), args)
			}
			for i, expected := range tt.expected {
				if args[i] != expected {
					t.Errorf("Arg %d: expected %s, got %s", i, expected, args[i])
				}
			}
		})
	}
}

func TestBuildToneArgs_FractionalDuration(t *testing.T) {
	service := NewService(Options{})
	args := service.BuildToneArgs(ToneRequest{Frequency: 1000, Duration: 2.5, SampleRate: 22050})

	if args[3] != "sine=frequency=1000:duration=2.5:sample_rate=22050" {
		t.Errorf("Unexpected sine source: %s", args[3])
	}
}

func TestBuildCoverArgs(t *testing.T) {
	service := NewService(Options{})

	mp3Args, err := service.BuildCoverArgs("/out/a.mp3", "/out/a.mp3.temp_cover.jpg", "/out/a.temp.mp3")
	if err != nil {
		t.Fatalf("Expected mp3 to support covers: %v", err)
	}
	expectedMP3 := []string{
		"-i", "/out/a.mp3",
		"-i", "/out/a.mp3.temp_cover.jpg",
		"-map", "0:a",
		"-map", "1:0",
		"-c:a", "copy",
		"-c:v", "mjpeg",
		"-disposition:v", "attached_pic",
		"-y", "/out/a.temp.mp3",
	}
	if strings.Join(mp3Args, " ") != strings.Join(expectedMP3, " ") {
		t.Errorf("mp3 cover args = %v, expected %v", mp3Args, expectedMP3)
	}

	flacArgs, err := service.BuildCoverArgs("/out/a.FLAC", "c.jpg", "t.flac")
	if err != nil {
		t.Fatalf("Expected flac to support covers: %v", err)
	}
	if flacArgs[9] != "copy" || flacArgs[11] != "mjpeg" {
		t.Errorf("flac should copy audio and encode mjpeg, got %v", flacArgs)
	}

	oggArgs, err := service.BuildCoverArgs("/out/a.ogg", "c.jpg", "t.ogg")
	if err != nil {
		t.Fatalf("Expected ogg to support covers: %v", err)
	}
	expectedOgg := []string{
		"-i", "/out/a.ogg",
		"-i", "c.jpg",
		"-map", "0:a",
		"-map", "1:0",
		"-c:a", "libvorbis", "-q:a", "4",
		"-c:v", "copy",
		"-disposition:v", "attached_pic",
		"-metadata:s:v", "title=Album cover",
		"-metadata:s:v", "comment=Cover (front)",
		"-y", "t.ogg",
	}
	if strings.Join(oggArgs, "|") != strings.Join(expectedOgg, "|") {
		t.Errorf("ogg cover args = %v, expected %v", oggArgs, expectedOgg)
	}

	for _, path := range []string{"/out/a.wav", "/out/a.aiff", "/out/noext"} {
		if _, err := service.BuildCoverArgs(path, "c.jpg", "t"); !errors.Is(err, ErrCoverUnsupported) {
			t.Errorf("Expected ErrCoverUnsupported for %s, got %v", path, err)
		}
	}
}

func TestSupportsCover(t *testing.T) {
	tests := []struct {
		ext      string
		expected bool
	}{
		{"mp3", true},
		{".flac", true},
		{"ogg", true},
		{"wav", false},
		{"aiff", false},
	}

	for _, test := range tests {
		if result := SupportsCover(test.ext); result != test.expected {
			t.Errorf("SupportsCover(%s) = %v, expected %v", test.ext, result, test.expected)
		}
	}
}

func TestGenerateTone_PropagatesFailure(t *testing.T) {
	runner := &recordingRunner{err: &CommandError{Name: "ffmpeg", Stderr: []byte("Unknown encoder 'libmp3lame'"), Err: errors.New("exit status 1")}}
	service := NewService(Options{FFmpegPath: "/usr/bin/ffmpeg", Runner: runner})

	err := service.GenerateTone(context.Background(), ToneRequest{OutputPath: "/out/a.mp3", Format: model.Format{Codec: "libmp3lame"}})
	if err == nil {
		t.Fatal("Expected error from failing runner")
	}
	if runner.name != "/usr/bin/ffmpeg" {
		t.Errorf("Expected configured ffmpeg path, got %s", runner.name)
	}
	if tail := StderrTail(err, StderrTailBytes); !strings.Contains(tail, "Unknown encoder") {
		t.Errorf("Expected stderr tail in error, got %q", tail)
	}
}

func TestEmbedCover_ReplacesOriginal(t *testing.T) {
	dir := t.TempDir()
	audioPath := filepath.Join(dir, "track.mp3")
	if err := os.WriteFile(audioPath, []byte("tone"), 0644); err != nil {
		t.Fatalf("Failed to write audio: %v", err)
	}

	runner := &recordingRunner{}
	runner.onRun = func(args []string) {
		// the staged cover must exist while ffmpeg runs
		if _, err := os.Stat(args[3]); err != nil {
			t.Errorf("Temp cover missing during encode: %v", err)
		}
		_ = os.WriteFile(args[len(args)-1], []byte("tone+cover"), 0644)
	}
	service := NewService(Options{Runner: runner})

	if err := service.EmbedCover(context.Background(), audioPath, []byte("jpeg")); err != nil {
		t.Fatalf("EmbedCover failed: %v", err)
	}

	data, err := os.ReadFile(audioPath)
	if err != nil {
		t.Fatalf("Failed to read audio: %v", err)
	}
	if string(data) != "tone+cover" {
		t.Errorf("Expected original to be replaced, got %q", string(data))
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("Expected only the audio file to remain, got %d entries", len(entries))
	}
}

func TestEmbedCover_FailureKeepsOriginalAndCleansUp(t *testing.T) {
	dir := t.TempDir()
	audioPath := filepath.Join(dir, "track.flac")
	if err := os.WriteFile(audioPath, []byte("tone"), 0644); err != nil {
		t.Fatalf("Failed to write audio: %v", err)
	}

	runner := &recordingRunner{err: &CommandError{Name: "ffmpeg", Stderr: []byte("Invalid data"), Err: errors.New("exit status 1")}}
	runner.onRun = func(args []string) {
		// partial output left behind by a crashing encoder
		_ = os.WriteFile(args[len(args)-1], []byte("partial"), 0644)
	}
	service := NewService(Options{Runner: runner})

	if err := service.EmbedCover(context.Background(), audioPath, []byte("jpeg")); err == nil {
		t.Fatal("Expected EmbedCover to fail")
	}

	data, _ := os.ReadFile(audioPath)
	if string(data) != "tone" {
		t.Errorf("Original should be untouched, got %q", string(data))
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("Expected temp files to be removed, found %v", names)
	}
}

func TestEmbedCover_Unsupported(t *testing.T) {
	dir := t.TempDir()
	audioPath := filepath.Join(dir, "track.wav")
	runner := &recordingRunner{}
	service := NewService(Options{Runner: runner})

	err := service.EmbedCover(context.Background(), audioPath, []byte("jpeg"))
	if !errors.Is(err, ErrCoverUnsupported) {
		t.Errorf("Expected ErrCoverUnsupported, got %v", err)
	}
	if runner.name != "" {
		t.Error("Runner should not be called for unsupported containers")
	}
	if _, err := os.Stat(audioPath + ".temp_cover.jpg"); !os.IsNotExist(err) {
		t.Error("No temp cover should be written for unsupported containers")
	}
}

func TestProbeDuration(t *testing.T) {
	runner := &recordingRunner{stdout: []byte("5.014000\n")}
	service := NewService(Options{FFprobePath: "/usr/bin/ffprobe", Runner: runner})

	duration, err := service.ProbeDuration(context.Background(), "/out/a.mp3")
	if err != nil {
		t.Fatalf("ProbeDuration failed: %v", err)
	}
	if duration != 5.014 {
		t.Errorf("Expected 5.014, got %v", duration)
	}

	expected := []string{"-v", "error", "-show_entries", "format=duration", "-of", "csv=p=0", "/out/a.mp3"}
	if runner.name != "/usr/bin/ffprobe" || strings.Join(runner.args, " ") != strings.Join(expected, " ") {
		t.Errorf("Unexpected ffprobe call: %s %v", runner.name, runner.args)
	}

	runner.stdout = []byte("N/A")
	if _, err := service.ProbeDuration(context.Background(), "/out/a.wav"); err == nil {
		t.Error("Expected parse error for N/A duration")
	}
}

func TestCheckAvailable(t *testing.T) {
	runner := &recordingRunner{}
	service := NewService(Options{Runner: runner})

	if err := service.CheckAvailable(context.Background()); err != nil {
		t.Fatalf("Expected ffmpeg to be available: %v", err)
	}
	if len(runner.args) != 1 || runner.args[0] != "-version" {
		t.Errorf("Expected -version probe, got %v", runner.args)
	}

	runner.err = errors.New("exec: \"ffmpeg\": executable file not found in $PATH")
	if err := service.CheckAvailable(context.Background()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestCommandError_Tail(t *testing.T) {
	long := strings.Repeat("a", 600) + "END"
	err := &CommandError{Name: "ffmpeg", Stderr: []byte(long), Err: errors.New("exit status 1")}

	tail := err.Tail(StderrTailBytes)
	if len(tail) != StderrTailBytes {
		t.Errorf("Expected %d bytes, got %d", StderrTailBytes, len(tail))
	}
	if !strings.HasSuffix(tail, "END") {
		t.Error("Tail should keep the end of stderr")
	}

	short := &CommandError{Name: "ffmpeg", Stderr: []byte("oops"), Err: errors.New("exit status 1")}
	if short.Tail(StderrTailBytes) != "oops" {
		t.Errorf("Short stderr should be returned whole, got %q", short.Tail(StderrTailBytes))
	}
	if !strings.Contains(short.Error(), "oops") {
		t.Errorf("Error() should include stderr, got %q", short.Error())
	}

	wrapped := errors.Join(errors.New("context"), short)
	if StderrTail(wrapped, 10) != "oops" {
		t.Error("StderrTail should unwrap joined errors")
	}
	if StderrTail(errors.New("plain"), 10) != "" {
		t.Error("StderrTail of a plain error should be empty")
	}
}

func TestExecRunner_MissingBinary(t *testing.T) {
	_, err := ExecRunner{}.Run(context.Background(), filepath.Join(t.TempDir(), "no-such-ffmpeg"))
	if err == nil {
		t.Fatal("Expected error for missing binary")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
