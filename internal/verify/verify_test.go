package verify

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// id3Tag builds a minimal ID3v2.3 tag with text frames and an optional APIC frame
func id3Tag(title, artist, album string, picture []byte) []byte {
	var frames bytes.Buffer
	writeFrame := func(id string, body []byte) {
		frames.WriteString(id)
		_ = binary.Write(&frames, binary.BigEndian, uint32(len(body)))
		frames.Write([]byte{0, 0}) // flags
		frames.Write(body)
	}
	text := func(id, value string) {
		if value != "" {
			writeFrame(id, append([]byte{0}, value...))
		}
	}

	text("TIT2", title)
	text("TPE1", artist)
	text("TALB", album)
	if picture != nil {
		var apic bytes.Buffer
		apic.WriteByte(0) // ISO-8859-1
		apic.WriteString("image/jpeg")
		apic.WriteByte(0)
		apic.WriteByte(3) // front cover
		apic.WriteByte(0) // empty description
		apic.Write(picture)
		writeFrame("APIC", apic.Bytes())
	}

	const padding = 16
	size := frames.Len() + 10 + padding
	header := []byte{'I', 'D', '3', 3, 0, 0,
		byte(size >> 21 & 0x7f), byte(size >> 14 & 0x7f), byte(size >> 7 & 0x7f), byte(size & 0x7f)}

	out := append(header, frames.Bytes()...)
	out = append(out, make([]byte, padding)...)
	return append(out, bytes.Repeat([]byte{0xff, 0xfb, 0x90, 0x00}, 8)...) // fake audio frames
}

func writeFile(t *testing.T, root, rel string, data []byte) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, 0644))
}

type fakeProber struct {
	durations map[string]float64
}

func (f fakeProber) ProbeDuration(ctx context.Context, path string) (float64, error) {
	d, ok := f.durations[filepath.Base(path)]
	if !ok {
		return 0, errors.New("N/A")
	}
	return d, nil
}

func problems(result *Result, rel string) []string {
	var out []string
	for _, issue := range result.Issues {
		if issue.Path == rel {
			out = append(out, issue.Problem)
		}
	}
	return out
}

func TestRun_ChecksTagsAndCovers(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Rock/good.mp3", id3Tag("Echoes", "Luna Echo", "Night Sessions", []byte{0xff, 0xd8, 0xff}))
	writeFile(t, root, "Rock/nocover.mp3", id3Tag("Echoes", "Luna Echo", "Night Sessions", nil))
	writeFile(t, root, "Rock/80s/untagged.mp3", id3Tag("", "", "Night Sessions", nil))
	writeFile(t, root, "Jazz/garbage.flac", []byte("not a flac file at all"))
	writeFile(t, root, "Jazz/tone.wav", []byte("RIFF....WAVEfmt "))
	writeFile(t, root, "Jazz/empty.aiff", nil)
	writeFile(t, root, "Jazz/notes.txt", []byte("ignored"))
	writeFile(t, root, "Jazz/leftover.temp.mp3", []byte("ignored"))
	writeFile(t, root, "Jazz/leftover.mp3.temp_cover.jpg", []byte("ignored"))

	result, err := Run(context.Background(), root, Options{CoverFormats: []string{"mp3", "flac"}})
	require.NoError(t, err)

	assert.Equal(t, 6, result.Files)
	assert.False(t, result.OK())
	assert.Empty(t, problems(result, "Rock/good.mp3"))
	assert.Equal(t, []string{ProblemMissingCover}, problems(result, "Rock/nocover.mp3"))
	assert.Equal(t, []string{ProblemMissingTitle, ProblemMissingArtist, ProblemMissingCover}, problems(result, "Rock/80s/untagged.mp3"))
	assert.Equal(t, []string{ProblemUnreadableTags}, problems(result, "Jazz/garbage.flac"))
	assert.Empty(t, problems(result, "Jazz/tone.wav"), "wav has no tag checks")
	assert.Equal(t, []string{ProblemEmpty}, problems(result, "Jazz/empty.aiff"))
}

func TestRun_Duration(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.wav", []byte("tone"))
	writeFile(t, root, "b.wav", []byte("tone"))
	writeFile(t, root, "c.wav", []byte("tone"))

	prober := fakeProber{durations: map[string]float64{"a.wav": 5.02, "b.wav": 4.1}}
	result, err := Run(context.Background(), root, Options{Prober: prober, Duration: 5, Tolerance: DefaultTolerance})
	require.NoError(t, err)

	assert.Empty(t, problems(result, "a.wav"))
	assert.Equal(t, []string{ProblemDurationDrift}, problems(result, "b.wav"))
	assert.Equal(t, []string{ProblemDurationUnknown}, problems(result, "c.wav"))
}

func TestRun_ZeroToleranceIsExact(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "exact.wav", []byte("tone"))
	writeFile(t, root, "close.wav", []byte("tone"))

	prober := fakeProber{durations: map[string]float64{"exact.wav": 5, "close.wav": 5.02}}
	result, err := Run(context.Background(), root, Options{Prober: prober, Duration: 5})
	require.NoError(t, err)

	assert.Empty(t, problems(result, "exact.wav"))
	assert.Equal(t, []string{ProblemDurationDrift}, problems(result, "close.wav"))

	_, err = Run(context.Background(), root, Options{Prober: prober, Duration: 5, Tolerance: -1})
	assert.ErrorIs(t, err, ErrInvalidTolerance)
}

func TestRun_Errors(t *testing.T) {
	_, err := Run(context.Background(), filepath.Join(t.TempDir(), "missing"), Options{})
	assert.Error(t, err)

	root := t.TempDir()
	writeFile(t, root, "a.wav", []byte("tone"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Run(ctx, root, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIssue_String(t *testing.T) {
	assert.Equal(t, "a.mp3: title tag is missing", Issue{Path: "a.mp3", Problem: ProblemMissingTitle}.String())
	assert.Equal(t, "a.wav: duration is off (got 1s)", Issue{Path: "a.wav", Problem: ProblemDurationDrift, Detail: "got 1s"}.String())
}
