package cover

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isBlack(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r == 0 && g == 0 && b == 0
}

func isWhite(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r == 0xffff && g == 0xffff && b == 0xffff
}

func TestSeedFor(t *testing.T) {
	assert.Equal(t, "Rock/80s/track_0001_440Hz_44100Hz.mp3_440", SeedFor("Rock/80s/track_0001_440Hz_44100Hz.mp3", 440))
}

func TestGenerate_Deterministic(t *testing.T) {
	a, err := Generate("Rock_440", DefaultOptions())
	require.NoError(t, err)
	b, err := Generate("Rock_440", DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, a.Pix, b.Pix, "same seed must produce identical pixels")

	c, err := Generate("Rock_441", DefaultOptions())
	require.NoError(t, err)
	assert.NotEqual(t, a.Pix, c.Pix, "different seeds should produce different patterns")
}

func TestGenerate_CellsAreUniform(t *testing.T) {
	opts := DefaultOptions()
	img, err := Generate("Jazz/track_0003_612Hz_48000Hz.flac_612", opts)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, opts.Size, opts.Size), img.Bounds())

	marker := markerBounds(opts)
	grid := opts.Size / opts.BlockSize
	blackCells := 0
	for y := 0; y < grid; y++ {
		for x := 0; x < grid; x++ {
			cell := image.Rect(x*opts.BlockSize, y*opts.BlockSize, (x+1)*opts.BlockSize, (y+1)*opts.BlockSize)
			if cell.Overlaps(marker) {
				continue
			}
			first := img.At(cell.Min.X, cell.Min.Y)
			require.True(t, isBlack(first) || isWhite(first), "cell (%d,%d) must be black or white", x, y)
			for py := cell.Min.Y; py < cell.Max.Y; py++ {
				for px := cell.Min.X; px < cell.Max.X; px++ {
					require.Equal(t, first, img.At(px, py), "cell (%d,%d) is not uniform", x, y)
				}
			}
			if isBlack(first) {
				blackCells++
			}
		}
	}

	assert.Greater(t, blackCells, 0)
	assert.Less(t, blackCells, grid*grid)
}

func markerBounds(opts Options) image.Rectangle {
	center := opts.Size / 2
	half := opts.BlockSize * MarkerBlocks / 2
	return image.Rect(center-half, center-half, center+half+1, center+half+1)
}

func TestGenerate_CentreMarker(t *testing.T) {
	opts := DefaultOptions()
	img, err := Generate("marker", opts)
	require.NoError(t, err)

	marker := markerBounds(opts)
	width := opts.BlockSize / 3

	// outline
	assert.True(t, isBlack(img.At(marker.Min.X, marker.Min.Y)))
	assert.True(t, isBlack(img.At(marker.Max.X-1, marker.Max.Y-1)))
	assert.True(t, isBlack(img.At(marker.Min.X+width-1, opts.Size/2)))
	// inside the outline
	assert.True(t, isWhite(img.At(opts.Size/2, opts.Size/2)))
	assert.True(t, isWhite(img.At(marker.Min.X+width, marker.Min.Y+width)))
}

func TestGenerate_InvalidGeometry(t *testing.T) {
	tests := []Options{
		{Size: 0, BlockSize: 30},
		{Size: 300, BlockSize: 0},
		{Size: 20, BlockSize: 30},
	}
	for _, opts := range tests {
		_, err := Generate("x", opts)
		assert.True(t, errors.Is(err, ErrInvalidGeometry), "options %+v", opts)
	}
}

func TestRender_ProducesDecodableJPEG(t *testing.T) {
	data, err := Render("OST_800", DefaultOptions(), DefaultQuality)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, DefaultSize, img.Bounds().Dx())
	assert.Equal(t, DefaultSize, img.Bounds().Dy())
}
