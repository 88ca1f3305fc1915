package cover

import (
	"bytes"
	"crypto/md5"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"math/rand"
)

// Cover defaults
const (
	DefaultSize      = 300
	DefaultBlockSize = 30
	DefaultQuality   = 90

	// MarkerBlocks is the side of the centre marker in blocks
	MarkerBlocks = 3
	// fillThreshold: a cell is black when the draw is above it
	fillThreshold = 0.5
)

// ErrInvalidGeometry is returned when the block grid does not fit the image
var ErrInvalidGeometry = errors.New("invalid cover geometry")

// Options controls the cover geometry
type Options struct {
	Size      int // Image side in pixels
	BlockSize int // Cell side in pixels
}

// DefaultOptions returns the 300px / 30px layout
func DefaultOptions() Options {
	return Options{Size: DefaultSize, BlockSize: DefaultBlockSize}
}

// SeedFor builds the seed string for a track cover
func SeedFor(relPath string, frequency int) string {
	return fmt.Sprintf("%s_%d", relPath, frequency)
}

// rngFor derives a deterministic source from the first four bytes of the seed's MD5
func rngFor(seed string) *rand.Rand {
	sum := md5.Sum([]byte(seed))
	return rand.New(rand.NewSource(int64(binary.BigEndian.Uint32(sum[:4]))))
}

// Generate draws a QR-like black and white block pattern for seed.
// The same seed and options always yield the same pixels.
func Generate(seed string, opts Options) (*image.RGBA, error) {
	if opts.Size <= 0 || opts.BlockSize <= 0 || opts.BlockSize > opts.Size {
		return nil, fmt.Errorf("%w: size %d, block %d", ErrInvalidGeometry, opts.Size, opts.BlockSize)
	}

	rng := rngFor(seed)
	img := image.NewRGBA(image.Rect(0, 0, opts.Size, opts.Size))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	black := image.NewUniform(color.Black)
	grid := opts.Size / opts.BlockSize
	for y := 0; y < grid; y++ {
		for x := 0; x < grid; x++ {
			if rng.Float64() <= fillThreshold {
				continue
			}
			cell := image.Rect(x*opts.BlockSize, y*opts.BlockSize, (x+1)*opts.BlockSize, (y+1)*opts.BlockSize)
			draw.Draw(img, cell, black, image.Point{}, draw.Src)
		}
	}

	drawMarker(img, opts)
	return img, nil
}

// drawMarker paints the white centre square with a black outline
func drawMarker(img *image.RGBA, opts Options) {
	center := opts.Size / 2
	half := opts.BlockSize * MarkerBlocks / 2
	outer := image.Rect(center-half, center-half, center+half+1, center+half+1).Intersect(img.Bounds())

	draw.Draw(img, outer, image.NewUniform(color.White), image.Point{}, draw.Src)

	width := opts.BlockSize / 3
	if width <= 0 {
		return
	}
	black := image.NewUniform(color.Black)
	edges := []image.Rectangle{
		image.Rect(outer.Min.X, outer.Min.Y, outer.Max.X, outer.Min.Y+width), // top
		image.Rect(outer.Min.X, outer.Max.Y-width, outer.Max.X, outer.Max.Y), // bottom
		image.Rect(outer.Min.X, outer.Min.Y, outer.Min.X+width, outer.Max.Y), // left
		image.Rect(outer.Max.X-width, outer.Min.Y, outer.Max.X, outer.Max.Y), // right
	}
	for _, edge := range edges {
		draw.Draw(img, edge.Intersect(outer), black, image.Point{}, draw.Src)
	}
}

// EncodeJPEG encodes img with the given quality (1-100)
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode cover: %w", err)
	}
	return buf.Bytes(), nil
}

// Render generates and encodes the cover for seed in one step
func Render(seed string, opts Options, quality int) ([]byte, error) {
	img, err := Generate(seed, opts)
	if err != nil {
		return nil, err
	}
	return EncodeJPEG(img, quality)
}
