// Package raster defines the in-memory pixel buffer that the image filters
// operate on, together with conversions to and from image.Image.
//
// A Raster stores 8-bit samples row-major with channels interleaved. Color
// rasters use blue-green-red channel order, grayscale rasters have a single
// channel. Rasters are treated as values: filters read their input and
// allocate a fresh output.
package raster

import (
	"errors"
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/clone"
)

// ErrInvalidImage reports an empty raster, non-positive dimensions, a pixel
// buffer of the wrong size or an unsupported channel count.
var ErrInvalidImage = errors.New("invalid image")

// Channel counts supported by Raster.
const (
	Gray  = 1
	Color = 3
)

// Raster is a dense Height x Width x Channels array of 8-bit samples.
type Raster struct {
	Height   int
	Width    int
	Channels int

	// Pix holds the samples. The sample for channel c of pixel (y, x) is at
	// Pix[(y*Width+x)*Channels+c].
	Pix []uint8
}

// New allocates a zeroed raster.
func New(height, width, channels int) (*Raster, error) {
	if height <= 0 || width <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidImage, width, height)
	}
	if channels != Gray && channels != Color {
		return nil, fmt.Errorf("%w: unsupported channel count %d", ErrInvalidImage, channels)
	}
	return &Raster{
		Height:   height,
		Width:    width,
		Channels: channels,
		Pix:      make([]uint8, height*width*channels),
	}, nil
}

// Validate checks the raster invariants.
func (r *Raster) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil raster", ErrInvalidImage)
	}
	if r.Height <= 0 || r.Width <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidImage, r.Width, r.Height)
	}
	if r.Channels != Gray && r.Channels != Color {
		return fmt.Errorf("%w: unsupported channel count %d", ErrInvalidImage, r.Channels)
	}
	if want := r.Height * r.Width * r.Channels; len(r.Pix) != want {
		return fmt.Errorf("%w: pixel buffer has %d samples, want %d", ErrInvalidImage, len(r.Pix), want)
	}
	return nil
}

// Len returns the number of samples (Height*Width*Channels).
func (r *Raster) Len() int {
	return r.Height * r.Width * r.Channels
}

// Offset returns the index in Pix of channel 0 of pixel (y, x).
func (r *Raster) Offset(y, x int) int {
	return (y*r.Width + x) * r.Channels
}

// At returns the sample at (y, x, c).
func (r *Raster) At(y, x, c int) uint8 {
	return r.Pix[r.Offset(y, x)+c]
}

// Set stores the sample at (y, x, c).
func (r *Raster) Set(y, x, c int, v uint8) {
	r.Pix[r.Offset(y, x)+c] = v
}

// Clone returns a deep copy.
func (r *Raster) Clone() *Raster {
	pix := make([]uint8, len(r.Pix))
	copy(pix, r.Pix)
	return &Raster{Height: r.Height, Width: r.Width, Channels: r.Channels, Pix: pix}
}

// NewLike allocates a zeroed raster with the same shape as r.
func NewLike(r *Raster) *Raster {
	return &Raster{
		Height:   r.Height,
		Width:    r.Width,
		Channels: r.Channels,
		Pix:      make([]uint8, len(r.Pix)),
	}
}

// Fill returns a raster with every sample of every pixel set from px, which
// must have one value per channel.
func Fill(height, width int, px ...uint8) (*Raster, error) {
	r, err := New(height, width, len(px))
	if err != nil {
		return nil, err
	}
	for i := 0; i < len(r.Pix); i += r.Channels {
		copy(r.Pix[i:i+r.Channels], px)
	}
	return r, nil
}

// FromImage converts img to a raster. Grayscale images (*image.Gray) become
// single-channel rasters; everything else becomes a 3-channel BGR raster with
// alpha discarded.
func FromImage(img image.Image) (*Raster, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidImage)
	}
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if g, ok := img.(*image.Gray); ok {
		r, err := New(height, width, Gray)
		if err != nil {
			return nil, err
		}
		for y := 0; y < height; y++ {
			row := g.Pix[y*g.Stride : y*g.Stride+width]
			copy(r.Pix[y*width:(y+1)*width], row)
		}
		return r, nil
	}

	r, err := New(height, width, Color)
	if err != nil {
		return nil, err
	}
	src := clone.AsRGBA(img)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*src.Stride + x*4
			o := r.Offset(y, x)
			r.Pix[o+0] = src.Pix[i+2]
			r.Pix[o+1] = src.Pix[i+1]
			r.Pix[o+2] = src.Pix[i+0]
		}
	}
	return r, nil
}

// Image converts the raster back to an image.Image: *image.Gray for single
// channel rasters, opaque *image.NRGBA for color rasters.
func (r *Raster) Image() image.Image {
	rect := image.Rect(0, 0, r.Width, r.Height)
	if r.Channels == Gray {
		g := image.NewGray(rect)
		for y := 0; y < r.Height; y++ {
			copy(g.Pix[y*g.Stride:y*g.Stride+r.Width], r.Pix[y*r.Width:(y+1)*r.Width])
		}
		return g
	}

	dst := image.NewNRGBA(rect)
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			o := r.Offset(y, x)
			i := y*dst.Stride + x*4
			dst.Pix[i+0] = r.Pix[o+2]
			dst.Pix[i+1] = r.Pix[o+1]
			dst.Pix[i+2] = r.Pix[o+0]
			dst.Pix[i+3] = 255
		}
	}
	return dst
}
