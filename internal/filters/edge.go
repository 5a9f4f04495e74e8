package filters

import (
	"fmt"
	"math"

	"github.com/ironsheep/image-filters-mcp/internal/raster"
)

var (
	sobelX = [][]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY = [][]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}

	prewittX = [][]float64{
		{1, 0, -1},
		{1, 0, -1},
		{1, 0, -1},
	}
	prewittY = [][]float64{
		{1, 1, 1},
		{0, 0, 0},
		{-1, -1, -1},
	}
)

// Grayscale converts a color raster to a single-channel luminance raster.
// A single-channel raster is copied unchanged.
func Grayscale(src *raster.Raster) (*raster.Raster, error) {
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("grayscale: %w", err)
	}
	if src.Channels == raster.Gray {
		return src.Clone(), nil
	}

	// BT.601 weights scaled by 1<<14.
	const (
		wB    = 1868
		wG    = 9617
		wR    = 4899
		shift = 14
	)
	out := &raster.Raster{
		Height:   src.Height,
		Width:    src.Width,
		Channels: raster.Gray,
		Pix:      make([]uint8, src.Height*src.Width),
	}
	for i := range out.Pix {
		b := int(src.Pix[i*3+0])
		g := int(src.Pix[i*3+1])
		r := int(src.Pix[i*3+2])
		out.Pix[i] = uint8((b*wB + g*wG + r*wR + 1<<(shift-1)) >> shift)
	}
	return out, nil
}

// EdgeSobel returns the Sobel gradient magnitude sqrt(gx² + gy²) of the
// grayscale image, rounded and saturated to 8 bits. The output has one
// channel.
func EdgeSobel(src *raster.Raster) (*raster.Raster, error) {
	gray, err := Grayscale(src)
	if err != nil {
		return nil, fmt.Errorf("sobel: %w", err)
	}
	p := planeOf(gray)
	gx := p.correlate(sobelX)
	gy := p.correlate(sobelY)

	mag := newPlane(p.h, p.w, 1)
	for i := range mag.v {
		mag.v[i] = math.Sqrt(gx.v[i]*gx.v[i] + gy.v[i]*gy.v[i])
	}
	return mag.saturate(), nil
}

// EdgePrewitt correlates the grayscale image with the horizontal and vertical
// Prewitt kernels, sums the two signed responses and returns the absolute
// value rounded and saturated to 8 bits. The output has one channel.
//
// The kernels are applied without flipping, so a dark-to-bright step from
// left to right gives a negative horizontal response; taking the absolute
// value after the sum makes both step polarities visible.
func EdgePrewitt(src *raster.Raster) (*raster.Raster, error) {
	gray, err := Grayscale(src)
	if err != nil {
		return nil, fmt.Errorf("prewitt: %w", err)
	}
	p := planeOf(gray)
	px := p.correlate(prewittX)
	py := p.correlate(prewittY)

	sum := newPlane(p.h, p.w, 1)
	for i := range sum.v {
		sum.v[i] = math.Abs(px.v[i] + py.v[i])
	}
	return sum.saturate(), nil
}
