package filters

import (
	"math"

	"github.com/ironsheep/image-filters-mcp/internal/raster"
)

// plane is a float64 copy of a raster, laid out like raster.Raster.Pix.
type plane struct {
	h, w, c int
	v       []float64
}

func newPlane(h, w, c int) *plane {
	return &plane{h: h, w: w, c: c, v: make([]float64, h*w*c)}
}

func planeOf(r *raster.Raster) *plane {
	p := newPlane(r.Height, r.Width, r.Channels)
	for i, s := range r.Pix {
		p.v[i] = float64(s)
	}
	return p
}

// at reads (y, x, ch) with replicated borders.
func (p *plane) at(y, x, ch int) float64 {
	y = clamp(y, 0, p.h-1)
	x = clamp(x, 0, p.w-1)
	return p.v[(y*p.w+x)*p.c+ch]
}

// correlate applies k (odd, square, anchored at its center) to every channel.
// The kernel is not flipped.
func (p *plane) correlate(k [][]float64) *plane {
	r := len(k) / 2
	out := newPlane(p.h, p.w, p.c)
	for y := 0; y < p.h; y++ {
		for x := 0; x < p.w; x++ {
			for ch := 0; ch < p.c; ch++ {
				var sum float64
				for ky := -r; ky <= r; ky++ {
					for kx := -r; kx <= r; kx++ {
						sum += p.at(y+ky, x+kx, ch) * k[ky+r][kx+r]
					}
				}
				out.v[(y*p.w+x)*p.c+ch] = sum
			}
		}
	}
	return out
}

// separable applies the 1D kernel k along rows and then along columns.
func (p *plane) separable(k []float64) *plane {
	r := len(k) / 2
	tmp := newPlane(p.h, p.w, p.c)
	for y := 0; y < p.h; y++ {
		for x := 0; x < p.w; x++ {
			for ch := 0; ch < p.c; ch++ {
				var sum float64
				for i := -r; i <= r; i++ {
					sum += p.at(y, x+i, ch) * k[i+r]
				}
				tmp.v[(y*p.w+x)*p.c+ch] = sum
			}
		}
	}
	out := newPlane(p.h, p.w, p.c)
	for y := 0; y < p.h; y++ {
		for x := 0; x < p.w; x++ {
			for ch := 0; ch < p.c; ch++ {
				var sum float64
				for i := -r; i <= r; i++ {
					sum += tmp.at(y+i, x, ch) * k[i+r]
				}
				out.v[(y*p.w+x)*p.c+ch] = sum
			}
		}
	}
	return out
}

// saturate rounds each value to nearest and clamps it to [0, 255].
func (p *plane) saturate() *raster.Raster {
	out := &raster.Raster{Height: p.h, Width: p.w, Channels: p.c, Pix: make([]uint8, len(p.v))}
	for i, v := range p.v {
		out.Pix[i] = saturate(v)
	}
	return out
}

// truncate clamps each value to [0, 255] and drops the fraction.
func (p *plane) truncate() *raster.Raster {
	out := &raster.Raster{Height: p.h, Width: p.w, Channels: p.c, Pix: make([]uint8, len(p.v))}
	for i, v := range p.v {
		out.Pix[i] = truncate(v)
	}
	return out
}

func saturate(v float64) uint8 {
	v = math.RoundToEven(v)
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

func truncate(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

// gaussianKernel returns a normalized 1D Gaussian of the given odd size.
func gaussianKernel(size int, sigma float64) []float64 {
	k := make([]float64, size)
	r := size / 2
	var sum float64
	for i := range k {
		d := float64(i - r)
		k[i] = math.Exp(-d * d / (2 * sigma * sigma))
		sum += k[i]
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// clamp constrains an integer value to the range [min, max].
// Used for boundary handling in convolution operations.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
