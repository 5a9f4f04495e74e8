package filters

import (
	"fmt"
	"math"

	"github.com/ironsheep/image-filters-mcp/internal/raster"
)

// Gaussian blur parameters shared by the unsharp-mask and high-pass
// sharpeners.
const (
	SharpenBlurSize  = 9
	SharpenBlurSigma = 10.0
)

var laplacianKernel = [][]float64{
	{0, 1, 0},
	{1, -4, 1},
	{0, 1, 0},
}

// SharpenLaplacian subtracts the absolute Laplacian response from the image.
//
// The Laplacian is evaluated per channel in float64, its magnitude is
// saturated to 8 bits, and the result is subtracted from the original with
// saturation at 0. Flat regions are unchanged; edges darken.
func SharpenLaplacian(src *raster.Raster) (*raster.Raster, error) {
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("laplacian sharpen: %w", err)
	}
	lap := planeOf(src).correlate(laplacianKernel)

	out := raster.NewLike(src)
	for i, s := range src.Pix {
		edge := saturate(math.Abs(lap.v[i]))
		if edge >= s {
			out.Pix[i] = 0
		} else {
			out.Pix[i] = s - edge
		}
	}
	return out, nil
}

// SharpenUnsharp computes 1.5*original - 0.5*blurred, where blurred is the
// image convolved with a SharpenBlurSize x SharpenBlurSize Gaussian of sigma
// SharpenBlurSigma and rounded to 8 bits. The result is rounded and clamped.
func SharpenUnsharp(src *raster.Raster) (*raster.Raster, error) {
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("unsharp sharpen: %w", err)
	}
	blurred := gaussianBlur(planeOf(src)).saturate()

	p := newPlane(src.Height, src.Width, src.Channels)
	for i, s := range src.Pix {
		p.v[i] = 1.5*float64(s) - 0.5*float64(blurred.Pix[i])
	}
	return p.saturate(), nil
}

// SharpenHighPass adds the high-frequency component back onto the image:
// highPass = original - blur(original), result = original + highPass. The
// blur is the same Gaussian as SharpenUnsharp, kept in floating point. The
// result is rounded and clamped.
func SharpenHighPass(src *raster.Raster) (*raster.Raster, error) {
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("high-pass sharpen: %w", err)
	}
	orig := planeOf(src)
	blurred := gaussianBlur(orig)

	p := newPlane(src.Height, src.Width, src.Channels)
	for i, v := range orig.v {
		highPass := v - blurred.v[i]
		p.v[i] = v + highPass
	}
	return p.saturate(), nil
}

func gaussianBlur(p *plane) *plane {
	return p.separable(gaussianKernel(SharpenBlurSize, SharpenBlurSigma))
}
