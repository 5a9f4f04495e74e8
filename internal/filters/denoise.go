package filters

import (
	"fmt"
	"slices"

	"github.com/ironsheep/image-filters-mcp/internal/raster"
)

// DenoiseKernelSize is the side length of the mean and median windows.
const DenoiseKernelSize = 5

// DenoiseMean replaces every sample with the unweighted average of its
// DenoiseKernelSize x DenoiseKernelSize neighborhood (box blur), rounded to
// nearest. Channels are filtered independently.
func DenoiseMean(src *raster.Raster) (*raster.Raster, error) {
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("mean denoise: %w", err)
	}
	return planeOf(src).correlate(boxKernel(DenoiseKernelSize)).saturate(), nil
}

// DenoiseMedian replaces every sample with the median of its
// DenoiseKernelSize x DenoiseKernelSize neighborhood, per channel.
func DenoiseMedian(src *raster.Raster) (*raster.Raster, error) {
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("median denoise: %w", err)
	}
	return medianFilter(src, DenoiseKernelSize), nil
}

// medianFilter requires an odd size.
func medianFilter(src *raster.Raster, size int) *raster.Raster {
	r := size / 2
	out := raster.NewLike(src)
	window := make([]uint8, 0, size*size)

	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			for c := 0; c < src.Channels; c++ {
				window = window[:0]
				for ky := -r; ky <= r; ky++ {
					py := clamp(y+ky, 0, src.Height-1)
					for kx := -r; kx <= r; kx++ {
						px := clamp(x+kx, 0, src.Width-1)
						window = append(window, src.At(py, px, c))
					}
				}
				slices.Sort(window)
				out.Set(y, x, c, window[len(window)/2])
			}
		}
	}
	return out
}

func boxKernel(size int) [][]float64 {
	w := 1 / float64(size*size)
	k := make([][]float64, size)
	for i := range k {
		k[i] = make([]float64, size)
		for j := range k[i] {
			k[i][j] = w
		}
	}
	return k
}
