package filters

import (
	"fmt"
	"math"

	"github.com/ironsheep/image-filters-mcp/internal/raster"
)

// Hysteresis thresholds used by EdgeCanny. They apply to the L1 gradient
// magnitude |gx| + |gy| of 3x3 Sobel responses on 8-bit luminance, which
// ranges from 0 to 2040.
const (
	CannyLowThreshold  = 100
	CannyHighThreshold = 200
)

var (
	tan22 = math.Tan(math.Pi / 8)
	tan67 = math.Tan(3 * math.Pi / 8)
)

// EdgeCanny runs Canny edge detection with CannyLowThreshold and
// CannyHighThreshold and returns a single-channel map where edge pixels are
// 255 and everything else is 0.
//
// # Algorithm
//
//  1. Grayscale conversion (see Grayscale). No pre-blur is applied.
//
//  2. Gradient computation: 3x3 Sobel operators for X and Y gradients,
//     magnitude = |Gx| + |Gy|
//
//  3. Non-maximum suppression: the gradient direction is quantized to
//     horizontal, vertical or one of the two diagonals, and a pixel is kept
//     only if its magnitude is a local maximum along that direction.
//     Magnitudes outside the image count as 0.
//
//  4. Hysteresis thresholding:
//     - Kept pixels above the high threshold are strong edges
//     - Kept pixels above the low threshold are weak edges, retained only if
//     8-connected (directly or through other weak edges) to a strong edge
//     - Everything else is discarded
func EdgeCanny(src *raster.Raster) (*raster.Raster, error) {
	gray, err := Grayscale(src)
	if err != nil {
		return nil, fmt.Errorf("canny: %w", err)
	}
	return canny(gray, CannyLowThreshold, CannyHighThreshold), nil
}

// edge classification during hysteresis
const (
	cannyNone uint8 = iota
	cannyWeak
	cannyEdge
)

func canny(gray *raster.Raster, low, high float64) *raster.Raster {
	width, height := gray.Width, gray.Height
	p := planeOf(gray)
	gx := p.correlate(sobelX)
	gy := p.correlate(sobelY)

	magnitude := make([]float64, width*height)
	for i := range magnitude {
		magnitude[i] = math.Abs(gx.v[i]) + math.Abs(gy.v[i])
	}
	mag := func(y, x int) float64 {
		if y < 0 || y >= height || x < 0 || x >= width {
			return 0
		}
		return magnitude[y*width+x]
	}

	state := make([]uint8, width*height)
	var stack []int

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			m := magnitude[i]
			if m <= low {
				continue
			}

			dx, dy := gx.v[i], gy.v[i]
			ax, ay := math.Abs(dx), math.Abs(dy)

			var isMax bool
			switch {
			case ay < ax*tan22:
				isMax = m > mag(y, x-1) && m >= mag(y, x+1)
			case ay > ax*tan67:
				isMax = m > mag(y-1, x) && m >= mag(y+1, x)
			default:
				s := 1
				if (dx < 0) != (dy < 0) {
					s = -1
				}
				isMax = m > mag(y-1, x-s) && m > mag(y+1, x+s)
			}
			if !isMax {
				continue
			}

			if m > high {
				state[i] = cannyEdge
				stack = append(stack, i)
			} else {
				state[i] = cannyWeak
			}
		}
	}

	// Grow strong edges into connected weak ones.
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		y, x := i/width, i%width
		for ky := -1; ky <= 1; ky++ {
			for kx := -1; kx <= 1; kx++ {
				ny, nx := y+ky, x+kx
				if ny < 0 || ny >= height || nx < 0 || nx >= width {
					continue
				}
				j := ny*width + nx
				if state[j] == cannyWeak {
					state[j] = cannyEdge
					stack = append(stack, j)
				}
			}
		}
	}

	out := raster.NewLike(gray)
	for i, st := range state {
		if st == cannyEdge {
			out.Pix[i] = 255
		}
	}
	return out
}
