package filters

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/ironsheep/image-filters-mcp/internal/raster"
)

const (
	// GaussianNoiseSigma is the standard deviation of the additive noise.
	GaussianNoiseSigma = 20.0

	// SaltPepperAmount is the fraction of samples targeted by each of the
	// salt and pepper passes, before the 0.5 split.
	SaltPepperAmount = 0.02
)

// GaussianNoise adds an independent N(0, GaussianNoiseSigma) draw to every
// sample, clamps to [0, 255] and truncates.
//
// Because of the clamp, noise on a black image is biased upward: negative
// draws become 0, so the sample mean is about sigma/sqrt(2π) ≈ 8 rather
// than 0.
func GaussianNoise(src *raster.Raster, rng *rand.Rand) (*raster.Raster, error) {
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("gaussian noise: %w", err)
	}
	dist := distuv.Normal{Mu: 0, Sigma: GaussianNoiseSigma, Src: rng}

	p := planeOf(src)
	for i := range p.v {
		p.v[i] += dist.Rand()
	}
	return p.truncate(), nil
}

// SaltPepperNoise sets ceil(SaltPepperAmount*0.5*N) randomly chosen pixels to
// white and the same number to black, where N is the sample count
// (Height*Width*Channels). All channels of a chosen pixel are overwritten.
//
// Coordinates are drawn with replacement, so a pixel may be hit more than
// once and fewer distinct pixels than requested may change. Pepper is applied
// after salt and wins where the two collide.
func SaltPepperNoise(src *raster.Raster, rng *rand.Rand) (*raster.Raster, error) {
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("salt and pepper noise: %w", err)
	}
	out := src.Clone()
	n := SaltPepperCount(src)

	paint := func(v uint8) {
		for i := 0; i < n; i++ {
			y := rng.IntN(out.Height)
			x := rng.IntN(out.Width)
			o := out.Offset(y, x)
			for c := 0; c < out.Channels; c++ {
				out.Pix[o+c] = v
			}
		}
	}
	paint(255)
	paint(0)

	return out, nil
}

// SaltPepperCount returns the number of coordinates drawn by each of the salt
// and pepper passes for r.
func SaltPepperCount(r *raster.Raster) int {
	return int(math.Ceil(SaltPepperAmount * float64(r.Len()) * 0.5))
}
