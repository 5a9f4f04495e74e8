package filters

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/ironsheep/image-filters-mcp/internal/raster"
)

type transform func(*raster.Raster) (*raster.Raster, error)

func withRand(f func(*raster.Raster, *rand.Rand) (*raster.Raster, error)) transform {
	return func(r *raster.Raster) (*raster.Raster, error) {
		return f(r, rand.New(rand.NewPCG(1, 2)))
	}
}

var allTransforms = []struct {
	name   string
	fn     transform
	toGray bool
}{
	{"gaussian noise", withRand(GaussianNoise), false},
	{"salt and pepper", withRand(SaltPepperNoise), false},
	{"mean", DenoiseMean, false},
	{"median", DenoiseMedian, false},
	{"laplacian", SharpenLaplacian, false},
	{"unsharp", SharpenUnsharp, false},
	{"high-pass", SharpenHighPass, false},
	{"sobel", EdgeSobel, true},
	{"prewitt", EdgePrewitt, true},
	{"canny", EdgeCanny, true},
}

// randomRaster fills a raster with a fixed pseudo-random pattern.
func randomRaster(t *testing.T, height, width, channels int) *raster.Raster {
	t.Helper()
	r, err := raster.New(height, width, channels)
	require.NoError(t, err)
	rng := rand.New(rand.NewPCG(42, 42))
	for i := range r.Pix {
		r.Pix[i] = uint8(rng.IntN(256))
	}
	return r
}

// stepRaster is black for x < split and white from split on.
func stepRaster(t *testing.T, height, width, split int, low, high uint8) *raster.Raster {
	t.Helper()
	r, err := raster.New(height, width, raster.Color)
	require.NoError(t, err)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := low
			if x >= split {
				v = high
			}
			for c := 0; c < 3; c++ {
				r.Set(y, x, c, v)
			}
		}
	}
	return r
}

func flatRaster(t *testing.T, height, width int, px ...uint8) *raster.Raster {
	t.Helper()
	r, err := raster.Fill(height, width, px...)
	require.NoError(t, err)
	return r
}

func TestTransforms_PreserveShape(t *testing.T) {
	for _, channels := range []int{raster.Gray, raster.Color} {
		src := randomRaster(t, 7, 11, channels)
		orig := src.Clone()

		for _, tt := range allTransforms {
			t.Run(tt.name, func(t *testing.T) {
				out, err := tt.fn(src)
				require.NoError(t, err)
				require.NoError(t, out.Validate())

				assert.Equal(t, src.Height, out.Height)
				assert.Equal(t, src.Width, out.Width)
				if tt.toGray {
					assert.Equal(t, raster.Gray, out.Channels)
				} else {
					assert.Equal(t, src.Channels, out.Channels)
				}
				assert.Equal(t, orig, src, "input must not be modified")
			})
		}
	}
}

func TestTransforms_InvalidInput(t *testing.T) {
	bad := []struct {
		name string
		r    *raster.Raster
	}{
		{"nil", nil},
		{"empty", &raster.Raster{}},
		{"zero width", &raster.Raster{Height: 3, Width: 0, Channels: 3}},
		{"two channels", &raster.Raster{Height: 2, Width: 2, Channels: 2, Pix: make([]uint8, 8)}},
		{"four channels", &raster.Raster{Height: 2, Width: 2, Channels: 4, Pix: make([]uint8, 16)}},
		{"short buffer", &raster.Raster{Height: 2, Width: 2, Channels: 3, Pix: make([]uint8, 5)}},
	}

	for _, tt := range allTransforms {
		for _, b := range bad {
			t.Run(tt.name+"/"+b.name, func(t *testing.T) {
				out, err := tt.fn(b.r)
				assert.ErrorIs(t, err, raster.ErrInvalidImage)
				assert.Nil(t, out)
			})
		}
	}
}

func TestTransforms_SinglePixel(t *testing.T) {
	src := flatRaster(t, 1, 1, 10, 20, 30)
	for _, tt := range allTransforms {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.fn(src)
			require.NoError(t, err)
			assert.Equal(t, 1, out.Height)
			assert.Equal(t, 1, out.Width)
		})
	}
}

func TestTransforms_FlatImageUnchanged(t *testing.T) {
	src := flatRaster(t, 12, 12, 128, 64, 200)
	for _, fn := range []transform{DenoiseMean, DenoiseMedian, SharpenLaplacian, SharpenUnsharp, SharpenHighPass} {
		out, err := fn(src)
		require.NoError(t, err)
		assert.Equal(t, src, out)
	}
}

func TestGaussianNoise_Statistics(t *testing.T) {
	src := flatRaster(t, 64, 64, 128, 128, 128)
	out, err := GaussianNoise(src, rand.New(rand.NewPCG(7, 7)))
	require.NoError(t, err)

	samples := make([]float64, len(out.Pix))
	for i, v := range out.Pix {
		samples[i] = float64(v)
	}
	mean, std := stat.MeanStdDev(samples, nil)

	// truncation shifts the mean down by about half a level
	assert.InDelta(t, 127.5, mean, 1.0)
	assert.InDelta(t, GaussianNoiseSigma, std, 1.0)
}

func TestGaussianNoise_ClampedAtZero(t *testing.T) {
	src := flatRaster(t, 64, 64, 0, 0, 0)
	out, err := GaussianNoise(src, rand.New(rand.NewPCG(3, 9)))
	require.NoError(t, err)

	samples := make([]float64, len(out.Pix))
	zeros := 0
	for i, v := range out.Pix {
		samples[i] = float64(v)
		if v == 0 {
			zeros++
		}
	}
	mean := stat.Mean(samples, nil)

	// Half of the draws are negative and clamp to 0, so the mean is
	// biased up to roughly sigma/sqrt(2*pi) minus truncation.
	assert.Greater(t, mean, 6.0)
	assert.Less(t, mean, 9.5)
	assert.Greater(t, zeros, len(out.Pix)/2)
}

func TestGaussianNoise_NormalDrawsFromSource(t *testing.T) {
	src := flatRaster(t, 4, 4, 100, 100, 100)
	out, err := GaussianNoise(src, rand.New(rand.NewPCG(11, 13)))
	require.NoError(t, err)

	dist := distuv.Normal{Mu: 0, Sigma: GaussianNoiseSigma, Src: rand.New(rand.NewPCG(11, 13))}
	for i, v := range out.Pix {
		assert.Equal(t, truncate(100+dist.Rand()), v, "sample %d", i)
	}
}

func TestGaussianNoise_SameSeedSameOutput(t *testing.T) {
	src := randomRaster(t, 8, 8, raster.Color)
	a, err := GaussianNoise(src, rand.New(rand.NewPCG(5, 5)))
	require.NoError(t, err)
	b, err := GaussianNoise(src, rand.New(rand.NewPCG(5, 5)))
	require.NoError(t, err)
	c, err := GaussianNoise(src, rand.New(rand.NewPCG(6, 6)))
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestSaltPepperCount(t *testing.T) {
	r := flatRaster(t, 10, 10, 128, 128, 128)
	assert.Equal(t, 3, SaltPepperCount(r))

	g := flatRaster(t, 10, 10, 128)
	assert.Equal(t, 1, SaltPepperCount(g))

	big := flatRaster(t, 100, 100, 0, 0, 0)
	assert.Equal(t, 300, SaltPepperCount(big))
}

func TestSaltPepperNoise_Counts(t *testing.T) {
	src := flatRaster(t, 10, 10, 128, 128, 128)

	for seed := uint64(0); seed < 20; seed++ {
		out, err := SaltPepperNoise(src, rand.New(rand.NewPCG(seed, seed)))
		require.NoError(t, err)

		white, black, gray := 0, 0, 0
		for y := 0; y < out.Height; y++ {
			for x := 0; x < out.Width; x++ {
				b, g, r := out.At(y, x, 0), out.At(y, x, 1), out.At(y, x, 2)
				switch {
				case b == 255 && g == 255 && r == 255:
					white++
				case b == 0 && g == 0 && r == 0:
					black++
				case b == 128 && g == 128 && r == 128:
					gray++
				default:
					t.Fatalf("pixel (%d,%d) partially overwritten: %d,%d,%d", y, x, b, g, r)
				}
			}
		}

		// coordinates may repeat, so counts are upper bounds
		assert.LessOrEqual(t, white, 3)
		assert.LessOrEqual(t, black, 3)
		assert.GreaterOrEqual(t, black, 1, "pepper is applied last and always shows")
		assert.Equal(t, 100, white+black+gray)
	}

	assert.Equal(t, uint8(128), src.At(0, 0, 0), "input must not be modified")
}

func TestSaltPepperNoise_CanReachLastRowAndColumn(t *testing.T) {
	src := flatRaster(t, 2, 2, 128)
	hit := false
	for seed := uint64(0); seed < 200 && !hit; seed++ {
		out, err := SaltPepperNoise(src, rand.New(rand.NewPCG(seed, 1)))
		require.NoError(t, err)
		hit = out.At(1, 1, 0) != 128
	}
	assert.True(t, hit, "bottom-right pixel was never selected")
}

// neighborDifferenceEnergy is the sum of squared differences between
// horizontally and vertically adjacent samples.
func neighborDifferenceEnergy(r *raster.Raster) float64 {
	var sum float64
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			for c := 0; c < r.Channels; c++ {
				v := float64(r.At(y, x, c))
				if x+1 < r.Width {
					d := v - float64(r.At(y, x+1, c))
					sum += d * d
				}
				if y+1 < r.Height {
					d := v - float64(r.At(y+1, x, c))
					sum += d * d
				}
			}
		}
	}
	return sum
}

func TestDenoiseMean_RepeatedSmoothing(t *testing.T) {
	r := randomRaster(t, 24, 24, raster.Color)
	prev := neighborDifferenceEnergy(r)
	for i := 0; i < 3; i++ {
		var err error
		r, err = DenoiseMean(r)
		require.NoError(t, err)
		e := neighborDifferenceEnergy(r)
		assert.LessOrEqual(t, e, prev, "pass %d increased roughness", i+1)
		prev = e
	}
}

func TestDenoiseMean_Average(t *testing.T) {
	src := flatRaster(t, 9, 9, 0)
	src.Set(4, 4, 0, 250)

	out, err := DenoiseMean(src)
	require.NoError(t, err)

	// 250/25 inside the 5x5 window, untouched outside it
	assert.Equal(t, uint8(10), out.At(4, 4, 0))
	assert.Equal(t, uint8(10), out.At(2, 2, 0))
	assert.Equal(t, uint8(10), out.At(6, 6, 0))
	assert.Equal(t, uint8(0), out.At(1, 4, 0))
	assert.Equal(t, uint8(0), out.At(4, 7, 0))
}

func TestDenoiseMedian_RemovesImpulse(t *testing.T) {
	src := flatRaster(t, 10, 10, 100, 100, 100)
	src.Set(5, 5, 0, 255)
	src.Set(5, 5, 1, 255)
	src.Set(5, 5, 2, 255)
	src.Set(0, 0, 1, 0)

	out, err := DenoiseMedian(src)
	require.NoError(t, err)
	assert.Equal(t, flatRaster(t, 10, 10, 100, 100, 100), out)
}

func TestDenoiseMedian_IdempotentOnFiltered(t *testing.T) {
	src := stepRaster(t, 12, 12, 6, 20, 220)
	once, err := DenoiseMedian(src)
	require.NoError(t, err)
	twice, err := DenoiseMedian(once)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestSharpenLaplacian_Step(t *testing.T) {
	src := stepRaster(t, 8, 20, 10, 0, 200)
	out, err := SharpenLaplacian(src)
	require.NoError(t, err)

	// at the bright side of the boundary the Laplacian is -200, |.| = 200
	assert.Equal(t, uint8(0), out.At(4, 10, 0))
	assert.Equal(t, uint8(0), out.At(4, 9, 0))
	assert.Equal(t, uint8(200), out.At(4, 15, 0))
	assert.Equal(t, uint8(0), out.At(4, 3, 0))
}

func TestSharpenUnsharp_Overshoot(t *testing.T) {
	src := stepRaster(t, 20, 20, 10, 50, 150)
	out, err := SharpenUnsharp(src)
	require.NoError(t, err)

	assert.Greater(t, out.At(10, 10, 0), uint8(150), "bright side of edge should overshoot")
	assert.Less(t, out.At(10, 9, 0), uint8(50), "dark side of edge should undershoot")
}

func TestSharpenHighPass_Overshoot(t *testing.T) {
	src := stepRaster(t, 20, 20, 10, 50, 150)
	out, err := SharpenHighPass(src)
	require.NoError(t, err)

	assert.Greater(t, out.At(10, 10, 0), uint8(150))
	assert.Less(t, out.At(10, 9, 0), uint8(50))
}

func TestGaussianKernel(t *testing.T) {
	k := gaussianKernel(9, 10)
	require.Len(t, k, 9)

	var sum float64
	for i, w := range k {
		sum += w
		assert.InDelta(t, k[len(k)-1-i], w, 1e-12, "kernel should be symmetric")
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
	assert.Greater(t, k[4], k[0])
}

func TestGrayscale(t *testing.T) {
	tests := []struct {
		name    string
		b, g, r uint8
		want    uint8
	}{
		{"white", 255, 255, 255, 255},
		{"black", 0, 0, 0, 0},
		{"red", 0, 0, 255, 76},
		{"green", 0, 255, 0, 150},
		{"blue", 255, 0, 0, 29},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Grayscale(flatRaster(t, 2, 2, tt.b, tt.g, tt.r))
			require.NoError(t, err)
			assert.Equal(t, raster.Gray, out.Channels)
			assert.Equal(t, tt.want, out.At(1, 1, 0))
		})
	}

	gray := randomRaster(t, 3, 3, raster.Gray)
	out, err := Grayscale(gray)
	require.NoError(t, err)
	assert.Equal(t, gray, out)
}

func assertStepResponse(t *testing.T, out *raster.Raster, edgeColumns ...int) {
	t.Helper()
	isEdge := make(map[int]bool)
	for _, c := range edgeColumns {
		isEdge[c] = true
	}
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			want := uint8(0)
			if isEdge[x] {
				want = 255
			}
			if got := out.At(y, x, 0); got != want {
				t.Fatalf("pixel (%d,%d): got %d, want %d", y, x, got, want)
			}
		}
	}
}

func TestEdgeDetectors_FlatImage(t *testing.T) {
	src := flatRaster(t, 16, 16, 90, 140, 30)
	for _, fn := range []transform{EdgeSobel, EdgePrewitt, EdgeCanny} {
		out, err := fn(src)
		require.NoError(t, err)
		assertStepResponse(t, out)
	}
}

func TestEdgeSobel_Step(t *testing.T) {
	out, err := EdgeSobel(stepRaster(t, 10, 20, 10, 0, 255))
	require.NoError(t, err)
	assertStepResponse(t, out, 9, 10)
}

func TestEdgePrewitt_Step(t *testing.T) {
	out, err := EdgePrewitt(stepRaster(t, 10, 20, 10, 0, 255))
	require.NoError(t, err)
	assertStepResponse(t, out, 9, 10)

	// opposite polarity responds the same way
	out, err = EdgePrewitt(stepRaster(t, 10, 20, 10, 255, 0))
	require.NoError(t, err)
	assertStepResponse(t, out, 9, 10)
}

func TestEdgeCanny_Step(t *testing.T) {
	out, err := EdgeCanny(stepRaster(t, 10, 20, 10, 0, 255))
	require.NoError(t, err)
	assertStepResponse(t, out, 9)
}

func TestEdgeCanny_Thresholds(t *testing.T) {
	tests := []struct {
		name     string
		contrast uint8
		edges    []int
	}{
		// L1 magnitude at the step is 4*contrast
		{"below low", 20, nil},
		{"weak only", 40, nil},
		{"strong", 60, []int{9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := EdgeCanny(stepRaster(t, 10, 20, 10, 0, tt.contrast))
			require.NoError(t, err)
			assertStepResponse(t, out, tt.edges...)
		})
	}
}

func TestEdgeCanny_Deterministic(t *testing.T) {
	src := randomRaster(t, 30, 30, raster.Color)
	a, err := EdgeCanny(src)
	require.NoError(t, err)
	b, err := EdgeCanny(src)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	for _, v := range a.Pix {
		if v != 0 && v != 255 {
			t.Fatalf("canny output must be binary, got %d", v)
		}
	}
}
