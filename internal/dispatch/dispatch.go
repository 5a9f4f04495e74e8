// Package dispatch maps transform identifiers to the functions in package
// filters and runs them.
//
// Lookup is a flat table. Unknown identifiers fail with ErrUnknownTransform;
// the image is never passed through unchanged.
package dispatch

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"sync/atomic"

	"github.com/ironsheep/image-filters-mcp/internal/filters"
	"github.com/ironsheep/image-filters-mcp/internal/raster"
)

// ErrUnknownTransform is returned for identifiers outside the table.
var ErrUnknownTransform = errors.New("unknown transform")

// Identifier names a transform.
type Identifier string

// Supported transforms.
const (
	GaussianNoise    Identifier = "gaussian_noise"
	SaltPepperNoise  Identifier = "salt_pepper_noise"
	DenoiseMean      Identifier = "denoise_mean"
	DenoiseMedian    Identifier = "denoise_median"
	SharpenLaplacian Identifier = "sharpen_laplacian"
	SharpenUnsharp   Identifier = "sharpen_unsharp"
	SharpenHighPass  Identifier = "sharpen_highpass"
	EdgeSobel        Identifier = "edge_sobel"
	EdgePrewitt      Identifier = "edge_prewitt"
	EdgeCanny        Identifier = "edge_canny"
)

// Func is the common shape of every table entry. Deterministic transforms
// ignore rng.
type Func func(src *raster.Raster, rng *rand.Rand) (*raster.Raster, error)

type entry struct {
	fn          Func
	description string
}

func deterministic(f func(*raster.Raster) (*raster.Raster, error)) Func {
	return func(src *raster.Raster, _ *rand.Rand) (*raster.Raster, error) {
		return f(src)
	}
}

var table = map[Identifier]entry{
	GaussianNoise:    {filters.GaussianNoise, "Add Gaussian noise (mean 0, standard deviation 20) to every sample"},
	SaltPepperNoise:  {filters.SaltPepperNoise, "Set about 1% of pixels to white and 1% to black"},
	DenoiseMean:      {deterministic(filters.DenoiseMean), "Average each pixel over its 5x5 neighborhood"},
	DenoiseMedian:    {deterministic(filters.DenoiseMedian), "Replace each pixel with the median of its 5x5 neighborhood"},
	SharpenLaplacian: {deterministic(filters.SharpenLaplacian), "Subtract the absolute Laplacian edge map from the image"},
	SharpenUnsharp:   {deterministic(filters.SharpenUnsharp), "Unsharp mask: 1.5 x image - 0.5 x Gaussian blur (9x9, sigma 10)"},
	SharpenHighPass:  {deterministic(filters.SharpenHighPass), "Add the high-pass component (image - Gaussian blur) back onto the image"},
	EdgeSobel:        {deterministic(filters.EdgeSobel), "Sobel gradient magnitude of the grayscale image"},
	EdgePrewitt:      {deterministic(filters.EdgePrewitt), "Sum of Prewitt horizontal and vertical responses of the grayscale image"},
	EdgeCanny:        {deterministic(filters.EdgeCanny), "Canny edge map with thresholds 100 and 200"},
}

// Parse validates s as an Identifier.
func Parse(s string) (Identifier, error) {
	id := Identifier(s)
	if _, ok := table[id]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTransform, s)
	}
	return id, nil
}

// Identifiers returns every supported identifier in lexical order.
func Identifiers() []Identifier {
	ids := make([]Identifier, 0, len(table))
	for id := range table {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Describe returns a one-line description of id, or "" if id is unknown.
func Describe(id Identifier) string {
	return table[id].description
}

// Dispatcher runs transforms by identifier. Each call gets its own random
// generator, so a Dispatcher may be shared between goroutines.
type Dispatcher struct {
	seed    uint64
	seeded  bool
	counter atomic.Uint64
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithSeed makes the random generators deterministic. The n-th call on the
// dispatcher uses a PCG stream seeded with (seed, n).
func WithSeed(seed uint64) Option {
	return func(d *Dispatcher) {
		d.seed = seed
		d.seeded = true
	}
}

// New creates a Dispatcher. Without WithSeed every call is seeded from the
// runtime's random source.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch runs the transform named id on src.
func (d *Dispatcher) Dispatch(id Identifier, src *raster.Raster) (*raster.Raster, error) {
	e, ok := table[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransform, string(id))
	}
	return e.fn(src, d.newRand())
}

// DispatchString parses name and runs the transform.
func (d *Dispatcher) DispatchString(name string, src *raster.Raster) (*raster.Raster, error) {
	id, err := Parse(name)
	if err != nil {
		return nil, err
	}
	return d.Dispatch(id, src)
}

func (d *Dispatcher) newRand() *rand.Rand {
	if d.seeded {
		return rand.New(rand.NewPCG(d.seed, d.counter.Add(1)))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
