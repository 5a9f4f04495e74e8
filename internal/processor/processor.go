// Package processor runs one transform on one image file: load, convert to a
// raster, dispatch, convert back and save. The MCP server, the HTTP server
// and the command line all go through Processor.
package processor

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/ironsheep/image-filters-mcp/internal/dispatch"
	"github.com/ironsheep/image-filters-mcp/internal/filters"
	"github.com/ironsheep/image-filters-mcp/internal/imaging"
	"github.com/ironsheep/image-filters-mcp/internal/raster"
)

// Request describes one transform invocation.
type Request struct {
	// InputPath is the image to read.
	InputPath string

	// OutputPath is where the result is written. Its extension selects the
	// output format.
	OutputPath string

	// Transform is one of the dispatch identifiers.
	Transform string

	// PreviewSize, when positive, adds a base64 PNG preview fitted inside a
	// PreviewSize x PreviewSize box to the result.
	PreviewSize int
}

// Result describes the written output.
type Result struct {
	Transform  string                 `json:"transform"`
	InputPath  string                 `json:"input_path"`
	OutputPath string                 `json:"output_path"`
	Width      int                    `json:"width"`
	Height     int                    `json:"height"`
	Channels   int                    `json:"channels"`
	DurationMS int64                  `json:"duration_ms"`
	Summary    *imaging.Summary       `json:"summary"`
	Difference *imaging.Difference    `json:"difference,omitempty"`
	Preview    *imaging.PreviewResult `json:"preview,omitempty"`
}

// Processor ties the image cache to the dispatcher.
type Processor struct {
	cache      *imaging.ImageCache
	dispatcher *dispatch.Dispatcher
	log        zerolog.Logger
}

// New creates a Processor.
func New(cache *imaging.ImageCache, dispatcher *dispatch.Dispatcher, log zerolog.Logger) *Processor {
	return &Processor{
		cache:      cache,
		dispatcher: dispatcher,
		log:        log.With().Str("component", "processor").Logger(),
	}
}

// Cache returns the image cache used for loading inputs.
func (p *Processor) Cache() *imaging.ImageCache {
	return p.cache
}

// Process runs req. The transform identifier is validated before the input
// is read, so an unknown transform never touches the file system.
func (p *Processor) Process(req Request) (*Result, error) {
	id, err := dispatch.Parse(req.Transform)
	if err != nil {
		return nil, err
	}
	if req.OutputPath == "" {
		return nil, fmt.Errorf("output path is required")
	}

	start := time.Now()

	src, err := p.cache.LoadRaster(req.InputPath)
	if err != nil {
		return nil, err
	}

	out, err := p.dispatcher.Dispatch(id, src)
	if err != nil {
		return nil, fmt.Errorf("%s on %s: %w", id, filepath.Base(req.InputPath), err)
	}

	img := out.Image()
	if err := imaging.Save(img, req.OutputPath); err != nil {
		return nil, err
	}
	p.cache.Evict(req.OutputPath)

	summary, err := imaging.Summarize(out)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Transform:  string(id),
		InputPath:  req.InputPath,
		OutputPath: req.OutputPath,
		Width:      out.Width,
		Height:     out.Height,
		Channels:   out.Channels,
		Summary:    summary,
	}

	if diff, err := imaging.Compare(baseline(src, out), out); err == nil {
		res.Difference = diff
	}

	if req.PreviewSize > 0 {
		preview, err := imaging.Preview(img, req.PreviewSize)
		if err != nil {
			return nil, err
		}
		res.Preview = preview
	}

	res.DurationMS = time.Since(start).Milliseconds()

	p.log.Info().
		Str("transform", res.Transform).
		Str("input", req.InputPath).
		Str("output", req.OutputPath).
		Int("width", res.Width).
		Int("height", res.Height).
		Int("channels", res.Channels).
		Int64("duration_ms", res.DurationMS).
		Msg("transform applied")

	return res, nil
}

// baseline returns src in the channel layout of out, converting color input
// to grayscale for the edge detectors.
func baseline(src, out *raster.Raster) *raster.Raster {
	if src.Channels == out.Channels {
		return src
	}
	if out.Channels == raster.Gray {
		if gray, err := filters.Grayscale(src); err == nil {
			return gray
		}
	}
	return src
}
