package glyphmosaic

import (
	"context"
	"fmt"
	"image"
	"io"
	"math/rand/v2"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/wbrown/glyphmosaic/imageutil"
)

const (
	// DefaultTileSize is the tile side in pixels.
	DefaultTileSize = 15

	// DefaultGlyphs is the glyph set used when none is given.
	DefaultGlyphs = "@"
)

// Converter turns images into glyph mosaics. A Converter holds only
// configuration and a rasterizer, so one value can serve concurrent
// Convert calls as long as its rasterizer is concurrency-safe.
type Converter struct {
	TileSize int
	Glyphs   string
	Mode     SelectionMode
	Workers  int
	Filter   imageutil.Interpolation
	Anchor   imageutil.Anchor
	Sharpen  bool

	seed       uint64
	seeded     bool
	rasterizer GlyphRasterizer
	logger     logrus.FieldLogger
}

// ConverterOption is a functional option for configuring a Converter.
type ConverterOption func(*Converter)

// NewConverter creates a Converter rendering glyphs with r.
// Defaults: TileSize=15, Glyphs="@", Mode=ModeRandom with a fresh seed per
// call, Workers=GOMAXPROCS, Filter=Lanczos, Anchor=TopLeft, no sharpening,
// and a logger that discards everything.
func NewConverter(r GlyphRasterizer, opts ...ConverterOption) *Converter {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	c := &Converter{
		TileSize:   DefaultTileSize,
		Glyphs:     DefaultGlyphs,
		Mode:       ModeRandom,
		Workers:    runtime.GOMAXPROCS(0),
		Filter:     imageutil.InterpolationLanczos,
		Anchor:     imageutil.AnchorTopLeft,
		rasterizer: r,
		logger:     discard,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTileSize sets the tile side in pixels.
func WithTileSize(size int) ConverterOption {
	return func(c *Converter) {
		c.TileSize = size
	}
}

// WithGlyphs sets the glyph set.
func WithGlyphs(glyphs string) ConverterOption {
	return func(c *Converter) {
		c.Glyphs = glyphs
	}
}

// WithSelectionMode sets how glyphs are drawn from the glyph set.
func WithSelectionMode(mode SelectionMode) ConverterOption {
	return func(c *Converter) {
		c.Mode = mode
	}
}

// WithSeed fixes the seed of ModeRandom, making its output reproducible.
func WithSeed(seed uint64) ConverterOption {
	return func(c *Converter) {
		c.seed = seed
		c.seeded = true
	}
}

// WithWorkers sets how many tiles are rasterized in parallel.
func WithWorkers(n int) ConverterOption {
	return func(c *Converter) {
		c.Workers = n
	}
}

// WithFilter sets the resampling filter used to build the brightness grid.
func WithFilter(filter imageutil.Interpolation) ConverterOption {
	return func(c *Converter) {
		c.Filter = filter
	}
}

// WithAnchor sets which region of the source survives tile truncation.
func WithAnchor(anchor imageutil.Anchor) ConverterOption {
	return func(c *Converter) {
		c.Anchor = anchor
	}
}

// WithSharpen enables sharpening of the brightness grid.
func WithSharpen(sharpen bool) ConverterOption {
	return func(c *Converter) {
		c.Sharpen = sharpen
	}
}

// WithLogger sets the logger for debug output.
func WithLogger(logger logrus.FieldLogger) ConverterOption {
	return func(c *Converter) {
		c.logger = logger
	}
}

// Validate reports configuration errors without touching any image.
func (c *Converter) Validate() error {
	if c.TileSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTileSize, c.TileSize)
	}
	if c.rasterizer == nil {
		return fmt.Errorf("%w: no rasterizer configured", ErrGlyphRasterization)
	}
	_, err := NewSelector(c.Mode, ParseGlyphs(c.Glyphs), 0)
	return err
}

// Convert renders img as a glyph mosaic. The result is
// floor(w/TileSize)*TileSize by floor(h/TileSize)*TileSize pixels and may
// be empty. Configuration errors are reported before any pixel work.
func (c *Converter) Convert(ctx context.Context, img image.Image) (*imageutil.GrayImage, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	seed := c.seed
	if !c.seeded {
		seed = rand.Uint64()
	}
	sel, err := NewSelector(c.Mode, ParseGlyphs(c.Glyphs), seed)
	if err != nil {
		return nil, err
	}

	grid, err := Downsample(img, c.TileSize, DownsampleOptions{
		Filter:  c.Filter,
		Anchor:  c.Anchor,
		Sharpen: c.Sharpen,
	})
	if err != nil {
		return nil, err
	}

	log := c.logger.WithFields(logrus.Fields{
		"cols":    grid.Cols(),
		"rows":    grid.Rows(),
		"tile":    c.TileSize,
		"mode":    c.Mode,
		"workers": c.Workers,
	})
	if c.Mode == ModeRandom {
		log = log.WithField("seed", seed)
	}
	log.Debug("compositing glyph mosaic")

	canvas, err := Composite(ctx, grid, c.rasterizer, sel, c.Workers)
	if err != nil {
		return nil, err
	}

	if cached, ok := c.rasterizer.(*CachedRasterizer); ok {
		hits, misses := cached.Stats()
		c.logger.WithFields(logrus.Fields{"hits": hits, "misses": misses}).Debug("glyph cache")
	}
	return canvas, nil
}
