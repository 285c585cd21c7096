package glyphmosaic

import (
	"context"
	"image"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wbrown/glyphmosaic/imageutil"
	"golang.org/x/image/font/gofont/gomono"
)

func newTestConverter(t *testing.T, backend Backend, opts ...ConverterOption) *Converter {
	t.Helper()
	r, err := NewRasterizer(backend, gomono.TTF, 0)
	require.NoError(t, err)
	return NewConverter(r, opts...)
}

var allBackends = []Backend{BackendOpenType, BackendFreetype}

func TestConvertWhiteImage(t *testing.T) {
	t.Parallel()

	for _, backend := range allBackends {
		t.Run(backend.String(), func(t *testing.T) {
			conv := newTestConverter(t, backend, WithTileSize(15), WithSelectionMode(ModeOrder))
			out, err := conv.Convert(context.Background(), imageutil.CreateSolidGray(30, 30, 255))
			require.NoError(t, err)
			require.Equal(t, image.Rect(0, 0, 30, 30), out.Bounds())

			// Expected tile: '@' at full size centered on black.
			ref, err := NewRasterizer(backend, gomono.TTF, 0)
			require.NoError(t, err)
			id, err := ref.Lookup('@')
			require.NoError(t, err)
			bm, err := ref.Rasterize(id, 15)
			require.NoError(t, err)
			want := imageutil.NewGrayImage(15, 15)
			require.NoError(t, blit(want, want.Bounds(), bm))

			for ty := 0; ty < 2; ty++ {
				for tx := 0; tx < 2; tx++ {
					for y := 0; y < 15; y++ {
						for x := 0; x < 15; x++ {
							require.Equal(t, want.GetGray(x, y), out.GetGray(tx*15+x, ty*15+y),
								"tile (%d,%d) pixel (%d,%d)", tx, ty, x, y)
						}
					}
				}
			}
		})
	}
}

func TestConvertBlackImage(t *testing.T) {
	t.Parallel()

	for _, backend := range allBackends {
		conv := newTestConverter(t, backend, WithGlyphs("@#"))
		out, err := conv.Convert(context.Background(), imageutil.CreateSolidGray(45, 30, 0))
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 45, 30), out.Bounds())
		for _, p := range out.Pix {
			require.Zero(t, p)
		}
	}
}

func TestConvertDimensions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		width, height int
		tile          int
		wantW, wantH  int
	}{
		{"exact", 30, 30, 15, 30, 30},
		{"trimmed", 29, 29, 15, 15, 15},
		{"wide", 100, 20, 7, 98, 14},
		{"smaller than a tile", 10, 10, 15, 0, 0},
		{"one pixel tiles", 5, 3, 1, 5, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv := newTestConverter(t, BackendOpenType, WithTileSize(tt.tile), WithSeed(1))
			out, err := conv.Convert(context.Background(), imageutil.CreateGradientImage(tt.width, tt.height))
			require.NoError(t, err)
			assert.Equal(t, tt.wantW, out.Width())
			assert.Equal(t, tt.wantH, out.Height())
		})
	}
}

func TestConvertDeterministic(t *testing.T) {
	t.Parallel()

	img := imageutil.CreateCheckerboardImage(90, 60, 10)

	for _, backend := range allBackends {
		t.Run(backend.String(), func(t *testing.T) {
			order := newTestConverter(t, backend, WithGlyphs("@#%"), WithSelectionMode(ModeOrder), WithTileSize(6))
			a, err := order.Convert(context.Background(), img)
			require.NoError(t, err)
			b, err := order.Convert(context.Background(), img)
			require.NoError(t, err)
			assert.Equal(t, a.Pix, b.Pix)

			seeded := func(workers int) []byte {
				conv := newTestConverter(t, backend, WithGlyphs("@#%&"), WithSeed(42), WithTileSize(6), WithWorkers(workers))
				out, err := conv.Convert(context.Background(), img)
				require.NoError(t, err)
				return out.Pix
			}
			assert.Equal(t, seeded(1), seeded(6))
		})
	}
}

func TestConvertColorSource(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, BackendOpenType, WithTileSize(10), WithSelectionMode(ModeOrder))
	out, err := conv.Convert(context.Background(), imageutil.CreateColorBarsImage(80, 20))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 80, 20), out.Bounds())
}

func TestConvertErrors(t *testing.T) {
	t.Parallel()

	img := imageutil.CreateSolidGray(30, 30, 255)

	tests := []struct {
		name string
		opts []ConverterOption
		want error
	}{
		{"zero tile", []ConverterOption{WithTileSize(0)}, ErrInvalidTileSize},
		{"negative tile", []ConverterOption{WithTileSize(-3)}, ErrInvalidTileSize},
		{"empty glyphs", []ConverterOption{WithGlyphs("")}, ErrEmptyGlyphSet},
		{"missing glyph", []ConverterOption{WithGlyphs("@😀"), WithSelectionMode(ModeOrder)}, ErrGlyphNotFound},
		{"unknown mode", []ConverterOption{WithSelectionMode(SelectionMode(7))}, ErrUnknownSelectionMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv := newTestConverter(t, BackendOpenType, tt.opts...)
			out, err := conv.Convert(context.Background(), img)
			assert.Nil(t, out)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	// Configuration errors win over an image too small to render.
	conv := newTestConverter(t, BackendOpenType, WithGlyphs(""))
	_, err := conv.Convert(context.Background(), imageutil.CreateSolidGray(3, 3, 255))
	assert.ErrorIs(t, err, ErrEmptyGlyphSet)

	_, err = NewConverter(nil).Convert(context.Background(), img)
	assert.ErrorIs(t, err, ErrGlyphRasterization)
}

func TestConvertCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	conv := newTestConverter(t, BackendOpenType)
	out, err := conv.Convert(ctx, imageutil.CreateSolidGray(60, 60, 255))
	assert.Nil(t, out)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConvertLogsSeedAndCache(t *testing.T) {
	t.Parallel()

	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	conv := newTestConverter(t, BackendOpenType,
		WithSeed(7), WithWorkers(1), WithLogger(logger))
	_, err := conv.Convert(context.Background(), imageutil.CreateSolidGray(30, 30, 255))
	require.NoError(t, err)

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	assert.EqualValues(t, 7, entries[0].Data["seed"])
	assert.Equal(t, 2, entries[0].Data["cols"])

	// Four full-size '@' tiles: one render, three cache hits.
	assert.Equal(t, 3, entries[1].Data["hits"])
	assert.Equal(t, 1, entries[1].Data["misses"])
}

func TestConverterValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, newTestConverter(t, BackendOpenType).Validate())
	assert.ErrorIs(t, newTestConverter(t, BackendOpenType, WithTileSize(0)).Validate(), ErrInvalidTileSize)
	assert.ErrorIs(t, newTestConverter(t, BackendOpenType, WithGlyphs("")).Validate(), ErrEmptyGlyphSet)
	assert.ErrorIs(t, newTestConverter(t, BackendOpenType, WithSelectionMode(SelectionMode(5))).Validate(), ErrUnknownSelectionMode)
	assert.ErrorIs(t, NewConverter(nil).Validate(), ErrGlyphRasterization)
}
