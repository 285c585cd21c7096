package glyphmosaic

import (
	"fmt"
	"image"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// FreetypeRasterizer renders TrueType glyphs with github.com/golang/freetype.
type FreetypeRasterizer struct {
	font    *truetype.Font
	hinting font.Hinting
}

// NewFreetypeRasterizer parses a TrueType font.
func NewFreetypeRasterizer(data []byte) (*FreetypeRasterizer, error) {
	f, err := freetype.ParseFont(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return &FreetypeRasterizer{font: f, hinting: font.HintingNone}, nil
}

// Lookup resolves r through the font's cmap. Index 0 is .notdef, which
// means the font has no glyph for r.
func (r *FreetypeRasterizer) Lookup(c rune) (GlyphID, error) {
	idx := r.font.Index(c)
	if idx == 0 {
		return GlyphID{}, &GlyphNotFoundError{Rune: c}
	}
	return GlyphID{Rune: c, Index: uint32(idx)}, nil
}

// Rasterize renders id with anti-aliasing at size pixels per em.
//
// A face is created per call. truetype faces are not safe for concurrent
// use, and each call asks for a different size anyway; callers wanting
// reuse should wrap the rasterizer in a CachedRasterizer.
func (r *FreetypeRasterizer) Rasterize(id GlyphID, size int) (*image.Alpha, error) {
	if size <= 0 {
		return emptyCoverage, nil
	}

	face := truetype.NewFace(r.font, &truetype.Options{
		Size:              float64(size),
		DPI:               72,
		Hinting:           r.hinting,
		GlyphCacheEntries: 1,
	})
	defer face.Close()

	dr, mask, maskp, _, ok := face.Glyph(fixed.Point26_6{}, id.Rune)
	if !ok {
		return nil, fmt.Errorf("freetype could not load glyph %d", id.Index)
	}
	if dr.Empty() {
		return emptyCoverage, nil
	}

	// The mask is the face's shared buffer; copy our region out of it.
	return coverageFrom(mask, image.Rectangle{Min: maskp, Max: maskp.Add(dr.Size())}, size), nil
}
