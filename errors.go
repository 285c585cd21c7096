package glyphmosaic

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyGlyphSet is returned when a selector is built from no glyphs.
	ErrEmptyGlyphSet = errors.New("glyph set is empty")

	// ErrInvalidTileSize is returned for tile sizes below 1.
	ErrInvalidTileSize = errors.New("tile size must be positive")

	// ErrGlyphNotFound matches every *GlyphNotFoundError.
	ErrGlyphNotFound = errors.New("glyph not found in font")

	// ErrGlyphRasterization matches every *RasterizeError.
	ErrGlyphRasterization = errors.New("glyph rasterization failed")

	// ErrTileOverflow reports a coverage bitmap that would write outside
	// its tile. It indicates a broken rasterizer, never bad input.
	ErrTileOverflow = errors.New("coverage bitmap exceeds tile bounds")

	// ErrUnknownSelectionMode is returned by ParseSelectionMode.
	ErrUnknownSelectionMode = errors.New("unknown selection mode")

	// ErrUnknownBackend is returned by NewRasterizer and ParseBackend.
	ErrUnknownBackend = errors.New("unknown rasterizer backend")
)

// GlyphNotFoundError reports a character with no glyph in the active font.
type GlyphNotFoundError struct {
	Rune rune
}

func (e *GlyphNotFoundError) Error() string {
	return fmt.Sprintf("glyph not found in font: %q (U+%04X)", e.Rune, e.Rune)
}

// Is makes errors.Is(err, ErrGlyphNotFound) succeed.
func (e *GlyphNotFoundError) Is(target error) bool {
	return target == ErrGlyphNotFound
}

// RasterizeError reports a backend failure for a resolved glyph.
type RasterizeError struct {
	Rune rune
	Size int
	Err  error
}

func (e *RasterizeError) Error() string {
	return fmt.Sprintf("rasterize %q at size %d: %v", e.Rune, e.Size, e.Err)
}

// Unwrap returns the backend error.
func (e *RasterizeError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrGlyphRasterization) succeed.
func (e *RasterizeError) Is(target error) bool {
	return target == ErrGlyphRasterization
}
