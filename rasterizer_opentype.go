package glyphmosaic

import (
	"fmt"
	"image"
	"image/draw"
	"sync"

	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// OpenTypeRasterizer renders glyph outlines from an sfnt font (TrueType
// or CFF flavoured, single font or collection) with x/image/vector.
type OpenTypeRasterizer struct {
	font *sfnt.Font
	bufs sync.Pool
}

// NewOpenTypeRasterizer parses data, which may be a single font or a
// collection, and uses the font at index.
func NewOpenTypeRasterizer(data []byte, index int) (*OpenTypeRasterizer, error) {
	c, err := opentype.ParseCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	if index < 0 || index >= c.NumFonts() {
		return nil, fmt.Errorf("font index %d out of range, collection has %d fonts", index, c.NumFonts())
	}
	f, err := c.Font(index)
	if err != nil {
		return nil, fmt.Errorf("failed to load font %d: %w", index, err)
	}
	return &OpenTypeRasterizer{
		font: f,
		bufs: sync.Pool{New: func() any { return new(sfnt.Buffer) }},
	}, nil
}

// Lookup resolves r through the font's cmap.
func (r *OpenTypeRasterizer) Lookup(c rune) (GlyphID, error) {
	buf := r.bufs.Get().(*sfnt.Buffer)
	defer r.bufs.Put(buf)

	idx, err := r.font.GlyphIndex(buf, c)
	if err != nil {
		return GlyphID{}, fmt.Errorf("glyph index for %q: %w", c, err)
	}
	if idx == 0 {
		return GlyphID{}, &GlyphNotFoundError{Rune: c}
	}
	return GlyphID{Rune: c, Index: uint32(idx)}, nil
}

// Rasterize loads the outline of id at size pixels per em and fills it
// into a bitmap covering the outline's bounds.
func (r *OpenTypeRasterizer) Rasterize(id GlyphID, size int) (*image.Alpha, error) {
	if size <= 0 {
		return emptyCoverage, nil
	}

	buf := r.bufs.Get().(*sfnt.Buffer)
	defer r.bufs.Put(buf)

	segments, err := r.font.LoadGlyph(buf, sfnt.GlyphIndex(id.Index), fixed.I(size), nil)
	if err != nil {
		return nil, fmt.Errorf("load glyph %d: %w", id.Index, err)
	}

	b := segments.Bounds()
	bounds := image.Rect(b.Min.X.Floor(), b.Min.Y.Floor(), b.Max.X.Ceil(), b.Max.Y.Ceil())
	if bounds.Empty() {
		return emptyCoverage, nil
	}

	z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	z.DrawOp = draw.Src
	ox, oy := float32(bounds.Min.X), float32(bounds.Min.Y)
	pt := func(p fixed.Point26_6) (float32, float32) {
		return float32(p.X)/64 - ox, float32(p.Y)/64 - oy
	}

	open := false
	for _, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if open {
				z.ClosePath()
			}
			z.MoveTo(pt(seg.Args[0]))
			open = true
		case sfnt.SegmentOpLineTo:
			z.LineTo(pt(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			z.QuadTo(bx, by, cx, cy)
		case sfnt.SegmentOpCubeTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			dx, dy := pt(seg.Args[2])
			z.CubeTo(bx, by, cx, cy, dx, dy)
		default:
			return nil, fmt.Errorf("unexpected segment op %d", seg.Op)
		}
	}
	if open {
		z.ClosePath()
	}

	mask := image.NewAlpha(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return coverageFrom(mask, mask.Bounds(), size), nil
}
