package glyphmosaic

import (
	"image"
	"image/draw"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// GlyphID is a character resolved to a glyph of a specific font.
type GlyphID struct {
	Rune  rune
	Index uint32
}

// GlyphRasterizer turns glyphs into coverage bitmaps. Implementations must
// be safe for concurrent use: the compositor calls Rasterize from several
// workers at once.
type GlyphRasterizer interface {
	// Lookup resolves a character, returning a *GlyphNotFoundError when
	// the font has no glyph for it.
	Lookup(r rune) (GlyphID, error)

	// Rasterize renders id at size pixels per em. The result has its
	// origin at (0, 0), spans the glyph's ink and is at most size pixels
	// in each dimension. Size 0 yields an empty bitmap. Callers must not
	// modify the returned bitmap.
	Rasterize(id GlyphID, size int) (*image.Alpha, error)
}

var emptyCoverage = image.NewAlpha(image.Rectangle{})

// coverageFrom copies the inked part of the r region of mask into a
// zero-origin bitmap no larger than size in either dimension. Oversized
// glyphs keep their middle.
func coverageFrom(mask image.Image, r image.Rectangle, size int) *image.Alpha {
	r = inkBounds(mask, r.Intersect(mask.Bounds()))
	w, h := min(r.Dx(), size), min(r.Dy(), size)
	if w <= 0 || h <= 0 {
		return emptyCoverage
	}
	sp := image.Pt(r.Min.X+(r.Dx()-w)/2, r.Min.Y+(r.Dy()-h)/2)
	out := image.NewAlpha(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), mask, sp, draw.Src)
	return out
}

// inkBounds shrinks r to the smallest rectangle holding every pixel of
// mask with non-zero coverage.
func inkBounds(mask image.Image, r image.Rectangle) image.Rectangle {
	inked := func(x, y int) bool {
		if a, ok := mask.(*image.Alpha); ok {
			return a.Pix[a.PixOffset(x, y)] != 0
		}
		_, _, _, alpha := mask.At(x, y).RGBA()
		return alpha != 0
	}

	ink := image.Rectangle{}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if inked(x, y) {
				ink = ink.Union(image.Rect(x, y, x+1, y+1))
			}
		}
	}
	return ink
}

type cacheKey struct {
	index uint32
	size  int
}

func (k cacheKey) String() string {
	return strconv.FormatUint(uint64(k.index), 10) + "@" + strconv.Itoa(k.size)
}

// CachedRasterizer memoizes the bitmaps of another rasterizer by glyph
// and size. A mosaic only ever asks for tileSize+1 sizes per glyph, so the
// cache stays small. Concurrent misses on the same key share one render.
type CachedRasterizer struct {
	next  GlyphRasterizer
	group singleflight.Group

	mu      sync.Mutex
	bitmaps map[cacheKey]*image.Alpha
	hits    int
	misses  int
}

// NewCachedRasterizer wraps next with a bitmap cache.
func NewCachedRasterizer(next GlyphRasterizer) *CachedRasterizer {
	return &CachedRasterizer{
		next:    next,
		bitmaps: make(map[cacheKey]*image.Alpha),
	}
}

// Lookup delegates to the wrapped rasterizer.
func (c *CachedRasterizer) Lookup(r rune) (GlyphID, error) {
	return c.next.Lookup(r)
}

func (c *CachedRasterizer) cached(k cacheKey) (*image.Alpha, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	bm, ok := c.bitmaps[k]
	return bm, ok
}

// Rasterize returns the cached bitmap for (id, size), rendering it on a
// miss. Every render counts as a miss and every other successful call as
// a hit. Failures are not cached.
func (c *CachedRasterizer) Rasterize(id GlyphID, size int) (*image.Alpha, error) {
	k := cacheKey{index: id.Index, size: size}
	if bm, ok := c.cached(k); ok {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
		return bm, nil
	}

	rendered := false
	v, err, _ := c.group.Do(k.String(), func() (any, error) {
		if bm, ok := c.cached(k); ok {
			return bm, nil
		}
		rendered = true
		c.mu.Lock()
		c.misses++
		c.mu.Unlock()

		bm, err := c.next.Rasterize(id, size)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.bitmaps[k] = bm
		c.mu.Unlock()
		return bm, nil
	})
	if err != nil {
		return nil, err
	}
	if !rendered {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
	}
	return v.(*image.Alpha), nil
}

// Stats returns the cache hit and miss counts.
func (c *CachedRasterizer) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
