package glyphmosaic

import (
	"context"
	"fmt"
	"image"

	"github.com/wbrown/glyphmosaic/imageutil"
	"golang.org/x/sync/errgroup"
)

// placement is the glyph planned for one tile.
type placement struct {
	row, col int
	glyph    GlyphID
	size     int
}

// planTiles walks the grid in row-major order, drawing one glyph per tile
// from sel and resolving it against r. It runs on a single goroutine so
// the selector sees the same call sequence however many workers render.
func planTiles(grid *TileGrid, r GlyphRasterizer, sel GlyphSelector) ([]placement, error) {
	resolved := make(map[rune]GlyphID)
	plan := make([]placement, 0, grid.Cols()*grid.Rows())

	for row := 0; row < grid.Rows(); row++ {
		for col := 0; col < grid.Cols(); col++ {
			c := sel.Next()
			id, ok := resolved[c]
			if !ok {
				var err error
				if id, err = r.Lookup(c); err != nil {
					return nil, err
				}
				resolved[c] = id
			}
			plan = append(plan, placement{
				row:   row,
				col:   col,
				glyph: id,
				size:  GlyphSize(grid.Brightness(row, col), grid.TileSize),
			})
		}
	}
	return plan, nil
}

// glyphRect centers a w x h bitmap in tile.
func glyphRect(tile image.Rectangle, w, h int) image.Rectangle {
	cx := (tile.Dx() - w) / 2
	cy := (tile.Dy() - h) / 2
	return image.Rect(tile.Min.X+cx, tile.Min.Y+cy, tile.Min.X+cx+w, tile.Min.Y+cy+h)
}

// blit copies coverage values into canvas as intensities, centered in
// tile. Pixels of the tile outside the bitmap are left untouched.
func blit(canvas *imageutil.GrayImage, tile image.Rectangle, bm *image.Alpha) error {
	b := bm.Bounds()
	if b.Empty() {
		return nil
	}
	dst := glyphRect(tile, b.Dx(), b.Dy())
	if !dst.In(tile) {
		return fmt.Errorf("%w: %dx%d bitmap in tile %v", ErrTileOverflow, b.Dx(), b.Dy(), tile)
	}

	for py := 0; py < b.Dy(); py++ {
		src := bm.Pix[bm.PixOffset(b.Min.X, b.Min.Y+py):]
		copy(canvas.Pix[canvas.PixOffset(dst.Min.X, dst.Min.Y+py):], src[:b.Dx()])
	}
	return nil
}

// Composite renders one glyph per tile of grid onto a black canvas of
// grid.CanvasBounds(). Glyphs are chosen by sel in row-major order and
// sized by the tile's brightness; a size of 0 leaves the tile black.
//
// Tiles are rasterized by up to workers goroutines. Every tile writes a
// disjoint region, so the canvas needs no locking. The first failure
// stops the remaining work and no canvas is returned.
func Composite(ctx context.Context, grid *TileGrid, r GlyphRasterizer, sel GlyphSelector, workers int) (*imageutil.GrayImage, error) {
	if grid.TileSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTileSize, grid.TileSize)
	}

	plan, err := planTiles(grid, r, sel)
	if err != nil {
		return nil, err
	}

	bounds := grid.CanvasBounds()
	canvas := imageutil.NewGrayImage(bounds.Dx(), bounds.Dy())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for _, p := range plan {
		if p.size == 0 {
			continue
		}
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			bm, err := r.Rasterize(p.glyph, p.size)
			if err != nil {
				return &RasterizeError{Rune: p.glyph.Rune, Size: p.size, Err: err}
			}
			return blit(canvas, grid.TileRect(p.row, p.col), bm)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return canvas, nil
}
