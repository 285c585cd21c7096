package glyphmosaic

import (
	"fmt"
	"image"

	"github.com/wbrown/glyphmosaic/imageutil"
)

// TileGrid holds one brightness sample per square tile of a source image.
// Sample (col, row) stands for the source pixels
// [col*TileSize, (col+1)*TileSize) x [row*TileSize, (row+1)*TileSize)
// of the cropped source.
type TileGrid struct {
	Samples  *imageutil.GrayImage
	TileSize int
}

// Cols returns the number of tile columns.
func (g *TileGrid) Cols() int {
	return g.Samples.Width()
}

// Rows returns the number of tile rows.
func (g *TileGrid) Rows() int {
	return g.Samples.Height()
}

// Brightness returns the sample for the tile at (row, col).
func (g *TileGrid) Brightness(row, col int) uint8 {
	return g.Samples.GetGray(col, row)
}

// TileRect returns the pixel region of the tile at (row, col) in output
// canvas coordinates.
func (g *TileGrid) TileRect(row, col int) image.Rectangle {
	t := g.TileSize
	return image.Rect(col*t, row*t, (col+1)*t, (row+1)*t)
}

// CanvasBounds returns the bounds of the output canvas covering every tile.
func (g *TileGrid) CanvasBounds() image.Rectangle {
	return image.Rect(0, 0, g.Cols()*g.TileSize, g.Rows()*g.TileSize)
}

// DownsampleOptions configures Downsample. The zero value selects Lanczos
// resampling of the top-left region without sharpening.
type DownsampleOptions struct {
	Filter  imageutil.Interpolation
	Anchor  imageutil.Anchor
	Sharpen bool
}

// Downsample converts img to grayscale and reduces it to one sample per
// tile. The grid is floor(w/tileSize) x floor(h/tileSize); the partial
// tiles left over on two edges are dropped, and opts.Anchor decides which
// edges those are. A source smaller than one tile yields an empty grid.
func Downsample(img image.Image, tileSize int, opts DownsampleOptions) (*TileGrid, error) {
	if tileSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTileSize, tileSize)
	}

	gray := imageutil.ToGrayscale(img)
	cols, rows := gray.Width()/tileSize, gray.Height()/tileSize

	region := imageutil.CropGray(gray, cols*tileSize, rows*tileSize, opts.Anchor)
	samples := imageutil.ResizeGray(region, cols, rows, opts.Filter)
	if opts.Sharpen && !samples.Empty() {
		samples = imageutil.SharpenGray(samples)
	}

	return &TileGrid{Samples: samples, TileSize: tileSize}, nil
}

// GlyphSize maps a brightness sample to the glyph size for a tile:
// round(b * tileSize / 255), which always lies in [0, tileSize] and never
// decreases as b grows.
func GlyphSize(b uint8, tileSize int) int {
	if tileSize <= 0 {
		return 0
	}
	size := (int(b)*tileSize + 127) / 255
	return min(max(size, 0), tileSize)
}
