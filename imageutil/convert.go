package imageutil

import (
	"image"
	"image/color"
)

// ToGrayscale converts any decoded image to grayscale using the standard
// luminance formula: Y = 0.299*R + 0.587*G + 0.114*B (BT.601, the same
// weights as OpenCV's COLOR_BGR2GRAY). Gray sources are copied unchanged.
func ToGrayscale(img image.Image) *GrayImage {
	switch src := img.(type) {
	case *GrayImage:
		return src.Clone()
	case *image.Gray:
		return GrayImageFromImage(src)
	case *RGBAImage:
		return rgbaToGrayscale(src.RGBA)
	case *image.RGBA:
		return rgbaToGrayscale(src)
	}

	bounds := img.Bounds()
	gray := NewGrayImage(bounds.Dx(), bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			gray.Pix[(y-bounds.Min.Y)*gray.Stride+(x-bounds.Min.X)] = luminance(c.R, c.G, c.B)
		}
	}
	return gray
}

func rgbaToGrayscale(src *image.RGBA) *GrayImage {
	bounds := src.Bounds()
	gray := NewGrayImage(bounds.Dx(), bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := src.RGBAAt(x, y)
			gray.Pix[(y-bounds.Min.Y)*gray.Stride+(x-bounds.Min.X)] = luminance(c.R, c.G, c.B)
		}
	}
	return gray
}

// luminance uses integer math scaled by 1000, rounded to nearest.
func luminance(r, g, b uint8) uint8 {
	lum := (299*int(r) + 587*int(g) + 114*int(b) + 500) / 1000
	if lum > 255 {
		lum = 255
	}
	return uint8(lum)
}
