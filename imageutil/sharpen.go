package imageutil

import "github.com/disintegration/gift"

// sharpenKernel is a mild 4-neighbour kernel. Its weights sum to 1, so
// flat regions keep their intensity.
var sharpenKernel = []float32{
	0, -0.5, 0,
	-0.5, 3, -0.5,
	0, -0.5, 0,
}

// SharpenGray sharpens a grayscale image. Border pixels are handled by
// replicating edge values.
func SharpenGray(img *GrayImage) *GrayImage {
	g := gift.New(gift.Convolution(sharpenKernel, false, false, false, 0))
	dst := NewGrayImage(img.Width(), img.Height())
	g.Draw(dst.Gray, img.Gray)
	return dst
}
