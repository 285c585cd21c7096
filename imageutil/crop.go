package imageutil

import (
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/gift"
)

// Anchor selects which part of an image survives a crop.
type Anchor int

const (
	// AnchorTopLeft keeps the top-left region and drops the right and
	// bottom remainders.
	AnchorTopLeft Anchor = iota

	// AnchorCenter splits the dropped remainder evenly between opposite
	// edges.
	AnchorCenter
)

// String returns the flag name of the anchor.
func (a Anchor) String() string {
	switch a {
	case AnchorTopLeft:
		return "topleft"
	case AnchorCenter:
		return "center"
	}
	return fmt.Sprintf("Anchor(%d)", int(a))
}

// ParseAnchor maps a flag value to an Anchor.
func ParseAnchor(name string) (Anchor, error) {
	switch strings.ToLower(name) {
	case "topleft", "top-left", "truncate":
		return AnchorTopLeft, nil
	case "center", "centre":
		return AnchorCenter, nil
	}
	return 0, fmt.Errorf("unknown anchor %q", name)
}

func (a Anchor) giftAnchor() gift.Anchor {
	if a == AnchorCenter {
		return gift.CenterAnchor
	}
	return gift.TopLeftAnchor
}

// CropGray returns the width x height region of img selected by anchor.
// Requests larger than the image are limited to the image size. The source
// is returned as-is when no pixels would be dropped.
func CropGray(img *GrayImage, width, height int, anchor Anchor) *GrayImage {
	width = max(min(width, img.Width()), 0)
	height = max(min(height, img.Height()), 0)
	if width == img.Width() && height == img.Height() {
		return img
	}
	if width == 0 || height == 0 {
		return NewGrayImage(width, height)
	}

	g := gift.New(gift.CropToSize(width, height, anchor.giftAnchor()))
	dst := image.NewGray(g.Bounds(img.Bounds()))
	g.Draw(dst, img.Gray)
	return &GrayImage{Gray: dst}
}
