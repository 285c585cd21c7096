package imageutil

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/tiff" // Register TIFF decoder
	_ "golang.org/x/image/webp" // Register WebP decoder
)

var (
	// ErrDecode marks failures to read or decode a source image.
	ErrDecode = errors.New("image decode error")

	// ErrEncode marks failures to encode or write an output image.
	ErrEncode = errors.New("image encode error")
)

// LoadImage loads an image from the specified path.
// Supports PNG, JPEG, GIF, TIFF, BMP and WebP formats.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open image: %w", ErrDecode, err)
	}
	defer f.Close()

	return DecodeImage(f)
}

// DecodeImage decodes an image in any registered format.
func DecodeImage(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode image: %w", ErrDecode, err)
	}
	return img, nil
}

// EncodeImage encodes img to w in the format implied by ext
// (".png", ".jpg", ".jpeg", ".gif"). Unknown extensions use PNG.
func EncodeImage(w io.Writer, img image.Image, ext string) error {
	var err error
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case ".gif":
		err = gif.Encode(w, img, nil)
	default:
		err = png.Encode(w, img)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return nil
}

// SaveImage saves an image to the specified path. Format is determined by
// file extension. The image is written to a temporary file in the same
// directory and renamed into place, so a failed encode never leaves a
// partial file at path.
func SaveImage(img image.Image, path string) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("%w: failed to create file: %w", ErrEncode, err)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	if err = EncodeImage(f, img, filepath.Ext(path)); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	if err = os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return nil
}
