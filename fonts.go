package glyphmosaic

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
)

// DefaultFont is the embedded font used when no font is given.
const DefaultFont = "gomono"

// embeddedFonts are the Go fonts shipped with x/image, selectable by name.
var embeddedFonts = map[string][]byte{
	"gomono":     gomono.TTF,
	"gomonobold": gomonobold.TTF,
	"goregular":  goregular.TTF,
	"gobold":     gobold.TTF,
}

// EmbeddedFontNames lists the names accepted by LoadFontData besides
// file paths.
func EmbeddedFontNames() []string {
	names := make([]string, 0, len(embeddedFonts))
	for name := range embeddedFonts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadFontData returns the bytes of an embedded font when name matches
// one, and otherwise reads name as a font file path.
func LoadFontData(name string) ([]byte, error) {
	if name == "" {
		name = DefaultFont
	}
	if data, ok := embeddedFonts[strings.ToLower(name)]; ok {
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read font: %w", err)
	}
	return data, nil
}

// Backend selects the font rasterization library.
type Backend int

const (
	// BackendOpenType uses x/image/font/sfnt outlines and x/image/vector.
	BackendOpenType Backend = iota

	// BackendFreetype uses github.com/golang/freetype.
	BackendFreetype
)

// String returns the flag name of the backend.
func (b Backend) String() string {
	switch b {
	case BackendOpenType:
		return "opentype"
	case BackendFreetype:
		return "freetype"
	}
	return fmt.Sprintf("Backend(%d)", int(b))
}

// ParseBackend maps "opentype" or "freetype" to a Backend.
func ParseBackend(name string) (Backend, error) {
	switch strings.ToLower(name) {
	case "opentype", "sfnt":
		return BackendOpenType, nil
	case "freetype", "truetype":
		return BackendFreetype, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
}

// NewRasterizer parses font data for backend and wraps the result in a
// CachedRasterizer. index selects a font inside a collection; the
// freetype backend only reads single fonts.
func NewRasterizer(backend Backend, data []byte, index int) (*CachedRasterizer, error) {
	var (
		r   GlyphRasterizer
		err error
	)
	switch backend {
	case BackendOpenType:
		r, err = NewOpenTypeRasterizer(data, index)
	case BackendFreetype:
		if index != 0 {
			return nil, fmt.Errorf("freetype backend cannot read font collections (index %d)", index)
		}
		r, err = NewFreetypeRasterizer(data)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownBackend, backend)
	}
	if err != nil {
		return nil, err
	}
	return NewCachedRasterizer(r), nil
}
