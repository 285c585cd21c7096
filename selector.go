package glyphmosaic

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// SelectionMode chooses how glyphs are drawn from the glyph set.
type SelectionMode int

const (
	// ModeRandom samples the glyph set uniformly with replacement.
	ModeRandom SelectionMode = iota

	// ModeOrder cycles through the glyph set in order.
	ModeOrder
)

// String returns the flag name of the mode.
func (m SelectionMode) String() string {
	switch m {
	case ModeRandom:
		return "random"
	case ModeOrder:
		return "order"
	}
	return fmt.Sprintf("SelectionMode(%d)", int(m))
}

// ParseSelectionMode maps "random" or "order" to a SelectionMode.
func ParseSelectionMode(name string) (SelectionMode, error) {
	switch strings.ToLower(name) {
	case "random":
		return ModeRandom, nil
	case "order", "ordered", "sequential":
		return ModeOrder, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSelectionMode, name)
}

// ParseGlyphs splits a glyph string into runes after NFC normalization,
// so a base letter followed by a combining mark becomes one precomposed
// glyph where the font has one.
func ParseGlyphs(s string) []rune {
	return []rune(norm.NFC.String(s))
}

// GlyphSelector yields the glyph for the next tile. The only
// implementations are *OrderSelector and *RandomSelector.
type GlyphSelector interface {
	// Next returns the next glyph. It never fails.
	Next() rune

	sealed()
}

// OrderSelector returns glyphs in their given order, wrapping around.
type OrderSelector struct {
	glyphs []rune
	cursor int
}

// NewOrderSelector builds a selector cycling through glyphs.
func NewOrderSelector(glyphs []rune) (*OrderSelector, error) {
	if len(glyphs) == 0 {
		return nil, ErrEmptyGlyphSet
	}
	return &OrderSelector{glyphs: append([]rune(nil), glyphs...)}, nil
}

// Next returns the glyph under the cursor and advances it.
func (s *OrderSelector) Next() rune {
	g := pick(s.glyphs, s.cursor)
	s.cursor = (s.cursor + 1) % len(s.glyphs)
	return g
}

func (*OrderSelector) sealed() {}

// RandomSelector samples glyphs uniformly with replacement from a random
// source it owns.
type RandomSelector struct {
	glyphs []rune
	rng    *rand.Rand
}

// NewRandomSelector builds a selector whose draws are fully determined by
// seed.
func NewRandomSelector(glyphs []rune, seed uint64) (*RandomSelector, error) {
	return NewRandomSelectorWithSource(glyphs, rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewRandomSelectorWithSource builds a selector drawing from src.
func NewRandomSelectorWithSource(glyphs []rune, src rand.Source) (*RandomSelector, error) {
	if len(glyphs) == 0 {
		return nil, ErrEmptyGlyphSet
	}
	return &RandomSelector{
		glyphs: append([]rune(nil), glyphs...),
		rng:    rand.New(src),
	}, nil
}

// Next returns a uniformly drawn glyph.
func (s *RandomSelector) Next() rune {
	return pick(s.glyphs, s.rng.IntN(len(s.glyphs)))
}

func (*RandomSelector) sealed() {}

// NewSelector builds the selector for mode. seed is ignored by ModeOrder.
func NewSelector(mode SelectionMode, glyphs []rune, seed uint64) (GlyphSelector, error) {
	switch mode {
	case ModeOrder:
		return NewOrderSelector(glyphs)
	case ModeRandom:
		return NewRandomSelector(glyphs, seed)
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownSelectionMode, mode)
}

// pick is checked indexing; construction guarantees i is in range.
func pick(glyphs []rune, i int) rune {
	if i < 0 || i >= len(glyphs) {
		panic(fmt.Sprintf("glyphmosaic: selector index %d out of range [0,%d)", i, len(glyphs)))
	}
	return glyphs[i]
}
