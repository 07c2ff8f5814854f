// Package glyphs defines the column strings used to draw tree branches.
package glyphs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	// NameUnicode selects the box-drawing glyph set.
	NameUnicode = "unicode"
	// NameASCII selects the plain ASCII glyph set.
	NameASCII = "ascii"

	errorUnknownGlyphSetFormat = "unknown glyph set %q"
)

// Symbol identifies one of the four glyph roles.
type Symbol int

const (
	// NonLast connects an entry followed by more siblings.
	NonLast Symbol = iota
	// Last connects the final entry of a directory.
	Last
	// Continuation draws an ancestor column that still has siblings below.
	Continuation
	// Blank draws an ancestor column whose entry was the last child.
	Blank
)

// ErrUnequalGlyphWidth is returned when the four glyphs do not share one display width.
var ErrUnequalGlyphWidth = errors.New("glyphs must share the same non-zero display width")

// widthCondition measures box-drawing characters as single cells regardless of locale.
var widthCondition = newWidthCondition()

func newWidthCondition() *runewidth.Condition {
	condition := runewidth.NewCondition()
	condition.EastAsianWidth = false
	return condition
}

// Set holds the four equal-width prefix strings.
type Set struct {
	nonLast      string
	last         string
	continuation string
	blank        string
	width        int
}

// Unicode is the default box-drawing set.
var Unicode = mustNew("├─ ", "└─ ", "│  ", "   ")

// ASCII draws branches without box-drawing characters.
var ASCII = mustNew("|-- ", "`-- ", "|   ", "    ")

// New validates and constructs a glyph set.
func New(nonLast, last, continuation, blank string) (Set, error) {
	width := widthCondition.StringWidth(nonLast)
	if width == 0 {
		return Set{}, fmt.Errorf("%w: non-last glyph %q is empty", ErrUnequalGlyphWidth, nonLast)
	}
	for _, glyph := range []string{last, continuation, blank} {
		if glyphWidth := widthCondition.StringWidth(glyph); glyphWidth != width {
			return Set{}, fmt.Errorf("%w: %q has width %d, expected %d", ErrUnequalGlyphWidth, glyph, glyphWidth, width)
		}
	}
	return Set{
		nonLast:      nonLast,
		last:         last,
		continuation: continuation,
		blank:        blank,
		width:        width,
	}, nil
}

func mustNew(nonLast, last, continuation, blank string) Set {
	set, err := New(nonLast, last, continuation, blank)
	if err != nil {
		panic(err)
	}
	return set
}

// ByName returns a preset glyph set.
func ByName(name string) (Set, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameUnicode:
		return Unicode, nil
	case NameASCII:
		return ASCII, nil
	default:
		return Set{}, fmt.Errorf(errorUnknownGlyphSetFormat, name)
	}
}

// Glyph returns the string drawn for the symbol.
func (set Set) Glyph(symbol Symbol) string {
	switch symbol {
	case NonLast:
		return set.nonLast
	case Last:
		return set.last
	case Continuation:
		return set.continuation
	default:
		return set.blank
	}
}

// Width returns the display width shared by every glyph.
func (set Set) Width() int {
	return set.width
}

// IsZero reports whether the set was never constructed.
func (set Set) IsZero() bool {
	return set.width == 0
}
