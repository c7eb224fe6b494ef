// Package grid holds the passive cell storage the screen engine diffs.
//
// A ScreenData is a list of Lines plus the cursor position and the width it
// was laid out for. Lines store characters already mapped for display: C0
// controls are kept as their Control Pictures glyph so writing a cell can
// never move the terminal cursor unexpectedly.
package grid

import (
	"github.com/dshills/reefline/internal/renderer/highlight"
	"github.com/dshills/reefline/internal/renderer/textwidth"
)

// Cell is one character on a line together with its highlight.
type Cell struct {
	Rune rune
	Spec highlight.Spec
}

// NewCell creates a cell, mapping control characters for display.
func NewCell(r rune, spec highlight.Spec) Cell {
	return Cell{Rune: textwidth.Rendered(r), Spec: spec}
}

// Width returns the signed column width of the cell.
func (c Cell) Width() int {
	return textwidth.Rune(c.Rune)
}

// Equals returns true if both the character and the highlight match.
func (c Cell) Equals(other Cell) bool {
	return c.Rune == other.Rune && c.Spec == other.Spec
}

// Cursor is a zero-based logical position.
type Cursor struct {
	X int
	Y int
}
