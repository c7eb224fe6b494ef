package grid

import (
	"github.com/dshills/reefline/internal/renderer/highlight"
)

// Line is a row of cells. SoftWrapped marks a line whose text continues on
// the next row because it hit the right margin rather than a newline.
type Line struct {
	cells       []Cell
	SoftWrapped bool
	Indentation int
}

// NewLine creates an empty line.
func NewLine() *Line {
	return &Line{}
}

// Append adds one character.
func (l *Line) Append(r rune, spec highlight.Spec) {
	l.cells = append(l.cells, NewCell(r, spec))
}

// AppendString adds every character of s with the same highlight.
func (l *Line) AppendString(s string, spec highlight.Spec) {
	for _, r := range s {
		l.Append(r, spec)
	}
}

// AppendLine copies the cells of other onto the end of l.
func (l *Line) AppendLine(other *Line) {
	l.cells = append(l.cells, other.cells...)
}

// Clear removes all cells. Flags are left alone.
func (l *Line) Clear() {
	l.cells = l.cells[:0]
}

// Len returns the number of cells.
func (l *Line) Len() int {
	return len(l.cells)
}

// Cell returns the cell at i.
func (l *Line) Cell(i int) Cell {
	return l.cells[i]
}

// RuneAt returns the character at i.
func (l *Line) RuneAt(i int) rune {
	return l.cells[i].Rune
}

// SpecAt returns the highlight at i.
func (l *Line) SpecAt(i int) highlight.Spec {
	return l.cells[i].Spec
}

// String returns the text of the line without highlighting.
func (l *Line) String() string {
	rs := make([]rune, len(l.cells))
	for i, c := range l.cells {
		rs[i] = c.Rune
	}
	return string(rs)
}

// Width returns the column width of the first min(max, Len) cells.
// Cells with negative width count as 0.
func (l *Line) Width(max int) int {
	n := min(max, len(l.cells))
	total := 0
	for i := 0; i < n; i++ {
		total += l.cellWidth(i)
	}
	return total
}

// TotalWidth is Width over every cell.
func (l *Line) TotalWidth() int {
	return l.Width(len(l.cells))
}

func (l *Line) cellWidth(i int) int {
	return max(l.cells[i].Width(), 0)
}

// Clone returns a deep copy.
func (l *Line) Clone() *Line {
	c := *l
	c.cells = append([]Cell(nil), l.cells...)
	return &c
}

// SharedPrefix returns how many leading cells a and b have in common, both
// text and highlight. The result never ends inside a run of zero-width
// characters, so combining marks are redrawn together with their base.
func SharedPrefix(a, b *Line) int {
	idx := 0
	maxIdx := min(a.Len(), b.Len())
	for idx < maxIdx {
		if !a.cells[idx].Equals(b.cells[idx]) {
			break
		}
		idx++
	}

	if idx == 0 || idx == maxIdx {
		return idx
	}

	// Diverged on a possible combining mark: back up until two printable
	// cells precede the split, or to the start.
	var c *Line
	switch {
	case a.cellWidth(idx) < 1:
		c = a
	case b.cellWidth(idx) < 1:
		c = b
	default:
		return idx
	}

	for idx > 1 && (c.cellWidth(idx-1) < 1 || c.cellWidth(idx) < 1) {
		idx--
	}
	if idx == 1 && c.cellWidth(idx) < 1 {
		idx = 0
	}
	return idx
}
