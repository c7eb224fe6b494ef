package pager

// SelectionMotion is a selection change requested by a key.
type SelectionMotion uint8

const (
	North SelectionMotion = iota
	East
	South
	West
	PageNorth
	PageSouth
	Next
	Prev
	Deselect
)

var motionNames = [...]string{
	North:     "north",
	East:      "east",
	South:     "south",
	West:      "west",
	PageNorth: "page-north",
	PageSouth: "page-south",
	Next:      "next",
	Prev:      "prev",
	Deselect:  "deselect",
}

func (m SelectionMotion) String() string {
	if int(m) < len(motionNames) {
		return motionNames[m]
	}
	return "unknown"
}

// IsCardinal reports whether m moves through the grid rather than the list.
func (m SelectionMotion) IsCardinal() bool {
	switch m {
	case North, East, South, West, PageNorth, PageSouth:
		return true
	}
	return false
}

// SelectNextCompletionInDirection moves the selection according to the
// layout of r. It reports whether the selection changed. Moving south or
// east past the last visible row discloses the full list instead of
// scrolling when rows are still hidden.
func (p *Pager) SelectNextCompletionInDirection(m SelectionMotion, r *PageRendering) bool {
	n := len(p.comps)
	if n == 0 {
		return false
	}

	if p.selected == NoSelection {
		switch m {
		case South, PageSouth, Next:
			p.selected = 0
		case North, Prev:
			p.selected = n - 1
		default:
			return false
		}
	} else {
		next, ok := p.move(m, r)
		if !ok || next == p.selected {
			return false
		}
		p.selected = next
	}

	visible := r.RowEnd - r.RowStart
	if visible <= 0 || p.selected == NoSelection || r.Rows == 0 {
		return true
	}

	row := p.selected % r.Rows
	if p.suggestedRowStart > row {
		p.suggestedRowStart = row
	}
	if p.suggestedRowStart+visible <= row {
		if (m == South || m == East) && !p.fullyDisclosed && r.RemainingToDisclose > 0 {
			p.fullyDisclosed = true
		} else {
			p.suggestedRowStart = row - visible + 1
			// A resize can land here; stay disclosed.
			p.fullyDisclosed = true
		}
	}
	return true
}

// move computes the selection after m from the current one.
func (p *Pager) move(m SelectionMotion, r *PageRendering) (int, bool) {
	n := len(p.comps)
	cur := p.selected

	if !m.IsCardinal() {
		switch m {
		case Deselect:
			return NoSelection, true
		case Next:
			if cur+1 >= n {
				return 0, true
			}
			return cur + 1, true
		case Prev:
			if cur == 0 {
				return n - 1, true
			}
			return cur - 1, true
		}
		return cur, false
	}

	if r.Rows == 0 || r.Cols == 0 {
		return cur, false
	}
	idx := r.Selected
	if idx == NoSelection {
		idx = p.visualSelectedIndex(r.Rows, r.Cols)
	}
	if idx == NoSelection {
		return cur, false
	}

	rows, cols := r.Rows, r.Cols
	row, col := idx%rows, idx/rows
	pageHeight := max(r.TermHeight-1, 1)

	switch m {
	case PageNorth:
		if row > pageHeight {
			row -= pageHeight
		} else {
			row = 0
		}
	case North:
		if row > 0 {
			row--
		} else {
			row = rows - 1
			if col > 0 {
				col--
			} else {
				col = cols - 1
			}
		}
	case PageSouth:
		if row+pageHeight < rows {
			row += pageHeight
		} else {
			row = rows - 1
			if col*rows+row >= n {
				row = (n - 1) % rows
			}
		}
	case South:
		if row+1 < rows && col*rows+row+1 < n {
			row++
		} else {
			row = 0
			col = (col + 1) % cols
		}
	case East:
		if col+1 < cols && (col+1)*rows+row < n {
			col++
		} else {
			col = 0
			row = (row + 1) % rows
		}
	case West:
		if col > 0 {
			col--
		} else {
			col = cols - 1
			if row > 0 {
				row--
			} else {
				row = rows - 1
			}
		}
	}
	return col*rows + row, true
}
