package layout

import (
	"slices"

	"github.com/dshills/reefline/internal/renderer/textwidth"
)

func isRunTerminator(r rune) bool {
	switch r {
	case 0, '\n', '\r', '\f':
		return true
	}
	return false
}

// measureRunFrom measures input from start up to the next run terminator
// and returns the width and the terminator's index. Escape sequences are
// zero width and may contain terminators.
//
// Must be called with lock held.
func (c *Cache) measureRunFrom(input []rune, start int) (width, end int) {
	idx := start
	for !isRunTerminator(at(input, idx)) {
		switch r := input[idx]; r {
		case esc:
			if n := c.escapeCodeLength(input[idx:]); n > 0 {
				idx += n - 1
			}
		case '\t':
			width = c.tabs.Next(width)
		default:
			if w := textwidth.Visible(r); w >= 0 {
				width += w
			} else if width > 0 {
				width--
			}
		}
		idx++
	}
	return width, idx
}

// truncateRun shortens run, which is width columns wide, to at most desired
// columns by putting an ellipsis in front and dropping characters after it.
// Escape sequences are kept whole. Tabs are removed and the run re-measured.
//
// Must be called with lock held.
func (c *Cache) truncateRun(run []rune, desired, width int) ([]rune, int) {
	if width < desired {
		return run, width
	}

	run = slices.Insert(run, 0, textwidth.Ellipsis)
	width++

	idx := 1
	for width > desired && idx < len(run) {
		switch r := run[idx]; r {
		case esc:
			idx += max(c.escapeCodeLength(run[idx:]), 1)
		case '\t':
			run = slices.Delete(run, idx, idx+1)
			width, _ = c.measureRunFrom(run, 0)
			idx = 0
		default:
			w := max(textwidth.Visible(r), 0)
			width -= min(width, w)
			run = slices.Delete(run, idx, idx+1)
		}
	}
	return run, width
}
