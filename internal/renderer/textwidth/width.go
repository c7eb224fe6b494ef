// Package textwidth measures how many terminal columns characters occupy.
//
// Widths follow wcwidth conventions: printable characters are 1 or 2 columns,
// combining marks are 0, and non-printable control characters report -1.
// Callers that store text on a grid use the "rendered" variants, which map
// C0 control characters to their Control Pictures glyph first.
package textwidth

import (
	"sync/atomic"

	"github.com/mattn/go-runewidth"
)

// Ellipsis replaces text that did not fit. It is always one column wide.
const Ellipsis = '…'

var condition atomic.Pointer[runewidth.Condition]

func init() {
	c := runewidth.NewCondition()
	c.EastAsianWidth = false
	condition.Store(c)
}

// SetAmbiguousWide selects whether East Asian ambiguous characters are
// measured as two columns.
func SetAmbiguousWide(wide bool) {
	c := runewidth.NewCondition()
	c.EastAsianWidth = wide
	condition.Store(c)
}

// Rune returns the column width of r, or -1 if r is a non-printable control.
func Rune(r rune) int {
	if r < 0x20 || (r >= 0x7f && r < 0xa0) {
		return -1
	}
	return condition.Load().RuneWidth(r)
}

// RuneMin0 is Rune with negative widths clamped to 0.
func RuneMin0(r rune) int {
	return max(Rune(r), 0)
}

// Visible is the width used while measuring prompts: backspace moves one
// column back, every other non-printable is zero width.
func Visible(r rune) int {
	if r == '\b' {
		return -1
	}
	return RuneMin0(r)
}

// Rendered maps C0 controls to the Control Pictures block so they cannot
// move the cursor when written.
func Rendered(r rune) rune {
	if r >= 0 && r <= 0x1f {
		return r + 0x2400
	}
	return r
}

// RenderedWidth is the signed width of r once rendered.
func RenderedWidth(r rune) int {
	return Rune(Rendered(r))
}

// RenderedWidthMin0 is RenderedWidth clamped to 0.
func RenderedWidthMin0(r rune) int {
	return max(RenderedWidth(r), 0)
}

// String returns the rendered width of s. A negative total is reported as 0.
func String(s string) int {
	total := 0
	for _, r := range s {
		total += RenderedWidth(r)
	}
	return max(total, 0)
}

// Runes is String for a rune slice.
func Runes(rs []rune) int {
	total := 0
	for _, r := range rs {
		total += RenderedWidth(r)
	}
	return max(total, 0)
}
