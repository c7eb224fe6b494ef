package pager

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// SearchField is the small edit buffer shown above the completions while
// filtering. Positions count runes; deletion and cursor motion step over
// whole grapheme clusters.
type SearchField struct {
	text []rune
	pos  int
}

// Text returns the contents.
func (f *SearchField) Text() string {
	return string(f.text)
}

// Position returns the cursor position in runes.
func (f *SearchField) Position() int {
	return f.pos
}

// Empty reports whether the field holds no text.
func (f *SearchField) Empty() bool {
	return len(f.text) == 0
}

// SetText replaces the contents and moves the cursor to the end.
func (f *SearchField) SetText(s string) {
	f.text = []rune(s)
	f.pos = len(f.text)
}

// Clear empties the field.
func (f *SearchField) Clear() {
	f.text = f.text[:0]
	f.pos = 0
}

// Insert inserts s at the cursor.
func (f *SearchField) Insert(s string) {
	rs := []rune(s)
	f.text = append(f.text[:f.pos], append(rs, f.text[f.pos:]...)...)
	f.pos += len(rs)
}

// Backspace removes the grapheme cluster before the cursor.
func (f *SearchField) Backspace() bool {
	if f.pos == 0 {
		return false
	}
	n := lastClusterLen(string(f.text[:f.pos]))
	f.text = append(f.text[:f.pos-n], f.text[f.pos:]...)
	f.pos -= n
	return true
}

// Delete removes the grapheme cluster under the cursor.
func (f *SearchField) Delete() bool {
	if f.pos >= len(f.text) {
		return false
	}
	n := firstClusterLen(string(f.text[f.pos:]))
	f.text = append(f.text[:f.pos], f.text[f.pos+n:]...)
	return true
}

// Left moves the cursor one cluster left.
func (f *SearchField) Left() bool {
	if f.pos == 0 {
		return false
	}
	f.pos -= lastClusterLen(string(f.text[:f.pos]))
	return true
}

// Right moves the cursor one cluster right.
func (f *SearchField) Right() bool {
	if f.pos >= len(f.text) {
		return false
	}
	f.pos += firstClusterLen(string(f.text[f.pos:]))
	return true
}

// Home moves the cursor to the start.
func (f *SearchField) Home() { f.pos = 0 }

// End moves the cursor to the end.
func (f *SearchField) End() { f.pos = len(f.text) }

func firstClusterLen(s string) int {
	c, _, _, _ := uniseg.FirstGraphemeClusterInString(s, -1)
	return utf8.RuneCountInString(c)
}

func lastClusterLen(s string) int {
	n := 0
	state := -1
	var c string
	for len(s) > 0 {
		c, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		n = utf8.RuneCountInString(c)
	}
	return n
}
