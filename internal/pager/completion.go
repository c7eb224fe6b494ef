package pager

import (
	"strings"
	"unicode"

	"github.com/dshills/reefline/internal/renderer/highlight"
	"github.com/dshills/reefline/internal/renderer/textwidth"
)

// Flags modify how a completion is shown.
type Flags uint8

const (
	// FlagReplacesLine marks a completion that replaces the whole command
	// line. Such completions are syntax highlighted when a Highlighter is set.
	FlagReplacesLine Flags = 1 << iota
	// FlagSuppressPrefix hides the shared prefix in front of the candidate.
	FlagSuppressPrefix
)

// Completion is one candidate offered by a completion source.
type Completion struct {
	Text        string
	Description string
	Flags       Flags
}

// ReplacesLine reports whether the completion replaces the command line.
func (c Completion) ReplacesLine() bool {
	return c.Flags&FlagReplacesLine != 0
}

// Highlighter colors a full command line, one Spec per rune.
type Highlighter interface {
	Highlight(text string) []highlight.Spec
}

// HighlighterFunc adapts a function to Highlighter.
type HighlighterFunc func(text string) []highlight.Spec

// Highlight calls f.
func (f HighlighterFunc) Highlight(text string) []highlight.Spec {
	return f(text)
}

// entry is one row item of the grid: one or several candidates sharing a
// description.
type entry struct {
	comp           []string
	desc           string
	representative Completion
	colors         []highlight.Spec

	compWidth int
	descWidth int
}

// descriptionPunctuatedWidth counts the two separating spaces and the
// parentheses around a non-empty description.
func (e *entry) descriptionPunctuatedWidth() int {
	if e.descWidth == 0 {
		return 0
	}
	return e.descWidth + 4
}

func (e *entry) preferredWidth() int {
	return e.compWidth + e.descriptionPunctuatedWidth()
}

func (e *entry) clone() entry {
	c := *e
	c.comp = append([]string(nil), e.comp...)
	return c
}

func (e *entry) showPrefix() bool {
	return e.representative.Flags&FlagSuppressPrefix == 0
}

// symbolicControls replaces characters that would move the cursor with
// printable stand-ins.
var symbolicControls = map[rune]rune{
	'\t':   '␉',
	'\n':   '␤',
	'\b':   '␈',
	'\r':   '␍',
	'\x1b': '␛',
	'\x7f': '␡',
}

// EscapeForDisplay makes a candidate safe to print: control characters are
// shown as symbols and everything else is kept verbatim.
func EscapeForDisplay(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if sym, ok := symbolicControls[r]; ok {
			b.WriteRune(sym)
			continue
		}
		if r >= 0 && r <= 0x19 {
			b.WriteRune(0x2400 + r)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// MangleDescription trims s and collapses internal whitespace runs into a
// single space.
func MangleDescription(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}

func renderedWidth(s string) int {
	w := 0
	for _, r := range s {
		w += textwidth.RenderedWidthMin0(r)
	}
	return w
}

func processCompletions(list []Completion, hl Highlighter) []entry {
	out := make([]entry, len(list))
	for i, c := range list {
		e := &out[i]
		e.comp = []string{EscapeForDisplay(c.Text)}
		if c.ReplacesLine() && hl != nil {
			e.colors = hl.Highlight(c.Text)
		}
		e.desc = MangleDescription(c.Description)
		e.representative = c
	}
	return out
}

// joinCompletions merges entries with identical non-empty descriptions into
// the first entry carrying that description.
func joinCompletions(entries []entry) []entry {
	first := make(map[string]int)
	out := entries[:0]
	for _, e := range entries {
		if e.desc == "" {
			out = append(out, e)
			continue
		}
		if idx, ok := first[e.desc]; ok {
			out[idx].comp = append(out[idx].comp, e.comp...)
			continue
		}
		first[e.desc] = len(out)
		out = append(out, e)
	}
	return out
}

func measure(entries []entry, prefix string) {
	prefixWidth := renderedWidth(prefix)
	for i := range entries {
		e := &entries[i]
		e.compWidth = 0
		show := e.showPrefix()
		for j, s := range e.comp {
			if j >= 1 {
				e.compWidth += 2
			}
			if show {
				e.compWidth += prefixWidth
			}
			e.compWidth += renderedWidth(s)
		}
		e.descWidth = renderedWidth(e.desc)
	}
}
