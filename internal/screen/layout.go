package screen

import (
	"slices"

	"github.com/dshills/reefline/internal/renderer/highlight"
	"github.com/dshills/reefline/internal/renderer/layout"
	"github.com/dshills/reefline/internal/renderer/textwidth"
)

// screenLayout is what fits on the screen for one Write.
type screenLayout struct {
	leftPrompt      string
	leftPromptLines int
	leftPromptSpace int
	rightPrompt     string
	autosuggestion  []rune
}

// computeLayout truncates both prompts to the screen width and decides
// whether the right prompt fits next to the first command line row. The
// left prompt and the typed text are always shown. The autosuggestion may
// soft wrap freely but is cut, with an ellipsis, where it would run past
// the bottom of the screen; colors and indents are returned adjusted to
// match.
func computeLayout(cache *layout.Cache, width, height int, leftUntrunc, rightUntrunc string,
	before, suggestion []rune, colors []highlight.Spec, indents []int,
) (screenLayout, []highlight.Spec, []int) {
	left, leftLayout := cache.CalcPromptLayout(leftUntrunc, width)
	right, rightLayout := cache.CalcPromptLayout(rightUntrunc, width)

	leftWidth := leftLayout.LastLineWidth
	rightWidth := rightLayout.LastLineWidth

	firstLineWidth := renderedWidth(firstLine(before))
	lastLineWidth := renderedWidth(lastLine(before))

	result := screenLayout{
		leftPrompt:      left,
		leftPromptLines: leftLayout.LineCount(),
		leftPromptSpace: leftWidth,
	}

	indentWidth := func(pos int) int {
		return max(indents[pos], 0) * IndentStep
	}

	beforeLines := countRune(before, '\n')
	cursorY := leftLayout.LineCount() - 1 + beforeLines
	available := max(height-cursorY, 0)

	truncatedVertically := false
	suggestionStart := len(before)
	var lines [][]rune
	for i, line := range splitRunes(suggestion, '\n') {
		if available == 0 {
			truncatedVertically = true
			break
		}

		w := leftWidth
		if i == 0 {
			w += lastLineWidth
			if nl := lastIndex(before, '\n'); nl >= 0 {
				w += indentWidth(nl)
			}
		} else {
			w += indentWidth(suggestionStart - 1)
		}
		available = max(available-w/width, 0)
		if available == 0 {
			truncatedVertically = true
			break
		}

		n, cut, ok := consumedLines(width, available, w%width, line)
		if !ok {
			lines = append(lines, cut)
			truncatedVertically = true
			break
		}
		available -= n
		lines = append(lines, line)
		suggestionStart += len(line) + 1
	}

	firstSuggestionWidth := 0
	if beforeLines == 0 && len(lines) > 0 {
		firstSuggestionWidth = renderedWidth(lines[0])
	}
	if leftWidth+firstLineWidth+firstSuggestionWidth+rightWidth <= width {
		result.rightPrompt = right
	}

	var shown []rune
	for i, line := range lines {
		if i > 0 {
			shown = append(shown, '\n')
		}
		shown = append(shown, line...)
	}

	if dropped := len(suggestion) - len(shown); dropped > 0 {
		end := len(before) + len(shown)
		colors = slices.Delete(colors, end, end+dropped)
		indents = slices.Delete(indents, end, end+dropped)
		if truncatedVertically && len(shown) > 0 {
			shown = append(shown, textwidth.Ellipsis)
			colors = slices.Insert(colors, end, colors[end-1])
			indents = slices.Insert(indents, end, indents[end-1])
		}
	}
	result.autosuggestion = shown
	return result, colors, indents
}

// consumedLines returns how many rows line takes when it starts at column.
// If that is more than available, it returns the prefix that fits instead.
func consumedLines(width, available, column int, line []rune) (int, []rune, bool) {
	lines := 1
	for i, c := range line {
		w := textwidth.RenderedWidthMin0(c)
		next := column + w
		if next >= width {
			column = 0
			lines++
		}
		// Exactly filling the row leaves the cursor at column 0 of the next.
		if next != width {
			column += w
		}
		if lines > available {
			return lines, line[:i], false
		}
	}
	return lines, nil, true
}

func firstLine(rs []rune) []rune {
	if i := slices.Index(rs, '\n'); i >= 0 {
		return rs[:i]
	}
	return rs
}

func lastLine(rs []rune) []rune {
	return rs[lastIndex(rs, '\n')+1:]
}

func lastIndex(rs []rune, r rune) int {
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i] == r {
			return i
		}
	}
	return -1
}

func countRune(rs []rune, r rune) int {
	n := 0
	for _, c := range rs {
		if c == r {
			n++
		}
	}
	return n
}

// splitRunes splits at every sep. Like strings.Split it always returns at
// least one element.
func splitRunes(rs []rune, sep rune) [][]rune {
	var out [][]rune
	start := 0
	for i, c := range rs {
		if c == sep {
			out = append(out, rs[start:i])
			start = i + 1
		}
	}
	return append(out, rs[start:])
}

func renderedWidth(rs []rune) int {
	total := 0
	for _, c := range rs {
		total += textwidth.RenderedWidthMin0(c)
	}
	return total
}
