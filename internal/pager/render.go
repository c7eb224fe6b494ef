package pager

import (
	"fmt"
	"strings"

	"github.com/dshills/reefline/internal/renderer/grid"
	"github.com/dshills/reefline/internal/renderer/highlight"
	"github.com/dshills/reefline/internal/renderer/textwidth"
)

// PageRendering is a snapshot of one pager layout.
type PageRendering struct {
	// TermWidth and TermHeight are the size rendered for, -1 before the
	// first render.
	TermWidth  int
	TermHeight int

	Rows     int
	Cols     int
	RowStart int
	RowEnd   int

	// Selected is the index drawn selected, or NoSelection.
	Selected   int
	ScreenData *grid.ScreenData

	RemainingToDisclose int

	SearchFieldShown bool
	SearchText       string
	SearchPosition   int
}

// NewPageRendering returns a rendering that matches no pager state.
func NewPageRendering() *PageRendering {
	return &PageRendering{
		TermWidth:  -1,
		TermHeight: -1,
		Selected:   NoSelection,
		ScreenData: grid.NewScreenData(),
	}
}

// Render lays out the filtered completions for the current terminal size.
// It tries the widest grid first and settles on the first that fits; one
// column always fits.
func (p *Pager) Render() *PageRendering {
	r := NewPageRendering()
	r.TermWidth = p.termWidth
	r.TermHeight = p.termHeight
	r.SearchFieldShown = p.searchFieldShown
	r.SearchText = p.search.Text()
	r.SearchPosition = p.search.Position()

	n := len(p.comps)
	for cols := p.opts.MaxColumns; cols >= 1; cols-- {
		r.ScreenData.ClearLines()

		// With the same number of rows, fewer columns are better.
		rows := divideRoundUp(n, cols)
		minCols := divideRoundUp(n, rows)
		if cols > 1 && minCols < cols {
			continue
		}

		r.Cols = cols
		r.Rows = rows
		r.Selected = p.visualSelectedIndex(rows, cols)

		if p.tryPrint(cols, r) {
			break
		}
	}
	return r
}

// tryPrint renders the list in cols columns. It returns false when the
// columns do not fit; one column always fits.
func (p *Pager) tryPrint(cols int, r *PageRendering) bool {
	if p.termWidth < MinWidth || p.termHeight < MinHeight {
		return true
	}

	termWidth := p.termWidth
	termHeight := p.termHeight - 1
	if p.searchFieldShown {
		termHeight--
	}
	if !p.fullyDisclosed {
		termHeight = min(termHeight, max(termHeight/2, p.opts.UndisclosedRows))
	}

	rowCount := divideRoundUp(len(p.comps), cols)

	r.RemainingToDisclose = 0
	if !p.fullyDisclosed && rowCount > termHeight {
		r.RemainingToDisclose = rowCount - termHeight
	}
	// A "1 more row" notice takes as much room as the row itself.
	if r.RemainingToDisclose == 1 {
		termHeight++
		r.RemainingToDisclose = 0
	}

	widths := make([]int, cols)
	for col := range widths {
		for row := 0; row < rowCount; row++ {
			idx := col*rowCount + row
			if idx >= len(p.comps) {
				continue
			}
			widths[col] = max(widths[col], p.comps[idx].preferredWidth())
		}
	}

	if cols == 1 {
		widths[0] = min(widths[0], termWidth)
	} else {
		total := (cols - 1) * len(Spacer)
		for _, w := range widths {
			total += w
		}
		if total > termWidth {
			return false
		}
	}

	startRow, stopRow := 0, rowCount
	if rowCount > termHeight {
		lastStart := rowCount - termHeight
		startRow = min(p.suggestedRowStart, lastStart)
		stopRow = startRow + termHeight
	}

	p.print(cols, widths, startRow, stopRow, r)

	var progress string
	switch {
	case r.RemainingToDisclose > 1:
		progress = fmt.Sprintf("%sand %d more rows", string(textwidth.Ellipsis), r.RemainingToDisclose)
	case startRow > 0 || stopRow < rowCount:
		progress = fmt.Sprintf("rows %d to %d of %d", startRow+1, stopRow, rowCount)
	case p.searchFieldShown && len(p.comps) == 0:
		progress = "(no matches)"
	}
	if p.extraProgress != "" {
		if progress != "" {
			progress += ". "
		}
		progress += p.extraProgress
	}
	if progress != "" {
		line := r.ScreenData.AddLine()
		printMax(line, progress, uniform(highlight.WithBoth(highlight.RolePagerProgress)), termWidth, true)
	}

	if !p.searchFieldShown {
		return true
	}

	text := p.search.Text()
	if pad := p.opts.SearchFieldWidth - len([]rune(text)); pad > 0 {
		text += strings.Repeat(" ", pad)
	}
	field := r.ScreenData.InsertLineAt(0)
	remaining := termWidth - 1
	remaining -= printMax(field, SearchFieldPrompt, uniform(highlight.Normal), remaining, false)
	printMax(field, text, uniform(highlight.Spec{ForceUnderline: true}), remaining, false)
	return true
}

// print renders rows [startRow, stopRow) of the grid.
func (p *Pager) print(cols int, widths []int, startRow, stopRow int, r *PageRendering) {
	r.RowStart = startRow
	r.RowEnd = stopRow

	rows := divideRoundUp(len(p.comps), cols)
	selected := p.visualSelectedIndex(rows, cols)

	for row := startRow; row < stopRow; row++ {
		for col, width := range widths {
			idx := col*rows + row
			if idx >= len(p.comps) {
				continue
			}
			e := &p.comps[idx]
			prefix := ""
			if e.showPrefix() {
				prefix = p.prefix
			}
			line := p.printItem(prefix, e, width, row%2 != 0, idx == selected)
			if col+1 < cols {
				line.AppendString(Spacer, highlight.Normal)
			}
			r.ScreenData.CreateLine(row - startRow).AppendLine(line)
		}
	}
}

// printItem renders one entry into exactly width columns. When it does not
// fit, the candidate gets up to two thirds of the room and the description
// the rest.
func (p *Pager) printItem(prefix string, e *entry, width int, secondary, selected bool) *grid.Line {
	line := grid.NewLine()

	compWidth := e.compWidth
	if e.preferredWidth() > width {
		spare := max(width-4, 0)
		twoThirds := (spare/3)*2 + ((spare%3)*2)/3
		compWidth = min(e.compWidth, twoThirds)

		// A short description leaves the candidate the remaining space.
		if punct := e.descriptionPunctuatedWidth(); width > punct {
			compWidth = max(compWidth, width-punct)
		}
	}

	role := func(base highlight.Role) highlight.Role {
		return highlight.PagerVariant(base, selected, secondary)
	}
	bgRole := role(highlight.RolePagerBackground)
	bg := highlight.WithBG(bgRole)
	prefixRole := highlight.RolePagerCompletion
	if p.highlightPrefix {
		prefixRole = highlight.RolePagerPrefix
	}
	prefixCol := highlight.WithFGBG(role(prefixRole), bgRole)
	compCol := highlight.WithFGBG(role(highlight.RolePagerCompletion), bgRole)
	descCol := highlight.WithFGBG(role(highlight.RolePagerDescription), bgRole)

	compColor := func(i int) highlight.Spec {
		// Selected rows are drawn in reverse video, so no syntax colors.
		if len(e.colors) == 0 || selected {
			return compCol
		}
		if i < len(e.colors) {
			return e.colors[i]
		}
		return e.colors[len(e.colors)-1]
	}

	remaining := compWidth
	for i, s := range e.comp {
		if i > 0 {
			remaining -= printMax(line, Spacer, uniform(bg), remaining, true)
		}
		if prefix != "" {
			remaining -= printMax(line, prefix, uniform(prefixCol), remaining, s != "")
		}
		remaining -= printMax(line, s, compColor, remaining, i+1 < len(e.comp))
	}

	descRemaining := width - compWidth + remaining
	if e.descWidth > 0 && descRemaining > 4 {
		descRemaining -= printMax(line, "  ", uniform(bg), 2, false)
		// Right-justify; the 2 is for the parentheses.
		for descRemaining > e.descWidth+2 {
			descRemaining -= printMax(line, " ", uniform(bg), 1, false)
		}

		parenRole := highlight.RolePagerCompletion
		if selected {
			parenRole = highlight.RolePagerSelectedCompletion
		}
		paren := highlight.WithFGBG(parenRole, bgRole)
		descRemaining -= printMax(line, "(", uniform(paren), 1, false)
		descRemaining -= printMax(line, e.desc, uniform(descCol), descRemaining-1, false)
		printMax(line, ")", uniform(paren), 1, false)
	} else if descRemaining > 0 {
		printMax(line, strings.Repeat(" ", descRemaining), uniform(bg), descRemaining, false)
	}
	return line
}

func uniform(spec highlight.Spec) func(int) highlight.Spec {
	return func(int) highlight.Spec { return spec }
}

// printMax appends s to line using at most maxWidth columns and returns the
// columns used. If s does not fit it is cut with an ellipsis; with hasMore
// the ellipsis is also used when s exactly fills the space. Characters
// without a printable width are skipped.
func printMax(line *grid.Line, s string, color func(int) highlight.Spec, maxWidth int, hasMore bool) int {
	remaining := maxWidth
	rs := []rune(s)
	for i, c := range rs {
		w := textwidth.RenderedWidth(c)
		if w < 0 {
			continue
		}
		if w > remaining {
			break
		}
		if w == remaining && (hasMore || i+1 < len(rs)) {
			line.Append(textwidth.Ellipsis, color(i))
			remaining = max(remaining-textwidth.Rune(textwidth.Ellipsis), 0)
			break
		}
		line.Append(c, color(i))
		remaining -= w
	}
	return maxWidth - remaining
}

// divideRoundUp returns ceil(n/d), with 0/0 = 0.
func divideRoundUp(n, d int) int {
	if n == 0 {
		return 0
	}
	return (n + d - 1) / d
}
