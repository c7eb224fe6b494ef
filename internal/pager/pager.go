// Package pager lays out completion candidates as a multi-column grid and
// tracks keyboard navigation through it.
//
// The pager is independent of the screen: Render produces a PageRendering
// whose ScreenData the screen appends below the command line. The grid is
// filled column-major, so index = column*rows + row.
package pager

const (
	// Spacer separates adjacent columns.
	Spacer = "  "

	// MinWidth and MinHeight are the smallest terminal the pager draws on.
	MinWidth  = 16
	MinHeight = 4

	// SearchFieldPrompt labels the search field line.
	SearchFieldPrompt = "search: "

	// NoSelection is the selection index when nothing is selected.
	NoSelection = -1
)

// Options tune the layout.
type Options struct {
	// MaxColumns is the widest grid tried. Default 6.
	MaxColumns int
	// UndisclosedRows is the minimum number of rows shown before the pager
	// is fully disclosed. Default 4.
	UndisclosedRows int
	// SearchFieldWidth is the minimum width of the search text. Default 12.
	SearchFieldWidth int
}

// DefaultOptions returns the standard layout options.
func DefaultOptions() Options {
	return Options{
		MaxColumns:       6,
		UndisclosedRows:  4,
		SearchFieldWidth: 12,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MaxColumns <= 0 {
		o.MaxColumns = d.MaxColumns
	}
	if o.UndisclosedRows <= 0 {
		o.UndisclosedRows = d.UndisclosedRows
	}
	if o.SearchFieldWidth <= 0 {
		o.SearchFieldWidth = d.SearchFieldWidth
	}
	return o
}

// Pager holds the completion list and selection state.
type Pager struct {
	opts        Options
	highlighter Highlighter

	termWidth  int
	termHeight int

	selected          int
	suggestedRowStart int
	fullyDisclosed    bool
	searchFieldShown  bool

	comps      []entry
	unfiltered []entry

	haveUnrendered bool

	prefix          string
	highlightPrefix bool

	search SearchField

	extraProgress string
}

// New creates an empty pager.
func New(opts Options) *Pager {
	return &Pager{
		opts:     opts.withDefaults(),
		selected: NoSelection,
	}
}

// Options returns the layout options.
func (p *Pager) Options() Options {
	return p.opts
}

// SetOptions replaces the layout options and forces a new rendering.
func (p *Pager) SetOptions(opts Options) {
	p.opts = opts.withDefaults()
	p.haveUnrendered = true
}

// SetHighlighter sets the highlighter used for whole-line completions.
func (p *Pager) SetHighlighter(h Highlighter) {
	p.highlighter = h
}

// SetCompletions replaces the completion list and clears the selection.
func (p *Pager) SetCompletions(list []Completion, refilter bool) {
	p.selected = NoSelection
	p.unfiltered = processCompletions(list, p.highlighter)
	if p.prefix == "-" {
		p.unfiltered = joinCompletions(p.unfiltered)
	}
	measure(p.unfiltered, p.prefix)

	if refilter {
		p.Refilter()
	} else {
		p.comps = cloneEntries(p.unfiltered)
	}
	p.haveUnrendered = true
}

func cloneEntries(es []entry) []entry {
	out := make([]entry, len(es))
	for i := range es {
		out[i] = es[i].clone()
	}
	return out
}

// SetPrefix sets the text shown before every candidate. When highlight is
// false the prefix uses the completion color instead of the prefix color.
func (p *Pager) SetPrefix(prefix string, highlight bool) {
	p.prefix = prefix
	p.highlightPrefix = highlight
}

// Prefix returns the shared prefix.
func (p *Pager) Prefix() string {
	return p.prefix
}

// SetTermSize sets the space available to the pager.
func (p *Pager) SetTermSize(width, height int) {
	p.termWidth = width
	p.termHeight = height
}

// SetExtraProgressText sets text appended to the progress line.
func (p *Pager) SetExtraProgressText(s string) {
	p.extraProgress = s
}

// SearchField returns the search field for editing. Call Refilter after
// changing its text.
func (p *Pager) SearchField() *SearchField {
	return &p.search
}

// SetSearchFieldShown shows or hides the search field.
func (p *Pager) SetSearchFieldShown(shown bool) {
	p.searchFieldShown = shown
}

// SearchFieldShown reports whether the search field is shown.
func (p *Pager) SearchFieldShown() bool {
	return p.searchFieldShown
}

// SetFullyDisclosed shows every row from now on.
func (p *Pager) SetFullyDisclosed() {
	p.fullyDisclosed = true
}

// FullyDisclosed reports whether every row is shown.
func (p *Pager) FullyDisclosed() bool {
	return p.fullyDisclosed
}

// IsEmpty reports whether there are no completions at all.
func (p *Pager) IsEmpty() bool {
	return len(p.unfiltered) == 0
}

// IsNavigating reports whether a selection is active. This can be true
// with nothing visibly selected, when every completion is filtered out.
func (p *Pager) IsNavigating() bool {
	return p.selected != NoSelection
}

// Len returns the number of completions passing the filter.
func (p *Pager) Len() int {
	return len(p.comps)
}

// Clear drops every completion and resets the pager state.
func (p *Pager) Clear() {
	p.unfiltered = nil
	p.comps = nil
	p.prefix = ""
	p.highlightPrefix = false
	p.selected = NoSelection
	p.fullyDisclosed = false
	p.searchFieldShown = false
	p.extraProgress = ""
	p.suggestedRowStart = 0
}

// Refilter rebuilds the visible list from the search field.
func (p *Pager) Refilter() {
	p.comps = p.comps[:0]
	for i := range p.unfiltered {
		if p.passesFilter(&p.unfiltered[i]) {
			p.comps = append(p.comps, p.unfiltered[i].clone())
		}
	}
}

func (p *Pager) passesFilter(e *entry) bool {
	if !p.searchFieldShown || p.search.Empty() {
		return true
	}
	needle := p.search.Text()
	if Match(needle, e.desc) != MatchNone {
		return true
	}
	for _, c := range e.comp {
		if Match(needle, p.prefix+c) != MatchNone {
			return true
		}
	}
	return false
}

// SelectedIndex returns the raw selection index, or NoSelection.
func (p *Pager) SelectedIndex() int {
	return p.selected
}

// SetSelectedIndex sets the selection. An index one past the end selects
// the last completion. Larger indexes panic.
func (p *Pager) SetSelectedIndex(idx int) {
	if idx > len(p.comps) {
		panic("pager: selection index out of range")
	}
	if len(p.comps) == 0 {
		return
	}
	if idx == len(p.comps) {
		idx = len(p.comps) - 1
	}
	if idx < 0 {
		idx = NoSelection
	}
	p.selected = idx
}

// SelectedCompletion returns the completion drawn selected in r.
func (p *Pager) SelectedCompletion(r *PageRendering) (Completion, bool) {
	idx := p.visualSelectedIndex(r.Rows, r.Cols)
	if idx == NoSelection {
		return Completion{}, false
	}
	return p.comps[idx].representative, true
}

// CursorPosition returns the cursor column inside the search field line,
// clamped to the right edge.
func (p *Pager) CursorPosition() int {
	pos := len([]rune(SearchFieldPrompt)) + p.search.Position()
	if p.termWidth > 0 && pos+1 > p.termWidth {
		pos = p.termWidth - 1
	}
	return pos
}

// visualSelectedIndex returns the index drawn selected in a rows x cols
// grid. A selection past the end moves left by whole columns first, which
// keeps the row when the list shrinks.
func (p *Pager) visualSelectedIndex(rows, cols int) int {
	if len(p.comps) == 0 {
		return NoSelection
	}
	result := p.selected
	if result == 0 || result == NoSelection {
		return result
	}
	if rows == 0 || cols == 0 {
		return NoSelection
	}
	for result >= len(p.comps) && result >= rows {
		result -= rows
	}
	if result >= len(p.comps) {
		result = len(p.comps) - 1
	}
	return result
}

// RenderingNeedsUpdate reports whether r is stale.
func (p *Pager) RenderingNeedsUpdate(r *PageRendering) bool {
	if p.haveUnrendered {
		return true
	}
	if p.IsEmpty() && r.ScreenData.Empty() {
		return false
	}
	return (p.IsEmpty() && !r.ScreenData.Empty()) ||
		r.TermWidth != p.termWidth ||
		r.TermHeight != p.termHeight ||
		r.Selected != p.visualSelectedIndex(r.Rows, r.Cols) ||
		r.SearchFieldShown != p.searchFieldShown ||
		r.SearchText != p.search.Text() ||
		r.SearchPosition != p.search.Position() ||
		(r.RemainingToDisclose > 0 && p.fullyDisclosed)
}

// UpdateRendering re-renders into r if it is stale.
func (p *Pager) UpdateRendering(r *PageRendering) {
	if p.RenderingNeedsUpdate(r) {
		*r = *p.Render()
		p.haveUnrendered = false
	}
}
