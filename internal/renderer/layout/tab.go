package layout

// DefaultTabWidth is used when the terminal does not declare init_tabs.
const DefaultTabWidth = 8

// TabStops computes tab stop positions for a fixed tab width.
type TabStops struct {
	width int
}

// NewTabStops creates tab stops every width columns.
func NewTabStops(width int) TabStops {
	if width < 1 {
		width = DefaultTabWidth
	}
	return TabStops{width: width}
}

// Width returns the tab width.
func (t TabStops) Width() int {
	if t.width < 1 {
		return DefaultTabWidth
	}
	return t.width
}

// Next returns the first tab stop strictly after col.
func (t TabStops) Next(col int) int {
	w := t.Width()
	return (col/w + 1) * w
}
