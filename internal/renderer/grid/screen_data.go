package grid

// ScreenData is a full rendering: lines, cursor and the width used to lay
// them out. A ScreenWidth of 0 means nothing has been rendered yet.
type ScreenData struct {
	lines       []*Line
	Cursor      Cursor
	ScreenWidth int
	// VisiblePromptLines is the number of rows the left prompt occupies.
	// Those rows are written as part of the prompt, not diffed cell by cell.
	VisiblePromptLines int
}

// NewScreenData creates empty screen data.
func NewScreenData() *ScreenData {
	return &ScreenData{}
}

// AddLine appends an empty line and returns it.
func (s *ScreenData) AddLine() *Line {
	l := NewLine()
	s.lines = append(s.lines, l)
	return l
}

// ClearLines removes every line.
func (s *ScreenData) ClearLines() {
	clear(s.lines)
	s.lines = s.lines[:0]
}

// Resize truncates or pads the data to exactly n lines.
func (s *ScreenData) Resize(n int) {
	if n < len(s.lines) {
		clear(s.lines[n:])
		s.lines = s.lines[:n]
		return
	}
	for len(s.lines) < n {
		s.lines = append(s.lines, NewLine())
	}
}

// CreateLine returns line i, growing the data as needed.
func (s *ScreenData) CreateLine(i int) *Line {
	if i >= len(s.lines) {
		s.Resize(i + 1)
	}
	return s.lines[i]
}

// InsertLineAt inserts an empty line before index i and returns it.
func (s *ScreenData) InsertLineAt(i int) *Line {
	if i < 0 || i > len(s.lines) {
		panic("grid: InsertLineAt index out of range")
	}
	l := NewLine()
	s.lines = append(s.lines, nil)
	copy(s.lines[i+1:], s.lines[i:])
	s.lines[i] = l
	return l
}

// Line returns line i. It panics if i is out of range.
func (s *ScreenData) Line(i int) *Line {
	return s.lines[i]
}

// LineCount returns the number of lines.
func (s *ScreenData) LineCount() int {
	return len(s.lines)
}

// AppendLines copies the lines of other onto the end of s.
func (s *ScreenData) AppendLines(other *ScreenData) {
	for _, l := range other.lines {
		s.lines = append(s.lines, l.Clone())
	}
}

// Clone returns a deep copy.
func (s *ScreenData) Clone() *ScreenData {
	c := &ScreenData{
		lines:       make([]*Line, len(s.lines)),
		Cursor:      s.Cursor,
		ScreenWidth: s.ScreenWidth,

		VisiblePromptLines: s.VisiblePromptLines,
	}
	for i, l := range s.lines {
		c.lines[i] = l.Clone()
	}
	return c
}

// Empty reports whether there are no lines.
func (s *ScreenData) Empty() bool {
	return len(s.lines) == 0
}

// Strings returns the text of each line.
func (s *ScreenData) Strings() []string {
	out := make([]string, len(s.lines))
	for i, l := range s.lines {
		out[i] = l.String()
	}
	return out
}
