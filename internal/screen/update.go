package screen

import (
	"math"

	"github.com/dshills/reefline/internal/renderer/grid"
	"github.com/dshills/reefline/internal/renderer/highlight"
	"github.com/dshills/reefline/internal/renderer/textwidth"
)

// update emits what is needed to turn actual into desired, then commits
// desired as actual. The prompts are already truncated.
func (s *Screen) update(leftPrompt, rightPrompt string) {
	s.colors.Reset()
	setColor := func(spec highlight.Spec) {
		s.out.SetTextFace(s.colors.Resolve(spec))
	}

	start := s.out.BytesWritten()

	_, leftLayout := s.cache.CalcPromptLayout(leftPrompt, math.MaxInt)
	promptLastLineWidth := leftLayout.LastLineWidth
	_, rightLayout := s.cache.CalcPromptLayout(rightPrompt, math.MaxInt)
	rightPromptWidth := rightLayout.LastLineWidth

	// Lines that had content before a reset may need clearing.
	linesBeforeReset := s.actualLinesBeforeReset
	s.actualLinesBeforeReset = 0

	needClearLines := s.needClearLines
	needClearScreen := s.needClearScreen
	hasClearedScreen := false

	width := s.desired.ScreenWidth

	if s.actual.ScreenWidth != width {
		// No clear on the very first output.
		if s.actual.ScreenWidth > 0 {
			needClearScreen = true
			s.move(0, 0)
			s.ResetLine(false)

			needClearLines = needClearLines || s.needClearLines
			needClearScreen = needClearScreen || s.needClearScreen
		}
		s.actual.ScreenWidth = width
	}

	s.needClearLines = false
	s.needClearScreen = false

	linesWithStuff := max(linesBeforeReset, s.actual.LineCount())
	if s.desired.LineCount() < linesWithStuff {
		needClearScreen = true
	}

	promptVisible := s.desired.VisiblePromptLines > 0
	promptLastLine := max(s.desired.VisiblePromptLines-1, 0)

	promptChanged := promptVisible &&
		(!s.haveLeftPrompt || s.actualLeftPrompt != leftPrompt ||
			s.actual.VisiblePromptLines != s.desired.VisiblePromptLines)

	promptScreenWide := promptVisible && promptLastLineWidth == width
	promptShouldWrap := promptScreenWide && s.shouldWrap(promptLastLine)

	if promptChanged || promptShouldWrap {
		prompt := []rune(leftPrompt)
		var from int
		if promptChanged {
			s.move(0, 0)
			first := leftLayout.LineCount() - s.desired.VisiblePromptLines
			from = leftLayout.LineStarts[first]
			for _, next := range leftLayout.LineStarts[first+1:] {
				s.out.ClrEOL()
				s.out.WriteString(string(prompt[from:next]))
				from = next
			}
		} else {
			s.move(0, promptLastLine)
			from = leftLayout.LineStarts[leftLayout.LineCount()-1]
		}
		s.out.WriteString(string(prompt[from:]))
		s.actualLeftPrompt = leftPrompt
		s.haveLeftPrompt = true
		s.actual.Cursor = grid.Cursor{X: promptLastLineWidth, Y: promptLastLine}
		if promptShouldWrap {
			s.softWrap = &grid.Cursor{X: 0, Y: promptLastLine + 1}
		}
	} else if !s.haveLeftPrompt {
		s.actualLeftPrompt = leftPrompt
		s.haveLeftPrompt = true
	}

	cmdStart := promptLastLine
	if promptScreenWide {
		cmdStart++
	}

	for i := cmdStart; i < s.desired.LineCount(); i++ {
		lineStart := s.out.BytesWritten()
		o := s.desired.Line(i)
		a := s.actual.CreateLine(i)

		isPromptLine := promptVisible && i == promptLastLine
		startPos := 0
		if isPromptLine {
			startPos = promptLastLineWidth
		}
		currentWidth := 0
		hasClearedLine := false

		// clr_eos on the last line, unless the cursor will end up in the
		// last column.
		clearScreenThisLine := needClearScreen &&
			i+1 == s.desired.LineCount() &&
			!(s.desired.Cursor.X == 0 && s.desired.Cursor.Y == s.desired.LineCount())

		// skipRemaining is a width, not a cell count.
		skipRemaining := startPos

		// Rows that showed the old prompt hold prompt glyphs the actual
		// cells do not record. The last prompt row only counts when the
		// prompt was repainted.
		oldPromptLines := s.actual.VisiblePromptLines
		previouslyPromptLine := i < oldPromptLines &&
			(promptChanged || !promptVisible || i+1 < oldPromptLines)

		shared := 0
		if !previouslyPromptLine {
			shared = grid.SharedPrefix(o, a)
		}
		skipPrefix := shared
		if shared < o.Indentation || previouslyPromptLine {
			if !hasClearedScreen && (o.Indentation > a.Indentation || previouslyPromptLine) {
				setColor(highlight.Normal)
				s.move(startPos, i)
				if clearScreenThisLine {
					s.out.ClrEOS()
				} else {
					s.out.ClrEOL()
				}
				hasClearedScreen = clearScreenThisLine
				hasClearedLine = true
			}
			skipPrefix = o.Indentation
		}

		if skipPrefix > 0 {
			skipWidth := skipPrefix
			if shared >= skipPrefix {
				skipWidth = o.Width(shared)
			}
			skipRemaining = max(skipRemaining, skipWidth)
		}

		if !clearScreenThisLine && s.shouldWrap(i) {
			// Rewrite the last two cells so the terminal wraps into the
			// changed next line by itself.
			skipRemaining = min(skipRemaining, width-2)
			if isPromptLine {
				skipRemaining = max(skipRemaining, promptLastLineWidth)
			}
		}

		j := 0
		for ; j < o.Len(); j++ {
			w := textwidth.RuneMin0(o.RuneAt(j))
			if currentWidth+w > skipRemaining {
				break
			}
			currentWidth += w
		}

		for {
			done := j >= o.Len()
			// Clear before writing into the last column: clearing after
			// would erase that cell on terminals with a sticky right
			// margin, and clearing earlier would break soft wrapping.
			if clearScreenThisLine && !hasClearedScreen && (done || j+1 == width) {
				setColor(highlight.Normal)
				s.move(currentWidth, i)
				s.out.ClrEOS()
				hasClearedScreen = true
			}
			if done {
				break
			}

			s.handleSoftWrap(currentWidth, i)
			s.move(currentWidth, i)
			setColor(o.SpecAt(j))
			c := o.RuneAt(j)
			w := textwidth.RuneMin0(c)
			s.writeChar(c, w)
			currentWidth += w
			j++
		}

		// Clearing after a write into the last column would erase the
		// character just written.
		clearRemainder := false
		switch {
		case hasClearedScreen || hasClearedLine:
		case needClearLines && currentWidth < width:
			clearRemainder = true
		case rightPromptWidth < s.lastRightPromptWidth:
			clearRemainder = true
		case a.Len() != shared:
			clearRemainder = a.TotalWidth() > currentWidth
		}

		// Reset even without a clear so the next line starts from the
		// default background.
		setColor(highlight.Normal)
		if clearRemainder {
			s.move(currentWidth, i)
			s.out.ClrEOL()
		}

		redrawRight := rightPrompt != s.actualRightPrompt || s.out.BytesWritten() != lineStart
		if isPromptLine && rightPromptWidth > 0 && redrawRight {
			// Go to column 0 first so a width disagreement with the
			// terminal cannot staircase.
			s.move(0, i)
			s.move(width-rightPromptWidth, i)
			setColor(highlight.Normal)
			s.out.WriteString(rightPrompt)
			s.actual.Cursor.X += rightPromptWidth

			// The cursor is now in or past the last column. A carriage
			// return could land on the next line if the terminal wrapped,
			// so step back onto the line first.
			s.move(s.actual.Cursor.X-rightPromptWidth, s.actual.Cursor.Y)
			s.out.WriteString("\r")
			s.actual.Cursor.X = 0
		}
	}

	emitted := s.out.BytesWritten() != start

	// Return to column 0 in case a width was misjudged.
	if emitted {
		s.move(0, s.actual.Cursor.Y)
	}

	if !hasClearedScreen && needClearScreen {
		setColor(highlight.Normal)
		for i := s.desired.LineCount(); i < linesWithStuff; i++ {
			s.move(0, i)
			s.out.ClrEOL()
		}
	}

	s.move(s.desired.Cursor.X, s.desired.Cursor.Y)
	setColor(highlight.Normal)

	s.actual = s.desired.Clone()
	s.actualRightPrompt = rightPrompt
	s.lastRightPromptWidth = rightPromptWidth
}

// move emits the cursor motion from the actual cursor to (x, y).
func (s *Screen) move(x, y int) {
	cur := &s.actual.Cursor
	if cur.X == x && cur.Y == y {
		return
	}
	defer s.out.Buffered()()

	// At the right edge the cursor either stuck to the margin or wrapped;
	// there is no telling which. Get back to a known column.
	if s.actual.ScreenWidth > 0 && cur.X == s.actual.ScreenWidth {
		if y <= cur.Y {
			s.out.WriteString("\r")
		} else {
			s.out.WriteString("\n")
			cur.Y++
		}
		cur.X = 0
	}

	dy := y - cur.Y
	switch {
	case dy < 0:
		for range -dy {
			s.out.CursorUp()
		}
	case dy > 0:
		// A newline cursor down also returns the carriage under ONLCR.
		if s.translatesNewline && s.out.Capabilities().CursorDown == "\n" {
			cur.X = 0
		}
		for range dy {
			s.out.CursorDown()
		}
	}

	dx := x - cur.X
	if dx != 0 && x == 0 {
		s.out.WriteString("\r")
		dx = 0
	}
	switch {
	case dx == -1:
		s.out.CursorLeft()
	case dx == 1:
		s.out.CursorRight()
	case dx < 0:
		s.out.MoveLeft(-dx)
	case dx > 0:
		s.out.MoveRight(dx)
	}

	cur.X = x
	cur.Y = y
}

// writeChar writes one cell at the actual cursor.
func (s *Screen) writeChar(c rune, width int) {
	s.actual.Cursor.X += width
	s.out.WriteRune(c)
	if s.actual.Cursor.X == s.actual.ScreenWidth {
		// The reported position may be a lie here; move fixes it up.
		s.softWrap = &grid.Cursor{X: 0, Y: s.actual.Cursor.Y + 1}
	} else {
		s.softWrap = nil
	}
}

// handleSoftWrap pretends the cursor already wrapped when output is about
// to continue at the start of a soft-wrapped line's successor. The
// terminal then wraps by itself and copied text has no embedded newline.
func (s *Screen) handleSoftWrap(x, y int) {
	if s.softWrap == nil || *s.softWrap != (grid.Cursor{X: x, Y: y}) {
		return
	}
	if y > 0 && s.allowSoftWrap() && s.desired.Line(y-1).SoftWrapped {
		s.actual.Cursor = *s.softWrap
	}
}

// shouldWrap reports whether line i must be rewritten up to its end so the
// terminal soft wraps into line i+1, whose first cell is about to be
// written.
func (s *Screen) shouldWrap(i int) bool {
	if !s.allowSoftWrap() || !s.desired.Line(i).SoftWrapped || i+1 >= s.desired.LineCount() {
		return false
	}
	next := s.desired.Line(i + 1)
	if next.Len() == 0 {
		// Nothing is written there; a stale line is cleared instead.
		return false
	}
	return i+1 >= s.actual.LineCount() ||
		grid.SharedPrefix(s.actual.Line(i+1), next) == 0
}

func (s *Screen) allowSoftWrap() bool {
	return s.out.Capabilities().AutoRightMargin
}
