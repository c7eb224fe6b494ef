package screen

import (
	"strings"
	"unicode/utf8"

	"github.com/dshills/reefline/internal/renderer/backend"
)

// ResetLine forgets what the terminal shows, assuming the cursor is still
// on the same line. With repaintPrompt the prompt is redrawn and the rest
// of the screen cleared on the next Write.
func (s *Screen) ResetLine(repaintPrompt bool) {
	// Remember how many lines had content so a narrower rendering still
	// clears them.
	s.actualLinesBeforeReset = max(s.actualLinesBeforeReset, s.actual.LineCount())

	if repaintPrompt {
		s.haveLeftPrompt = false
		s.needClearScreen = true
	}
	s.actual.ClearLines()
	s.needClearLines = true

	s.out.WriteString("\r")
	s.actual.Cursor.X = 0

	s.saveStatus()
}

// ResetAbandoningLine moves to a fresh line and forgets what the terminal
// shows. When width is known, leftover output that did not end in a
// newline is marked with the omitted-newline glyph and kept; otherwise the
// glyph is overwritten on the new line.
func (s *Screen) ResetAbandoningLine(width int) {
	s.actual.Cursor.Y = 0
	s.actual.ClearLines()
	s.haveLeftPrompt = false
	s.needClearLines = true

	s.writeAbandonLine(width)
	s.actual.Cursor.X = 0

	s.saveStatus()
}

func (s *Screen) writeAbandonLine(width int) {
	defer s.out.Buffered()()

	if width <= 0 {
		s.out.WriteString("\r")
		return
	}

	glyph := s.omittedNewline
	nonSpace := utf8.RuneCountInString(glyph)

	// One extra space may be needed below, hence > rather than >=.
	if width > nonSpace {
		caps := s.out.Capabilities()
		if caps.FromTerminfo {
			writeGrey(s.out, caps)
		} else {
			s.out.EnterDim()
		}
		s.out.WriteString(glyph)
		s.out.ResetTextFace(false)
		s.out.WriteString(strings.Repeat(" ", width-nonSpace))
	}

	s.out.WriteString("\r")
	s.out.WriteString(glyph)
	// The glyph may have landed on the new line; blank it out.
	s.out.WriteString(strings.Repeat(" ", nonSpace))
	s.out.WriteString("\r")
	s.out.ClrEOL()
	s.out.WriteString("\r")
	s.out.ClrEOL()
}

// writeGrey selects dim text, or failing that the greyest color the
// terminal has.
func writeGrey(out *backend.Output, caps *backend.Capabilities) {
	if out.EnterDim() || caps.SetAForeground == "" {
		return
	}
	switch {
	case caps.MaxColors >= 238:
		out.WriteString(backend.Param(caps.SetAForeground, 237))
	case caps.MaxColors >= 9:
		out.WriteString(backend.Param(caps.SetAForeground, 8))
	case caps.MaxColors >= 2:
		// Bold black shows as bright black on most terminals.
		if out.EnterBold() {
			out.WriteString(backend.Param(caps.SetAForeground, 0))
		}
	}
}

// ForceClearToEnd clears from the cursor to the end of the screen.
func (s *Screen) ForceClearToEnd() {
	s.out.ClrEOS()
}

// CursorIsWrappedToOwnLine reports whether the cursor sits alone at the
// start of the last line after a soft or hard wrap.
func (s *Screen) CursorIsWrappedToOwnLine() bool {
	a := s.actual
	return a.Cursor.X == 0 &&
		a.Cursor.Y > 0 &&
		a.Cursor.Y+1 != a.VisiblePromptLines &&
		a.Cursor.Y+1 == a.LineCount() &&
		a.Line(a.Cursor.Y-1).SoftWrapped &&
		!s.out.Capabilities().IsDumb()
}

// checkStatus resets the model when something else wrote to the terminal
// since the last save. The cursor is assumed to still be on the same row.
func (s *Screen) checkStatus() {
	if s.status == nil || !s.status.Changed() {
		return
	}
	s.log.Debug("terminal modified behind our back, repainting")
	y := s.actual.Cursor.Y
	s.ResetLine(true)
	s.actual.Cursor.Y = y
}

func (s *Screen) saveStatus() {
	if s.status != nil {
		s.status.Save()
	}
}
