package backend

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dshills/reefline/internal/renderer/highlight"
)

// Output writes bytes to the terminal on behalf of the screen engine.
// While buffering is active all writes are accumulated and flushed as a
// single write when the outermost scope ends.
//
// Output is not safe for concurrent use.
type Output struct {
	w    io.Writer
	caps *Capabilities

	support highlight.ColorSupport

	buf       []byte
	buffering int
	written   int64
	err       error

	last highlight.TextFace
}

// NewOutput creates an Output writing to w.
func NewOutput(w io.Writer, caps *Capabilities, support highlight.ColorSupport) *Output {
	if caps == nil {
		caps = Builtin()
	}
	return &Output{
		w:       w,
		caps:    caps,
		support: support,
		last:    highlight.DefaultFace,
	}
}

// Capabilities returns the active capability set.
func (o *Output) Capabilities() *Capabilities {
	return o.caps
}

// SetCapabilities replaces the capability set.
func (o *Output) SetCapabilities(caps *Capabilities) {
	if caps == nil {
		caps = Builtin()
	}
	o.caps = caps
}

// ColorSupport returns the color encodings the output will use.
func (o *Output) ColorSupport() highlight.ColorSupport {
	return o.support
}

// SetColorSupport changes the color encodings the output will use.
func (o *Output) SetColorSupport(support highlight.ColorSupport) {
	o.support = support
}

// BeginBuffering starts a buffering scope. Scopes nest.
func (o *Output) BeginBuffering() {
	o.buffering++
}

// EndBuffering ends a buffering scope, flushing when the outermost one ends.
func (o *Output) EndBuffering() {
	if o.buffering == 0 {
		return
	}
	o.buffering--
	if o.buffering == 0 {
		o.Flush()
	}
}

// Buffered begins a buffering scope and returns the function that ends it:
//
//	defer out.Buffered()()
func (o *Output) Buffered() func() {
	o.BeginBuffering()
	return o.EndBuffering
}

// Write implements io.Writer.
func (o *Output) Write(p []byte) (int, error) {
	o.buf = append(o.buf, p...)
	o.written += int64(len(p))
	if o.buffering == 0 {
		o.Flush()
	}
	return len(p), nil
}

// WriteString writes s.
func (o *Output) WriteString(s string) {
	o.buf = append(o.buf, s...)
	o.written += int64(len(s))
	if o.buffering == 0 {
		o.Flush()
	}
}

// WriteRune writes r encoded as UTF-8.
func (o *Output) WriteRune(r rune) {
	n := len(o.buf)
	o.buf = utf8.AppendRune(o.buf, r)
	o.written += int64(len(o.buf) - n)
	if o.buffering == 0 {
		o.Flush()
	}
}

// Flush writes out any pending bytes. The first write error is kept and
// returned by Err; later flushes are dropped.
func (o *Output) Flush() error {
	if len(o.buf) == 0 {
		return o.err
	}
	if o.err == nil && o.w != nil {
		if _, err := o.w.Write(o.buf); err != nil {
			o.err = fmt.Errorf("write terminal: %w", err)
		}
	}
	o.buf = o.buf[:0]
	return o.err
}

// Err returns the first write error encountered.
func (o *Output) Err() error {
	return o.err
}

// BytesWritten returns the number of bytes handed to the output so far,
// including bytes still buffered.
func (o *Output) BytesWritten() int64 {
	return o.written
}

func (o *Output) writeCap(s string) bool {
	if s == "" {
		return false
	}
	o.WriteString(s)
	return true
}

// CursorUp moves the cursor one row up.
func (o *Output) CursorUp() bool { return o.writeCap(o.caps.CursorUp) }

// CursorDown moves the cursor one row down.
func (o *Output) CursorDown() bool { return o.writeCap(o.caps.CursorDown) }

// CursorLeft moves the cursor one column left.
func (o *Output) CursorLeft() bool { return o.writeCap(o.caps.CursorLeft) }

// CursorRight moves the cursor one column right.
func (o *Output) CursorRight() bool { return o.writeCap(o.caps.CursorRight) }

// ClrEOL clears to the end of the line.
func (o *Output) ClrEOL() bool { return o.writeCap(o.caps.ClrEOL) }

// ClrEOS clears to the end of the screen.
func (o *Output) ClrEOS() bool { return o.writeCap(o.caps.ClrEOS) }

// ClearScreen clears the whole screen and homes the cursor.
func (o *Output) ClearScreen() bool { return o.writeCap(o.caps.ClearScreen) }

// MoveLeft moves the cursor n columns left with parm_left_cursor, or by
// repeating cursor_left when the terminal has no parameterized motion.
func (o *Output) MoveLeft(n int) bool {
	return o.moveMany(o.caps.ParmLeftCursor, o.caps.CursorLeft, n)
}

// MoveRight moves the cursor n columns right.
func (o *Output) MoveRight(n int) bool {
	return o.moveMany(o.caps.ParmRightCursor, o.caps.CursorRight, n)
}

func (o *Output) moveMany(parm, single string, n int) bool {
	if parm != "" {
		return o.writeCap(Param(parm, n))
	}
	if single == "" {
		return false
	}
	o.WriteString(strings.Repeat(single, n))
	return true
}

// EnterBold and the functions below switch on single attributes.
func (o *Output) EnterBold() bool      { return o.writeCap(o.caps.EnterBoldMode) }
func (o *Output) EnterDim() bool       { return o.writeCap(o.caps.EnterDimMode) }
func (o *Output) EnterItalics() bool   { return o.writeCap(o.caps.EnterItalicsMode) }
func (o *Output) ExitItalics() bool    { return o.writeCap(o.caps.ExitItalicsMode) }
func (o *Output) EnterUnderline() bool { return o.writeCap(o.caps.EnterUnderlineMode) }
func (o *Output) ExitUnderline() bool  { return o.writeCap(o.caps.ExitUnderlineMode) }
func (o *Output) EnterReverse() bool   { return o.writeCap(o.caps.EnterReverseMode) }
func (o *Output) EnterStandout() bool  { return o.writeCap(o.caps.EnterStandoutMode) }
func (o *Output) ExitAttributes() bool { return o.writeCap(o.caps.ExitAttributeMode) }

// PaletteColor writes a palette color. Terminfo's setaf/setab is used when
// it can address the slot; otherwise ANSI sequences are synthesized.
func (o *Output) PaletteColor(idx uint8, isFG bool) bool {
	capStr := o.caps.SetABackground
	if isFG {
		capStr = o.caps.SetAForeground
	}
	if o.caps.FromTerminfo && capStr != "" && o.caps.SupportsColorNatively(idx) {
		return o.writeCap(Param(capStr, int(idx)))
	}

	if o.caps.MaxColors == 8 && idx > 8 {
		idx -= 8
	}

	var code int
	switch {
	case idx < 8:
		code = 30 + int(idx)
	case idx < 16:
		code = 90 + int(idx) - 8
	default:
		if isFG {
			o.WriteString("\x1b[38;5;" + strconv.Itoa(int(idx)) + "m")
		} else {
			o.WriteString("\x1b[48;5;" + strconv.Itoa(int(idx)) + "m")
		}
		return true
	}
	if !isFG {
		code += 10
	}
	o.WriteString("\x1b[" + strconv.Itoa(code) + "m")
	return true
}

// Color writes a named or RGB color. RGB colors need 24-bit support and are
// otherwise reduced to the nearest palette slot.
func (o *Output) Color(c highlight.Color, isFG bool) bool {
	switch {
	case c.IsNamed():
		return o.PaletteColor(c.Index, isFG)
	case c.IsRGB():
		if !o.support.Has(highlight.Support24Bit) {
			return o.PaletteColor(highlight.IndexFor(c, o.support), isFG)
		}
		layer := "48"
		if isFG {
			layer = "38"
		}
		o.WriteString(fmt.Sprintf("\x1b[%s;2;%d;%d;%dm", layer, c.R, c.G, c.B))
		return true
	}
	return false
}

// LastFace returns the face most recently written.
func (o *Output) LastFace() highlight.TextFace {
	return o.last
}

// ResetTextFace writes sgr0 and forgets the last face. With workaround the
// foreground is first set to black, which some terminals need before sgr0
// resets the background.
func (o *Output) ResetTextFace(workaround bool) {
	if workaround {
		o.PaletteColor(0, true)
	}
	o.ExitAttributes()
	o.last = highlight.DefaultFace
}

// SetTextFace writes the difference between the last face and face.
func (o *Output) SetTextFace(face highlight.TextFace) {
	fg, bg := face.FG, face.BG

	if fg.IsReset() || bg.IsReset() {
		o.ResetTextFace(true)
		return
	}

	// Bold, dim and reverse have no exit sequence.
	const sticky = highlight.AttrBold | highlight.AttrDim | highlight.AttrReverse
	if o.last.Attrs&sticky&^face.Attrs != 0 {
		o.ResetTextFace(false)
	}

	lastBGSet := !o.last.BG.IsSpecial()
	bgSet := !bg.IsSpecial()

	if bgSet && fg == bg {
		if bg == highlight.ColorWhite {
			fg = highlight.ColorBlack
		} else {
			fg = highlight.ColorWhite
		}
	}

	if bgSet && !lastBGSet {
		o.EnterBold()
	} else if !bgSet && lastBGSet {
		o.ResetTextFace(false)
	}

	if !fg.IsNone() && fg != o.last.FG {
		if fg.IsNormal() {
			o.PaletteColor(0, true)
			o.ExitAttributes()
			o.last.BG = highlight.ColorNormal
			o.last.Attrs = 0
		} else {
			o.Color(fg, true)
		}
		o.last.FG = fg
	}

	if !bg.IsNone() && bg != o.last.BG {
		if bg.IsNormal() {
			o.PaletteColor(0, false)
			o.ExitAttributes()
			if !o.last.FG.IsNormal() {
				o.Color(o.last.FG, true)
			}
			o.last.Attrs = 0
		} else {
			o.Color(bg, false)
		}
		o.last.BG = bg
	}

	if face.IsBold() && !o.last.IsBold() && !bgSet {
		if o.EnterBold() {
			o.last.Attrs |= highlight.AttrBold
		}
	}

	switch {
	case o.last.IsUnderline() && !face.IsUnderline():
		if o.ExitUnderline() {
			o.last.Attrs &^= highlight.AttrUnderline
		}
	case !o.last.IsUnderline() && face.IsUnderline():
		if o.EnterUnderline() {
			o.last.Attrs |= highlight.AttrUnderline
		}
	}

	switch {
	case o.last.IsItalics() && !face.IsItalics():
		if o.ExitItalics() {
			o.last.Attrs &^= highlight.AttrItalics
		}
	case !o.last.IsItalics() && face.IsItalics():
		if o.EnterItalics() {
			o.last.Attrs |= highlight.AttrItalics
		}
	}

	if face.IsDim() && !o.last.IsDim() {
		if o.EnterDim() {
			o.last.Attrs |= highlight.AttrDim
		}
	}

	if face.IsReverse() && !o.last.IsReverse() {
		if o.EnterReverse() || o.EnterStandout() {
			o.last.Attrs |= highlight.AttrReverse
		}
	}
}
