package backend

import (
	"bytes"
	"errors"
	"testing"

	"github.com/dshills/reefline/internal/renderer/highlight"
)

func newTestOutput(caps *Capabilities, support highlight.ColorSupport) (*Output, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewOutput(&buf, caps, support), &buf
}

func TestOutputBuffering(t *testing.T) {
	out, buf := newTestOutput(Builtin(), 0)

	out.WriteString("a")
	if buf.String() != "a" {
		t.Errorf("expected unbuffered write, got %q", buf.String())
	}

	func() {
		defer out.Buffered()()
		out.WriteString("b")
		func() {
			defer out.Buffered()()
			out.WriteRune('世')
		}()
		if buf.String() != "a" {
			t.Errorf("expected nothing flushed inside scope, got %q", buf.String())
		}
	}()

	if buf.String() != "ab世" {
		t.Errorf("expected flush at outermost scope end, got %q", buf.String())
	}
	if out.BytesWritten() != int64(len("ab世")) {
		t.Errorf("expected %d bytes written, got %d", len("ab世"), out.BytesWritten())
	}

	// Unbalanced end is ignored.
	out.EndBuffering()
	out.WriteString("c")
	if buf.String() != "ab世c" {
		t.Errorf("expected %q, got %q", "ab世c", buf.String())
	}
}

type failWriter struct{}

var errBoom = errors.New("boom")

func (failWriter) Write(p []byte) (int, error) { return 0, errBoom }

func TestOutputWriteError(t *testing.T) {
	out := NewOutput(failWriter{}, nil, 0)
	out.WriteString("x")
	if !errors.Is(out.Err(), errBoom) {
		t.Errorf("expected wrapped write error, got %v", out.Err())
	}
	out.WriteString("y")
	if !errors.Is(out.Err(), errBoom) {
		t.Errorf("expected first error to be kept, got %v", out.Err())
	}
}

func TestOutputCommands(t *testing.T) {
	out, buf := newTestOutput(Builtin(), 0)

	tests := []struct {
		name string
		fn   func() bool
		want string
	}{
		{"up", out.CursorUp, "\x1b[A"},
		{"down", out.CursorDown, "\n"},
		{"left", out.CursorLeft, "\b"},
		{"right", out.CursorRight, "\x1b[C"},
		{"el", out.ClrEOL, "\x1b[K"},
		{"ed", out.ClrEOS, "\x1b[J"},
		{"clear", out.ClearScreen, "\x1b[H\x1b[2J"},
		{"move_left", func() bool { return out.MoveLeft(3) }, "\x1b[3D"},
		{"move_right", func() bool { return out.MoveRight(12) }, "\x1b[12C"},
	}
	for _, tt := range tests {
		buf.Reset()
		if !tt.fn() {
			t.Errorf("%s: expected success", tt.name)
		}
		if buf.String() != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.name, tt.want, buf.String())
		}
	}
}

func TestOutputMissingCapability(t *testing.T) {
	out, buf := newTestOutput(Dumb(), 0)
	if out.CursorUp() {
		t.Error("expected missing cursor_up to report false")
	}
	if out.MoveLeft(2) {
		t.Error("expected missing motion to report false")
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}

	caps := Builtin()
	caps.ParmLeftCursor = ""
	out, buf = newTestOutput(caps, 0)
	if !out.MoveLeft(3) || buf.String() != "\b\b\b" {
		t.Errorf("expected repeated cursor_left, got %q", buf.String())
	}
}

func TestPaletteColor(t *testing.T) {
	tests := []struct {
		name string
		caps func() *Capabilities
		idx  uint8
		fg   bool
		want string
	}{
		{"ansi_fg", Builtin, 1, true, "\x1b[31m"},
		{"ansi_bg", Builtin, 1, false, "\x1b[41m"},
		{"bright_fg", Builtin, 9, true, "\x1b[91m"},
		{"bright_bg", Builtin, 15, false, "\x1b[107m"},
		{"indexed_fg", Builtin, 200, true, "\x1b[38;5;200m"},
		{"indexed_bg", Builtin, 17, false, "\x1b[48;5;17m"},
		{
			"terminfo_native",
			func() *Capabilities {
				c := Builtin()
				c.FromTerminfo = true
				c.SetAForeground = "<%p1%d>"
				c.MaxColors = 256
				return c
			},
			42, true, "<42>",
		},
		{
			"eight_colors_folds_bright",
			func() *Capabilities {
				c := Builtin()
				c.FromTerminfo = true
				c.SetAForeground = "<%p1%d>"
				c.MaxColors = 8
				return c
			},
			12, true, "\x1b[34m",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, buf := newTestOutput(tt.caps(), 0)
			out.PaletteColor(tt.idx, tt.fg)
			if buf.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, buf.String())
			}
		})
	}
}

func TestOutputRGBColor(t *testing.T) {
	out, buf := newTestOutput(Builtin(), highlight.Support256|highlight.Support24Bit)
	out.Color(highlight.ColorFromRGB(1, 2, 3), true)
	if want := "\x1b[38;2;1;2;3m"; buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}

	out, buf = newTestOutput(Builtin(), 0)
	out.Color(highlight.ColorFromRGB(255, 0, 0), false)
	if want := "\x1b[101m"; buf.String() != want {
		t.Errorf("expected nearest 16 color %q, got %q", want, buf.String())
	}

	out, buf = newTestOutput(Builtin(), 0)
	if out.Color(highlight.ColorNormal, true) {
		t.Error("expected special color to write nothing")
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestSetTextFace(t *testing.T) {
	red := highlight.ColorFromIndex(1)

	out, buf := newTestOutput(Builtin(), 0)
	boldRed := highlight.TextFace{FG: red, BG: highlight.ColorNormal, Attrs: highlight.AttrBold}

	out.SetTextFace(boldRed)
	if want := "\x1b[31m\x1b[1m"; buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}

	buf.Reset()
	out.SetTextFace(boldRed)
	if buf.Len() != 0 {
		t.Errorf("expected repeated face to write nothing, got %q", buf.String())
	}

	buf.Reset()
	out.SetTextFace(highlight.TextFace{FG: red, BG: highlight.ColorNormal})
	if want := "\x1b[m\x1b[31m"; buf.String() != want {
		t.Errorf("expected bold removal via sgr0, got %q", buf.String())
	}

	buf.Reset()
	out.SetTextFace(highlight.DefaultFace)
	if want := "\x1b[30m\x1b[m"; buf.String() != want {
		t.Errorf("expected return to normal, got %q", buf.String())
	}

	buf.Reset()
	out.SetTextFace(highlight.TextFace{FG: highlight.ColorNormal, BG: highlight.ColorNormal, Attrs: highlight.AttrUnderline | highlight.AttrItalics})
	if want := "\x1b[4m\x1b[3m"; buf.String() != want {
		t.Errorf("expected underline and italics, got %q", buf.String())
	}
	buf.Reset()
	out.SetTextFace(highlight.DefaultFace)
	if want := "\x1b[24m\x1b[23m"; buf.String() != want {
		t.Errorf("expected exit underline and italics, got %q", buf.String())
	}

	buf.Reset()
	out.SetTextFace(highlight.TextFace{FG: highlight.ColorReset, BG: highlight.ColorNormal})
	if want := "\x1b[30m\x1b[m"; buf.String() != want {
		t.Errorf("expected reset workaround, got %q", buf.String())
	}
	if out.LastFace() != highlight.DefaultFace {
		t.Errorf("expected default face after reset, got %+v", out.LastFace())
	}
}

func TestSetTextFaceSameForegroundAndBackground(t *testing.T) {
	out, buf := newTestOutput(Builtin(), 0)
	white := highlight.ColorWhite
	out.SetTextFace(highlight.TextFace{FG: white, BG: white})
	if want := "\x1b[1m\x1b[30m\x1b[47m"; buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
	if out.LastFace().FG != highlight.ColorBlack {
		t.Errorf("expected foreground swapped to black, got %v", out.LastFace().FG)
	}
}

func TestSetTextFaceDropBackground(t *testing.T) {
	out, buf := newTestOutput(Builtin(), 0)
	blue := highlight.ColorFromIndex(4)
	out.SetTextFace(highlight.TextFace{FG: highlight.ColorNormal, BG: blue})
	buf.Reset()

	out.SetTextFace(highlight.DefaultFace)
	if want := "\x1b[m"; buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
	if !out.LastFace().BG.IsNormal() {
		t.Errorf("expected normal background, got %v", out.LastFace().BG)
	}
}
