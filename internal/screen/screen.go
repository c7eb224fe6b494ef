// Package screen keeps the terminal in sync with a prompt, a command line
// and an optional completion pager.
//
// A Screen models two renderings: desired, computed from scratch on every
// Write, and actual, what the terminal is believed to show. Each Write
// diffs them line by line and emits only the cursor motions, color changes
// and characters needed to turn one into the other, then records desired
// as the new actual.
//
// A Screen is not safe for concurrent use.
package screen

import (
	"github.com/charmbracelet/x/ansi"

	"github.com/dshills/reefline/internal/pager"
	"github.com/dshills/reefline/internal/renderer/backend"
	"github.com/dshills/reefline/internal/renderer/grid"
	"github.com/dshills/reefline/internal/renderer/highlight"
	"github.com/dshills/reefline/internal/renderer/layout"
	"github.com/dshills/reefline/internal/renderer/textwidth"
)

// IndentStep is the number of columns per indent level.
const IndentStep = 4

// DefaultOmittedNewline marks output that did not end in a newline.
const DefaultOmittedNewline = "⏎"

// Logger receives debug traces. *app.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}

// Size is a terminal size in cells.
type Size struct {
	Width  int
	Height int
}

// CommandLine is the editable text drawn after the prompt.
type CommandLine struct {
	Text string
	// ExplicitLen runes of Text were typed. The SuggestionLen runes after
	// them are an autosuggestion; anything past that is typed text again.
	ExplicitLen   int
	SuggestionLen int
	// Colors and Indents hold one entry per rune of Text. Missing entries
	// are treated as normal and unindented.
	Colors  []highlight.Spec
	Indents []int
	// Cursor is a rune offset into Text.
	Cursor int
}

// Options configures a Screen.
type Options struct {
	Cache    *layout.Cache          // Prompt layout cache (nil = private cache)
	Resolver *highlight.Resolver    // Highlight to color resolution (nil = default palette)
	Status   *backend.StatusTracker // Out-of-band write detection (nil = disabled)
	Logger   Logger                 // Debug traces (nil = discarded)

	// OutputTranslatesNewline is set when the tty maps "\n" to "\r\n", so a
	// newline used as cursor down also returns to column 0.
	OutputTranslatesNewline bool

	// OmittedNewline is drawn by ResetAbandoningLine when earlier output
	// left the cursor mid-line.
	OmittedNewline string
}

// DefaultOptions returns options for a typical tty.
func DefaultOptions() Options {
	return Options{
		OutputTranslatesNewline: true,
		OmittedNewline:          DefaultOmittedNewline,
	}
}

// Screen is the diff and emit engine.
type Screen struct {
	out    *backend.Output
	cache  *layout.Cache
	colors *highlight.Resolver
	status *backend.StatusTracker
	log    Logger

	translatesNewline bool
	omittedNewline    string

	desired *grid.ScreenData
	actual  *grid.ScreenData

	// actualLeftPrompt is valid when haveLeftPrompt is set.
	actualLeftPrompt     string
	haveLeftPrompt       bool
	actualRightPrompt    string
	lastRightPromptWidth int

	// softWrap is where output may continue without a cursor move because
	// the terminal wraps on its own, or nil.
	softWrap *grid.Cursor

	needClearLines         bool
	needClearScreen        bool
	actualLinesBeforeReset int

	autosuggestionTruncated bool
	repaints                int

	rendering *pager.PageRendering
}

// New creates a Screen writing to out.
func New(out *backend.Output, opts Options) *Screen {
	s := &Screen{
		out:               out,
		cache:             opts.Cache,
		colors:            opts.Resolver,
		status:            opts.Status,
		log:               opts.Logger,
		translatesNewline: opts.OutputTranslatesNewline,
		omittedNewline:    opts.OmittedNewline,
		desired:           grid.NewScreenData(),
		actual:            grid.NewScreenData(),
	}
	if s.cache == nil {
		s.cache = layout.NewCache()
		s.cache.SetVisualSequences(out.Capabilities().VisualSequences())
		s.cache.SetTabWidth(out.Capabilities().TabWidth())
	}
	if s.colors == nil {
		s.colors = highlight.NewResolver(nil, out.ColorSupport())
	}
	if s.log == nil {
		s.log = nopLogger{}
	}
	return s
}

// Output returns the terminal output.
func (s *Screen) Output() *backend.Output {
	return s.out
}

// Cache returns the prompt layout cache.
func (s *Screen) Cache() *layout.Cache {
	return s.cache
}

// Resolver returns the color resolver.
func (s *Screen) Resolver() *highlight.Resolver {
	return s.colors
}

// Actual returns what the terminal is believed to show. It must not be
// modified.
func (s *Screen) Actual() *grid.ScreenData {
	return s.actual
}

// Desired returns the rendering computed by the last Write.
func (s *Screen) Desired() *grid.ScreenData {
	return s.desired
}

// AutosuggestionTruncated reports whether the last drawn autosuggestion
// was cut short or hidden.
func (s *Screen) AutosuggestionTruncated() bool {
	return s.autosuggestionTruncated
}

// Repaints returns the number of Write calls so far.
func (s *Screen) Repaints() int {
	return s.repaints
}

// Write brings the terminal in line with the given prompt, command line and
// pager. The pager is laid out below the command line in whatever height
// remains; p may be nil. When cursorInPager is set and the pager has room,
// the cursor is left in the pager's search field instead of the command
// line. r caches the pager layout between calls; nil uses one owned by the
// Screen.
func (s *Screen) Write(size Size, leftPrompt, rightPrompt string, cmd CommandLine, p *pager.Pager, r *pager.PageRendering, cursorInPager bool) {
	s.repaints++
	s.log.Debug("repaint %d", s.repaints)

	text := []rune(cmd.Text)
	explicitLen := clamp(cmd.ExplicitLen, 0, len(text))
	suggestionEnd := clamp(explicitLen+cmd.SuggestionLen, explicitLen, len(text))
	before := text[:explicitLen]
	suggestion := text[explicitLen:suggestionEnd]
	after := text[suggestionEnd:]

	if s.out.Capabilities().IsDumb() {
		s.writeDumb(leftPrompt, before, after)
		return
	}

	s.checkStatus()

	if size.Width < 4 || size.Height <= 0 {
		return
	}

	colors := padColors(cmd.Colors, len(text))
	indents := padIndents(cmd.Indents, len(text))
	lay, colors, indents := computeLayout(s.cache, size.Width, size.Height,
		leftPrompt, rightPrompt, before, suggestion, colors, indents)

	s.autosuggestionTruncated = len(suggestion) > 0 && string(suggestion) != string(lay.autosuggestion)

	d := s.desired
	d.ScreenWidth = size.Width
	d.Cursor = grid.Cursor{X: 0, Y: lay.leftPromptLines - 1}
	d.ClearLines()
	d.Resize(lay.leftPromptLines)

	for range lay.leftPromptSpace {
		s.desiredAppend(' ', highlight.Normal, 0, lay.leftPromptSpace, 1)
	}

	// A prompt filling the whole line leaves the command line unindented.
	cmdIndent := lay.leftPromptSpace
	if cmdIndent == size.Width {
		cmdIndent = 0
	}

	effective := make([]rune, 0, len(before)+len(lay.autosuggestion)+len(after))
	effective = append(effective, before...)
	effective = append(effective, lay.autosuggestion...)
	effective = append(effective, after...)

	cursorPos := clamp(cmd.Cursor, 0, len(effective))
	var cursor grid.Cursor
	for i, c := range effective {
		if i == cursorPos {
			cursor = d.Cursor
		}
		s.desiredAppend(c, colors[i], indents[i], cmdIndent, textwidth.RenderedWidthMin0(c))
	}
	if cursorPos == len(effective) {
		cursor = d.Cursor
	}

	// The cursor needs a line to sit on after a full last line, unless the
	// line was filled by the autosuggestion.
	if last := d.Line(d.LineCount() - 1); last.Len() == size.Width &&
		(len(text) == 0 || len(suggestion) == 0 || len(after) > 0) {
		d.AddLine()
	}

	fullLines := d.Cursor.Y + 1
	if d.Cursor.X == 0 && d.Cursor.Y > 0 {
		prev := d.Line(d.Cursor.Y - 1)
		if prev.SoftWrapped && prev.Len() > 0 &&
			prev.SpecAt(prev.Len()-1).Foreground == highlight.RoleAutosuggestion {
			fullLines--
		}
	}
	pagerHeight := max(size.Height-fullLines, 1)

	if cursorInPager && p != nil && pagerHeight >= pager.MinHeight {
		d.Cursor = grid.Cursor{X: p.CursorPosition(), Y: d.LineCount()}
	} else {
		d.Cursor = cursor
	}

	if p != nil {
		if r == nil {
			if s.rendering == nil {
				s.rendering = pager.NewPageRendering()
			}
			r = s.rendering
		}
		p.SetTermSize(size.Width, pagerHeight)
		p.UpdateRendering(r)
		d.AppendLines(r.ScreenData)
	}

	d.VisiblePromptLines = lay.leftPromptLines

	func() {
		defer s.out.Buffered()()
		s.update(lay.leftPrompt, lay.rightPrompt)
	}()
	s.saveStatus()
}

// desiredAppend types one character into desired, wrapping at the screen
// width and re-indenting after newlines.
func (s *Screen) desiredAppend(c rune, spec highlight.Spec, indent, promptWidth, width int) {
	d := s.desired
	switch c {
	case '\n':
		d.CreateLine(d.Cursor.Y + 1)
		d.Line(d.Cursor.Y).SoftWrapped = false
		d.Cursor.Y++
		d.Cursor.X = 0
		indentation := promptWidth + max(indent, 0)*IndentStep
		d.Line(d.Cursor.Y).Indentation = indentation
		for range indentation {
			s.desiredAppend(' ', highlight.Normal, indent, promptWidth, 1)
		}
	case '\r':
		d.CreateLine(d.Cursor.Y).Clear()
		d.Cursor.X = 0
	default:
		lineNo := d.Cursor.Y
		d.CreateLine(lineNo)

		if d.Cursor.X+width > d.ScreenWidth {
			d.Line(d.Cursor.Y).SoftWrapped = true
			lineNo = d.LineCount()
			d.AddLine()
			d.Cursor.Y++
			d.Cursor.X = 0
		}

		d.Line(lineNo).Append(c, spec)
		d.Cursor.X += width

		// Move to the next row even if the line did not overflow, so the
		// cursor never rests in the last column.
		if d.Cursor.X >= d.ScreenWidth {
			d.Line(lineNo).SoftWrapped = true
			d.Cursor.X = 0
			d.Cursor.Y++
		}
	}
}

// writeDumb prints the prompt and typed text with no positioning. The
// terminal cannot interpret escapes, so they are stripped from the prompt.
func (s *Screen) writeDumb(leftPrompt string, before, after []rune) {
	defer s.out.Buffered()()
	s.out.WriteString("\r")
	s.out.WriteString(ansi.Strip(leftPrompt))
	s.out.WriteString(string(before))
	s.out.WriteString(string(after))
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

func padColors(colors []highlight.Spec, n int) []highlight.Spec {
	out := make([]highlight.Spec, n)
	copy(out, colors)
	return out
}

func padIndents(indents []int, n int) []int {
	out := make([]int, n)
	copy(out, indents)
	return out
}
