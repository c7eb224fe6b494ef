package app

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/dshills/reefline/internal/renderer/backend"
	"github.com/dshills/reefline/internal/screen"
)

// Terminal is the tty a session draws on.
type Terminal struct {
	In  *os.File
	Out *os.File

	saved *term.State
}

// NewTerminal wraps in and out, which must be terminals for raw mode and
// size queries to work.
func NewTerminal(in, out *os.File) *Terminal {
	return &Terminal{In: in, Out: out}
}

// IsTerminal reports whether both ends are ttys.
func (t *Terminal) IsTerminal() bool {
	return term.IsTerminal(int(t.In.Fd())) && term.IsTerminal(int(t.Out.Fd()))
}

// Size returns the output's size in cells.
func (t *Terminal) Size() (screen.Size, error) {
	w, h, err := term.GetSize(int(t.Out.Fd()))
	if err != nil {
		return screen.Size{}, &OperationError{Op: "get size", Target: t.Out.Name(), Err: err}
	}
	return screen.Size{Width: w, Height: h}, nil
}

// TranslatesNewline reports whether the output maps "\n" to "\r\n". MakeRaw
// turns the translation off, so query it after any mode change.
func (t *Terminal) TranslatesNewline() bool {
	return backend.OutputTranslatesNewline(t.Out.Fd())
}

// MakeRaw puts the input into raw mode until Restore.
func (t *Terminal) MakeRaw() error {
	if t.saved != nil {
		return nil
	}
	if !t.IsTerminal() {
		return fmt.Errorf("%s: %w", t.In.Name(), ErrNotTerminal)
	}
	st, err := term.MakeRaw(int(t.In.Fd()))
	if err != nil {
		return &OperationError{Op: "raw mode", Target: t.In.Name(), Err: err}
	}
	t.saved = st
	return nil
}

// Restore undoes MakeRaw. It is safe to call more than once.
func (t *Terminal) Restore() error {
	if t.saved == nil {
		return nil
	}
	st := t.saved
	t.saved = nil
	if err := term.Restore(int(t.In.Fd()), st); err != nil {
		return &OperationError{Op: "restore mode", Target: t.In.Name(), Err: err}
	}
	return nil
}
