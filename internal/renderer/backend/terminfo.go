package backend

import (
	"errors"
	"fmt"
	"os"

	"github.com/xo/terminfo"
)

var (
	// ErrNoTerminfo is returned when no terminfo entry could be loaded.
	ErrNoTerminfo = errors.New("no terminfo entry")
)

// LoadCapabilities loads the terminfo entry for term. An empty term uses
// $TERM. "dumb" and an unset TERM yield Dumb capabilities without error.
func LoadCapabilities(term string) (*Capabilities, error) {
	if term == "" {
		term = os.Getenv("TERM")
	}
	if term == "" || term == "dumb" {
		return Dumb(), nil
	}

	ti, err := terminfo.Load(term)
	if err != nil {
		return nil, fmt.Errorf("%w for %q: %v", ErrNoTerminfo, term, err)
	}
	return fromTerminfo(term, ti), nil
}

// LoadCapabilitiesOrBuiltin is LoadCapabilities falling back to Builtin
// when the database has no entry.
func LoadCapabilitiesOrBuiltin(term string) (*Capabilities, error) {
	caps, err := LoadCapabilities(term)
	if err != nil {
		return Builtin(), err
	}
	return caps, nil
}

func fromTerminfo(name string, ti *terminfo.Terminfo) *Capabilities {
	str := func(i int) string { return string(ti.Strings[i]) }
	caps := &Capabilities{
		Name:               name,
		FromTerminfo:       true,
		CursorUp:           str(terminfo.CursorUp),
		CursorDown:         str(terminfo.CursorDown),
		CursorLeft:         str(terminfo.CursorLeft),
		CursorRight:        str(terminfo.CursorRight),
		ParmLeftCursor:     str(terminfo.ParmLeftCursor),
		ParmRightCursor:    str(terminfo.ParmRightCursor),
		ClrEOL:             str(terminfo.ClrEol),
		ClrEOS:             str(terminfo.ClrEos),
		ClearScreen:        str(terminfo.ClearScreen),
		EnterBoldMode:      str(terminfo.EnterBoldMode),
		EnterDimMode:       str(terminfo.EnterDimMode),
		EnterItalicsMode:   str(terminfo.EnterItalicsMode),
		ExitItalicsMode:    str(terminfo.ExitItalicsMode),
		EnterUnderlineMode: str(terminfo.EnterUnderlineMode),
		ExitUnderlineMode:  str(terminfo.ExitUnderlineMode),
		EnterReverseMode:   str(terminfo.EnterReverseMode),
		EnterStandoutMode:  str(terminfo.EnterStandoutMode),
		ExitAttributeMode:  str(terminfo.ExitAttributeMode),
		SetAForeground:     str(terminfo.SetAForeground),
		SetABackground:     str(terminfo.SetABackground),
		AutoRightMargin:    ti.Bools[terminfo.AutoRightMargin],
	}
	if caps.SetAForeground == "" {
		caps.SetAForeground = str(terminfo.SetForeground)
	}
	if caps.SetABackground == "" {
		caps.SetABackground = str(terminfo.SetBackground)
	}
	if n, ok := ti.Nums[terminfo.MaxColors]; ok && n > 0 {
		caps.MaxColors = n
	}
	if n, ok := ti.Nums[terminfo.InitTabs]; ok && n > 0 {
		caps.InitTabs = n
	}
	return caps
}

// Param expands a parameterized capability string such as parm_left_cursor
// or set_a_foreground with a single numeric argument.
func Param(capability string, n int) string {
	if capability == "" {
		return ""
	}
	return terminfo.Printf([]byte(capability), n)
}
