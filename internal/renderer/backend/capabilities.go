// Package backend talks to the terminal: capability strings, buffered
// output, text attribute emission and tty state queries.
package backend

// Capabilities holds the terminal strings the screen engine needs.
// An empty string means the terminal lacks the capability.
type Capabilities struct {
	// Name is the terminal name the capabilities were loaded for.
	Name string
	// FromTerminfo is set when the strings came from the terminfo database.
	// Otherwise built-in ANSI sequences are used.
	FromTerminfo bool

	CursorUp    string
	CursorDown  string
	CursorLeft  string
	CursorRight string

	ParmLeftCursor  string
	ParmRightCursor string

	ClrEOL      string
	ClrEOS      string
	ClearScreen string

	EnterBoldMode      string
	EnterDimMode       string
	EnterItalicsMode   string
	ExitItalicsMode    string
	EnterUnderlineMode string
	ExitUnderlineMode  string
	EnterReverseMode   string
	EnterStandoutMode  string
	ExitAttributeMode  string

	SetAForeground string
	SetABackground string

	// MaxColors is 0 when unknown.
	MaxColors int
	// InitTabs is 0 when unknown.
	InitTabs        int
	AutoRightMargin bool
}

// Builtin returns the ANSI sequences used when no terminfo entry is
// available. Cursor down is a plain newline, as on most consoles.
func Builtin() *Capabilities {
	return &Capabilities{
		Name:               "builtin",
		CursorUp:           "\x1b[A",
		CursorDown:         "\n",
		CursorLeft:         "\b",
		CursorRight:        "\x1b[C",
		ParmLeftCursor:     "\x1b[%p1%dD",
		ParmRightCursor:    "\x1b[%p1%dC",
		ClrEOL:             "\x1b[K",
		ClrEOS:             "\x1b[J",
		ClearScreen:        "\x1b[H\x1b[2J",
		EnterBoldMode:      "\x1b[1m",
		EnterDimMode:       "\x1b[2m",
		EnterItalicsMode:   "\x1b[3m",
		ExitItalicsMode:    "\x1b[23m",
		EnterUnderlineMode: "\x1b[4m",
		ExitUnderlineMode:  "\x1b[24m",
		EnterReverseMode:   "\x1b[7m",
		EnterStandoutMode:  "\x1b[7m",
		ExitAttributeMode:  "\x1b[m",
		AutoRightMargin:    true,
	}
}

// Dumb returns capabilities for a terminal without cursor motion.
func Dumb() *Capabilities {
	return &Capabilities{Name: "dumb"}
}

// IsDumb reports whether any of the four basic cursor motions is missing.
func (c *Capabilities) IsDumb() bool {
	return c.CursorUp == "" || c.CursorDown == "" || c.CursorLeft == "" || c.CursorRight == ""
}

// VisualSequences returns the attribute strings that prompts may embed.
// They are measured as zero width.
func (c *Capabilities) VisualSequences() []string {
	candidates := []string{
		c.EnterBoldMode,
		c.ExitAttributeMode,
		c.EnterUnderlineMode,
		c.ExitUnderlineMode,
		c.EnterStandoutMode,
		c.EnterItalicsMode,
		c.ExitItalicsMode,
		c.EnterReverseMode,
		c.EnterDimMode,
	}
	out := make([]string, 0, len(candidates))
	for _, s := range candidates {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// TabWidth returns the terminal's tab width, defaulting to 8.
func (c *Capabilities) TabWidth() int {
	if c.InitTabs > 0 {
		return c.InitTabs
	}
	return 8
}

// SupportsColorNatively reports whether setaf can address palette slot idx.
func (c *Capabilities) SupportsColorNatively(idx uint8) bool {
	return c.MaxColors >= int(idx)+1
}
