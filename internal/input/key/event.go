package key

import (
	"strings"
	"unicode"
)

// Event is a single key press.
type Event struct {
	Key Key
	// Rune is the character for KeyRune events. Control characters are
	// reported as the lowercase letter with ModCtrl.
	Rune      rune
	Modifiers Modifier
}

// NewRuneEvent returns an event for a character.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods}
}

// NewSpecialEvent returns an event for a non-character key.
func NewSpecialEvent(k Key, mods Modifier) Event {
	return Event{Key: k, Modifiers: mods}
}

// IsRune reports whether e carries a character.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// IsPrintable reports whether e types a visible character.
func (e Event) IsPrintable() bool {
	return e.IsRune() && !e.Modifiers.Has(ModCtrl) && !e.Modifiers.Has(ModAlt) && unicode.IsPrint(e.Rune)
}

// IsCtrl reports whether e is Ctrl plus the letter r.
func (e Event) IsCtrl(r rune) bool {
	return e.Key == KeyRune && e.Modifiers.Has(ModCtrl) && e.Rune == r
}

// String returns a form such as "a", "C-c", "S-Up" or "Enter".
func (e Event) String() string {
	var b strings.Builder
	mods := e.Modifiers
	if e.IsRune() {
		mods &^= ModShift
	}
	if s := mods.String(); s != "" {
		b.WriteString(s)
		b.WriteByte('-')
	}
	switch {
	case e.Key == KeyRune && e.Rune == ' ':
		b.WriteString("Space")
	case e.Key == KeyRune:
		b.WriteRune(e.Rune)
	default:
		b.WriteString(e.Key.String())
	}
	return b.String()
}
