package textwidth

import "testing"

func TestRune(t *testing.T) {
	tests := []struct {
		name string
		r    rune
		want int
	}{
		{"ascii", 'a', 1},
		{"space", ' ', 1},
		{"cjk", '世', 2},
		{"combining acute", '\u0301', 0},
		{"newline", '\n', -1},
		{"escape", '\x1b', -1},
		{"delete", '\x7f', -1},
		{"ellipsis", Ellipsis, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Rune(tt.r); got != tt.want {
				t.Errorf("Rune(%q) = %d, want %d", tt.r, got, tt.want)
			}
		})
	}
}

func TestRendered(t *testing.T) {
	if got := Rendered('\n'); got != '␊' {
		t.Errorf("expected control picture for newline, got %q", got)
	}
	if got := Rendered('a'); got != 'a' {
		t.Errorf("expected printable rune unchanged, got %q", got)
	}
	if got := RenderedWidth('\t'); got != 1 {
		t.Errorf("expected rendered tab width 1, got %d", got)
	}
	if got := RenderedWidthMin0('\x7f'); got != 0 {
		t.Errorf("expected DEL clamped to 0, got %d", got)
	}
}

func TestVisible(t *testing.T) {
	if got := Visible('\b'); got != -1 {
		t.Errorf("expected backspace to be -1, got %d", got)
	}
	if got := Visible('\x01'); got != 0 {
		t.Errorf("expected control to be 0, got %d", got)
	}
	if got := Visible('x'); got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
}

func TestString(t *testing.T) {
	if got := String("abc世"); got != 5 {
		t.Errorf("expected 5, got %d", got)
	}
	if got := String(""); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
	if got := Runes([]rune("a\nb")); got != 3 {
		t.Errorf("expected rendered newline to count, got %d", got)
	}
}

func TestSetAmbiguousWide(t *testing.T) {
	defer SetAmbiguousWide(false)

	// U+00A1 INVERTED EXCLAMATION MARK is East Asian ambiguous.
	SetAmbiguousWide(true)
	if got := Rune('¡'); got != 2 {
		t.Errorf("expected ambiguous rune to be wide, got %d", got)
	}
	SetAmbiguousWide(false)
	if got := Rune('¡'); got != 1 {
		t.Errorf("expected ambiguous rune to be narrow, got %d", got)
	}
}
