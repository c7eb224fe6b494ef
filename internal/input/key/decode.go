package key

import (
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

const esc = 0x1b

// Decode decodes the first key in b. It returns the number of bytes used,
// or 0 when b holds only the start of a key and more input is needed.
// A lone ESC is the Escape key. Unrecognized sequences are consumed and
// reported as KeyNone.
func Decode(b []byte) (Event, int) {
	if len(b) == 0 {
		return Event{}, 0
	}

	c := b[0]
	switch {
	case c == esc:
		return decodeEscape(b)
	case c == '\r' || c == '\n':
		return NewSpecialEvent(KeyEnter, ModNone), 1
	case c == '\t':
		return NewSpecialEvent(KeyTab, ModNone), 1
	case c == 0x7f || c == 0x08:
		return NewSpecialEvent(KeyBackspace, ModNone), 1
	case c == 0:
		return NewRuneEvent(' ', ModCtrl), 1
	case c < 0x1b:
		return NewRuneEvent(rune('a'+c-1), ModCtrl), 1
	case c < 0x20:
		return NewRuneEvent(rune("\\]^_"[c-0x1c]), ModCtrl), 1
	}

	if !utf8.FullRune(b) {
		return Event{}, 0
	}
	r, size := utf8.DecodeRune(b)
	return NewRuneEvent(r, ModNone), size
}

func decodeEscape(b []byte) (Event, int) {
	if len(b) == 1 {
		return NewSpecialEvent(KeyEscape, ModNone), 1
	}
	switch b[1] {
	case '[':
		return decodeCSI(b)
	case 'O':
		if len(b) < 3 {
			return Event{}, 0
		}
		k, ok := ss3Keys[b[2]]
		if !ok {
			return Event{}, 3
		}
		return NewSpecialEvent(k, ModNone), 3
	case esc:
		return NewSpecialEvent(KeyEscape, ModNone), 1
	}

	// ESC followed by a key is that key with Alt.
	ev, n := Decode(b[1:])
	if n == 0 {
		return Event{}, 0
	}
	ev.Modifiers |= ModAlt
	return ev, n + 1
}

var ss3Keys = map[byte]Key{
	'A': KeyUp,
	'B': KeyDown,
	'C': KeyRight,
	'D': KeyLeft,
	'H': KeyHome,
	'F': KeyEnd,
	'M': KeyEnter,
}

var csiFinalKeys = map[byte]Key{
	'A': KeyUp,
	'B': KeyDown,
	'C': KeyRight,
	'D': KeyLeft,
	'H': KeyHome,
	'F': KeyEnd,
	'Z': KeyBacktab,
}

var csiTildeKeys = map[int]Key{
	1: KeyHome,
	2: KeyInsert,
	3: KeyDelete,
	4: KeyEnd,
	5: KeyPageUp,
	6: KeyPageDown,
	7: KeyHome,
	8: KeyEnd,
}

// decodeCSI decodes ESC [ params intermediates final.
func decodeCSI(b []byte) (Event, int) {
	i := 2
	for i < len(b) && b[i] >= 0x30 && b[i] <= 0x3f {
		i++
	}
	paramsEnd := i
	for i < len(b) && b[i] >= 0x20 && b[i] <= 0x2f {
		i++
	}
	if i == len(b) {
		return Event{}, 0
	}
	final := b[i]
	n := i + 1
	if final < 0x40 || final > 0x7e {
		return Event{}, i
	}

	params := parseParams(string(b[2:paramsEnd]))
	var mods Modifier
	if len(params) > 1 {
		mods = xtermModifier(params[1])
	}

	if final == '~' {
		if len(params) == 0 {
			return Event{}, n
		}
		k, ok := csiTildeKeys[params[0]]
		if !ok {
			return Event{}, n
		}
		return NewSpecialEvent(k, mods), n
	}
	if k, ok := csiFinalKeys[final]; ok {
		if k == KeyBacktab {
			mods |= ModShift
		}
		return NewSpecialEvent(k, mods), n
	}
	return Event{}, n
}

func parseParams(s string) []int {
	if s == "" {
		return nil
	}
	fields := strings.Split(s, ";")
	params := make([]int, len(fields))
	for i, f := range fields {
		// Private markers such as '?' make the value 0.
		params[i], _ = strconv.Atoi(f)
	}
	return params
}

// Reader decodes key events from a byte stream such as a raw-mode tty.
// Each read is assumed to hold whole escape sequences, as terminals send
// them in one write.
type Reader struct {
	r       io.Reader
	pending []byte
	scratch [256]byte
	err     error
}

// NewReader returns a Reader on r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// ReadEvent blocks until a key is decoded. It returns the underlying
// reader's error once no complete key remains.
func (r *Reader) ReadEvent() (Event, error) {
	for {
		for len(r.pending) > 0 {
			ev, n := Decode(r.pending)
			if n == 0 {
				break
			}
			r.pending = r.pending[:copy(r.pending, r.pending[n:])]
			if ev.Key != KeyNone {
				return ev, nil
			}
		}
		if r.err != nil {
			return Event{}, r.err
		}

		n, err := r.r.Read(r.scratch[:])
		r.pending = append(r.pending, r.scratch[:n]...)
		if err != nil {
			r.err = err
		}
	}
}
