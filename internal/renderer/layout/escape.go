package layout

import "slices"

const esc = '\x1b'

// at returns rs[i], or 0 past the end.
func at(rs []rune, i int) rune {
	if i < 0 || i >= len(rs) {
		return 0
	}
	return rs[i]
}

func hasPrefix(s, prefix []rune) bool {
	return len(s) >= len(prefix) && slices.Equal(s[:len(prefix)], prefix)
}

// EscapeLength returns how many leading runes of code form one escape
// sequence, or 0 if code does not start with a recognized sequence.
// visual lists the terminal's attribute strings (bold, sgr0 and so on),
// which are matched literally before the generic forms.
func EscapeLength(code []rune, visual [][]rune) int {
	if at(code, 0) != esc {
		return 0
	}
	detectors := []func([]rune) int{
		func(c []rune) int { return visualSequence(c, visual) },
		screenNameSequence,
		oscSequence,
		threeByteSequence,
		csiSequence,
		twoByteSequence,
	}
	for _, detect := range detectors {
		if n := detect(code); n > 0 {
			return n
		}
	}
	return 0
}

func visualSequence(code []rune, visual [][]rune) int {
	for _, seq := range visual {
		if len(seq) > 0 && hasPrefix(code, seq) {
			return len(seq)
		}
	}
	return 0
}

var (
	tmuxIntro     = []rune("Ptmux;")
	stringTermSeq = []rune{esc, '\\'}
)

// screenNameSequence matches "ESC k name ESC \" and tmux passthrough
// "ESC Ptmux; payload ESC \". In the tmux form payload escapes are doubled,
// so a terminator preceded by an odd number of escapes is not the end.
func screenNameSequence(code []rune) int {
	isTmux := false
	if at(code, 1) != 'k' {
		if len(code) < 1 || !hasPrefix(code[1:], tmuxIntro) {
			return 0
		}
		isTmux = true
	}

	offset := 2
	for {
		pos := index(code[offset:], stringTermSeq)
		if pos < 0 {
			// A bare "ESC k" is the whole code.
			return 2
		}
		end := offset + pos
		if isTmux {
			escapes := 0
			i := end
			for i > 0 && code[i-1] == esc {
				i--
				if i > 0 {
					escapes++
				}
			}
			if escapes%2 == 1 {
				offset = end + 1
				continue
			}
		}
		return end + len(stringTermSeq)
	}
}

func index(s, sub []rune) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if slices.Equal(s[i:i+len(sub)], sub) {
			return i
		}
	}
	return -1
}

// oscSequence matches "ESC ]" terminated by BEL or "ESC \".
func oscSequence(code []rune) int {
	if at(code, 1) != ']' {
		return 0
	}
	for cursor := 2; cursor < len(code); cursor++ {
		if code[cursor] == '\a' || (code[cursor] == '\\' && code[cursor-1] == esc) {
			return cursor + 1
		}
	}
	return 0
}

// threeByteSequence matches "ESC [" followed by one rune in @.._.
func threeByteSequence(code []rune) int {
	if at(code, 1) == '[' {
		if c := at(code, 2); c >= '@' && c <= '_' {
			return 3
		}
	}
	return 0
}

// twoByteSequence matches ESC followed by one rune in @.._.
func twoByteSequence(code []rune) int {
	if c := at(code, 1); c >= '@' && c <= '_' {
		return 2
	}
	return 0
}

// csiSequence matches "ESC [" followed by ASCII parameter bytes and one
// final byte in @..}. Non-ASCII input ends the sequence early.
func csiSequence(code []rune) int {
	if at(code, 1) != '[' {
		return 0
	}
	cursor := 2
	for cursor < len(code) {
		c := code[cursor]
		if c > 0x7f {
			break
		}
		cursor++
		if c >= '@' && c <= '}' {
			break
		}
	}
	return cursor
}
