package keys

import "fmt"

const esc = 0x1B

// ToBytes encodes a KeyEvent into the byte sequence xterm would send for
// it (spec §6.4). Returns nil for events the terminal has no encoding
// for (e.g. a bare modifier key with no KeyCode set).
func ToBytes(e KeyEvent) []byte {
	switch e.Key {
	case KeyEnter:
		return []byte{'\r'}

	case KeyTab:
		if e.Mods.Shift {
			return []byte{esc, '[', 'Z'}
		}
		return []byte{'\t'}

	case KeyEscape:
		return []byte{esc}

	case KeyBackspace:
		if e.Mods.Ctrl {
			b := []byte{0x08}
			return withAltPrefix(b, e.Mods.Alt)
		}
		return withAltPrefix([]byte{0x7F}, e.Mods.Alt)

	case KeyArrowUp:
		return arrowOrHomeEnd('A', e.Mods)
	case KeyArrowDown:
		return arrowOrHomeEnd('B', e.Mods)
	case KeyArrowRight:
		return arrowOrHomeEnd('C', e.Mods)
	case KeyArrowLeft:
		return arrowOrHomeEnd('D', e.Mods)
	case KeyHome:
		return arrowOrHomeEnd('H', e.Mods)
	case KeyEnd:
		return arrowOrHomeEnd('F', e.Mods)

	case KeyPageUp:
		return tildeSeq(5, e.Mods)
	case KeyPageDown:
		return tildeSeq(6, e.Mods)
	case KeyInsert:
		return tildeSeq(2, e.Mods)
	case KeyDelete:
		return tildeSeq(3, e.Mods)

	case KeyF1:
		return f1to4('P', e.Mods)
	case KeyF2:
		return f1to4('Q', e.Mods)
	case KeyF3:
		return f1to4('R', e.Mods)
	case KeyF4:
		return f1to4('S', e.Mods)

	case KeyF5:
		return tildeSeq(15, e.Mods)
	case KeyF6:
		return tildeSeq(17, e.Mods)
	case KeyF7:
		return tildeSeq(18, e.Mods)
	case KeyF8:
		return tildeSeq(19, e.Mods)
	case KeyF9:
		return tildeSeq(20, e.Mods)
	case KeyF10:
		return tildeSeq(21, e.Mods)
	case KeyF11:
		return tildeSeq(23, e.Mods)
	case KeyF12:
		return tildeSeq(24, e.Mods)

	case KeyPrintable:
		return encodePrintable(e)

	default:
		return nil
	}
}

func withAltPrefix(b []byte, alt bool) []byte {
	if !alt {
		return b
	}
	return append([]byte{esc}, b...)
}

// arrowOrHomeEnd handles the arrows/Home/End family: plain `ESC [ <letter>`
// or, with any modifier, `ESC [ 1 ; <m> <letter>`.
func arrowOrHomeEnd(letter byte, mods Modifiers) []byte {
	if !mods.any() {
		return []byte{esc, '[', letter}
	}
	return []byte(fmt.Sprintf("%c[1;%d%c", esc, mods.xtermModifierCode(), letter))
}

// tildeSeq handles PageUp/Down/Insert/Delete/F5-F12: `ESC [ N ~`, or with
// a modifier `ESC [ N ; <m> ~`.
func tildeSeq(n int, mods Modifiers) []byte {
	if !mods.any() {
		return []byte(fmt.Sprintf("%c[%d~", esc, n))
	}
	return []byte(fmt.Sprintf("%c[%d;%d~", esc, n, mods.xtermModifierCode()))
}

// f1to4 handles F1-F4: `ESC O <letter>` unmodified, `ESC [ 1 ; <m> <letter>`
// with a modifier.
func f1to4(letter byte, mods Modifiers) []byte {
	if !mods.any() {
		return []byte{esc, 'O', letter}
	}
	return []byte(fmt.Sprintf("%c[1;%d%c", esc, mods.xtermModifierCode(), letter))
}

// ctrlLetterByte returns (byte, true) when r is a letter eligible for the
// Ctrl+letter encoding (0x01..0x1A).
func ctrlLetterByte(r rune) (byte, bool) {
	lower := r
	if lower >= 'A' && lower <= 'Z' {
		lower = lower - 'A' + 'a'
	}
	if lower < 'a' || lower > 'z' {
		return 0, false
	}
	return byte(lower-'a') + 1, true
}

// shiftedSymbols maps the unshifted US-QWERTY top row / punctuation keys
// to their shifted forms.
var shiftedSymbols = map[rune]rune{
	'1': '!', '2': '@', '3': '#', '4': '$', '5': '%',
	'6': '^', '7': '&', '8': '*', '9': '(', '0': ')',
	'-': '_', '=': '+', '[': '{', ']': '}', '\\': '|',
	';': ':', '\'': '"', '`': '~', ',': '<', '.': '>', '/': '?',
}

func encodePrintable(e KeyEvent) []byte {
	r := e.Rune

	if e.Mods.Ctrl {
		if b, ok := ctrlLetterByte(r); ok {
			return withAltPrefix([]byte{b}, e.Mods.Alt)
		}
	}

	if e.Mods.Shift {
		if r >= 'a' && r <= 'z' {
			r = r - 'a' + 'A'
		} else if shifted, ok := shiftedSymbols[r]; ok {
			r = shifted
		}
	}

	buf := make([]byte, 0, 5)
	if e.Mods.Alt {
		buf = append(buf, esc)
	}
	buf = append(buf, []byte(string(r))...)
	return buf
}
