// Package keys implements the key-event model and the xterm byte
// encoding the controller uses to turn a GUI key event into PTY input
// (spec §6.4), plus the app-level keybinding table consumed before PTY
// forwarding.
package keys

// KeyCode discriminates the keys the controller needs to recognize by
// identity rather than by printable rune.
type KeyCode int

const (
	KeyUnknown KeyCode = iota
	KeyEnter
	KeyTab
	KeyEscape
	KeyBackspace
	KeyArrowUp
	KeyArrowDown
	KeyArrowRight
	KeyArrowLeft
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert
	KeyDelete
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyPrintable
)

// Modifiers are the four modifier bits xterm's encoding scheme combines
// into `m = 1 + shift + 2*alt + 4*ctrl`.
type Modifiers struct {
	Shift bool
	Alt   bool
	Ctrl  bool
	Super bool
}

func (m Modifiers) any() bool { return m.Shift || m.Alt || m.Ctrl || m.Super }

// xtermModifierCode computes xterm's `m` parameter. Super has no bit in
// the classic scheme; it never participates in PTY-bound key encoding.
func (m Modifiers) xtermModifierCode() int {
	code := 1
	if m.Shift {
		code++
	}
	if m.Alt {
		code += 2
	}
	if m.Ctrl {
		code += 4
	}
	return code
}

// KeyEvent is a decoded GUI key press: a KeyCode plus, for KeyPrintable,
// the rune that was typed before modifier remapping.
type KeyEvent struct {
	Key  KeyCode
	Rune rune
	Mods Modifiers
}
