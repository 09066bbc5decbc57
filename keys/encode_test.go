package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func printable(r rune, mods Modifiers) KeyEvent {
	return KeyEvent{Key: KeyPrintable, Rune: r, Mods: mods}
}

func TestToBytes_CtrlLetter(t *testing.T) {
	b := ToBytes(printable('a', Modifiers{Ctrl: true}))
	assert.Equal(t, []byte{0x01}, b)

	b = ToBytes(printable('z', Modifiers{Ctrl: true}))
	assert.Equal(t, []byte{0x1A}, b)

	b = ToBytes(printable('A', Modifiers{Ctrl: true}))
	assert.Equal(t, []byte{0x01}, b)
}

func TestToBytes_CtrlAltLetterPrefixesEsc(t *testing.T) {
	b := ToBytes(printable('c', Modifiers{Ctrl: true, Alt: true}))
	assert.Equal(t, []byte{esc, 0x03}, b)
}

func TestToBytes_EnterTabEscBackspace(t *testing.T) {
	assert.Equal(t, []byte("\r"), ToBytes(KeyEvent{Key: KeyEnter}))
	assert.Equal(t, []byte("\t"), ToBytes(KeyEvent{Key: KeyTab}))
	assert.Equal(t, []byte{esc, '[', 'Z'}, ToBytes(KeyEvent{Key: KeyTab, Mods: Modifiers{Shift: true}}))
	assert.Equal(t, []byte{esc}, ToBytes(KeyEvent{Key: KeyEscape}))
	assert.Equal(t, []byte{0x7F}, ToBytes(KeyEvent{Key: KeyBackspace}))
	assert.Equal(t, []byte{0x08}, ToBytes(KeyEvent{Key: KeyBackspace, Mods: Modifiers{Ctrl: true}}))
	assert.Equal(t, []byte{esc, 0x7F}, ToBytes(KeyEvent{Key: KeyBackspace, Mods: Modifiers{Alt: true}}))
}

func TestToBytes_Arrows(t *testing.T) {
	assert.Equal(t, []byte{esc, '[', 'A'}, ToBytes(KeyEvent{Key: KeyArrowUp}))
	assert.Equal(t, []byte{esc, '[', 'B'}, ToBytes(KeyEvent{Key: KeyArrowDown}))
	assert.Equal(t, []byte{esc, '[', 'C'}, ToBytes(KeyEvent{Key: KeyArrowRight}))
	assert.Equal(t, []byte{esc, '[', 'D'}, ToBytes(KeyEvent{Key: KeyArrowLeft}))

	b := ToBytes(KeyEvent{Key: KeyArrowUp, Mods: Modifiers{Shift: true}})
	assert.Equal(t, []byte(string(esc)+"[1;2A"), b)

	b = ToBytes(KeyEvent{Key: KeyArrowLeft, Mods: Modifiers{Ctrl: true, Alt: true, Shift: true}})
	assert.Equal(t, []byte(string(esc)+"[1;8D"), b)
}

func TestToBytes_HomeEnd(t *testing.T) {
	assert.Equal(t, []byte{esc, '[', 'H'}, ToBytes(KeyEvent{Key: KeyHome}))
	assert.Equal(t, []byte{esc, '[', 'F'}, ToBytes(KeyEvent{Key: KeyEnd}))
}

func TestToBytes_PageInsertDelete(t *testing.T) {
	assert.Equal(t, []byte(string(esc)+"[5~"), ToBytes(KeyEvent{Key: KeyPageUp}))
	assert.Equal(t, []byte(string(esc)+"[6~"), ToBytes(KeyEvent{Key: KeyPageDown}))
	assert.Equal(t, []byte(string(esc)+"[2~"), ToBytes(KeyEvent{Key: KeyInsert}))
	assert.Equal(t, []byte(string(esc)+"[3~"), ToBytes(KeyEvent{Key: KeyDelete}))

	b := ToBytes(KeyEvent{Key: KeyDelete, Mods: Modifiers{Ctrl: true}})
	assert.Equal(t, []byte(string(esc)+"[3;5~"), b)
}

func TestToBytes_FunctionKeys(t *testing.T) {
	assert.Equal(t, []byte{esc, 'O', 'P'}, ToBytes(KeyEvent{Key: KeyF1}))
	assert.Equal(t, []byte{esc, 'O', 'Q'}, ToBytes(KeyEvent{Key: KeyF2}))
	assert.Equal(t, []byte{esc, 'O', 'R'}, ToBytes(KeyEvent{Key: KeyF3}))
	assert.Equal(t, []byte{esc, 'O', 'S'}, ToBytes(KeyEvent{Key: KeyF4}))

	b := ToBytes(KeyEvent{Key: KeyF1, Mods: Modifiers{Shift: true}})
	assert.Equal(t, []byte(string(esc)+"[1;2P"), b)

	assert.Equal(t, []byte(string(esc)+"[15~"), ToBytes(KeyEvent{Key: KeyF5}))
	assert.Equal(t, []byte(string(esc)+"[17~"), ToBytes(KeyEvent{Key: KeyF6}))
	assert.Equal(t, []byte(string(esc)+"[18~"), ToBytes(KeyEvent{Key: KeyF7}))
	assert.Equal(t, []byte(string(esc)+"[19~"), ToBytes(KeyEvent{Key: KeyF8}))
	assert.Equal(t, []byte(string(esc)+"[20~"), ToBytes(KeyEvent{Key: KeyF9}))
	assert.Equal(t, []byte(string(esc)+"[21~"), ToBytes(KeyEvent{Key: KeyF10}))
	assert.Equal(t, []byte(string(esc)+"[23~"), ToBytes(KeyEvent{Key: KeyF11}))
	assert.Equal(t, []byte(string(esc)+"[24~"), ToBytes(KeyEvent{Key: KeyF12}))
}

func TestToBytes_PrintableShiftMapping(t *testing.T) {
	assert.Equal(t, []byte("A"), ToBytes(printable('a', Modifiers{Shift: true})))
	assert.Equal(t, []byte("!"), ToBytes(printable('1', Modifiers{Shift: true})))
	assert.Equal(t, []byte("@"), ToBytes(printable('2', Modifiers{Shift: true})))
	assert.Equal(t, []byte("{"), ToBytes(printable('[', Modifiers{Shift: true})))
	assert.Equal(t, []byte("|"), ToBytes(printable('\\', Modifiers{Shift: true})))
	assert.Equal(t, []byte("a"), ToBytes(printable('a', Modifiers{})))
}

func TestToBytes_AltPrefixesPrintable(t *testing.T) {
	b := ToBytes(printable('x', Modifiers{Alt: true}))
	assert.Equal(t, []byte{esc, 'x'}, b)
}

func TestToBytes_UnknownKeyReturnsNil(t *testing.T) {
	assert.Nil(t, ToBytes(KeyEvent{Key: KeyUnknown}))
}

func TestResolveAppAction_RequiresCtrlShift(t *testing.T) {
	e := KeyEvent{Key: KeyPrintable, Rune: 'n', Mods: Modifiers{Ctrl: true, Shift: true}}
	assert.Equal(t, ActionNewPane, ResolveAppAction(e))

	e.Mods.Shift = false
	assert.Equal(t, ActionNone, ResolveAppAction(e))

	e.Mods.Shift = true
	e.Mods.Super = true
	assert.Equal(t, ActionNone, ResolveAppAction(e))
}

func TestResolveAppAction_JumpToPane(t *testing.T) {
	e := KeyEvent{Key: KeyPrintable, Rune: '5', Mods: Modifiers{Ctrl: true, Shift: true}}
	assert.Equal(t, ActionJumpToPane5, ResolveAppAction(e))
}

func TestResolveAppAction_Navigation(t *testing.T) {
	mods := Modifiers{Ctrl: true, Shift: true}
	assert.Equal(t, ActionNavigateUp, ResolveAppAction(KeyEvent{Key: KeyArrowUp, Mods: mods}))
	assert.Equal(t, ActionNavigateDown, ResolveAppAction(KeyEvent{Key: KeyArrowDown, Mods: mods}))
	assert.Equal(t, ActionNavigateLeft, ResolveAppAction(KeyEvent{Key: KeyArrowLeft, Mods: mods}))
	assert.Equal(t, ActionNavigateRight, ResolveAppAction(KeyEvent{Key: KeyArrowRight, Mods: mods}))
}
