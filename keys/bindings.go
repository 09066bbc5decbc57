package keys

// AppAction is a controller-level command bound to a Ctrl+Shift chord,
// consumed before a key event would otherwise be forwarded to the
// focused pane's PTY (spec §6.4).
type AppAction int

const (
	ActionNone AppAction = iota
	ActionNewPane
	ActionClosePane
	ActionNavigateUp
	ActionNavigateDown
	ActionNavigateLeft
	ActionNavigateRight
	ActionJumpToPane1
	ActionJumpToPane2
	ActionJumpToPane3
	ActionJumpToPane4
	ActionJumpToPane5
	ActionJumpToPane6
	ActionJumpToPane7
	ActionJumpToPane8
	ActionJumpToPane9
	ActionRenamePane
	ActionBroadcastToggle
	ActionFontSizeIncrease
	ActionFontSizeDecrease
	ActionCommandOverlayToggle
	ActionHelpToggle
)

var jumpToPane = [9]AppAction{
	ActionJumpToPane1, ActionJumpToPane2, ActionJumpToPane3,
	ActionJumpToPane4, ActionJumpToPane5, ActionJumpToPane6,
	ActionJumpToPane7, ActionJumpToPane8, ActionJumpToPane9,
}

// ResolveAppAction returns the bound AppAction for e, or ActionNone when e
// doesn't match a binding. Every binding requires Ctrl+Shift with no
// Super pressed.
func ResolveAppAction(e KeyEvent) AppAction {
	if !e.Mods.Ctrl || !e.Mods.Shift || e.Mods.Super {
		return ActionNone
	}

	switch e.Key {
	case KeyArrowUp:
		return ActionNavigateUp
	case KeyArrowDown:
		return ActionNavigateDown
	case KeyArrowLeft:
		return ActionNavigateLeft
	case KeyArrowRight:
		return ActionNavigateRight
	case KeyEnter:
		return ActionCommandOverlayToggle
	}

	if e.Key != KeyPrintable {
		return ActionNone
	}

	switch e.Rune {
	case 'n', 'N':
		return ActionNewPane
	case 'w', 'W':
		return ActionClosePane
	case 'r', 'R':
		return ActionRenamePane
	case 'b', 'B':
		return ActionBroadcastToggle
	case '+', '=':
		return ActionFontSizeIncrease
	case '-', '_':
		return ActionFontSizeDecrease
	case '/':
		return ActionHelpToggle
	}

	if e.Rune >= '1' && e.Rune <= '9' {
		return jumpToPane[e.Rune-'1']
	}

	return ActionNone
}
