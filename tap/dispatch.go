package tap

import (
	"github.com/kastheco/termania/action"
	"github.com/tidwall/gjson"
)

// buildDispatchedAction handles the `{"type":"action","action":T,...}`
// request shape for the minimum action subset the wire protocol must
// support (spec §4.F): send_command, send_to_all, message, notify.
func buildDispatchedAction(root gjson.Result) (action.Action, bool) {
	switch root.Get("action").String() {
	case "send_command":
		pane := root.Get("pane")
		command := root.Get("command")
		if pane.Type != gjson.Number || pane.Num < 0 || command.Type != gjson.String {
			return nil, false
		}
		return action.NewSendCommand(uint32(pane.Uint()), command.String()), true

	case "send_to_all":
		command := root.Get("command")
		if command.Type != gjson.String {
			return nil, false
		}
		return action.NewSendToAll(command.String()), true

	case "message":
		text := root.Get("text")
		if text.Type != gjson.String {
			return nil, false
		}
		return action.NewMessage(text.String()), true

	case "notify":
		title := root.Get("title")
		body := root.Get("body")
		if title.Type != gjson.String || body.Type != gjson.String {
			return nil, false
		}
		return action.NewNotify(title.String(), body.String()), true

	default:
		return nil, false
	}
}

// buildContextUsage implements the context_update payload extraction rules
// from spec §4.F: non-negative integers, percentage clamped to [0,100],
// session_id defaulting to empty, hook_type "PreCompact" setting the flag.
func buildContextUsage(payload gjson.Result) action.Action {
	win := payload.Get("context_window")
	used := nonNegativeUint(win.Get("used"))
	total := nonNegativeUint(win.Get("total"))
	pct := nonNegativeUint(win.Get("used_percentage"))
	if pct > 100 {
		pct = 100
	}

	sessionID := payload.Get("session_id").String()
	isPreCompact := payload.Get("hook_type").String() == "PreCompact"

	return action.NewContextUsage(used, total, uint8(pct), sessionID, isPreCompact)
}

func nonNegativeUint(r gjson.Result) uint64 {
	if r.Type != gjson.Number || r.Num < 0 {
		return 0
	}
	return uint64(r.Num)
}
