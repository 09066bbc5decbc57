package action

import (
	"errors"

	"github.com/tidwall/gjson"
)

// These errors distinguish the three structural failures callers must
// report distinctly; a malformed individual action is never an error —
// it is silently skipped (spec §4.B).
var (
	ErrNoActionsField = errors.New("action: missing \"actions\" field")
	ErrInvalidActions = errors.New("action: \"actions\" is not an array")
	ErrNotObject      = errors.New("action: root is not a JSON object")
)

// Response is the parsed shape of an LLM or Text Tap action-batch payload.
type Response struct {
	Explanation string
	Actions     []Action
}

// ParseActions parses a lenient JSON object of the shape
// {"explanation": "...", "actions": [...]} into a Response. Items in
// "actions" that are not well-formed (missing a string "type", or missing
// a required field for their type) are skipped rather than aborting the
// whole batch.
func ParseActions(jsonText string) (Response, error) {
	root := gjson.Parse(jsonText)
	if !root.IsObject() {
		return Response{}, ErrNotObject
	}

	explanation := root.Get("explanation").String()

	actionsField := root.Get("actions")
	if !actionsField.Exists() {
		return Response{}, ErrNoActionsField
	}
	if !actionsField.IsArray() {
		return Response{}, ErrInvalidActions
	}

	var out []Action
	for _, item := range actionsField.Array() {
		if !item.IsObject() {
			continue
		}
		typ := item.Get("type")
		if typ.Type != gjson.String {
			continue
		}
		if a, ok := buildAction(typ.String(), item); ok {
			out = append(out, a)
		}
	}

	return Response{Explanation: explanation, Actions: out}, nil
}

// uintField returns (value, true) iff the field exists, is numeric, and is
// non-negative; spec requires negative integers be treated as missing.
func uintField(item gjson.Result, field string) (uint64, bool) {
	f := item.Get(field)
	if f.Type != gjson.Number {
		return 0, false
	}
	if f.Num < 0 {
		return 0, false
	}
	return uint64(f.Num), true
}

func strField(item gjson.Result, field string) (string, bool) {
	f := item.Get(field)
	if f.Type != gjson.String {
		return "", false
	}
	return f.String(), true
}

func strOr(item gjson.Result, field, def string) string {
	if s, ok := strField(item, field); ok {
		return s
	}
	return def
}

func optStrPtr(item gjson.Result, field string) string {
	s, _ := strField(item, field)
	return s
}

func clampPercentage(v uint64) uint8 {
	if v > 100 {
		return 100
	}
	return uint8(v)
}

func buildAction(typ string, item gjson.Result) (Action, bool) {
	switch typ {
	case "send_command":
		pane, ok1 := uintField(item, "pane")
		command, ok2 := strField(item, "command")
		if !ok1 || !ok2 {
			return nil, false
		}
		return newSendCommand(uint32(pane), command), true

	case "send_to_all":
		command, ok := strField(item, "command")
		if !ok {
			return nil, false
		}
		return newSendToAll(command), true

	case "set_title":
		pane, ok1 := uintField(item, "pane")
		title, ok2 := strField(item, "title")
		if !ok1 || !ok2 {
			return nil, false
		}
		return newSetTitle(uint32(pane), title), true

	case "set_watermark":
		pane, ok1 := uintField(item, "pane")
		wm, ok2 := strField(item, "watermark")
		if !ok1 || !ok2 {
			return nil, false
		}
		return newSetWatermark(uint32(pane), wm), true

	case "clear_watermark":
		pane, ok := uintField(item, "pane")
		if !ok {
			return nil, false
		}
		return newClearWatermark(uint32(pane)), true

	case "navigate":
		pane, ok1 := uintField(item, "pane")
		url, ok2 := strField(item, "url")
		if !ok1 || !ok2 {
			return nil, false
		}
		return newNavigate(uint32(pane), url), true

	case "set_content":
		pane, ok1 := uintField(item, "pane")
		content, ok2 := strField(item, "content")
		if !ok1 || !ok2 {
			return nil, false
		}
		return newSetContent(uint32(pane), content), true

	case "spawn_pane":
		var row *uint32
		if r, ok := uintField(item, "row"); ok {
			rv := uint32(r)
			row = &rv
		}
		return SpawnPane{
			base:      base{KindSpawnPane},
			PaneType:  strOr(item, "pane_type", "terminal"),
			Title:     optStrPtr(item, "title"),
			Command:   optStrPtr(item, "command"),
			Cwd:       optStrPtr(item, "cwd"),
			URL:       optStrPtr(item, "url"),
			Content:   optStrPtr(item, "content"),
			Watermark: optStrPtr(item, "watermark"),
			Row:       row,
		}, true

	case "close_pane":
		pane, ok := uintField(item, "pane")
		if !ok {
			return nil, false
		}
		return newClosePane(uint32(pane)), true

	case "replace_pane":
		pane, ok := uintField(item, "pane")
		if !ok {
			return nil, false
		}
		return ReplacePane{
			base:      base{KindReplacePane},
			Pane:      uint32(pane),
			PaneType:  strOr(item, "pane_type", "terminal"),
			Title:     optStrPtr(item, "title"),
			Command:   optStrPtr(item, "command"),
			Cwd:       optStrPtr(item, "cwd"),
			URL:       optStrPtr(item, "url"),
			Content:   optStrPtr(item, "content"),
			Watermark: optStrPtr(item, "watermark"),
		}, true

	case "swap_panes":
		a, ok1 := uintField(item, "a")
		b, ok2 := uintField(item, "b")
		if !ok1 || !ok2 {
			return nil, false
		}
		return newSwapPanes(uint32(a), uint32(b)), true

	case "focus_pane":
		pane, ok := uintField(item, "pane")
		if !ok {
			return nil, false
		}
		return newFocusPane(uint32(pane)), true

	case "message":
		text, ok := strField(item, "text")
		if !ok {
			return nil, false
		}
		return newMessage(text), true

	case "notify":
		title, ok1 := strField(item, "title")
		body, ok2 := strField(item, "body")
		if !ok1 || !ok2 {
			return nil, false
		}
		return newNotify(title, body), true

	case "context_usage":
		used, ok1 := uintField(item, "used_tokens")
		total, ok2 := uintField(item, "total_tokens")
		pct, ok3 := uintField(item, "percentage")
		if !ok1 || !ok2 || !ok3 {
			return nil, false
		}
		return ContextUsage{
			base:         base{KindContextUsage},
			UsedTokens:   used,
			TotalTokens:  total,
			Percentage:   clampPercentage(pct),
			SessionID:    strOr(item, "session_id", ""),
			IsPreCompact: item.Get("is_pre_compact").Bool(),
		}, true

	default:
		return nil, false
	}
}
