// Package main builds the C ABI the GUI frontend links against (spec
// §6.5): a flat set of exported functions over an opaque handle. No
// function panics across the boundary — every pointer is bounds-checked,
// every handle is tolerated when null/stale, and the few fallible
// internal operations collapse to a safe default before crossing into C.
//
// Grounded on the teacher's other "thin boundary" packages
// (internal/initcmd/harness, internal/mcpclient/transport_stdio), which
// wrap an external process/protocol behind a narrow Go-idiomatic
// surface; this package does the same in the opposite direction, behind
// a C-idiomatic surface instead.
package main

/*
#include <stdint.h>
#include <string.h>

typedef struct {
	uint32_t rune_;
	uint32_t fg;
	uint32_t bg;
	uint8_t flags; // bit0 bold, bit1 italic, bit2 underline
} termania_cell_t;

typedef struct {
	uint32_t rows;
	uint32_t cols;
	uint32_t cursor_row;
	uint32_t cursor_col;
	char title[128];
	uint32_t title_len;
	uint8_t flags; // bit0 dirty, bit1 has_error, bit2 is_exited, bit3 is_focused
} termania_pane_info_t;

typedef struct {
	double x, y, w, h;
	double title_h;
} termania_layout_t;
*/
import "C"

import (
	"runtime/cgo"
	"unsafe"

	"github.com/kastheco/termania/action"
	"github.com/kastheco/termania/config"
	"github.com/kastheco/termania/controller"
	"github.com/kastheco/termania/keys"
	"github.com/kastheco/termania/ptybackend"
)

type handleState struct {
	ctrl *controller.Controller
}

// resolve tolerates a null, stale, or already-destroyed handle: an
// invalid cgo.Handle panics on Value(), which would otherwise cross the
// ABI boundary as a crash. Every exported entry point goes through this
// single choke point instead of calling cgo.Handle directly.
func resolve(h C.uintptr_t) (s *handleState) {
	if h == 0 {
		return nil
	}
	defer func() {
		if recover() != nil {
			s = nil
		}
	}()
	v := cgo.Handle(h).Value()
	s, _ = v.(*handleState)
	return s
}

//export termania_create
func termania_create() C.uintptr_t {
	cfg := config.Default()
	ctrl, err := controller.New(cfg, ptybackend.NewCreack())
	if err != nil {
		return 0
	}
	_ = ctrl.Start()
	return C.uintptr_t(cgo.NewHandle(&handleState{ctrl: ctrl}))
}

//export termania_create_with_config
func termania_create_with_config(path *C.char) C.uintptr_t {
	if path == nil {
		return termania_create()
	}
	cfg, err := config.Load(C.GoString(path))
	if err != nil {
		return 0
	}
	ctrl, err := controller.New(cfg, ptybackend.NewCreack())
	if err != nil {
		return 0
	}
	_ = ctrl.Start()
	return C.uintptr_t(cgo.NewHandle(&handleState{ctrl: ctrl}))
}

//export termania_destroy
func termania_destroy(h C.uintptr_t) {
	if h == 0 {
		return
	}
	if s := resolve(h); s != nil {
		s.ctrl.Close()
	}
	cgo.Handle(h).Delete()
}

//export termania_poll
func termania_poll(h C.uintptr_t) C.uint32_t {
	s := resolve(h)
	if s == nil {
		return 0
	}
	return C.uint32_t(s.ctrl.Poll())
}

//export termania_pane_count
func termania_pane_count(h C.uintptr_t) C.uint32_t {
	s := resolve(h)
	if s == nil {
		return 0
	}
	return C.uint32_t(s.ctrl.PaneCount())
}

//export termania_pane_info
func termania_pane_info(h C.uintptr_t, i C.uint32_t, out *C.termania_pane_info_t) C.uint8_t {
	s := resolve(h)
	if s == nil || out == nil {
		return 0
	}
	p := s.ctrl.Pane(uint32(i))
	if p == nil {
		return 0
	}

	rd := p.RenderData()
	out.rows = C.uint32_t(rd.Rows)
	out.cols = C.uint32_t(rd.Cols)
	out.cursor_row = C.uint32_t(rd.CursorRow)
	out.cursor_col = C.uint32_t(rd.CursorCol)

	title := p.Title()
	n := len(title)
	if n > 127 {
		n = 127
	}
	C.memset(unsafe.Pointer(&out.title[0]), 0, 128)
	if n > 0 {
		C.memcpy(unsafe.Pointer(&out.title[0]), unsafe.Pointer(&[]byte(title)[0]), C.size_t(n))
	}
	out.title_len = C.uint32_t(n)

	var flags uint8
	if p.IsDirty() {
		flags |= 1 << 0
	}
	if p.HasError() {
		flags |= 1 << 1
	}
	if p.IsExited() {
		flags |= 1 << 2
	}
	if uint32(i) == s.ctrl.FocusedPane() {
		flags |= 1 << 3
	}
	out.flags = C.uint8_t(flags)
	return 1
}

//export termania_pane_cells
func termania_pane_cells(h C.uintptr_t, i C.uint32_t, out *C.termania_cell_t, max C.uint32_t) C.uint32_t {
	s := resolve(h)
	if s == nil || out == nil || max == 0 {
		return 0
	}
	p := s.ctrl.Pane(uint32(i))
	if p == nil {
		return 0
	}
	cells := p.RenderData().Cells

	n := len(cells)
	if n > int(max) {
		n = int(max)
	}
	dst := unsafe.Slice(out, int(max))
	for idx := 0; idx < n; idx++ {
		c := cells[idx]
		var flags uint8
		if c.Bold {
			flags |= 1 << 0
		}
		if c.Italic {
			flags |= 1 << 1
		}
		if c.Underline {
			flags |= 1 << 2
		}
		dst[idx] = C.termania_cell_t{
			rune_: C.uint32_t(c.Rune),
			fg:    C.uint32_t(c.Fg),
			bg:    C.uint32_t(c.Bg),
			flags: C.uint8_t(flags),
		}
	}
	return C.uint32_t(n)
}

//export termania_pane_layouts
func termania_pane_layouts(h C.uintptr_t, w, ht, scale C.double, out *C.termania_layout_t, max C.uint32_t) C.uint32_t {
	s := resolve(h)
	if s == nil || out == nil || max == 0 {
		return 0
	}
	layouts := s.ctrl.Layout(float64(w), float64(ht), float64(scale))

	n := len(layouts)
	if n > int(max) {
		n = int(max)
	}
	dst := unsafe.Slice(out, int(max))
	for idx := 0; idx < n; idx++ {
		l := layouts[idx]
		dst[idx] = C.termania_layout_t{
			x: C.double(l.X), y: C.double(l.Y), w: C.double(l.W), h: C.double(l.H),
			title_h: C.double(l.TitleH),
		}
	}
	return C.uint32_t(n)
}

//export termania_send_key
func termania_send_key(h C.uintptr_t, key C.uint8_t, mods C.uint8_t) {
	s := resolve(h)
	if s == nil {
		return
	}
	s.ctrl.KeyEvent(decodeKeyEvent(uint8(key), uint8(mods)))
}

//export termania_send_text
func termania_send_text(h C.uintptr_t, text *C.uint8_t, length C.uint32_t) {
	s := resolve(h)
	if s == nil || text == nil || length == 0 {
		return
	}
	b := C.GoBytes(unsafe.Pointer(text), C.int(length))
	s.ctrl.TextInput(b)
}

//export termania_resize
func termania_resize(h C.uintptr_t, w, ht, scale, cellW, cellH C.double) {
	s := resolve(h)
	if s == nil {
		return
	}
	s.ctrl.Resize(float64(w), float64(ht), float64(scale), float64(cellW), float64(cellH))
}

//export termania_action
func termania_action(h C.uintptr_t, a C.uint8_t) {
	s := resolve(h)
	if s == nil {
		return
	}
	s.ctrl.ApplyGUIAction(controller.GUIAction(a))
}

//export termania_focused_pane
func termania_focused_pane(h C.uintptr_t) C.uint32_t {
	s := resolve(h)
	if s == nil {
		return 0
	}
	return C.uint32_t(s.ctrl.FocusedPane())
}

//export termania_set_focused_pane
func termania_set_focused_pane(h C.uintptr_t, i C.uint32_t) {
	s := resolve(h)
	if s == nil {
		return
	}
	s.ctrl.SetFocusedPane(uint32(i))
}

//export termania_add_overlay
func termania_add_overlay(h C.uintptr_t, fg C.uint32_t, ptype *C.uint8_t, length C.uint32_t) C.uint8_t {
	s := resolve(h)
	if s == nil || uint32(fg) >= uint32(s.ctrl.PaneCount()) {
		return 0
	}
	typeStr := ""
	if ptype != nil && length > 0 {
		typeStr = string(C.GoBytes(unsafe.Pointer(ptype), C.int(length)))
	}
	bg, err := s.ctrl.AddOverlay(uint32(fg), typeStr)
	if err != nil {
		return 0
	}
	_ = bg
	return 1
}

//export termania_remove_overlay
func termania_remove_overlay(h C.uintptr_t, fg C.uint32_t) {
	s := resolve(h)
	if s == nil {
		return
	}
	s.ctrl.Overlays().Remove(uint32(fg))
}

//export termania_swap_overlay
func termania_swap_overlay(h C.uintptr_t, fgA, fgB C.uint32_t) {
	s := resolve(h)
	if s == nil {
		return
	}
	s.ctrl.Overlays().Swap(uint32(fgA), uint32(fgB))
}

//export termania_toggle_overlay_focus
func termania_toggle_overlay_focus(h C.uintptr_t, fg C.uint32_t) {
	s := resolve(h)
	if s == nil {
		return
	}
	s.ctrl.Overlays().ToggleFocus(uint32(fg))
}

//export termania_has_overlay
func termania_has_overlay(h C.uintptr_t, fg C.uint32_t) C.uint8_t {
	s := resolve(h)
	if s == nil {
		return 0
	}
	if s.ctrl.Overlays().HasOverlay(uint32(fg)) {
		return 1
	}
	return 0
}

//export termania_pane_watermark
func termania_pane_watermark(h C.uintptr_t, i C.uint32_t, buf *C.uint8_t, max C.uint32_t) C.uint32_t {
	s := resolve(h)
	if s == nil || buf == nil || max == 0 {
		return 0
	}
	wm, ok := s.ctrl.Watermarks().Get(uint32(i))
	if !ok {
		return 0
	}
	return writeBytesToBuf(buf, max, []byte(wm))
}

//export termania_set_watermark
func termania_set_watermark(h C.uintptr_t, i C.uint32_t, text *C.uint8_t, length C.uint32_t) {
	s := resolve(h)
	if s == nil {
		return
	}
	if text == nil || length == 0 {
		s.ctrl.Watermarks().Clear(uint32(i))
		return
	}
	s.ctrl.Watermarks().Set(uint32(i), string(C.GoBytes(unsafe.Pointer(text), C.int(length))))
}

//export termania_poll_notification
func termania_poll_notification(h C.uintptr_t, titleBuf *C.uint8_t, titleMax C.uint32_t, bodyBuf *C.uint8_t, bodyMax C.uint32_t) C.uint8_t {
	s := resolve(h)
	if s == nil {
		return 0
	}
	n := s.ctrl.PendingNotification()
	if n == nil {
		return 0
	}
	if titleBuf != nil {
		writeBytesToBuf(titleBuf, titleMax, []byte(n.Title))
	}
	if bodyBuf != nil {
		writeBytesToBuf(bodyBuf, bodyMax, []byte(n.Body))
	}
	return 1
}

//export termania_context_usage
func termania_context_usage(h C.uintptr_t, used, total *C.uint64_t, pct *C.uint8_t, preCompact *C.uint8_t) C.uint8_t {
	s := resolve(h)
	if s == nil {
		return 0
	}
	u := s.ctrl.PendingContextUsage()
	if u == nil {
		return 0
	}
	if used != nil {
		*used = C.uint64_t(u.UsedTokens)
	}
	if total != nil {
		*total = C.uint64_t(u.TotalTokens)
	}
	if pct != nil {
		*pct = C.uint8_t(u.Percentage)
	}
	if preCompact != nil {
		if u.IsPreCompact {
			*preCompact = 1
		} else {
			*preCompact = 0
		}
	}
	return 1
}

//export termania_context_session_id
func termania_context_session_id(h C.uintptr_t, buf *C.uint8_t, max C.uint32_t) C.uint32_t {
	s := resolve(h)
	if s == nil {
		return 0
	}
	id := s.ctrl.LastContextSessionID()
	if id == "" || buf == nil {
		return 0
	}
	return writeBytesToBuf(buf, max, []byte(id))
}

//export termania_llm_submit
func termania_llm_submit(h C.uintptr_t, prompt *C.uint8_t, length C.uint32_t) C.uint32_t {
	s := resolve(h)
	if s == nil || prompt == nil {
		return 0
	}
	p := string(C.GoBytes(unsafe.Pointer(prompt), C.int(length)))
	s.ctrl.LLM().Submit(p)
	return 1
}

//export termania_llm_status
func termania_llm_status(h C.uintptr_t) C.uint8_t {
	s := resolve(h)
	if s == nil {
		return 0
	}
	return C.uint8_t(s.ctrl.LLM().Status())
}

//export termania_llm_response_text
func termania_llm_response_text(h C.uintptr_t, buf *C.uint8_t, max C.uint32_t) C.uint32_t {
	s := resolve(h)
	if s == nil || buf == nil {
		return 0
	}
	resp := s.ctrl.LLM().Response()
	if resp == nil {
		return 0
	}
	return writeBytesToBuf(buf, max, []byte(resp.Explanation))
}

//export termania_llm_action_count
func termania_llm_action_count(h C.uintptr_t) C.uint32_t {
	s := resolve(h)
	if s == nil {
		return 0
	}
	resp := s.ctrl.LLM().Response()
	if resp == nil {
		return 0
	}
	return C.uint32_t(len(resp.Actions))
}

//export termania_llm_action_desc
func termania_llm_action_desc(h C.uintptr_t, i C.uint32_t, buf *C.uint8_t, max C.uint32_t) C.uint32_t {
	s := resolve(h)
	if s == nil || buf == nil {
		return 0
	}
	resp := s.ctrl.LLM().Response()
	if resp == nil || int(i) >= len(resp.Actions) {
		return 0
	}
	desc := action.FormatForDisplay(resp.Actions[i])
	return writeBytesToBuf(buf, max, []byte(desc))
}

//export termania_llm_execute
func termania_llm_execute(h C.uintptr_t) {
	s := resolve(h)
	if s == nil {
		return
	}
	s.ctrl.ExecuteLLMResponse()
}

func writeBytesToBuf(buf *C.uint8_t, max C.uint32_t, b []byte) C.uint32_t {
	if max == 0 {
		return 0
	}
	n := len(b)
	if n > int(max) {
		n = int(max)
	}
	if n == 0 {
		return 0
	}
	dst := unsafe.Slice((*byte)(unsafe.Pointer(buf)), int(max))
	copy(dst, b[:n])
	return C.uint32_t(n)
}

func decodeKeyEvent(key, mods uint8) keys.KeyEvent {
	e := keys.KeyEvent{
		Mods: keys.Modifiers{
			Shift: mods&(1<<0) != 0,
			Alt:   mods&(1<<1) != 0,
			Ctrl:  mods&(1<<2) != 0,
			Super: mods&(1<<3) != 0,
		},
	}
	if key >= 0x20 && key < 0x7f {
		e.Key = keys.KeyPrintable
		e.Rune = rune(key)
		return e
	}
	if code, ok := keyCodeTable[key]; ok {
		e.Key = code
		return e
	}
	e.Key = keys.KeyUnknown
	return e
}

var keyCodeTable = map[uint8]keys.KeyCode{
	1:  keys.KeyEnter,
	2:  keys.KeyTab,
	3:  keys.KeyEscape,
	4:  keys.KeyBackspace,
	5:  keys.KeyArrowUp,
	6:  keys.KeyArrowDown,
	7:  keys.KeyArrowRight,
	8:  keys.KeyArrowLeft,
	9:  keys.KeyHome,
	10: keys.KeyEnd,
	11: keys.KeyPageUp,
	12: keys.KeyPageDown,
	13: keys.KeyInsert,
	14: keys.KeyDelete,
	15: keys.KeyF1,
	16: keys.KeyF2,
	17: keys.KeyF3,
	18: keys.KeyF4,
	19: keys.KeyF5,
	20: keys.KeyF6,
	21: keys.KeyF7,
	22: keys.KeyF8,
	23: keys.KeyF9,
	24: keys.KeyF10,
	25: keys.KeyF11,
	26: keys.KeyF12,
}

