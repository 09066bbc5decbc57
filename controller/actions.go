package controller

import (
	"time"

	"github.com/kastheco/termania/action"
	"github.com/kastheco/termania/keys"
	"github.com/kastheco/termania/pane"
)

// Apply executes a single Action against controller state. This is the
// full action model (spec §4.B/§4.H), used both for LLM-accepted batches
// (via ExecuteLLMResponse) and for the handful of variants the Text Tap
// path applies directly.
func (c *Controller) Apply(a action.Action) {
	switch v := a.(type) {
	case action.SendCommand:
		if p := c.Pane(v.Pane); p != nil {
			p.WriteInput([]byte(v.Command + "\r"))
		}
	case action.SendToAll:
		for _, p := range c.plugins {
			p.WriteInput([]byte(v.Command + "\r"))
		}
	case action.SetTitle:
		if p := c.Pane(v.Pane); p != nil {
			p.SetTitle(v.Title)
		}
	case action.SetWatermark:
		c.watermarks.Set(v.Pane, v.Watermark)
	case action.ClearWatermark:
		c.watermarks.Clear(v.Pane)
	case action.Navigate:
		if nav, ok := c.Pane(v.Pane).(interface{ Navigate(string) }); ok {
			nav.Navigate(v.URL)
		}
	case action.SetContent:
		if sc, ok := c.Pane(v.Pane).(interface{ SetContent(string) }); ok {
			sc.SetContent(v.Content)
		}
	case action.SpawnPane:
		c.spawnPane(v)
	case action.ClosePane:
		c.ClosePane(v.Pane)
	case action.ReplacePane:
		c.replacePane(v)
	case action.SwapPanes:
		c.swapPanes(v.A, v.B)
	case action.FocusPane:
		c.setFocus(v.Pane)
	case action.RawSend:
		c.writeRawSend(v)
	case action.Notify:
		c.pendingNotification = &Notification{Title: v.Title, Body: v.Body}
	case action.Message:
		c.pendingNotification = &Notification{Title: "trm", Body: v.Text}
	case action.ContextUsage:
		c.pendingContextUsage = &ContextUsage{
			UsedTokens:   v.UsedTokens,
			TotalTokens:  v.TotalTokens,
			Percentage:   v.Percentage,
			SessionID:    v.SessionID,
			IsPreCompact: v.IsPreCompact,
			RecordedAt:   time.Now().UnixNano(),
		}
		c.lastContextSessionID = v.SessionID
	}
}

func (c *Controller) spawnPane(v action.SpawnPane) {
	cfg := pane.PaneConfig{
		PaneType: v.PaneType,
		Title:    v.Title,
		URL:      v.URL,
		Content:  v.Content,
	}
	if v.Command != "" {
		cfg.Command = []string{"/bin/sh", "-c", v.Command}
	}
	if v.Cwd != "" {
		cfg.Cwd = v.Cwd
	}

	p, err := pane.Create(c.backend, len(c.plugins), cfg)
	if err != nil {
		return
	}
	c.plugins = append(c.plugins, p)

	row := len(c.grid.RowCols) - 1
	if v.Row != nil {
		row = int(*v.Row)
	}
	if row < 0 || row >= len(c.grid.RowCols) {
		c.grid.AddRow()
	} else {
		c.grid.AddColToRow(row)
	}

	if v.Watermark != "" {
		c.watermarks.Set(uint32(len(c.plugins)-1), v.Watermark)
	}
	c.setFocus(uint32(len(c.plugins) - 1))
}

// ClosePane disposes and removes a pane. A no-op if it would remove the
// last remaining pane (spec §4.H).
func (c *Controller) ClosePane(idx uint32) {
	if len(c.plugins) <= 1 || int(idx) >= len(c.plugins) {
		return
	}

	row, _, ok := c.grid.PanePosition(idx)
	if !ok {
		return
	}

	c.plugins[idx].Dispose()
	c.plugins = append(c.plugins[:idx], c.plugins[idx+1:]...)
	c.grid.RemoveColFromRow(row)

	c.overlays.PaneRemoved(idx)
	c.watermarks.PaneRemoved(idx)

	if c.focus >= uint32(len(c.plugins)) {
		c.focus = uint32(len(c.plugins) - 1)
	}
}

func (c *Controller) replacePane(v action.ReplacePane) {
	if int(v.Pane) >= len(c.plugins) {
		return
	}
	cfg := pane.PaneConfig{
		PaneType: v.PaneType,
		Title:    v.Title,
		URL:      v.URL,
		Content:  v.Content,
		Cwd:      v.Cwd,
	}
	if v.Command != "" {
		cfg.Command = []string{"/bin/sh", "-c", v.Command}
	}
	p, err := pane.Create(c.backend, int(v.Pane), cfg)
	if err != nil {
		return
	}
	c.plugins[v.Pane].Dispose()
	c.plugins[v.Pane] = p
	if v.Watermark != "" {
		c.watermarks.Set(v.Pane, v.Watermark)
	}
}

func (c *Controller) swapPanes(a, b uint32) {
	if int(a) >= len(c.plugins) || int(b) >= len(c.plugins) {
		return
	}
	c.plugins[a], c.plugins[b] = c.plugins[b], c.plugins[a]
	c.overlays.Swap(a, b)
}

func (c *Controller) setFocus(idx uint32) {
	if int(idx) < len(c.plugins) {
		c.focus = idx
	}
}

// GUIAction discriminates the ABI-originated controller commands (spec
// §4.H's "GUI-originated actions").
type GUIAction int

const (
	GUINewPane GUIAction = iota
	GUIClosePane
	GUINavigateUp
	GUINavigateDown
	GUINavigateLeft
	GUINavigateRight
	GUIBroadcastToggle
)

// ApplyGUIAction executes one of the ABI-level controller commands.
func (c *Controller) ApplyGUIAction(a GUIAction) {
	n := uint32(len(c.plugins))
	switch a {
	case GUINewPane:
		c.spawnPane(action.SpawnPane{PaneType: "terminal"})
	case GUIClosePane:
		c.ClosePane(c.focus)
	case GUINavigateRight, GUINavigateDown:
		c.setFocus((c.focus + 1) % n)
	case GUINavigateLeft, GUINavigateUp:
		c.setFocus((c.focus + n - 1) % n)
	case GUIBroadcastToggle:
		c.broadcast = !c.broadcast
	}
}

// ApplyAppAction executes the keybinding-resolved app command (spec
// §6.4), the subset that maps onto controller state rather than
// frontend-only concerns (font size, help overlay, command overlay,
// rename are frontend responsibilities the ABI surface reports up but
// does not implement here).
func (c *Controller) ApplyAppAction(a keys.AppAction) {
	switch a {
	case keys.ActionNewPane:
		c.ApplyGUIAction(GUINewPane)
	case keys.ActionClosePane:
		c.ApplyGUIAction(GUIClosePane)
	case keys.ActionNavigateUp:
		c.ApplyGUIAction(GUINavigateUp)
	case keys.ActionNavigateDown:
		c.ApplyGUIAction(GUINavigateDown)
	case keys.ActionNavigateLeft:
		c.ApplyGUIAction(GUINavigateLeft)
	case keys.ActionNavigateRight:
		c.ApplyGUIAction(GUINavigateRight)
	case keys.ActionBroadcastToggle:
		c.ApplyGUIAction(GUIBroadcastToggle)
	case keys.ActionJumpToPane1, keys.ActionJumpToPane2, keys.ActionJumpToPane3,
		keys.ActionJumpToPane4, keys.ActionJumpToPane5, keys.ActionJumpToPane6,
		keys.ActionJumpToPane7, keys.ActionJumpToPane8, keys.ActionJumpToPane9:
		c.setFocus(uint32(a - keys.ActionJumpToPane1))
	}
}

// ExecuteLLMResponse applies every action in the LLM client's current
// response, then clears it (spec §4.H: "llm_execute() clears the
// response and resets status to Idle").
func (c *Controller) ExecuteLLMResponse() {
	resp := c.llm.Response()
	if resp == nil {
		return
	}
	for _, a := range resp.Actions {
		c.Apply(a)
	}
	c.llm.Execute()
}
