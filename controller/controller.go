// Package controller implements the Application controller (spec §4.H):
// the single-threaded owner of the grid, every pane plugin, the Text
// Tap server, the LLM client, the overlay/watermark registries, focus,
// and the pending notification/context-usage slots.
package controller

import (
	"time"

	"github.com/kastheco/termania/action"
	"github.com/kastheco/termania/config"
	"github.com/kastheco/termania/grid"
	"github.com/kastheco/termania/keys"
	"github.com/kastheco/termania/llm"
	"github.com/kastheco/termania/overlay"
	"github.com/kastheco/termania/pane"
	"github.com/kastheco/termania/ptybackend"
	"github.com/kastheco/termania/tap"
)

// Notification is the pending-notification slot's contents (spec §5:
// "single slot, overwrite-on-new").
type Notification struct {
	Title string
	Body  string
}

// ContextUsage mirrors action.ContextUsage for the pending-context-usage
// slot, plus the timestamp the controller records alongside it.
type ContextUsage struct {
	UsedTokens   uint64
	TotalTokens  uint64
	Percentage   uint8
	SessionID    string
	IsPreCompact bool
	RecordedAt   int64 // unix nanos; stamped when the controller applies the report
}

// Controller owns all mutable application state. No method may suspend.
type Controller struct {
	cfg     *config.Config
	backend ptybackend.Backend

	grid    *grid.Manager
	plugins []pane.Plugin

	tap *tap.Server
	llm *llm.Client

	overlays   *overlay.Map
	watermarks *overlay.WatermarkMap

	focus     uint32
	broadcast bool

	pendingNotification *Notification
	pendingContextUsage *ContextUsage
	lastContextSessionID string
}

// New builds a Controller from cfg: creates the pane grid, instantiates
// one plugin per effective pane config (or a default terminal when none
// configured), and wires the Text Tap server (started separately via
// Start, per spec's explicit start() lifecycle step).
func New(cfg *config.Config, backend ptybackend.Backend) (*Controller, error) {
	rows := int(cfg.Grid.Rows)
	cols := int(cfg.Grid.Cols)

	paneConfigs := cfg.EffectivePanes()
	total := rows * cols
	if total < 1 {
		total = 1
	}

	c := &Controller{
		cfg:        cfg,
		backend:    backend,
		grid:       grid.NewManager(rows, cols),
		overlays:   overlay.NewMap(),
		watermarks: overlay.NewWatermarkMap(),
		tap:        tap.NewServer(cfg.TextTap.SocketPath),
		llm: llm.NewClient(llm.Config{
			Provider:  cfg.LLM.Provider,
			APIKey:    cfg.LLM.APIKey,
			BaseURL:   cfg.LLM.BaseURL,
			Model:     cfg.LLM.Model,
			MaxTokens: cfg.LLM.MaxTokens,
		}),
	}
	c.tap.SetPaneCounter(func() int { return len(c.plugins) })

	for i := 0; i < total; i++ {
		var pc pane.PaneConfig
		if i < len(paneConfigs) {
			pc = toPanePluginConfig(paneConfigs[i])
		}
		p, err := pane.Create(backend, i, pc)
		if err != nil {
			c.disposeAll()
			return nil, err
		}
		c.plugins = append(c.plugins, p)
	}

	return c, nil
}

func toPanePluginConfig(pc config.PaneConfig) pane.PaneConfig {
	return pane.PaneConfig{
		PaneType:        pc.PaneType,
		Title:           pc.Title,
		Command:         pc.Command,
		Cwd:             pc.Cwd,
		Env:             pc.Env,
		InitialCommands: pc.InitialCommands,
		URL:             pc.URL,
		Content:         pc.Content,
	}
}

// Start begins listening on the Text Tap socket, if enabled in config.
func (c *Controller) Start() error {
	if !c.cfg.TextTap.Enabled {
		return nil
	}
	return c.tap.Start()
}

// Close disposes every plugin and stops the Text Tap server.
func (c *Controller) Close() {
	c.tap.Stop()
	c.disposeAll()
}

func (c *Controller) disposeAll() {
	for _, p := range c.plugins {
		p.Dispose()
	}
	c.plugins = nil
}

// PaneCount returns the number of panes currently live.
func (c *Controller) PaneCount() int { return len(c.plugins) }

// FocusedPane returns the index of the currently focused pane.
func (c *Controller) FocusedPane() uint32 { return c.focus }

// Pane returns the plugin at index i, or nil if out of range.
func (c *Controller) Pane(i uint32) pane.Plugin {
	if int(i) >= len(c.plugins) {
		return nil
	}
	return c.plugins[i]
}

// PendingNotification returns and clears the pending-notification slot.
func (c *Controller) PendingNotification() *Notification {
	n := c.pendingNotification
	c.pendingNotification = nil
	return n
}

// PendingContextUsage returns and clears the pending-context-usage slot.
func (c *Controller) PendingContextUsage() *ContextUsage {
	n := c.pendingContextUsage
	c.pendingContextUsage = nil
	return n
}

// Poll executes one controller tick per spec §4.H/§5's ordering: poll
// every plugin, then poll+drain the Text Tap, applying drained actions.
// Returns the count of panes that produced new output this tick.
func (c *Controller) Poll() int {
	dirty := 0
	for _, p := range c.plugins {
		if p.Poll() {
			dirty++
		}
	}

	c.tap.Poll()
	for _, a := range c.tap.DrainActions() {
		c.applyTapAction(a)
	}

	return dirty
}

func (c *Controller) applyTapAction(a action.Action) {
	switch v := a.(type) {
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
	default:
		c.Apply(a)
	}
}

func (c *Controller) writeRawSend(v action.RawSend) {
	if v.TargetSpec.All {
		for _, p := range c.plugins {
			p.WriteInput([]byte(v.Bytes))
		}
		return
	}
	if p := c.Pane(v.TargetSpec.Pane); p != nil {
		p.WriteInput([]byte(v.Bytes))
	}
}

// KeyEvent routes a decoded key event: app keybindings are tried first,
// then xterm byte encoding to the focused plugin.
func (c *Controller) KeyEvent(e keys.KeyEvent) {
	if ab := keys.ResolveAppAction(e); ab != keys.ActionNone {
		c.ApplyAppAction(ab)
		return
	}
	b := keys.ToBytes(e)
	if b == nil {
		return
	}
	if p := c.Pane(c.focus); p != nil {
		p.WriteInput(b)
	}
}

// TextInput writes raw UTF-8 bytes to the focused plugin, or to every
// plugin when broadcast mode is enabled.
func (c *Controller) TextInput(b []byte) {
	if c.broadcast {
		for _, p := range c.plugins {
			p.WriteInput(b)
		}
		return
	}
	if p := c.Pane(c.focus); p != nil {
		p.WriteInput(b)
	}
}

// LLM returns the controller's LLM client for lifecycle calls
// (Submit/Poll/Execute), per spec §4.H.
func (c *Controller) LLM() *llm.Client { return c.llm }

// PollLLM drives the LLM client's HTTP round trip using the current
// pane contents.
func (c *Controller) PollLLM() {
	c.llm.Poll(c.plugins)
}

// Overlays and Watermarks expose the registries for ABI-layer access.
func (c *Controller) Overlays() *overlay.Map            { return c.overlays }
func (c *Controller) Watermarks() *overlay.WatermarkMap { return c.watermarks }

// BroadcastMode reports whether text input is currently routed to every
// plugin.
func (c *Controller) BroadcastMode() bool { return c.broadcast }
