package controller

import (
	"fmt"

	"github.com/kastheco/termania/grid"
	"github.com/kastheco/termania/pane"
)

// Default layout metrics in logical pixels. The loaded config carries
// font/grid/window/color/text_tap/llm settings (spec §6.1); it has no
// layout section, so the C ABI's pane_layouts geometry uses these fixed
// constants rather than an invented config knob.
const (
	defaultOuterPadding   = 8.0
	defaultGap            = 4.0
	defaultTitleBarHeight = 24.0
)

// SetFocusedPane moves input focus directly to a pane index (the C ABI's
// set_focused_pane), bounds-checked like every other focus mutator.
func (c *Controller) SetFocusedPane(idx uint32) {
	c.setFocus(idx)
}

// Layout computes each pane's pixel rectangle for a window of the given
// size, at the given backing scale factor.
func (c *Controller) Layout(windowW, windowH, scale float64) []grid.PaneLayout {
	cfg := grid.LayoutConfig{
		OuterPadding:   defaultOuterPadding,
		Gap:            defaultGap,
		TitleBarHeight: defaultTitleBarHeight,
	}
	return c.grid.ComputeLayout(windowW, windowH, cfg, scale)
}

// Resize recomputes every pane's layout rectangle for the given window
// size and converts each terminal pane's pixel content area into a
// rows/cols cell count using the frontend-reported cell metrics, then
// resizes its PTY and emulator to match.
func (c *Controller) Resize(windowW, windowH, scale, cellW, cellH float64) {
	if cellW <= 0 || cellH <= 0 {
		return
	}
	layouts := c.Layout(windowW, windowH, scale)
	for i, l := range layouts {
		if i >= len(c.plugins) {
			break
		}
		contentH := l.H - l.TitleH
		if contentH < 0 {
			contentH = 0
		}
		rows := int(contentH / cellH)
		cols := int(l.W / cellW)
		if rows < 1 {
			rows = 1
		}
		if cols < 1 {
			cols = 1
		}
		c.plugins[i].Resize(rows, cols)
	}
}

// AddOverlay creates a new background pane of ptype layered behind fg,
// and registers the pairing in the overlay map. Returns the new pane's
// index.
func (c *Controller) AddOverlay(fg uint32, ptype string) (uint32, error) {
	if int(fg) >= len(c.plugins) {
		return 0, fmt.Errorf("controller: pane %d out of range", fg)
	}
	p, err := pane.Create(c.backend, len(c.plugins), pane.PaneConfig{PaneType: ptype})
	if err != nil {
		return 0, err
	}
	c.plugins = append(c.plugins, p)
	bg := uint32(len(c.plugins) - 1)
	c.overlays.Add(fg, bg)
	return bg, nil
}

// LastContextSessionID returns the session id from the most recently
// applied ContextUsage action, independent of whether that usage report
// has already been drained via PendingContextUsage.
func (c *Controller) LastContextSessionID() string {
	return c.lastContextSessionID
}
