// Package overlay holds the per-pane foreground/background overlay
// registry and the per-pane watermark registry. Both are simple
// index->value mappings; neither owns the panes it references.
package overlay

// FocusLayer selects which half of an overlay pair currently receives
// input.
type FocusLayer int

const (
	Foreground FocusLayer = iota
	Background
)

// entry pairs a background pane with the currently focused layer.
type entry struct {
	bgPane uint32
	focus  FocusLayer
}

// Map is the fg_pane_idx -> bg_pane_idx overlay registry plus the
// fg_pane_idx -> focus_layer bit.
type Map struct {
	entries map[uint32]entry
}

// NewMap returns an empty overlay registry.
func NewMap() *Map {
	return &Map{entries: make(map[uint32]entry)}
}

// Add registers fg as overlaying bg, starting focused on the foreground.
func (m *Map) Add(fg, bg uint32) {
	m.entries[fg] = entry{bgPane: bg, focus: Foreground}
}

// Remove deletes the overlay pairing rooted at fg.
func (m *Map) Remove(fg uint32) {
	delete(m.entries, fg)
}

// HasOverlay reports whether fg has a registered background pane.
func (m *Map) HasOverlay(fg uint32) bool {
	_, ok := m.entries[fg]
	return ok
}

// Background returns the background pane for fg, if any.
func (m *Map) Background(fg uint32) (uint32, bool) {
	e, ok := m.entries[fg]
	if !ok {
		return 0, false
	}
	return e.bgPane, true
}

// FocusedLayer returns which layer currently has focus for fg. Defaults to
// Foreground if fg has no overlay registered.
func (m *Map) FocusedLayer(fg uint32) FocusLayer {
	return m.entries[fg].focus
}

// ToggleFocus flips the focus bit for fg. No-op if fg has no overlay.
func (m *Map) ToggleFocus(fg uint32) {
	e, ok := m.entries[fg]
	if !ok {
		return
	}
	if e.focus == Foreground {
		e.focus = Background
	} else {
		e.focus = Foreground
	}
	m.entries[fg] = e
}

// Swap exchanges the background pane assignment between two foreground
// entries, leaving each entry's focus bit untouched. Only swaps entries
// that actually exist; a missing side is left alone.
func (m *Map) Swap(fgA, fgB uint32) {
	a, okA := m.entries[fgA]
	b, okB := m.entries[fgB]
	if !okA || !okB {
		return
	}
	a.bgPane, b.bgPane = b.bgPane, a.bgPane
	m.entries[fgA] = a
	m.entries[fgB] = b
}

// PaneRemoved scrubs every overlay entry whose background pane equals the
// removed index, and removes any entry rooted at the removed foreground
// index. Call this before finalizing a ClosePane.
func (m *Map) PaneRemoved(idx uint32) {
	delete(m.entries, idx)
	for fg, e := range m.entries {
		if e.bgPane == idx {
			delete(m.entries, fg)
		}
	}
}

// WatermarkMaxLen bounds stored watermark strings.
const WatermarkMaxLen = 128

// WatermarkMap is the pane_idx -> watermark string registry.
type WatermarkMap struct {
	byPane map[uint32]string
}

// NewWatermarkMap returns an empty watermark registry.
func NewWatermarkMap() *WatermarkMap {
	return &WatermarkMap{byPane: make(map[uint32]string)}
}

// Set stores watermark for pane, truncating to WatermarkMaxLen bytes.
func (w *WatermarkMap) Set(pane uint32, watermark string) {
	if len(watermark) > WatermarkMaxLen {
		watermark = watermark[:WatermarkMaxLen]
	}
	w.byPane[pane] = watermark
}

// Clear removes pane's watermark.
func (w *WatermarkMap) Clear(pane uint32) {
	delete(w.byPane, pane)
}

// Get returns pane's watermark, if any.
func (w *WatermarkMap) Get(pane uint32) (string, bool) {
	s, ok := w.byPane[pane]
	return s, ok
}

// PaneRemoved removes any watermark owned by the removed pane index.
func (w *WatermarkMap) PaneRemoved(idx uint32) {
	delete(w.byPane, idx)
}
