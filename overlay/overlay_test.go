package overlay

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverlayAddRemoveFocus(t *testing.T) {
	m := NewMap()
	assert.False(t, m.HasOverlay(0))

	m.Add(0, 1)
	assert.True(t, m.HasOverlay(0))
	bg, ok := m.Background(0)
	assert.True(t, ok)
	assert.Equal(t, uint32(1), bg)
	assert.Equal(t, Foreground, m.FocusedLayer(0))

	m.ToggleFocus(0)
	assert.Equal(t, Background, m.FocusedLayer(0))

	m.Remove(0)
	assert.False(t, m.HasOverlay(0))
}

func TestOverlayPaneRemovedScrubsBackgroundReferences(t *testing.T) {
	m := NewMap()
	m.Add(0, 5)
	m.Add(1, 5)
	m.Add(2, 6)

	m.PaneRemoved(5)

	assert.False(t, m.HasOverlay(0))
	assert.False(t, m.HasOverlay(1))
	assert.True(t, m.HasOverlay(2))
}

func TestOverlaySwap(t *testing.T) {
	m := NewMap()
	m.Add(0, 10)
	m.Add(1, 20)
	m.Swap(0, 1)
	bg0, _ := m.Background(0)
	bg1, _ := m.Background(1)
	assert.Equal(t, uint32(20), bg0)
	assert.Equal(t, uint32(10), bg1)
}

func TestWatermarkSetGetClear(t *testing.T) {
	w := NewWatermarkMap()
	_, ok := w.Get(0)
	assert.False(t, ok)

	w.Set(0, "hello")
	v, ok := w.Get(0)
	assert.True(t, ok)
	assert.Equal(t, "hello", v)

	w.Clear(0)
	_, ok = w.Get(0)
	assert.False(t, ok)
}

func TestWatermarkTruncatedAt128(t *testing.T) {
	w := NewWatermarkMap()
	long := strings.Repeat("x", 200)
	w.Set(0, long)
	v, _ := w.Get(0)
	assert.Len(t, v, WatermarkMaxLen)
}

func TestWatermarkPaneRemoved(t *testing.T) {
	w := NewWatermarkMap()
	w.Set(3, "wm")
	w.PaneRemoved(3)
	_, ok := w.Get(3)
	assert.False(t, ok)
}
