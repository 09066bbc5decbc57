package pane

import (
	"testing"

	"github.com/kastheco/termania/ptybackend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spawnFake(t *testing.T) (*TerminalPlugin, *ptybackend.FakePty) {
	t.Helper()
	backend := ptybackend.NewFake()
	p, err := NewTerminalPlugin(backend, Config{Title: "shell", Rows: 4, Cols: 10})
	require.NoError(t, err)
	require.Len(t, backend.Spawned, 1)
	return p, backend.Spawned[0]
}

func TestTerminalPlugin_PollDrainsOutput(t *testing.T) {
	p, fake := spawnFake(t)
	fake.Feed([]byte("hi\r\n"))

	dirty := p.Poll()
	assert.True(t, dirty)
	assert.True(t, p.IsDirty())

	p.ClearDirty()
	assert.False(t, p.IsDirty())

	// Nothing pending now: Poll returns false.
	assert.False(t, p.Poll())
}

func TestTerminalPlugin_WriteInputGoesToPTY(t *testing.T) {
	p, fake := spawnFake(t)
	p.WriteInput([]byte("ls\r"))
	assert.Equal(t, "ls\r", string(fake.Written()))
}

func TestTerminalPlugin_RenderDataCursorSentinelWhenScrolled(t *testing.T) {
	p, _ := spawnFake(t)
	rd := p.RenderData()
	assert.NotEqual(t, NoCursor, rd.CursorRow)

	p.ScrollUp(1)
	rd = p.RenderData()
	assert.Equal(t, NoCursor, rd.CursorRow)
	assert.Equal(t, NoCursor, rd.CursorCol)

	p.ScrollDown(1)
	rd = p.RenderData()
	assert.NotEqual(t, NoCursor, rd.CursorRow)
}

func TestTerminalPlugin_ExitedReflectsPty(t *testing.T) {
	p, fake := spawnFake(t)
	assert.False(t, p.IsExited())
	fake.SetExited(true)
	assert.True(t, p.IsExited())
}

func TestTerminalPlugin_VisibleText(t *testing.T) {
	p, fake := spawnFake(t)
	fake.Feed([]byte("one\r\ntwo\r\n"))
	p.Poll()

	buf := make([]string, 10)
	n := p.VisibleText(buf, 10)
	assert.Greater(t, n, 0)
}

func TestStubPlugin_InertCapabilities(t *testing.T) {
	s := NewStubPlugin("notes", "scratch")
	assert.Equal(t, "notes", s.PaneType())
	assert.Equal(t, "scratch", s.Title())
	assert.False(t, s.Poll())
	assert.False(t, s.HasError())
	assert.False(t, s.IsDirty())
	assert.False(t, s.IsExited())
	assert.Equal(t, 0, s.ChildPID())
	assert.Equal(t, RenderData{}, s.RenderData())

	s.SetContent("hello")
	assert.Equal(t, "hello", s.Content())
}

func TestCreate_DefaultsToTerminal(t *testing.T) {
	backend := ptybackend.NewFake()
	p, err := Create(backend, 0, PaneConfig{})
	require.NoError(t, err)
	assert.Equal(t, "terminal", p.PaneType())
}

func TestCreate_StubForOtherTypes(t *testing.T) {
	backend := ptybackend.NewFake()
	p, err := Create(backend, 0, PaneConfig{PaneType: "webview", URL: "https://example.com"})
	require.NoError(t, err)
	assert.Equal(t, "webview", p.PaneType())
	assert.Len(t, backend.Spawned, 0)
}
