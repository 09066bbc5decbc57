package controller

import (
	"testing"

	"github.com/kastheco/termania/action"
	"github.com/kastheco/termania/config"
	"github.com/kastheco/termania/keys"
	"github.com/kastheco/termania/ptybackend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestController(t *testing.T, rows, cols int) (*Controller, *ptybackend.Fake) {
	t.Helper()
	cfg := config.Default()
	cfg.Grid = config.GridConfig{Rows: uint32(rows), Cols: uint32(cols)}
	cfg.TextTap.Enabled = false
	backend := ptybackend.NewFake()
	c, err := New(cfg, backend)
	require.NoError(t, err)
	return c, backend
}

func TestNew_CreatesOnePluginPerGridCell(t *testing.T) {
	c, _ := newTestController(t, 1, 3)
	assert.Equal(t, 3, c.PaneCount())
	assert.Equal(t, uint32(0), c.FocusedPane())
}

func TestPoll_CountsPanesWithNewOutput(t *testing.T) {
	c, backend := newTestController(t, 1, 2)
	backend.Spawned[0].Feed([]byte("hello"))

	dirty := c.Poll()
	assert.Equal(t, 1, dirty)
}

func TestApplyGUIAction_NewPaneAppendsAndFocuses(t *testing.T) {
	c, _ := newTestController(t, 1, 1)
	c.ApplyAppAction(keys.ActionNewPane)
	assert.Equal(t, 2, c.PaneCount())
	assert.Equal(t, uint32(1), c.FocusedPane())
	assert.Equal(t, []uint32{2}, c.grid.RowCols)
}

func TestApplyGUIAction_ClosePaneIsNoopOnLastPane(t *testing.T) {
	c, _ := newTestController(t, 1, 1)
	c.ApplyAppAction(keys.ActionClosePane)
	assert.Equal(t, 1, c.PaneCount())
}

func TestApplyGUIAction_ClosePaneRemovesFocused(t *testing.T) {
	c, _ := newTestController(t, 1, 2)
	c.ApplyAppAction(keys.ActionClosePane)
	assert.Equal(t, 1, c.PaneCount())
}

func TestApplyAppAction_NavigateCyclesFocus(t *testing.T) {
	c, _ := newTestController(t, 1, 3)
	c.ApplyAppAction(keys.ActionNavigateRight)
	assert.Equal(t, uint32(1), c.FocusedPane())
	c.ApplyAppAction(keys.ActionNavigateRight)
	assert.Equal(t, uint32(2), c.FocusedPane())
	c.ApplyAppAction(keys.ActionNavigateRight)
	assert.Equal(t, uint32(0), c.FocusedPane())
	c.ApplyAppAction(keys.ActionNavigateLeft)
	assert.Equal(t, uint32(2), c.FocusedPane())
}

func TestApplyAppAction_JumpToPane(t *testing.T) {
	c, _ := newTestController(t, 1, 3)
	c.ApplyAppAction(keys.ActionJumpToPane3)
	assert.Equal(t, uint32(2), c.FocusedPane())
}

func TestApplyAppAction_BroadcastToggle(t *testing.T) {
	c, _ := newTestController(t, 1, 1)
	assert.False(t, c.BroadcastMode())
	c.ApplyAppAction(keys.ActionBroadcastToggle)
	assert.True(t, c.BroadcastMode())
}

func TestKeyEvent_AppBindingTakesPriorityOverForwarding(t *testing.T) {
	c, _ := newTestController(t, 1, 2)
	c.KeyEvent(keys.KeyEvent{Key: keys.KeyPrintable, Rune: 'n', Mods: keys.Modifiers{Ctrl: true, Shift: true}})
	assert.Equal(t, 3, c.PaneCount())
}

func TestKeyEvent_ForwardsToFocusedPane(t *testing.T) {
	c, backend := newTestController(t, 1, 1)
	c.KeyEvent(keys.KeyEvent{Key: keys.KeyPrintable, Rune: 'a'})
	assert.Equal(t, []byte("a"), backend.Spawned[0].Written())
}

func TestTextInput_BroadcastsToAllWhenEnabled(t *testing.T) {
	c, backend := newTestController(t, 1, 2)
	c.ApplyAppAction(keys.ActionBroadcastToggle)
	c.TextInput([]byte("hi"))
	assert.Equal(t, []byte("hi"), backend.Spawned[0].Written())
	assert.Equal(t, []byte("hi"), backend.Spawned[1].Written())
}

func TestTextInput_FocusedOnlyWhenBroadcastDisabled(t *testing.T) {
	c, backend := newTestController(t, 1, 2)
	c.TextInput([]byte("hi"))
	assert.Equal(t, []byte("hi"), backend.Spawned[0].Written())
	assert.Empty(t, backend.Spawned[1].Written())
}

func TestApply_SendCommandAppendsCR(t *testing.T) {
	c, backend := newTestController(t, 1, 1)
	c.Apply(action.NewSendCommand(0, "ls"))
	assert.Equal(t, []byte("ls\r"), backend.Spawned[0].Written())
}

func TestApply_SpawnPaneAddsColumn(t *testing.T) {
	c, _ := newTestController(t, 1, 1)
	c.Apply(action.SpawnPane{PaneType: "terminal", Title: "new"})
	assert.Equal(t, 2, c.PaneCount())
	assert.Equal(t, []uint32{2}, c.grid.RowCols)
}

func TestApply_ClosePaneRefusesLastPane(t *testing.T) {
	c, _ := newTestController(t, 1, 1)
	c.Apply(action.ClosePane{Pane: 0})
	assert.Equal(t, 1, c.PaneCount())
}

func TestApply_SwapPanesExchangesPlugins(t *testing.T) {
	c, _ := newTestController(t, 1, 2)
	p0, p1 := c.Pane(0), c.Pane(1)
	c.Apply(action.SwapPanes{A: 0, B: 1})
	assert.Equal(t, p1, c.Pane(0))
	assert.Equal(t, p0, c.Pane(1))
}

func TestApply_NotifySetsPendingNotification(t *testing.T) {
	c, _ := newTestController(t, 1, 1)
	c.Apply(action.NewNotify("t", "b"))
	n := c.PendingNotification()
	require.NotNil(t, n)
	assert.Equal(t, "t", n.Title)
	assert.Nil(t, c.PendingNotification())
}

func TestApply_ContextUsageSetsPendingSlot(t *testing.T) {
	c, _ := newTestController(t, 1, 1)
	c.Apply(action.NewContextUsage(10, 100, 10, "sess", false))
	u := c.PendingContextUsage()
	require.NotNil(t, u)
	assert.Equal(t, uint64(10), u.UsedTokens)
}

func TestExecuteLLMResponse_NoopWithoutPendingResponse(t *testing.T) {
	c, backend := newTestController(t, 1, 1)
	c.ExecuteLLMResponse()
	assert.Empty(t, backend.Spawned[0].Written())
}

func TestPollLLM_NoopWhenIdle(t *testing.T) {
	c, _ := newTestController(t, 1, 1)
	c.PollLLM()
	assert.Nil(t, c.LLM().Response())
}
