package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseActions_SendCommand(t *testing.T) {
	resp, err := ParseActions(`{"explanation":"list","actions":[{"type":"send_command","pane":0,"command":"ls -la"}]}`)
	require.NoError(t, err)
	assert.Equal(t, "list", resp.Explanation)
	require.Len(t, resp.Actions, 1)
	sc, ok := resp.Actions[0].(SendCommand)
	require.True(t, ok)
	assert.Equal(t, uint32(0), sc.Pane)
	assert.Equal(t, "ls -la", sc.Command)
}

func TestParseActions_UnknownActionSkipped(t *testing.T) {
	resp, err := ParseActions(`{"actions":[{"type":"frobnicate","x":1},{"type":"message","text":"hi"}]}`)
	require.NoError(t, err)
	require.Len(t, resp.Actions, 1)
	msg, ok := resp.Actions[0].(Message)
	require.True(t, ok)
	assert.Equal(t, "hi", msg.Text)
}

func TestParseActions_MissingRequiredFieldSkipped(t *testing.T) {
	resp, err := ParseActions(`{"actions":[{"type":"send_command","pane":0}]}`)
	require.NoError(t, err)
	assert.Empty(t, resp.Actions)
}

func TestParseActions_NoActionsField(t *testing.T) {
	_, err := ParseActions(`{"explanation":"x"}`)
	assert.ErrorIs(t, err, ErrNoActionsField)
}

func TestParseActions_ActionsNotArray(t *testing.T) {
	_, err := ParseActions(`{"actions":"nope"}`)
	assert.ErrorIs(t, err, ErrInvalidActions)
}

func TestParseActions_RootNotObject(t *testing.T) {
	_, err := ParseActions(`[1,2,3]`)
	assert.ErrorIs(t, err, ErrNotObject)
}

func TestParseActions_ContextUsage(t *testing.T) {
	resp, err := ParseActions(`{"actions":[{"type":"context_usage","used_tokens":100000,"total_tokens":200000,"percentage":150,"session_id":"abc","is_pre_compact":true}]}`)
	require.NoError(t, err)
	require.Len(t, resp.Actions, 1)
	cu, ok := resp.Actions[0].(ContextUsage)
	require.True(t, ok)
	assert.Equal(t, uint64(100000), cu.UsedTokens)
	assert.Equal(t, uint64(200000), cu.TotalTokens)
	assert.Equal(t, uint8(100), cu.Percentage) // clamped
	assert.Equal(t, "abc", cu.SessionID)
	assert.True(t, cu.IsPreCompact)
}

func TestParseActions_NegativeNumberTreatedAsMissing(t *testing.T) {
	resp, err := ParseActions(`{"actions":[{"type":"close_pane","pane":-1}]}`)
	require.NoError(t, err)
	assert.Empty(t, resp.Actions)
}

func TestParseActions_SpawnPaneDefaultsTerminal(t *testing.T) {
	resp, err := ParseActions(`{"actions":[{"type":"spawn_pane"}]}`)
	require.NoError(t, err)
	require.Len(t, resp.Actions, 1)
	sp, ok := resp.Actions[0].(SpawnPane)
	require.True(t, ok)
	assert.Equal(t, "terminal", sp.PaneType)
}

func TestFormatForDisplay_Deterministic(t *testing.T) {
	resp, err := ParseActions(`{"actions":[{"type":"send_command","pane":1,"command":"echo hi"},{"type":"notify","title":"A","body":"B"}]}`)
	require.NoError(t, err)
	var lines []string
	for _, a := range resp.Actions {
		lines = append(lines, FormatForDisplay(a))
	}
	assert.Equal(t, []string{
		"  [pane 1] $ echo hi",
		"  notify: A — B",
	}, lines)
}
