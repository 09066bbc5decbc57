package tap

import (
	"bufio"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/kastheco/termania/action"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	sockPath := filepath.Join(t.TempDir(), "termania.sock")
	s := NewServer(sockPath)
	require.NoError(t, s.Start())
	t.Cleanup(s.Stop)
	return s, sockPath
}

func dial(t *testing.T, sockPath string) net.Conn {
	t.Helper()
	conn, err := net.Dial("unix", sockPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func pollUntil(s *Server, iterations int) {
	for i := 0; i < iterations; i++ {
		s.Poll()
		time.Sleep(5 * time.Millisecond)
	}
}

func TestServer_StartStopIdempotent(t *testing.T) {
	s, _ := newTestServer(t)
	assert.True(t, s.Running())
	require.NoError(t, s.Start()) // double-start is a no-op
	s.Stop()
	assert.False(t, s.Running())
	s.Stop() // double-stop is a no-op
}

func TestServer_SubscribeUnsubscribe(t *testing.T) {
	s, sockPath := newTestServer(t)
	conn := dial(t, sockPath)
	r := bufio.NewReader(conn)

	_, err := conn.Write([]byte(`{"type":"subscribe"}` + "\n"))
	require.NoError(t, err)
	pollUntil(s, 5)

	line, err := r.ReadString('\n')
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"subscribed"}`, line)

	_, err = conn.Write([]byte(`{"type":"unsubscribe"}` + "\n"))
	require.NoError(t, err)
	pollUntil(s, 5)

	line, err = r.ReadString('\n')
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"unsubscribed"}`, line)
}

func TestServer_ListPanes(t *testing.T) {
	s, sockPath := newTestServer(t)
	s.SetPaneCounter(func() int { return 3 })
	conn := dial(t, sockPath)
	r := bufio.NewReader(conn)

	_, err := conn.Write([]byte(`{"type":"list_panes"}` + "\n"))
	require.NoError(t, err)
	pollUntil(s, 5)

	line, err := r.ReadString('\n')
	require.NoError(t, err)
	assert.JSONEq(t, `{"pane_count":3}`, line)
}

func TestServer_SendEnqueuesRawSend(t *testing.T) {
	s, sockPath := newTestServer(t)
	conn := dial(t, sockPath)
	r := bufio.NewReader(conn)

	_, err := conn.Write([]byte(`{"type":"send","pane":2,"text":"ls\n"}` + "\n"))
	require.NoError(t, err)
	pollUntil(s, 5)

	line, err := r.ReadString('\n')
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"queued"}`, line)

	actions := s.DrainActions()
	require.Len(t, actions, 1)
	raw, ok := actions[0].(action.RawSend)
	require.True(t, ok)
	assert.Equal(t, uint32(2), raw.TargetSpec.Pane)
	assert.False(t, raw.TargetSpec.All)
	assert.Equal(t, "ls\n", raw.Bytes)
}

func TestServer_SendAllEnqueuesBroadcastTarget(t *testing.T) {
	s, sockPath := newTestServer(t)
	conn := dial(t, sockPath)
	_, err := conn.Write([]byte(`{"type":"send_all","text":"hi"}` + "\n"))
	require.NoError(t, err)
	pollUntil(s, 5)

	actions := s.DrainActions()
	require.Len(t, actions, 1)
	raw := actions[0].(action.RawSend)
	assert.True(t, raw.TargetSpec.All)
}

func TestServer_ActionMessage(t *testing.T) {
	s, sockPath := newTestServer(t)
	conn := dial(t, sockPath)
	_, err := conn.Write([]byte(`{"type":"action","action":"message","text":"hello"}` + "\n"))
	require.NoError(t, err)
	pollUntil(s, 5)

	actions := s.DrainActions()
	require.Len(t, actions, 1)
	msg := actions[0].(action.Message)
	assert.Equal(t, "hello", msg.Text)
}

func TestServer_UnknownCommand(t *testing.T) {
	s, sockPath := newTestServer(t)
	conn := dial(t, sockPath)
	r := bufio.NewReader(conn)

	_, err := conn.Write([]byte(`{"type":"bogus"}` + "\n"))
	require.NoError(t, err)
	pollUntil(s, 5)

	line, err := r.ReadString('\n')
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"unknown command"}`, line)
}

func TestServer_ContextUpdate(t *testing.T) {
	s, sockPath := newTestServer(t)
	conn := dial(t, sockPath)
	payload := `{"type":"context_update","payload":{"context_window":{"used":100,"total":200,"used_percentage":150},"session_id":"abc","hook_type":"PreCompact"}}`
	_, err := conn.Write([]byte(payload + "\n"))
	require.NoError(t, err)
	pollUntil(s, 5)

	actions := s.DrainActions()
	require.Len(t, actions, 1)
	cu := actions[0].(action.ContextUsage)
	assert.Equal(t, uint64(100), cu.UsedTokens)
	assert.Equal(t, uint64(200), cu.TotalTokens)
	assert.Equal(t, uint8(100), cu.Percentage) // clamped
	assert.Equal(t, "abc", cu.SessionID)
	assert.True(t, cu.IsPreCompact)
}

func TestServer_BroadcastOnlyReachesSubscribers(t *testing.T) {
	s, sockPath := newTestServer(t)

	subConn := dial(t, sockPath)
	subReader := bufio.NewReader(subConn)
	_, err := subConn.Write([]byte(`{"type":"subscribe"}` + "\n"))
	require.NoError(t, err)
	pollUntil(s, 5)
	_, err = subReader.ReadString('\n') // ack
	require.NoError(t, err)

	unsubConn := dial(t, sockPath)
	unsubReader := bufio.NewReader(unsubConn)
	pollUntil(s, 5)

	s.BroadcastPaneContent(0, "hi\nthere")
	pollUntil(s, 2)

	line, err := subReader.ReadString('\n')
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"pane_output","pane":0,"content":"hi\nthere"}`, line)

	_ = unsubConn.SetReadDeadline(time.Now().Add(50 * time.Millisecond))
	_, err = unsubReader.ReadString('\n')
	assert.Error(t, err) // unsubscribed client got nothing
}

func TestServer_MalformedOverflowBufferIsDiscarded(t *testing.T) {
	s, sockPath := newTestServer(t)
	conn := dial(t, sockPath)

	junk := make([]byte, maxClientBuffer+100)
	for i := range junk {
		junk[i] = 'x'
	}
	_, err := conn.Write(junk)
	require.NoError(t, err)
	pollUntil(s, 5)

	// Server should still be alive and able to answer a fresh line after
	// the overflowed buffer was discarded and reset.
	_, err = conn.Write([]byte("\n" + `{"type":"list_panes"}` + "\n"))
	require.NoError(t, err)
	pollUntil(s, 5)

	r := bufio.NewReader(conn)
	_ = conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	line, err := r.ReadString('\n')
	require.NoError(t, err)
	assert.JSONEq(t, `{"pane_count":0}`, line)
}

func TestServer_ClientEOFIsRemoved(t *testing.T) {
	s, sockPath := newTestServer(t)
	conn := dial(t, sockPath)
	_, err := conn.Write([]byte(`{"type":"subscribe"}` + "\n"))
	require.NoError(t, err)
	pollUntil(s, 5)

	_ = conn.Close()
	pollUntil(s, 5)

	s.mu.Lock()
	n := len(s.clients)
	s.mu.Unlock()
	assert.Equal(t, 0, n)
}
