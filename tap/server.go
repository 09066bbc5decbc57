// Package tap implements the Text Tap: a non-blocking Unix-domain socket
// server speaking a newline-framed JSON request/response protocol, plus the
// broadcast path the controller uses to push pane output and status to
// subscribed clients.
package tap

import (
	"bytes"
	"net"
	"os"
	"sync"
	"time"

	"github.com/kastheco/termania/action"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	maxClientBuffer = 4096
	acceptBacklog   = 8
)

// Server is the Text Tap listener. It owns no goroutines: Poll is called
// once per controller tick and must never block the caller.
type Server struct {
	socketPath string

	mu      sync.Mutex
	ln      *net.UnixListener
	running bool
	clients []*client
	queue   []action.Action

	paneCount PaneCounter
}

type client struct {
	conn       *net.UnixConn
	buf        []byte
	subscribed bool
}

// NewServer returns a Server bound to socketPath once Start is called.
func NewServer(socketPath string) *Server {
	return &Server{socketPath: socketPath}
}

// Start removes any stale socket file, binds, and begins listening.
// Calling Start on an already-running server is a no-op.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}

	_ = os.Remove(s.socketPath)

	addr, err := net.ResolveUnixAddr("unix", s.socketPath)
	if err != nil {
		return err
	}
	ln, err := net.ListenUnix("unix", addr)
	if err != nil {
		return err
	}
	ln.SetUnlinkOnClose(true)

	s.ln = ln
	s.running = true
	return nil
}

// Stop closes every client connection, closes the listener (removing the
// socket file), and marks the server not-running. Safe to call when not
// running.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	for _, c := range s.clients {
		if c.subscribed {
			s.writeLine(c, `{"type":"server_shutdown"}`)
		}
		_ = c.conn.Close()
	}
	s.clients = nil
	if s.ln != nil {
		_ = s.ln.Close()
		s.ln = nil
	}
	s.running = false
}

// Running reports whether the server is currently listening.
func (s *Server) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Poll accepts any pending connections and drains readable bytes from
// every client, appending parsed requests' resulting actions to the
// internal queue. It never blocks: accept and read both use an
// immediately-expired deadline to get non-blocking semantics from the
// standard net package.
func (s *Server) Poll() {
	s.mu.Lock()
	ln := s.ln
	running := s.running
	s.mu.Unlock()
	if !running || ln == nil {
		return
	}

	for {
		_ = ln.SetDeadline(time.Now())
		conn, err := ln.AcceptUnix()
		if err != nil {
			break
		}
		_ = conn.SetDeadline(time.Time{})
		s.mu.Lock()
		s.clients = append(s.clients, &client{conn: conn})
		s.mu.Unlock()
	}

	s.mu.Lock()
	clients := append([]*client(nil), s.clients...)
	s.mu.Unlock()

	var dead []*client
	buf := make([]byte, 4096)
	for i := len(clients) - 1; i >= 0; i-- {
		c := clients[i]
		for {
			_ = c.conn.SetReadDeadline(time.Now())
			n, err := c.conn.Read(buf)
			if n > 0 {
				s.feed(c, buf[:n])
			}
			if err != nil {
				if isWouldBlock(err) {
					break
				}
				dead = append(dead, c)
				break
			}
			if n == 0 {
				break
			}
		}
	}

	if len(dead) > 0 {
		s.mu.Lock()
		for _, d := range dead {
			_ = d.conn.Close()
			s.removeClientLocked(d)
		}
		s.mu.Unlock()
	}
}

func (s *Server) removeClientLocked(target *client) {
	for i, c := range s.clients {
		if c == target {
			s.clients = append(s.clients[:i], s.clients[i+1:]...)
			return
		}
	}
}

// feed appends newly-read bytes to c's line buffer and processes every
// complete line. A buffer that fills without a newline is discarded and
// reset — a malformed client cannot starve others.
func (s *Server) feed(c *client, b []byte) {
	c.buf = append(c.buf, b...)
	for {
		idx := bytes.IndexByte(c.buf, '\n')
		if idx < 0 {
			break
		}
		line := bytes.TrimSpace(c.buf[:idx])
		c.buf = append([]byte(nil), c.buf[idx+1:]...)
		if len(line) > 0 {
			s.handleLine(c, line)
		}
	}
	if len(c.buf) > maxClientBuffer {
		c.buf = c.buf[:0]
	}
}

// handleLine parses one complete request line and writes a reply,
// enqueueing any resulting Action for the controller to drain.
func (s *Server) handleLine(c *client, line []byte) {
	root := gjson.ParseBytes(line)
	if !root.Exists() || !root.IsObject() {
		s.writeLine(c, replyError("unknown command"))
		return
	}

	typ := root.Get("type").String()
	switch typ {
	case "subscribe":
		c.subscribed = true
		s.writeLine(c, replyStatus("subscribed"))

	case "unsubscribe":
		c.subscribed = false
		s.writeLine(c, replyStatus("unsubscribed"))

	case "list_panes":
		s.writeLine(c, replyPaneCount(s.paneCounter()))

	case "read_pane":
		pane := root.Get("pane").Uint()
		s.writeLine(c, replyReadPaneQueued(uint32(pane)))

	case "send":
		pane := uint32(root.Get("pane").Uint())
		text := root.Get("text").String()
		s.enqueue(action.NewRawSend(action.PaneTarget(pane), text))
		s.writeLine(c, replyStatus("queued"))

	case "send_all":
		text := root.Get("text").String()
		s.enqueue(action.NewRawSend(action.AllTarget(), text))
		s.writeLine(c, replyStatus("queued"))

	case "action":
		if a, ok := buildDispatchedAction(root); ok {
			s.enqueue(a)
			s.writeLine(c, replyStatus("queued"))
		} else {
			s.writeLine(c, replyError("unknown command"))
		}

	case "context_update":
		s.enqueue(buildContextUsage(root.Get("payload")))
		s.writeLine(c, replyStatus("queued"))

	default:
		s.writeLine(c, replyError("unknown command"))
	}
}

// PaneCounter is set by the controller so list_panes can answer without
// tap importing the controller package.
type PaneCounter func() int

func (s *Server) paneCounter() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paneCount == nil {
		return 0
	}
	return s.paneCount()
}

// SetPaneCounter registers the callback Poll uses to answer list_panes.
func (s *Server) SetPaneCounter(f PaneCounter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paneCount = f
}

func (s *Server) writeLine(c *client, line string) {
	_ = c.conn.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
	_, _ = c.conn.Write([]byte(line + "\n"))
}

func (s *Server) enqueue(a action.Action) {
	s.mu.Lock()
	s.queue = append(s.queue, a)
	s.mu.Unlock()
}

// DrainActions returns and clears the queued actions accumulated by Poll,
// in insertion order.
func (s *Server) DrainActions() []action.Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.queue
	s.queue = nil
	return out
}

// Broadcast writes bytes verbatim to every subscribed client. Write errors
// are swallowed; the broadcast is advisory.
func (s *Server) Broadcast(b []byte) {
	s.mu.Lock()
	clients := append([]*client(nil), s.clients...)
	s.mu.Unlock()
	for _, c := range clients {
		if !c.subscribed {
			continue
		}
		_ = c.conn.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
		_, _ = c.conn.Write(b)
	}
}

// BroadcastPaneContent sends a pane_output frame to every subscribed
// client.
func (s *Server) BroadcastPaneContent(pane uint32, content string) {
	s.Broadcast(paneOutputFrame(pane, content))
}

func replyStatus(status string) string {
	out, _ := sjson.Set("{}", "status", status)
	return out
}

func replyError(msg string) string {
	out, _ := sjson.Set("{}", "error", msg)
	return out
}

func replyPaneCount(n int) string {
	out, _ := sjson.Set("{}", "pane_count", n)
	return out
}

func replyReadPaneQueued(pane uint32) string {
	out, _ := sjson.Set("{}", "status", "read_pane_queued")
	out, _ = sjson.Set(out, "pane", pane)
	return out
}

func isWouldBlock(err error) bool {
	if ne, ok := err.(net.Error); ok {
		return ne.Timeout()
	}
	return false
}
