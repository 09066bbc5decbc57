package ptybackend

import (
	"bytes"
	"errors"
	"sync"
)

// Fake is an in-memory Backend for tests that never spawns a real
// process. Each Spawn call returns a FakePty the test can feed bytes
// into and read writes from.
type Fake struct {
	mu      sync.Mutex
	Spawned []*FakePty
}

func NewFake() *Fake { return &Fake{} }

func (f *Fake) Spawn(cfg SpawnConfig) (Pty, error) {
	p := &FakePty{size: cfg.Size}
	f.mu.Lock()
	f.Spawned = append(f.Spawned, p)
	f.mu.Unlock()
	return p, nil
}

// FakePty is a Pty double: Feed() simulates PTY output, Written()
// inspects what the pane wrote to the PTY's stdin.
type FakePty struct {
	mu      sync.Mutex
	out     bytes.Buffer // bytes the fake process "produced", drained by Read
	written bytes.Buffer // bytes written to the pty (pane input)
	closed  bool
	exited  bool
	size    Size
}

var errClosed = errors.New("ptybackend: fake pty closed")

func (p *FakePty) Feed(b []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.out.Write(b)
}

func (p *FakePty) Written() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]byte(nil), p.written.Bytes()...)
}

func (p *FakePty) SetExited(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.exited = v
}

func (p *FakePty) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.out.Len() == 0 {
		if p.closed {
			return 0, errClosed
		}
		return 0, errWouldBlock
	}
	return p.out.Read(b)
}

func (p *FakePty) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, errClosed
	}
	return p.written.Write(b)
}

func (p *FakePty) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *FakePty) Resize(size Size) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.size = size
	return nil
}

func (p *FakePty) Pid() int { return 1 }

func (p *FakePty) Exited() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exited
}
