package ptybackend

import (
	"os"
	"os/exec"
	"sync"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"
)

// Creack is the production Backend, spawning real PTYs via
// github.com/creack/pty and switching the master side to non-blocking
// mode so the controller's single-threaded poll loop never stalls on a
// read (spec §5: "every I/O call is non-blocking").
type Creack struct{}

// NewCreack returns the default PTY backend.
func NewCreack() *Creack { return &Creack{} }

func (Creack) Spawn(cfg SpawnConfig) (Pty, error) {
	if len(cfg.Command) == 0 {
		cfg.Command = []string{defaultShell()}
	}

	c := exec.Command(cfg.Command[0], cfg.Command[1:]...)
	if cfg.Cwd != "" {
		c.Dir = cfg.Cwd
	}
	if len(cfg.Env) > 0 {
		c.Env = cfg.Env
	}

	winsize := &pty.Winsize{
		Rows: cfg.Size.Rows,
		Cols: cfg.Size.Cols,
	}
	if winsize.Rows == 0 {
		winsize.Rows = 24
	}
	if winsize.Cols == 0 {
		winsize.Cols = 80
	}

	f, err := pty.StartWithSize(c, winsize)
	if err != nil {
		return nil, err
	}
	if err := unix.SetNonblock(int(f.Fd()), true); err != nil {
		_ = f.Close()
		return nil, err
	}

	return &creackPty{file: f, cmd: c}, nil
}

func defaultShell() string {
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	return "/bin/sh"
}

type creackPty struct {
	file *os.File
	cmd  *exec.Cmd

	mu     sync.Mutex
	exited bool
}

func (p *creackPty) Read(b []byte) (int, error)  { return p.file.Read(b) }
func (p *creackPty) Write(b []byte) (int, error) { return p.file.Write(b) }

func (p *creackPty) Close() error {
	_ = p.file.Close()
	if p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
	return nil
}

func (p *creackPty) Resize(size Size) error {
	return pty.Setsize(p.file, &pty.Winsize{Rows: size.Rows, Cols: size.Cols})
}

func (p *creackPty) Pid() int {
	if p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}

func (p *creackPty) Exited() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.exited {
		return true
	}
	if p.cmd.ProcessState != nil {
		p.exited = true
		return true
	}
	// Non-blocking reap: WNOHANG returns the child's pid once it has
	// exited (ECHILD if it is already reaped) without blocking a poll tick.
	if p.cmd.Process != nil {
		var ws unix.WaitStatus
		pid, err := unix.Wait4(p.cmd.Process.Pid, &ws, unix.WNOHANG, nil)
		if pid == p.cmd.Process.Pid || err == unix.ECHILD {
			p.exited = true
			return true
		}
	}
	return false
}
