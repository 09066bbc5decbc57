// Package ptybackend abstracts PTY process spawning behind an interface,
// matching spec.md's "PTY syscalls and process spawning" out-of-scope
// boundary. The default implementation wraps github.com/creack/pty.
package ptybackend

import "io"

// Size is a PTY's character-cell dimensions.
type Size struct {
	Rows, Cols uint16
}

// Pty is a running pseudo-terminal. Reads/writes are expected to be set
// non-blocking by the backend that created it.
type Pty interface {
	io.ReadWriteCloser
	// Resize changes the PTY's window size.
	Resize(size Size) error
	// Pid returns the child process's PID.
	Pid() int
	// Exited reports whether the child process has already exited.
	Exited() bool
}

// Backend spawns PTYs. SpawnConfig.Command[0] is the executable.
type Backend interface {
	Spawn(cfg SpawnConfig) (Pty, error)
}

// SpawnConfig describes a process to start attached to a new PTY.
type SpawnConfig struct {
	Command []string
	Cwd     string
	Env     []string
	Size    Size
}
