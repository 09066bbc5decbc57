package ptybackend

import (
	"errors"
	"syscall"
)

// errWouldBlock is returned by FakePty.Read when no simulated output is
// pending, mirroring the real non-blocking read's EAGAIN/EWOULDBLOCK.
var errWouldBlock = errors.New("ptybackend: would block")

// IsWouldBlock reports whether err is the non-blocking "no data yet"
// condition a TerminalPlugin.Poll should treat as "nothing to drain this
// tick" rather than a fatal PTY error.
func IsWouldBlock(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, errWouldBlock) {
		return true
	}
	return errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.EWOULDBLOCK)
}
