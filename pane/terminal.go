package pane

import (
	"time"

	"github.com/kastheco/termania/ptybackend"
)

const (
	defaultRows = 24
	defaultCols = 80

	// initialCommandIdleThreshold is how long output must have been quiet
	// after the first byte before queued initial commands are sent —
	// gives the spawned shell/program time to finish its own startup
	// banner before we type at it.
	initialCommandIdleThreshold = time.Second
)

// Config configures a new TerminalPlugin.
type Config struct {
	Title           string
	Command         []string
	Cwd             string
	Env             []string
	InitialCommands []string
	Rows, Cols      int
}

// TerminalPlugin is the fully functional pane implementation: a PTY
// feeding a VT100 emulator.
type TerminalPlugin struct {
	title string
	pty   ptybackend.Pty
	emu   *emulator

	initialCommands     []string
	initialCommandsSent bool
	firstOutputAt       time.Time
	lastOutputTime      time.Time

	dirty     bool
	hasError  bool
	scrollOff int // lines scrolled up from the live bottom; 0 == at bottom
}

// NewTerminalPlugin spawns cfg.Command (or the backend's default shell)
// via backend and wraps it with an in-process VT100 emulator.
func NewTerminalPlugin(backend ptybackend.Backend, cfg Config) (*TerminalPlugin, error) {
	rows, cols := cfg.Rows, cfg.Cols
	if rows <= 0 {
		rows = defaultRows
	}
	if cols <= 0 {
		cols = defaultCols
	}

	p, err := backend.Spawn(ptybackend.SpawnConfig{
		Command: cfg.Command,
		Cwd:     cfg.Cwd,
		Env:     cfg.Env,
		Size:    ptybackend.Size{Rows: uint16(rows), Cols: uint16(cols)},
	})
	if err != nil {
		return nil, err
	}

	return &TerminalPlugin{
		title:           cfg.Title,
		pty:             p,
		emu:             newEmulator(rows, cols),
		initialCommands: cfg.InitialCommands,
	}, nil
}

func (t *TerminalPlugin) PaneType() string  { return "terminal" }
func (t *TerminalPlugin) Title() string     { return t.title }
func (t *TerminalPlugin) SetTitle(s string) { t.title = s }

// Poll drains all available PTY bytes non-blocking, feeding them to the
// emulator, and fires queued initial commands once the pane has been
// idle for initialCommandIdleThreshold after its first output.
func (t *TerminalPlugin) Poll() bool {
	if t.pty == nil {
		return false
	}

	read := false
	buf := make([]byte, 4096)
	for {
		n, err := t.pty.Read(buf)
		if n > 0 {
			read = true
			t.emu.Write(buf[:n])
			now := time.Now()
			if t.firstOutputAt.IsZero() {
				t.firstOutputAt = now
			}
			t.lastOutputTime = now
			t.dirty = true
		}
		if err != nil {
			if !ptybackend.IsWouldBlock(err) {
				t.hasError = true
			}
			break
		}
		if n == 0 {
			break
		}
	}

	if t.pty.Exited() {
		t.hasError = true
	}

	if len(t.initialCommands) > 0 && !t.initialCommandsSent &&
		!t.firstOutputAt.IsZero() &&
		time.Since(t.lastOutputTime) >= initialCommandIdleThreshold {
		for _, cmd := range t.initialCommands {
			_, _ = t.pty.Write([]byte(cmd + "\r"))
		}
		t.initialCommandsSent = true
	}

	return read
}

// WriteInput snaps the view back to the live bottom (if scrolled) before
// writing to the PTY. PTY write errors are discarded, matching spec §4.C.
func (t *TerminalPlugin) WriteInput(b []byte) {
	if t.scrollOff != 0 {
		t.scrollOff = 0
	}
	if t.pty == nil {
		return
	}
	_, _ = t.pty.Write(b)
}

func (t *TerminalPlugin) RenderData() RenderData {
	row, col := t.emu.Cursor()
	cursorRow, cursorCol := uint32(row), uint32(col)
	if t.scrollOff != 0 {
		cursorRow, cursorCol = NoCursor, NoCursor
	}
	// Watermark is not stored on the plugin and stays empty here: it lives
	// in the controller's overlay.WatermarkMap (spec §3), which the ABI
	// reads separately through termania_pane_watermark.
	return RenderData{
		Cells:     t.emu.CellsSnapshot(),
		Rows:      t.emu.rows,
		Cols:      t.emu.cols,
		CursorRow: cursorRow,
		CursorCol: cursorCol,
	}
}

func (t *TerminalPlugin) VisibleText(buf []string, maxLines int) int {
	lines := t.emu.VisibleLines(maxLines)
	n := copy(buf, lines)
	return n
}

func (t *TerminalPlugin) HasError() bool { return t.hasError }
func (t *TerminalPlugin) IsDirty() bool  { return t.dirty }
func (t *TerminalPlugin) ClearDirty()    { t.dirty = false }

// Resize changes both the PTY's window size and the emulator's cell
// grid. A PTY resize error only sets hasError — the emulator still
// reflects the new dimensions so rendering stays consistent.
func (t *TerminalPlugin) Resize(rows, cols int) {
	if rows <= 0 || cols <= 0 {
		return
	}
	if t.pty != nil {
		if err := t.pty.Resize(ptybackend.Size{Rows: uint16(rows), Cols: uint16(cols)}); err != nil {
			t.hasError = true
		}
	}
	t.emu.Resize(rows, cols)
}

func (t *TerminalPlugin) ScrollUp(lines int) {
	t.scrollOff += lines
}

func (t *TerminalPlugin) ScrollDown(lines int) {
	t.scrollOff -= lines
	if t.scrollOff < 0 {
		t.scrollOff = 0
	}
}

func (t *TerminalPlugin) IsExited() bool {
	if t.pty == nil {
		return true
	}
	return t.pty.Exited()
}

func (t *TerminalPlugin) ChildPID() int {
	if t.pty == nil {
		return 0
	}
	return t.pty.Pid()
}

func (t *TerminalPlugin) Dispose() {
	if t.pty != nil {
		_ = t.pty.Close()
	}
}
