// Package pane implements the polymorphic pane capability set: a
// TerminalPlugin backed by a PTY and a VT100 emulator, and nine trivial
// stub plugins for the other pane types the GUI frontend can render.
package pane

// NoCursor is the sentinel cursor position reported when the view has
// scrolled away from the live bottom of the terminal.
const NoCursor = ^uint32(0) // math.MaxUint32

// Cell is one character cell in a terminal's rendered grid.
type Cell struct {
	Rune       rune
	Fg, Bg     uint32
	Bold       bool
	Italic     bool
	Underline  bool
}

// RenderData is the structured snapshot a GUI frontend paints from.
type RenderData struct {
	Cells              []Cell // row-major, len == Rows*Cols
	Rows, Cols         int
	CursorRow, CursorCol uint32 // NoCursor sentinel when scrolled away
	Watermark          string
}

// Plugin is the capability set every pane implementation satisfies. No
// method may suspend — the controller's poll loop depends on that.
type Plugin interface {
	// PaneType is the plugin's discriminator string, e.g. "terminal".
	PaneType() string

	// Title returns the pane's current display title.
	Title() string
	// SetTitle updates the pane's display title.
	SetTitle(title string)

	// Poll drains any pending work (e.g. PTY bytes) and returns true iff
	// it produced new output this call.
	Poll() bool

	// WriteInput sends bytes to the pane's input sink (PTY stdin for a
	// terminal, a no-op for stubs).
	WriteInput(b []byte)

	// RenderData returns a snapshot for the frontend to paint.
	RenderData() RenderData

	// VisibleText copies up to the last maxLines lines of visible text
	// into buf, starting at buf[0], and returns the number of lines copied.
	VisibleText(buf []string, maxLines int) int

	HasError() bool
	IsDirty() bool
	ClearDirty()

	ScrollUp(lines int)
	ScrollDown(lines int)

	// Resize changes the pane's logical cell dimensions. A no-op for
	// pane types that don't have a cell grid.
	Resize(rows, cols int)

	IsExited() bool
	// ChildPID returns the plugin's child process id, or 0 if none.
	ChildPID() int

	Dispose()
}
