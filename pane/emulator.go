package pane

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// emulator is a minimal VT100/ANSI cell-grid terminal emulator. It
// understands cursor movement, line feeds/carriage returns, basic SGR
// color/attribute sequences, erase-in-line/display, and bracketed
// scrolling-region-free scrollback. It does not aim for full xterm
// fidelity (no DEC private modes, no OSC title parsing beyond the common
// `ESC ] 0 ; title BEL` form) — enough to drive RenderData and the
// last-K-lines snapshot the LLM prompt needs.
type emulator struct {
	rows, cols int
	grid       [][]Cell
	cursorRow  int
	cursorCol  int

	curFg, curBg               uint32
	bold, italic, underline    bool

	scrollback [][]Cell
	maxScroll  int

	title string

	parser parserState
}

type parserState struct {
	inEscape bool
	inCSI    bool
	inOSC    bool
	params   []byte
	oscBuf   []byte
}

func newEmulator(rows, cols int) *emulator {
	e := &emulator{rows: rows, cols: cols, maxScroll: 2000}
	e.grid = makeGrid(rows, cols)
	return e
}

func makeGrid(rows, cols int) [][]Cell {
	g := make([][]Cell, rows)
	for i := range g {
		g[i] = make([]Cell, cols)
		for j := range g[i] {
			g[i][j] = Cell{Rune: ' '}
		}
	}
	return g
}

func (e *emulator) Resize(rows, cols int) {
	if rows == e.rows && cols == e.cols {
		return
	}
	ng := makeGrid(rows, cols)
	for r := 0; r < rows && r < e.rows; r++ {
		copy(ng[r], e.grid[r])
	}
	e.grid = ng
	e.rows, e.cols = rows, cols
	if e.cursorRow >= rows {
		e.cursorRow = rows - 1
	}
	if e.cursorCol >= cols {
		e.cursorCol = cols - 1
	}
}

func (e *emulator) Title() string { return e.title }

// Cursor returns the live cursor position.
func (e *emulator) Cursor() (row, col int) { return e.cursorRow, e.cursorCol }

// CellsSnapshot flattens the visible grid row-major.
func (e *emulator) CellsSnapshot() []Cell {
	out := make([]Cell, 0, e.rows*e.cols)
	for _, row := range e.grid {
		out = append(out, row...)
	}
	return out
}

// VisibleLines returns up to maxLines of rendered text, most recent last,
// pulling from scrollback when the live grid alone isn't enough.
func (e *emulator) VisibleLines(maxLines int) []string {
	var all []string
	for _, row := range e.scrollback {
		all = append(all, rowText(row))
	}
	for _, row := range e.grid {
		all = append(all, rowText(row))
	}
	if len(all) > maxLines {
		all = all[len(all)-maxLines:]
	}
	return all
}

func rowText(row []Cell) string {
	runes := make([]rune, 0, len(row))
	last := -1
	for i, c := range row {
		r := c.Rune
		if r == 0 {
			r = ' '
		}
		runes = append(runes, r)
		if r != ' ' {
			last = i
		}
	}
	return string(runes[:last+1])
}

// Write feeds raw PTY output through the parser, updating the grid.
func (e *emulator) Write(p []byte) {
	for i := 0; i < len(p); i++ {
		b := p[i]
		switch {
		case e.parser.inOSC:
			e.feedOSC(b)
		case e.parser.inCSI:
			e.feedCSI(b)
		case e.parser.inEscape:
			e.feedEscape(b)
		case b == 0x1B:
			e.parser.inEscape = true
		case b == '\r':
			e.cursorCol = 0
		case b == '\n':
			e.lineFeed()
		case b == '\b':
			if e.cursorCol > 0 {
				e.cursorCol--
			}
		case b == '\t':
			e.cursorCol = (e.cursorCol/8 + 1) * 8
			if e.cursorCol >= e.cols {
				e.cursorCol = e.cols - 1
			}
		case b >= 0x20:
			r, size := rune(b), 1
			if b >= utf8.RuneSelf {
				r, size = utf8.DecodeRune(p[i:])
			}
			e.putRune(r)
			i += size - 1
		}
	}
}

// putRune places one rune already decoded from UTF-8 by Write; kept
// separate from Write's byte-oriented control parsing so wide runes are
// measured once via go-runewidth instead of per raw byte.
func (e *emulator) putRune(r rune) {
	w := runewidth.RuneWidth(r)
	if w < 1 {
		w = 1
	}
	if e.cursorCol+w > e.cols {
		e.lineFeed()
		e.cursorCol = 0
	}
	e.grid[e.cursorRow][e.cursorCol] = Cell{
		Rune: r, Fg: e.curFg, Bg: e.curBg,
		Bold: e.bold, Italic: e.italic, Underline: e.underline,
	}
	e.cursorCol += w
	if e.cursorCol >= e.cols {
		e.cursorCol = e.cols - 1
	}
}

func (e *emulator) lineFeed() {
	if e.cursorRow == e.rows-1 {
		e.scrollback = append(e.scrollback, e.grid[0])
		if len(e.scrollback) > e.maxScroll {
			e.scrollback = e.scrollback[len(e.scrollback)-e.maxScroll:]
		}
		copy(e.grid, e.grid[1:])
		e.grid[e.rows-1] = make([]Cell, e.cols)
		for j := range e.grid[e.rows-1] {
			e.grid[e.rows-1][j] = Cell{Rune: ' '}
		}
		return
	}
	e.cursorRow++
}

func (e *emulator) feedEscape(b byte) {
	e.parser.inEscape = false
	switch b {
	case '[':
		e.parser.inCSI = true
		e.parser.params = e.parser.params[:0]
	case ']':
		e.parser.inOSC = true
		e.parser.oscBuf = e.parser.oscBuf[:0]
	default:
		// Unsupported single-char escape: ignored.
	}
}

func (e *emulator) feedOSC(b byte) {
	if b == 0x07 || b == 0x1B {
		e.applyOSC(string(e.parser.oscBuf))
		e.parser.inOSC = false
		return
	}
	e.parser.oscBuf = append(e.parser.oscBuf, b)
}

func (e *emulator) applyOSC(body string) {
	// "0;<title>" or "2;<title>" sets the window/tab title.
	if len(body) > 2 && (body[0] == '0' || body[0] == '2') && body[1] == ';' {
		e.title = body[2:]
	}
}

func (e *emulator) feedCSI(b byte) {
	if b >= '0' && b <= '9' || b == ';' {
		e.parser.params = append(e.parser.params, b)
		return
	}
	e.parser.inCSI = false
	params := splitParams(e.parser.params)
	switch b {
	case 'A':
		e.cursorRow = clampNonNeg(e.cursorRow - paramOr(params, 0, 1))
	case 'B':
		e.cursorRow = clampMax(e.cursorRow+paramOr(params, 0, 1), e.rows-1)
	case 'C':
		e.cursorCol = clampMax(e.cursorCol+paramOr(params, 0, 1), e.cols-1)
	case 'D':
		e.cursorCol = clampNonNeg(e.cursorCol - paramOr(params, 0, 1))
	case 'H', 'f':
		row := paramOr(params, 0, 1) - 1
		col := paramOr(params, 1, 1) - 1
		e.cursorRow = clamp(row, 0, e.rows-1)
		e.cursorCol = clamp(col, 0, e.cols-1)
	case 'J':
		e.eraseDisplay(paramOr(params, 0, 0))
	case 'K':
		e.eraseLine(paramOr(params, 0, 0))
	case 'm':
		e.applySGR(params)
	}
}

func (e *emulator) eraseLine(mode int) {
	row := e.grid[e.cursorRow]
	switch mode {
	case 0:
		for c := e.cursorCol; c < e.cols; c++ {
			row[c] = Cell{Rune: ' '}
		}
	case 1:
		for c := 0; c <= e.cursorCol && c < e.cols; c++ {
			row[c] = Cell{Rune: ' '}
		}
	case 2:
		for c := range row {
			row[c] = Cell{Rune: ' '}
		}
	}
}

func (e *emulator) eraseDisplay(mode int) {
	switch mode {
	case 0:
		e.eraseLine(0)
		for r := e.cursorRow + 1; r < e.rows; r++ {
			for c := range e.grid[r] {
				e.grid[r][c] = Cell{Rune: ' '}
			}
		}
	case 1:
		e.eraseLine(1)
		for r := 0; r < e.cursorRow; r++ {
			for c := range e.grid[r] {
				e.grid[r][c] = Cell{Rune: ' '}
			}
		}
	case 2, 3:
		e.grid = makeGrid(e.rows, e.cols)
	}
}

func (e *emulator) applySGR(params []int) {
	if len(params) == 0 {
		params = []int{0}
	}
	for _, p := range params {
		switch {
		case p == 0:
			e.curFg, e.curBg, e.bold, e.italic, e.underline = 0, 0, false, false, false
		case p == 1:
			e.bold = true
		case p == 3:
			e.italic = true
		case p == 4:
			e.underline = true
		case p == 22:
			e.bold = false
		case p == 23:
			e.italic = false
		case p == 24:
			e.underline = false
		case p >= 30 && p <= 37:
			e.curFg = ansi16(p - 30)
		case p >= 40 && p <= 47:
			e.curBg = ansi16(p - 40)
		case p == 39:
			e.curFg = 0
		case p == 49:
			e.curBg = 0
		}
	}
}

// ansi16 is a fixed palette lookup; exact color fidelity is the
// frontend's concern, this just needs a stable, distinguishable value.
func ansi16(idx int) uint32 {
	palette := [8]uint32{
		0x000000, 0xCC0000, 0x4E9A06, 0xC4A000,
		0x3465A4, 0x75507B, 0x06989A, 0xD3D7CF,
	}
	if idx < 0 || idx > 7 {
		return 0
	}
	return palette[idx]
}

func splitParams(raw []byte) []int {
	if len(raw) == 0 {
		return nil
	}
	var out []int
	cur := 0
	has := false
	for _, b := range raw {
		if b == ';' {
			if has {
				out = append(out, cur)
			} else {
				out = append(out, 0)
			}
			cur, has = 0, false
			continue
		}
		cur = cur*10 + int(b-'0')
		has = true
	}
	if has {
		out = append(out, cur)
	} else {
		out = append(out, 0)
	}
	return out
}

func paramOr(params []int, idx, def int) int {
	if idx >= len(params) || params[idx] == 0 {
		return def
	}
	return params[idx]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
func clampNonNeg(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
func clampMax(v, hi int) int {
	if v > hi {
		return hi
	}
	return v
}
