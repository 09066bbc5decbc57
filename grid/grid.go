// Package grid implements the jagged row-of-columns pane layout model.
package grid

// Manager is a finite sequence of row column-counts. The invariant
// sum(RowCols) == total panes is maintained by every mutator; rows with 0
// columns do not exist (removing a row's last column deletes the row).
type Manager struct {
	RowCols []uint32
}

// NewManager builds a manager for an initial rows x cols rectangle. Both
// must be >= 1; a zero or negative value is clamped to 1.
func NewManager(rows, cols int) *Manager {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	rc := make([]uint32, rows)
	for i := range rc {
		rc[i] = uint32(cols)
	}
	return &Manager{RowCols: rc}
}

// TotalPanes returns sum(RowCols).
func (m *Manager) TotalPanes() uint32 {
	var total uint32
	for _, c := range m.RowCols {
		total += c
	}
	return total
}

// AddColToRow appends a column to row r. No-op if r is out of range.
func (m *Manager) AddColToRow(r int) {
	if r < 0 || r >= len(m.RowCols) {
		return
	}
	m.RowCols[r]++
}

// RemoveColFromRow removes a column from row r, deleting the row entirely
// if it only had one column left. Returns true iff the row was erased.
// No-op (returns false) if r is out of range.
func (m *Manager) RemoveColFromRow(r int) bool {
	if r < 0 || r >= len(m.RowCols) {
		return false
	}
	if m.RowCols[r] > 1 {
		m.RowCols[r]--
		return false
	}
	m.RowCols = append(m.RowCols[:r], m.RowCols[r+1:]...)
	return true
}

// AddRow appends a new row with a single column.
func (m *Manager) AddRow() {
	m.RowCols = append(m.RowCols, 1)
}

// PanePosition maps a flat pane index to (row, col) by linear scan. The
// second return is false if i is out of range.
func (m *Manager) PanePosition(i uint32) (row, col int, ok bool) {
	remaining := i
	for r, c := range m.RowCols {
		if remaining < c {
			return r, int(remaining), true
		}
		remaining -= c
	}
	return 0, 0, false
}

// FlatIndex is the inverse of PanePosition: given (row, col), returns the
// flat pane index. Bounds-checked on both axes.
func (m *Manager) FlatIndex(row, col int) (uint32, bool) {
	if row < 0 || row >= len(m.RowCols) {
		return 0, false
	}
	if col < 0 || uint32(col) >= m.RowCols[row] {
		return 0, false
	}
	var flat uint32
	for r := 0; r < row; r++ {
		flat += m.RowCols[r]
	}
	return flat + uint32(col), true
}

// LayoutConfig carries the scalar knobs compute_layout needs from the
// loaded Config (outer padding, inter-pane gap, title bar height), all in
// logical pixels before scale is applied.
type LayoutConfig struct {
	OuterPadding   float64
	Gap            float64
	TitleBarHeight float64
}

// PaneLayout is one pane's computed pixel rectangle, including its title
// bar height so the frontend can carve the content area out of it.
type PaneLayout struct {
	X, Y, W, H float64
	TitleH     float64
}

// ComputeLayout lays out every pane in row-major order into pixel
// rectangles sized to fit windowW x windowH, honoring the configured
// outer padding, inter-pane gap, and title bar height, all scaled by
// scale. Rows get equal height; within a row, columns get equal width.
func (m *Manager) ComputeLayout(windowW, windowH float64, cfg LayoutConfig, scale float64) []PaneLayout {
	outer := cfg.OuterPadding * scale
	gap := cfg.Gap * scale
	titleH := cfg.TitleBarHeight * scale

	n := len(m.RowCols)
	if n < 1 {
		n = 1
	}
	totalW := windowW - 2*outer
	totalH := windowH - 2*outer

	paneH := (totalH - float64(n-1)*gap) / float64(n)

	var out []PaneLayout
	rows := m.RowCols
	if len(rows) == 0 {
		rows = []uint32{0}
	}
	for r, cRaw := range rows {
		c := int(cRaw)
		if c < 1 {
			c = 1
		}
		paneW := (totalW - float64(c-1)*gap) / float64(c)
		for col := 0; col < c; col++ {
			out = append(out, PaneLayout{
				X:      outer + float64(col)*(paneW+gap),
				Y:      outer + float64(r)*(paneH+gap),
				W:      paneW,
				H:      paneH,
				TitleH: titleH,
			})
		}
	}
	return out
}
