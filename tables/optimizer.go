package tables

import (
	"github.com/tsawler/tabby/model"
)

// Optimizer removes artifacts of over-segmentation from recognized tables.
// It never adds rows or columns.
type Optimizer struct{}

// NewOptimizer creates an optimizer
func NewOptimizer() *Optimizer {
	return &Optimizer{}
}

// origin is a non-empty cell with its span
type origin struct {
	row, col         int
	rowSpan, colSpan int
	text             string
}

// layout is the working form of a table: its filled cells and grid size
type layout struct {
	rows, cols int
	cells      []origin
	grid       model.TableGrid
	hasGrid    bool
}

// Optimize returns an optimized copy of t; t is not modified. It removes
// columns and rows that are empty everywhere, folds continuation rows into
// the row above, and rebuilds a rectangular grid. The steps repeat until
// nothing changes, so Optimize(Optimize(t)) equals Optimize(t).
func (o *Optimizer) Optimize(t model.Table) model.Table {
	l := toLayout(t.Clone())
	for {
		changed := l.removeEmptyColumns()
		changed = l.removeEmptyRows() || changed
		changed = l.mergeContinuationRows() || changed
		if !changed {
			break
		}
	}

	out := t.Clone()
	out.Grid = l.grid
	out.Rows = l.build()
	return out
}

func toLayout(t model.Table) *layout {
	l := &layout{rows: len(t.Rows), grid: t.Grid}
	for _, row := range t.Rows {
		if len(row) > l.cols {
			l.cols = len(row)
		}
	}
	l.hasGrid = len(t.Grid.Rows) == l.rows+1 && len(t.Grid.Cols) == l.cols+1
	if !l.hasGrid {
		l.grid = model.TableGrid{}
	}
	for i, row := range t.Rows {
		for j, c := range row {
			if c.Spanned || c.IsEmpty() {
				continue
			}
			l.cells = append(l.cells, origin{
				row:     i,
				col:     j,
				rowSpan: max(c.RowSpan, 1),
				colSpan: max(c.ColSpan, 1),
				text:    c.Text,
			})
		}
	}
	return l
}

// removeEmptyColumns drops one column at a time that no filled cell starts
// in. A lone column is kept.
func (l *layout) removeEmptyColumns() bool {
	changed := false
	for j := 0; j < l.cols && l.cols > 1; {
		if l.columnUsed(j) {
			j++
			continue
		}
		for k := range l.cells {
			c := &l.cells[k]
			switch {
			case c.col > j:
				c.col--
			case c.col+c.colSpan-1 >= j:
				c.colSpan--
			}
		}
		if l.hasGrid {
			l.grid.Cols = removeBoundary(l.grid.Cols, j)
		}
		l.cols--
		changed = true
	}
	return changed
}

// removeEmptyRows drops rows that no filled cell starts in. A lone row is
// kept.
func (l *layout) removeEmptyRows() bool {
	changed := false
	for i := 0; i < l.rows && l.rows > 1; {
		if l.rowUsed(i) {
			i++
			continue
		}
		l.dropRow(i)
		changed = true
	}
	return changed
}

// mergeContinuationRows folds a row into the one above when its first
// column is empty and every filled cell sits under a filled cell of the
// same columns.
func (l *layout) mergeContinuationRows() bool {
	changed := false
	for i := 1; i < l.rows; {
		if !l.isContinuation(i) {
			i++
			continue
		}
		kept := l.cells[:0]
		var moved []origin
		for _, c := range l.cells {
			if c.row == i {
				moved = append(moved, c)
				continue
			}
			kept = append(kept, c)
		}
		l.cells = kept
		for _, m := range moved {
			above := l.find(i-1, m.col)
			l.cells[above].text = joinText(l.cells[above].text, m.text)
		}
		l.dropRow(i)
		changed = true
	}
	return changed
}

func (l *layout) isContinuation(i int) bool {
	if l.covered(i, 0) {
		return false
	}
	n := 0
	for _, c := range l.cells {
		if c.row != i {
			continue
		}
		n++
		above := l.find(i-1, c.col)
		if above < 0 || l.cells[above].colSpan != c.colSpan {
			return false
		}
	}
	return n > 0
}

// find returns the index of the filled cell starting in column col that
// covers row i, or -1
func (l *layout) find(i, col int) int {
	for k, c := range l.cells {
		if c.col == col && c.row <= i && c.row+c.rowSpan-1 >= i {
			return k
		}
	}
	return -1
}

// covered reports whether any filled cell covers (i, j)
func (l *layout) covered(i, j int) bool {
	for _, c := range l.cells {
		if c.row <= i && c.row+c.rowSpan-1 >= i && c.col <= j && c.col+c.colSpan-1 >= j {
			return true
		}
	}
	return false
}

func (l *layout) columnUsed(j int) bool {
	for _, c := range l.cells {
		if c.col == j {
			return true
		}
	}
	return false
}

func (l *layout) rowUsed(i int) bool {
	for _, c := range l.cells {
		if c.row == i {
			return true
		}
	}
	return false
}

// dropRow removes row i, shrinking cells that span across it
func (l *layout) dropRow(i int) {
	for k := range l.cells {
		c := &l.cells[k]
		switch {
		case c.row > i:
			c.row--
		case c.row+c.rowSpan-1 >= i:
			c.rowSpan--
		}
	}
	if l.hasGrid {
		l.grid.Rows = removeBoundary(l.grid.Rows, i)
	}
	l.rows--
}

// removeBoundary removes position k from a boundary list of k+1 or more
// entries, merging it into its predecessor, or into its successor for the
// first position
func removeBoundary(bounds []float64, k int) []float64 {
	drop := k
	if k == 0 {
		drop = 1
	}
	out := make([]float64, 0, len(bounds)-1)
	out = append(out, bounds[:drop]...)
	return append(out, bounds[drop+1:]...)
}

// build lays the filled cells onto a rectangular grid. Spans are clipped
// to the grid and to cells placed earlier.
func (l *layout) build() [][]model.Cell {
	if l.rows == 0 || l.cols == 0 {
		return nil
	}
	rows := model.NewTable(l.rows, l.cols).Rows
	taken := make([][]bool, l.rows)
	for i := range taken {
		taken[i] = make([]bool, l.cols)
	}

	for _, c := range l.cells {
		if taken[c.row][c.col] {
			cell := &rows[c.row][c.col]
			if cell.Spanned {
				cell = coveringOrigin(rows, c.row, c.col)
			}
			cell.Text = joinText(cell.Text, c.text)
			continue
		}
		rs := min(c.rowSpan, l.rows-c.row)
		cs := min(c.colSpan, l.cols-c.col)
		for j := 1; j < cs; j++ {
			if taken[c.row][c.col+j] {
				cs = j
				break
			}
		}
		for i := 1; i < rs; i++ {
			blocked := false
			for j := 0; j < cs; j++ {
				if taken[c.row+i][c.col+j] {
					blocked = true
					break
				}
			}
			if blocked {
				rs = i
				break
			}
		}
		for i := 0; i < rs; i++ {
			for j := 0; j < cs; j++ {
				taken[c.row+i][c.col+j] = true
				if i > 0 || j > 0 {
					rows[c.row+i][c.col+j].Spanned = true
				}
			}
		}
		rows[c.row][c.col].Text = c.text
		rows[c.row][c.col].RowSpan = rs
		rows[c.row][c.col].ColSpan = cs
	}

	for i := range rows {
		for j := range rows[i] {
			cell := &rows[i][j]
			if !l.hasGrid {
				continue
			}
			if cell.Spanned {
				cell.BBox = l.grid.CellBBox(i, j)
				continue
			}
			cell.BBox = l.grid.SpanBBox(i, j, cell.RowSpan, cell.ColSpan)
		}
	}
	return rows
}

// coveringOrigin finds the origin cell whose span covers (i, j)
func coveringOrigin(rows [][]model.Cell, i, j int) *model.Cell {
	for r := i; r >= 0; r-- {
		for c := j; c >= 0; c-- {
			cell := &rows[r][c]
			if !cell.Spanned && r+cell.RowSpan > i && c+cell.ColSpan > j {
				return cell
			}
		}
	}
	return &rows[i][j]
}
