package model

import (
	"fmt"
	"strings"
)

// Table is a finalized grid of cells recognized from one TableBox
type Table struct {
	Page    int
	BBox    BBox
	Caption CaptionRef
	Grid    TableGrid
	Rows    [][]Cell
}

// GetText returns the cell texts, tab separated, one row per line
func (t *Table) GetText() string {
	var sb strings.Builder
	for _, row := range t.Rows {
		for j, cell := range row {
			sb.WriteString(cell.Text)
			if j < len(row)-1 {
				sb.WriteString("\t")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// NewTable creates a new table with given dimensions
func NewTable(rows, cols int) *Table {
	table := &Table{
		Rows:    make([][]Cell, rows),
		Caption: NoCaption,
	}
	for i := 0; i < rows; i++ {
		table.Rows[i] = make([]Cell, cols)
		for j := 0; j < cols; j++ {
			table.Rows[i][j] = Cell{
				Row:     i,
				Col:     j,
				RowSpan: 1,
				ColSpan: 1,
			}
		}
	}
	return table
}

// RowCount returns the number of rows
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColCount returns the number of columns in the first row
func (t *Table) ColCount() int {
	if len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0])
}

// Cell returns the cell at the given row and column (0-indexed)
func (t *Table) Cell(row, col int) *Cell {
	if row < 0 || row >= len(t.Rows) {
		return nil
	}
	if col < 0 || col >= len(t.Rows[row]) {
		return nil
	}
	return &t.Rows[row][col]
}

// SetCell sets the cell at the given position
func (t *Table) SetCell(row, col int, cell Cell) error {
	if row < 0 || row >= len(t.Rows) {
		return fmt.Errorf("row index %d out of bounds", row)
	}
	if col < 0 || col >= len(t.Rows[row]) {
		return fmt.Errorf("col index %d out of bounds", col)
	}
	t.Rows[row][col] = cell
	return nil
}

// Filled counts the origin cells that carry text
func (t *Table) Filled() int {
	n := 0
	for _, row := range t.Rows {
		for _, c := range row {
			if !c.Spanned && strings.TrimSpace(c.Text) != "" {
				n++
			}
		}
	}
	return n
}

// IsRectangular reports whether every row has the same column count and
// every span stays inside the grid.
func (t *Table) IsRectangular() bool {
	cols := t.ColCount()
	for i, row := range t.Rows {
		if len(row) != cols {
			return false
		}
		for j, c := range row {
			if c.RowSpan < 1 || c.ColSpan < 1 {
				return false
			}
			if i+c.RowSpan > len(t.Rows) || j+c.ColSpan > cols {
				return false
			}
		}
	}
	return true
}

// Key identifies the table by page and the box it was recognized from
func (t *Table) Key() RegionKey {
	return RegionKey{Page: t.Page, BBox: t.BBox}
}

// Clone returns a deep copy
func (t Table) Clone() Table {
	c := t
	c.Grid = TableGrid{
		Rows: append([]float64(nil), t.Grid.Rows...),
		Cols: append([]float64(nil), t.Grid.Cols...),
	}
	c.Rows = make([][]Cell, len(t.Rows))
	for i, row := range t.Rows {
		c.Rows[i] = append([]Cell(nil), row...)
	}
	return c
}

// ToMarkdown converts the table to markdown format
func (t *Table) ToMarkdown() string {
	if len(t.Rows) == 0 {
		return ""
	}

	var sb strings.Builder
	writeRow := func(row []Cell) {
		for j, cell := range row {
			sb.WriteString("| ")
			if !cell.Spanned {
				sb.WriteString(strings.ReplaceAll(cell.Text, "\n", " "))
			}
			sb.WriteString(" ")
			if j == len(row)-1 {
				sb.WriteString("|")
			}
		}
		sb.WriteString("\n")
	}

	// Header row
	writeRow(t.Rows[0])

	// Separator
	for j := range t.Rows[0] {
		sb.WriteString("|---")
		if j == len(t.Rows[0])-1 {
			sb.WriteString("|")
		}
	}
	sb.WriteString("\n")

	for i := 1; i < len(t.Rows); i++ {
		writeRow(t.Rows[i])
	}

	return sb.String()
}

// ToCSV converts the table to CSV format
func (t *Table) ToCSV() string {
	var sb strings.Builder
	for _, row := range t.Rows {
		for j, cell := range row {
			text := cell.Text
			if cell.Spanned {
				text = ""
			}
			if strings.Contains(text, ",") || strings.Contains(text, "\"") || strings.Contains(text, "\n") {
				text = "\"" + strings.ReplaceAll(text, "\"", "\"\"") + "\""
			}
			sb.WriteString(text)
			if j < len(row)-1 {
				sb.WriteString(",")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Cell is one grid position. An origin cell carries the text and spans;
// the positions it covers are marked Spanned and left empty.
type Cell struct {
	Text    string
	BBox    BBox
	Row     int
	Col     int
	RowSpan int
	ColSpan int
	Spanned bool
}

// IsEmpty reports whether the cell has no visible text
func (c Cell) IsEmpty() bool {
	return strings.TrimSpace(c.Text) == ""
}

// TableGrid holds the recovered row and column boundaries. Rows run from
// the top of the table downwards, so Rows is in descending Y order; Cols
// is ascending.
type TableGrid struct {
	Rows []float64
	Cols []float64
}

// RowCount returns the number of rows
func (g *TableGrid) RowCount() int {
	if len(g.Rows) <= 1 {
		return 0
	}
	return len(g.Rows) - 1
}

// ColCount returns the number of columns
func (g *TableGrid) ColCount() int {
	if len(g.Cols) <= 1 {
		return 0
	}
	return len(g.Cols) - 1
}

// CellBBox returns the bounding box for a grid position
func (g *TableGrid) CellBBox(row, col int) BBox {
	if row < 0 || row >= g.RowCount() || col < 0 || col >= g.ColCount() {
		return BBox{}
	}
	return NewBBoxFromEdges(g.Cols[col], g.Rows[row+1], g.Cols[col+1], g.Rows[row])
}

// SpanBBox returns the box covering rowSpan x colSpan positions from
// (row, col).
func (g *TableGrid) SpanBBox(row, col, rowSpan, colSpan int) BBox {
	last := g.CellBBox(row+rowSpan-1, col+colSpan-1)
	first := g.CellBBox(row, col)
	if first == (BBox{}) || last == (BBox{}) {
		return first
	}
	return first.Union(last)
}
