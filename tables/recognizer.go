package tables

import (
	"fmt"
	"math"
	"sort"

	"github.com/tsawler/tabby/model"
)

// Recognizer infers the row and column grid of a TableBox
type Recognizer struct {
	config RecognizerConfig
}

// NewRecognizer creates a recognizer with the given configuration
func NewRecognizer(config RecognizerConfig) (*Recognizer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("recognizer config: %w", err)
	}
	return &Recognizer{config: config}, nil
}

// placed is a block assigned to a row band
type placed struct {
	block model.TextBlock
	row   int
}

// Recognize builds the grid of box from the blocks of ix whose centre lies
// inside the box. With a nil index the box's own blocks are used. Rows
// come from the box's lines; empty grid positions become empty cells.
func (r *Recognizer) Recognize(box model.TableBox, ix *BlockIndex) model.Table {
	table := model.Table{Page: box.Page, BBox: box.BBox, Caption: box.Caption}

	bands := make([]model.BBox, 0)
	for _, l := range box.Lines() {
		bands = append(bands, l.BBox)
	}
	if len(bands) == 0 {
		return table
	}

	var blocks []model.TextBlock
	if ix != nil {
		blocks = ix.Within(box.BBox.Expand(r.config.EdgeTolerance))
	} else {
		blocks = box.Blocks()
	}

	items := make([]placed, 0, len(blocks))
	for _, b := range blocks {
		if !b.BBox.IsValid() {
			continue
		}
		items = append(items, placed{block: b, row: nearestBand(bands, b.BBox.Center().Y)})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].row != items[j].row {
			return items[i].row < items[j].row
		}
		return items[i].block.BBox.Left() < items[j].block.BBox.Left()
	})

	table.Grid = model.TableGrid{
		Rows: rowBoundaries(bands),
		Cols: r.columnBoundaries(items),
	}
	r.fill(&table, items)
	return table
}

// nearestBand returns the band containing y, or the band whose centre is
// closest to it
func nearestBand(bands []model.BBox, y float64) int {
	best, bestDist := 0, math.Inf(1)
	for i, b := range bands {
		if y >= b.Bottom() && y <= b.Top() {
			return i
		}
		if d := math.Abs(b.Center().Y - y); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// rowBoundaries returns descending Y boundaries between consecutive bands
func rowBoundaries(bands []model.BBox) []float64 {
	rows := make([]float64, 0, len(bands)+1)
	top := bands[0].Top()
	for _, b := range bands {
		top = math.Max(top, b.Top())
	}
	rows = append(rows, top)
	for i := 1; i < len(bands); i++ {
		y := (bands[i-1].Bottom() + bands[i].Top()) / 2
		rows = append(rows, math.Min(y, rows[len(rows)-1]))
	}
	bottom := bands[len(bands)-1].Bottom()
	for _, b := range bands {
		bottom = math.Min(bottom, b.Bottom())
	}
	return append(rows, math.Min(bottom, rows[len(rows)-1]))
}

// gapCluster is a set of row gaps sharing one gutter. lo and hi bound the
// intersection of its member gaps.
type gapCluster struct {
	lo, hi  float64
	support int
}

// columnBoundaries derives column edges from the whitespace between
// consecutive blocks of each row. Gaps sharing a gutter are clustered,
// narrowest first, so that a wide gap left by an empty cell supports every
// gutter it spans instead of fusing them. Each cluster yields the edge
// candidate crossed by the fewest blocks.
func (r *Recognizer) columnBoundaries(items []placed) []float64 {
	if len(items) == 0 {
		return nil
	}
	tol := r.config.EdgeTolerance

	var gaps []interval
	left, right := math.Inf(1), math.Inf(-1)
	for i, it := range items {
		left = math.Min(left, it.block.BBox.Left())
		right = math.Max(right, it.block.BBox.Right())
		if i+1 < len(items) && items[i+1].row == it.row {
			g := interval{lo: it.block.BBox.Right(), hi: items[i+1].block.BBox.Left()}
			if g.width() > tol {
				gaps = append(gaps, g)
			}
		}
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		if gaps[i].width() != gaps[j].width() {
			return gaps[i].width() < gaps[j].width()
		}
		return gaps[i].lo < gaps[j].lo
	})

	var clusters []gapCluster
	for _, g := range gaps {
		var hits []int
		for ci, c := range clusters {
			if g.overlap(interval{c.lo, c.hi}) >= -tol {
				hits = append(hits, ci)
			}
		}
		if len(hits) == 0 {
			clusters = append(clusters, gapCluster{lo: g.lo, hi: g.hi, support: 1})
			continue
		}
		for _, ci := range hits {
			clusters[ci].support++
		}
		if len(hits) == 1 {
			c := &clusters[hits[0]]
			if lo, hi := math.Max(c.lo, g.lo), math.Min(c.hi, g.hi); lo <= hi {
				c.lo, c.hi = lo, hi
			}
		}
	}

	xs := make([]float64, 0, len(clusters))
	for _, c := range clusters {
		xs = append(xs, bestEdge(c, items))
	}
	sort.Float64s(xs)
	xs = clusterValues(xs, tol)

	cols := []float64{left}
	for _, x := range xs {
		if x > left+tol && x < right-tol {
			cols = append(cols, x)
		}
	}
	return append(cols, right)
}

// bestEdge picks the cluster's midpoint or one of its edges, whichever is
// crossed by the fewest blocks; the midpoint wins ties, then the lower x
func bestEdge(c gapCluster, items []placed) float64 {
	best, bestCross := 0.0, math.MaxInt
	for _, x := range []float64{(c.lo + c.hi) / 2, c.lo, c.hi} {
		if n := straddling(x, items); n < bestCross {
			best, bestCross = x, n
		}
	}
	return best
}

func straddling(x float64, items []placed) int {
	n := 0
	for _, it := range items {
		if it.block.BBox.Left() < x && it.block.BBox.Right() > x {
			n++
		}
	}
	return n
}

// clusterValues clusters nearby sorted values within the given tolerance,
// averaging values that fall within the tolerance of the cluster center.
func clusterValues(values []float64, tolerance float64) []float64 {
	if len(values) == 0 {
		return nil
	}

	clustered := []float64{values[0]}

	for i := 1; i < len(values); i++ {
		diff := values[i] - clustered[len(clustered)-1]
		if diff > tolerance {
			clustered = append(clustered, values[i])
		} else {
			clustered[len(clustered)-1] = (clustered[len(clustered)-1] + values[i]) / 2
		}
	}

	return clustered
}

// columnOf returns the column whose interval contains x, clamped to the
// grid
func columnOf(cols []float64, x float64) int {
	n := len(cols) - 1
	for j := 0; j < n; j++ {
		if x < cols[j+1] {
			return j
		}
	}
	return n - 1
}

// fill assigns each block to the column containing its centre. A block
// reaching across column edges spans those columns unless another block
// of the row is centred there. Blocks sharing a cell are joined with a
// space.
func (r *Recognizer) fill(table *model.Table, items []placed) {
	g := &table.Grid
	nRows, nCols := g.RowCount(), g.ColCount()
	if nRows == 0 || nCols == 0 {
		table.Rows = nil
		return
	}
	table.Rows = model.NewTable(nRows, nCols).Rows
	tol := r.config.EdgeTolerance

	// owner[i][j] is the origin column of the cell covering (i, j), or -1
	owner := make([][]int, nRows)
	for i := range owner {
		owner[i] = make([]int, nCols)
		for j := range owner[i] {
			owner[i][j] = -1
		}
	}

	for start := 0; start < len(items); {
		row := items[start].row
		end := start
		for end < len(items) && items[end].row == row {
			end++
		}
		rowItems := items[start:end]
		start = end

		centres := make(map[int]int)
		for _, it := range rowItems {
			centres[columnOf(g.Cols, it.block.BBox.Center().X)]++
		}

		for _, it := range rowItems {
			b := it.block.BBox
			c := columnOf(g.Cols, b.Center().X)

			if o := owner[row][c]; o >= 0 {
				cell := &table.Rows[row][o]
				cell.Text = joinText(cell.Text, it.block.Text)
				continue
			}

			first, last := c, c
			for j := c - 1; j >= columnOf(g.Cols, b.Left()+tol); j-- {
				if centres[j] > 0 || owner[row][j] >= 0 {
					break
				}
				first = j
			}
			for j := c + 1; j <= columnOf(g.Cols, b.Right()-tol); j++ {
				if centres[j] > 0 || owner[row][j] >= 0 {
					break
				}
				last = j
			}

			table.Rows[row][first] = model.Cell{
				Text:    it.block.Text,
				Row:     row,
				Col:     first,
				RowSpan: 1,
				ColSpan: last - first + 1,
			}
			for j := first; j <= last; j++ {
				owner[row][j] = first
				if j > first {
					table.Rows[row][j].Spanned = true
				}
			}
		}
	}

	for i := range table.Rows {
		for j := range table.Rows[i] {
			cell := &table.Rows[i][j]
			cell.Row, cell.Col = i, j
			if cell.Spanned {
				cell.BBox = g.CellBBox(i, j)
				continue
			}
			cell.BBox = g.SpanBBox(i, j, cell.RowSpan, cell.ColSpan)
		}
	}
}

func joinText(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + " " + b
	}
}
