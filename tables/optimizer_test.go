package tables

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/tabby/model"
)

// gridTable builds a table from texts laid on the given boundaries
func gridTable(rows, cols []float64, texts [][]string) model.Table {
	t := model.NewTable(len(texts), len(texts[0]))
	t.Page = 1
	t.Grid = model.TableGrid{Rows: rows, Cols: cols}
	for i, r := range texts {
		for j, text := range r {
			t.Rows[i][j].Text = text
			t.Rows[i][j].BBox = t.Grid.CellBBox(i, j)
		}
	}
	return *t
}

func TestOptimizeRemovesEmptyColumn(t *testing.T) {
	table := gridTable(
		[]float64{20, 10, 0},
		[]float64{0, 40, 60, 100},
		[][]string{
			{"A", "", "B"},
			{"C", "", "D"},
		},
	)

	out := NewOptimizer().Optimize(table)

	assert.Equal(t, 2, out.ColCount())
	assert.Equal(t, [][]string{{"A", "B"}, {"C", "D"}}, cellTexts(out))
	assert.Equal(t, []float64{0, 60, 100}, out.Grid.Cols)
	assert.Equal(t, model.NewBBoxFromEdges(0, 10, 60, 20), out.Rows[0][0].BBox)
	assert.Equal(t, 3, table.ColCount(), "input is not modified")
}

func TestOptimizeRemovesLeadingEmptyColumn(t *testing.T) {
	table := gridTable(
		[]float64{20, 10, 0},
		[]float64{0, 5, 60, 100},
		[][]string{
			{"", "A", "B"},
			{"", "C", "D"},
		},
	)

	out := NewOptimizer().Optimize(table)
	assert.Equal(t, [][]string{{"A", "B"}, {"C", "D"}}, cellTexts(out))
	assert.Equal(t, []float64{0, 60, 100}, out.Grid.Cols)
}

func TestOptimizeRemovesEmptyRow(t *testing.T) {
	table := gridTable(
		[]float64{30, 20, 10, 0},
		[]float64{0, 50, 100},
		[][]string{
			{"A", "B"},
			{" ", ""},
			{"C", "D"},
		},
	)

	out := NewOptimizer().Optimize(table)
	assert.Equal(t, [][]string{{"A", "B"}, {"C", "D"}}, cellTexts(out))
	assert.Equal(t, []float64{30, 10, 0}, out.Grid.Rows)
	assert.Equal(t, model.NewBBoxFromEdges(0, 0, 50, 10), out.Rows[1][0].BBox)
}

func TestOptimizeMergesContinuationRow(t *testing.T) {
	table := gridTable(
		[]float64{30, 20, 10, 0},
		[]float64{0, 50, 100},
		[][]string{
			{"Widget", "A long"},
			{"", "description"},
			{"Gadget", "x"},
		},
	)

	out := NewOptimizer().Optimize(table)
	assert.Equal(t, [][]string{
		{"Widget", "A long description"},
		{"Gadget", "x"},
	}, cellTexts(out))
	assert.Equal(t, []float64{30, 10, 0}, out.Grid.Rows)
	assert.Equal(t, model.NewBBoxFromEdges(50, 10, 100, 30), out.Rows[0][1].BBox)
}

func TestOptimizeKeepsRowsWithoutCellAbove(t *testing.T) {
	table := gridTable(
		[]float64{20, 10, 0},
		[]float64{0, 50, 100},
		[][]string{
			{"A", ""},
			{"", "x"},
		},
	)

	out := NewOptimizer().Optimize(table)
	assert.Equal(t, [][]string{{"A", ""}, {"", "x"}}, cellTexts(out))
}

func TestOptimizeKeepsSpans(t *testing.T) {
	table := gridTable(
		[]float64{20, 10, 0},
		[]float64{0, 50, 100},
		[][]string{
			{"Header", ""},
			{"a", "b"},
		},
	)
	table.Rows[0][0].ColSpan = 2
	table.Rows[0][1].Spanned = true

	out := NewOptimizer().Optimize(table)
	require.Equal(t, 2, out.ColCount())
	assert.Equal(t, 2, out.Rows[0][0].ColSpan)
	assert.True(t, out.Rows[0][1].Spanned)
	assert.Equal(t, model.NewBBoxFromEdges(0, 10, 100, 20), out.Rows[0][0].BBox)
}

func TestOptimizeShrinksSpanOverRemovedColumn(t *testing.T) {
	table := gridTable(
		[]float64{20, 10, 0},
		[]float64{0, 30, 60, 100},
		[][]string{
			{"Header", "", ""},
			{"a", "", "b"},
		},
	)
	table.Rows[0][0].ColSpan = 3
	table.Rows[0][1].Spanned = true
	table.Rows[0][2].Spanned = true

	out := NewOptimizer().Optimize(table)
	require.Equal(t, 2, out.ColCount())
	assert.Equal(t, 2, out.Rows[0][0].ColSpan)
	assert.True(t, out.IsRectangular())
}

func TestOptimizeWithoutGrid(t *testing.T) {
	table := gridTable(
		[]float64{20, 10, 0},
		[]float64{0, 50, 100},
		[][]string{
			{"A", ""},
			{"B", ""},
		},
	)
	table.Grid = model.TableGrid{}

	out := NewOptimizer().Optimize(table)
	assert.Equal(t, [][]string{{"A"}, {"B"}}, cellTexts(out))
	assert.Equal(t, model.BBox{}, out.Rows[0][0].BBox)
}

func TestOptimizeEmptyTable(t *testing.T) {
	out := NewOptimizer().Optimize(model.Table{Page: 2, Caption: model.NoCaption})
	assert.Zero(t, out.RowCount())
	assert.Equal(t, 2, out.Page)
}

func TestOptimizeProperties(t *testing.T) {
	fixtures := map[string]model.Table{
		"empty column": gridTable(
			[]float64{20, 10, 0},
			[]float64{0, 40, 60, 100},
			[][]string{{"A", "", "B"}, {"C", "", "D"}},
		),
		"continuations": gridTable(
			[]float64{40, 30, 20, 10, 0},
			[]float64{0, 50, 100},
			[][]string{{"a", "b"}, {"", "c"}, {"", "d"}, {"e", ""}},
		),
		"sparse": gridTable(
			[]float64{30, 20, 10, 0},
			[]float64{0, 10, 20, 30},
			[][]string{{"", "", ""}, {"", "x", ""}, {"", "", "y"}},
		),
	}

	spanned := gridTable(
		[]float64{20, 10, 0},
		[]float64{0, 30, 60, 100},
		[][]string{{"", "wide", ""}, {"", "", "z"}},
	)
	spanned.Rows[0][1].ColSpan = 2
	spanned.Rows[0][2].Spanned = true
	fixtures["spanned"] = spanned

	opt := NewOptimizer()
	for name, table := range fixtures {
		t.Run(name, func(t *testing.T) {
			once := opt.Optimize(table)
			twice := opt.Optimize(once)
			assert.Equal(t, once, twice, "idempotent")
			assert.True(t, once.IsRectangular(), "rectangular")
			assert.LessOrEqual(t, once.RowCount(), table.RowCount())
			assert.LessOrEqual(t, once.ColCount(), table.ColCount())
		})
	}
}

func TestRecognizeThenOptimize(t *testing.T) {
	box := boxOf(1,
		row(100, "Name", 0, 30, "Score", 100, 140),
		row(85, "Ann", 0, 20, "12", 120, 140),
		row(70, "Bob", 0, 20, "7", 130, 140),
	)
	rec := recognizer(t)
	out := NewOptimizer().Optimize(rec.Recognize(box, nil))

	assert.Equal(t, [][]string{
		{"Name", "Score"},
		{"Ann", "12"},
		{"Bob", "7"},
	}, cellTexts(out))
}
