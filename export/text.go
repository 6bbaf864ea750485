package export

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/tsawler/tabby/model"
)

// Text renders a table for a terminal. Cells covered by a column span
// repeat the spanning text and are merged back into one.
func Text(w io.Writer, t model.Table) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	if t.Caption.Label != "" {
		tw.SetTitle(t.Caption.Label)
	}

	for i, row := range t.Rows {
		out := make(table.Row, len(row))
		merge := false
		for j, c := range row {
			if c.Spanned {
				out[j] = ""
				if o := origin(t, i, j); o != nil && o.Row == i {
					out[j] = o.Text
					merge = true
				}
				continue
			}
			out[j] = c.Text
		}
		tw.AppendRow(out, table.RowConfig{AutoMerge: merge})
	}
	tw.Render()
}

// origin finds the cell whose span covers (i, j)
func origin(t model.Table, i, j int) *model.Cell {
	for r := i; r >= 0; r-- {
		for c := j; c >= 0; c-- {
			cell := t.Cell(r, c)
			if cell != nil && !cell.Spanned && r+cell.RowSpan > i && c+cell.ColSpan > j {
				return cell
			}
		}
	}
	return nil
}
