package tables

import (
	"github.com/tsawler/tabby/model"
)

// FilterFalsePositives drops the tables of one page that are too small to
// be real tables, and keeps only the best scoring table for each caption.
// The box of a dropped table is removed too. Boxes and tables are paired
// by RegionKey, never by position, and both keep their input order.
func FilterFalsePositives(boxes []model.TableBox, tables []model.Table, config FilterConfig) ([]model.TableBox, []model.Table) {
	keep := make([]bool, len(tables))
	for i := range tables {
		t := &tables[i]
		keep[i] = t.RowCount() >= config.MinRows && t.ColCount() >= config.MinCols
	}

	type claim struct {
		page  int
		label string
	}
	best := make(map[claim]int)
	for i := range tables {
		t := &tables[i]
		if !keep[i] || t.Caption.Index < 0 {
			continue
		}
		c := claim{page: t.Page, label: t.Caption.Label}
		if j, ok := best[c]; ok {
			if t.Filled() > tables[j].Filled() {
				keep[j] = false
				best[c] = i
			} else {
				keep[i] = false
			}
			continue
		}
		best[c] = i
	}

	var outTables []model.Table
	surviving := make(map[model.RegionKey]int)
	for i, t := range tables {
		if keep[i] {
			outTables = append(outTables, t)
			surviving[t.Key()]++
		}
	}

	var outBoxes []model.TableBox
	for _, b := range boxes {
		k := b.Key()
		if surviving[k] > 0 {
			surviving[k]--
			outBoxes = append(outBoxes, b)
		}
	}
	return outBoxes, outTables
}
