package chunk

import (
	"math"
	"sort"

	"github.com/tsawler/tabby/model"
)

// GroupLines groups blocks into row bands. A block joins the line it
// overlaps most vertically, provided it shares at least half the smaller
// height with it and does not overlap any block of that line horizontally
// by more than tolerance times the smaller block height. Lines are
// returned top to bottom, blocks inside a line by left edge.
func GroupLines(blocks []model.TextBlock, tolerance float64) []model.TextLine {
	var groups [][]model.TextBlock
	var bands []model.BBox

	for _, b := range blocks {
		if !b.BBox.IsValid() {
			continue
		}
		best, bestOverlap := -1, 0.0
		for i, band := range bands {
			o := band.VerticalOverlap(b.BBox)
			if o < rowOverlap*math.Min(lineHeightOf(groups[i]), b.LineHeight()) || o <= bestOverlap {
				continue
			}
			if collides(groups[i], b, tolerance) {
				continue
			}
			best, bestOverlap = i, o
		}
		if best < 0 {
			groups = append(groups, []model.TextBlock{b})
			bands = append(bands, b.BBox)
			continue
		}
		groups[best] = append(groups[best], b)
		bands[best] = bands[best].Union(b.BBox)
	}

	lines := make([]model.TextLine, 0, len(groups))
	for _, g := range groups {
		sort.SliceStable(g, func(i, j int) bool {
			return g[i].BBox.Left() < g[j].BBox.Left()
		})
		lines = append(lines, model.NewTextLine(g))
	}
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].BBox.Top() > lines[j].BBox.Top()
	})
	return lines
}

func lineHeightOf(blocks []model.TextBlock) float64 {
	h := math.Inf(1)
	for _, b := range blocks {
		h = math.Min(h, b.LineHeight())
	}
	return h
}

func collides(line []model.TextBlock, b model.TextBlock, tolerance float64) bool {
	for _, c := range line {
		limit := tolerance * math.Min(c.BBox.Height, b.BBox.Height)
		if c.BBox.HorizontalOverlap(b.BBox) > limit {
			return true
		}
	}
	return false
}
