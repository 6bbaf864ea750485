package tables

import (
	"sort"

	"github.com/tidwall/rtree"

	"github.com/tsawler/tabby/model"
)

// BlockIndex is a spatial index over a page's blocks. Search results are
// indices into the block slice the index was built from.
type BlockIndex struct {
	tr     rtree.RTreeG[int]
	blocks []model.TextBlock
}

// NewBlockIndex indexes the valid blocks of a page
func NewBlockIndex(blocks []model.TextBlock) *BlockIndex {
	ix := &BlockIndex{blocks: blocks}
	for i, b := range blocks {
		if !b.BBox.IsValid() {
			continue
		}
		ix.tr.Insert(
			[2]float64{b.BBox.Left(), b.BBox.Bottom()},
			[2]float64{b.BBox.Right(), b.BBox.Top()},
			i,
		)
	}
	return ix
}

// Len returns the number of blocks, indexed or not
func (ix *BlockIndex) Len() int {
	return len(ix.blocks)
}

// Block returns the block at index i
func (ix *BlockIndex) Block(i int) model.TextBlock {
	return ix.blocks[i]
}

// Search returns the indices of blocks intersecting area in ascending order
func (ix *BlockIndex) Search(area model.BBox) []int {
	var hits []int
	ix.tr.Search(
		[2]float64{area.Left(), area.Bottom()},
		[2]float64{area.Right(), area.Top()},
		func(_, _ [2]float64, i int) bool {
			hits = append(hits, i)
			return true
		},
	)
	sort.Ints(hits)
	return hits
}

// Within returns the blocks whose centre lies inside area, in index order
func (ix *BlockIndex) Within(area model.BBox) []model.TextBlock {
	var out []model.TextBlock
	for _, i := range ix.Search(area) {
		if b := ix.blocks[i]; area.Contains(b.BBox.Center()) {
			out = append(out, b)
		}
	}
	return out
}
