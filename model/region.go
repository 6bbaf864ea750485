package model

import "fmt"

// TableRegion is one band of aligned lines inside a candidate table
type TableRegion struct {
	BBox  BBox
	Lines []TextLine
}

// NewTableRegion creates a region whose box is the union of its lines
func NewTableRegion(lines []TextLine) TableRegion {
	r := TableRegion{Lines: lines}
	for i, l := range lines {
		if i == 0 {
			r.BBox = l.BBox
			continue
		}
		r.BBox = r.BBox.Union(l.BBox)
	}
	return r
}

// CaptionRef points at a caption block by index into the page's block
// list. Index is -1 when the box has no caption.
type CaptionRef struct {
	Index int
	Label string
}

// NoCaption is the zero caption reference
var NoCaption = CaptionRef{Index: -1}

// TableBox is the outer boundary of a detected candidate table
type TableBox struct {
	BBox    BBox
	Page    int
	Regions []TableRegion
	Caption CaptionRef
}

// HasCaption reports whether a caption was attached
func (t TableBox) HasCaption() bool {
	return t.Caption.Index >= 0
}

// Lines returns the lines of all regions in top-to-bottom order
func (t TableBox) Lines() []TextLine {
	var lines []TextLine
	for _, r := range t.Regions {
		lines = append(lines, r.Lines...)
	}
	return lines
}

// Blocks returns every block of every line in the box
func (t TableBox) Blocks() []TextBlock {
	var blocks []TextBlock
	for _, l := range t.Lines() {
		blocks = append(blocks, l.Blocks...)
	}
	return blocks
}

// Key identifies the box independently of its list position
func (t TableBox) Key() RegionKey {
	return RegionKey{Page: t.Page, BBox: t.BBox}
}

// RegionKey pairs a TableBox with the Table recognized from it
type RegionKey struct {
	Page int
	BBox BBox
}

func (k RegionKey) String() string {
	return fmt.Sprintf("p%d[%.1f,%.1f,%.1f,%.1f]", k.Page, k.BBox.Left(), k.BBox.Bottom(), k.BBox.Right(), k.BBox.Top())
}
