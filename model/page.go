package model

// Page represents a single page as a stream of positioned fragments
type Page struct {
	Number    int     // 1-indexed page number
	Width     float64 // Page width in points
	Height    float64 // Page height in points
	Fragments []Fragment
}

// NewPage creates a new page with given dimensions
func NewPage(number int, width, height float64) *Page {
	return &Page{
		Number:    number,
		Width:     width,
		Height:    height,
		Fragments: make([]Fragment, 0),
	}
}

// AddFragment appends a fragment, assigning its stream index
func (p *Page) AddFragment(f Fragment) {
	f.Index = len(p.Fragments)
	p.Fragments = append(p.Fragments, f)
}

// BBox returns the page area, or the union of the fragments when the page
// size is unknown.
func (p *Page) BBox() BBox {
	if p.Width > 0 && p.Height > 0 {
		return NewBBox(0, 0, p.Width, p.Height)
	}
	boxes := make([]BBox, 0, len(p.Fragments))
	for _, f := range p.Fragments {
		if f.BBox.IsValid() {
			boxes = append(boxes, f.BBox)
		}
	}
	return UnionAll(boxes...)
}

// FragmentsInRegion returns fragments intersecting a bounding box
func (p *Page) FragmentsInRegion(bbox BBox) []Fragment {
	var frags []Fragment
	for _, f := range p.Fragments {
		if bbox.Intersects(f.BBox) {
			frags = append(frags, f)
		}
	}
	return frags
}
