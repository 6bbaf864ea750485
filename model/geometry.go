package model

import "math"

// Point is a position on the page
type Point struct {
	X, Y float64
}

// BBox is an axis-aligned rectangle in PDF space, Y growing upward
type BBox struct {
	X      float64 // Left
	Y      float64 // Bottom (PDF coordinate system)
	Width  float64
	Height float64
}

// NewBBox creates a bounding box from coordinates
func NewBBox(x, y, width, height float64) BBox {
	return BBox{X: x, Y: y, Width: width, Height: height}
}

// NewBBoxFromEdges creates a bounding box from its four edges. Inverted
// edges are kept as given so that IsValid can reject them downstream.
func NewBBoxFromEdges(left, bottom, right, top float64) BBox {
	return BBox{X: left, Y: bottom, Width: right - left, Height: top - bottom}
}

// Left returns the left edge X coordinate
func (b BBox) Left() float64 {
	return b.X
}

// Right returns the right edge X coordinate
func (b BBox) Right() float64 {
	return b.X + b.Width
}

// Bottom returns the bottom edge Y coordinate
func (b BBox) Bottom() float64 {
	return b.Y
}

// Top returns the top edge Y coordinate
func (b BBox) Top() float64 {
	return b.Y + b.Height
}

// Center returns the center point
func (b BBox) Center() Point {
	return Point{
		X: b.X + b.Width/2,
		Y: b.Y + b.Height/2,
	}
}

// Contains checks if a point is inside the bounding box
func (b BBox) Contains(p Point) bool {
	return p.X >= b.Left() && p.X <= b.Right() &&
		p.Y >= b.Bottom() && p.Y <= b.Top()
}

// ContainsBox reports whether other lies entirely inside b, allowing tol
// points of slack on every side.
func (b BBox) ContainsBox(other BBox, tol float64) bool {
	return other.Left() >= b.Left()-tol && other.Right() <= b.Right()+tol &&
		other.Bottom() >= b.Bottom()-tol && other.Top() <= b.Top()+tol
}

// Intersects reports whether the boxes touch or overlap
func (b BBox) Intersects(other BBox) bool {
	return !(b.Right() < other.Left() ||
		b.Left() > other.Right() ||
		b.Top() < other.Bottom() ||
		b.Bottom() > other.Top())
}

// Union returns the union of two bounding boxes
func (b BBox) Union(other BBox) BBox {
	x := math.Min(b.Left(), other.Left())
	y := math.Min(b.Bottom(), other.Bottom())
	right := math.Max(b.Right(), other.Right())
	top := math.Max(b.Top(), other.Top())

	return BBox{
		X:      x,
		Y:      y,
		Width:  right - x,
		Height: top - y,
	}
}

// UnionAll returns the union of all boxes, or the zero box for none
func UnionAll(boxes ...BBox) BBox {
	if len(boxes) == 0 {
		return BBox{}
	}
	u := boxes[0]
	for _, b := range boxes[1:] {
		u = u.Union(b)
	}
	return u
}

// HorizontalOverlap returns the length of the shared X interval. Negative
// values are the width of the gap between the boxes.
func (b BBox) HorizontalOverlap(other BBox) float64 {
	return math.Min(b.Right(), other.Right()) - math.Max(b.Left(), other.Left())
}

// VerticalOverlap returns the length of the shared Y interval. Negative
// values are the height of the gap between the boxes.
func (b BBox) VerticalOverlap(other BBox) float64 {
	return math.Min(b.Top(), other.Top()) - math.Max(b.Bottom(), other.Bottom())
}

// Expand grows the box by margin on every side
func (b BBox) Expand(margin float64) BBox {
	return BBox{
		X:      b.X - margin,
		Y:      b.Y - margin,
		Width:  b.Width + 2*margin,
		Height: b.Height + 2*margin,
	}
}

// IsValid returns true if the box is finite and has positive dimensions
func (b BBox) IsValid() bool {
	for _, v := range [4]float64{b.X, b.Y, b.Width, b.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return b.Width > 0 && b.Height > 0
}

