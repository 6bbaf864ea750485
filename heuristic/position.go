package heuristic

import (
	"fmt"
	"math"

	"github.com/tsawler/tabby/model"
)

// HorizontalPosition approves a row neighbour that starts at or after the
// current block, shares its row band and does not overlap it by more than
// MaxOverlapRatio of the smaller height.
type HorizontalPosition struct {
	MaxOverlapRatio float64
}

func (HorizontalPosition) Name() string             { return "horizontal_position" }
func (HorizontalPosition) Orientation() Orientation { return Vertical }

func (h HorizontalPosition) Validate() error {
	if h.MaxOverlapRatio < 0 || math.IsNaN(h.MaxOverlapRatio) {
		return fmt.Errorf("max overlap ratio %v must be >= 0", h.MaxOverlapRatio)
	}
	return nil
}

func (h HorizontalPosition) Test(a, b model.TextBlock) bool {
	if !a.BBox.IsValid() || !b.BBox.IsValid() {
		return false
	}
	if b.BBox.Left() < a.BBox.Left() {
		return false
	}
	if a.BBox.VerticalOverlap(b.BBox) <= 0 {
		return false
	}
	minHeight := math.Min(a.BBox.Height, b.BBox.Height)
	return a.BBox.HorizontalOverlap(b.BBox) <= h.MaxOverlapRatio*minHeight
}

// VerticalPosition approves a lower neighbour that sits directly under the
// current block: horizontally overlapping and no further below than
// MaxGapRatio line heights.
type VerticalPosition struct {
	MaxGapRatio float64
}

func (VerticalPosition) Name() string             { return "vertical_position" }
func (VerticalPosition) Orientation() Orientation { return Horizontal }

func (v VerticalPosition) Validate() error {
	if v.MaxGapRatio < 0 || math.IsNaN(v.MaxGapRatio) {
		return fmt.Errorf("max gap ratio %v must be >= 0", v.MaxGapRatio)
	}
	return nil
}

func (v VerticalPosition) Test(upper, lower model.TextBlock) bool {
	if !upper.BBox.IsValid() || !lower.BBox.IsValid() {
		return false
	}
	if upper.BBox.Center().Y <= lower.BBox.Center().Y {
		return false
	}
	if upper.BBox.HorizontalOverlap(lower.BBox) <= 0 {
		return false
	}
	lh := math.Min(upper.LineHeight(), lower.LineHeight())
	gap := upper.BBox.Bottom() - lower.BBox.Top()
	return gap >= -lh/2 && gap <= v.MaxGapRatio*lh
}

// Height approves stacking blocks whose line heights differ by at most
// Ratio.
type Height struct {
	Ratio float64
}

func (Height) Name() string             { return "height" }
func (Height) Orientation() Orientation { return Horizontal }

func (h Height) Validate() error {
	if h.Ratio < 1 || math.IsNaN(h.Ratio) {
		return fmt.Errorf("height ratio %v must be >= 1", h.Ratio)
	}
	return nil
}

func (h Height) Test(a, b model.TextBlock) bool {
	ha, hb := a.LineHeight(), b.LineHeight()
	if ha <= 0 || hb <= 0 {
		return false
	}
	return math.Max(ha, hb)/math.Min(ha, hb) <= h.Ratio
}
