package heuristic

import (
	"fmt"
	"math"

	"github.com/tsawler/tabby/model"
)

// CutConfig holds the thresholds shared by the cut detectors. A gap is a
// cut when it exceeds Ratio times the reference gap and is wider than it
// by more than MinDeltaRatio line heights.
type CutConfig struct {
	Ratio         float64
	MinDeltaRatio float64
}

func (c CutConfig) validate() error {
	if c.Ratio < 1 || math.IsNaN(c.Ratio) {
		return fmt.Errorf("cut ratio %v must be >= 1", c.Ratio)
	}
	if c.MinDeltaRatio < 0 || math.IsNaN(c.MinDeltaRatio) {
		return fmt.Errorf("cut minimum delta ratio %v must be >= 0", c.MinDeltaRatio)
	}
	return nil
}

// isCut compares the gap a→b against the reference gap refA→refB
func (c CutConfig) isCut(o Orientation, a, b, refA, refB model.TextBlock) bool {
	tg := gap(o, a, b)
	rg := gap(o, refA, refB)
	lh := math.Min(extent(o, a), extent(o, b))
	return tg > c.Ratio*rg && tg-rg > c.MinDeltaRatio*lh
}

// gap returns the non-negative whitespace between consecutive blocks
func gap(o Orientation, a, b model.TextBlock) float64 {
	var g float64
	if o == Horizontal {
		g = a.BBox.Bottom() - b.BBox.Top()
	} else {
		g = b.BBox.Left() - a.BBox.Right()
	}
	return math.Max(g, 0)
}

func extent(o Orientation, b model.TextBlock) float64 {
	if o == Horizontal {
		return b.LineHeight()
	}
	return b.BBox.Height
}

// CutInAfter refuses a boundary whose gap is much wider than the gap
// before the current block.
type CutInAfter struct {
	Axis Orientation
	CutConfig
}

func (CutInAfter) Name() string               { return "cut_in_after" }
func (c CutInAfter) Orientation() Orientation { return c.Axis }
func (CutInAfter) Focus() Focus               { return FocusCurrent }
func (c CutInAfter) Validate() error          { return c.validate() }

func (c CutInAfter) Test(prev, cur, next model.TextBlock) bool {
	return !c.isCut(c.Axis, cur, next, prev, cur)
}

// CutInBefore refuses a boundary whose gap is much wider than the gap
// after the next block.
type CutInBefore struct {
	Axis Orientation
	CutConfig
}

func (CutInBefore) Name() string               { return "cut_in_before" }
func (c CutInBefore) Orientation() Orientation { return c.Axis }
func (CutInBefore) Focus() Focus               { return FocusNext }
func (c CutInBefore) Validate() error          { return c.validate() }

func (c CutInBefore) Test(cur, next, after model.TextBlock) bool {
	return !c.isCut(c.Axis, cur, next, next, after)
}
