package heuristic

import (
	"fmt"
	"math"
	"strings"

	"github.com/tsawler/tabby/model"
)

// EqualFontFamily approves neighbours set in the same font family. An
// unknown family matches anything.
type EqualFontFamily struct {
	Axis Orientation
}

func (EqualFontFamily) Name() string               { return "equal_font_family" }
func (e EqualFontFamily) Orientation() Orientation { return e.Axis }
func (EqualFontFamily) Validate() error            { return nil }

func (EqualFontFamily) Test(a, b model.TextBlock) bool {
	if a.Font.Family == "" || b.Font.Family == "" {
		return true
	}
	return strings.EqualFold(a.Font.Family, b.Font.Family)
}

// EqualFontAttributes approves neighbours with the same bold and italic
// flags.
type EqualFontAttributes struct {
	Axis Orientation
}

func (EqualFontAttributes) Name() string               { return "equal_font_attributes" }
func (e EqualFontAttributes) Orientation() Orientation { return e.Axis }
func (EqualFontAttributes) Validate() error            { return nil }

func (EqualFontAttributes) Test(a, b model.TextBlock) bool {
	return a.Font.SameStyle(b.Font)
}

// EqualFontSize approves neighbours whose sizes differ by at most
// Tolerance points. A zero size is treated as unknown.
type EqualFontSize struct {
	Axis      Orientation
	Tolerance float64
}

func (EqualFontSize) Name() string               { return "equal_font_size" }
func (e EqualFontSize) Orientation() Orientation { return e.Axis }

func (e EqualFontSize) Validate() error {
	if e.Tolerance < 0 || math.IsNaN(e.Tolerance) {
		return fmt.Errorf("font size tolerance %v must be >= 0", e.Tolerance)
	}
	return nil
}

func (e EqualFontSize) Test(a, b model.TextBlock) bool {
	if a.Font.Size == 0 || b.Font.Size == 0 {
		return true
	}
	return math.Abs(a.Font.Size-b.Font.Size) <= e.Tolerance
}
