package heuristic

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/tsawler/tabby/model"
)

var listMarker = regexp.MustCompile(`^([•◦▪‣·*\-–—]|\(?[0-9]{1,3}[.)]|\(?[a-zA-Z][.)]|\(?[ivxlcIVXLC]{1,5}[.)])$`)

// IsListMarker reports whether text is a bullet or enumeration marker
func IsListMarker(text string) bool {
	return listMarker.MatchString(strings.TrimSpace(text))
}

// SpaceWidth decides whether two row neighbours belong to the same phrase.
// The gap between them is measured against the median glyph width of the
// pair: a gap above Multiplier glyph widths separates them. With ListCheck
// set, a list marker is joined to the text that follows it regardless of
// the gap.
type SpaceWidth struct {
	Multiplier    float64
	SpaceFraction float64
	ListCheck     bool
}

func (SpaceWidth) Name() string             { return "space_width" }
func (SpaceWidth) Orientation() Orientation { return Vertical }

func (s SpaceWidth) Validate() error {
	if s.Multiplier <= 0 || math.IsNaN(s.Multiplier) {
		return fmt.Errorf("space width multiplier %v must be > 0", s.Multiplier)
	}
	if s.SpaceFraction < 0 || s.SpaceFraction > s.Multiplier {
		return fmt.Errorf("space fraction %v must be within [0, %v]", s.SpaceFraction, s.Multiplier)
	}
	return nil
}

func (s SpaceWidth) Test(a, b model.TextBlock) bool {
	if !a.BBox.IsValid() || !b.BBox.IsValid() {
		return false
	}
	if s.ListCheck && IsListMarker(a.Text) {
		return true
	}
	gap := b.BBox.Left() - a.BBox.Right()
	return gap <= s.Multiplier*GlyphWidth(a, b)
}

// Separator returns a space when the gap is wide enough to have held one
func (s SpaceWidth) Separator(a, b model.TextBlock) string {
	gap := b.BBox.Left() - a.BBox.Right()
	if gap >= s.SpaceFraction*GlyphWidth(a, b) && gap > 0 {
		return " "
	}
	if s.ListCheck && IsListMarker(a.Text) {
		return " "
	}
	return ""
}

// GlyphWidth estimates the median glyph width of a pair of blocks from
// their widths and rune counts. Blocks without text fall back to half
// their height.
func GlyphWidth(a, b model.TextBlock) float64 {
	wa, wb := glyphWidth(a), glyphWidth(b)
	return (wa + wb) / 2
}

func glyphWidth(b model.TextBlock) float64 {
	n := utf8.RuneCountInString(b.Text)
	if n == 0 {
		return b.BBox.Height / 2
	}
	return b.BBox.Width / float64(n)
}
