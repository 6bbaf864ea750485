package tables

import (
	"fmt"
	"math"
)

// DetectorConfig holds detector configuration
type DetectorConfig struct {
	// Minimum aligned multi-block lines for a region
	MinLines int

	// Minimum blocks for a line to count as multi-column
	MinBlocksPerLine int

	// Minimum shared whitespace between gaps of consecutive lines (points)
	MinGapOverlap float64

	// Single-block lines tolerated between aligned lines of a region
	MaxInteriorSingleLines int

	// Lines further apart than this many line heights end a region
	MaxLineGapRatio float64

	// Regions closer than this many line heights share a TableBox
	RegionMergeGapRatio float64

	// Caption search distance above and below a box, in line heights
	CaptionDistanceRatio float64
}

// DefaultDetectorConfig returns default configuration
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		MinLines:               2,
		MinBlocksPerLine:       2,
		MinGapOverlap:          1.0,
		MaxInteriorSingleLines: 1,
		MaxLineGapRatio:        2.5,
		RegionMergeGapRatio:    1.5,
		CaptionDistanceRatio:   3.0,
	}
}

// Validate checks the configuration
func (c DetectorConfig) Validate() error {
	if c.MinLines < 2 {
		return fmt.Errorf("min lines %d must be >= 2", c.MinLines)
	}
	if c.MinBlocksPerLine < 2 {
		return fmt.Errorf("min blocks per line %d must be >= 2", c.MinBlocksPerLine)
	}
	if c.MaxInteriorSingleLines < 0 {
		return fmt.Errorf("max interior single lines %d must be >= 0", c.MaxInteriorSingleLines)
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"min gap overlap", c.MinGapOverlap},
		{"max line gap ratio", c.MaxLineGapRatio},
		{"region merge gap ratio", c.RegionMergeGapRatio},
		{"caption distance ratio", c.CaptionDistanceRatio},
	} {
		if f.v < 0 || math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%s %v must be a finite value >= 0", f.name, f.v)
		}
	}
	return nil
}

// RecognizerConfig holds recognizer configuration
type RecognizerConfig struct {
	// Tolerance for clustering column-boundary candidates (points)
	EdgeTolerance float64
}

// DefaultRecognizerConfig returns default configuration
func DefaultRecognizerConfig() RecognizerConfig {
	return RecognizerConfig{EdgeTolerance: 2.0}
}

// Validate checks the configuration
func (c RecognizerConfig) Validate() error {
	if c.EdgeTolerance < 0 || math.IsNaN(c.EdgeTolerance) || math.IsInf(c.EdgeTolerance, 0) {
		return fmt.Errorf("edge tolerance %v must be a finite value >= 0", c.EdgeTolerance)
	}
	return nil
}

// FilterConfig holds the false-positive floor
type FilterConfig struct {
	MinRows int
	MinCols int
}

// DefaultFilterConfig returns default configuration
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{MinRows: 2, MinCols: 2}
}

// Validate checks the configuration
func (c FilterConfig) Validate() error {
	if c.MinRows < 1 || c.MinCols < 1 {
		return fmt.Errorf("min rows %d and min cols %d must be >= 1", c.MinRows, c.MinCols)
	}
	return nil
}
