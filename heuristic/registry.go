package heuristic

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownHeuristic is returned by Build for an unregistered name
var ErrUnknownHeuristic = errors.New("unknown heuristic")

// Thresholds holds the calibrated constants of the concrete heuristics
type Thresholds struct {
	// Gap above this many glyph widths separates row neighbours
	SpaceWidthMultiplier float64

	// Gap at or above this many glyph widths is joined with a space
	SpaceFraction float64

	// Allowed horizontal overlap, as a fraction of the smaller height
	MaxOverlapRatio float64

	// Font size difference tolerated between neighbours (points)
	FontSizeTolerance float64

	// Maximum ratio between line heights of stacked blocks
	HeightRatio float64

	// Maximum vertical gap between stacked blocks, in line heights
	MaxLineGapRatio float64

	// Cut detection thresholds
	CutRatio         float64
	CutMinDeltaRatio float64
}

// DefaultThresholds returns the calibrated defaults
func DefaultThresholds() Thresholds {
	return Thresholds{
		SpaceWidthMultiplier: 2.0,
		SpaceFraction:        0.3,
		MaxOverlapRatio:      0.25,
		FontSizeTolerance:    0.5,
		HeightRatio:          1.5,
		MaxLineGapRatio:      0.5,
		CutRatio:             1.5,
		CutMinDeltaRatio:     0.1,
	}
}

// DefaultOrder is the heuristic order of both chunking profiles
var DefaultOrder = []string{
	"horizontal_position",
	"space_width",
	"vertical_position",
	"height",
	"cut_in_after",
	"cut_in_before",
	"equal_font_family",
	"equal_font_attributes",
	"equal_font_size",
}

// Factory builds a heuristic from thresholds. listCheck only affects
// heuristics that special-case list markers.
type Factory func(th Thresholds, listCheck bool) Heuristic

// Registry maps heuristic names to factories
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates a new heuristic registry
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register registers a factory under name
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// Get retrieves a factory by name
func (r *Registry) Get(name string) Factory {
	return r.factories[name]
}

// List returns all registered names, sorted
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build instantiates the named heuristics in order
func (r *Registry) Build(names []string, th Thresholds, listCheck bool) ([]Heuristic, error) {
	hs := make([]Heuristic, 0, len(names))
	for _, name := range names {
		f := r.Get(name)
		if f == nil {
			return nil, fmt.Errorf("%q: %w", name, ErrUnknownHeuristic)
		}
		hs = append(hs, f(th, listCheck))
	}
	return hs, nil
}

// Global registry
var globalRegistry = NewRegistry()

// Register registers a factory globally
func Register(name string, f Factory) {
	globalRegistry.Register(name, f)
}

// List returns all globally registered names
func List() []string {
	return globalRegistry.List()
}

// Build instantiates globally registered heuristics in order
func Build(names []string, th Thresholds, listCheck bool) ([]Heuristic, error) {
	return globalRegistry.Build(names, th, listCheck)
}

func init() {
	Register("horizontal_position", func(th Thresholds, _ bool) Heuristic {
		return HorizontalPosition{MaxOverlapRatio: th.MaxOverlapRatio}
	})
	Register("space_width", func(th Thresholds, listCheck bool) Heuristic {
		return SpaceWidth{Multiplier: th.SpaceWidthMultiplier, SpaceFraction: th.SpaceFraction, ListCheck: listCheck}
	})
	Register("vertical_position", func(th Thresholds, _ bool) Heuristic {
		return VerticalPosition{MaxGapRatio: th.MaxLineGapRatio}
	})
	Register("height", func(th Thresholds, _ bool) Heuristic {
		return Height{Ratio: th.HeightRatio}
	})
	Register("cut_in_after", func(th Thresholds, _ bool) Heuristic {
		return CutInAfter{Axis: Horizontal, CutConfig: CutConfig{Ratio: th.CutRatio, MinDeltaRatio: th.CutMinDeltaRatio}}
	})
	Register("cut_in_before", func(th Thresholds, _ bool) Heuristic {
		return CutInBefore{Axis: Horizontal, CutConfig: CutConfig{Ratio: th.CutRatio, MinDeltaRatio: th.CutMinDeltaRatio}}
	})
	Register("equal_font_family", func(Thresholds, bool) Heuristic {
		return EqualFontFamily{Axis: Vertical}
	})
	Register("equal_font_attributes", func(Thresholds, bool) Heuristic {
		return EqualFontAttributes{Axis: Vertical}
	})
	Register("equal_font_size", func(th Thresholds, _ bool) Heuristic {
		return EqualFontSize{Axis: Vertical, Tolerance: th.FontSizeTolerance}
	})
}
