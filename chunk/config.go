package chunk

import (
	"errors"
	"fmt"
	"math"

	"github.com/tsawler/tabby/heuristic"
)

// ErrEmptyReplacement is returned when StringsToReplace holds an empty
// string
var ErrEmptyReplacement = errors.New("strings to replace contains an empty string")

// DefaultStringsToReplace are removed from block text by both presets:
// bullets, a private-use bullet glyph, non-breaking space, underscores
// and STX control characters.
var DefaultStringsToReplace = []string{"•", "\uf0b7", "\u00a0", "_", "\u0002"}

// Config holds the chunk processor configuration
type Config struct {
	// Heuristics of both orientations in evaluation order. The processor
	// splits them by orientation and keeps the relative order.
	Heuristics []heuristic.Heuristic

	// Literal substrings removed from final block text
	StringsToReplace []string

	// Strip trailing colons from block text
	RemoveColons bool

	// Split multi-rune fragments into per-glyph fragments before merging
	CharacterChunks bool

	// Allowed horizontal overlap between blocks of one line, as a
	// fraction of the smaller block height
	LineTolerance float64
}

// Validate checks the configuration without building chains
func (c Config) Validate() error {
	if len(c.Heuristics) == 0 {
		return heuristic.ErrEmptyChain
	}
	for i, s := range c.StringsToReplace {
		if s == "" {
			return fmt.Errorf("position %d: %w", i, ErrEmptyReplacement)
		}
	}
	if c.LineTolerance < 0 || math.IsNaN(c.LineTolerance) {
		return fmt.Errorf("line tolerance %v must be >= 0", c.LineTolerance)
	}
	return nil
}

// Preset builds a configuration from registered heuristic names.
// Detection presets strip colons and join list markers to their text.
func Preset(order []string, th heuristic.Thresholds, detection bool) (Config, error) {
	hs, err := heuristic.Build(order, th, detection)
	if err != nil {
		return Config{}, err
	}
	return Config{
		Heuristics:       hs,
		StringsToReplace: append([]string(nil), DefaultStringsToReplace...),
		RemoveColons:     detection,
		LineTolerance:    th.MaxOverlapRatio,
	}, nil
}

// DetectionConfig returns the profile used to locate tables: colons are
// stripped and list markers stay attached to their items.
func DetectionConfig(th heuristic.Thresholds) Config {
	cfg, err := Preset(heuristic.DefaultOrder, th, true)
	if err != nil {
		panic(err)
	}
	return cfg
}

// RecognitionConfig returns the profile used to fill table cells: colons
// are kept and list markers get no special treatment.
func RecognitionConfig(th heuristic.Thresholds) Config {
	cfg, err := Preset(heuristic.DefaultOrder, th, false)
	if err != nil {
		panic(err)
	}
	return cfg
}
