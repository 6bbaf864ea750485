package config

import (
	"fmt"

	"github.com/tsawler/tabby/chunk"
	"github.com/tsawler/tabby/heuristic"
	"github.com/tsawler/tabby/tables"
)

// Settings holds every tunable of the extraction pipeline
type Settings struct {
	Chunk      ChunkSettings      `koanf:"chunk"`
	Detector   DetectorSettings   `koanf:"detector"`
	Recognizer RecognizerSettings `koanf:"recognizer"`
	Filter     FilterSettings     `koanf:"filter"`
	Log        LogSettings        `koanf:"log"`

	// Page worker pool size; 0 uses GOMAXPROCS
	Workers int `koanf:"workers" validate:"min=0"`
}

// ChunkSettings configure text block merging. Order names the heuristics
// of both profiles in evaluation order.
type ChunkSettings struct {
	Order                []string `koanf:"order"                  validate:"min=1,dive,required"`
	SpaceWidthMultiplier float64  `koanf:"space_width_multiplier" validate:"gt=0"`
	SpaceFraction        float64  `koanf:"space_fraction"         validate:"gte=0,ltefield=SpaceWidthMultiplier"`
	MaxOverlapRatio      float64  `koanf:"max_overlap_ratio"      validate:"gte=0"`
	FontSizeTolerance    float64  `koanf:"font_size_tolerance"    validate:"gte=0"`
	HeightRatio          float64  `koanf:"height_ratio"           validate:"gte=1"`
	MaxLineGapRatio      float64  `koanf:"max_line_gap_ratio"     validate:"gte=0"`
	CutRatio             float64  `koanf:"cut_ratio"              validate:"gte=1"`
	CutMinDeltaRatio     float64  `koanf:"cut_min_delta_ratio"    validate:"gte=0"`
	CharacterChunks      bool     `koanf:"character_chunks"`
}

type DetectorSettings struct {
	MinLines               int     `koanf:"min_lines"                 validate:"min=2"`
	MinBlocksPerLine       int     `koanf:"min_blocks_per_line"       validate:"min=2"`
	MinGapOverlap          float64 `koanf:"min_gap_overlap"           validate:"gte=0"`
	MaxInteriorSingleLines int     `koanf:"max_interior_single_lines" validate:"min=0"`
	MaxLineGapRatio        float64 `koanf:"max_line_gap_ratio"        validate:"gte=0"`
	RegionMergeGapRatio    float64 `koanf:"region_merge_gap_ratio"    validate:"gte=0"`
	CaptionDistanceRatio   float64 `koanf:"caption_distance_ratio"    validate:"gte=0"`
}

type RecognizerSettings struct {
	EdgeTolerance float64 `koanf:"edge_tolerance" validate:"gte=0"`
}

type FilterSettings struct {
	MinRows int `koanf:"min_rows" validate:"min=1"`
	MinCols int `koanf:"min_cols" validate:"min=1"`
}

type LogSettings struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error disabled"`
	JSON  bool   `koanf:"json"`
}

// Default returns the calibrated defaults
func Default() *Settings {
	th := heuristic.DefaultThresholds()
	det := tables.DefaultDetectorConfig()
	rec := tables.DefaultRecognizerConfig()
	fil := tables.DefaultFilterConfig()

	return &Settings{
		Chunk: ChunkSettings{
			Order:                append([]string(nil), heuristic.DefaultOrder...),
			SpaceWidthMultiplier: th.SpaceWidthMultiplier,
			SpaceFraction:        th.SpaceFraction,
			MaxOverlapRatio:      th.MaxOverlapRatio,
			FontSizeTolerance:    th.FontSizeTolerance,
			HeightRatio:          th.HeightRatio,
			MaxLineGapRatio:      th.MaxLineGapRatio,
			CutRatio:             th.CutRatio,
			CutMinDeltaRatio:     th.CutMinDeltaRatio,
		},
		Detector: DetectorSettings{
			MinLines:               det.MinLines,
			MinBlocksPerLine:       det.MinBlocksPerLine,
			MinGapOverlap:          det.MinGapOverlap,
			MaxInteriorSingleLines: det.MaxInteriorSingleLines,
			MaxLineGapRatio:        det.MaxLineGapRatio,
			RegionMergeGapRatio:    det.RegionMergeGapRatio,
			CaptionDistanceRatio:   det.CaptionDistanceRatio,
		},
		Recognizer: RecognizerSettings{EdgeTolerance: rec.EdgeTolerance},
		Filter:     FilterSettings{MinRows: fil.MinRows, MinCols: fil.MinCols},
		Log:        LogSettings{Level: "info"},
	}
}

// Thresholds returns the heuristic thresholds
func (s *Settings) Thresholds() heuristic.Thresholds {
	c := s.Chunk
	return heuristic.Thresholds{
		SpaceWidthMultiplier: c.SpaceWidthMultiplier,
		SpaceFraction:        c.SpaceFraction,
		MaxOverlapRatio:      c.MaxOverlapRatio,
		FontSizeTolerance:    c.FontSizeTolerance,
		HeightRatio:          c.HeightRatio,
		MaxLineGapRatio:      c.MaxLineGapRatio,
		CutRatio:             c.CutRatio,
		CutMinDeltaRatio:     c.CutMinDeltaRatio,
	}
}

// DetectionChunk returns the chunk profile used to locate tables
func (s *Settings) DetectionChunk() (chunk.Config, error) {
	return s.chunkConfig(true)
}

// RecognitionChunk returns the chunk profile used to fill cells
func (s *Settings) RecognitionChunk() (chunk.Config, error) {
	return s.chunkConfig(false)
}

func (s *Settings) chunkConfig(detection bool) (chunk.Config, error) {
	cfg, err := chunk.Preset(s.Chunk.Order, s.Thresholds(), detection)
	if err != nil {
		return chunk.Config{}, fmt.Errorf("chunk order: %w", err)
	}
	cfg.CharacterChunks = s.Chunk.CharacterChunks
	return cfg, nil
}

func (s *Settings) DetectorConfig() tables.DetectorConfig {
	d := s.Detector
	return tables.DetectorConfig{
		MinLines:               d.MinLines,
		MinBlocksPerLine:       d.MinBlocksPerLine,
		MinGapOverlap:          d.MinGapOverlap,
		MaxInteriorSingleLines: d.MaxInteriorSingleLines,
		MaxLineGapRatio:        d.MaxLineGapRatio,
		RegionMergeGapRatio:    d.RegionMergeGapRatio,
		CaptionDistanceRatio:   d.CaptionDistanceRatio,
	}
}

func (s *Settings) RecognizerConfig() tables.RecognizerConfig {
	return tables.RecognizerConfig{EdgeTolerance: s.Recognizer.EdgeTolerance}
}

func (s *Settings) FilterConfig() tables.FilterConfig {
	return tables.FilterConfig{MinRows: s.Filter.MinRows, MinCols: s.Filter.MinCols}
}
