package tables

import (
	"fmt"
	"math"
	"sort"

	"github.com/tsawler/tabby/chunk"
	"github.com/tsawler/tabby/model"
)

// interval is a closed range on one axis
type interval struct {
	lo, hi float64
}

func (i interval) overlap(o interval) float64 {
	return math.Min(i.hi, o.hi) - math.Max(i.lo, o.lo)
}

func (i interval) width() float64 { return i.hi - i.lo }

// Detector locates candidate tables on a page. It only decides where a
// table plausibly is; columns are left to the Recognizer.
type Detector struct {
	config DetectorConfig
}

// NewDetector creates a detector with the given configuration
func NewDetector(config DetectorConfig) (*Detector, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("detector config: %w", err)
	}
	return &Detector{config: config}, nil
}

// Name returns the detector name
func (d *Detector) Name() string {
	return "aligned-lines"
}

// Config returns the detector configuration
func (d *Detector) Config() DetectorConfig {
	return d.config
}

// Detect finds table boxes in a page processed with the detection
// profile. Boxes are returned top to bottom.
func (d *Detector) Detect(page int, res chunk.Result) []model.TableBox {
	if len(res.Lines) == 0 {
		return nil
	}

	regions := d.findRegions(res.Lines)
	boxes := d.groupRegions(page, regions)
	if len(boxes) == 0 {
		return nil
	}

	ix := NewBlockIndex(res.Blocks)
	for i := range boxes {
		boxes[i].Caption = d.findCaption(boxes[i], ix)
	}
	return boxes
}

// lineInfo caches the per-line measurements used while scanning
type lineInfo struct {
	line  model.TextLine
	gaps  []interval
	multi bool
}

func (d *Detector) describe(l model.TextLine) lineInfo {
	var blocks []model.TextBlock
	for _, b := range l.Blocks {
		if b.BBox.IsValid() {
			blocks = append(blocks, b)
		}
	}
	info := lineInfo{line: l, multi: len(blocks) >= d.config.MinBlocksPerLine}
	for i := 0; i+1 < len(blocks); i++ {
		g := interval{lo: blocks[i].BBox.Right(), hi: blocks[i+1].BBox.Left()}
		if g.width() > 0 {
			info.gaps = append(info.gaps, g)
		}
	}
	if len(info.gaps) == 0 {
		info.multi = false
	}
	return info
}

// aligned reports whether two lines share a column gutter
func (d *Detector) aligned(a, b lineInfo) bool {
	for _, ga := range a.gaps {
		for _, gb := range b.gaps {
			if ga.overlap(gb) >= d.config.MinGapOverlap {
				return true
			}
		}
	}
	return false
}

// findRegions scans lines top to bottom and collects runs of aligned
// multi-block lines. Up to MaxInteriorSingleLines single-block lines are
// kept when an aligned line follows them.
func (d *Detector) findRegions(lines []model.TextLine) []model.TableRegion {
	var regions []model.TableRegion
	var band, pending []model.TextLine
	var last lineInfo
	multi := 0

	flush := func() {
		if multi >= d.config.MinLines {
			regions = append(regions, model.NewTableRegion(band))
		}
		band, pending, multi = nil, nil, 0
	}

	for i, l := range lines {
		info := d.describe(l)

		if len(band) > 0 {
			prev := lines[i-1]
			lh := math.Min(lineHeight(prev), lineHeight(l))
			if prev.BBox.Bottom()-l.BBox.Top() > d.config.MaxLineGapRatio*lh {
				flush()
			}
		}

		switch {
		case info.multi && len(band) == 0:
			band, last, multi = []model.TextLine{l}, info, 1
		case info.multi && d.aligned(last, info):
			band = append(band, pending...)
			band = append(band, l)
			pending, last = nil, info
			multi++
		case info.multi:
			flush()
			band, last, multi = []model.TextLine{l}, info, 1
		case len(band) > 0 && len(pending) < d.config.MaxInteriorSingleLines:
			pending = append(pending, l)
		default:
			flush()
		}
	}
	flush()
	return regions
}

// groupRegions merges vertically adjacent, horizontally overlapping
// regions into TableBoxes
func (d *Detector) groupRegions(page int, regions []model.TableRegion) []model.TableBox {
	var boxes []model.TableBox
	for _, r := range regions {
		n := len(boxes)
		if n > 0 {
			prev := &boxes[n-1]
			lh := math.Min(regionLineHeight(prev.Regions[len(prev.Regions)-1]), regionLineHeight(r))
			gap := prev.BBox.Bottom() - r.BBox.Top()
			if gap <= d.config.RegionMergeGapRatio*lh && prev.BBox.HorizontalOverlap(r.BBox) > 0 {
				prev.Regions = append(prev.Regions, r)
				prev.BBox = prev.BBox.Union(r.BBox)
				continue
			}
		}
		boxes = append(boxes, model.TableBox{
			BBox:    r.BBox,
			Page:    page,
			Regions: []model.TableRegion{r},
			Caption: model.NoCaption,
		})
	}
	return boxes
}

// lineHeight is the median single-line height of a line's blocks
func lineHeight(l model.TextLine) float64 {
	hs := make([]float64, 0, len(l.Blocks))
	for _, b := range l.Blocks {
		if b.BBox.IsValid() {
			hs = append(hs, b.LineHeight())
		}
	}
	if len(hs) == 0 {
		return l.BBox.Height
	}
	return median(hs)
}

func regionLineHeight(r model.TableRegion) float64 {
	hs := make([]float64, 0, len(r.Lines))
	for _, l := range r.Lines {
		hs = append(hs, lineHeight(l))
	}
	return median(hs)
}

func boxLineHeight(b model.TableBox) float64 {
	hs := make([]float64, 0, len(b.Regions))
	for _, r := range b.Regions {
		hs = append(hs, regionLineHeight(r))
	}
	return median(hs)
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
