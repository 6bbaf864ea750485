package tables

import (
	"math"
	"regexp"
	"strings"

	"github.com/tsawler/tabby/model"
)

var captionPattern = regexp.MustCompile(`(?i)^(table|tab\.)\s*([0-9]+|[ivxlc]+)\b`)

// CaptionLabel returns the normalised label ("table 3") of a caption-like
// text, or false
func CaptionLabel(text string) (string, bool) {
	m := captionPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return "", false
	}
	return "table " + strings.ToLower(m[2]), true
}

// findCaption looks for a caption block directly above the box, then
// directly below it. The nearest match wins; ties go to the lower index.
func (d *Detector) findCaption(box model.TableBox, ix *BlockIndex) model.CaptionRef {
	reach := d.config.CaptionDistanceRatio * boxLineHeight(box)
	if reach <= 0 {
		return model.NoCaption
	}

	above := model.NewBBoxFromEdges(box.BBox.Left(), box.BBox.Top(), box.BBox.Right(), box.BBox.Top()+reach)
	if ref, ok := nearestCaption(box, ix, above, true); ok {
		return ref
	}
	below := model.NewBBoxFromEdges(box.BBox.Left(), box.BBox.Bottom()-reach, box.BBox.Right(), box.BBox.Bottom())
	if ref, ok := nearestCaption(box, ix, below, false); ok {
		return ref
	}
	return model.NoCaption
}

func nearestCaption(box model.TableBox, ix *BlockIndex, area model.BBox, above bool) (model.CaptionRef, bool) {
	best := model.NoCaption
	bestDist := math.Inf(1)
	for _, i := range ix.Search(area) {
		b := ix.Block(i)
		label, ok := CaptionLabel(b.Text)
		if !ok {
			continue
		}
		var dist float64
		if above {
			dist = b.BBox.Bottom() - box.BBox.Top()
		} else {
			dist = box.BBox.Bottom() - b.BBox.Top()
		}
		if dist < -b.BBox.Height/2 {
			// inside the box
			continue
		}
		if dist < bestDist {
			best = model.CaptionRef{Index: i, Label: label}
			bestDist = dist
		}
	}
	return best, best.Index >= 0
}
