package tables

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/tabby/chunk"
	"github.com/tsawler/tabby/model"
)

func blk(text string, left, bottom, right, top float64) model.TextBlock {
	return model.TextBlock{
		BBox:      model.NewBBoxFromEdges(left, bottom, right, top),
		Text:      text,
		Font:      model.FontDescriptor{Family: "Helvetica", Size: 10},
		LineCount: 1,
	}
}

// row builds a line of blocks sharing the band [top-10, top]
func row(top float64, cells ...any) model.TextLine {
	var blocks []model.TextBlock
	for i := 0; i+2 < len(cells); i += 3 {
		blocks = append(blocks, blk(cells[i].(string), toF(cells[i+1]), top-10, toF(cells[i+2]), top))
	}
	return model.NewTextLine(blocks)
}

func toF(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case float64:
		return n
	}
	panic("not a number")
}

func result(lines ...model.TextLine) chunk.Result {
	res := chunk.Result{Lines: lines}
	for _, l := range lines {
		res.Blocks = append(res.Blocks, l.Blocks...)
	}
	return res
}

func detector(t *testing.T, cfg DetectorConfig) *Detector {
	t.Helper()
	d, err := NewDetector(cfg)
	require.NoError(t, err)
	return d
}

func priceLines() []model.TextLine {
	return []model.TextLine{
		row(700, "Item", 50, 80, "Qty", 150, 170, "Price", 250, 280),
		row(685, "Widget", 50, 85, "4", 160, 165, "1.50", 255, 275),
		row(670, "Gadget", 50, 85, "10", 155, 165, "0.25", 255, 275),
	}
}

func TestDetectorConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *DetectorConfig)
	}{
		{"min lines", func(c *DetectorConfig) { c.MinLines = 1 }},
		{"min blocks", func(c *DetectorConfig) { c.MinBlocksPerLine = 1 }},
		{"interior singles", func(c *DetectorConfig) { c.MaxInteriorSingleLines = -1 }},
		{"gap overlap", func(c *DetectorConfig) { c.MinGapOverlap = -1 }},
		{"line gap", func(c *DetectorConfig) { c.MaxLineGapRatio = -0.5 }},
		{"caption distance", func(c *DetectorConfig) { c.CaptionDistanceRatio = -3 }},
	}

	require.NoError(t, DefaultDetectorConfig().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultDetectorConfig()
			tt.modify(&cfg)
			_, err := NewDetector(cfg)
			assert.Error(t, err)
		})
	}
}

func TestDetectEmpty(t *testing.T) {
	d := detector(t, DefaultDetectorConfig())
	assert.Nil(t, d.Detect(1, chunk.Result{}))
	assert.Equal(t, "aligned-lines", d.Name())
}

func TestDetectAlignedRows(t *testing.T) {
	d := detector(t, DefaultDetectorConfig())
	lines := append([]model.TextLine{row(725, "Table 1", 50, 90)}, priceLines()...)
	lines = append(lines, row(610, "A paragraph of running text below the table", 50, 300))

	boxes := d.Detect(3, result(lines...))
	require.Len(t, boxes, 1)

	box := boxes[0]
	assert.Equal(t, 3, box.Page)
	assert.Equal(t, model.NewBBoxFromEdges(50, 660, 280, 700), box.BBox)
	require.Len(t, box.Regions, 1)
	assert.Len(t, box.Lines(), 3)

	require.True(t, box.HasCaption())
	assert.Equal(t, 0, box.Caption.Index)
	assert.Equal(t, "table 1", box.Caption.Label)
}

func TestDetectCaptionBelow(t *testing.T) {
	d := detector(t, DefaultDetectorConfig())
	lines := append(priceLines(), row(645, "Tab. IV Prices", 50, 120))

	boxes := d.Detect(1, result(lines...))
	require.Len(t, boxes, 1)
	assert.Equal(t, 9, boxes[0].Caption.Index)
	assert.Equal(t, "table iv", boxes[0].Caption.Label)
}

func TestDetectNoCaption(t *testing.T) {
	d := detector(t, DefaultDetectorConfig())
	lines := append([]model.TextLine{row(725, "Results", 50, 90)}, priceLines()...)

	boxes := d.Detect(1, result(lines...))
	require.Len(t, boxes, 1)
	assert.False(t, boxes[0].HasCaption())
	assert.Equal(t, model.NoCaption, boxes[0].Caption)
}

func TestDetectRejects(t *testing.T) {
	tests := []struct {
		name  string
		lines []model.TextLine
	}{
		{
			"single aligned line",
			[]model.TextLine{
				row(700, "Item", 50, 80, "Qty", 150, 170),
				row(685, "A sentence that fills the whole width", 50, 300),
			},
		},
		{
			"gutters do not line up",
			[]model.TextLine{
				row(700, "A", 0, 10, "B", 100, 110),
				row(685, "C", 0, 150, "D", 160, 170),
			},
		},
		{
			"lines too far apart",
			[]model.TextLine{
				row(700, "Item", 50, 80, "Qty", 150, 170),
				row(600, "Widget", 50, 85, "4", 160, 165),
			},
		},
		{
			"degenerate block",
			[]model.TextLine{
				row(700, "Item", 50, 80, "Qty", 150, 150),
				row(685, "Widget", 50, 85, "4", 160, 160),
			},
		},
	}

	d := detector(t, DefaultDetectorConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, d.Detect(1, result(tt.lines...)))
		})
	}
}

func TestDetectInteriorSingleLine(t *testing.T) {
	d := detector(t, DefaultDetectorConfig())
	lines := []model.TextLine{
		row(700, "Item", 50, 80, "Qty", 150, 170),
		row(685, "Fruit", 50, 80),
		row(670, "Apple", 50, 80, "3", 155, 165),
	}

	boxes := d.Detect(1, result(lines...))
	require.Len(t, boxes, 1)
	assert.Len(t, boxes[0].Lines(), 3)
}

func TestDetectRegionGrouping(t *testing.T) {
	lines := []model.TextLine{
		row(700, "a", 0, 10, "b", 50, 60),
		row(685, "c", 0, 10, "d", 50, 60),
		row(670, "note one", 0, 60),
		row(655, "note two", 0, 60),
		row(640, "e", 0, 10, "f", 50, 60),
		row(625, "g", 0, 10, "h", 50, 60),
	}

	t.Run("separate", func(t *testing.T) {
		boxes := detector(t, DefaultDetectorConfig()).Detect(1, result(lines...))
		require.Len(t, boxes, 2)
		assert.Greater(t, boxes[0].BBox.Top(), boxes[1].BBox.Top())
	})

	t.Run("merged", func(t *testing.T) {
		cfg := DefaultDetectorConfig()
		cfg.RegionMergeGapRatio = 4
		boxes := detector(t, cfg).Detect(1, result(lines...))
		require.Len(t, boxes, 1)
		assert.Len(t, boxes[0].Regions, 2)
		assert.Len(t, boxes[0].Lines(), 4)
	})
}

func TestCaptionLabel(t *testing.T) {
	tests := []struct {
		text  string
		label string
		ok    bool
	}{
		{"Table 3: Results", "table 3", true},
		{"  TABLE 12", "table 12", true},
		{"Tab. IV", "table iv", true},
		{"table2", "table 2", true},
		{"Tablet 3", "", false},
		{"Table of contents", "", false},
		{"See Table 1", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			label, ok := CaptionLabel(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.label, label)
		})
	}
}

func TestBlockIndex(t *testing.T) {
	blocks := []model.TextBlock{
		blk("a", 0, 0, 10, 10),
		blk("broken", 5, 5, 5, 5),
		blk("b", 20, 0, 30, 10),
		blk("c", 100, 100, 110, 110),
	}
	ix := NewBlockIndex(blocks)

	assert.Equal(t, 4, ix.Len())
	assert.Equal(t, "b", ix.Block(2).Text)
	assert.Equal(t, []int{0, 2}, ix.Search(model.NewBBoxFromEdges(0, 0, 40, 10)))
	assert.Empty(t, ix.Search(model.NewBBoxFromEdges(50, 50, 60, 60)))

	within := ix.Within(model.NewBBoxFromEdges(0, 0, 26, 10))
	require.Len(t, within, 2)
	assert.Equal(t, "a", within[0].Text)
	assert.Equal(t, "b", within[1].Text)

	within = ix.Within(model.NewBBoxFromEdges(0, 0, 24, 10))
	require.Len(t, within, 1, "a block whose centre is outside is excluded")
	assert.Equal(t, "a", within[0].Text)
}
