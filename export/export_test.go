package export

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/tabby/model"
)

func sample() model.Table {
	t := model.NewTable(2, 2)
	t.Page = 4
	t.Caption = model.CaptionRef{Index: 2, Label: "table 1"}
	t.Grid = model.TableGrid{Rows: []float64{20, 10, 0}, Cols: []float64{0, 50, 100}}
	t.Rows[0][0].Text = "Header & co"
	t.Rows[0][0].ColSpan = 2
	t.Rows[0][1].Spanned = true
	t.Rows[1][0].Text = "a"
	t.Rows[1][1].Text = "b"
	for i := range t.Rows {
		for j := range t.Rows[i] {
			c := &t.Rows[i][j]
			c.BBox = t.Grid.SpanBBox(i, j, c.RowSpan, c.ColSpan)
		}
	}
	return *t
}

func TestHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, sample()))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<table>"))
	assert.Contains(t, out, `<td colspan="2">Header &amp; co</td>`)
	assert.Contains(t, out, "<td>a</td><td>b</td>")
	assert.Equal(t, 3, strings.Count(out, "<td"))
}

func TestHTMLDocument(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HTMLDocument(&buf, "report.pdf", []model.Table{sample()}))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>report.pdf</title>")
	assert.Contains(t, out, "<h2>Table 1 (page 4): table 1</h2>")
}

func TestTablesXML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TablesXML(&buf, "report.pdf", []model.Table{sample()}))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, xml.Header))
	assert.Contains(t, out, `<document filename="report.pdf">`)
	assert.Contains(t, out, `<table id="1" caption="table 1">`)
	assert.Contains(t, out, `<region id="1" page="4" col-increment="0" row-increment="0">`)
	assert.Contains(t, out, `<cell id="0" start-row="0" start-col="0" end-col="1">`)
	assert.Contains(t, out, `<bounding-box x1="0" y1="10" x2="100" y2="20">`)
	assert.Contains(t, out, "<content>Header &amp; co</content>")
	assert.Equal(t, 3, strings.Count(out, "<cell "))

	var doc xmlDocument
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Tables, 1)
	assert.Equal(t, "b", doc.Tables[0].Regions[0].Cells[2].Content)
	assert.Equal(t, 1, doc.Tables[0].Regions[0].Cells[2].StartCol)
}

func TestRegionsXML(t *testing.T) {
	boxes := []model.TableBox{
		{Page: 1, BBox: model.NewBBoxFromEdges(10.7, 20, 110, 220.2), Caption: model.NoCaption},
		{Page: 2, BBox: model.NewBBoxFromEdges(0, 0, 50, 50), Caption: model.NoCaption},
	}
	var buf bytes.Buffer
	require.NoError(t, RegionsXML(&buf, "a.pdf", boxes))
	out := buf.String()

	assert.Contains(t, out, `<table id="2">`)
	assert.Contains(t, out, `<region id="1" page="1">`)
	assert.Contains(t, out, `<bounding-box x1="10" y1="20" x2="110" y2="220">`)
	assert.NotContains(t, out, "<cell")
}

func TestBlocksXML(t *testing.T) {
	pages := []PageBlocks{{
		Page: 3,
		Blocks: []model.TextBlock{
			{Text: "Qty", BBox: model.NewBBoxFromEdges(1, 2, 3, 4)},
		},
	}}
	var buf bytes.Buffer
	require.NoError(t, BlocksXML(&buf, "a.pdf", pages))
	out := buf.String()

	assert.Contains(t, out, `<page number="3">`)
	assert.Contains(t, out, "<content>Qty</content>")
}

func TestText(t *testing.T) {
	var buf bytes.Buffer
	Text(&buf, sample())
	out := buf.String()

	assert.Contains(t, out, "table 1")
	assert.Contains(t, out, "Header & co")
	assert.Equal(t, 1, strings.Count(out, "Header & co"), "spanned cells are merged")
	assert.Contains(t, out, "│")
}
