package export

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/tsawler/tabby/model"
)

// xmlBox is a bounding box in whole points
type xmlBox struct {
	X1 int `xml:"x1,attr"`
	Y1 int `xml:"y1,attr"`
	X2 int `xml:"x2,attr"`
	Y2 int `xml:"y2,attr"`
}

func boxOf(b model.BBox) xmlBox {
	return xmlBox{X1: int(b.Left()), Y1: int(b.Bottom()), X2: int(b.Right()), Y2: int(b.Top())}
}

type xmlCell struct {
	ID       int     `xml:"id,attr"`
	StartRow int     `xml:"start-row,attr"`
	StartCol int     `xml:"start-col,attr"`
	EndRow   *int    `xml:"end-row,attr,omitempty"`
	EndCol   *int    `xml:"end-col,attr,omitempty"`
	BBox     *xmlBox `xml:"bounding-box"`
	Content  string  `xml:"content"`
}

type xmlRegion struct {
	ID           int       `xml:"id,attr"`
	Page         int       `xml:"page,attr"`
	ColIncrement *int      `xml:"col-increment,attr,omitempty"`
	RowIncrement *int      `xml:"row-increment,attr,omitempty"`
	BBox         *xmlBox   `xml:"bounding-box,omitempty"`
	Cells        []xmlCell `xml:"cell"`
}

type xmlTable struct {
	ID      int         `xml:"id,attr"`
	Caption string      `xml:"caption,attr,omitempty"`
	Regions []xmlRegion `xml:"region"`
}

type xmlBlock struct {
	BBox    xmlBox `xml:"bounding-box"`
	Content string `xml:"content"`
}

type xmlPage struct {
	Number int        `xml:"number,attr"`
	Blocks []xmlBlock `xml:"block"`
}

type xmlDocument struct {
	XMLName  xml.Name   `xml:"document"`
	Filename string     `xml:"filename,attr"`
	Tables   []xmlTable `xml:"table,omitempty"`
	Pages    []xmlPage  `xml:"page,omitempty"`
}

// TablesXML writes the cell structure of tables: one table element per
// table, one region per table, one cell per origin cell with its grid
// position, box and text. Spanning cells carry end-row and end-col.
func TablesXML(w io.Writer, filename string, tables []model.Table) error {
	doc := xmlDocument{Filename: filename}
	zero := 0
	for i, t := range tables {
		region := xmlRegion{ID: 1, Page: t.Page, ColIncrement: &zero, RowIncrement: &zero}
		id := 0
		for _, row := range t.Rows {
			for _, c := range row {
				if c.Spanned {
					continue
				}
				cell := xmlCell{
					ID:       id,
					StartRow: c.Row,
					StartCol: c.Col,
					BBox:     ptr(boxOf(c.BBox)),
					Content:  c.Text,
				}
				if c.RowSpan > 1 {
					cell.EndRow = ptr(c.Row + c.RowSpan - 1)
				}
				if c.ColSpan > 1 {
					cell.EndCol = ptr(c.Col + c.ColSpan - 1)
				}
				region.Cells = append(region.Cells, cell)
				id++
			}
		}
		doc.Tables = append(doc.Tables, xmlTable{ID: i + 1, Caption: t.Caption.Label, Regions: []xmlRegion{region}})
	}
	return encode(w, doc)
}

// RegionsXML writes where tables are: one table element per box, holding
// a region with the box's page and bounding box
func RegionsXML(w io.Writer, filename string, boxes []model.TableBox) error {
	doc := xmlDocument{Filename: filename}
	for i, b := range boxes {
		doc.Tables = append(doc.Tables, xmlTable{
			ID:      i + 1,
			Caption: b.Caption.Label,
			Regions: []xmlRegion{{ID: 1, Page: b.Page, BBox: ptr(boxOf(b.BBox))}},
		})
	}
	return encode(w, doc)
}

// PageBlocks are the text blocks of one page
type PageBlocks struct {
	Page   int
	Blocks []model.TextBlock
}

// BlocksXML writes text blocks grouped by page
func BlocksXML(w io.Writer, filename string, pages []PageBlocks) error {
	doc := xmlDocument{Filename: filename}
	for _, p := range pages {
		xp := xmlPage{Number: p.Page}
		for _, b := range p.Blocks {
			xp.Blocks = append(xp.Blocks, xmlBlock{BBox: boxOf(b.BBox), Content: b.Text})
		}
		doc.Pages = append(doc.Pages, xp)
	}
	return encode(w, doc)
}

func encode(w io.Writer, doc xmlDocument) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write xml header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode xml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode xml: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func ptr[T any](v T) *T {
	return &v
}
