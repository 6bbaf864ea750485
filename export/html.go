package export

import (
	"fmt"
	"io"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tsawler/tabby/model"
)

// HTML writes a table as an HTML table element. Spanning cells get rowspan
// and colspan; the positions they cover are left out.
func HTML(w io.Writer, t model.Table) error {
	if err := html.Render(w, tableNode(t)); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

// HTMLDocument writes a complete page holding every table, each preceded
// by a heading naming its page and caption
func HTMLDocument(w io.Writer, title string, tables []model.Table) error {
	body := element(atom.Body)
	for i, t := range tables {
		heading := fmt.Sprintf("Table %d (page %d)", i+1, t.Page)
		if t.Caption.Label != "" {
			heading += ": " + t.Caption.Label
		}
		h := element(atom.H2)
		h.AppendChild(textNode(heading))
		body.AppendChild(h)
		body.AppendChild(tableNode(t))
	}

	head := element(atom.Head)
	meta := element(atom.Meta)
	meta.Attr = []html.Attribute{{Key: "charset", Val: "utf-8"}}
	head.AppendChild(meta)
	titleNode := element(atom.Title)
	titleNode.AppendChild(textNode(title))
	head.AppendChild(titleNode)

	root := element(atom.Html)
	root.AppendChild(head)
	root.AppendChild(body)

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(root)
	if err := html.Render(w, doc); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

func tableNode(t model.Table) *html.Node {
	table := element(atom.Table)
	body := element(atom.Tbody)
	table.AppendChild(body)

	for _, row := range t.Rows {
		tr := element(atom.Tr)
		for _, c := range row {
			if c.Spanned {
				continue
			}
			td := element(atom.Td)
			if c.RowSpan > 1 {
				td.Attr = append(td.Attr, html.Attribute{Key: "rowspan", Val: strconv.Itoa(c.RowSpan)})
			}
			if c.ColSpan > 1 {
				td.Attr = append(td.Attr, html.Attribute{Key: "colspan", Val: strconv.Itoa(c.ColSpan)})
			}
			td.AppendChild(textNode(c.Text))
			tr.AppendChild(td)
		}
		body.AppendChild(tr)
	}
	return table
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
