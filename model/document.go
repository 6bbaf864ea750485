package model

// Document is a named sequence of pages
type Document struct {
	Name  string
	Pages []*Page
}

// NewDocument creates an empty document
func NewDocument(name string) *Document {
	return &Document{Name: name, Pages: make([]*Page, 0)}
}

// AddPage adds a page to the document
func (d *Document) AddPage(page *Page) {
	d.Pages = append(d.Pages, page)
}

// GetPage returns a page by number (1-indexed)
func (d *Document) GetPage(number int) *Page {
	if number < 1 || number > len(d.Pages) {
		return nil
	}
	return d.Pages[number-1]
}

// PageCount returns the number of pages
func (d *Document) PageCount() int {
	return len(d.Pages)
}
