package source

import (
	"errors"
	"fmt"

	"github.com/tsawler/tabby/model"
)

// ErrPageOutOfRange is returned for page numbers outside 1..PageCount
var ErrPageOutOfRange = errors.New("page out of range")

// Source delivers the fragment stream of each page of one document.
// Pages are numbered from 1. Implementations must be safe for concurrent
// calls to Page.
type Source interface {
	Name() string
	PageCount() int
	Page(number int) (*model.Page, error)
	Close() error
}

// Memory is a Source over pages already held in memory
type Memory struct {
	doc *model.Document
}

// NewMemory creates a source from a document
func NewMemory(doc *model.Document) *Memory {
	return &Memory{doc: doc}
}

// FromPages creates a source named name from the given pages, numbering
// them in order
func FromPages(name string, pages ...*model.Page) *Memory {
	doc := model.NewDocument(name)
	for i, p := range pages {
		p.Number = i + 1
		doc.AddPage(p)
	}
	return NewMemory(doc)
}

// Name returns the document name
func (m *Memory) Name() string {
	return m.doc.Name
}

// PageCount returns the number of pages
func (m *Memory) PageCount() int {
	return m.doc.PageCount()
}

// Page returns the page with the given 1-indexed number
func (m *Memory) Page(number int) (*model.Page, error) {
	p := m.doc.GetPage(number)
	if p == nil {
		return nil, fmt.Errorf("page %d of %d: %w", number, m.doc.PageCount(), ErrPageOutOfRange)
	}
	return p, nil
}

// Close is a no-op
func (m *Memory) Close() error {
	return nil
}
