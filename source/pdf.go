package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ledongthuc/pdf"

	"github.com/tsawler/tabby/model"
)

// descent is the share of the font size drawn below the baseline
const descent = 0.2

// PDF reads fragments from a PDF file's text layer
type PDF struct {
	mu   sync.Mutex
	name string
	file *os.File
	r    *pdf.Reader
}

// OpenPDF opens a PDF file. Documents the parser rejects, including ones
// that make it panic, return an error.
func OpenPDF(path string) (src *PDF, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			src, err = nil, fmt.Errorf("open %s: malformed pdf: %v", path, rec)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &PDF{name: filepath.Base(path), file: f, r: r}, nil
}

// Name returns the file's base name
func (p *PDF) Name() string {
	return p.name
}

// PageCount returns the number of pages
func (p *PDF) PageCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.r.NumPage()
}

// Page extracts the fragments of a page. A page the parser cannot read
// yields an error for that page only.
func (p *PDF) Page(number int) (page *model.Page, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if number < 1 || number > p.r.NumPage() {
		return nil, fmt.Errorf("page %d of %d: %w", number, p.r.NumPage(), ErrPageOutOfRange)
	}

	defer func() {
		if rec := recover(); rec != nil {
			page, err = nil, fmt.Errorf("page %d: malformed content: %v", number, rec)
		}
	}()

	pg := p.r.Page(number)
	if pg.V.IsNull() {
		return nil, fmt.Errorf("page %d: missing page object", number)
	}

	width, height := mediaBox(pg.V)
	page = model.NewPage(number, width, height)
	for _, f := range Fragments(pg.Content().Text) {
		page.AddFragment(f)
	}
	return page, nil
}

// Close releases the file
func (p *PDF) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.file == nil {
		return nil
	}
	err := p.file.Close()
	p.file = nil
	return err
}

// mediaBox returns the page size from the nearest MediaBox, inherited
// through the page tree. Missing or short boxes give a zero size.
func mediaBox(v pdf.Value) (float64, float64) {
	for ; !v.IsNull(); v = v.Key("Parent") {
		box := v.Key("MediaBox")
		if box.IsNull() || box.Len() < 4 {
			continue
		}
		w := box.Index(2).Float64() - box.Index(0).Float64()
		h := box.Index(3).Float64() - box.Index(1).Float64()
		return w, h
	}
	return 0, 0
}

// Fragments converts the glyph runs of a page into fragments. A run's box
// spans its advance width and the font size, sitting a fixed descent below
// the baseline.
func Fragments(texts []pdf.Text) []model.Fragment {
	frags := make([]model.Fragment, 0, len(texts))
	for _, t := range texts {
		if t.S == "" {
			continue
		}
		bottom := t.Y - descent*t.FontSize
		frags = append(frags, model.Fragment{
			Text:     t.S,
			BBox:     model.NewBBox(t.X, bottom, t.W, t.FontSize),
			Font:     model.ParseFontName(t.Font, t.FontSize),
			Baseline: t.Y,
		})
	}
	return frags
}
