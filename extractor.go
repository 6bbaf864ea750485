package tabby

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tsawler/tabby/config"
	"github.com/tsawler/tabby/debug"
	"github.com/tsawler/tabby/export"
	"github.com/tsawler/tabby/internal/logger"
	"github.com/tsawler/tabby/model"
	"github.com/tsawler/tabby/source"
)

// Extractor provides a fluent interface for extracting tables. Each
// configuration method returns a new Extractor, so a configured value can
// be shared and extended safely.
type Extractor struct {
	// Source
	filename string
	src      source.Source

	// Lifecycle
	ownsSource bool

	options ExtractOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy with a deep copy of the options
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename:   e.filename,
		src:        e.src,
		ownsSource: e.ownsSource,
		options:    e.options.clone(),
		err:        e.err,
	}
}

// ensureSource opens the PDF if no source is open yet
func (e *Extractor) ensureSource() error {
	if e.src != nil {
		return nil
	}
	if e.filename == "" {
		return ErrNoSource
	}
	src, err := source.OpenPDF(e.filename)
	if err != nil {
		return fmt.Errorf("failed to open PDF: %w", err)
	}
	e.src = src
	e.ownsSource = true
	return nil
}

// Close releases a source opened by the Extractor. Sources passed to
// FromSource are left open. It is safe to call Close more than once.
func (e *Extractor) Close() error {
	if !e.ownsSource || e.src == nil {
		return nil
	}
	err := e.src.Close()
	e.src = nil
	e.ownsSource = false
	return err
}

// Pages selects 1-indexed pages. Multiple calls are cumulative.
//
// Example:
//
//	tables, _, err := tabby.Open("doc.pdf").Pages(1, 3, 5).Tables(ctx)
func (e *Extractor) Pages(pages ...int) *Extractor {
	newExt := e.clone()
	newExt.options.pages = append(newExt.options.pages, pages...)
	return newExt
}

// PageRange selects pages start to end inclusive
func (e *Extractor) PageRange(start, end int) *Extractor {
	newExt := e.clone()
	if start > end {
		newExt.err = fmt.Errorf("invalid page range %d-%d", start, end)
		return newExt
	}
	for i := start; i <= end; i++ {
		newExt.options.pages = append(newExt.options.pages, i)
	}
	return newExt
}

// Workers sets how many pages are processed concurrently. Zero uses
// GOMAXPROCS.
func (e *Extractor) Workers(n int) *Extractor {
	newExt := e.clone()
	if n < 0 {
		newExt.err = fmt.Errorf("workers %d must be >= 0", n)
		return newExt
	}
	newExt.options.workers = n
	return newExt
}

// WithSettings replaces the default settings, usually with the result of
// config.Load
func (e *Extractor) WithSettings(s *config.Settings) *Extractor {
	newExt := e.clone()
	newExt.options.settings = s
	return newExt
}

func (e *Extractor) WithLogger(l logger.Logger) *Extractor {
	newExt := e.clone()
	newExt.options.log = l
	return newExt
}

// WithDebug writes an overlay PNG for every processed page into dir
//
// Example:
//
//	_, _, err := tabby.Open("doc.pdf").WithDebug("overlays").Tables(ctx)
func (e *Extractor) WithDebug(dir string) *Extractor {
	newExt := e.clone()
	newExt.options.debugDir = dir
	return newExt
}

// PageCount returns the number of pages. It does not close the source.
func (e *Extractor) PageCount() (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	if err := e.ensureSource(); err != nil {
		return 0, err
	}
	return e.src.PageCount(), nil
}

// Result runs the pipeline over the selected pages. This is a terminal
// operation: a source opened by the Extractor is closed on return.
func (e *Extractor) Result(ctx context.Context) (*Result, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}
	if err := e.ensureSource(); err != nil {
		return nil, nil, err
	}
	defer e.Close()

	pages, err := e.resolvePages()
	if err != nil {
		return nil, nil, err
	}
	p, err := e.pipeline()
	if err != nil {
		return nil, nil, err
	}
	return p.Process(ctx, e.src, pages)
}

// Tables extracts the tables of the selected pages, ordered by page and
// then top to bottom.
//
// Example:
//
//	tables, warnings, err := tabby.Open("document.pdf").Tables(ctx)
//	for _, t := range tables {
//	    fmt.Println(t.ToMarkdown())
//	}
func (e *Extractor) Tables(ctx context.Context) ([]model.Table, []Warning, error) {
	res, warnings, err := e.Result(ctx)
	if err != nil {
		return nil, warnings, err
	}
	return res.Tables, warnings, nil
}

// Blocks returns the merged text blocks of each selected page
func (e *Extractor) Blocks(ctx context.Context) ([]export.PageBlocks, []Warning, error) {
	res, warnings, err := e.Result(ctx)
	if err != nil {
		return nil, warnings, err
	}
	out := make([]export.PageBlocks, 0, len(res.Pages))
	for _, p := range res.Pages {
		out = append(out, export.PageBlocks{Page: p.Page, Blocks: p.Blocks})
	}
	return out, warnings, nil
}

// pipeline builds the pipeline for the current options
func (e *Extractor) pipeline() (*Pipeline, error) {
	settings := e.options.settings
	if settings == nil {
		settings = config.Default()
	}

	var opts []Option
	if e.options.log != nil {
		opts = append(opts, WithLogger(e.options.log))
	}
	if e.options.workers >= 0 {
		opts = append(opts, WithWorkers(e.options.workers))
	}
	if e.options.debugDir != "" {
		name := e.src.Name()
		opts = append(opts, WithSink(debug.NewPNGSink(e.options.debugDir, strings.TrimSuffix(name, filepath.Ext(name)))))
	}
	return NewPipeline(settings, opts...)
}

// resolvePages validates the selected pages against the source
func (e *Extractor) resolvePages() ([]int, error) {
	count := e.src.PageCount()
	for _, p := range e.options.pages {
		if p < 1 || p > count {
			return nil, fmt.Errorf("page %d out of range (1-%d): %w", p, count, source.ErrPageOutOfRange)
		}
	}
	return e.options.pages, nil
}
