// Package tabby extracts tables from PDF files using layout heuristics
// only: no ruling lines, no OCR.
//
// Basic usage:
//
//	tables, warnings, err := tabby.Open("report.pdf").Tables(ctx)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", tabby.FormatWarnings(warnings))
//	}
//
// With options:
//
//	tables, _, err := tabby.Open("report.pdf").
//	    PageRange(2, 5).
//	    Workers(4).
//	    WithDebug("overlays").
//	    Tables(ctx)
//
// For finer control build a Pipeline and feed it pages from any
// source.Source.
package tabby

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tsawler/tabby/source"
)

// ErrNoSource is returned when an extractor has neither a file nor a source
var ErrNoSource = errors.New("no source specified")

// Warning describes a page that could not be processed. Other pages are
// unaffected. A Warning is an error wrapping the page failure.
type Warning struct {
	Page    int
	Message string
	Err     error
}

func (w Warning) String() string {
	if w.Err != nil {
		return fmt.Sprintf("page %d: %s: %v", w.Page, w.Message, w.Err)
	}
	return fmt.Sprintf("page %d: %s", w.Page, w.Message)
}

func (w Warning) Error() string {
	return w.String()
}

func (w Warning) Unwrap() error {
	return w.Err
}

// FormatWarnings joins warnings into one line each
func FormatWarnings(warnings []Warning) string {
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "\n")
}

// Open returns an Extractor for the PDF at filename. The file is opened
// by the first terminal operation and closed when it returns.
//
// Example:
//
//	tables, warnings, err := tabby.Open("document.pdf").Tables(ctx)
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromSource returns an Extractor reading pages from src. The caller keeps
// ownership of src and must close it.
func FromSource(src source.Source) *Extractor {
	return &Extractor{
		src:     src,
		options: defaultOptions(),
	}
}

// Must wraps a call returning (T, error) and panics on error. It is meant
// for scripts and tests.
//
// Example:
//
//	n := tabby.Must(tabby.Open("document.pdf").PageCount())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustTables panics on error and drops warnings
func MustTables[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
