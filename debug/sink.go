package debug

import (
	"github.com/tsawler/tabby/model"
)

// Sink receives the detection results of each page for inspection. A
// pipeline calls Page from several goroutines at once. Sinks only read
// what they are given.
type Sink interface {
	Page(page *model.Page, boxes []model.TableBox, blocks []model.TextBlock) error
}

// Nop discards everything
type Nop struct{}

// Page does nothing
func (Nop) Page(*model.Page, []model.TableBox, []model.TextBlock) error {
	return nil
}

// Func adapts a function to a Sink
type Func func(page *model.Page, boxes []model.TableBox, blocks []model.TextBlock) error

// Page calls f
func (f Func) Page(page *model.Page, boxes []model.TableBox, blocks []model.TextBlock) error {
	return f(page, boxes, blocks)
}
