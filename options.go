package tabby

import (
	"github.com/tsawler/tabby/config"
	"github.com/tsawler/tabby/debug"
	"github.com/tsawler/tabby/internal/logger"
)

// Option configures a Pipeline
type Option func(*Pipeline)

// WithLogger sets the pipeline logger. The default discards everything.
func WithLogger(l logger.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.log = l
		}
	}
}

// WithSink sets the debug sink receiving every processed page
func WithSink(s debug.Sink) Option {
	return func(p *Pipeline) {
		if s != nil {
			p.sink = s
		}
	}
}

// WithWorkers overrides the number of pages processed concurrently.
// Zero or less uses GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		p.workers = n
	}
}

// ExtractOptions holds the Extractor configuration
type ExtractOptions struct {
	// 1-indexed pages; nil means all pages
	pages []int

	settings *config.Settings
	log      logger.Logger
	debugDir string

	// Negative keeps the settings value
	workers int
}

func defaultOptions() ExtractOptions {
	return ExtractOptions{workers: -1}
}

func (o ExtractOptions) clone() ExtractOptions {
	c := o
	if o.pages != nil {
		c.pages = make([]int, len(o.pages))
		copy(c.pages, o.pages)
	}
	return c
}
