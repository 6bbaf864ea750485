package tabby

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/tsawler/tabby/chunk"
	"github.com/tsawler/tabby/config"
	"github.com/tsawler/tabby/debug"
	"github.com/tsawler/tabby/internal/logger"
	"github.com/tsawler/tabby/model"
	"github.com/tsawler/tabby/source"
	"github.com/tsawler/tabby/tables"
)

// PageResult holds what one page produced. Blocks are the recognition
// profile blocks in reading order.
type PageResult struct {
	Page   int
	Boxes  []model.TableBox
	Tables []model.Table
	Blocks []model.TextBlock
}

// Result holds the pages of a run in ascending page order. Boxes and
// Tables are flattened in the same order.
type Result struct {
	Pages  []PageResult
	Boxes  []model.TableBox
	Tables []model.Table
}

// Pipeline runs detection, recognition, optimization and filtering on
// pages. It is immutable after construction and safe for concurrent use.
type Pipeline struct {
	detection   *chunk.Processor
	recognition *chunk.Processor
	detector    *tables.Detector
	recognizer  *tables.Recognizer
	optimizer   *tables.Optimizer
	filter      tables.FilterConfig

	sink    debug.Sink
	log     logger.Logger
	workers int
}

// NewPipeline validates settings and builds every stage. Nil settings use
// the defaults.
func NewPipeline(settings *config.Settings, opts ...Option) (*Pipeline, error) {
	if settings == nil {
		settings = config.Default()
	}
	if err := config.Validate(settings); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	detCfg, err := settings.DetectionChunk()
	if err != nil {
		return nil, err
	}
	recCfg, err := settings.RecognitionChunk()
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		optimizer: tables.NewOptimizer(),
		filter:    settings.FilterConfig(),
		sink:      debug.Nop{},
		log:       logger.Nop(),
		workers:   settings.Workers,
	}
	if p.detection, err = chunk.New(detCfg); err != nil {
		return nil, fmt.Errorf("detection profile: %w", err)
	}
	if p.recognition, err = chunk.New(recCfg); err != nil {
		return nil, fmt.Errorf("recognition profile: %w", err)
	}
	if p.detector, err = tables.NewDetector(settings.DetectorConfig()); err != nil {
		return nil, err
	}
	if p.recognizer, err = tables.NewRecognizer(settings.RecognizerConfig()); err != nil {
		return nil, err
	}
	if err := p.filter.Validate(); err != nil {
		return nil, err
	}

	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// ProcessPage extracts the tables of one page. The result is complete
// even when the debug sink fails; its error is returned alongside.
func (p *Pipeline) ProcessPage(page *model.Page) (PageResult, error) {
	if page == nil {
		return PageResult{}, errors.New("nil page")
	}

	det := p.detection.Process(page)
	boxes := p.detector.Detect(page.Number, det)
	rec := p.recognition.Process(page)

	res := PageResult{Page: page.Number, Blocks: rec.Blocks}
	if len(boxes) > 0 {
		ix := tables.NewBlockIndex(rec.Blocks)
		found := make([]model.Table, 0, len(boxes))
		for _, box := range boxes {
			found = append(found, p.optimizer.Optimize(p.recognizer.Recognize(box, ix)))
		}
		res.Boxes, res.Tables = tables.FilterFalsePositives(boxes, found, p.filter)
	}

	if err := p.sink.Page(page, res.Boxes, det.Blocks); err != nil {
		return res, fmt.Errorf("debug sink: %w", err)
	}
	return res, nil
}

// Process runs the given 1-indexed pages of src, all pages when none are
// given. Pages are processed concurrently; a page that fails becomes a
// Warning and the rest carry on. Cancellation is checked between pages.
func (p *Pipeline) Process(ctx context.Context, src source.Source, pages []int) (*Result, []Warning, error) {
	if src == nil {
		return nil, nil, ErrNoSource
	}
	pages = normalizePages(pages, src.PageCount())

	results := make([]PageResult, len(pages))
	failures := make([]*Warning, len(pages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workerCount())
	for i, n := range pages {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i], failures[i] = p.runPage(src, n)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	out := &Result{}
	var warnings []Warning
	for i, res := range results {
		if w := failures[i]; w != nil {
			warnings = append(warnings, *w)
		}
		if res.Page == 0 {
			continue
		}
		out.Pages = append(out.Pages, res)
		out.Boxes = append(out.Boxes, res.Boxes...)
		out.Tables = append(out.Tables, res.Tables...)
	}
	return out, warnings, nil
}

// runPage reads and processes one page, turning errors and panics into a
// warning
func (p *Pipeline) runPage(src source.Source, n int) (res PageResult, w *Warning) {
	log := p.log.With("page", n)
	defer func() {
		if r := recover(); r != nil {
			res = PageResult{}
			w = &Warning{Page: n, Message: "page processing failed", Err: fmt.Errorf("panic: %v", r)}
			log.Warn("page processing failed", "panic", r)
		}
	}()

	page, err := src.Page(n)
	if err != nil {
		log.Warn("could not read page", "error", err)
		return PageResult{}, &Warning{Page: n, Message: "could not read page", Err: err}
	}

	res, err = p.ProcessPage(page)
	if err != nil {
		log.Warn("debug output failed", "error", err)
		w = &Warning{Page: n, Message: "debug output failed", Err: err}
	}
	res.Page = n
	log.Debug("page processed", "blocks", len(res.Blocks), "tables", len(res.Tables))
	return res, w
}

func (p *Pipeline) workerCount() int {
	if p.workers > 0 {
		return p.workers
	}
	return runtime.GOMAXPROCS(0)
}

// normalizePages sorts and dedupes the requested pages, or lists every
// page when none are requested
func normalizePages(pages []int, count int) []int {
	if len(pages) == 0 {
		all := make([]int, count)
		for i := range all {
			all[i] = i + 1
		}
		return all
	}
	out := slices.Clone(pages)
	slices.Sort(out)
	return slices.Compact(out)
}
