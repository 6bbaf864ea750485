package tabby

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/tabby/config"
	"github.com/tsawler/tabby/debug"
	"github.com/tsawler/tabby/model"
	"github.com/tsawler/tabby/source"
)

func frag(text string, left, bottom, right, top float64) model.Fragment {
	return model.Fragment{
		Text:     text,
		BBox:     model.NewBBoxFromEdges(left, bottom, right, top),
		Font:     model.FontDescriptor{Family: "Helvetica", Size: 10},
		Baseline: bottom,
	}
}

func newPage(frags ...model.Fragment) *model.Page {
	p := model.NewPage(1, 612, 792)
	for _, f := range frags {
		p.AddFragment(f)
	}
	return p
}

// pricePage holds a captioned three by three table and a paragraph
func pricePage() *model.Page {
	return newPage(
		frag("Table 1", 50, 715, 90, 725),
		frag("Item", 50, 690, 80, 700),
		frag("Qty", 150, 690, 170, 700),
		frag("Price", 250, 690, 280, 700),
		frag("Widget", 50, 675, 85, 685),
		frag("4", 160, 675, 165, 685),
		frag("1.50", 255, 675, 275, 685),
		frag("Gadget", 50, 660, 85, 670),
		frag("10", 155, 660, 165, 670),
		frag("0.25", 255, 660, 275, 670),
		frag("Running text below the table", 50, 600, 300, 610),
	)
}

func textPage() *model.Page {
	return newPage(frag("Only a heading on this page", 50, 700, 250, 710))
}

func pipeline(t *testing.T, opts ...Option) *Pipeline {
	t.Helper()
	p, err := NewPipeline(nil, opts...)
	require.NoError(t, err)
	return p
}

type panicSource struct {
	*source.Memory
	bad int
}

func (s panicSource) Page(n int) (*model.Page, error) {
	if n == s.bad {
		panic("corrupt content stream")
	}
	return s.Memory.Page(n)
}

func TestNewPipeline(t *testing.T) {
	t.Run("Should accept defaults", func(t *testing.T) {
		p := pipeline(t)
		assert.Equal(t, 0, p.workers)
		assert.Equal(t, debug.Nop{}, p.sink)
	})

	t.Run("Should fail fast on invalid settings", func(t *testing.T) {
		s := config.Default()
		s.Detector.MinLines = 1
		_, err := NewPipeline(s)
		assert.Error(t, err)
	})

	t.Run("Should fail fast on empty chain", func(t *testing.T) {
		s := config.Default()
		s.Chunk.Order = nil
		_, err := NewPipeline(s)
		assert.Error(t, err)
	})

	t.Run("Should ignore nil options values", func(t *testing.T) {
		p := pipeline(t, WithSink(nil), WithLogger(nil), WithWorkers(3))
		assert.Equal(t, debug.Nop{}, p.sink)
		assert.NotNil(t, p.log)
		assert.Equal(t, 3, p.workerCount())
	})
}

func TestProcessPage(t *testing.T) {
	t.Run("Should extract a captioned table", func(t *testing.T) {
		pg := pricePage()
		pg.Number = 2

		res, err := pipeline(t).ProcessPage(pg)
		require.NoError(t, err)

		assert.Equal(t, 2, res.Page)
		require.Len(t, res.Boxes, 1)
		require.Len(t, res.Tables, 1)
		assert.Equal(t, res.Boxes[0].Key(), res.Tables[0].Key())

		tbl := res.Tables[0]
		assert.Equal(t, 2, tbl.Page)
		assert.Equal(t, "table 1", tbl.Caption.Label)
		require.Len(t, tbl.Rows, 3)
		assert.True(t, tbl.IsRectangular())
		assert.Len(t, tbl.Rows[0], 3)
		assert.Equal(t, "Item", tbl.Rows[0][0].Text)
		assert.Equal(t, "0.25", tbl.Rows[2][2].Text)

		assert.Contains(t, blockTexts(res.Blocks), "Running text below the table")
	})

	t.Run("Should return nothing for a page without tables", func(t *testing.T) {
		res, err := pipeline(t).ProcessPage(textPage())
		require.NoError(t, err)
		assert.Empty(t, res.Tables)
		assert.Empty(t, res.Boxes)
		assert.Len(t, res.Blocks, 1)
	})

	t.Run("Should handle empty pages", func(t *testing.T) {
		res, err := pipeline(t).ProcessPage(newPage())
		require.NoError(t, err)
		assert.Empty(t, res.Tables)
		assert.Empty(t, res.Blocks)
	})

	t.Run("Should reject nil page", func(t *testing.T) {
		_, err := pipeline(t).ProcessPage(nil)
		assert.Error(t, err)
	})

	t.Run("Should pass results to the sink", func(t *testing.T) {
		var got []model.TableBox
		var blocks int
		sink := debug.Func(func(_ *model.Page, boxes []model.TableBox, b []model.TextBlock) error {
			got = boxes
			blocks = len(b)
			return nil
		})

		res, err := pipeline(t, WithSink(sink)).ProcessPage(pricePage())
		require.NoError(t, err)
		assert.Equal(t, res.Boxes, got)
		assert.Positive(t, blocks)
	})

	t.Run("Should keep results when the sink fails", func(t *testing.T) {
		sinkErr := errors.New("disk full")
		sink := debug.Func(func(*model.Page, []model.TableBox, []model.TextBlock) error {
			return sinkErr
		})

		res, err := pipeline(t, WithSink(sink)).ProcessPage(pricePage())
		assert.ErrorIs(t, err, sinkErr)
		assert.Len(t, res.Tables, 1)
	})
}

func blockTexts(blocks []model.TextBlock) []string {
	out := make([]string, len(blocks))
	for i, b := range blocks {
		out[i] = b.Text
	}
	return out
}

func TestProcess(t *testing.T) {
	t.Run("Should merge pages in page order", func(t *testing.T) {
		src := source.FromPages("report.pdf", pricePage(), textPage(), pricePage())

		res, warnings, err := pipeline(t, WithWorkers(3)).Process(t.Context(), src, nil)
		require.NoError(t, err)
		assert.Empty(t, warnings)

		require.Len(t, res.Pages, 3)
		for i, p := range res.Pages {
			assert.Equal(t, i+1, p.Page)
		}
		require.Len(t, res.Tables, 2)
		assert.Equal(t, 1, res.Tables[0].Page)
		assert.Equal(t, 3, res.Tables[1].Page)
		require.Len(t, res.Boxes, 2)
		assert.Equal(t, 3, res.Boxes[1].Page)
	})

	t.Run("Should give the same result for any worker count", func(t *testing.T) {
		src := source.FromPages("report.pdf", pricePage(), textPage(), pricePage(), pricePage())

		serial, _, err := pipeline(t, WithWorkers(1)).Process(t.Context(), src, nil)
		require.NoError(t, err)
		parallel, _, err := pipeline(t, WithWorkers(4)).Process(t.Context(), src, nil)
		require.NoError(t, err)

		assert.Equal(t, serial, parallel)
	})

	t.Run("Should sort and dedupe selected pages", func(t *testing.T) {
		src := source.FromPages("report.pdf", textPage(), pricePage(), textPage())

		res, _, err := pipeline(t).Process(t.Context(), src, []int{3, 2, 3})
		require.NoError(t, err)
		require.Len(t, res.Pages, 2)
		assert.Equal(t, 2, res.Pages[0].Page)
		assert.Equal(t, 3, res.Pages[1].Page)
		assert.Len(t, res.Tables, 1)
	})

	t.Run("Should report unreadable pages as warnings", func(t *testing.T) {
		src := source.FromPages("report.pdf", pricePage())

		res, warnings, err := pipeline(t).Process(t.Context(), src, []int{1, 7})
		require.NoError(t, err)
		require.Len(t, warnings, 1)
		assert.Equal(t, 7, warnings[0].Page)
		assert.ErrorIs(t, warnings[0], source.ErrPageOutOfRange)
		assert.Len(t, res.Tables, 1)
	})

	t.Run("Should recover from a page that panics", func(t *testing.T) {
		src := panicSource{Memory: source.FromPages("broken.pdf", pricePage(), pricePage(), pricePage()), bad: 2}

		res, warnings, err := pipeline(t).Process(t.Context(), src, nil)
		require.NoError(t, err)
		require.Len(t, warnings, 1)
		assert.Equal(t, 2, warnings[0].Page)
		assert.Contains(t, warnings[0].String(), "corrupt content stream")

		require.Len(t, res.Pages, 2)
		assert.Equal(t, 1, res.Pages[0].Page)
		assert.Equal(t, 3, res.Pages[1].Page)
	})

	t.Run("Should stop when the context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		_, _, err := pipeline(t).Process(ctx, source.FromPages("a.pdf", pricePage()), nil)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("Should require a source", func(t *testing.T) {
		_, _, err := pipeline(t).Process(t.Context(), nil, nil)
		assert.ErrorIs(t, err, ErrNoSource)
	})
}

func TestExtractor(t *testing.T) {
	t.Run("Should fail on a missing file", func(t *testing.T) {
		_, _, err := Open(filepath.Join(t.TempDir(), "nonexistent.pdf")).Tables(t.Context())
		assert.Error(t, err)
	})

	t.Run("Should require a source", func(t *testing.T) {
		_, _, err := Open("").Tables(t.Context())
		assert.ErrorIs(t, err, ErrNoSource)
	})

	t.Run("Should extract tables from a source", func(t *testing.T) {
		src := source.FromPages("report.pdf", pricePage(), textPage())

		tables, warnings, err := FromSource(src).Tables(t.Context())
		require.NoError(t, err)
		assert.Empty(t, warnings)
		require.Len(t, tables, 1)
		assert.Equal(t, "Item", tables[0].Rows[0][0].Text)
	})

	t.Run("Should honour page selection", func(t *testing.T) {
		src := source.FromPages("report.pdf", pricePage(), textPage(), pricePage())
		base := FromSource(src)

		tables, _, err := base.Pages(2).Tables(t.Context())
		require.NoError(t, err)
		assert.Empty(t, tables)

		tables, _, err = base.PageRange(2, 3).Tables(t.Context())
		require.NoError(t, err)
		require.Len(t, tables, 1)
		assert.Equal(t, 3, tables[0].Page)
	})

	t.Run("Should reject invalid configuration", func(t *testing.T) {
		src := source.FromPages("report.pdf", pricePage())

		_, _, err := FromSource(src).Pages(0).Tables(t.Context())
		assert.ErrorIs(t, err, source.ErrPageOutOfRange)

		_, _, err = FromSource(src).Pages(2).Tables(t.Context())
		assert.ErrorIs(t, err, source.ErrPageOutOfRange)

		_, _, err = FromSource(src).PageRange(3, 1).Tables(t.Context())
		assert.Error(t, err)

		_, _, err = FromSource(src).Workers(-1).Tables(t.Context())
		assert.Error(t, err)

		bad := config.Default()
		bad.Filter.MinCols = 0
		_, _, err = FromSource(src).WithSettings(bad).Tables(t.Context())
		assert.Error(t, err)
	})

	t.Run("Should not share options between chains", func(t *testing.T) {
		base := FromSource(source.FromPages("a.pdf", pricePage()))
		a := base.Pages(1)
		b := base.Workers(2)

		assert.Nil(t, base.options.pages)
		assert.Equal(t, []int{1}, a.options.pages)
		assert.Nil(t, b.options.pages)
		assert.Equal(t, 2, b.options.workers)
		assert.Equal(t, -1, a.options.workers)
	})

	t.Run("Should return blocks per page", func(t *testing.T) {
		src := source.FromPages("report.pdf", textPage(), pricePage())

		pages, _, err := FromSource(src).Blocks(t.Context())
		require.NoError(t, err)
		require.Len(t, pages, 2)
		assert.Equal(t, 1, pages[0].Page)
		assert.Equal(t, "Only a heading on this page", pages[0].Blocks[0].Text)
		assert.Equal(t, 2, pages[1].Page)
	})

	t.Run("Should write debug overlays", func(t *testing.T) {
		dir := t.TempDir()
		src := source.FromPages("report.pdf", pricePage())

		_, _, err := FromSource(src).WithDebug(dir).Tables(t.Context())
		require.NoError(t, err)

		_, err = os.Stat(filepath.Join(dir, "report-page-001.png"))
		assert.NoError(t, err)
	})

	t.Run("Should leave caller sources open", func(t *testing.T) {
		src := source.FromPages("report.pdf", pricePage())
		ext := FromSource(src)
		_, _, err := ext.Tables(t.Context())
		require.NoError(t, err)

		n, err := ext.PageCount()
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}

func TestWarnings(t *testing.T) {
	warnings := []Warning{
		{Page: 2, Message: "could not read page", Err: source.ErrPageOutOfRange},
		{Page: 5, Message: "skipped"},
	}

	assert.Equal(t, "page 2: could not read page: page out of range\npage 5: skipped", FormatWarnings(warnings))
	assert.ErrorIs(t, warnings[0], source.ErrPageOutOfRange)
	assert.Empty(t, FormatWarnings(nil))
}

func TestMust(t *testing.T) {
	assert.Equal(t, 3, Must(3, nil))
	assert.Panics(t, func() { Must(0, errors.New("boom")) })

	src := source.FromPages("a.pdf", pricePage())
	tables := MustTables(FromSource(src).Tables(t.Context()))
	assert.Len(t, tables, 1)
	assert.Panics(t, func() { MustTables(Open("").Tables(t.Context())) })
}
