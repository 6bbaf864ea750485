package chunk

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/tsawler/tabby/heuristic"
	"github.com/tsawler/tabby/model"
)

// rowOverlap is the share of the smaller height two boxes must overlap
// vertically to be on the same row
const rowOverlap = 0.5

// Result holds the merged blocks of a page in reading order, and the same
// blocks grouped into lines
type Result struct {
	Blocks []model.TextBlock
	Lines  []model.TextLine
}

// Processor merges a page's fragments into blocks and lines. A Processor
// is immutable and safe for concurrent use.
type Processor struct {
	vertical        *heuristic.Chain
	horizontal      *heuristic.Chain
	replacer        *strings.Replacer
	removeColons    bool
	characterChunks bool
	lineTolerance   float64
}

// New validates cfg and builds a processor
func New(cfg Config) (*Processor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("chunk config: %w", err)
	}

	p := &Processor{
		removeColons:    cfg.RemoveColons,
		characterChunks: cfg.CharacterChunks,
		lineTolerance:   cfg.LineTolerance,
	}

	v, h := heuristic.Partition(cfg.Heuristics)
	var err error
	if len(v) > 0 {
		if p.vertical, err = heuristic.NewChain(heuristic.Vertical, " ", v...); err != nil {
			return nil, fmt.Errorf("chunk config: %w", err)
		}
	}
	if len(h) > 0 {
		if p.horizontal, err = heuristic.NewChain(heuristic.Horizontal, " ", h...); err != nil {
			return nil, fmt.Errorf("chunk config: %w", err)
		}
	}

	pairs := make([]string, 0, 2*len(cfg.StringsToReplace))
	for _, s := range cfg.StringsToReplace {
		pairs = append(pairs, s, "")
	}
	p.replacer = strings.NewReplacer(pairs...)

	return p, nil
}

// Process merges the page's fragments. A page without fragments yields an
// empty result.
func (p *Processor) Process(page *model.Page) Result {
	if page == nil || len(page.Fragments) == 0 {
		return Result{}
	}

	var valid, broken []model.TextBlock
	for _, f := range page.Fragments {
		if strings.TrimSpace(f.Text) == "" {
			continue
		}
		if !f.BBox.IsValid() {
			broken = append(broken, model.NewTextBlock(f))
			continue
		}
		if p.characterChunks {
			valid = append(valid, splitGlyphs(f)...)
			continue
		}
		valid = append(valid, model.NewTextBlock(f))
	}

	// Pass 1: merge along each row
	rows := groupRows(valid)
	for i, row := range rows {
		rows[i] = mergeSequence(row, p.vertical, false)
	}

	// Pass 2: stack rows into multi-line blocks
	blocks := append(p.stack(rows), broken...)

	var cleaned, malformed []model.TextBlock
	for _, b := range blocks {
		b.Text = p.clean(b.Text)
		if b.Text == "" {
			continue
		}
		b.Fragments = dedupe(b.Fragments)
		if !b.BBox.IsValid() {
			malformed = append(malformed, b)
			continue
		}
		cleaned = append(cleaned, b)
	}

	// Blocks follow line order so both views share one reading order
	lines := GroupLines(cleaned, p.lineTolerance)
	res := Result{Lines: lines}
	for _, l := range lines {
		res.Blocks = append(res.Blocks, l.Blocks...)
	}
	res.Blocks = append(res.Blocks, malformed...)
	return res
}

// splitGlyphs divides a fragment into one block per rune of equal width
func splitGlyphs(f model.Fragment) []model.TextBlock {
	n := utf8.RuneCountInString(f.Text)
	if n <= 1 {
		return []model.TextBlock{model.NewTextBlock(f)}
	}
	w := f.BBox.Width / float64(n)
	out := make([]model.TextBlock, 0, n)
	i := 0
	for _, r := range f.Text {
		g := f
		g.Text = string(r)
		g.BBox = model.NewBBox(f.BBox.X+float64(i)*w, f.BBox.Y, w, f.BBox.Height)
		out = append(out, model.NewTextBlock(g))
		i++
	}
	return out
}

// groupRows groups blocks into rows by vertical overlap, top row first,
// each row ordered by left edge
func groupRows(blocks []model.TextBlock) [][]model.TextBlock {
	if len(blocks) == 0 {
		return nil
	}

	sorted := make([]model.TextBlock, len(blocks))
	copy(sorted, blocks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BBox.Center().Y > sorted[j].BBox.Center().Y
	})

	var rows [][]model.TextBlock
	var band model.BBox
	for _, b := range sorted {
		n := len(rows)
		if n > 0 && sameRow(band, b.BBox) {
			rows[n-1] = append(rows[n-1], b)
			band = band.Union(b.BBox)
			continue
		}
		rows = append(rows, []model.TextBlock{b})
		band = b.BBox
	}

	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool {
			return row[i].BBox.Left() < row[j].BBox.Left()
		})
	}
	return rows
}

func sameRow(a, b model.BBox) bool {
	return a.VerticalOverlap(b) >= rowOverlap*math.Min(a.Height, b.Height)
}

// mergeSequence folds approved boundaries of seq. Every boundary is judged
// on the original neighbours so that a cut cannot be hidden by an earlier
// merge.
func mergeSequence(seq []model.TextBlock, chain *heuristic.Chain, lines bool) []model.TextBlock {
	if chain == nil || len(seq) < 2 {
		return seq
	}

	out := make([]model.TextBlock, 0, len(seq))
	cur := seq[0]
	for i := 0; i+1 < len(seq); i++ {
		w, ok := heuristic.NewWindow(seq, i)
		if !ok {
			break
		}
		if v := chain.Approve(w); v.Merge {
			cur = cur.Merge(seq[i+1], v.Separator, lines)
			continue
		}
		out = append(out, cur)
		cur = seq[i+1]
	}
	return append(out, cur)
}

// stack links each block to the block directly beneath it on the next row
// and merges the resulting vertical chains with the horizontal chain.
// Output is in reading order of each chain's top block.
func (p *Processor) stack(rows [][]model.TextBlock) []model.TextBlock {
	type pos struct{ row, col int }

	below := make(map[pos]pos)
	linked := make(map[pos]bool)
	if p.horizontal != nil {
		for r := 0; r+1 < len(rows); r++ {
			upper, lower := rows[r], rows[r+1]
			for i := range upper {
				j := bestBeneath(upper[i], lower)
				if j < 0 || bestAbove(lower[j], upper) != i {
					continue
				}
				if parallelRows(upper, lower, i, j) || cutsIn(upper, lower, i, j) {
					continue
				}
				below[pos{r, i}] = pos{r + 1, j}
				linked[pos{r + 1, j}] = true
			}
		}
	}

	var out []model.TextBlock
	for r, row := range rows {
		for i := range row {
			at := pos{r, i}
			if linked[at] {
				continue
			}
			chain := []model.TextBlock{row[i]}
			for next, ok := below[at]; ok; next, ok = below[next] {
				chain = append(chain, rows[next.row][next.col])
			}
			out = append(out, mergeSequence(chain, p.horizontal, true)...)
		}
	}
	return out
}

// bestBeneath returns the index of the lower block with the largest
// horizontal overlap with b, or -1
func bestBeneath(b model.TextBlock, lower []model.TextBlock) int {
	best, bestOverlap := -1, 0.0
	for j, c := range lower {
		if o := b.BBox.HorizontalOverlap(c.BBox); o > bestOverlap {
			best, bestOverlap = j, o
		}
	}
	return best
}

func bestAbove(b model.TextBlock, upper []model.TextBlock) int {
	return bestBeneath(b, upper)
}

// parallelRows reports whether another pair of blocks continues across
// the same two rows, which marks the lower row as a new table row rather
// than a continuation line.
func parallelRows(upper, lower []model.TextBlock, i, j int) bool {
	for jj, c := range lower {
		if jj == j {
			continue
		}
		for ii, d := range upper {
			if ii != i && d.BBox.HorizontalOverlap(c.BBox) > 0 {
				return true
			}
		}
	}
	return false
}

// cutsIn reports whether the union of the pair would cover another block
// of either row
func cutsIn(upper, lower []model.TextBlock, i, j int) bool {
	u := upper[i].BBox.Union(lower[j].BBox)
	for k, b := range upper {
		if k != i && u.HorizontalOverlap(b.BBox) > 0 && u.VerticalOverlap(b.BBox) > 0 {
			return true
		}
	}
	for k, b := range lower {
		if k != j && u.HorizontalOverlap(b.BBox) > 0 && u.VerticalOverlap(b.BBox) > 0 {
			return true
		}
	}
	return false
}

func dedupe(idx []int) []int {
	seen := make(map[int]bool, len(idx))
	out := idx[:0:0]
	for _, i := range idx {
		if !seen[i] {
			seen[i] = true
			out = append(out, i)
		}
	}
	return out
}
