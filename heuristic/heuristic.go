package heuristic

import (
	"github.com/tsawler/tabby/model"
)

// Orientation selects which neighbours a heuristic judges
type Orientation int

const (
	// Vertical heuristics judge horizontal neighbours and merge blocks
	// along a row.
	Vertical Orientation = iota
	// Horizontal heuristics judge vertical neighbours and stack rows into
	// multi-line blocks.
	Horizontal
)

func (o Orientation) String() string {
	switch o {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	default:
		return "unknown"
	}
}

// Heuristic is the common part of every merge predicate
type Heuristic interface {
	// Name returns the heuristic name
	Name() string

	// Orientation returns the axis the heuristic is applied along
	Orientation() Orientation

	// Validate checks the heuristic's thresholds
	Validate() error
}

// BiHeuristic judges an ordered pair of adjacent blocks. Test returns true
// when the pair may merge.
type BiHeuristic interface {
	Heuristic
	Test(a, b model.TextBlock) bool
}

// Focus selects which triple a TriHeuristic sees around a boundary
type Focus int

const (
	// FocusCurrent passes (previous, current, next): the boundary follows
	// the middle element.
	FocusCurrent Focus = iota
	// FocusNext passes (current, next, after next): the boundary precedes
	// the middle element.
	FocusNext
)

// TriHeuristic judges a triple of blocks around the boundary between the
// current and next block. Test returns false when that boundary is a cut.
type TriHeuristic interface {
	Heuristic
	Focus() Focus
	Test(prev, cur, next model.TextBlock) bool
}

// Joiner is implemented by heuristics that decide the separator used when
// an approved pair is merged.
type Joiner interface {
	Separator(a, b model.TextBlock) string
}

// Window is a position in a block sequence: the boundary between Current
// and Next.
type Window struct {
	seq []model.TextBlock
	i   int
}

// NewWindow creates a window on the boundary after seq[i]. It returns
// false when seq[i+1] does not exist.
func NewWindow(seq []model.TextBlock, i int) (Window, bool) {
	if i < 0 || i+1 >= len(seq) {
		return Window{}, false
	}
	return Window{seq: seq, i: i}, true
}

// Current returns the block before the boundary
func (w Window) Current() model.TextBlock { return w.seq[w.i] }

// Next returns the block after the boundary
func (w Window) Next() model.TextBlock { return w.seq[w.i+1] }

// Previous returns the block before Current, if any
func (w Window) Previous() (model.TextBlock, bool) {
	if w.i-1 < 0 {
		return model.TextBlock{}, false
	}
	return w.seq[w.i-1], true
}

// AfterNext returns the block after Next, if any
func (w Window) AfterNext() (model.TextBlock, bool) {
	if w.i+2 >= len(w.seq) {
		return model.TextBlock{}, false
	}
	return w.seq[w.i+2], true
}

// Verdict is the outcome of running a chain on one boundary
type Verdict struct {
	Merge     bool
	VetoedBy  string // name of the first heuristic that refused
	Separator string
}
