package heuristic

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyChain is returned when a chain has no heuristics
	ErrEmptyChain = errors.New("heuristic chain is empty")

	// ErrNilHeuristic is returned when a chain contains a nil entry
	ErrNilHeuristic = errors.New("heuristic chain contains a nil heuristic")

	// ErrOrientation is returned when a heuristic is added to a chain of
	// the other orientation
	ErrOrientation = errors.New("heuristic orientation does not match chain")

	// ErrUnknownArity is returned for heuristics that are neither
	// BiHeuristic nor TriHeuristic
	ErrUnknownArity = errors.New("heuristic is neither bi nor tri")
)

// Chain evaluates heuristics of one orientation in caller order with
// short-circuit AND semantics. A Chain is immutable once built and may be
// shared between goroutines.
type Chain struct {
	orientation Orientation
	heuristics  []Heuristic
	separator   string
}

// NewChain validates hs and builds a chain. sep is the separator used for
// approved merges when no heuristic in the chain is a Joiner.
func NewChain(o Orientation, sep string, hs ...Heuristic) (*Chain, error) {
	if len(hs) == 0 {
		return nil, fmt.Errorf("%s chain: %w", o, ErrEmptyChain)
	}
	for i, h := range hs {
		if h == nil {
			return nil, fmt.Errorf("%s chain position %d: %w", o, i, ErrNilHeuristic)
		}
		if h.Orientation() != o {
			return nil, fmt.Errorf("%s chain position %d (%s is %s): %w", o, i, h.Name(), h.Orientation(), ErrOrientation)
		}
		switch h.(type) {
		case BiHeuristic, TriHeuristic:
		default:
			return nil, fmt.Errorf("%s chain position %d (%s): %w", o, i, h.Name(), ErrUnknownArity)
		}
		if err := h.Validate(); err != nil {
			return nil, fmt.Errorf("%s chain position %d (%s): %w", o, i, h.Name(), err)
		}
	}
	return &Chain{
		orientation: o,
		heuristics:  append([]Heuristic(nil), hs...),
		separator:   sep,
	}, nil
}

// Partition splits a mixed heuristic list by orientation, keeping the
// relative order within each orientation. Nil entries are kept in the
// vertical list so that NewChain reports them.
func Partition(hs []Heuristic) (vertical, horizontal []Heuristic) {
	for _, h := range hs {
		if h != nil && h.Orientation() == Horizontal {
			horizontal = append(horizontal, h)
			continue
		}
		vertical = append(vertical, h)
	}
	return vertical, horizontal
}

// Orientation returns the chain's axis
func (c *Chain) Orientation() Orientation { return c.orientation }

// Names returns the heuristic names in evaluation order
func (c *Chain) Names() []string {
	names := make([]string, len(c.heuristics))
	for i, h := range c.heuristics {
		names[i] = h.Name()
	}
	return names
}

// Approve runs the chain on the boundary of w. Tri-heuristics whose
// neighbour is missing abstain for that boundary.
func (c *Chain) Approve(w Window) Verdict {
	cur, next := w.Current(), w.Next()
	sep := c.separator
	joined := false

	for _, h := range c.heuristics {
		ok := true
		switch t := h.(type) {
		case BiHeuristic:
			ok = t.Test(cur, next)
		case TriHeuristic:
			switch t.Focus() {
			case FocusCurrent:
				if prev, has := w.Previous(); has {
					ok = t.Test(prev, cur, next)
				}
			case FocusNext:
				if after, has := w.AfterNext(); has {
					ok = t.Test(cur, next, after)
				}
			}
		}
		if !ok {
			return Verdict{VetoedBy: h.Name()}
		}
		if j, isJoiner := h.(Joiner); isJoiner && !joined {
			sep = j.Separator(cur, next)
			joined = true
		}
	}
	return Verdict{Merge: true, Separator: sep}
}
