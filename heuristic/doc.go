// Package heuristic provides the geometric and typographic predicates used
// to merge text fragments into blocks.
//
// A [BiHeuristic] judges two neighbours, a [TriHeuristic] judges three and
// refuses boundaries that are structural cuts. Heuristics are composed into
// a [Chain] of one [Orientation]; the chain approves a boundary only when
// every heuristic does, stopping at the first refusal:
//
//	chain, err := heuristic.NewChain(heuristic.Vertical, " ",
//		heuristic.HorizontalPosition{MaxOverlapRatio: 0.25},
//		heuristic.SpaceWidth{Multiplier: 2, SpaceFraction: 0.3},
//	)
//	if w, ok := heuristic.NewWindow(blocks, 0); ok {
//		v := chain.Approve(w)
//		...
//	}
//
// The order of heuristics in a chain is significant.
package heuristic
