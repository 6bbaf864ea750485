// Package tables finds tables on a page of merged text blocks and turns
// them into cell grids.
//
// The work is split into four stages, run once per page:
//
//  1. [Detector] scans the page's lines for bands of aligned multi-block
//     lines and returns [model.TableBox] candidates, with an optional
//     "Table N" caption found above or below each band.
//  2. [Recognizer] infers the column edges of one box from the whitespace
//     between its blocks and builds a [model.Table]. Rows come from the
//     box's lines. A block reaching across column edges spans them.
//  3. [Optimizer] removes empty columns and rows, folds continuation rows
//     into the row above, and rebuilds a rectangular grid.
//  4. [FilterFalsePositives] drops tables that are too small and keeps the
//     best table for each caption.
//
// # Usage
//
//	det, _ := tables.NewDetector(tables.DefaultDetectorConfig())
//	rec, _ := tables.NewRecognizer(tables.DefaultRecognizerConfig())
//	opt := tables.NewOptimizer()
//
//	boxes := det.Detect(page.Number, detected)
//	ix := tables.NewBlockIndex(recognized.Blocks)
//	var out []model.Table
//	for _, box := range boxes {
//		out = append(out, opt.Optimize(rec.Recognize(box, ix)))
//	}
//	boxes, out = tables.FilterFalsePositives(boxes, out, tables.DefaultFilterConfig())
//
// Detection should run on blocks produced with the detection profile of
// package chunk and recognition on blocks produced with the recognition
// profile.
//
// Nothing in this package keeps state between pages. Detectors,
// recognizers and optimizers are safe for concurrent use.
package tables
