// Package chunk merges a page's raw fragments into text blocks and lines.
//
// Processing runs in two passes. The first groups fragments into rows and
// merges row neighbours approved by the vertical heuristic chain. The
// second links each block to the block beneath it and merges those stacks
// with the horizontal chain, forming multi-line blocks. Cleanup runs on
// the final block text only.
//
// Two presets are provided: [DetectionConfig], used to locate tables, and
// [RecognitionConfig], used to fill their cells.
package chunk
