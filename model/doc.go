// Package model defines the geometry and the entity hierarchy shared by the
// extraction pipeline.
//
// # Entities
//
// A [Page] owns an ordered stream of [Fragment] values. The chunk stage
// merges fragments into [TextBlock] values and groups those into
// [TextLine] rows. The detector collects aligned lines into
// [TableRegion] bands and wraps them in a [TableBox]; the recognizer turns
// each box into a [Table] of [Cell] values.
//
// Entities never hold pointers back into the page. A block lists the
// indices of its fragments, a caption is a [CaptionRef] into the page's
// block list, and a table is paired with its box by [RegionKey].
//
// # Geometry
//
// [BBox] uses PDF user space: X grows to the right and Y grows upward, so
// Top() is above Bottom().
package model
