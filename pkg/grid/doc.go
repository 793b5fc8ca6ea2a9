// Package grid models a table of columns and rows whose cells can be tagged
// to form rectangular cell spans.
//
// # Overview
//
// A [Grid] is an ordered sequence of [Column] and [Row] tracks. Cells are
// addressed by index pairs ([Cell]), never by track identity, so a [ColorMap]
// survives copying the grid it belongs to. Adjacent cells that carry the
// same [Tag] form a [Span], a rectangular range of columns and rows.
//
// The package provides the algorithms that keep spans valid while a user
// paints a table:
//
//   - [Discover] finds the span a cell belongs to with a 4-connected flood fill
//   - [Cut] computes the part of an existing span that has to be cleared when
//     a new span partially overlaps it
//   - [ColorMap.Shift] re-indexes tagged cells when a column or row is
//     inserted or removed
//
// Editing operations that combine these building blocks live in the
// [github.com/matzehuels/cellspan/pkg/grid/edit] package.
//
// # Rectangularity
//
// Spans produced through painting and cutting are always rectangular.
// [Discover] returns the bounding box of the connected component and does
// not verify that the component fills it; use [CheckRectangular] to reject
// tag maps loaded from untrusted sources.
//
// # Concurrency
//
// Grid and ColorMap are not safe for concurrent use. They are meant to be
// owned by a single document and mutated from one control flow.
package grid
