// Package layout bridges cell-span grids and partition-grid based layout
// engines.
//
// # Partition Grids
//
// A [PartitionGrid] is the layout engine's view of a table: ordered column
// and row [Track] values with absolute positions and inset lower bounds.
// An [Assignment] places nodes in cells. A [CellID] is either a simple cell
// or a multi-cell id covering a rectangular span; the engine treats a
// multi-cell id as one placement unit.
//
// # The Group Stage
//
// A table is modeled as a top-level group node. Every group directly inside
// it is a synthetic group representing one cell span. [Stage] derives the
// span each group claims from its bounds ([GroupCellSpan]), fails with
// [ErrOverlappingCellSpan] when two groups claim a common cell, and remaps
// the nodes inside a span to the span's multi-cell id before delegating to
// the wrapped [Layouter].
//
// The stage never restores the original simple-cell assignment. Callers
// that need it after layout keep their own copy; [Stage.Layout] works on
// clones and leaves its inputs untouched.
package layout
