package edit

import (
	"fmt"

	"github.com/matzehuels/cellspan/pkg/grid"
)

// InsertColumn adds a column of the given width next to column ref and
// returns the new column's index. A width <= 0 means [grid.DefaultTrackSize].
//
// Tagged cells right of the insertion point move one column to the right.
// A span that crossed the insertion point is extended into the new column
// so it is not split in two: a cell of the new column takes the tag of its
// row when the reference column and the column on the far side of the new
// one agree on it.
//
// On an empty grid ref is ignored and the column becomes column 0.
func InsertColumn(g *grid.Grid, cm *grid.ColorMap, ref int, before bool, width float64) (int, error) {
	return insertTrack(g, cm, grid.Columns, ref, before, width)
}

// InsertRow is the row counterpart of [InsertColumn].
func InsertRow(g *grid.Grid, cm *grid.ColorMap, ref int, before bool, height float64) (int, error) {
	return insertTrack(g, cm, grid.Rows, ref, before, height)
}

// RemoveColumn removes column i together with the tags of its cells and
// moves tagged cells right of it one column to the left.
func RemoveColumn(g *grid.Grid, cm *grid.ColorMap, i int) error {
	return removeTrack(g, cm, grid.Columns, i)
}

// RemoveRow removes row i together with the tags of its cells and moves
// tagged cells below it one row up.
func RemoveRow(g *grid.Grid, cm *grid.ColorMap, i int) error {
	return removeTrack(g, cm, grid.Rows, i)
}

func trackCount(g *grid.Grid, axis grid.Axis) int {
	if axis == grid.Rows {
		return g.RowCount()
	}
	return g.ColumnCount()
}

func crossCount(g *grid.Grid, axis grid.Axis) int {
	if axis == grid.Rows {
		return g.ColumnCount()
	}
	return g.RowCount()
}

// cellAt returns the cell at position along axis and position cross on the
// other axis.
func cellAt(axis grid.Axis, along, cross int) grid.Cell {
	if axis == grid.Rows {
		return grid.Cell{Col: cross, Row: along}
	}
	return grid.Cell{Col: along, Row: cross}
}

func insertTrack(g *grid.Grid, cm *grid.ColorMap, axis grid.Axis, ref int, before bool, size float64) (int, error) {
	if size <= 0 {
		size = grid.DefaultTrackSize
	}
	n := trackCount(g, axis)
	idx := 0
	if n > 0 {
		if ref < 0 || ref >= n {
			return 0, fmt.Errorf("insert %s next to %d of %d: %w", axis, ref, n, grid.ErrIndexOutOfRange)
		}
		idx = ref
		if !before {
			idx++
		}
	}

	var err error
	if axis == grid.Rows {
		err = g.InsertRow(idx, grid.Row{Height: size})
	} else {
		err = g.InsertColumn(idx, grid.Column{Width: size})
	}
	if err != nil {
		return 0, err
	}
	cm.Shift(idx, axis, true)
	if n == 0 {
		return idx, nil
	}

	// ref has moved if the new track was inserted before it.
	refIdx, farIdx := idx-1, idx+1
	if before {
		refIdx, farIdx = idx+1, idx-1
	}
	if farIdx < 0 || farIdx >= n+1 {
		return idx, nil
	}
	for k := 0; k < crossCount(g, axis); k++ {
		t, ok := cm.Get(cellAt(axis, refIdx, k))
		if !ok {
			continue
		}
		if far, ok := cm.Get(cellAt(axis, farIdx, k)); ok && far == t {
			cm.Set(cellAt(axis, idx, k), t)
		}
	}
	return idx, nil
}

func removeTrack(g *grid.Grid, cm *grid.ColorMap, axis grid.Axis, i int) error {
	n := trackCount(g, axis)
	if i < 0 || i >= n {
		return fmt.Errorf("remove %s %d of %d: %w", axis, i, n, grid.ErrIndexOutOfRange)
	}
	cm.Shift(i, axis, false)
	if axis == grid.Rows {
		return g.RemoveRow(i)
	}
	return g.RemoveColumn(i)
}
