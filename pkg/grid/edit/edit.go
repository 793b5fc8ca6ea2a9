// Package edit implements the editing gestures of a cell-span designer on
// top of the [grid] primitives.
//
// Every operation takes the grid and its color map explicitly and mutates
// them in place. Index and input errors are detected before either value is
// touched.
package edit

import (
	"errors"
	"fmt"

	"github.com/matzehuels/cellspan/pkg/grid"
)

// ErrPaletteExhausted is returned by [PaintNext] when every palette tag is
// already in use.
var ErrPaletteExhausted = errors.New("palette exhausted")

// Paint tags the bounding span of cells with tag and returns that span.
//
// Spans that the new span partially overlaps are cut back so they stay
// rectangular: for every cell of the new span, visited in column-major
// order, a previously tagged cell's span is cleared entirely if the new span
// contains it, and otherwise only the cheapest slab computed by [grid.Cut]
// is cleared.
//
// A tag identifies a single span, so painting with a tag that is already in
// use moves it: its previous cells are cleared first. When the new span
// only partly overlaps the tag's old span, the old cells outside the new
// span are dropped rather than cut back. An empty tag erases.
func Paint(g *grid.Grid, cm *grid.ColorMap, cells []grid.Cell, tag grid.Tag) (grid.Span, error) {
	n, err := grid.FromCells(cells)
	if err != nil {
		return grid.Span{}, err
	}
	if !g.InBounds(grid.Cell{Col: n.MinCol, Row: n.MinRow}) || !g.InBounds(grid.Cell{Col: n.MaxCol, Row: n.MaxRow}) {
		return grid.Span{}, fmt.Errorf("paint %s on %dx%d grid: %w", n, g.ColumnCount(), g.RowCount(), grid.ErrIndexOutOfRange)
	}

	if tag != "" {
		cm.RemoveTag(tag)
	}
	for _, c := range n.Cells() {
		if old, ok := cm.Get(c); ok {
			o := grid.Discover(g, cm, c, old)
			gone := o
			if !n.ContainsSpan(o) {
				if gone, err = grid.Cut(n, o); err != nil {
					return grid.Span{}, err
				}
			}
			cm.SetSpan(gone, "")
		}
		cm.Set(c, tag)
	}
	return n, nil
}

// Erase clears the bounding span of cells and cuts back every span it
// partially overlaps.
func Erase(g *grid.Grid, cm *grid.ColorMap, cells []grid.Cell) (grid.Span, error) {
	return Paint(g, cm, cells, "")
}

// PaintNext paints cells with the first tag of palette that is not in use yet.
// A nil palette means [grid.DefaultPalette].
func PaintNext(g *grid.Grid, cm *grid.ColorMap, cells []grid.Cell, palette []grid.Tag) (grid.Tag, grid.Span, error) {
	if palette == nil {
		palette = grid.DefaultPalette
	}
	tag, ok := cm.NextUnused(palette)
	if !ok {
		return "", grid.Span{}, fmt.Errorf("%d tags in use: %w", len(palette), ErrPaletteExhausted)
	}
	s, err := Paint(g, cm, cells, tag)
	if err != nil {
		return "", grid.Span{}, err
	}
	return tag, s, nil
}

// CellsInRect returns the cells whose rectangle overlaps r, in column-major
// order. Cells that only touch r along an edge are not included.
func CellsInRect(g *grid.Grid, r grid.Rect) []grid.Cell {
	var cells []grid.Cell
	for c := 0; c < g.ColumnCount(); c++ {
		for row := 0; row < g.RowCount(); row++ {
			cell := grid.Cell{Col: c, Row: row}
			cr, err := g.CellRect(cell)
			if err != nil {
				continue
			}
			if r.Intersects(cr) {
				cells = append(cells, cell)
			}
		}
	}
	return cells
}
