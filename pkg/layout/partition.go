package layout

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/cellspan/pkg/grid"
)

// Track is one column or row of a [PartitionGrid].
//
// Position and Size describe the track before layout; engines update them
// to the final geometry. MinInset and MaxInset are lower bounds for the
// padding on the leading and trailing side (left/right for columns,
// top/bottom for rows).
type Track struct {
	Index    int     `json:"index"`
	Position float64 `json:"position"`
	Size     float64 `json:"size"`
	MinInset float64 `json:"min_inset,omitempty"`
	MaxInset float64 `json:"max_inset,omitempty"`
}

// End returns Position + Size.
func (t Track) End() float64 { return t.Position + t.Size }

// PartitionGrid is the layout engine's view of a grid: ordered column and
// row tracks with absolute positions.
type PartitionGrid struct {
	Columns []Track `json:"columns"`
	Rows    []Track `json:"rows"`
}

// FromGrid converts g into a partition grid positioned at g's origin plus its
// table insets.
func FromGrid(g *grid.Grid) *PartitionGrid {
	pg := &PartitionGrid{
		Columns: make([]Track, g.ColumnCount()),
		Rows:    make([]Track, g.RowCount()),
	}
	for i, c := range g.Columns() {
		x, _ := g.ColumnOffset(i)
		pg.Columns[i] = Track{Index: i, Position: x, Size: c.Width, MinInset: c.MinInset, MaxInset: c.MaxInset}
	}
	for i, r := range g.Rows() {
		y, _ := g.RowOffset(i)
		pg.Rows[i] = Track{Index: i, Position: y, Size: r.Height, MinInset: r.MinInset, MaxInset: r.MaxInset}
	}
	return pg
}

// Clone returns an independent copy of pg.
func (pg *PartitionGrid) Clone() *PartitionGrid {
	return &PartitionGrid{Columns: slices.Clone(pg.Columns), Rows: slices.Clone(pg.Rows)}
}

// SpanRect returns the rectangle covered by the tracks of s.
func (pg *PartitionGrid) SpanRect(s grid.Span) (grid.Rect, error) {
	if s.MinCol < 0 || s.MaxCol >= len(pg.Columns) || s.MinRow < 0 || s.MaxRow >= len(pg.Rows) {
		return grid.Rect{}, fmt.Errorf("span %s of %dx%d partition grid: %w",
			s, len(pg.Columns), len(pg.Rows), grid.ErrIndexOutOfRange)
	}
	x0, x1 := pg.Columns[s.MinCol].Position, pg.Columns[s.MaxCol].End()
	y0, y1 := pg.Rows[s.MinRow].Position, pg.Rows[s.MaxRow].End()
	return grid.Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}, nil
}

// CellID identifies the partition cells a node is placed in. A simple id
// holds one cell; a multi-cell id holds every cell of a rectangular span
// and is treated as a single placement unit.
type CellID struct {
	Cells []grid.Cell `json:"cells"`
	Span  grid.Span   `json:"span"`
}

// SimpleCell returns the id of the single cell c.
func SimpleCell(c grid.Cell) CellID {
	return CellID{Cells: []grid.Cell{c}, Span: grid.CellSpan(c)}
}

// SpanCell returns the multi-cell id covering every cell of s.
func SpanCell(s grid.Span) CellID {
	return CellID{Cells: s.Cells(), Span: s}
}

// IsMulti reports whether id covers more than one cell.
func (id CellID) IsMulti() bool { return len(id.Cells) > 1 }

// First returns the first cell of id in column-major order.
func (id CellID) First() (grid.Cell, bool) {
	if len(id.Cells) == 0 {
		return grid.Cell{}, false
	}
	return id.Cells[0], true
}

func (id CellID) String() string {
	if !id.IsMulti() {
		if c, ok := id.First(); ok {
			return c.String()
		}
		return "[]"
	}
	return "{" + id.Span.String() + "}"
}

// Assignment maps node IDs to the partition cells they are placed in.
type Assignment map[string]CellID

// Clone returns an independent copy of a.
func (a Assignment) Clone() Assignment {
	c := make(Assignment, len(a))
	for k, v := range a {
		c[k] = CellID{Cells: slices.Clone(v.Cells), Span: v.Span}
	}
	return c
}

// String lists the assignment sorted by node ID, one "id=cell" pair per entry.
func (a Assignment) String() string {
	ids := slices.Sorted(maps.Keys(a))
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id + "=" + a[id].String()
	}
	return strings.Join(parts, " ")
}
