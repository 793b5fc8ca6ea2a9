package layout

import (
	"context"
	"errors"
	"fmt"

	"github.com/matzehuels/cellspan/pkg/grid"
)

var (
	// ErrOverlappingCellSpan is returned by [Stage.Layout] when two groups
	// of the table claim a common partition cell.
	ErrOverlappingCellSpan = errors.New("overlapping cell span")

	// ErrUnpositionedGroup is returned by [GroupCellSpan] when a group's
	// bounds overlap no column or no row of the partition grid.
	ErrUnpositionedGroup = errors.New("group overlaps no partition cell")
)

// Layouter arranges the nodes of a graph inside a partition grid.
//
// Implementations place every node of the assignment inside its cells,
// write final node bounds into the graph and final track geometry into the
// partition grid.
type Layouter interface {
	Layout(ctx context.Context, g *Graph, pg *PartitionGrid, a Assignment) error
}

// LayouterFunc adapts a function to the [Layouter] interface.
type LayouterFunc func(ctx context.Context, g *Graph, pg *PartitionGrid, a Assignment) error

// Layout calls f.
func (f LayouterFunc) Layout(ctx context.Context, g *Graph, pg *PartitionGrid, a Assignment) error {
	return f(ctx, g, pg, a)
}

// GroupSpan is the cell span claimed by one group node.
type GroupSpan struct {
	Group string
	Span  grid.Span
	ID    CellID
}

// GroupCellSpan computes the span of partition cells that group's bounds
// overlap. A track overlaps when its interval and the group's interval on
// the same axis intersect with strict inequality at both ends, so a group
// that merely touches a track does not claim it.
func GroupCellSpan(pg *PartitionGrid, group *Node) (GroupSpan, error) {
	b := group.Bounds
	minCol, maxCol := overlapping(pg.Columns, b.X, b.MaxX())
	minRow, maxRow := overlapping(pg.Rows, b.Y, b.MaxY())
	if minCol < 0 || minRow < 0 {
		return GroupSpan{}, fmt.Errorf("group %q at %s: %w", group.ID, b, ErrUnpositionedGroup)
	}
	s := grid.NewSpan(minCol, maxCol, minRow, maxRow)
	return GroupSpan{Group: group.ID, Span: s, ID: SpanCell(s)}, nil
}

func overlapping(tracks []Track, lo, hi float64) (first, last int) {
	first, last = -1, -1
	for i, t := range tracks {
		if t.Position < hi && lo < t.End() {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	return first, last
}

// widenInsets raises the first and last tracks' insets of s to at least the
// group's insets.
func widenInsets(pg *PartitionGrid, s grid.Span, in grid.Insets) {
	pg.Columns[s.MinCol].MinInset = max(pg.Columns[s.MinCol].MinInset, in.Left)
	pg.Columns[s.MaxCol].MaxInset = max(pg.Columns[s.MaxCol].MaxInset, in.Right)
	pg.Rows[s.MinRow].MinInset = max(pg.Rows[s.MinRow].MinInset, in.Top)
	pg.Rows[s.MaxRow].MaxInset = max(pg.Rows[s.MaxRow].MaxInset, in.Bottom)
}

// Stage wraps a core [Layouter] and turns the groups of a table into
// multi-cell placement units.
//
// For every group directly inside the graph's table (see [Graph.Table]),
// Stage computes the claimed cell span, rejects overlapping spans and remaps
// each non-group node whose simple cell lies in a span to that span's
// multi-cell id. The core layouter then sees one placement unit per group.
//
// Stage never mutates the caller's assignment or partition grid; the core
// runs on copies. The original simple-cell assignment is not written back
// after layout; callers that need it keep their own copy.
type Stage struct {
	Core Layouter
}

// Result is the outcome of [Stage.Layout].
type Result struct {
	// Assignment is the remapped assignment the core layouter saw.
	Assignment Assignment
	// Grid is the partition grid with the core's final track geometry.
	Grid *PartitionGrid
	// Spans lists the group spans in graph order.
	Spans []GroupSpan
}

// Layout runs the core layouter on g. A nil pg, or a graph without a table,
// is passed through unchanged.
func (s Stage) Layout(ctx context.Context, g *Graph, pg *PartitionGrid, a Assignment) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Core == nil {
		return nil, errors.New("layout stage has no core layouter")
	}

	remapped := a.Clone()
	var work *PartitionGrid
	if pg != nil {
		work = pg.Clone()
	}
	table, ok := g.Table()
	if pg == nil || !ok {
		if err := s.Core.Layout(ctx, g, work, remapped); err != nil {
			return nil, err
		}
		return &Result{Assignment: remapped, Grid: work}, nil
	}

	var spans []GroupSpan
	for _, n := range g.Children(table.ID) {
		if !n.Group {
			continue
		}
		gs, err := GroupCellSpan(pg, n)
		if err != nil {
			return nil, err
		}
		widenInsets(work, gs.Span, n.Insets)
		spans = append(spans, gs)
	}
	if err := checkDisjoint(spans); err != nil {
		return nil, err
	}

	owner := make(map[grid.Cell]CellID)
	for _, gs := range spans {
		remapped[gs.Group] = gs.ID
		for _, c := range gs.ID.Cells {
			owner[c] = gs.ID
		}
	}
	for _, n := range g.Nodes() {
		if n.Group {
			continue
		}
		id, ok := a[n.ID]
		if !ok {
			continue
		}
		c, ok := id.First()
		if !ok {
			continue
		}
		if multi, ok := owner[c]; ok {
			remapped[n.ID] = multi
		}
	}

	if err := s.Core.Layout(ctx, g, work, remapped); err != nil {
		return nil, err
	}
	return &Result{Assignment: remapped, Grid: work, Spans: spans}, nil
}

func checkDisjoint(spans []GroupSpan) error {
	for i, a := range spans {
		for _, b := range spans[i+1:] {
			if a.Span.Intersects(b.Span) {
				return fmt.Errorf("groups %q (%s) and %q (%s): %w",
					a.Group, a.Span, b.Group, b.Span, ErrOverlappingCellSpan)
			}
		}
	}
	return nil
}
