package grid

import (
	"fmt"
)

// Discover returns the span of cells tagged with tag that is reachable from
// start.
//
// Discover views the grid as a graph in which a cell is connected to its
// north, south, west and east neighbor if that neighbor carries tag, and runs
// a depth-first search from start. The tag of start itself is ignored, so the
// result always includes start and is a single-cell span when no neighbor
// matches.
//
// The result is the bounding box of the visited cells. For tag maps that were
// built by painting and cutting this equals the connected component. For
// malformed maps (an L-shaped region, for instance) the bounding box is a
// superset of the component; see [CheckRectangular].
func Discover(g *Grid, cm *ColorMap, start Cell, tag Tag) Span {
	s := CellSpan(start)
	seen := make(map[Cell]struct{})
	stack := []Cell{start}

	for len(stack) > 0 {
		cell := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := seen[cell]; ok {
			continue
		}
		seen[cell] = struct{}{}

		for _, n := range neighbors(g, cell) {
			if t, ok := cm.Get(n); !ok || t != tag {
				continue
			}
			stack = append(stack, n)
			s.MinCol = min(s.MinCol, n.Col)
			s.MaxCol = max(s.MaxCol, n.Col)
			s.MinRow = min(s.MinRow, n.Row)
			s.MaxRow = max(s.MaxRow, n.Row)
		}
	}
	return s
}

func neighbors(g *Grid, c Cell) []Cell {
	out := make([]Cell, 0, 4)
	if c.Row > 0 {
		out = append(out, Cell{Col: c.Col, Row: c.Row - 1})
	}
	if c.Col > 0 {
		out = append(out, Cell{Col: c.Col - 1, Row: c.Row})
	}
	if c.Row+1 < g.RowCount() {
		out = append(out, Cell{Col: c.Col, Row: c.Row + 1})
	}
	if c.Col+1 < g.ColumnCount() {
		out = append(out, Cell{Col: c.Col + 1, Row: c.Row})
	}
	return out
}

// TaggedSpan pairs a span with the tag of its cells.
type TaggedSpan struct {
	Tag  Tag  `json:"tag"`
	Span Span `json:"span"`
}

// Spans returns one span per distinct tag, scanning the grid in column-major
// order and discovering from the first cell found for each tag.
func Spans(g *Grid, cm *ColorMap) []TaggedSpan {
	var spans []TaggedSpan
	used := make(map[Tag]struct{})
	for c := 0; c < g.ColumnCount(); c++ {
		for r := 0; r < g.RowCount(); r++ {
			cell := Cell{Col: c, Row: r}
			t, ok := cm.Get(cell)
			if !ok {
				continue
			}
			if _, dup := used[t]; dup {
				continue
			}
			used[t] = struct{}{}
			spans = append(spans, TaggedSpan{Tag: t, Span: Discover(g, cm, cell, t)})
		}
	}
	return spans
}

// IsRectangular reports whether every cell of s carries tag.
func IsRectangular(cm *ColorMap, s Span, tag Tag) bool {
	for c := s.MinCol; c <= s.MaxCol; c++ {
		for r := s.MinRow; r <= s.MaxRow; r++ {
			if t, ok := cm.Get(Cell{Col: c, Row: r}); !ok || t != tag {
				return false
			}
		}
	}
	return true
}

// CheckRectangular verifies that every tag of cm forms exactly one filled
// rectangle. It returns an error wrapping [ErrNonRectangularSpan] naming the
// first offending tag, or [ErrIndexOutOfRange] if a tagged cell lies outside g.
func CheckRectangular(g *Grid, cm *ColorMap) error {
	var err error
	cm.Range(func(c Cell, _ Tag) bool {
		if !g.InBounds(c) {
			err = fmt.Errorf("tagged cell %s outside %dx%d grid: %w", c, g.ColumnCount(), g.RowCount(), ErrIndexOutOfRange)
			return false
		}
		return true
	})
	if err != nil {
		return err
	}

	counts := make(map[Tag]int)
	cm.Range(func(_ Cell, t Tag) bool {
		counts[t]++
		return true
	})
	for _, ts := range Spans(g, cm) {
		if !IsRectangular(cm, ts.Span, ts.Tag) || ts.Span.Size() != counts[ts.Tag] {
			return fmt.Errorf("tag %s (%s): %w", ts.Tag, ts.Span, ErrNonRectangularSpan)
		}
	}
	return nil
}
