package grid

import "fmt"

// Cell addresses one column/row intersection by index.
type Cell struct {
	Col int `json:"column" toml:"column"`
	Row int `json:"row" toml:"row"`
}

// String returns the cell as "[c=1;r=2]".
func (c Cell) String() string { return fmt.Sprintf("[c=%d;r=%d]", c.Col, c.Row) }

// Span is an inclusive rectangular range of columns and rows.
//
// A valid span has MinCol <= MaxCol and MinRow <= MaxRow and therefore always
// contains at least one cell. Spans are values and are never mutated after
// construction.
type Span struct {
	MinCol int `json:"min_col"`
	MaxCol int `json:"max_col"`
	MinRow int `json:"min_row"`
	MaxRow int `json:"max_row"`
}

// NewSpan returns the span between the given column and row bounds.
// The bounds may be given in either order.
func NewSpan(col1, col2, row1, row2 int) Span {
	return Span{
		MinCol: min(col1, col2),
		MaxCol: max(col1, col2),
		MinRow: min(row1, row2),
		MaxRow: max(row1, row2),
	}
}

// CellSpan returns the single-cell span of c.
func CellSpan(c Cell) Span {
	return Span{MinCol: c.Col, MaxCol: c.Col, MinRow: c.Row, MaxRow: c.Row}
}

// FromCells returns the smallest span covering all given cells.
// It returns [ErrEmptyInput] if cells is empty.
func FromCells(cells []Cell) (Span, error) {
	if len(cells) == 0 {
		return Span{}, ErrEmptyInput
	}
	s := CellSpan(cells[0])
	for _, c := range cells[1:] {
		s.MinCol = min(s.MinCol, c.Col)
		s.MaxCol = max(s.MaxCol, c.Col)
		s.MinRow = min(s.MinRow, c.Row)
		s.MaxRow = max(s.MaxRow, c.Row)
	}
	return s, nil
}

// Contains reports whether c lies inside s.
func (s Span) Contains(c Cell) bool {
	return s.MinCol <= c.Col && c.Col <= s.MaxCol &&
		s.MinRow <= c.Row && c.Row <= s.MaxRow
}

// ContainsSpan reports whether every cell of o lies inside s.
func (s Span) ContainsSpan(o Span) bool {
	return s.MinCol <= o.MinCol && o.MaxCol <= s.MaxCol &&
		s.MinRow <= o.MinRow && o.MaxRow <= s.MaxRow
}

// Intersects reports whether s and o share at least one cell.
func (s Span) Intersects(o Span) bool {
	return s.MinCol <= o.MaxCol && o.MinCol <= s.MaxCol &&
		s.MinRow <= o.MaxRow && o.MinRow <= s.MaxRow
}

// Intersection returns the cells shared by s and o.
// The second result is false if the spans are disjoint.
func (s Span) Intersection(o Span) (Span, bool) {
	if !s.Intersects(o) {
		return Span{}, false
	}
	return Span{
		MinCol: max(s.MinCol, o.MinCol),
		MaxCol: min(s.MaxCol, o.MaxCol),
		MinRow: max(s.MinRow, o.MinRow),
		MaxRow: min(s.MaxRow, o.MaxRow),
	}, true
}

// Columns returns the number of columns covered by s.
func (s Span) Columns() int { return s.MaxCol - s.MinCol + 1 }

// Rows returns the number of rows covered by s.
func (s Span) Rows() int { return s.MaxRow - s.MinRow + 1 }

// Size returns the number of cells in s.
func (s Span) Size() int { return s.Columns() * s.Rows() }

// Cells returns all cells of s in column-major order.
func (s Span) Cells() []Cell {
	cells := make([]Cell, 0, s.Size())
	for c := s.MinCol; c <= s.MaxCol; c++ {
		for r := s.MinRow; r <= s.MaxRow; r++ {
			cells = append(cells, Cell{Col: c, Row: r})
		}
	}
	return cells
}

// String returns the span as "cols 0-2, rows 1-3".
func (s Span) String() string {
	return fmt.Sprintf("cols %d-%d, rows %d-%d", s.MinCol, s.MaxCol, s.MinRow, s.MaxRow)
}
