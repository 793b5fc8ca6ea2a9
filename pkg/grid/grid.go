package grid

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrIndexOutOfRange is returned when a column or row index does not
	// address an existing track (or, for insertion, a valid gap).
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrEmptyInput is returned by [FromCells] when no cells are given.
	ErrEmptyInput = errors.New("empty input")

	// ErrInternalInvariant is returned when an algorithm reaches a state its
	// case analysis does not cover. It indicates a logic gap, not bad input.
	ErrInternalInvariant = errors.New("internal invariant violation")

	// ErrNonRectangularSpan is returned by [CheckRectangular] when the cells
	// of one tag do not fill their bounding box.
	ErrNonRectangularSpan = errors.New("non-rectangular span")
)

// DefaultTrackSize is the width of new columns and the height of new rows
// when no explicit size is given.
const DefaultTrackSize = 80.0

// Insets describes the padding on each side of a rectangle.
type Insets struct {
	Top    float64 `json:"top,omitempty" toml:"top,omitempty"`
	Left   float64 `json:"left,omitempty" toml:"left,omitempty"`
	Bottom float64 `json:"bottom,omitempty" toml:"bottom,omitempty"`
	Right  float64 `json:"right,omitempty" toml:"right,omitempty"`
}

// Column is a vertical track of the grid.
// MinInset and MaxInset are the left and right insets.
type Column struct {
	Width    float64 `json:"width" toml:"width"`
	MinInset float64 `json:"min_inset,omitempty" toml:"min_inset,omitempty"`
	MaxInset float64 `json:"max_inset,omitempty" toml:"max_inset,omitempty"`
}

// Row is a horizontal track of the grid.
// MinInset and MaxInset are the top and bottom insets.
type Row struct {
	Height   float64 `json:"height" toml:"height"`
	MinInset float64 `json:"min_inset,omitempty" toml:"min_inset,omitempty"`
	MaxInset float64 `json:"max_inset,omitempty" toml:"max_inset,omitempty"`
}

// Grid is an ordered set of columns and rows positioned at an origin.
//
// Track indices are implicit: the i-th column always has index i, so inserting
// or removing a track re-indexes every following track. The zero value is an
// empty grid at the origin.
type Grid struct {
	X      float64
	Y      float64
	Insets Insets

	columns []Column
	rows    []Row
}

// New creates a grid with one column per width and one row per height.
func New(widths, heights []float64) *Grid {
	g := &Grid{
		columns: make([]Column, len(widths)),
		rows:    make([]Row, len(heights)),
	}
	for i, w := range widths {
		g.columns[i] = Column{Width: w}
	}
	for i, h := range heights {
		g.rows[i] = Row{Height: h}
	}
	return g
}

// FromTracks creates a grid from explicit column and row descriptions.
// The slices are copied.
func FromTracks(columns []Column, rows []Row) *Grid {
	return &Grid{columns: slices.Clone(columns), rows: slices.Clone(rows)}
}

// ColumnCount returns the number of columns.
func (g *Grid) ColumnCount() int { return len(g.columns) }

// RowCount returns the number of rows.
func (g *Grid) RowCount() int { return len(g.rows) }

// Columns returns a copy of the column list.
func (g *Grid) Columns() []Column { return slices.Clone(g.columns) }

// Rows returns a copy of the row list.
func (g *Grid) Rows() []Row { return slices.Clone(g.rows) }

// Column returns the column at index i.
func (g *Grid) Column(i int) (Column, error) {
	if i < 0 || i >= len(g.columns) {
		return Column{}, fmt.Errorf("column %d of %d: %w", i, len(g.columns), ErrIndexOutOfRange)
	}
	return g.columns[i], nil
}

// Row returns the row at index i.
func (g *Grid) Row(i int) (Row, error) {
	if i < 0 || i >= len(g.rows) {
		return Row{}, fmt.Errorf("row %d of %d: %w", i, len(g.rows), ErrIndexOutOfRange)
	}
	return g.rows[i], nil
}

// SetColumn replaces the column at index i.
func (g *Grid) SetColumn(i int, c Column) error {
	if i < 0 || i >= len(g.columns) {
		return fmt.Errorf("column %d of %d: %w", i, len(g.columns), ErrIndexOutOfRange)
	}
	g.columns[i] = c
	return nil
}

// SetRow replaces the row at index i.
func (g *Grid) SetRow(i int, r Row) error {
	if i < 0 || i >= len(g.rows) {
		return fmt.Errorf("row %d of %d: %w", i, len(g.rows), ErrIndexOutOfRange)
	}
	g.rows[i] = r
	return nil
}

// InsertColumn inserts c so that it ends up at index i. Valid indices are
// 0 through ColumnCount(); the latter appends.
func (g *Grid) InsertColumn(i int, c Column) error {
	if i < 0 || i > len(g.columns) {
		return fmt.Errorf("insert column at %d of %d: %w", i, len(g.columns), ErrIndexOutOfRange)
	}
	g.columns = slices.Insert(g.columns, i, c)
	return nil
}

// RemoveColumn removes the column at index i.
func (g *Grid) RemoveColumn(i int) error {
	if i < 0 || i >= len(g.columns) {
		return fmt.Errorf("remove column %d of %d: %w", i, len(g.columns), ErrIndexOutOfRange)
	}
	g.columns = slices.Delete(g.columns, i, i+1)
	return nil
}

// InsertRow inserts r so that it ends up at index i. Valid indices are
// 0 through RowCount(); the latter appends.
func (g *Grid) InsertRow(i int, r Row) error {
	if i < 0 || i > len(g.rows) {
		return fmt.Errorf("insert row at %d of %d: %w", i, len(g.rows), ErrIndexOutOfRange)
	}
	g.rows = slices.Insert(g.rows, i, r)
	return nil
}

// RemoveRow removes the row at index i.
func (g *Grid) RemoveRow(i int) error {
	if i < 0 || i >= len(g.rows) {
		return fmt.Errorf("remove row %d of %d: %w", i, len(g.rows), ErrIndexOutOfRange)
	}
	g.rows = slices.Delete(g.rows, i, i+1)
	return nil
}

// InBounds reports whether c addresses an existing cell.
func (g *Grid) InBounds(c Cell) bool {
	return c.Col >= 0 && c.Col < len(g.columns) && c.Row >= 0 && c.Row < len(g.rows)
}

// ColumnOffset returns the x coordinate of the left edge of column i.
// Index ColumnCount() yields the right edge of the last column.
func (g *Grid) ColumnOffset(i int) (float64, error) {
	if i < 0 || i > len(g.columns) {
		return 0, fmt.Errorf("column offset %d of %d: %w", i, len(g.columns), ErrIndexOutOfRange)
	}
	x := g.X + g.Insets.Left
	for _, c := range g.columns[:i] {
		x += c.Width
	}
	return x, nil
}

// RowOffset returns the y coordinate of the top edge of row i.
// Index RowCount() yields the bottom edge of the last row.
func (g *Grid) RowOffset(i int) (float64, error) {
	if i < 0 || i > len(g.rows) {
		return 0, fmt.Errorf("row offset %d of %d: %w", i, len(g.rows), ErrIndexOutOfRange)
	}
	y := g.Y + g.Insets.Top
	for _, r := range g.rows[:i] {
		y += r.Height
	}
	return y, nil
}

// Bounds returns the outer rectangle of the grid including table insets
// as x, y, width, height.
func (g *Grid) Bounds() (x, y, w, h float64) {
	w = g.Insets.Left + g.Insets.Right
	for _, c := range g.columns {
		w += c.Width
	}
	h = g.Insets.Top + g.Insets.Bottom
	for _, r := range g.rows {
		h += r.Height
	}
	return g.X, g.Y, w, h
}

// Clone returns an independent copy of g.
func (g *Grid) Clone() *Grid {
	c := *g
	c.columns = slices.Clone(g.columns)
	c.rows = slices.Clone(g.rows)
	return &c
}
