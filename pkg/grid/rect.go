package grid

import "fmt"

// Rect is an axis-aligned rectangle in layout coordinates.
type Rect struct {
	X float64 `json:"x" toml:"x"`
	Y float64 `json:"y" toml:"y"`
	W float64 `json:"width" toml:"width"`
	H float64 `json:"height" toml:"height"`
}

// MaxX returns the right edge of r.
func (r Rect) MaxX() float64 { return r.X + r.W }

// MaxY returns the bottom edge of r.
func (r Rect) MaxY() float64 { return r.Y + r.H }

// Center returns the center point of r.
func (r Rect) Center() (x, y float64) { return r.X + r.W/2, r.Y + r.H/2 }

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Intersects reports whether the interiors of r and o overlap.
// Rectangles that merely touch along an edge do not intersect.
func (r Rect) Intersects(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.MaxX() && o.X < r.MaxX() && r.Y < o.MaxY() && o.Y < r.MaxY()
}

// ContainsPoint reports whether (x, y) lies strictly inside r.
func (r Rect) ContainsPoint(x, y float64) bool {
	return r.X < x && x < r.MaxX() && r.Y < y && y < r.MaxY()
}

// Union returns the smallest rectangle covering r and o.
// An empty operand is ignored.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x, y := min(r.X, o.X), min(r.Y, o.Y)
	return Rect{X: x, Y: y, W: max(r.MaxX(), o.MaxX()) - x, H: max(r.MaxY(), o.MaxY()) - y}
}

// Inset shrinks r by d on every side.
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, W: r.W - 2*d, H: r.H - 2*d}
}

func (r Rect) String() string {
	return fmt.Sprintf("(%g,%g %gx%g)", r.X, r.Y, r.W, r.H)
}

// CellRect returns the rectangle occupied by cell c.
func (g *Grid) CellRect(c Cell) (Rect, error) {
	if !g.InBounds(c) {
		return Rect{}, fmt.Errorf("cell %s of %dx%d: %w", c, len(g.columns), len(g.rows), ErrIndexOutOfRange)
	}
	x, _ := g.ColumnOffset(c.Col)
	y, _ := g.RowOffset(c.Row)
	return Rect{X: x, Y: y, W: g.columns[c.Col].Width, H: g.rows[c.Row].Height}, nil
}

// SpanRect returns the rectangle covered by the cells of s.
func (g *Grid) SpanRect(s Span) (Rect, error) {
	if !g.InBounds(Cell{Col: s.MinCol, Row: s.MinRow}) || !g.InBounds(Cell{Col: s.MaxCol, Row: s.MaxRow}) {
		return Rect{}, fmt.Errorf("span %s of %dx%d: %w", s, len(g.columns), len(g.rows), ErrIndexOutOfRange)
	}
	x0, _ := g.ColumnOffset(s.MinCol)
	x1, _ := g.ColumnOffset(s.MaxCol + 1)
	y0, _ := g.RowOffset(s.MinRow)
	y1, _ := g.RowOffset(s.MaxRow + 1)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}, nil
}
