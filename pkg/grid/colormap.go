package grid

import (
	"cmp"
	"maps"
	"slices"
)

// Tag marks the cells that belong together. The empty Tag means untagged.
// Tags are usually colors such as "#c00000", but the package treats them as
// opaque values.
type Tag string

// DefaultPalette is the ordered set of tags handed out by
// [ColorMap.NextUnused] when no other palette is configured.
var DefaultPalette = []Tag{
	"#c00000",
	"#ff6600",
	"#fbb007",
	"#009939",
	"#0089cd",
	"#ee3551",
	"#ff8638",
	"#f2e415",
	"#95d127",
	"#11affc",
}

// Axis selects columns or rows.
type Axis int

const (
	// Columns is the horizontal axis; it shifts Cell.Col.
	Columns Axis = iota
	// Rows is the vertical axis; it shifts Cell.Row.
	Rows
)

// String returns "column" or "row".
func (a Axis) String() string {
	if a == Rows {
		return "row"
	}
	return "column"
}

func (a Axis) coord(c Cell) int {
	if a == Rows {
		return c.Row
	}
	return c.Col
}

func (a Axis) move(c Cell, delta int) Cell {
	if a == Rows {
		c.Row += delta
	} else {
		c.Col += delta
	}
	return c
}

// Record is the serialized form of one tagged cell. Records carry indices
// rather than references because indices are the only representation that
// stays stable when a grid is copied.
type Record struct {
	Tag    Tag `json:"tag" toml:"tag"`
	Column int `json:"column" toml:"column"`
	Row    int `json:"row" toml:"row"`
}

// ColorMap maps cells to tags.
//
// A ColorMap is keyed by index pairs only and holds no references to grid
// tracks, so [ColorMap.Clone] yields a fully independent copy. The zero value
// is an empty, ready-to-use map.
type ColorMap struct {
	data map[Cell]Tag
}

// NewColorMap returns an empty ColorMap.
func NewColorMap() *ColorMap {
	return &ColorMap{data: make(map[Cell]Tag)}
}

// FromRecords builds a ColorMap from serialized records. Records with an
// empty tag are skipped; later records win over earlier ones.
func FromRecords(records []Record) *ColorMap {
	cm := NewColorMap()
	for _, r := range records {
		cm.Set(Cell{Col: r.Column, Row: r.Row}, r.Tag)
	}
	return cm
}

// Get returns the tag of c. The second result is false if c is untagged.
func (m *ColorMap) Get(c Cell) (Tag, bool) {
	t, ok := m.data[c]
	return t, ok
}

// Set tags c with t. An empty t clears c.
func (m *ColorMap) Set(c Cell, t Tag) {
	if t == "" {
		delete(m.data, c)
		return
	}
	if m.data == nil {
		m.data = make(map[Cell]Tag)
	}
	m.data[c] = t
}

// SetSpan tags every cell of s with t. An empty t clears the span.
func (m *ColorMap) SetSpan(s Span, t Tag) {
	for c := s.MinCol; c <= s.MaxCol; c++ {
		for r := s.MinRow; r <= s.MaxRow; r++ {
			m.Set(Cell{Col: c, Row: r}, t)
		}
	}
}

// RemoveTag clears every cell tagged with t and returns how many were cleared.
func (m *ColorMap) RemoveTag(t Tag) int {
	n := 0
	for c, v := range m.data {
		if v == t {
			delete(m.data, c)
			n++
		}
	}
	return n
}

// Len returns the number of tagged cells.
func (m *ColorMap) Len() int { return len(m.data) }

// Tags returns the distinct tags in use, sorted.
func (m *ColorMap) Tags() []Tag {
	seen := make(map[Tag]struct{}, len(m.data))
	for _, t := range m.data {
		seen[t] = struct{}{}
	}
	return slices.Sorted(maps.Keys(seen))
}

// NextUnused returns the first tag of palette that no cell carries.
// The second result is false if every palette entry is in use.
func (m *ColorMap) NextUnused(palette []Tag) (Tag, bool) {
	used := make(map[Tag]struct{}, len(m.data))
	for _, t := range m.data {
		used[t] = struct{}{}
	}
	for _, t := range palette {
		if _, ok := used[t]; !ok {
			return t, true
		}
	}
	return "", false
}

// Shift re-indexes the map after a column or row change at index on axis.
//
// For an insertion every cell with coordinate >= index moves by +1. For a
// removal every cell with coordinate == index is cleared and every cell with
// coordinate > index moves by -1. The result is computed as a batch into a
// fresh map, so entries never collide mid-operation.
func (m *ColorMap) Shift(index int, axis Axis, insertion bool) {
	shifted := make(map[Cell]Tag, len(m.data))
	for c, t := range m.data {
		v := axis.coord(c)
		switch {
		case v < index:
			shifted[c] = t
		case insertion:
			shifted[axis.move(c, 1)] = t
		case v > index:
			shifted[axis.move(c, -1)] = t
		}
	}
	m.data = shifted
}

// Range calls fn for every tagged cell in column-major order until fn
// returns false.
func (m *ColorMap) Range(fn func(Cell, Tag) bool) {
	for _, c := range m.sortedCells() {
		if !fn(c, m.data[c]) {
			return
		}
	}
}

// Records returns one record per tagged cell in column-major order.
func (m *ColorMap) Records() []Record {
	cells := m.sortedCells()
	records := make([]Record, len(cells))
	for i, c := range cells {
		records[i] = Record{Tag: m.data[c], Column: c.Col, Row: c.Row}
	}
	return records
}

// Clone returns an independent copy of m.
func (m *ColorMap) Clone() *ColorMap {
	data := make(map[Cell]Tag, len(m.data))
	maps.Copy(data, m.data)
	return &ColorMap{data: data}
}

// Equal reports whether m and o tag exactly the same cells with the same tags.
func (m *ColorMap) Equal(o *ColorMap) bool {
	return maps.Equal(m.data, o.data)
}

// Prune removes all tags outside the given grid dimensions.
// It returns the number of removed cells.
func (m *ColorMap) Prune(cols, rows int) int {
	n := 0
	for c := range m.data {
		if c.Col < 0 || c.Col >= cols || c.Row < 0 || c.Row >= rows {
			delete(m.data, c)
			n++
		}
	}
	return n
}

func (m *ColorMap) sortedCells() []Cell {
	cells := slices.Collect(maps.Keys(m.data))
	slices.SortFunc(cells, func(a, b Cell) int {
		if c := cmp.Compare(a.Col, b.Col); c != 0 {
			return c
		}
		return cmp.Compare(a.Row, b.Row)
	})
	return cells
}
