package grid

import (
	"errors"
	"testing"
)

func TestGrid_InsertRemoveColumn(t *testing.T) {
	g := New([]float64{10, 20, 30}, []float64{5})

	if err := g.InsertColumn(1, Column{Width: 15}); err != nil {
		t.Fatalf("InsertColumn: %v", err)
	}
	want := []float64{10, 15, 20, 30}
	for i, w := range want {
		c, err := g.Column(i)
		if err != nil {
			t.Fatalf("Column(%d): %v", i, err)
		}
		if c.Width != w {
			t.Errorf("Column(%d).Width = %v, want %v", i, c.Width, w)
		}
	}

	if err := g.RemoveColumn(0); err != nil {
		t.Fatalf("RemoveColumn: %v", err)
	}
	if g.ColumnCount() != 3 {
		t.Fatalf("ColumnCount() = %d, want 3", g.ColumnCount())
	}
	if c, _ := g.Column(0); c.Width != 15 {
		t.Errorf("Column(0).Width = %v, want 15 after re-indexing", c.Width)
	}
}

func TestGrid_InsertAppend(t *testing.T) {
	g := New(nil, []float64{5})
	if err := g.InsertRow(1, Row{Height: 7}); err != nil {
		t.Fatalf("InsertRow at end: %v", err)
	}
	if r, _ := g.Row(1); r.Height != 7 {
		t.Errorf("Row(1).Height = %v, want 7", r.Height)
	}
}

func TestGrid_IndexOutOfRange(t *testing.T) {
	g := New([]float64{10}, []float64{10})

	tests := []struct {
		name string
		fn   func() error
	}{
		{"Column", func() error { _, err := g.Column(1); return err }},
		{"NegativeRow", func() error { _, err := g.Row(-1); return err }},
		{"InsertColumn", func() error { return g.InsertColumn(2, Column{}) }},
		{"RemoveColumn", func() error { return g.RemoveColumn(1) }},
		{"InsertRow", func() error { return g.InsertRow(-1, Row{}) }},
		{"RemoveRow", func() error { return g.RemoveRow(3) }},
		{"SetColumn", func() error { return g.SetColumn(5, Column{}) }},
		{"ColumnOffset", func() error { _, err := g.ColumnOffset(2); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); !errors.Is(err, ErrIndexOutOfRange) {
				t.Errorf("err = %v, want ErrIndexOutOfRange", err)
			}
		})
	}
}

func TestGrid_Offsets(t *testing.T) {
	g := New([]float64{10, 20}, []float64{5, 6})
	g.X, g.Y = 100, 200
	g.Insets = Insets{Top: 3, Left: 4, Bottom: 1, Right: 2}

	if x, _ := g.ColumnOffset(1); x != 114 {
		t.Errorf("ColumnOffset(1) = %v, want 114", x)
	}
	if y, _ := g.RowOffset(2); y != 214 {
		t.Errorf("RowOffset(2) = %v, want 214", y)
	}
	x, y, w, h := g.Bounds()
	if x != 100 || y != 200 || w != 36 || h != 15 {
		t.Errorf("Bounds() = %v,%v,%v,%v, want 100,200,36,15", x, y, w, h)
	}
}

func TestGrid_CloneIsIndependent(t *testing.T) {
	g := New([]float64{10}, []float64{10})
	c := g.Clone()
	_ = c.InsertColumn(0, Column{Width: 1})
	if g.ColumnCount() != 1 {
		t.Errorf("original ColumnCount() = %d, want 1", g.ColumnCount())
	}
}

func TestSpan_Contains(t *testing.T) {
	s := NewSpan(1, 3, 2, 4)
	tests := []struct {
		cell Cell
		want bool
	}{
		{Cell{1, 2}, true},
		{Cell{3, 4}, true},
		{Cell{2, 3}, true},
		{Cell{0, 2}, false},
		{Cell{4, 4}, false},
		{Cell{2, 5}, false},
	}
	for _, tt := range tests {
		if got := s.Contains(tt.cell); got != tt.want {
			t.Errorf("Contains(%s) = %v, want %v", tt.cell, got, tt.want)
		}
	}

	if !s.ContainsSpan(NewSpan(2, 3, 2, 2)) {
		t.Error("ContainsSpan(inner) = false, want true")
	}
	if s.ContainsSpan(NewSpan(0, 3, 2, 2)) {
		t.Error("ContainsSpan(wider) = true, want false")
	}
	if !s.ContainsSpan(s) {
		t.Error("ContainsSpan(self) = false, want true")
	}
}

func TestNewSpan_Normalizes(t *testing.T) {
	if got, want := NewSpan(3, 1, 4, 2), (Span{1, 3, 2, 4}); got != want {
		t.Errorf("NewSpan = %+v, want %+v", got, want)
	}
}

func TestFromCells(t *testing.T) {
	if _, err := FromCells(nil); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("FromCells(nil) err = %v, want ErrEmptyInput", err)
	}

	s, err := FromCells([]Cell{{2, 5}, {0, 1}, {1, 3}})
	if err != nil {
		t.Fatalf("FromCells: %v", err)
	}
	if want := NewSpan(0, 2, 1, 5); s != want {
		t.Errorf("FromCells = %+v, want %+v", s, want)
	}
}

func TestFromCells_RoundTrip(t *testing.T) {
	spans := []Span{
		NewSpan(0, 0, 0, 0),
		NewSpan(0, 4, 0, 0),
		NewSpan(2, 2, 1, 7),
		NewSpan(3, 6, 2, 5),
	}
	for _, s := range spans {
		got, err := FromCells(s.Cells())
		if err != nil {
			t.Fatalf("FromCells(%s): %v", s, err)
		}
		if got != s {
			t.Errorf("FromCells(Cells(%s)) = %s", s, got)
		}
		if len(s.Cells()) != s.Size() {
			t.Errorf("len(Cells(%s)) = %d, want %d", s, len(s.Cells()), s.Size())
		}
	}
}

func TestSpan_Intersection(t *testing.T) {
	a := NewSpan(0, 2, 0, 2)
	b := NewSpan(2, 4, 1, 5)
	got, ok := a.Intersection(b)
	if !ok {
		t.Fatal("Intersection ok = false, want true")
	}
	if want := NewSpan(2, 2, 1, 2); got != want {
		t.Errorf("Intersection = %s, want %s", got, want)
	}
	if _, ok := a.Intersection(NewSpan(3, 4, 0, 0)); ok {
		t.Error("Intersection of disjoint spans ok = true")
	}
}
