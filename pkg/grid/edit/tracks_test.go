package edit

import (
	"errors"
	"testing"

	"github.com/matzehuels/cellspan/pkg/grid"
)

func TestInsertColumn_ExtendsCrossingSpan(t *testing.T) {
	g := newGrid(3, 2)
	cm := grid.NewColorMap()
	cm.SetSpan(grid.NewSpan(0, 1, 0, 0), "a")
	cm.Set(grid.Cell{Col: 2, Row: 1}, "b")

	idx, err := InsertColumn(g, cm, 0, false, 0)
	if err != nil {
		t.Fatalf("InsertColumn: %v", err)
	}
	if idx != 1 {
		t.Errorf("index = %d, want 1", idx)
	}
	if g.ColumnCount() != 4 {
		t.Errorf("ColumnCount() = %d, want 4", g.ColumnCount())
	}
	if c, _ := g.Column(1); c.Width != grid.DefaultTrackSize {
		t.Errorf("new column width = %v, want %v", c.Width, grid.DefaultTrackSize)
	}

	if got := grid.Discover(g, cm, grid.Cell{Col: 0, Row: 0}, "a"); got != grid.NewSpan(0, 2, 0, 0) {
		t.Errorf("span a = %s, want cols 0-2, rows 0-0", got)
	}
	if tag, _ := cm.Get(grid.Cell{Col: 3, Row: 1}); tag != "b" {
		t.Errorf("cell (3,1) = %q, want b", tag)
	}
	if _, ok := cm.Get(grid.Cell{Col: 1, Row: 1}); ok {
		t.Error("new cell (1,1) was tagged")
	}
	assertRectangular(t, g, cm)
}

func TestInsertColumn_BeforeAtEdge(t *testing.T) {
	g := newGrid(2, 1)
	cm := grid.NewColorMap()
	cm.SetSpan(grid.NewSpan(0, 1, 0, 0), "a")

	idx, err := InsertColumn(g, cm, 0, true, 25)
	if err != nil {
		t.Fatalf("InsertColumn: %v", err)
	}
	if idx != 0 {
		t.Errorf("index = %d, want 0", idx)
	}
	if _, ok := cm.Get(grid.Cell{Col: 0, Row: 0}); ok {
		t.Error("new leading column was tagged")
	}
	if got := grid.Discover(g, cm, grid.Cell{Col: 1, Row: 0}, "a"); got != grid.NewSpan(1, 2, 0, 0) {
		t.Errorf("span a = %s, want cols 1-2", got)
	}
}

func TestInsertColumn_BeforeInsideSpan(t *testing.T) {
	g := newGrid(3, 1)
	cm := grid.NewColorMap()
	cm.SetSpan(grid.NewSpan(0, 2, 0, 0), "a")

	if _, err := InsertColumn(g, cm, 2, true, 0); err != nil {
		t.Fatalf("InsertColumn: %v", err)
	}
	if cm.Len() != 4 {
		t.Errorf("Len() = %d, want 4", cm.Len())
	}
	assertRectangular(t, g, cm)
}

func TestInsertRow_ExtendsCrossingSpan(t *testing.T) {
	g := newGrid(2, 3)
	cm := grid.NewColorMap()
	cm.SetSpan(grid.NewSpan(0, 1, 0, 2), "a")

	idx, err := InsertRow(g, cm, 1, false, 0)
	if err != nil {
		t.Fatalf("InsertRow: %v", err)
	}
	if idx != 2 {
		t.Errorf("index = %d, want 2", idx)
	}
	if got := grid.Discover(g, cm, grid.Cell{}, "a"); got != grid.NewSpan(0, 1, 0, 3) {
		t.Errorf("span a = %s, want cols 0-1, rows 0-3", got)
	}
	assertRectangular(t, g, cm)
}

func TestInsertTrack_EmptyGrid(t *testing.T) {
	g := grid.New(nil, nil)
	cm := grid.NewColorMap()
	idx, err := InsertRow(g, cm, 7, true, 0)
	if err != nil || idx != 0 {
		t.Fatalf("InsertRow on empty grid = %d, %v", idx, err)
	}
	if g.RowCount() != 1 {
		t.Errorf("RowCount() = %d, want 1", g.RowCount())
	}
}

func TestRemoveColumn(t *testing.T) {
	g := newGrid(4, 2)
	cm := grid.NewColorMap()
	cm.SetSpan(grid.NewSpan(0, 1, 0, 1), "a")
	cm.SetSpan(grid.NewSpan(2, 2, 0, 1), "b")
	cm.SetSpan(grid.NewSpan(3, 3, 0, 0), "c")

	if err := RemoveColumn(g, cm, 2); err != nil {
		t.Fatalf("RemoveColumn: %v", err)
	}
	if g.ColumnCount() != 3 {
		t.Errorf("ColumnCount() = %d, want 3", g.ColumnCount())
	}
	for _, tag := range cm.Tags() {
		if tag == "b" {
			t.Error("tag b survived removal of its only column")
		}
	}
	if tag, _ := cm.Get(grid.Cell{Col: 2, Row: 0}); tag != "c" {
		t.Errorf("cell (2,0) = %q, want c", tag)
	}
	assertRectangular(t, g, cm)
}

func TestRemoveRow_ShrinksSpan(t *testing.T) {
	g := newGrid(2, 4)
	cm := grid.NewColorMap()
	cm.SetSpan(grid.NewSpan(0, 1, 1, 3), "a")

	if err := RemoveRow(g, cm, 2); err != nil {
		t.Fatalf("RemoveRow: %v", err)
	}
	if got := grid.Discover(g, cm, grid.Cell{Col: 0, Row: 1}, "a"); got != grid.NewSpan(0, 1, 1, 2) {
		t.Errorf("span a = %s, want cols 0-1, rows 1-2", got)
	}
}

func TestTrackErrors(t *testing.T) {
	g := newGrid(2, 2)
	cm := grid.NewColorMap()
	cm.Set(grid.Cell{Col: 1, Row: 1}, "a")

	tests := []struct {
		name string
		fn   func() error
	}{
		{"InsertColumn", func() error { _, err := InsertColumn(g, cm, 2, false, 0); return err }},
		{"InsertRow", func() error { _, err := InsertRow(g, cm, -1, true, 0); return err }},
		{"RemoveColumn", func() error { return RemoveColumn(g, cm, 2) }},
		{"RemoveRow", func() error { return RemoveRow(g, cm, -1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); !errors.Is(err, grid.ErrIndexOutOfRange) {
				t.Errorf("err = %v, want ErrIndexOutOfRange", err)
			}
			if tag, _ := cm.Get(grid.Cell{Col: 1, Row: 1}); tag != "a" {
				t.Error("failed operation moved tagged cell")
			}
		})
	}
}
