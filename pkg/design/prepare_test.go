package design

import (
	"context"
	"testing"

	"github.com/matzehuels/cellspan/pkg/grid"
	"github.com/matzehuels/cellspan/pkg/layout"
	"github.com/matzehuels/cellspan/pkg/layout/hierarchic"
)

// demo returns a 3x2 document with a red span over the top two cells of
// the first two columns and a chain a -> b -> c.
func demo(t *testing.T) *Document {
	t.Helper()
	d := New("demo", 3, 2)
	if _, err := d.Paint(cells(0, 0, 1, 0), "red"); err != nil {
		t.Fatal(err)
	}
	for _, n := range []NodeSpec{
		{ID: "a", Column: 0, Row: 0},
		{ID: "b", Column: 1, Row: 0},
		{ID: "c", Label: "Charlie", Column: 2, Row: 1, Width: 60},
	} {
		if err := d.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range []EdgeSpec{{From: "a", To: "b"}, {From: "b", To: "c"}} {
		if err := d.AddEdge(e); err != nil {
			t.Fatal(err)
		}
	}
	return d
}

func TestPrepare(t *testing.T) {
	p, err := Prepare(demo(t))
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	table, ok := p.Graph.Table()
	if !ok || table.ID != TableID {
		t.Fatalf("Table() = %v, %v", table, ok)
	}
	if want := (grid.Rect{W: 240, H: 160}); table.Bounds != want {
		t.Errorf("table bounds = %s, want %s", table.Bounds, want)
	}

	red, ok := p.Graph.Node(SpanGroupID("red"))
	if !ok {
		t.Fatal("no group for span red")
	}
	if want := (grid.Rect{X: 2, Y: 2, W: 156, H: 76}); red.Bounds != want {
		t.Errorf("red bounds = %s, want %s", red.Bounds, want)
	}
	if !red.Group || red.Parent != TableID || red.Tag != "red" {
		t.Errorf("red group = %+v", red)
	}

	c, _ := p.Graph.Node("c")
	if c.Parent != TableID || c.Label != "Charlie" || c.Bounds.W != 60 {
		t.Errorf("leaf c = %+v", c)
	}
	if got := p.Assignment["c"]; got.Span != grid.NewSpan(2, 2, 1, 1) || got.IsMulti() {
		t.Errorf("assignment c = %s", got)
	}
	if len(p.Graph.Edges()) != 2 {
		t.Errorf("edges = %v", p.Graph.Edges())
	}
	if len(p.Grid.Columns) != 3 || len(p.Grid.Rows) != 2 {
		t.Errorf("partition grid %dx%d", len(p.Grid.Columns), len(p.Grid.Rows))
	}
}

func TestPrepare_GroupBoundsResolveToSpan(t *testing.T) {
	p, err := Prepare(demo(t))
	if err != nil {
		t.Fatal(err)
	}
	red, _ := p.Graph.Node(SpanGroupID("red"))
	gs, err := layout.GroupCellSpan(p.Grid, red)
	if err != nil {
		t.Fatalf("GroupCellSpan: %v", err)
	}
	if gs.Span != grid.NewSpan(0, 1, 0, 0) {
		t.Errorf("span = %s, want cols 0-1, row 0", gs.Span)
	}
}

func TestPrepare_NarrowTrackSpan(t *testing.T) {
	d := New("narrow", 3, 2)
	idx, err := d.InsertColumn(0, false, 2)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.Paint(cells(idx, 0, idx, 1), "red"); err != nil {
		t.Fatal(err)
	}
	if err := d.AddNode(NodeSpec{ID: "a", Column: idx, Row: 0}); err != nil {
		t.Fatal(err)
	}

	p, err := Prepare(d)
	if err != nil {
		t.Fatal(err)
	}
	red, _ := p.Graph.Node(SpanGroupID("red"))
	if red.Bounds.W <= 0 || red.Bounds.H <= 0 {
		t.Fatalf("red bounds = %s, want a non-empty box", red.Bounds)
	}
	gs, err := layout.GroupCellSpan(p.Grid, red)
	if err != nil {
		t.Fatalf("GroupCellSpan: %v", err)
	}
	if want := grid.NewSpan(idx, idx, 0, 1); gs.Span != want {
		t.Errorf("span = %s, want %s", gs.Span, want)
	}
	if _, err := (layout.Stage{Core: hierarchic.New()}).Layout(context.Background(), p.Graph, p.Grid, p.Assignment); err != nil {
		t.Errorf("Stage.Layout: %v", err)
	}
}

func TestPrepare_InvalidDocument(t *testing.T) {
	d := demo(t)
	d.Edges = append(d.Edges, EdgeSpec{From: "a", To: "ghost"})
	if _, err := Prepare(d); err == nil {
		t.Error("Prepare accepted a dangling edge")
	}
}

func TestRestore(t *testing.T) {
	g := layout.NewGraph()
	for _, n := range []layout.Node{
		{ID: TableID, Group: true, Bounds: grid.Rect{W: 300, H: 100}},
		{ID: "span:a", Group: true, Parent: TableID, Bounds: grid.Rect{X: 0, Y: 0, W: 100, H: 100}},
		{ID: "in", Parent: TableID, Bounds: grid.Rect{X: 10, Y: 10, W: 20, H: 20}},
		{ID: "edge", Parent: TableID, Bounds: grid.Rect{X: 90, Y: 40, W: 20, H: 20}},
		{ID: "out", Parent: TableID, Bounds: grid.Rect{X: 200, Y: 10, W: 20, H: 20}},
	} {
		if _, err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}

	Restore(g)

	if _, ok := g.Node(TableID); ok {
		t.Error("table survived Restore")
	}
	want := map[string]string{"span:a": "", "in": "span:a", "edge": "", "out": ""}
	for id, parent := range want {
		n, _ := g.Node(id)
		if n.Parent != parent {
			t.Errorf("%s.Parent = %q, want %q", id, n.Parent, parent)
		}
	}
}

func TestRestore_NoTable(t *testing.T) {
	g := layout.NewGraph()
	_, _ = g.AddNode(layout.Node{ID: "x"})
	Restore(g)
	if g.NodeCount() != 1 {
		t.Errorf("Restore changed a graph without a table")
	}
}

func TestPrepareLayoutRestore(t *testing.T) {
	d := demo(t)
	p, err := Prepare(d)
	if err != nil {
		t.Fatal(err)
	}
	res, err := layout.Stage{Core: hierarchic.New()}.Layout(context.Background(), p.Graph, p.Grid, p.Assignment)
	if err != nil {
		t.Fatalf("Stage.Layout: %v", err)
	}
	Restore(p.Graph)

	for id, parent := range map[string]string{"a": SpanGroupID("red"), "b": SpanGroupID("red"), "c": ""} {
		n, _ := p.Graph.Node(id)
		if n.Parent != parent {
			t.Errorf("%s.Parent = %q, want %q", id, n.Parent, parent)
		}
	}

	a, _ := p.Graph.Node("a")
	b, _ := p.Graph.Node("b")
	if a.Bounds.Y >= b.Bounds.Y {
		t.Errorf("a (%s) not above b (%s) in the shared span", a.Bounds, b.Bounds)
	}

	if err := d.Resize(res.Grid); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if d.Rows[0].Height != res.Grid.Rows[0].Size {
		t.Errorf("row 0 height = %v, want %v", d.Rows[0].Height, res.Grid.Rows[0].Size)
	}
}

func TestResize_Mismatch(t *testing.T) {
	d := New("", 2, 2)
	pg := layout.FromGrid(grid.New([]float64{1}, []float64{1, 1}))
	if err := d.Resize(pg); err == nil {
		t.Error("Resize accepted a grid of a different shape")
	}
}
