package hierarchic

import (
	"context"
	"testing"

	"github.com/matzehuels/cellspan/pkg/grid"
	"github.com/matzehuels/cellspan/pkg/layout"
)

func buildGraph(t *testing.T, nodes []layout.Node, edges []layout.Edge) *layout.Graph {
	t.Helper()
	g := layout.NewGraph()
	for _, n := range nodes {
		if _, err := g.AddNode(n); err != nil {
			t.Fatalf("AddNode(%s): %v", n.ID, err)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(e); err != nil {
			t.Fatalf("AddEdge(%s->%s): %v", e.From, e.To, err)
		}
	}
	return g
}

func node(g *layout.Graph, id string) *layout.Node {
	n, _ := g.Node(id)
	return n
}

func inside(inner, outer grid.Rect) bool {
	return inner.X >= outer.X && inner.Y >= outer.Y && inner.MaxX() <= outer.MaxX() && inner.MaxY() <= outer.MaxY()
}

func TestLayout_ChainWithinCell(t *testing.T) {
	g := buildGraph(t,
		[]layout.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		[]layout.Edge{{From: "a", To: "b"}, {From: "b", To: "c"}},
	)
	pg := layout.FromGrid(grid.New([]float64{80}, []float64{80}))
	a := layout.Assignment{}
	for _, id := range []string{"a", "b", "c"} {
		a[id] = layout.SimpleCell(grid.Cell{})
	}

	if err := New().Layout(context.Background(), g, pg, a); err != nil {
		t.Fatalf("Layout: %v", err)
	}

	na, nb, nc := node(g, "a"), node(g, "b"), node(g, "c")
	if !(na.Bounds.Y < nb.Bounds.Y && nb.Bounds.Y < nc.Bounds.Y) {
		t.Errorf("layers not stacked top to bottom: a=%s b=%s c=%s", na.Bounds, nb.Bounds, nc.Bounds)
	}
	wantH := 3*DefaultNodeSize + 2*DefaultLayerSpacing + 2*DefaultPadding
	if pg.Rows[0].Size != wantH {
		t.Errorf("row height = %v, want %v", pg.Rows[0].Size, wantH)
	}
	cell, _ := pg.SpanRect(grid.NewSpan(0, 0, 0, 0))
	for _, n := range []*layout.Node{na, nb, nc} {
		if !inside(n.Bounds, cell) {
			t.Errorf("node %s at %s outside its cell %s", n.ID, n.Bounds, cell)
		}
	}
}

func TestLayout_ColumnsFitWidestCell(t *testing.T) {
	g := buildGraph(t,
		[]layout.Node{
			{ID: "wide", Bounds: grid.Rect{W: 200, H: 30}},
			{ID: "small"},
		}, nil,
	)
	pg := layout.FromGrid(grid.New([]float64{80, 80}, []float64{80, 80}))
	a := layout.Assignment{
		"wide":  layout.SimpleCell(grid.Cell{Col: 0, Row: 1}),
		"small": layout.SimpleCell(grid.Cell{Col: 1, Row: 0}),
	}

	if err := New().Layout(context.Background(), g, pg, a); err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if want := 200 + 2*DefaultPadding; pg.Columns[0].Size != want {
		t.Errorf("column 0 width = %v, want %v", pg.Columns[0].Size, want)
	}
	if want := DefaultNodeSize + 2*DefaultPadding; pg.Columns[1].Size != want {
		t.Errorf("column 1 width = %v, want %v", pg.Columns[1].Size, want)
	}
	if pg.Columns[1].Position != pg.Columns[0].End() {
		t.Errorf("column 1 at %v, want %v", pg.Columns[1].Position, pg.Columns[0].End())
	}
	if node(g, "small").Bounds.X < pg.Columns[1].Position {
		t.Errorf("small node left of its column: %s", node(g, "small").Bounds)
	}
}

func TestLayout_MultiCellCentered(t *testing.T) {
	g := buildGraph(t,
		[]layout.Node{
			{ID: "table", Group: true},
			{ID: "span", Group: true, Parent: "table"},
			{ID: "x", Parent: "span"},
			{ID: "y", Parent: "table"},
		}, nil,
	)
	pg := layout.FromGrid(grid.New([]float64{80, 80, 80}, []float64{80}))
	span := layout.SpanCell(grid.NewSpan(0, 1, 0, 0))
	a := layout.Assignment{
		"span": span,
		"x":    span,
		"y":    layout.SimpleCell(grid.Cell{Col: 2, Row: 0}),
	}

	if err := New().Layout(context.Background(), g, pg, a); err != nil {
		t.Fatalf("Layout: %v", err)
	}

	rect, _ := pg.SpanRect(span.Span)
	if got := node(g, "span").Bounds; got != rect {
		t.Errorf("span group bounds = %s, want %s", got, rect)
	}
	cx, _ := node(g, "x").Bounds.Center()
	if mid, _ := rect.Center(); cx != mid {
		t.Errorf("x center = %v, want %v", cx, mid)
	}
	table := node(g, "table").Bounds
	all, _ := pg.SpanRect(grid.NewSpan(0, 2, 0, 0))
	if !inside(all, table) {
		t.Errorf("table bounds %s do not cover grid %s", table, all)
	}
	if !inside(node(g, "y").Bounds, table) {
		t.Errorf("y outside table")
	}
}

func TestLayout_BarycentricOrder(t *testing.T) {
	g := buildGraph(t,
		[]layout.Node{{ID: "p1"}, {ID: "p2"}, {ID: "c2"}, {ID: "c1"}},
		[]layout.Edge{{From: "p1", To: "c1"}, {From: "p2", To: "c2"}},
	)
	a := layout.Assignment{}
	for _, id := range []string{"p1", "p2", "c1", "c2"} {
		a[id] = layout.SimpleCell(grid.Cell{})
	}
	pg := layout.FromGrid(grid.New([]float64{80}, []float64{80}))

	if err := New().Layout(context.Background(), g, pg, a); err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if node(g, "c1").Bounds.X >= node(g, "c2").Bounds.X {
		t.Errorf("c1 (%s) not left of c2 (%s)", node(g, "c1").Bounds, node(g, "c2").Bounds)
	}
}

func TestLayout_CycleStaysInFirstLayer(t *testing.T) {
	g := buildGraph(t,
		[]layout.Node{{ID: "a"}, {ID: "b"}},
		[]layout.Edge{{From: "a", To: "b"}, {From: "b", To: "a"}},
	)
	if err := New().Layout(context.Background(), g, nil, nil); err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if node(g, "a").Bounds.Y != node(g, "b").Bounds.Y {
		t.Error("cyclic nodes placed in different layers")
	}
}

func TestLayout_UnknownCell(t *testing.T) {
	g := buildGraph(t, []layout.Node{{ID: "a"}}, nil)
	pg := layout.FromGrid(grid.New([]float64{80}, []float64{80}))
	a := layout.Assignment{"a": layout.SimpleCell(grid.Cell{Col: 3})}
	if err := New().Layout(context.Background(), g, pg, a); err == nil {
		t.Error("Layout accepted a node outside the grid")
	}
}

func TestLayout_WithStage(t *testing.T) {
	g := buildGraph(t,
		[]layout.Node{
			{ID: "table", Group: true},
			{ID: "span", Group: true, Parent: "table", Bounds: grid.Rect{X: 2, Y: 2, W: 156, H: 76}},
			{ID: "x", Parent: "span"},
			{ID: "z", Parent: "table"},
		}, []layout.Edge{{From: "x", To: "z"}},
	)
	pg := layout.FromGrid(grid.New([]float64{80, 80}, []float64{80, 80}))
	a := layout.Assignment{
		"x": layout.SimpleCell(grid.Cell{Col: 0, Row: 0}),
		"z": layout.SimpleCell(grid.Cell{Col: 1, Row: 1}),
	}

	res, err := layout.Stage{Core: New()}.Layout(context.Background(), g, pg, a)
	if err != nil {
		t.Fatalf("Stage.Layout: %v", err)
	}
	spanRect, _ := res.Grid.SpanRect(grid.NewSpan(0, 1, 0, 0))
	if !inside(node(g, "x").Bounds, spanRect) {
		t.Errorf("x at %s outside its span %s", node(g, "x").Bounds, spanRect)
	}
	if node(g, "span").Bounds != spanRect {
		t.Errorf("span bounds = %s, want %s", node(g, "span").Bounds, spanRect)
	}
}
