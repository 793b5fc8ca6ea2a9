package design

import (
	"fmt"

	"github.com/matzehuels/cellspan/pkg/grid"
	"github.com/matzehuels/cellspan/pkg/layout"
)

const (
	// TableID is the ID of the table group node created by [Prepare].
	TableID = "table"

	// SpanPrefix prefixes the tag of a span to form its group node ID.
	SpanPrefix = "span:"

	// groupInset shrinks span groups so that they never touch neighboring
	// tracks. Spans over narrow tracks shrink by a quarter of their size
	// instead.
	groupInset = 2.0
)

// SpanGroupID returns the group node ID [Prepare] uses for tag.
func SpanGroupID(tag grid.Tag) string { return SpanPrefix + string(tag) }

// Prepared is the layout input derived from a document.
type Prepared struct {
	Graph      *layout.Graph
	Grid       *layout.PartitionGrid
	Assignment layout.Assignment
}

// Prepare builds the layout graph for d.
//
// The graph holds one table group covering the whole grid, one group per
// span nested in the table (its bounds are the span's cells shrunk by two
// units on each side and its Tag is the span's tag), and one leaf per
// document node parented to the table and assigned to its home cell. The
// edges of d connect the leaves.
func Prepare(d *Document) (*Prepared, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	gr, cm := d.Grid(), d.ColorMap()

	g := layout.NewGraph()
	x, y, w, h := gr.Bounds()
	if _, err := g.AddNode(layout.Node{
		ID:     TableID,
		Group:  true,
		Bounds: grid.Rect{X: x, Y: y, W: w, H: h},
	}); err != nil {
		return nil, err
	}

	for _, ts := range grid.Spans(gr, cm) {
		r, err := gr.SpanRect(ts.Span)
		if err != nil {
			return nil, err
		}
		if _, err := g.AddNode(layout.Node{
			ID:     SpanGroupID(ts.Tag),
			Label:  string(ts.Tag),
			Group:  true,
			Parent: TableID,
			Bounds: r.Inset(min(groupInset, r.W/4, r.H/4)),
			Tag:    ts.Tag,
		}); err != nil {
			return nil, fmt.Errorf("span %s: %w", ts.Tag, err)
		}
	}

	a := make(layout.Assignment, len(d.Nodes))
	for _, n := range d.Nodes {
		if _, err := g.AddNode(layout.Node{
			ID:     n.ID,
			Label:  n.Label,
			Parent: TableID,
			Bounds: grid.Rect{W: n.Width, H: n.Height},
		}); err != nil {
			return nil, fmt.Errorf("node %q: %w", n.ID, err)
		}
		a[n.ID] = layout.SimpleCell(n.Cell())
	}
	for _, e := range d.Edges {
		if err := g.AddEdge(layout.Edge{From: e.From, To: e.To}); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
	}

	return &Prepared{Graph: g, Grid: layout.FromGrid(gr), Assignment: a}, nil
}

// Restore undoes the table wrapping of a laid out graph: every leaf whose
// center lies strictly inside a span group's bounds becomes a child of that
// group, and the table node is removed. Span groups and remaining leaves
// move to the top level.
func Restore(g *layout.Graph) {
	table, ok := g.Node(TableID)
	if !ok {
		return
	}
	var groups []*layout.Node
	for _, n := range g.Children(table.ID) {
		if n.Group {
			groups = append(groups, n)
		}
	}
	for _, n := range g.Nodes() {
		if n.Group {
			continue
		}
		cx, cy := n.Bounds.Center()
		for _, grp := range groups {
			if grp.Bounds.ContainsPoint(cx, cy) {
				n.Parent = grp.ID
				break
			}
		}
	}
	g.RemoveNode(table.ID)
}

// Resize copies the track sizes of a laid out partition grid back into d.
// Track insets are left untouched.
func (d *Document) Resize(pg *layout.PartitionGrid) error {
	if len(pg.Columns) != len(d.Columns) || len(pg.Rows) != len(d.Rows) {
		return fmt.Errorf("partition grid is %dx%d, document is %dx%d: %w",
			len(pg.Columns), len(pg.Rows), len(d.Columns), len(d.Rows), grid.ErrIndexOutOfRange)
	}
	for i, t := range pg.Columns {
		d.Columns[i].Width = t.Size
	}
	for i, t := range pg.Rows {
		d.Rows[i].Height = t.Size
	}
	return nil
}
