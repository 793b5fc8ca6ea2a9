package render

import (
	"encoding/json"

	"github.com/matzehuels/cellspan/pkg/grid"
	"github.com/matzehuels/cellspan/pkg/layout"
)

// JSONOption configures [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	grid  *layout.PartitionGrid
	spans []layout.GroupSpan
	a     layout.Assignment
}

// WithJSONGrid includes the final column and row geometry.
func WithJSONGrid(pg *layout.PartitionGrid) JSONOption {
	return func(r *jsonRenderer) { r.grid = pg }
}

// WithJSONSpans includes the cell range each span group was bound to.
func WithJSONSpans(spans []layout.GroupSpan) JSONOption {
	return func(r *jsonRenderer) { r.spans = spans }
}

// WithJSONAssignment records each node's assigned cells.
func WithJSONAssignment(a layout.Assignment) JSONOption {
	return func(r *jsonRenderer) { r.a = a }
}

type jsonOutput struct {
	Width   float64     `json:"width"`
	Height  float64     `json:"height"`
	Columns []jsonTrack `json:"columns,omitempty"`
	Rows    []jsonTrack `json:"rows,omitempty"`
	Nodes   []jsonNode  `json:"nodes"`
	Edges   []jsonEdge  `json:"edges,omitempty"`
	Spans   []jsonSpan  `json:"spans,omitempty"`
}

type jsonTrack struct {
	Position float64 `json:"position"`
	Size     float64 `json:"size"`
}

type jsonNode struct {
	ID     string     `json:"id"`
	Label  string     `json:"label"`
	Bounds grid.Rect  `json:"bounds"`
	Group  bool       `json:"group,omitempty"`
	Parent string     `json:"parent,omitempty"`
	Tag    grid.Tag   `json:"tag,omitempty"`
	Cells  *grid.Span `json:"cells,omitempty"`
}

type jsonEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type jsonSpan struct {
	Group string    `json:"group"`
	Span  grid.Span `json:"span"`
}

// RenderJSON serializes a laid out graph: every node with its final bounds
// and parent, the edges, and optionally the track geometry and span groups.
func RenderJSON(g *layout.Graph, opts ...JSONOption) ([]byte, error) {
	var r jsonRenderer
	for _, opt := range opts {
		opt(&r)
	}

	var out jsonOutput
	var extent grid.Rect
	for _, n := range g.Nodes() {
		jn := jsonNode{
			ID:     n.ID,
			Label:  n.DisplayLabel(),
			Bounds: n.Bounds,
			Group:  n.Group,
			Parent: n.Parent,
			Tag:    n.Tag,
		}
		if id, ok := r.a[n.ID]; ok {
			s := id.Span
			jn.Cells = &s
		}
		out.Nodes = append(out.Nodes, jn)
		extent = extent.Union(n.Bounds)
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, jsonEdge{From: e.From, To: e.To})
	}
	if r.grid != nil {
		for _, t := range r.grid.Columns {
			out.Columns = append(out.Columns, jsonTrack{Position: t.Position, Size: t.Size})
		}
		for _, t := range r.grid.Rows {
			out.Rows = append(out.Rows, jsonTrack{Position: t.Position, Size: t.Size})
		}
	}
	for _, s := range r.spans {
		out.Spans = append(out.Spans, jsonSpan{Group: s.Group, Span: s.Span})
	}
	out.Width, out.Height = extent.MaxX(), extent.MaxY()

	return json.MarshalIndent(out, "", "  ")
}
