package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/cellspan/pkg/cache"
	"github.com/matzehuels/cellspan/pkg/design"
	"github.com/matzehuels/cellspan/pkg/layout"
	"github.com/matzehuels/cellspan/pkg/layout/hierarchic"
)

// Arrangement is a laid out design.
type Arrangement struct {
	// Graph holds the final node bounds. Leaves are children of the span
	// group whose rectangle contains them; the table node is gone.
	Graph *layout.Graph
	// Grid is the partition grid with the final track geometry.
	Grid *layout.PartitionGrid
	// Assignment maps nodes to the cells they were placed in.
	Assignment layout.Assignment
	// Spans lists the cell span each span group was bound to.
	Spans []layout.GroupSpan
}

// =============================================================================
// Layout Generation
// =============================================================================

// Arrange lays out doc without caching.
func Arrange(ctx context.Context, doc *design.Document, opts Options) (*Arrangement, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	p, err := design.Prepare(doc)
	if err != nil {
		return nil, fmt.Errorf("prepare: %w", err)
	}
	stage := layout.Stage{Core: newEngine(opts)}
	res, err := stage.Layout(ctx, p.Graph, p.Grid, p.Assignment)
	if err != nil {
		return nil, err
	}
	design.Restore(p.Graph)
	return &Arrangement{
		Graph:      p.Graph,
		Grid:       res.Grid,
		Assignment: res.Assignment,
		Spans:      res.Spans,
	}, nil
}

func newEngine(opts Options) layout.Layouter {
	// Only the hierarchic engine exists; ValidateEngine rejects others.
	return &hierarchic.Engine{
		NodeSpacing:    opts.NodeSpacing,
		LayerSpacing:   opts.LayerSpacing,
		Padding:        opts.Padding,
		MinTrackSize:   opts.MinTrackSize,
		KeepTrackSizes: opts.KeepTrackSizes,
	}
}

// DesignHash returns the content hash of the parts of doc that affect its
// layout. Identity, name, palette and timestamps are ignored.
func DesignHash(doc *design.Document) (string, error) {
	c := doc.Clone()
	c.ID, c.Name, c.Palette, c.UpdatedAt = "", "", nil, time.Time{}
	c.Cells = c.ColorMap().Records()
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("hash design: %w", err)
	}
	return cache.Hash(data), nil
}

// =============================================================================
// Serialization
// =============================================================================

type arrangementJSON struct {
	Nodes      []layout.Node         `json:"nodes"`
	Edges      []layout.Edge         `json:"edges,omitempty"`
	Grid       *layout.PartitionGrid `json:"grid,omitempty"`
	Assignment layout.Assignment     `json:"assignment,omitempty"`
	Spans      []spanJSON            `json:"spans,omitempty"`
}

type spanJSON struct {
	Group string        `json:"group"`
	ID    layout.CellID `json:"id"`
}

// MarshalArrangement serializes a for caching.
func MarshalArrangement(a *Arrangement) ([]byte, error) {
	out := arrangementJSON{
		Edges:      a.Graph.Edges(),
		Grid:       a.Grid,
		Assignment: a.Assignment,
	}
	for _, n := range a.Graph.Nodes() {
		out.Nodes = append(out.Nodes, *n)
	}
	for _, s := range a.Spans {
		out.Spans = append(out.Spans, spanJSON{Group: s.Group, ID: s.ID})
	}
	return json.Marshal(out)
}

// UnmarshalArrangement rebuilds an arrangement written by
// [MarshalArrangement].
func UnmarshalArrangement(data []byte) (*Arrangement, error) {
	var in arrangementJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("decode arrangement: %w", err)
	}
	g := layout.NewGraph()
	for _, n := range in.Nodes {
		if _, err := g.AddNode(n); err != nil {
			return nil, fmt.Errorf("decode arrangement: node %q: %w", n.ID, err)
		}
	}
	for _, e := range in.Edges {
		if err := g.AddEdge(e); err != nil {
			return nil, fmt.Errorf("decode arrangement: edge %s->%s: %w", e.From, e.To, err)
		}
	}
	a := &Arrangement{Graph: g, Grid: in.Grid, Assignment: in.Assignment}
	for _, s := range in.Spans {
		a.Spans = append(a.Spans, layout.GroupSpan{Group: s.Group, Span: s.ID.Span, ID: s.ID})
	}
	return a, nil
}
