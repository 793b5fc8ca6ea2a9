package layout

import (
	"errors"
	"slices"

	"github.com/matzehuels/cellspan/pkg/grid"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is
	// empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownNode is returned by [Graph.AddEdge] and [Graph.AddNode] when
	// an edge endpoint or a parent does not exist.
	ErrUnknownNode = errors.New("unknown node")
)

// Node is a vertex of a layout graph.
//
// Group nodes contain other nodes; a node's Parent names its enclosing group
// or is empty for top-level nodes. Bounds is the node's rectangle in layout
// coordinates; layout engines overwrite it.
type Node struct {
	ID     string      `json:"id" bson:"id"`
	Label  string      `json:"label,omitempty" bson:"label,omitempty"`
	Bounds grid.Rect   `json:"bounds" bson:"bounds"`
	Group  bool        `json:"group,omitempty" bson:"group,omitempty"`
	Parent string      `json:"parent,omitempty" bson:"parent,omitempty"`
	Insets grid.Insets `json:"insets,omitzero" bson:"insets,omitempty"`
	Tag    grid.Tag    `json:"tag,omitempty" bson:"tag,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is a directed connection between two nodes.
type Edge struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
}

// Graph is a directed graph with a grouping hierarchy.
//
// Nodes keep their insertion order, so every traversal is deterministic.
// The zero value is not usable; use [NewGraph]. Graph is not safe for
// concurrent use.
type Graph struct {
	nodes    []*Node
	byID     map[string]*Node
	edges    []Edge
	outgoing map[string][]string
	incoming map[string][]string
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		byID:     make(map[string]*Node),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// AddNode adds a copy of n and returns a pointer to the stored node.
// The parent, if any, must already exist and be a group.
func (g *Graph) AddNode(n Node) (*Node, error) {
	if n.ID == "" {
		return nil, ErrInvalidNodeID
	}
	if _, exists := g.byID[n.ID]; exists {
		return nil, ErrDuplicateNodeID
	}
	if n.Parent != "" {
		if p, ok := g.byID[n.Parent]; !ok || !p.Group {
			return nil, ErrUnknownNode
		}
	}
	node := &n
	g.nodes = append(g.nodes, node)
	g.byID[n.ID] = node
	return node, nil
}

// RemoveNode removes the node with the given ID together with its edges.
// Children of a removed group move to the removed node's parent.
func (g *Graph) RemoveNode(id string) {
	n, ok := g.byID[id]
	if !ok {
		return
	}
	for _, c := range g.nodes {
		if c.Parent == id {
			c.Parent = n.Parent
		}
	}
	g.nodes = slices.DeleteFunc(g.nodes, func(x *Node) bool { return x.ID == id })
	delete(g.byID, id)
	g.edges = slices.DeleteFunc(g.edges, func(e Edge) bool { return e.From == id || e.To == id })
	for _, to := range g.outgoing[id] {
		g.incoming[to] = slices.DeleteFunc(g.incoming[to], func(s string) bool { return s == id })
	}
	for _, from := range g.incoming[id] {
		g.outgoing[from] = slices.DeleteFunc(g.outgoing[from], func(s string) bool { return s == id })
	}
	delete(g.outgoing, id)
	delete(g.incoming, id)
}

// AddEdge adds a directed edge between two existing nodes.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.byID[e.From]; !ok {
		return ErrUnknownNode
	}
	if _, ok := g.byID[e.To]; !ok {
		return ErrUnknownNode
	}
	g.edges = append(g.edges, e)
	g.outgoing[e.From] = append(g.outgoing[e.From], e.To)
	g.incoming[e.To] = append(g.incoming[e.To], e.From)
	return nil
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.byID[id]
	return n, ok
}

// Nodes returns all nodes in insertion order. The pointers refer to the
// stored nodes, so modifications affect the graph.
func (g *Graph) Nodes() []*Node { return slices.Clone(g.nodes) }

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// Successors returns the IDs of the targets of id's outgoing edges.
// The returned slice must not be modified.
func (g *Graph) Successors(id string) []string { return g.outgoing[id] }

// Predecessors returns the IDs of the sources of id's incoming edges.
// The returned slice must not be modified.
func (g *Graph) Predecessors(id string) []string { return g.incoming[id] }

// Children returns the direct children of the group with the given ID.
// An empty id yields the top-level nodes.
func (g *Graph) Children(id string) []*Node {
	var out []*Node
	for _, n := range g.nodes {
		if n.Parent == id {
			out = append(out, n)
		}
	}
	return out
}

// Depth returns the number of groups enclosing n.
func (g *Graph) Depth(n *Node) int {
	d := 0
	for p := n.Parent; p != ""; d++ {
		pn, ok := g.byID[p]
		if !ok {
			break
		}
		p = pn.Parent
	}
	return d
}

// Table returns the top-level container: the first top-level group node.
func (g *Graph) Table() (*Node, bool) {
	for _, n := range g.nodes {
		if n.Parent == "" && n.Group {
			return n, true
		}
	}
	return nil, false
}

// Clone returns a deep copy of g.
func (g *Graph) Clone() *Graph {
	c := NewGraph()
	for _, n := range g.nodes {
		cp := *n
		c.nodes = append(c.nodes, &cp)
		c.byID[cp.ID] = &cp
	}
	c.edges = slices.Clone(g.edges)
	for k, v := range g.outgoing {
		c.outgoing[k] = slices.Clone(v)
	}
	for k, v := range g.incoming {
		c.incoming[k] = slices.Clone(v)
	}
	return c
}
