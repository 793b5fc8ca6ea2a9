package design

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/cellspan/pkg/grid"
	"github.com/matzehuels/cellspan/pkg/grid/edit"
)

// Sentinel errors for document validation and editing.
var (
	// ErrInvalidDocument is returned by [Document.Validate] when a document
	// references cells or nodes that do not exist.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrUnknownNode is returned when an edge or lookup names a node that
	// is not part of the document.
	ErrUnknownNode = errors.New("unknown node")

	// ErrDuplicateNode is returned by [Document.AddNode] for a reused ID.
	ErrDuplicateNode = errors.New("duplicate node")
)

// NodeSpec is a leaf node placed in a home cell of the table.
type NodeSpec struct {
	ID     string  `json:"id" toml:"id" bson:"id"`
	Label  string  `json:"label,omitempty" toml:"label,omitempty" bson:"label,omitempty"`
	Column int     `json:"column" toml:"column" bson:"column"`
	Row    int     `json:"row" toml:"row" bson:"row"`
	Width  float64 `json:"width,omitempty" toml:"width,omitempty" bson:"width,omitempty"`
	Height float64 `json:"height,omitempty" toml:"height,omitempty" bson:"height,omitempty"`
}

// Cell returns the node's home cell.
func (n NodeSpec) Cell() grid.Cell { return grid.Cell{Col: n.Column, Row: n.Row} }

// EdgeSpec connects two leaf nodes.
type EdgeSpec struct {
	From string `json:"from" toml:"from" bson:"from"`
	To   string `json:"to" toml:"to" bson:"to"`
}

// Document is a persisted cell-span design: a table, its tagged cells and
// the graph laid out inside it.
//
// Tagged cells are stored as one [grid.Record] per cell. Use [Document.Grid]
// and [Document.ColorMap] to work with the table and [Document.Apply] to
// write edits back.
type Document struct {
	ID        string        `json:"id" toml:"id" bson:"_id"`
	Name      string        `json:"name,omitempty" toml:"name,omitempty" bson:"name,omitempty"`
	Insets    grid.Insets   `json:"insets,omitzero" toml:"insets,omitempty" bson:"insets"`
	Columns   []grid.Column `json:"columns" toml:"columns" bson:"columns"`
	Rows      []grid.Row    `json:"rows" toml:"rows" bson:"rows"`
	Cells     []grid.Record `json:"cells,omitempty" toml:"cells,omitempty" bson:"cells,omitempty"`
	Nodes     []NodeSpec    `json:"nodes,omitempty" toml:"nodes,omitempty" bson:"nodes,omitempty"`
	Edges     []EdgeSpec    `json:"edges,omitempty" toml:"edges,omitempty" bson:"edges,omitempty"`
	Palette   []grid.Tag    `json:"palette,omitempty" toml:"palette,omitempty" bson:"palette,omitempty"`
	UpdatedAt time.Time     `json:"updated_at,omitzero" toml:"updated_at,omitempty" bson:"updated_at"`
}

// New creates a document with a fresh ID and cols x rows tracks of
// [grid.DefaultTrackSize].
func New(name string, cols, rows int) *Document {
	d := &Document{
		ID:        uuid.NewString(),
		Name:      name,
		Columns:   make([]grid.Column, max(cols, 0)),
		Rows:      make([]grid.Row, max(rows, 0)),
		UpdatedAt: time.Now().UTC(),
	}
	for i := range d.Columns {
		d.Columns[i].Width = grid.DefaultTrackSize
	}
	for i := range d.Rows {
		d.Rows[i].Height = grid.DefaultTrackSize
	}
	return d
}

// Grid returns a fresh grid built from the document's tracks.
func (d *Document) Grid() *grid.Grid {
	g := grid.FromTracks(d.Columns, d.Rows)
	g.Insets = d.Insets
	return g
}

// ColorMap returns a fresh color map built from the document's cell records.
func (d *Document) ColorMap() *grid.ColorMap {
	return grid.FromRecords(d.Cells)
}

// PaletteOrDefault returns the document's palette, or [grid.DefaultPalette]
// if none is set.
func (d *Document) PaletteOrDefault() []grid.Tag {
	if len(d.Palette) == 0 {
		return grid.DefaultPalette
	}
	return d.Palette
}

// Apply stores g and cm back into the document.
func (d *Document) Apply(g *grid.Grid, cm *grid.ColorMap) {
	d.Columns = g.Columns()
	d.Rows = g.Rows()
	d.Insets = g.Insets
	d.Cells = cm.Records()
	d.UpdatedAt = time.Now().UTC()
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	c := *d
	c.Columns = slices.Clone(d.Columns)
	c.Rows = slices.Clone(d.Rows)
	c.Cells = slices.Clone(d.Cells)
	c.Nodes = slices.Clone(d.Nodes)
	c.Edges = slices.Clone(d.Edges)
	c.Palette = slices.Clone(d.Palette)
	return &c
}

// Node returns the node with the given ID.
func (d *Document) Node(id string) (NodeSpec, bool) {
	i := slices.IndexFunc(d.Nodes, func(n NodeSpec) bool { return n.ID == id })
	if i < 0 {
		return NodeSpec{}, false
	}
	return d.Nodes[i], true
}

// AddNode appends a leaf node.
func (d *Document) AddNode(n NodeSpec) error {
	if n.ID == "" {
		return fmt.Errorf("node without ID: %w", ErrInvalidDocument)
	}
	if _, ok := d.Node(n.ID); ok {
		return fmt.Errorf("node %q: %w", n.ID, ErrDuplicateNode)
	}
	if n.Column < 0 || n.Column >= len(d.Columns) || n.Row < 0 || n.Row >= len(d.Rows) {
		return fmt.Errorf("node %q at %s: %w", n.ID, n.Cell(), grid.ErrIndexOutOfRange)
	}
	d.Nodes = append(d.Nodes, n)
	d.UpdatedAt = time.Now().UTC()
	return nil
}

// AddEdge appends an edge between two existing nodes.
func (d *Document) AddEdge(e EdgeSpec) error {
	for _, id := range []string{e.From, e.To} {
		if _, ok := d.Node(id); !ok {
			return fmt.Errorf("edge %s->%s: node %q: %w", e.From, e.To, id, ErrUnknownNode)
		}
	}
	d.Edges = append(d.Edges, e)
	d.UpdatedAt = time.Now().UTC()
	return nil
}

// Paint tags the cells with tag. See [edit.Paint].
func (d *Document) Paint(cells []grid.Cell, tag grid.Tag) (grid.Span, error) {
	g, cm := d.Grid(), d.ColorMap()
	s, err := edit.Paint(g, cm, cells, tag)
	if err != nil {
		return grid.Span{}, err
	}
	d.Apply(g, cm)
	return s, nil
}

// PaintNext tags the cells with the next unused palette tag.
func (d *Document) PaintNext(cells []grid.Cell) (grid.Tag, grid.Span, error) {
	g, cm := d.Grid(), d.ColorMap()
	tag, s, err := edit.PaintNext(g, cm, cells, d.PaletteOrDefault())
	if err != nil {
		return "", grid.Span{}, err
	}
	d.Apply(g, cm)
	return tag, s, nil
}

// Erase clears the cells. See [edit.Erase].
func (d *Document) Erase(cells []grid.Cell) (grid.Span, error) {
	return d.Paint(cells, "")
}

// Spans returns the document's spans in column-major order of discovery.
func (d *Document) Spans() []grid.TaggedSpan {
	return grid.Spans(d.Grid(), d.ColorMap())
}

// InsertColumn adds a column next to ref and moves the home cells of nodes
// right of it. See [edit.InsertColumn].
func (d *Document) InsertColumn(ref int, before bool, width float64) (int, error) {
	return d.insertTrack(grid.Columns, ref, before, width)
}

// InsertRow adds a row next to ref and moves the home cells of nodes below
// it. See [edit.InsertRow].
func (d *Document) InsertRow(ref int, before bool, height float64) (int, error) {
	return d.insertTrack(grid.Rows, ref, before, height)
}

// RemoveColumn removes column i. Nodes homed in it move to the previous
// column, or stay in column 0. The last column cannot be removed.
func (d *Document) RemoveColumn(i int) error {
	return d.removeTrack(grid.Columns, i)
}

// RemoveRow removes row i. Nodes homed in it move to the previous row, or
// stay in row 0. The last row cannot be removed.
func (d *Document) RemoveRow(i int) error {
	return d.removeTrack(grid.Rows, i)
}

func (d *Document) insertTrack(axis grid.Axis, ref int, before bool, size float64) (int, error) {
	g, cm := d.Grid(), d.ColorMap()
	var idx int
	var err error
	if axis == grid.Rows {
		idx, err = edit.InsertRow(g, cm, ref, before, size)
	} else {
		idx, err = edit.InsertColumn(g, cm, ref, before, size)
	}
	if err != nil {
		return 0, err
	}
	for i := range d.Nodes {
		if p := coord(&d.Nodes[i], axis); *p >= idx {
			*p++
		}
	}
	d.Apply(g, cm)
	return idx, nil
}

func (d *Document) removeTrack(axis grid.Axis, idx int) error {
	g, cm := d.Grid(), d.ColorMap()
	count := g.ColumnCount()
	if axis == grid.Rows {
		count = g.RowCount()
	}
	if count == 1 && idx == 0 {
		return fmt.Errorf("remove last %s: %w", axis, grid.ErrIndexOutOfRange)
	}
	var err error
	if axis == grid.Rows {
		err = edit.RemoveRow(g, cm, idx)
	} else {
		err = edit.RemoveColumn(g, cm, idx)
	}
	if err != nil {
		return err
	}
	for i := range d.Nodes {
		if p := coord(&d.Nodes[i], axis); *p > idx || (*p == idx && idx > 0) {
			*p--
		}
	}
	d.Apply(g, cm)
	return nil
}

func coord(n *NodeSpec, axis grid.Axis) *int {
	if axis == grid.Rows {
		return &n.Row
	}
	return &n.Column
}

// Validate checks that tagged cells and node home cells lie inside the
// table, that every tag forms one filled rectangle, that node IDs are
// unique and that edges connect existing nodes.
func (d *Document) Validate() error {
	g, cm := d.Grid(), d.ColorMap()
	if err := grid.CheckRectangular(g, cm); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(d.Nodes))
	for _, n := range d.Nodes {
		if n.ID == "" {
			return fmt.Errorf("node without ID: %w", ErrInvalidDocument)
		}
		if _, dup := seen[n.ID]; dup {
			return fmt.Errorf("node %q: %w", n.ID, ErrDuplicateNode)
		}
		seen[n.ID] = struct{}{}
		if !g.InBounds(n.Cell()) {
			return fmt.Errorf("node %q at %s: %w", n.ID, n.Cell(), grid.ErrIndexOutOfRange)
		}
	}
	for _, e := range d.Edges {
		for _, id := range []string{e.From, e.To} {
			if _, ok := seen[id]; !ok {
				return fmt.Errorf("edge %s->%s: node %q: %w", e.From, e.To, id, ErrUnknownNode)
			}
		}
	}
	return nil
}
