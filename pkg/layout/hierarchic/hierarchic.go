// Package hierarchic is a small layered layout engine that honors
// partition-grid cell assignments.
//
// Nodes assigned to the same cell (or the same multi-cell id) form a slot.
// Inside a slot the engine assigns layers by longest path over the edges
// between the slot's nodes, orders every layer by the barycenter of its
// predecessors, and stacks the layers top to bottom. Tracks are then sized
// to fit the widest and tallest slot they host, and each slot's content is
// centered in the rectangle of its cells.
package hierarchic

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/matzehuels/cellspan/pkg/grid"
	"github.com/matzehuels/cellspan/pkg/layout"
)

// Default spacing values used by [New].
const (
	DefaultNodeSpacing  = 20.0
	DefaultLayerSpacing = 40.0
	DefaultPadding      = 10.0
	DefaultMinTrackSize = 40.0
	DefaultNodeSize     = 30.0
)

// Engine implements [layout.Layouter].
type Engine struct {
	// NodeSpacing is the horizontal gap between nodes of one layer.
	NodeSpacing float64
	// LayerSpacing is the vertical gap between layers of one slot.
	LayerSpacing float64
	// Padding separates slot content from the inner edges of its cells.
	Padding float64
	// MinTrackSize is the smallest width or height a track shrinks to.
	MinTrackSize float64
	// KeepTrackSizes makes each track's size before layout a lower bound.
	KeepTrackSizes bool
}

// New returns an engine with the default spacing.
func New() *Engine {
	return &Engine{
		NodeSpacing:  DefaultNodeSpacing,
		LayerSpacing: DefaultLayerSpacing,
		Padding:      DefaultPadding,
		MinTrackSize: DefaultMinTrackSize,
	}
}

type slot struct {
	span   grid.Span
	nodes  []*layout.Node
	layers [][]*layout.Node
	width  float64
	height float64
}

// Layout places every assigned non-group node of g inside its cells, sizes
// the tracks of pg and sets the bounds of all group nodes. Nodes without an
// assignment keep their bounds but still count toward their groups. A nil pg
// puts every node into a single cell at the origin.
func (e *Engine) Layout(ctx context.Context, g *layout.Graph, pg *layout.PartitionGrid, a layout.Assignment) error {
	single := pg == nil
	if single {
		pg = &layout.PartitionGrid{Columns: []layout.Track{{}}, Rows: []layout.Track{{}}}
	}
	if len(pg.Columns) == 0 || len(pg.Rows) == 0 {
		return nil
	}

	slots, err := e.collect(g, pg, a, single)
	if err != nil {
		return err
	}
	for _, s := range slots {
		if err := ctx.Err(); err != nil {
			return err
		}
		e.arrange(g, s)
	}

	e.sizeTracks(pg, slots)
	for _, s := range slots {
		e.place(pg, s)
	}
	return e.groupBounds(g, pg, a)
}

func (e *Engine) collect(g *layout.Graph, pg *layout.PartitionGrid, a layout.Assignment, single bool) ([]*slot, error) {
	bySpan := make(map[grid.Span]*slot)
	var slots []*slot
	for _, n := range g.Nodes() {
		if n.Group {
			continue
		}
		span := grid.Span{}
		if !single {
			id, ok := a[n.ID]
			if !ok {
				continue
			}
			span = id.Span
			if span.MinCol < 0 || span.MaxCol >= len(pg.Columns) || span.MinRow < 0 || span.MaxRow >= len(pg.Rows) {
				return nil, fmt.Errorf("node %q in %s: %w", n.ID, id, grid.ErrIndexOutOfRange)
			}
		}
		if n.Bounds.W <= 0 {
			n.Bounds.W = DefaultNodeSize
		}
		if n.Bounds.H <= 0 {
			n.Bounds.H = DefaultNodeSize
		}
		s, ok := bySpan[span]
		if !ok {
			s = &slot{span: span}
			bySpan[span] = s
			slots = append(slots, s)
		}
		s.nodes = append(s.nodes, n)
	}
	return slots, nil
}

// arrange assigns layers with Kahn's algorithm over the edges inside the
// slot and orders each layer by predecessor barycenter. Nodes on a cycle
// never reach in-degree zero and stay in layer 0.
func (e *Engine) arrange(g *layout.Graph, s *slot) {
	member := make(map[string]bool, len(s.nodes))
	for _, n := range s.nodes {
		member[n.ID] = true
	}
	inDegree := make(map[string]int, len(s.nodes))
	for _, n := range s.nodes {
		for _, p := range g.Predecessors(n.ID) {
			if member[p] && p != n.ID {
				inDegree[n.ID]++
			}
		}
	}

	layerOf := make(map[string]int, len(s.nodes))
	queue := make([]string, 0, len(s.nodes))
	for _, n := range s.nodes {
		if inDegree[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		for _, child := range g.Successors(curr) {
			if !member[child] || child == curr {
				continue
			}
			if l := layerOf[curr] + 1; l > layerOf[child] {
				layerOf[child] = l
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	depth := 0
	for _, l := range layerOf {
		depth = max(depth, l)
	}
	s.layers = make([][]*layout.Node, depth+1)
	for _, n := range s.nodes {
		s.layers[layerOf[n.ID]] = append(s.layers[layerOf[n.ID]], n)
	}

	pos := make(map[string]int, len(s.nodes))
	for i, layer := range s.layers {
		if i > 0 {
			bary := make(map[string]float64, len(layer))
			for j, n := range layer {
				sum, cnt := 0.0, 0
				for _, p := range g.Predecessors(n.ID) {
					if at, ok := pos[p]; ok && member[p] {
						sum += float64(at)
						cnt++
					}
				}
				if cnt > 0 {
					bary[n.ID] = sum / float64(cnt)
				} else {
					bary[n.ID] = float64(j)
				}
			}
			slices.SortStableFunc(layer, func(x, y *layout.Node) int { return cmp.Compare(bary[x.ID], bary[y.ID]) })
		}
		for j, n := range layer {
			pos[n.ID] = j
		}
	}

	s.width, s.height = 0, 0
	for i, layer := range s.layers {
		w, h := 0.0, 0.0
		for j, n := range layer {
			if j > 0 {
				w += e.NodeSpacing
			}
			w += n.Bounds.W
			h = max(h, n.Bounds.H)
		}
		s.width = max(s.width, w)
		if i > 0 {
			s.height += e.LayerSpacing
		}
		s.height += h
	}
}

// sizeTracks grows tracks to fit their slots: single-track slots first, then
// wider slots in order of increasing extent, each spreading any remaining
// deficit evenly over its tracks.
func (e *Engine) sizeTracks(pg *layout.PartitionGrid, slots []*slot) {
	for i := range pg.Columns {
		pg.Columns[i].Size = e.baseSize(pg.Columns[i])
	}
	for i := range pg.Rows {
		pg.Rows[i].Size = e.baseSize(pg.Rows[i])
	}

	ordered := slices.Clone(slots)
	slices.SortStableFunc(ordered, func(a, b *slot) int { return a.span.Columns() - b.span.Columns() })
	for _, s := range ordered {
		grow(pg.Columns[s.span.MinCol:s.span.MaxCol+1], s.width+2*e.Padding)
	}
	slices.SortStableFunc(ordered, func(a, b *slot) int { return a.span.Rows() - b.span.Rows() })
	for _, s := range ordered {
		grow(pg.Rows[s.span.MinRow:s.span.MaxRow+1], s.height+2*e.Padding)
	}

	x := pg.Columns[0].Position
	for i := range pg.Columns {
		pg.Columns[i].Position = x
		x += pg.Columns[i].Size
	}
	y := pg.Rows[0].Position
	for i := range pg.Rows {
		pg.Rows[i].Position = y
		y += pg.Rows[i].Size
	}
}

func (e *Engine) baseSize(t layout.Track) float64 {
	size := max(e.MinTrackSize, t.MinInset+t.MaxInset)
	if e.KeepTrackSizes {
		size = max(size, t.Size)
	}
	return size
}

// grow enlarges tracks so that their combined inner extent holds content.
func grow(tracks []layout.Track, content float64) {
	need := tracks[0].MinInset + content + tracks[len(tracks)-1].MaxInset
	have := 0.0
	for _, t := range tracks {
		have += t.Size
	}
	if have >= need {
		return
	}
	extra := (need - have) / float64(len(tracks))
	for i := range tracks {
		tracks[i].Size += extra
	}
}

func (e *Engine) place(pg *layout.PartitionGrid, s *slot) {
	r, err := pg.SpanRect(s.span)
	if err != nil {
		return
	}
	left := r.X + pg.Columns[s.span.MinCol].MinInset
	right := r.MaxX() - pg.Columns[s.span.MaxCol].MaxInset
	top := r.Y + pg.Rows[s.span.MinRow].MinInset
	bottom := r.MaxY() - pg.Rows[s.span.MaxRow].MaxInset

	y := top + (bottom-top-s.height)/2
	for _, layer := range s.layers {
		lw, lh := 0.0, 0.0
		for j, n := range layer {
			if j > 0 {
				lw += e.NodeSpacing
			}
			lw += n.Bounds.W
			lh = max(lh, n.Bounds.H)
		}
		x := left + (right-left-lw)/2
		for _, n := range layer {
			n.Bounds.X = x
			n.Bounds.Y = y + (lh-n.Bounds.H)/2
			x += n.Bounds.W + e.NodeSpacing
		}
		y += lh + e.LayerSpacing
	}
}

// groupBounds sets assigned groups to the rectangle of their cells and
// every other group to the union of its children grown by its insets. The
// table additionally covers the whole grid.
func (e *Engine) groupBounds(g *layout.Graph, pg *layout.PartitionGrid, a layout.Assignment) error {
	var groups []*layout.Node
	for _, n := range g.Nodes() {
		if n.Group {
			groups = append(groups, n)
		}
	}
	slices.SortStableFunc(groups, func(x, y *layout.Node) int { return g.Depth(y) - g.Depth(x) })

	table, hasTable := g.Table()
	for _, n := range groups {
		if id, ok := a[n.ID]; ok {
			r, err := pg.SpanRect(id.Span)
			if err != nil {
				return fmt.Errorf("group %q: %w", n.ID, err)
			}
			n.Bounds = r
			continue
		}
		var u grid.Rect
		for _, c := range g.Children(n.ID) {
			u = u.Union(c.Bounds)
		}
		if !u.Empty() {
			u = grid.Rect{
				X: u.X - n.Insets.Left,
				Y: u.Y - n.Insets.Top,
				W: u.W + n.Insets.Left + n.Insets.Right,
				H: u.H + n.Insets.Top + n.Insets.Bottom,
			}
		}
		if hasTable && n == table {
			first, last := pg.Columns[0], pg.Columns[len(pg.Columns)-1]
			top, bottom := pg.Rows[0], pg.Rows[len(pg.Rows)-1]
			u = u.Union(grid.Rect{X: first.Position, Y: top.Position, W: last.End() - first.Position, H: bottom.End() - top.Position})
		}
		n.Bounds = u
	}
	return nil
}
