package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/cellspan/pkg/layout"
)

// pointsPerInch converts layout units (points) to Graphviz node sizes.
const pointsPerInch = 72.0

// Options configures DOT generation.
type Options struct {
	// Detailed adds node bounds to labels.
	Detailed bool
	// Edges draws the graph's edges as splines between the pinned nodes.
	Edges bool
}

// ToDOT converts a laid out graph to Graphviz DOT source for the neato
// engine. Every node is pinned at its layout position with its layout size,
// so Graphviz only draws and never moves anything. Groups are emitted
// before their members, deepest last, so that members paint on top.
// Group nodes with a tag are filled with it.
//
// Layout coordinates grow downwards; DOT coordinates grow upwards, so y is
// negated.
func ToDOT(g *layout.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  overlap=true;\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  outputorder=nodesfirst;\n")
	buf.WriteString("  node [shape=box, fixedsize=true, style=\"rounded,filled\", fillcolor=white, fontsize=12];\n")
	buf.WriteString("\n")

	for _, n := range paintOrder(g) {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, opts.Detailed), ", "))
	}

	if opts.Edges {
		buf.WriteString("\n")
		for _, e := range g.Edges() {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// paintOrder returns groups by increasing depth followed by leaves.
func paintOrder(g *layout.Graph) []*layout.Node {
	nodes := g.Nodes()
	slices.SortStableFunc(nodes, func(a, b *layout.Node) int {
		if a.Group != b.Group {
			if a.Group {
				return -1
			}
			return 1
		}
		if a.Group {
			return g.Depth(a) - g.Depth(b)
		}
		return 0
	})
	return nodes
}

func nodeAttrs(n *layout.Node, detailed bool) []string {
	cx, cy := n.Bounds.Center()
	label := n.DisplayLabel()
	if detailed {
		label += "\n" + n.Bounds.String()
	}
	attrs := []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("pos=\"%s,%s!\"", num(cx), num(-cy)),
		fmt.Sprintf("width=%s", num(n.Bounds.W/pointsPerInch)),
		fmt.Sprintf("height=%s", num(n.Bounds.H/pointsPerInch)),
	}
	if n.Group {
		attrs = append(attrs, "labelloc=t", "style=\"rounded,filled,dashed\"")
		if n.Tag != "" {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", string(n.Tag)))
		} else {
			attrs = append(attrs, "fillcolor=\"#f4f4f4\"")
		}
	}
	return attrs
}

func num(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// RenderSVG renders DOT source produced by [ToDOT] to SVG using the neato
// engine of an embedded Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.-]+)\s+([0-9.-]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the root element Graphviz emits (with its
// point-based width and height) by one sized to the view box.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
