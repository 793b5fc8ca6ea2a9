// Package render turns cell-span designs and their layouts into output.
//
// # Formats
//
//   - [Preview]: a text grid with one letter per span, for terminals and tests
//   - [ToDOT]: Graphviz DOT source with every node pinned at its layout position
//   - [RenderSVG]: SVG drawn from that DOT source by an embedded Graphviz
//   - [RenderJSON]: node bounds, parents, edges and track geometry
//
// Laid out graphs come from [layout.Stage] and [design.Restore]:
//
//	dot := render.ToDOT(g, render.Options{Edges: true})
//	svg, err := render.RenderSVG(ctx, dot)
//
// # Dependencies
//
// SVG rendering uses [github.com/goccy/go-graphviz], which runs Graphviz
// in-process; no external binaries are required.
//
// [layout.Stage]: github.com/matzehuels/cellspan/pkg/layout#Stage
// [design.Restore]: github.com/matzehuels/cellspan/pkg/design#Restore
package render
