// Package pkg provides the core libraries for cellspan, an editor and layout
// pipeline for tables whose cells can be merged into rectangular cell spans.
//
// # Overview
//
// A design is a table of columns and rows. Painting a group of cells with a
// color tag merges them into a cell span; painting over part of an existing
// span cuts it so that every span stays rectangular. Nodes placed in the
// table are laid out by a grid-aware layout engine, and each span becomes a
// group that its nodes share. The pkg directory is organized into these
// areas:
//
//  1. [grid] - Tables, color maps and the span algorithms (discover, cut, shift)
//  2. [design] - Persistent design documents and the layout bridge
//  3. [layout] - Partition grids, the span group stage and layout engines
//  4. [pipeline] - Orchestration (prepare → layout → render) with caching
//  5. [render] - Output formats (SVG, DOT, JSON, text preview)
//
// # Architecture
//
// The typical data flow through cellspan:
//
//	Design document (JSON/TOML)
//	         ↓
//	    [design.Prepare] (table group + one group per span)
//	         ↓
//	    [layout.Stage] (bind groups to spans, remap nodes)
//	         ↓
//	    [hierarchic] engine (track sizes and node bounds)
//	         ↓
//	    [design.Restore] (dissolve the table group)
//	         ↓
//	    SVG/DOT/JSON/preview output
//
// # Quick Start
//
// Paint a span, place nodes and render the result:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/cellspan/pkg/design"
//	    "github.com/matzehuels/cellspan/pkg/grid"
//	    "github.com/matzehuels/cellspan/pkg/pipeline"
//	)
//
//	// 1. Create a 3x2 design and merge the first two cells of row 0
//	d := design.New("demo", 3, 2)
//	d.Paint([]grid.Cell{{Col: 0, Row: 0}, {Col: 1, Row: 0}}, "red")
//
//	// 2. Place nodes and connect them
//	d.AddNode(design.NodeSpec{ID: "a", Column: 0, Row: 0})
//	d.AddNode(design.NodeSpec{ID: "b", Column: 2, Row: 1})
//	d.AddEdge(design.EdgeSpec{From: "a", To: "b"})
//
//	// 3. Compute the layout
//	opts := pipeline.Options{Formats: []string{pipeline.FormatSVG}}
//	a, _ := pipeline.Arrange(context.Background(), d, opts)
//
//	// 4. Render to SVG
//	out, _ := pipeline.Render(context.Background(), a, d, opts)
//	svg := out[pipeline.FormatSVG]
//
// # Main Packages
//
// ## Table Model
//
// [grid] - Columns, rows and color maps. [grid.Discover] finds the span a
// cell belongs to, [grid.Cut] computes the part of a span a new span
// overlaps, and [grid.ColorMap.Shift] re-indexes tags when tracks change.
//
// [grid/edit] - Painting, erasing and track insertion or removal. Every edit
// leaves all spans rectangular.
//
// [design] - The persisted document: tracks, tags, nodes, edges and palette.
// Reads and writes JSON and TOML.
//
// ## Layout
//
// [layout] - The partition grid view of a table and the stage that binds
// span groups to multi-cell ids before the engine runs.
//
// [hierarchic] - A layered engine that sizes tracks to fit the nodes and
// span groups placed in them.
//
// ## Orchestration
//
// [pipeline] - Layout and render used by the CLI and the HTTP server. The
// [pipeline.Runner] caches arrangements and artifacts by design hash.
//
// [cache] - File, Redis and no-op caches with TTLs and scoped keys.
//
// [store] - Design storage in memory, on disk or in MongoDB.
//
// [errors] - Error codes, classification and input validation shared by
// the CLI and the server.
//
// [observability] - Hooks for pipeline stages and server requests.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/grid/...               # Specific package
//	go test -run Example ./pkg/grid      # Examples only
//
// [grid]: https://pkg.go.dev/github.com/matzehuels/cellspan/pkg/grid
// [grid/edit]: https://pkg.go.dev/github.com/matzehuels/cellspan/pkg/grid/edit
// [design]: https://pkg.go.dev/github.com/matzehuels/cellspan/pkg/design
// [layout]: https://pkg.go.dev/github.com/matzehuels/cellspan/pkg/layout
// [hierarchic]: https://pkg.go.dev/github.com/matzehuels/cellspan/pkg/layout/hierarchic
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/cellspan/pkg/pipeline
// [render]: https://pkg.go.dev/github.com/matzehuels/cellspan/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/cellspan/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/cellspan/pkg/store
// [errors]: https://pkg.go.dev/github.com/matzehuels/cellspan/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/cellspan/pkg/observability
package pkg
