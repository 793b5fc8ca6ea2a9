package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/cellspan/pkg/design"
	"github.com/matzehuels/cellspan/pkg/render"
)

// Render generates output artifacts in the requested formats. The preview
// format draws doc's painted grid and ignores the arrangement.
func Render(ctx context.Context, a *Arrangement, doc *design.Document, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	dotOpts := render.Options{Detailed: opts.Detailed, Edges: opts.ShowEdges}

	var dot string
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatDOT, FormatSVG:
			if dot == "" {
				dot = render.ToDOT(a.Graph, dotOpts)
			}
			if format == FormatDOT {
				data = []byte(dot)
			} else {
				data, err = render.RenderSVG(ctx, dot)
			}
		case FormatJSON:
			data, err = render.RenderJSON(a.Graph,
				render.WithJSONGrid(a.Grid),
				render.WithJSONSpans(a.Spans),
				render.WithJSONAssignment(a.Assignment))
		case FormatPreview:
			data = []byte(render.Preview(doc.Grid(), doc.ColorMap()))
		default:
			return nil, fmt.Errorf("%w: unsupported format %s", ErrInvalidOptions, format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
