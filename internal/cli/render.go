package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cellspan/pkg/pipeline"
)

// renderCommand creates the render command for generating visualizations.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Lay out a design and render it",
		Long: `Lay out a design and render it to one or more formats.

Formats:
  svg      the laid out graph with span groups, drawn by Graphviz
  dot      the Graphviz source of the SVG
  json     node geometry, track sizes and the cell assignment
  preview  the painted grid as text

With a single format, -o names the output file. With several, -o is a base
path and every format is written to <base>.<ext>.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], output, opts, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, json, preview (comma-separated)")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "label nodes with their cells and sizes")
	cmd.Flags().BoolVar(&opts.ShowEdges, "edges", true, "draw edges")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	addLayoutFlags(cmd, &opts)

	return cmd
}

// formatExt returns the file extension written for a format.
func formatExt(format string) string {
	if format == pipeline.FormatPreview {
		return "txt"
	}
	return format
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. If output carries
// the extension of an output format, that extension is stripped.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if pipeline.ValidFormats[ext] || ext == "txt" {
		return strings.TrimSuffix(output, "."+ext)
	}
	return output
}

// outputPaths maps every format to the file it is written to.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + formatExt(f)
	}
	return paths
}

// runRender loads the design, runs the pipeline and writes every artifact.
func (c *CLI) runRender(ctx context.Context, input, output string, opts pipeline.Options, noCache bool) error {
	d, err := loadDesign(input)
	if err != nil {
		return err
	}

	runner := c.newRunner(ctx, noCache)
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	result, err := runner.Layout(ctx, d, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths := outputPaths(output, input, opts.Formats)
	formats := make([]string, 0, len(paths))
	for f := range paths {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	printSuccess("Rendered %s", input)
	for _, f := range formats {
		if err := os.WriteFile(paths[f], result.Artifacts[f], 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", paths[f], err)
		}
		c.Logger.Debug("wrote artifact", "format", f, "bytes", len(result.Artifacts[f]))
		printFile(paths[f])
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.Stats.SpanCount,
		result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)

	return nil
}
