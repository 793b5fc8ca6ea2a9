package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cellspan/pkg/pipeline"
)

// layoutCommand creates the layout command for arranging a design's graph.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		write   bool
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout <file>",
		Short: "Lay out a design's graph inside its painted grid",
		Long: `Lay out a design's graph inside its painted grid.

Every span becomes a group owning the cells under it, and every node is
placed in its home cell. The output is a layout.json file (same format as
'render -f json') with node geometry, track sizes and the cell assignment.

With --write the computed column widths and row heights are stored back
into the design.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts, output, write, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&write, "write", false, "store computed track sizes in the design")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	addLayoutFlags(cmd, &opts)

	return cmd
}

// runLayout loads the design, arranges it, and writes the layout.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, write, noCache bool) error {
	d, err := loadDesign(input)
	if err != nil {
		return err
	}
	if err := opts.ValidateForLayout(); err != nil {
		return err
	}

	runner := c.newRunner(ctx, noCache)
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	a, cacheHit, err := runner.ArrangeWithCacheInfo(ctx, d, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	opts.Formats = []string{pipeline.FormatJSON}
	artifacts, err := pipeline.Render(ctx, a, d, opts)
	if err != nil {
		return fmt.Errorf("render layout: %w", err)
	}

	outputPath := output
	if outputPath == "" {
		outputPath = strings.TrimSuffix(input, filepath.Ext(input)) + ".layout.json"
	}
	if err := os.WriteFile(outputPath, artifacts[pipeline.FormatJSON], 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	if write {
		if err := d.Resize(a.Grid); err != nil {
			return err
		}
		if err := saveDesign(d, input); err != nil {
			return err
		}
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	if write {
		printFile(input)
	}
	printStats(a.Graph.NodeCount(), len(a.Graph.Edges()), len(a.Spans), cacheHit)
	printNewline()
	printNextStep("Render", appName+" render "+input)

	return nil
}
