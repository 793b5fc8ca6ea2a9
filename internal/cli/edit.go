package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cellspan/pkg/design"
	apperr "github.com/matzehuels/cellspan/pkg/errors"
	"github.com/matzehuels/cellspan/pkg/grid"
)

// newCommand creates the "new" command.
func (c *CLI) newCommand() *cobra.Command {
	var (
		name       string
		cols, rows int
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "new <file>",
		Short: "Create an empty design",
		Long: `Create an empty design with the given number of columns and rows.

The file format follows the extension: .json or .toml.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := apperr.ValidateDimensions(cols, rows); err != nil {
				return err
			}
			if err := apperr.ValidateName(name); err != nil {
				return err
			}
			if !force {
				if _, err := os.Stat(args[0]); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", args[0])
				}
			}
			d := design.New(name, cols, rows)
			d.Palette = c.Config.Palette
			if err := saveDesign(d, args[0]); err != nil {
				return err
			}
			printSuccess("Created %dx%d design", cols, rows)
			printFile(args[0])
			printNewline()
			printNextStep("Paint a span", appName+" paint "+args[0]+" 0,0:1,0")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "design name")
	cmd.Flags().IntVarP(&cols, "columns", "c", 4, "number of columns")
	cmd.Flags().IntVarP(&rows, "rows", "r", 3, "number of rows")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing design")

	return cmd
}

// paintCommand creates the "paint" command.
func (c *CLI) paintCommand() *cobra.Command {
	var tag string

	cmd := &cobra.Command{
		Use:   "paint <file> <cells>...",
		Short: "Paint cells into a span",
		Long: `Paint the bounding rectangle of the given cells with a tag.

Cells are "col,row" or rectangles "col,row:col,row". Without --tag the next
unused palette tag is taken. Spans that partially overlap the new one are
cut back so that every span stays rectangular, and a tag that is already in
use moves to the new cells.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cells, err := parseCells(args[1:])
			if err != nil {
				return err
			}
			if tag != "" {
				if err := apperr.ValidateTag(tag); err != nil {
					return err
				}
			}
			var span grid.Span
			used := grid.Tag(tag)
			_, err = editDesign(args[0], func(d *design.Document) error {
				var err error
				if used == "" {
					used, span, err = d.PaintNext(cells)
				} else {
					span, err = d.Paint(cells, used)
				}
				return err
			})
			if err != nil {
				return err
			}
			printSuccess("Painted %s with %s", span, StyleHighlight.Render(string(used)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&tag, "tag", "t", "", "tag to paint with (default: next palette tag)")

	return cmd
}

// eraseCommand creates the "erase" command.
func (c *CLI) eraseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "erase <file> <cells>...",
		Short: "Clear cells and cut back overlapping spans",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cells, err := parseCells(args[1:])
			if err != nil {
				return err
			}
			var span grid.Span
			if _, err := editDesign(args[0], func(d *design.Document) error {
				span, err = d.Erase(cells)
				return err
			}); err != nil {
				return err
			}
			printSuccess("Erased %s", span)
			return nil
		},
	}
}

// =============================================================================
// Tracks
// =============================================================================

type trackAxis struct {
	name   string
	plural string
	sizeOf string
	insert func(d *design.Document, ref int, before bool, size float64) (int, error)
	remove func(d *design.Document, i int) error
}

var (
	trackColumn = trackAxis{
		name: "column", plural: "columns", sizeOf: "width",
		insert: (*design.Document).InsertColumn,
		remove: (*design.Document).RemoveColumn,
	}
	trackRow = trackAxis{
		name: "row", plural: "rows", sizeOf: "height",
		insert: (*design.Document).InsertRow,
		remove: (*design.Document).RemoveRow,
	}
)

// trackCommand creates the "column" or "row" command with its add and
// remove subcommands.
func (c *CLI) trackCommand(axis trackAxis) *cobra.Command {
	cmd := &cobra.Command{
		Use:   axis.name,
		Short: "Insert and remove " + axis.plural,
	}

	var (
		before bool
		size   float64
	)
	add := &cobra.Command{
		Use:   "add <file> <index>",
		Short: "Insert a " + axis.name + " next to index",
		Long: fmt.Sprintf(`Insert a %s after (or with --before, before) the %s at index.

Spans that cross the insertion point grow by one %s; node home cells
behind it move along.`, axis.name, axis.name, axis.name),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid index %q: %w", args[1], err)
			}
			var idx int
			if _, err := editDesign(args[0], func(d *design.Document) error {
				idx, err = axis.insert(d, ref, before, size)
				return err
			}); err != nil {
				return err
			}
			printSuccess("Inserted %s %d", axis.name, idx)
			return nil
		},
	}
	add.Flags().BoolVar(&before, "before", false, "insert before index instead of after")
	add.Flags().Float64Var(&size, axis.sizeOf, grid.DefaultTrackSize, axis.name+" "+axis.sizeOf)

	remove := &cobra.Command{
		Use:   "remove <file> <index>",
		Short: "Remove the " + axis.name + " at index",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid index %q: %w", args[1], err)
			}
			if _, err := editDesign(args[0], func(d *design.Document) error {
				return axis.remove(d, i)
			}); err != nil {
				return err
			}
			printSuccess("Removed %s %d", axis.name, i)
			return nil
		},
	}

	cmd.AddCommand(add, remove)
	return cmd
}

// =============================================================================
// Graph Content
// =============================================================================

// nodeCommand creates the "node" command.
func (c *CLI) nodeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Add nodes to a design",
	}

	var (
		label         string
		width, height float64
	)
	add := &cobra.Command{
		Use:   "add <file> <id> <col,row>",
		Short: "Add a node with its home cell",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := parseCell(args[2])
			if err != nil {
				return err
			}
			n := design.NodeSpec{ID: args[1], Label: label, Column: home.Col, Row: home.Row, Width: width, Height: height}
			if _, err := editDesign(args[0], func(d *design.Document) error {
				return d.AddNode(n)
			}); err != nil {
				return err
			}
			printSuccess("Added node %s at %s", StyleHighlight.Render(n.ID), home)
			return nil
		},
	}
	add.Flags().StringVar(&label, "label", "", "node label (default: id)")
	add.Flags().Float64Var(&width, "width", 0, "node width (default from engine)")
	add.Flags().Float64Var(&height, "height", 0, "node height (default from engine)")

	cmd.AddCommand(add)
	return cmd
}

// edgeCommand creates the "edge" command.
func (c *CLI) edgeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edge",
		Short: "Add edges to a design",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "add <file> <from> <to>",
		Short: "Add a directed edge between two nodes",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := design.EdgeSpec{From: args[1], To: args[2]}
			if _, err := editDesign(args[0], func(d *design.Document) error {
				return d.AddEdge(e)
			}); err != nil {
				return err
			}
			printSuccess("Added edge %s %s %s", e.From, iconArrow, e.To)
			return nil
		},
	})
	return cmd
}
