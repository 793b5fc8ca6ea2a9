package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cellspan/pkg/design"
	"github.com/matzehuels/cellspan/pkg/grid"
	"github.com/matzehuels/cellspan/pkg/render"
)

// showCommand creates the "show" command.
func (c *CLI) showCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Print a design's painted grid",
		Long: `Print a design's painted grid, one letter per tagged cell.

Letters are assigned to spans in the order they are discovered (column by
column); the legend maps them back to tags.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDesign(args[0])
			if err != nil {
				return err
			}
			printDesign(d, plain)
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print without colors")

	return cmd
}

func printDesign(d *design.Document, plain bool) {
	g, cm := d.Grid(), d.ColorMap()
	title := d.Name
	if title == "" {
		title = d.ID
	}
	fmt.Println(StyleTitle.Render(title))
	printKeyValue("size", fmt.Sprintf("%d columns x %d rows", g.ColumnCount(), g.RowCount()))
	printKeyValue("nodes", fmt.Sprintf("%d nodes, %d edges", len(d.Nodes), len(d.Edges)))
	printNewline()

	preview := render.Preview(g, cm)
	if !plain {
		preview = colorPreview(preview, render.Legend(g, cm))
	}
	fmt.Print(preview)

	if legend := legendLine(g, cm, plain); legend != "" {
		printNewline()
		fmt.Println(legend)
	}
}

// colorPreview paints every letter of a preview with its tag. Tags that are
// not colors render unchanged.
func colorPreview(preview string, legend map[grid.Tag]rune) string {
	styles := make(map[rune]lipgloss.Style, len(legend))
	for tag, r := range legend {
		styles[r] = lipgloss.NewStyle().Foreground(lipgloss.Color(tag)).Bold(true)
	}

	lines := strings.Split(strings.TrimSuffix(preview, "\n"), "\n")
	// The header is indented by the width of the row labels plus one.
	indent := len(lines[0]) - len(strings.TrimLeft(lines[0], " "))

	var b strings.Builder
	b.WriteString(StyleDim.Render(lines[0]) + "\n")
	for _, line := range lines[1:] {
		if len(line) < indent {
			b.WriteString(line + "\n")
			continue
		}
		b.WriteString(StyleDim.Render(line[:indent]))
		for _, r := range line[indent:] {
			switch s, ok := styles[r]; {
			case ok:
				b.WriteString(s.Render(string(r)))
			case r == render.Empty:
				b.WriteString(StyleDim.Render(string(r)))
			default:
				b.WriteRune(r)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func legendLine(g *grid.Grid, cm *grid.ColorMap, plain bool) string {
	legend := render.Legend(g, cm)
	var parts []string
	for _, ts := range grid.Spans(g, cm) {
		r := string(legend[ts.Tag])
		if !plain {
			r = lipgloss.NewStyle().Foreground(lipgloss.Color(ts.Tag)).Bold(true).Render(r)
		}
		parts = append(parts, fmt.Sprintf("%s %s", r, ts.Tag))
	}
	return strings.Join(parts, StyleDim.Render("  ·  "))
}

// spansCommand creates the "spans" command.
func (c *CLI) spansCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "spans <file>",
		Short: "List the spans of a design",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDesign(args[0])
			if err != nil {
				return err
			}
			spans := d.Spans()
			if len(spans) == 0 {
				printInfo("No spans painted")
				return nil
			}
			fmt.Println(spansTable(d.Grid(), spans))
			return nil
		},
	}
}

func spansTable(g *grid.Grid, spans []grid.TaggedSpan) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, len(spans))
	for i, ts := range spans {
		s := ts.Span
		bounds := "-"
		if r, err := g.SpanRect(s); err == nil {
			bounds = r.String()
		}
		rows[i] = []string{
			string(ts.Tag),
			fmt.Sprintf("%d-%d", s.MinCol, s.MaxCol),
			fmt.Sprintf("%d-%d", s.MinRow, s.MaxRow),
			fmt.Sprint(s.Size()),
			bounds,
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Tag", "Columns", "Rows", "Cells", "Bounds").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if col == 0 && row >= 0 && row < len(spans) {
				return base.Foreground(lipgloss.Color(spans[row].Tag)).Bold(true)
			}
			return base
		})
	return t.Render()
}
