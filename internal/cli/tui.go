package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cellspan/pkg/design"
	"github.com/matzehuels/cellspan/pkg/grid"
	"github.com/matzehuels/cellspan/pkg/render"
)

// Painter styles
var (
	cursorStyle    = lipgloss.NewStyle().Reverse(true)
	selectionStyle = lipgloss.NewStyle().Foreground(colorCyan).Underline(true)
	statusStyle    = lipgloss.NewStyle().Foreground(colorGray)
	errorStyle     = lipgloss.NewStyle().Foreground(colorRed)
)

// designCommand creates the "design" command, an interactive painter.
func (c *CLI) designCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "design <file>",
		Short: "Paint a design interactively",
		Long: `Paint a design interactively in the terminal.

Move the cursor with the arrow keys (or h/j/k/l), press space to anchor a
selection and enter to paint it with the next palette tag. x erases the
selection, c/r insert a column/row after the cursor, C/R remove them.
Press s to save and q to quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDesign(args[0])
			if err != nil {
				return err
			}
			final, err := tea.NewProgram(NewDesignModel(d, args[0]), tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return fmt.Errorf("run painter: %w", err)
			}
			if m, ok := final.(DesignModel); ok && m.Dirty {
				printWarning("Quit with unsaved changes")
			}
			return nil
		},
	}
}

// =============================================================================
// DesignModel - Interactive span painter
// =============================================================================

// DesignModel is the bubbletea model of the interactive painter. It edits
// Doc in place and writes it to Path on save.
type DesignModel struct {
	Doc    *design.Document
	Path   string
	Cursor grid.Cell
	Anchor *grid.Cell
	Dirty  bool
	Status string
	Err    error

	save func(d *design.Document, path string) error
}

// NewDesignModel creates a painter for d that saves to path.
func NewDesignModel(d *design.Document, path string) DesignModel {
	return DesignModel{Doc: d, Path: path, save: saveDesign}
}

func (m DesignModel) Init() tea.Cmd {
	return nil
}

// Selection returns the cells the next paint or erase applies to: the
// rectangle between anchor and cursor, or the cursor cell alone.
func (m DesignModel) Selection() grid.Span {
	if m.Anchor == nil {
		return grid.CellSpan(m.Cursor)
	}
	return grid.NewSpan(m.Anchor.Col, m.Cursor.Col, m.Anchor.Row, m.Cursor.Row)
}

func (m DesignModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.Status, m.Err = "", nil

	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		m.move(0, -1)
	case "down", "j":
		m.move(0, 1)
	case "left", "h":
		m.move(-1, 0)
	case "right", "l":
		m.move(1, 0)
	case " ":
		if m.Anchor == nil {
			anchor := m.Cursor
			m.Anchor = &anchor
		} else {
			m.Anchor = nil
		}
	case "enter":
		tag, span, err := m.Doc.PaintNext(m.Selection().Cells())
		m.edited(err, fmt.Sprintf("painted %s with %s", span, tag))
	case "x":
		span, err := m.Doc.Erase(m.Selection().Cells())
		m.edited(err, fmt.Sprintf("erased %s", span))
	case "c":
		idx, err := m.Doc.InsertColumn(m.Cursor.Col, false, grid.DefaultTrackSize)
		m.edited(err, fmt.Sprintf("inserted column %d", idx))
	case "r":
		idx, err := m.Doc.InsertRow(m.Cursor.Row, false, grid.DefaultTrackSize)
		m.edited(err, fmt.Sprintf("inserted row %d", idx))
	case "C":
		err := m.Doc.RemoveColumn(m.Cursor.Col)
		m.edited(err, fmt.Sprintf("removed column %d", m.Cursor.Col))
	case "R":
		err := m.Doc.RemoveRow(m.Cursor.Row)
		m.edited(err, fmt.Sprintf("removed row %d", m.Cursor.Row))
	case "s":
		if err := m.save(m.Doc, m.Path); err != nil {
			m.Err = err
			break
		}
		m.Dirty = false
		m.Status = "saved " + m.Path
	}
	return m, nil
}

func (m *DesignModel) move(dc, dr int) {
	cols, rows := len(m.Doc.Columns), len(m.Doc.Rows)
	m.Cursor.Col = min(max(m.Cursor.Col+dc, 0), max(cols-1, 0))
	m.Cursor.Row = min(max(m.Cursor.Row+dr, 0), max(rows-1, 0))
}

func (m *DesignModel) edited(err error, status string) {
	if err != nil {
		m.Err = err
		return
	}
	m.Anchor = nil
	m.Dirty = true
	m.Status = status
	// Removing a track may leave the cursor outside the table.
	m.move(0, 0)
}

func (m DesignModel) View() string {
	var b strings.Builder

	title := m.Doc.Name
	if title == "" {
		title = m.Path
	}
	if m.Dirty {
		title += " *"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("arrows: move  space: anchor  enter: paint  x: erase  c/r: insert  C/R: remove  s: save  q: quit"))
	b.WriteString("\n\n")

	g, cm := m.Doc.Grid(), m.Doc.ColorMap()
	legend := render.Legend(g, cm)
	sel := m.Selection()

	width := len(fmt.Sprint(max(g.RowCount()-1, 0)))
	b.WriteString(strings.Repeat(" ", width+1))
	for c := 0; c < g.ColumnCount(); c++ {
		b.WriteString(StyleDim.Render(fmt.Sprintf("%-2d", c%100)))
	}
	b.WriteString("\n")

	for r := 0; r < g.RowCount(); r++ {
		b.WriteString(StyleDim.Render(fmt.Sprintf("%*d ", width, r)))
		for c := 0; c < g.ColumnCount(); c++ {
			cell := grid.Cell{Col: c, Row: r}
			text, style := string(render.Empty)+" ", StyleDim
			if tag, ok := cm.Get(cell); ok {
				text = string(legend[tag]) + " "
				style = lipgloss.NewStyle().Foreground(lipgloss.Color(tag)).Bold(true)
			}
			switch {
			case cell == m.Cursor:
				style = style.Inherit(cursorStyle)
			case m.Anchor != nil && sel.Contains(cell):
				style = style.Inherit(selectionStyle)
			}
			b.WriteString(style.Render(text))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if line := legendLine(g, cm, false); line != "" {
		b.WriteString(line)
		b.WriteString("\n")
	}
	switch {
	case m.Err != nil:
		b.WriteString(errorStyle.Render(m.Err.Error()))
	case m.Status != "":
		b.WriteString(statusStyle.Render(m.Status))
	default:
		b.WriteString(statusStyle.Render(fmt.Sprintf("cursor %s  selection %s", m.Cursor, sel)))
	}
	b.WriteString("\n")

	return b.String()
}
