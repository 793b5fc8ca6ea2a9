package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/cellspan/pkg/grid"
)

// parseCell parses "col,row".
func parseCell(s string) (grid.Cell, error) {
	colStr, rowStr, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok {
		return grid.Cell{}, fmt.Errorf("invalid cell %q (want col,row)", s)
	}
	col, err := strconv.Atoi(strings.TrimSpace(colStr))
	if err != nil {
		return grid.Cell{}, fmt.Errorf("invalid cell %q: column: %w", s, err)
	}
	row, err := strconv.Atoi(strings.TrimSpace(rowStr))
	if err != nil {
		return grid.Cell{}, fmt.Errorf("invalid cell %q: row: %w", s, err)
	}
	return grid.Cell{Col: col, Row: row}, nil
}

// parseCells parses cell arguments. Each argument is a single cell "col,row"
// or a rectangle "col,row:col,row" given by two opposite corners.
func parseCells(args []string) ([]grid.Cell, error) {
	var cells []grid.Cell
	for _, arg := range args {
		from, to, isRange := strings.Cut(arg, ":")
		a, err := parseCell(from)
		if err != nil {
			return nil, err
		}
		if !isRange {
			cells = append(cells, a)
			continue
		}
		b, err := parseCell(to)
		if err != nil {
			return nil, err
		}
		cells = append(cells, grid.NewSpan(a.Col, b.Col, a.Row, b.Row).Cells()...)
	}
	if len(cells) == 0 {
		return nil, fmt.Errorf("no cells given: %w", grid.ErrEmptyInput)
	}
	return cells, nil
}
