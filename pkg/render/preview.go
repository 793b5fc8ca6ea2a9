package render

import (
	"fmt"
	"strings"

	"github.com/matzehuels/cellspan/pkg/grid"
)

// Empty marks an untagged cell in a [Preview].
const Empty = '.'

// Legend maps every tag of a color map to the letter [Preview] prints for it.
// Letters follow the order in which [grid.Spans] discovers the tags, so the
// first span is 'a'. After 'z' the sequence continues with 'A' to 'Z' and
// then '#'.
func Legend(g *grid.Grid, cm *grid.ColorMap) map[grid.Tag]rune {
	letters := make(map[grid.Tag]rune)
	for i, ts := range grid.Spans(g, cm) {
		letters[ts.Tag] = letter(i)
	}
	return letters
}

func letter(i int) rune {
	switch {
	case i < 26:
		return rune('a' + i)
	case i < 52:
		return rune('A' + i - 26)
	}
	return '#'
}

// Preview draws the grid as text, one character per cell and one line per
// row, preceded by a header of column indices modulo ten:
//
//	  0123
//	0 aa..
//	1 aab.
func Preview(g *grid.Grid, cm *grid.ColorMap) string {
	letters := Legend(g, cm)
	width := len(fmt.Sprint(max(g.RowCount()-1, 0)))

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", width+1))
	for c := 0; c < g.ColumnCount(); c++ {
		fmt.Fprintf(&b, "%d", c%10)
	}
	b.WriteByte('\n')
	for r := 0; r < g.RowCount(); r++ {
		fmt.Fprintf(&b, "%*d ", width, r)
		for c := 0; c < g.ColumnCount(); c++ {
			ch := Empty
			if t, ok := cm.Get(grid.Cell{Col: c, Row: r}); ok {
				ch = letters[t]
			}
			b.WriteRune(ch)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
