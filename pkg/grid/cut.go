package grid

import "fmt"

// Direction names a directional cut of an old span relative to a new one.
type Direction int

const (
	// CutTop clears the old span's rows from its top down to the new span's
	// bottom row.
	CutTop Direction = iota
	// CutBottom clears the old span's rows from the new span's top row down
	// to its bottom.
	CutBottom
	// CutLeft clears the old span's columns from its left edge to the new
	// span's right column.
	CutLeft
	// CutRight clears the old span's columns from the new span's left column
	// to its right edge.
	CutRight
)

// String returns "top", "bottom", "left" or "right".
func (d Direction) String() string {
	switch d {
	case CutTop:
		return "top"
	case CutBottom:
		return "bottom"
	case CutLeft:
		return "left"
	case CutRight:
		return "right"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Slab returns the part of oldSpan that the cut d removes with respect to
// newSpan. Whatever remains of oldSpan afterwards is rectangular.
func (d Direction) Slab(newSpan, oldSpan Span) Span {
	s := oldSpan
	switch d {
	case CutTop:
		s.MaxRow = newSpan.MaxRow
	case CutBottom:
		s.MinRow = newSpan.MinRow
	case CutLeft:
		s.MaxCol = newSpan.MaxCol
	case CutRight:
		s.MinCol = newSpan.MinCol
	}
	return s
}

// placement classifies the new span's range on one axis against the old
// span's range on the same axis.
type placement int

const (
	// inside: the new range starts and ends strictly inside the old one.
	inside placement = iota
	// covering: the new range starts at or before and ends at or after the
	// old one.
	covering
	// leading: the new range starts at or before the old one and ends inside.
	leading
	// trailing: the new range starts inside and ends at or after the old one.
	trailing
	// apart: the ranges do not overlap.
	apart
)

func classify(newMin, newMax, oldMin, oldMax int) placement {
	if newMax < oldMin || oldMax < newMin {
		return apart
	}
	startsOut := newMin <= oldMin
	endsOut := oldMax <= newMax
	switch {
	case startsOut && endsOut:
		return covering
	case startsOut:
		return leading
	case endsOut:
		return trailing
	default:
		return inside
	}
}

// candidates lists, per (vertical, horizontal) placement, the cut directions
// that leave a rectangular remainder. An axis that crosses an edge of the old
// span determines the cut on its own; an axis that lies inside only
// contributes when the other axis does not cross an edge. Both axes covering
// means the whole old span goes and is handled before the table is consulted.
// Order within an entry is the tie-break order.
var candidates = map[[2]placement][]Direction{
	{inside, covering}:   {CutTop, CutBottom},
	{inside, leading}:    {CutLeft},
	{covering, leading}:  {CutLeft},
	{inside, trailing}:   {CutRight},
	{covering, trailing}: {CutRight},
	{covering, inside}:   {CutLeft, CutRight},
	{leading, inside}:    {CutTop},
	{leading, covering}:  {CutTop},
	{trailing, inside}:   {CutBottom},
	{trailing, covering}: {CutBottom},
	{leading, leading}:   {CutTop, CutLeft},
	{leading, trailing}:  {CutTop, CutRight},
	{trailing, trailing}: {CutBottom, CutRight},
	{trailing, leading}:  {CutBottom, CutLeft},
}

var allDirections = []Direction{CutTop, CutBottom, CutLeft, CutRight}

// Cut returns the cells of oldSpan that have to be cleared so that newSpan
// can take a different tag while oldSpan's remaining cells still form a single
// rectangle.
//
// If newSpan contains oldSpan, all of oldSpan is returned. If oldSpan contains
// newSpan, the cheapest of the four directional cuts is returned. Otherwise
// the axis placement of newSpan selects one or two directional cuts, and the
// cheapest of those is returned. Cost is the number of cleared cells; ties go
// to the first candidate in top, bottom, left, right order.
//
// Cut returns an error wrapping [ErrInternalInvariant] if the spans do not
// overlap, since no cut exists for that configuration.
func Cut(newSpan, oldSpan Span) (Span, error) {
	if newSpan.ContainsSpan(oldSpan) {
		return oldSpan, nil
	}
	if oldSpan.ContainsSpan(newSpan) {
		return cheapest(newSpan, oldSpan, allDirections), nil
	}

	v := classify(newSpan.MinRow, newSpan.MaxRow, oldSpan.MinRow, oldSpan.MaxRow)
	h := classify(newSpan.MinCol, newSpan.MaxCol, oldSpan.MinCol, oldSpan.MaxCol)
	dirs, ok := candidates[[2]placement{v, h}]
	if !ok {
		return Span{}, fmt.Errorf("cut %s against %s: %w", newSpan, oldSpan, ErrInternalInvariant)
	}
	return cheapest(newSpan, oldSpan, dirs), nil
}

func cheapest(newSpan, oldSpan Span, dirs []Direction) Span {
	best := dirs[0].Slab(newSpan, oldSpan)
	for _, d := range dirs[1:] {
		if s := d.Slab(newSpan, oldSpan); s.Size() < best.Size() {
			best = s
		}
	}
	return best
}
