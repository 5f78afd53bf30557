package geometry

import (
	"math"

	"github.com/Makepad-fr/phaseline/internal/lanes"
)

// Segment is a run of cells on one lane row. Index points into
// Layout.Items, or is -1 for empty space.
type Segment struct {
	Start, Width int
	Index        int
}

// Rasterize snaps a layout onto whole cells, one row per lane. The scale's
// DayWidth is in cells per day and may be fractional; items that collapse
// into an occupied cell are pushed right so every item keeps at least one
// cell while there is room. Items that end before r.Start are skipped.
func Rasterize(l *lanes.Layout, r Range, s Scale) ([][]Segment, int, error) {
	cols := int(math.Ceil(float64(r.Days) * s.DayWidth))
	rows := make([][]Segment, l.Lanes)
	filled := make([]int, l.Lanes)

	for i, it := range l.Items {
		rect, err := s.Place(r, it)
		if err != nil {
			return nil, 0, err
		}
		from := int(math.Round(rect.Left))
		to := int(math.Round(rect.Right()))
		if to <= 0 {
			// ends before the visible range
			continue
		}
		from = max(from, filled[it.Lane])
		to = max(to, from+1)
		to = min(to, cols)
		if from >= to {
			continue
		}
		if gap := from - filled[it.Lane]; gap > 0 {
			rows[it.Lane] = append(rows[it.Lane], Segment{Start: filled[it.Lane], Width: gap, Index: -1})
		}
		rows[it.Lane] = append(rows[it.Lane], Segment{Start: from, Width: to - from, Index: i})
		filled[it.Lane] = to
	}
	for lane := range rows {
		if gap := cols - filled[lane]; gap > 0 {
			rows[lane] = append(rows[lane], Segment{Start: filled[lane], Width: gap, Index: -1})
		}
	}
	return rows, cols, nil
}
