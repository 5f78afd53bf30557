package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/phaseline/internal/geometry"
	"github.com/Makepad-fr/phaseline/internal/lanes"
	"github.com/Makepad-fr/phaseline/internal/model"
)

// CellsPerDay fits a range into width terminal columns, at most 3 cells a
// day and never below the minimum zoom.
func CellsPerDay(r geometry.Range, width int) float64 {
	if r.Days <= 0 || width <= 0 {
		return 1
	}
	return math.Min(math.Max(float64(width)/float64(r.Days), geometry.MinZoom), 3)
}

// Gantt renders a date axis and one bar row per lane.
func Gantt(l *lanes.Layout, r geometry.Range, cellsPerDay float64) ([]string, error) {
	t := Current()
	scale := geometry.Scale{DayWidth: cellsPerDay, LaneHeight: 1}
	rows, cols, err := geometry.Rasterize(l, r, scale)
	if err != nil {
		return nil, err
	}

	gutter := len(fmt.Sprintf("L%d", max(l.Lanes-1, 0))) + 1
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, strings.Repeat(" ", gutter)+t.Muted.Sprint(Axis(r, scale, cols)))

	for lane, segs := range rows {
		var b strings.Builder
		b.WriteString(t.Muted.Sprint(fmt.Sprintf("%-*s", gutter, fmt.Sprintf("L%d", lane))))
		for _, seg := range segs {
			if seg.Index < 0 {
				b.WriteString(strings.Repeat(t.Gap, seg.Width))
				continue
			}
			it := l.Items[seg.Index]
			b.WriteString(t.LaneColor(lane).Sprint(FitLabel(fmt.Sprintf("#%d %s", it.ID, it.Name), seg.Width, t.Bar)))
		}
		lines = append(lines, b.String())
	}
	return lines, nil
}

// Axis writes MM-DD labels at every tick that fits, each marked with the
// theme's tick glyph.
func Axis(r geometry.Range, s geometry.Scale, cols int) string {
	const label = 6 // tick + "MM-DD"
	step := max(1, int(math.Ceil(float64(label+1)/s.DayWidth)))
	line := []rune(strings.Repeat(" ", cols))
	tick := []rune(Current().Tick)[0]
	for d := 0; d < r.Days; d += step {
		col := int(math.Round(float64(d) * s.DayWidth))
		if col+label > cols {
			break
		}
		line[col] = tick
		copy(line[col+1:], []rune(r.Start.AddDays(d).Format("01-02")))
	}
	return string(line)
}

// FitLabel truncates or pads a label to exactly width cells, padding with
// fill.
func FitLabel(label string, width int, fill string) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(label) > width {
		runes := []rune(label)
		if width == 1 {
			return fill
		}
		for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
			runes = runes[:len(runes)-1]
		}
		return string(runes) + "…"
	}
	return label + strings.Repeat(fill, width-lipgloss.Width(label))
}

// PhaseLines lists laned items one per line, like a legend.
func PhaseLines(items []model.LanedItem) []string {
	t := Current()
	if len(items) == 0 {
		return []string{t.Muted.Sprint("no phases")}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		name := it.Name
		if r := []rune(name); len(r) > 60 {
			name = string(r[:57]) + "..."
		}
		out = append(out, fmt.Sprintf("%s %s %s %s",
			t.Muted.Sprint(fmt.Sprintf("%3d.", it.ID)),
			t.LaneColor(it.Lane).Sprint(fmt.Sprintf("L%-2d", it.Lane)),
			name,
			t.Muted.Sprint(it.StartDate+" → "+it.EndDate),
		))
	}
	return out
}
