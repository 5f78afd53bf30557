// Package geometry maps laid-out phases onto a pixel or terminal-cell grid.
package geometry

import (
	"math"

	"github.com/Makepad-fr/phaseline/internal/lanes"
	"github.com/Makepad-fr/phaseline/internal/model"
)

const (
	MinZoom  = 0.2
	MaxZoom  = 5.0
	ZoomStep = 1.5

	// DefaultPaddingDays is added before the first and after the last day.
	DefaultPaddingDays = 2
)

// Scale holds the size of one day column and one lane row.
type Scale struct {
	DayWidth     float64
	LaneHeight   float64
	HeaderHeight float64
}

// DefaultScale is the pixel scale of the web timeline at zoom 1.
func DefaultScale() Scale {
	return Scale{DayWidth: 40, LaneHeight: 120, HeaderHeight: 60}
}

// Zoomed scales the day width only; lanes keep their height.
func (s Scale) Zoomed(zoom float64) Scale {
	s.DayWidth *= ClampZoom(zoom)
	return s
}

// Range is the visible run of days, Start inclusive.
type Range struct {
	Start lanes.Date
	Days  int
}

// NewRange pads a layout's date span on both sides.
func NewRange(l *lanes.Layout, padding int) Range {
	if len(l.Items) == 0 {
		return Range{}
	}
	start := l.First.AddDays(-padding)
	end := l.Last.AddDays(padding)
	return Range{Start: start, Days: lanes.DaysBetween(start, end) + 1}
}

// End is the last visible day.
func (r Range) End() lanes.Date { return r.Start.AddDays(r.Days - 1) }

// Contains reports whether d is a visible day.
func (r Range) Contains(d lanes.Date) bool {
	off := lanes.DaysBetween(r.Start, d)
	return off >= 0 && off < r.Days
}

// Rect is an item's box in scale units.
type Rect struct {
	Left, Top, Width, Height float64
}

func (r Rect) Right() float64 { return r.Left + r.Width }

// Place computes the box of a laned item:
//
//	left  = daysBetween(rangeStart, start) * dayWidth
//	width = (daysBetween(start, end) + 1) * dayWidth
//	top   = headerHeight + lane * laneHeight
func (s Scale) Place(r Range, it model.LanedItem) (Rect, error) {
	start, end, err := lanes.Bounds(it.Item)
	if err != nil {
		return Rect{}, err
	}
	return Rect{
		Left:   float64(lanes.DaysBetween(r.Start, start)) * s.DayWidth,
		Top:    s.HeaderHeight + float64(it.Lane)*s.LaneHeight,
		Width:  float64(lanes.DaysBetween(start, end)+1) * s.DayWidth,
		Height: s.LaneHeight,
	}, nil
}

// Size is the full canvas size for a range and lane count.
func (s Scale) Size(r Range, laneCount int) (width, height float64) {
	return float64(r.Days) * s.DayWidth, s.HeaderHeight + float64(laneCount)*s.LaneHeight
}

// X is the left edge of day d.
func (s Scale) X(r Range, d lanes.Date) float64 {
	return float64(lanes.DaysBetween(r.Start, d)) * s.DayWidth
}

func ClampZoom(z float64) float64 {
	return math.Min(math.Max(z, MinZoom), MaxZoom)
}

func ZoomIn(z float64) float64  { return ClampZoom(z * ZoomStep) }
func ZoomOut(z float64) float64 { return ClampZoom(z / ZoomStep) }
