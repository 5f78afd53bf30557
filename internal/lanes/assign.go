// Package lanes packs dated items into the fewest parallel lanes.
//
// Items are sorted by start date (stable, so simultaneous starts keep their
// input order) and placed first-fit: each item takes the lowest lane whose
// watermark, the previous item's end plus a buffer, is not after its start.
// With the default one-day buffer an item ending on day D and one starting
// on D+1 share a lane.
package lanes

import (
	"container/heap"
	"fmt"
	"slices"

	"github.com/Makepad-fr/phaseline/internal/model"
)

// DefaultBufferDays is the gap added after an item's end before its lane
// accepts another item.
const DefaultBufferDays = 1

// Layout is the result of one Assign call.
type Layout struct {
	// Items are in processing order: by start date, ties in input order.
	Items []model.LanedItem
	// Lanes is the number of lanes opened.
	Lanes int
	// First and Last bound all item dates; zero for an empty layout.
	First, Last Date
}

type options struct {
	buffer    int
	strictIDs bool
}

// Option tunes Assign.
type Option func(*options)

// WithBuffer sets the number of days a lane stays closed after an item ends.
func WithBuffer(days int) Option {
	return func(o *options) { o.buffer = days }
}

// WithStrictIDs rejects inputs where two items share an id.
func WithStrictIDs() Option {
	return func(o *options) { o.strictIDs = true }
}

func newOptions(opts []Option) (options, error) {
	o := options{buffer: DefaultBufferDays}
	for _, opt := range opts {
		opt(&o)
	}
	if o.buffer < 0 {
		return o, fmt.Errorf("%w: %d", ErrInvalidBuffer, o.buffer)
	}
	return o, nil
}

type span struct {
	item       model.Item
	start, end Date
}

// Bounds parses and checks an item's dates.
func Bounds(it model.Item) (start, end Date, err error) {
	start, err = ParseDate(it.StartDate)
	if err != nil {
		return Date{}, Date{}, &ItemError{ID: it.ID, Field: "startDate", Value: it.StartDate, Err: ErrInvalidDate}
	}
	end, err = ParseDate(it.EndDate)
	if err != nil {
		return Date{}, Date{}, &ItemError{ID: it.ID, Field: "endDate", Value: it.EndDate, Err: ErrInvalidDate}
	}
	if start.After(end) {
		return Date{}, Date{}, &ItemError{ID: it.ID, Field: "range", Value: it.StartDate + ".." + it.EndDate, Err: ErrInvalidRange}
	}
	return start, end, nil
}

// resolve validates every item before any lane is assigned, so a failing
// call never yields a partial layout.
func resolve(items []model.Item, o options) ([]span, error) {
	var seen map[int]struct{}
	if o.strictIDs {
		seen = make(map[int]struct{}, len(items))
	}
	out := make([]span, 0, len(items))
	for _, it := range items {
		if seen != nil {
			if _, dup := seen[it.ID]; dup {
				return nil, &ItemError{ID: it.ID, Field: "id", Err: ErrDuplicateID}
			}
			seen[it.ID] = struct{}{}
		}
		start, end, err := Bounds(it)
		if err != nil {
			return nil, err
		}
		out = append(out, span{item: it, start: start, end: end})
	}
	slices.SortStableFunc(out, func(a, b span) int { return a.start.Compare(b.start) })
	return out, nil
}

// Assign places every item on a lane. It is pure: the watermarks live only
// for the duration of the call, so concurrent calls are safe and repeated
// calls on the same input agree.
func Assign(items []model.Item, opts ...Option) (*Layout, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	spans, err := resolve(items, o)
	if err != nil {
		return nil, err
	}

	layout := &Layout{Items: make([]model.LanedItem, 0, len(spans))}
	var watermarks []Date
	for _, s := range spans {
		lane := firstFit(watermarks, s.start)
		free := s.end.AddDays(o.buffer)
		if lane == len(watermarks) {
			watermarks = append(watermarks, free)
		} else {
			watermarks[lane] = free
		}
		switch {
		case len(layout.Items) == 0:
			layout.First, layout.Last = s.start, s.end
		case s.end.After(layout.Last):
			// spans are sorted by start, so First never moves after the first one
			layout.Last = s.end
		}
		layout.Items = append(layout.Items, model.LanedItem{Item: s.item, Lane: lane})
	}
	layout.Lanes = len(watermarks)
	return layout, nil
}

// firstFit returns the lowest lane free at start, or len(watermarks) when
// a new lane is needed.
func firstFit(watermarks []Date, start Date) int {
	for i, free := range watermarks {
		if !free.After(start) {
			return i
		}
	}
	return len(watermarks)
}

// ByID indexes the layout by item id. With duplicate ids the later item in
// processing order wins.
func (l *Layout) ByID() map[int]model.LanedItem {
	m := make(map[int]model.LanedItem, len(l.Items))
	for _, it := range l.Items {
		m[it.ID] = it
	}
	return m
}

// InInputOrder returns the laned items in the order of items, which must be
// the slice the layout was built from.
func (l *Layout) InInputOrder(items []model.Item) []model.LanedItem {
	queue := make(map[int][]model.LanedItem, len(l.Items))
	for _, it := range l.Items {
		queue[it.ID] = append(queue[it.ID], it)
	}
	out := make([]model.LanedItem, 0, len(items))
	for _, it := range items {
		q := queue[it.ID]
		if len(q) == 0 {
			continue
		}
		// duplicate ids: prefer the entry carrying the same item
		idx := 0
		for i, c := range q {
			if c.Item == it {
				idx = i
				break
			}
		}
		out = append(out, q[idx])
		queue[it.ID] = append(q[:idx:idx], q[idx+1:]...)
	}
	return out
}

// Lane returns the items of lane i in processing order.
func (l *Layout) Lane(i int) []model.LanedItem {
	var out []model.LanedItem
	for _, it := range l.Items {
		if it.Lane == i {
			out = append(out, it)
		}
	}
	return out
}

// Days is the inclusive number of days from First to Last.
func (l *Layout) Days() int {
	if len(l.Items) == 0 {
		return 0
	}
	return DaysBetween(l.First, l.Last) + 1
}

// Peak returns the largest number of items open at once under the same
// buffered overlap rule Assign uses. First-fit over start-sorted intervals
// is optimal, so Peak equals the lane count of a successful Assign.
func Peak(items []model.Item, opts ...Option) (int, error) {
	o, err := newOptions(opts)
	if err != nil {
		return 0, err
	}
	spans, err := resolve(items, o)
	if err != nil {
		return 0, err
	}
	open := &dateHeap{}
	peak := 0
	for _, s := range spans {
		for open.Len() > 0 && !(*open)[0].After(s.start) {
			heap.Pop(open)
		}
		heap.Push(open, s.end.AddDays(o.buffer))
		peak = max(peak, open.Len())
	}
	return peak, nil
}

type dateHeap []Date

func (h dateHeap) Len() int           { return len(h) }
func (h dateHeap) Less(i, j int) bool { return h[i].Before(h[j]) }
func (h dateHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *dateHeap) Push(x any)        { *h = append(*h, x.(Date)) }
func (h *dateHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
