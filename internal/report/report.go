// Package report summarises a layout as Markdown and renders it for the
// terminal.
package report

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"

	"github.com/Makepad-fr/phaseline/internal/lanes"
)

// Markdown builds the report text. Title defaults to "Timeline"; peak is the
// most phases open on one day, as counted by lanes.Peak.
func Markdown(l *lanes.Layout, title string, peak int) string {
	if title == "" {
		title = "Timeline"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)

	if len(l.Items) == 0 {
		b.WriteString("_No phases._\n")
		return b.String()
	}

	b.WriteString("| Phases | Lanes | Peak | From | To | Days |\n")
	b.WriteString("|---:|---:|---:|---|---|---:|\n")
	fmt.Fprintf(&b, "| %d | %d | %d | %s | %s | %d |\n\n",
		len(l.Items), l.Lanes, peak, l.First, l.Last, l.Days())

	for lane := 0; lane < l.Lanes; lane++ {
		items := l.Lane(lane)
		busy := 0
		for _, it := range items {
			s, e, err := lanes.Bounds(it.Item)
			if err == nil {
				busy += lanes.DaysBetween(s, e) + 1
			}
		}
		fmt.Fprintf(&b, "## Lane %d\n\n", lane)
		fmt.Fprintf(&b, "%d phases, %d busy days.\n\n", len(items), busy)
		for _, it := range items {
			fmt.Fprintf(&b, "- **%s** (#%d) `%s` → `%s`\n", escape(it.Name), it.ID, it.StartDate, it.EndDate)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// escape keeps phase names from opening Markdown emphasis or links.
func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`)
	return r.Replace(s)
}

var rendererCache sync.Map // map[int]*glamour.TermRenderer

func getRenderer(width int) (*glamour.TermRenderer, error) {
	if cached, ok := rendererCache.Load(width); ok {
		return cached.(*glamour.TermRenderer), nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	rendererCache.Store(width, r)
	return r, nil
}

// Render styles md for a terminal of the given width.
func Render(md string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	r, err := getRenderer(width)
	if err != nil {
		return "", fmt.Errorf("glamour renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return out, nil
}
