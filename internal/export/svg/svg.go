// Package svg renders a laid-out timeline as a standalone SVG document.
package svg

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/Makepad-fr/phaseline/internal/geometry"
	"github.com/Makepad-fr/phaseline/internal/lanes"
)

// Options controls the document; the zero value is usable.
type Options struct {
	Scale       geometry.Scale // pixel scale before zoom; zero means DefaultScale
	Zoom        float64        // zero means 1
	PaddingDays int
	Title       string
	FontFamily  string
}

var palette = []string{"#4285f4", "#34a853", "#a142f4", "#00acc1", "#f4b400", "#ea4335"}

const (
	barInset   = 5 // vertical padding inside a lane
	textIndent = 6
)

// Render writes the SVG for l to w.
func Render(w io.Writer, l *lanes.Layout, opts Options) error {
	_, err := io.WriteString(w, Document(l, opts))
	return err
}

// Document builds the SVG text. An empty layout yields a header-only canvas.
func Document(l *lanes.Layout, opts Options) string {
	scale := opts.Scale
	if scale.DayWidth <= 0 {
		scale = geometry.DefaultScale()
	}
	zoom := opts.Zoom
	if zoom == 0 {
		zoom = 1
	}
	scale = scale.Zoomed(zoom)
	font := opts.FontFamily
	if font == "" {
		font = "Arial, sans-serif"
	}

	r := geometry.NewRange(l, opts.PaddingDays)
	width, height := scale.Size(r, l.Lanes)
	width = max(width, 1)

	var svg strings.Builder
	fmt.Fprintf(&svg, `<?xml version="1.0" encoding="UTF-8"?>
<svg width="%s" height="%s" viewBox="0 0 %s %s" xmlns="http://www.w3.org/2000/svg">
<defs>
<style>
.title { font-family: %s; font-size: 16px; font-weight: bold; fill: #333333; }
.day { font-family: %s; font-size: 10px; fill: #666666; }
.phase { font-family: %s; font-size: 12px; fill: #ffffff; }
</style>
</defs>
<rect width="100%%" height="100%%" fill="#ffffff"/>
`, num(width), num(height), num(width), num(height), font, font, font)

	if opts.Title != "" {
		fmt.Fprintf(&svg, "<text class=\"title\" x=\"%d\" y=\"20\">%s</text>\n", textIndent, escapeXML(opts.Title))
	}
	writeDayGrid(&svg, r, scale, height)

	for i, it := range l.Items {
		rect, err := scale.Place(r, it)
		if err != nil {
			// items in a Layout were validated by Assign
			continue
		}
		fill := palette[it.Lane%len(palette)]
		fmt.Fprintf(&svg, "<g id=\"phase-%d\">\n", it.ID)
		fmt.Fprintf(&svg, "<title>%s (%s – %s)</title>\n", escapeXML(it.Name), it.StartDate, it.EndDate)
		fmt.Fprintf(&svg, "<rect x=\"%s\" y=\"%s\" width=\"%s\" height=\"%s\" rx=\"6\" fill=\"%s\" data-lane=\"%d\" data-index=\"%d\"/>\n",
			num(rect.Left), num(rect.Top+barInset), num(rect.Width), num(rect.Height-2*barInset), fill, it.Lane, i)
		fmt.Fprintf(&svg, "<text class=\"phase\" x=\"%s\" y=\"%s\">%s</text>\n",
			num(rect.Left+textIndent), num(rect.Top+rect.Height/2+4), escapeXML(it.Name))
		svg.WriteString("</g>\n")
	}

	svg.WriteString("</svg>\n")
	return svg.String()
}

// writeDayGrid draws a vertical rule per day and labels weeks and the first
// day of each month in the header.
func writeDayGrid(svg *strings.Builder, r geometry.Range, s geometry.Scale, height float64) {
	for d := 0; d < r.Days; d++ {
		day := r.Start.AddDays(d)
		x := s.X(r, day)
		fmt.Fprintf(svg, "<line x1=\"%s\" y1=\"%s\" x2=\"%s\" y2=\"%s\" stroke=\"#eeeeee\"/>\n",
			num(x), num(s.HeaderHeight), num(x), num(height))
		t := day.Time()
		if t.Day() == 1 || d == 0 || (t.Weekday() == time.Monday && s.DayWidth >= 8) {
			fmt.Fprintf(svg, "<text class=\"day\" x=\"%s\" y=\"%s\">%s</text>\n",
				num(x+2), num(s.HeaderHeight-8), day.Format("Jan 2"))
		}
	}
}

// num formats a coordinate without trailing zeros.
func num(f float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", f), "0"), ".")
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}

// OutputFilename returns out when set, otherwise the input file's base name
// with an .svg extension ("plan.json" becomes "plan.svg").
func OutputFilename(input, out string) string {
	if out != "" {
		return out
	}
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".svg"
}
