package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Panel draws a framed box using the current theme.
func Panel(w io.Writer, lines []string) {
	t := Current()
	// compute visible width; lipgloss.Width skips ANSI codes and counts
	// wide runes
	maxw := 0
	for _, ln := range lines {
		maxw = max(maxw, lipgloss.Width(ln))
	}
	pad := func(s string) string {
		if vis := lipgloss.Width(s); vis < maxw {
			s += strings.Repeat(" ", maxw-vis)
		}
		return s
	}
	leftPad := " "
	fmt.Fprintln(w, t.CornerTL+strings.Repeat(t.H, maxw+2)+t.CornerTR)
	for _, ln := range lines {
		fmt.Fprintln(w, t.V+leftPad+pad(ln)+" "+t.V)
	}
	fmt.Fprintln(w, t.CornerBL+strings.Repeat(t.H, maxw+2)+t.CornerBR)
}
