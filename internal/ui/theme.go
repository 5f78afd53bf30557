package ui

import (
	"strings"

	"github.com/fatih/color"
)

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Name                                   string
	Title, Muted, Accent, Success, Error   *color.Color
	Lanes                                  []*color.Color // bar colours, cycled by lane
	Bar, Gap, Tick                         string
	CornerTL, CornerTR, CornerBL, CornerBR string
	H, V                                   string
	SymOK, SymFail                         string
}

var current Theme

func init() { SetTheme("classic") }

// Themes lists the names SetTheme understands.
func Themes() []string { return []string{"classic", "neon", "mono"} }

func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "neon":
		current = Theme{
			Name:  "neon",
			Title: color.New(color.FgHiMagenta, color.Bold),
			Muted: color.New(color.FgHiBlack), Accent: color.New(color.FgHiCyan),
			Success: color.New(color.FgHiGreen), Error: color.New(color.FgHiRed),
			Lanes: []*color.Color{
				color.New(color.FgHiMagenta), color.New(color.FgHiCyan),
				color.New(color.FgHiYellow), color.New(color.FgHiGreen),
			},
			Bar: "▰", Gap: " ", Tick: "┊",
			CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
			H: "─", V: "│",
			SymOK: "✔", SymFail: "✖",
		}
	case "mono":
		SetColorForcing(false, true)
		plain := color.New()
		current = Theme{
			Name:  "mono",
			Title: plain, Muted: plain, Accent: plain, Success: plain, Error: plain,
			Lanes: []*color.Color{plain},
			Bar:   "=", Gap: ".", Tick: "|",
			CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
			H: "-", V: "|",
			SymOK: "ok", SymFail: "error:",
		}
	default: // classic
		current = Theme{
			Name:  "classic",
			Title: color.New(color.Bold),
			Muted: color.New(color.FgHiBlack), Accent: color.New(color.FgBlue),
			Success: color.New(color.FgGreen), Error: color.New(color.FgRed),
			Lanes: []*color.Color{
				color.New(color.FgBlue), color.New(color.FgGreen),
				color.New(color.FgMagenta), color.New(color.FgCyan),
				color.New(color.FgYellow),
			},
			Bar: "█", Gap: " ", Tick: "│",
			CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
			H: "─", V: "│",
			SymOK: "✔", SymFail: "✖",
		}
	}
}

// Expose what renderers need
func Current() Theme { return current }

// LaneColor picks the bar colour for a lane.
func (t Theme) LaneColor(lane int) *color.Color {
	return t.Lanes[lane%len(t.Lanes)]
}
