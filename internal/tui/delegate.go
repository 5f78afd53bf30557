package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/phaseline/internal/model"
	"github.com/Makepad-fr/phaseline/internal/ui"
)

// phaseItem adapts a laned phase to bubbles/list.Item.
type phaseItem struct {
	model.LanedItem
}

func (i phaseItem) Title() string       { return fmt.Sprintf("#%d %s", i.ID, i.Name) }
func (i phaseItem) Description() string { return i.StartDate + " → " + i.EndDate }
func (i phaseItem) FilterValue() string { return i.Name }

// phaseDelegate renders one line per phase. The cursor is only drawn
// while a phase is selected.
type phaseDelegate struct {
	active bool
	moving bool
}

func (d phaseDelegate) Height() int                               { return 1 }
func (d phaseDelegate) Spacing() int                              { return 0 }
func (d phaseDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d phaseDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(phaseItem)
	if !ok {
		return
	}
	width := max(m.Width()-2, 1)
	lane := mutedStyle.Render(fmt.Sprintf("L%-2d", it.Lane))
	dates := mutedStyle.Render(it.StartDate[min(5, len(it.StartDate)):] + "→" + it.EndDate[min(5, len(it.EndDate)):])
	title := ui.FitLabel(it.Title(), max(width-16, 1), " ")

	prefix := "  "
	if d.active && index == m.Index() {
		prefix = selectedStyle.Render("> ")
		if d.moving {
			prefix = movingStyle.Render("↔ ")
		}
	}
	fmt.Fprint(w, prefix+lane+" "+title+" "+dates)
}
