package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/phaseline/internal/model"
)

// Run starts the interactive timeline and returns the phases as they were
// when the user quit, with changed set when any edit was committed.
func Run(items []model.Item, opts Options) ([]model.Item, bool, error) {
	m, err := New(items, opts)
	if err != nil {
		return nil, false, err
	}
	if opts.Watch && opts.Path != "" {
		w, err := watchFile(opts.Path)
		if err != nil {
			return nil, false, fmt.Errorf("watch %s: %w", opts.Path, err)
		}
		defer w.Close()
		m.watcher = w
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return nil, false, err
	}
	fm, ok := final.(Model)
	if !ok {
		return items, false, nil
	}
	return fm.Items(), fm.Changed(), nil
}
