// Package tui is the interactive timeline: a phase list beside a lane view,
// with inline rename, date moves, zoom and undo.
package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/phaseline/internal/geometry"
	"github.com/Makepad-fr/phaseline/internal/lanes"
	"github.com/Makepad-fr/phaseline/internal/logging"
	"github.com/Makepad-fr/phaseline/internal/model"
	"github.com/Makepad-fr/phaseline/internal/ui"
)

type mode int

const (
	modeIdle mode = iota
	modeSelected
	modeEditing
	modeMoving
)

func (m mode) String() string {
	switch m {
	case modeSelected:
		return "selected"
	case modeEditing:
		return "editing"
	case modeMoving:
		return "moving"
	default:
		return "idle"
	}
}

// Options configures a session.
type Options struct {
	Title       string
	Path        string // shown in the header and watched when Watch is set
	Watch       bool
	Zoom        float64
	PaddingDays int
	LaneOptions []lanes.Option
}

// edit is a single undo step.
type edit struct {
	index  int
	before model.Item
}

// Model is the bubbletea model of the timeline.
type Model struct {
	opts   Options
	items  []model.Item // input order; list indexes point here
	layout *lanes.Layout

	list list.Model
	ti   textinput.Model
	mode mode
	zoom float64

	moveOrig model.Item
	undo     *edit
	changed  bool

	status    string
	statusErr bool

	width, height int
	watcher       *fileWatcher
}

var (
	renameBind = key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "rename"))
	moveBind   = key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move"))
	zoomBind   = key.NewBinding(key.WithKeys("+", "-"), key.WithHelp("+/-", "zoom"))
	undoBind   = key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo"))
)

// New lays out items and builds the model. Items that fail validation are
// reported here, before any terminal setup.
func New(items []model.Item, opts Options) (Model, error) {
	items = append([]model.Item(nil), items...)
	layout, err := lanes.Assign(items, opts.LaneOptions...)
	if err != nil {
		return Model{}, err
	}
	if opts.Zoom == 0 {
		opts.Zoom = 1
	}
	if opts.Title == "" {
		opts.Title = "Timeline"
	}

	l := list.New(nil, phaseDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(true)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.KeyMap.Quit.SetEnabled(false)
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{renameBind, moveBind, zoomBind, undoBind} }
	l.AdditionalFullHelpKeys = func() []key.Binding { return []key.Binding{renameBind, moveBind, zoomBind, undoBind} }

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Phase name..."
	ti.CharLimit = 200

	m := Model{
		opts:   opts,
		items:  items,
		layout: layout,
		list:   l,
		ti:     ti,
		zoom:   geometry.ClampZoom(opts.Zoom),
		width:  80,
		height: 24,
	}
	m.syncList()
	m.resize()
	return m, nil
}

// Items returns the phases in input order, including any edits.
func (m Model) Items() []model.Item { return append([]model.Item(nil), m.items...) }

// Layout is the current lane assignment.
func (m Model) Layout() *lanes.Layout { return m.layout }

// Changed reports whether a rename, move or undo was committed.
func (m Model) Changed() bool { return m.changed }

func (m Model) Init() tea.Cmd {
	if m.watcher != nil {
		return m.watcher.next()
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil
	case reloadMsg:
		m.reload(msg)
		return m, m.watcher.next()
	case watchErrMsg:
		m.setError("watch: " + msg.err.Error())
		return m, m.watcher.next()
	}

	switch m.mode {
	case modeEditing:
		return m.updateEditing(msg)
	case modeMoving:
		return m.updateMoving(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			if m.mode == modeSelected {
				m.mode = modeIdle
				return m, nil
			}
			return m, tea.Quit
		case "up", "down", "k", "j":
			if len(m.items) == 0 {
				return m, nil
			}
			if m.mode == modeIdle {
				// the first arrow press selects the phase under the cursor
				m.mode = modeSelected
				return m, nil
			}
		case "enter", "e":
			if i, ok := m.current(); ok {
				m.mode = modeEditing
				m.ti.SetValue(m.items[i].Name)
				m.ti.CursorEnd()
				m.status = ""
				cmd := m.ti.Focus()
				return m, cmd
			}
			return m, nil
		case "m":
			if i, ok := m.current(); ok {
				m.mode = modeMoving
				m.moveOrig = m.items[i]
				m.setStatus("moving #%d: ←/→ shift, [/] end date, enter to keep, esc to revert", m.items[i].ID)
			}
			return m, nil
		case "+", "=":
			m.zoom = geometry.ZoomIn(m.zoom)
			return m, nil
		case "-":
			m.zoom = geometry.ZoomOut(m.zoom)
			return m, nil
		case "u":
			m.undoLast()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateEditing(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			name := strings.TrimSpace(m.ti.Value())
			if name == "" {
				m.setError("name cannot be empty")
				return m, nil
			}
			i := m.list.Index()
			if name != m.items[i].Name {
				m.undo = &edit{index: i, before: m.items[i]}
				renamed := m.items[i]
				renamed.Name = name
				m.replace(i, renamed)
				m.changed = true
				logging.Logger.Debug("renamed phase", "id", renamed.ID, "name", name)
			}
			m.stopEditing()
			return m, nil
		case "esc":
			m.stopEditing()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *Model) stopEditing() {
	m.ti.SetValue("")
	m.ti.Blur()
	m.mode = modeSelected
	if m.statusErr {
		m.status, m.statusErr = "", false
	}
}

func (m Model) updateMoving(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	i := m.list.Index()
	switch k.String() {
	case "left", "h":
		m.shift(i, -1, -1)
	case "right", "l":
		m.shift(i, 1, 1)
	case "[":
		m.shift(i, 0, -1)
	case "]":
		m.shift(i, 0, 1)
	case "enter":
		if m.items[i] != m.moveOrig {
			m.undo = &edit{index: i, before: m.moveOrig}
			m.changed = true
			logging.Logger.Debug("moved phase", "id", m.items[i].ID,
				"start", m.items[i].StartDate, "end", m.items[i].EndDate, "lanes", m.layout.Lanes)
		}
		m.mode = modeSelected
		m.status = ""
	case "esc":
		m.mode = modeSelected
		m.status = ""
		if m.items[i] != m.moveOrig {
			m.items[i] = m.moveOrig
			if err := m.relayout(); err != nil {
				m.setError(err.Error())
			}
		}
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

// shift moves the start and end of item i by whole days and re-runs the
// lane assignment. Steps that would put the start after the end are
// rejected.
func (m *Model) shift(i, startDays, endDays int) {
	start, end, err := lanes.Bounds(m.items[i])
	if err != nil {
		m.setError(err.Error())
		return
	}
	start, end = start.AddDays(startDays), end.AddDays(endDays)
	if start.After(end) {
		m.setError("start date would be after end date")
		return
	}
	prev := m.items[i]
	m.items[i].StartDate, m.items[i].EndDate = start.String(), end.String()
	if err := m.relayout(); err != nil {
		m.items[i] = prev
		m.setError(err.Error())
		return
	}
	m.setStatus("#%d %s → %s, lane %d", m.items[i].ID, m.items[i].StartDate, m.items[i].EndDate, m.laneOf(i))
}

// replace swaps item i in place. Names do not affect lanes, so only a date
// change re-runs the assignment.
func (m *Model) replace(i int, it model.Item) {
	prev := m.items[i]
	m.items[i] = it
	if prev.StartDate != it.StartDate || prev.EndDate != it.EndDate {
		if err := m.relayout(); err != nil {
			m.items[i] = prev
			m.setError(err.Error())
		}
		return
	}
	l := *m.layout
	l.Items = slices.Clone(l.Items)
	for j, li := range l.Items {
		if li.Item == prev {
			l.Items[j].Item = it
			break
		}
	}
	m.layout = &l
	m.syncList()
}

func (m *Model) undoLast() {
	if m.undo == nil || m.undo.index >= len(m.items) {
		m.setStatus("nothing to undo")
		return
	}
	u := m.undo
	m.undo = nil
	m.replace(u.index, u.before)
	m.list.Select(u.index)
	m.changed = true
	m.setStatus("undone")
}

func (m *Model) relayout() error {
	l, err := lanes.Assign(m.items, m.opts.LaneOptions...)
	if err != nil {
		return err
	}
	m.layout = l
	m.syncList()
	return nil
}

func (m *Model) reload(msg reloadMsg) {
	if msg.err != nil {
		m.setError("reload: " + msg.err.Error())
		return
	}
	l, err := lanes.Assign(msg.items, m.opts.LaneOptions...)
	if err != nil {
		m.setError("reload: " + err.Error())
		return
	}
	m.items = append([]model.Item(nil), msg.items...)
	m.layout = l
	m.undo = nil
	m.changed = false
	if m.mode == modeEditing || m.mode == modeMoving {
		m.ti.Blur()
		m.mode = modeSelected
	}
	m.syncList()
	m.setStatus("reloaded %d phases", len(m.items))
	logging.Logger.Info("reloaded timeline", "path", m.opts.Path, "items", len(m.items), "lanes", l.Lanes)
}

// syncList rebuilds the list rows from the current layout, keeping the
// cursor.
func (m *Model) syncList() {
	idx := m.list.Index()
	laned := m.layout.InInputOrder(m.items)
	rows := make([]list.Item, 0, len(laned))
	for _, it := range laned {
		rows = append(rows, phaseItem{it})
	}
	m.list.SetItems(rows)
	if len(rows) > 0 {
		m.list.Select(min(idx, len(rows)-1))
	} else if m.mode != modeIdle {
		m.mode = modeIdle
	}
}

func (m *Model) current() (int, bool) {
	i := m.list.Index()
	return i, i >= 0 && i < len(m.items)
}

func (m Model) laneOf(i int) int {
	if i < len(m.list.Items()) {
		if it, ok := m.list.Items()[i].(phaseItem); ok {
			return it.Lane
		}
	}
	return -1
}

func (m *Model) setStatus(format string, args ...any) {
	m.status, m.statusErr = fmt.Sprintf(format, args...), false
}

func (m *Model) setError(msg string) {
	m.status, m.statusErr = msg, true
}

func (m Model) listWidth() int { return min(44, max(m.width/3, 24)) }

func (m *Model) resize() {
	h := m.height - 6
	if m.mode == modeEditing {
		h -= 3
	}
	m.list.SetSize(m.listWidth(), max(h, 3))
}

func (m Model) View() string {
	m.resize()
	m.list.SetDelegate(phaseDelegate{active: m.mode != modeIdle, moving: m.mode == modeMoving})

	header := fmt.Sprintf("%s   %s %d  %s %d  %s %.1fx",
		titleStyle.Render(m.opts.Title),
		accentStyle.Render("phases"), len(m.items),
		accentStyle.Render("lanes"), m.layout.Lanes,
		accentStyle.Render("zoom"), m.zoom,
	)
	if m.opts.Watch {
		header += "  " + mutedStyle.Render("watching "+m.opts.Path)
	}

	laneWidth := max(m.width-m.listWidth()-8, 10)
	lanesView := strings.Join(m.laneLines(laneWidth), "\n")
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.list.View(),
		"  ",
		lipgloss.NewStyle().MaxWidth(laneWidth).Render(lanesView),
	)

	content := header + "\n" + body
	if m.mode == modeEditing {
		bar := paneStyle
		title := "Rename phase"
		if m.statusErr {
			title += " " + errorStyle.Render(m.status)
		}
		content += "\n" + bar.Render(title+"\n"+m.ti.View())
	}
	if m.status != "" && (m.mode != modeEditing || !m.statusErr) {
		style := successStyle
		if m.statusErr {
			style = errorStyle
		} else if m.mode == modeMoving {
			style = movingStyle
		}
		content += "\n" + style.Render(m.status)
	}
	return paneStyle.Render(content)
}

// laneLines renders the lane view. Zoomed in past the pane width it shows
// the visible dates above the chart and scrolls only when the selected
// phase's start would be off screen.
func (m Model) laneLines(width int) []string {
	full := geometry.NewRange(m.layout, m.opts.PaddingDays)
	if full.Days == 0 {
		return []string{mutedStyle.Render("no phases")}
	}
	cpd := ui.CellsPerDay(full, width) * m.zoom
	r := full
	var caption []string
	if visible := int(float64(width) / cpd); visible < full.Days {
		r.Days = max(visible, 1)
		if i, ok := m.current(); ok && m.mode != modeIdle {
			if start, _, err := lanes.Bounds(m.items[i]); err == nil && !r.Contains(start) {
				off := lanes.DaysBetween(full.Start, start) - 2
				off = max(0, min(off, full.Days-r.Days))
				r.Start = full.Start.AddDays(off)
			}
		}
		caption = []string{mutedStyle.Render(fmt.Sprintf("%s → %s", r.Start, r.End()))}
	}
	lines, err := ui.Gantt(m.layout, r, cpd)
	if err != nil {
		return []string{errorStyle.Render(err.Error())}
	}
	return append(caption, lines...)
}
