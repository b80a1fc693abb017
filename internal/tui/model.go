// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package tui is the bubbletea front end of the connection dashboard.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"grimm.is/nets/internal/view"
)

// fetchTimeout bounds a single snapshot fetch.
const fetchTimeout = 10 * time.Second

// TickMsg drives the refresh loop.
type TickMsg time.Time

// RefreshedMsg reports a finished refresh cycle.
type RefreshedMsg struct {
	Err error
}

// Model is the main application state. Connection data lives in the
// controller; Model keeps the last State copy for rendering.
type Model struct {
	Controller *view.Controller
	Interval   time.Duration

	Width  int
	Height int
	State  view.State

	keys       KeyMap
	table      table.Model
	selected   table.Styles
	plain      table.Styles
	filter     textinput.Model
	help       help.Model
	history    []float64
	lastUpdate time.Time
	refreshing bool
}

// NewModel creates a model over controller, refreshing every interval.
func NewModel(controller *view.Controller, interval time.Duration) Model {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "press / to filter"
	ti.CharLimit = 256

	selected, plain := tableStyles()
	m := Model{
		Controller: controller,
		Interval:   interval,
		keys:       DefaultKeyMap(),
		table:      newTable(),
		selected:   selected,
		plain:      plain,
		filter:     ti,
		help:       help.New(),
	}
	m.sync()
	// Init issues the first refresh for an unloaded controller.
	m.refreshing = !m.State.Loaded
	return m
}

// Init starts the tick loop, loading data first if the controller has
// not been refreshed yet.
func (m Model) Init() tea.Cmd {
	if !m.State.Loaded {
		return tea.Batch(m.refresh(), m.tick())
	}
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.Interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// refresh runs one refresh cycle off the UI goroutine. The controller
// serializes it against key commands.
func (m Model) refresh() tea.Cmd {
	controller := m.Controller
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		return RefreshedMsg{Err: controller.Refresh(ctx)}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case TickMsg:
		cmds = append(cmds, m.tick())
		// A slow fetch must not pile up behind the ticker.
		if !m.refreshing {
			m.refreshing = true
			cmds = append(cmds, m.refresh())
		}

	case RefreshedMsg:
		m.refreshing = false

	case tea.KeyMsg:
		if cmd := m.handleKey(msg); cmd != nil {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.table.SetColumns(columnsFor(msg.Width))
		m.table.SetWidth(msg.Width - frameWidth + 2)
		m.help.Width = msg.Width
		m.filter.Width = max(10, msg.Width*2/3-frameWidth-len(m.filter.Prompt))
	}

	cmds = append(cmds, m.sync())
	return m, tea.Batch(cmds...)
}

// handleKey maps a key press onto the controller. It only returns a
// command when the program should quit.
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	mode := m.Controller.Mode()
	if key.Matches(msg, m.keys.ForceQuit) {
		return tea.Quit
	}
	if mode == view.ModeNormal && key.Matches(msg, m.keys.Quit) {
		return tea.Quit
	}

	if cmd := m.keys.Command(mode, msg); cmd != view.CmdNone {
		m.Controller.Dispatch(cmd)
		return nil
	}
	if mode == view.ModeTyping && (msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace) {
		for _, r := range msg.Runes {
			m.Controller.TypeRune(r)
		}
	}
	return nil
}

// sync copies controller state into the widgets.
func (m *Model) sync() tea.Cmd {
	st := m.Controller.State()
	m.State = st

	if st.Loaded && !st.Updated.Equal(m.lastUpdate) {
		m.lastUpdate = st.Updated
		m.history = append(m.history, float64(st.Summary.Total))
		if len(m.history) > historySize {
			m.history = m.history[len(m.history)-historySize:]
		}
	}

	m.table.SetRows(rowsFor(st.Items))
	if st.Cursor == view.NoSelection {
		m.table.SetStyles(m.plain)
		m.table.SetCursor(0)
	} else {
		m.table.SetStyles(m.selected)
		m.table.SetCursor(st.Cursor)
	}

	if m.filter.Value() != st.FilterText {
		m.filter.SetValue(st.FilterText)
	}
	m.filter.CursorEnd()

	var cmd tea.Cmd
	switch {
	case st.Mode == view.ModeTyping && !m.filter.Focused():
		cmd = m.filter.Focus()
	case st.Mode == view.ModeNormal && m.filter.Focused():
		m.filter.Blur()
	}
	m.help.ShowAll = st.ShowHelp
	return cmd
}

// View renders the application
func (m Model) View() string {
	st := m.State

	statusWidth, filterWidth := 0, 0
	if m.Width > 0 {
		filterWidth = m.Width*2/3 - 4
		statusWidth = m.Width - filterWidth - 8
	}
	controls := lipgloss.JoinHorizontal(lipgloss.Top,
		m.viewFilter(st, filterWidth),
		viewStatus(st, statusWidth),
	)

	top := []string{m.viewTopBar(st), m.viewSummary(st), controls}
	var bottom []string
	if st.ShowInfo {
		bottom = append(bottom, viewInfo(st))
	}
	bottom = append(bottom, m.viewHelp(st))

	t := m.table
	if m.Height > 0 {
		used := lipgloss.Height(lipgloss.JoinVertical(lipgloss.Left, append(top, bottom...)...))
		// card border takes two rows
		t.SetHeight(max(3, m.Height-used-2))
	}

	parts := append(top, StyleCard.Render(t.View()))
	parts = append(parts, bottom...)
	return StyleApp.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) viewFilter(st view.State, width int) string {
	style := StyleCard
	if st.Mode == view.ModeTyping {
		style = StyleCardFocused
	}
	if width > 0 {
		style = style.Width(width)
	}
	title := "Filter"
	if st.Regex {
		title = "Filter (regex)"
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left,
		StyleTitle.Render(title),
		m.filter.View(),
	))
}

func (m Model) viewHelp(st view.State) string {
	if st.Mode == view.ModeTyping {
		return m.help.View(typingHelp{m.keys})
	}
	return m.help.View(m.keys)
}
