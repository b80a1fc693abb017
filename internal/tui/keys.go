// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"grimm.is/nets/internal/view"
)

// KeyMap holds the bindings of both input modes.
type KeyMap struct {
	// Normal mode
	Quit        key.Binding
	Filter      key.Binding
	ClearFilter key.Binding
	Pause       key.Binding
	Help        key.Binding
	Info        key.Binding
	Down        key.Binding
	Up          key.Binding
	First       key.Binding
	Last        key.Binding
	NextTab     key.Binding
	PreviousTab key.Binding

	// Typing mode
	Commit    key.Binding
	Backspace key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		ClearFilter: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear filter"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Info: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "info"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		First: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g/home", "first"),
		),
		Last: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G/end", "last"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("l", "right", "tab"),
			key.WithHelp("→/tab", "next tab"),
		),
		PreviousTab: key.NewBinding(
			key.WithKeys("h", "left", "shift+tab"),
			key.WithHelp("←/shift+tab", "prev tab"),
		),
		Commit: key.NewBinding(
			key.WithKeys("enter", "esc"),
			key.WithHelp("enter/esc", "apply filter"),
		),
		Backspace: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("backspace", "delete"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

type commandBinding struct {
	binding key.Binding
	cmd     view.Command
}

// normalCommands maps Normal mode bindings to controller commands.
func (k KeyMap) normalCommands() []commandBinding {
	return []commandBinding{
		{k.Filter, view.CmdBeginTyping},
		{k.ClearFilter, view.CmdClearFilter},
		{k.Pause, view.CmdTogglePause},
		{k.Help, view.CmdToggleHelp},
		{k.Info, view.CmdToggleInfo},
		{k.Down, view.CmdNext},
		{k.Up, view.CmdPrevious},
		{k.First, view.CmdFirst},
		{k.Last, view.CmdLast},
		{k.NextTab, view.CmdNextTab},
		{k.PreviousTab, view.CmdPreviousTab},
	}
}

// Command resolves a key press to a controller command for the given mode.
func (k KeyMap) Command(mode view.Mode, msg tea.KeyMsg) view.Command {
	if mode == view.ModeTyping {
		switch {
		case key.Matches(msg, k.Commit):
			return view.CmdCommit
		case key.Matches(msg, k.Backspace):
			return view.CmdBackspace
		}
		return view.CmdNone
	}
	for _, nc := range k.normalCommands() {
		if key.Matches(msg, nc.binding) {
			return nc.cmd
		}
	}
	return view.CmdNone
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Filter, k.Pause, k.NextTab, k.Info, k.Help}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Down, k.Up, k.First, k.Last},
		{k.NextTab, k.PreviousTab, k.Pause, k.Info},
		{k.Filter, k.ClearFilter, k.Commit, k.Backspace},
		{k.Help, k.Quit},
	}
}

// typingHelp is shown while editing the filter.
type typingHelp struct{ k KeyMap }

func (t typingHelp) ShortHelp() []key.Binding {
	return []key.Binding{t.k.Commit, t.k.Backspace, t.k.ForceQuit}
}

func (t typingHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{t.ShortHelp()}
}
