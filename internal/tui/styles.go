// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package tui

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	ColorDeep  = lipgloss.Color("24")
	ColorIce   = lipgloss.Color("195")
	ColorMuted = lipgloss.Color("240")
	ColorGood  = lipgloss.Color("42")
	ColorWarn  = lipgloss.Color("214")
	ColorBad   = lipgloss.Color("196")
)

var (
	StyleApp = lipgloss.NewStyle().Padding(0, 1)

	StyleTopBar = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(ColorDeep)

	StyleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorIce)

	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorIce).
			Background(ColorDeep).
			Padding(0, 1)

	StyleSubtitle = lipgloss.NewStyle().Foreground(ColorMuted)
	StyleSubtle   = lipgloss.NewStyle().Foreground(ColorMuted).Faint(true)

	StyleCard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDeep).
			Padding(0, 1)

	StyleCardFocused = StyleCard.BorderForeground(ColorWarn)

	StyleMenuItem       = lipgloss.NewStyle().Padding(0, 1).Foreground(ColorMuted)
	StyleMenuItemActive = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(ColorIce).Background(ColorDeep)
	StyleMenuKey        = lipgloss.NewStyle().Foreground(ColorWarn)

	StyleStatusGood = lipgloss.NewStyle().Foreground(ColorGood)
	StyleStatusWarn = lipgloss.NewStyle().Foreground(ColorWarn)
	StyleStatusBad  = lipgloss.NewStyle().Foreground(ColorBad).Bold(true)

	StyleLabel = lipgloss.NewStyle().Foreground(ColorMuted).Width(16)
)
