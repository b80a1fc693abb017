// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"grimm.is/nets/internal/netstat"
)

// fixedWidths are the widths of the narrow columns; 0 marks a column
// that shares the remaining space.
var fixedWidths = [netstat.NumColumns]int{
	netstat.ColProtocol:   8,
	netstat.ColLocalPort:  10,
	netstat.ColRemotePort: 11,
	netstat.ColState:      12,
	netstat.ColPID:        8,
}

const (
	minFlexWidth     = 15
	defaultFlexWidth = 22
	// app padding, card border and card padding
	frameWidth = 6
)

// columnsFor lays the eight columns out for a terminal of the given width.
func columnsFor(width int) []table.Column {
	flexCount, fixed := 0, 0
	for _, w := range fixedWidths {
		if w == 0 {
			flexCount++
		}
		fixed += w
	}

	flex := defaultFlexWidth
	if width > 0 {
		// each cell carries one column of padding on both sides
		avail := width - frameWidth - 2*netstat.NumColumns - fixed
		flex = max(minFlexWidth, avail/flexCount)
	}

	columns := make([]table.Column, netstat.NumColumns)
	for i, title := range netstat.Columns {
		w := fixedWidths[i]
		if w == 0 {
			w = flex
		}
		columns[i] = table.Column{Title: title, Width: w}
	}
	return columns
}

// tableStyles returns styles with and without a highlighted row. The
// bubbles table always has a cursor row, so "no selection" is drawn by
// swapping in the plain variant.
func tableStyles() (selected, plain table.Styles) {
	selected = table.DefaultStyles()
	selected.Header = selected.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorDeep).
		BorderBottom(true).
		Bold(true)
	selected.Selected = selected.Selected.
		Foreground(ColorIce).
		Background(ColorDeep).
		Bold(false)

	plain = selected
	plain.Selected = lipgloss.NewStyle()
	return selected, plain
}

func newTable() table.Model {
	selected, _ := tableStyles()
	t := table.New(
		table.WithColumns(columnsFor(0)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(selected)
	return t
}

// rowsFor converts records into table rows.
func rowsFor(records []netstat.Record) []table.Row {
	rows := make([]table.Row, len(records))
	for i := range records {
		rows[i] = append(table.Row(nil), records[i].Fields[:]...)
	}
	return rows
}
