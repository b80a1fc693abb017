// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"grimm.is/nets/internal/netstat"
	"grimm.is/nets/internal/view"
)

// writeSnapshot prints the current list as an aligned, borderless table
// followed by a one-line summary. A width of 0 leaves columns unbounded.
func writeSnapshot(w io.Writer, st view.State, width int) error {
	rows := make([][]string, len(st.Items))
	for i := range st.Items {
		rows[i] = st.Items[i].Fields[:]
	}

	cell := lipgloss.NewStyle().PaddingRight(2)
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderHeader(false).
		Headers(netstat.Columns[:]...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return cell.Bold(true)
			}
			return cell
		})
	if width > 0 {
		t = t.Width(width)
	}

	s := st.Summary
	tab := st.Tabs[st.TabIndex].Label
	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}
	footer := fmt.Sprintf("%d shown (%s) of %d sockets: %d tcp, %d udp, %d established, %d listening",
		len(st.Items), tab, s.Total, s.TCP, s.UDP, s.Established, s.Listening)
	if st.FilterActive {
		footer += fmt.Sprintf("; filter %q: %s", st.FilterText, st.Status())
	}
	_, err := fmt.Fprintf(w, "\n%s\n", footer)
	return err
}
