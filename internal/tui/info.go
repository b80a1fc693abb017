// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"grimm.is/nets/internal/netstat"
	"grimm.is/nets/internal/view"
)

// viewInfo renders the selected connection in full, including every
// owning pid rather than only the first.
func viewInfo(st view.State) string {
	lines := []string{StyleTitle.Render("Connection Info")}

	r, ok := st.Selected()
	if !ok {
		lines = append(lines, StyleSubtitle.Render("No connection selected"))
		return StyleCard.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	}

	for i, title := range netstat.Columns {
		if i == netstat.ColPID {
			continue
		}
		lines = append(lines, StyleLabel.Render(title)+r.Fields[i])
	}
	lines = append(lines, StyleLabel.Render("PIDs")+pidList(r.PIDs))
	return StyleCard.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func pidList(pids []int) string {
	if len(pids) == 0 {
		return netstat.Unresolved
	}
	parts := make([]string, len(pids))
	for i, pid := range pids {
		parts[i] = strconv.Itoa(pid)
	}
	return strings.Join(parts, ", ")
}
