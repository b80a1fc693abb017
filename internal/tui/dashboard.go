// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"grimm.is/nets/internal/view"
)

// historySize bounds the connection count trend.
const historySize = 30

func (m Model) viewTopBar(st view.State) string {
	items := []string{StyleHeader.Render("NETS")}
	for i, tab := range st.Tabs {
		label := StyleMenuKey.Render("["+strconv.Itoa(i+1)+"]") + " " + tab.Label
		if i == st.TabIndex {
			items = append(items, StyleMenuItemActive.Render(label))
		} else {
			items = append(items, StyleMenuItem.Render(label))
		}
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top, items...)
	return StyleTopBar.Render(bar)
}

// viewSummary renders counters over the whole last snapshot, independent
// of the active tab and filter.
func (m Model) viewSummary(st view.State) string {
	if !st.Loaded {
		return StyleCard.Render(StyleSubtitle.Render("Loading connections..."))
	}

	s := st.Summary
	stat := func(label string, v int) string {
		return StyleSubtitle.Render(label+" ") + StyleTitle.Render(strconv.Itoa(v))
	}
	counters := strings.Join([]string{
		stat("Connections", s.Total),
		stat("Unique", s.Unique),
		stat("TCP", s.TCP),
		stat("UDP", s.UDP),
		stat("Established", s.Established),
		stat("Listening", s.Listening),
		stat("IPv4", s.IPv4),
		stat("IPv6", s.IPv6),
	}, "  ")

	trend := fmt.Sprintf("%s %s  %s",
		StyleSubtitle.Render("Trend"),
		sparkline(m.history),
		StyleSubtle.Render("updated "+st.Updated.Format("15:04:05")),
	)
	return StyleCard.Render(lipgloss.JoinVertical(lipgloss.Left, counters, trend))
}

func sparkline(data []float64) string {
	if len(data) == 0 {
		return ""
	}
	chars := []rune{' ', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	max := 0.0
	for _, v := range data {
		if v > max {
			max = v
		}
	}
	if max == 0 {
		max = 1
	}

	start := 0
	if len(data) > historySize {
		start = len(data) - historySize
	}

	var sb strings.Builder
	for i := start; i < len(data); i++ {
		idx := int((data[i] / max) * float64(len(chars)-1))
		sb.WriteRune(chars[idx])
	}
	return sb.String()
}

// viewStatus follows the status box convention: "Waiting" without a
// filter, the match count with one, and a paused marker. Fetch and
// pattern errors are appended below.
func viewStatus(st view.State, width int) string {
	status := st.MatchText()
	switch st.MatchStatus() {
	case view.MatchNone:
		status = StyleStatusBad.Render(status)
	case view.MatchSome:
		status = StyleStatusGood.Render(status)
	}
	if st.Paused {
		status += StyleStatusWarn.Render(view.PausedSuffix)
	}

	lines := []string{StyleTitle.Render("Status"), status}
	if st.FilterErr != nil {
		lines = append(lines, StyleStatusWarn.Render("pattern: "+st.FilterErr.Error()))
	}
	if st.Err != nil {
		lines = append(lines, StyleStatusBad.Render("⚠ "+st.Err.Error()))
	}

	style := StyleCard
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
