// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package view

import (
	"strings"

	"grimm.is/nets/internal/netstat"
)

// Tab is a named protocol subset.
type Tab struct {
	Label string
	Mask  netstat.Protocol
}

// DefaultTabs are the All, TCP and UDP tabs.
var DefaultTabs = []Tab{
	{Label: "All", Mask: netstat.ProtocolAll},
	{Label: "TCP", Mask: netstat.ProtocolTCP},
	{Label: "UDP", Mask: netstat.ProtocolUDP},
}

// Tabs selects one tab out of a fixed list. The index wraps in both
// directions.
type Tabs struct {
	tabs  []Tab
	index int
}

// NewTabs returns a selector over tabs, or over DefaultTabs when none are given.
func NewTabs(tabs ...Tab) Tabs {
	if len(tabs) == 0 {
		tabs = DefaultTabs
	}
	return Tabs{tabs: tabs}
}

func (t *Tabs) Next() {
	t.index = (t.index + 1) % len(t.tabs)
}

func (t *Tabs) Previous() {
	if t.index == 0 {
		t.index = len(t.tabs) - 1
		return
	}
	t.index--
}

// Select looks a tab up by label, case-insensitively.
func (t *Tabs) Select(label string) bool {
	for i, tab := range t.tabs {
		if strings.EqualFold(tab.Label, label) {
			t.index = i
			return true
		}
	}
	return false
}

func (t *Tabs) Index() int { return t.index }

func (t *Tabs) Selected() Tab { return t.tabs[t.index] }

// SelectedMask is the protocol mask of the active tab.
func (t *Tabs) SelectedMask() netstat.Protocol { return t.tabs[t.index].Mask }

// UnionMask covers every tab, so one fetch serves all of them.
func (t *Tabs) UnionMask() netstat.Protocol {
	var mask netstat.Protocol
	for _, tab := range t.tabs {
		mask |= tab.Mask
	}
	return mask
}

// List returns a copy of the tabs.
func (t *Tabs) List() []Tab {
	return append([]Tab(nil), t.tabs...)
}
