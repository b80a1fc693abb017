// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package view

import (
	"cmp"
	"regexp"
	"slices"

	"grimm.is/nets/internal/netstat"
)

// NoSelection is the cursor of an empty or not yet navigated list.
const NoSelection = -1

// ConnectionView holds the displayed records and the cursor.
type ConnectionView struct {
	items  []netstat.Record
	cursor int
}

// NewConnectionView returns an empty view with no selection.
func NewConnectionView() ConnectionView {
	return ConnectionView{cursor: NoSelection}
}

func (v *ConnectionView) Items() []netstat.Record { return v.items }

func (v *ConnectionView) Len() int { return len(v.items) }

// Cursor returns the selected index or NoSelection.
func (v *ConnectionView) Cursor() int { return v.cursor }

// Selected returns the record under the cursor.
func (v *ConnectionView) Selected() (netstat.Record, bool) {
	if v.cursor < 0 || v.cursor >= len(v.items) {
		return netstat.Record{}, false
	}
	return v.items[v.cursor], true
}

// Next moves down, wrapping from the last row (or no selection) to 0.
func (v *ConnectionView) Next() {
	if len(v.items) == 0 {
		return
	}
	if v.cursor < 0 || v.cursor >= len(v.items)-1 {
		v.cursor = 0
		return
	}
	v.cursor++
}

// Previous moves up, wrapping from row 0 (or no selection) to the last row.
func (v *ConnectionView) Previous() {
	if len(v.items) == 0 {
		return
	}
	if v.cursor <= 0 {
		v.cursor = len(v.items) - 1
		return
	}
	v.cursor--
}

func (v *ConnectionView) First() {
	if len(v.items) > 0 {
		v.cursor = 0
	}
}

func (v *ConnectionView) Last() {
	if len(v.items) > 0 {
		v.cursor = len(v.items) - 1
	}
}

// ReplaceItems swaps in a new list. The cursor keeps its index, clamped
// to the new length; an empty list drops the selection.
func (v *ConnectionView) ReplaceItems(items []netstat.Record) {
	v.items = items
	switch {
	case len(items) == 0:
		v.cursor = NoSelection
	case v.cursor >= len(items):
		v.cursor = len(items) - 1
	}
}

// Build narrows a snapshot to mask, stable-sorts it by local port
// descending and keeps the records matching pattern. The snapshot is not
// modified.
func Build(snapshot []netstat.Record, mask netstat.Protocol, pattern *regexp.Regexp) []netstat.Record {
	out := make([]netstat.Record, 0, len(snapshot))
	for _, r := range snapshot {
		if r.Protocol.Has(mask) {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, func(a, b netstat.Record) int {
		return cmp.Compare(b.LocalPort, a.LocalPort)
	})
	return slices.DeleteFunc(out, func(r netstat.Record) bool {
		return !Matches(r, pattern)
	})
}
