// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package view turns raw socket snapshots into the filtered, sorted and
// navigable list shown by the dashboard.
package view

import (
	"context"
	"fmt"
	"sync"
	"time"

	"grimm.is/nets/internal/errors"
	"grimm.is/nets/internal/logging"
	"grimm.is/nets/internal/netstat"
)

// Source produces enriched records for a protocol mask.
// netstat.Snapshotter satisfies it.
type Source interface {
	Snapshot(ctx context.Context, mask netstat.Protocol) ([]netstat.Record, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, mask netstat.Protocol) ([]netstat.Record, error)

func (f SourceFunc) Snapshot(ctx context.Context, mask netstat.Protocol) ([]netstat.Record, error) {
	return f(ctx, mask)
}

// Observer receives refresh outcomes. Implementations must not call back
// into the Controller.
type Observer interface {
	// ObserveFetch is called after every snapshot fetch attempt.
	ObserveFetch(elapsed time.Duration, records int, err error)
	// ObserveRefresh is called after the displayed list is rebuilt.
	ObserveRefresh(displayed int, summary netstat.Summary, paused bool)
}

// Command is a user action dispatched to the Controller.
type Command int

const (
	CmdNone Command = iota
	CmdBeginTyping
	CmdCommit
	CmdBackspace
	CmdClearFilter
	CmdTogglePause
	CmdToggleHelp
	CmdToggleInfo
	CmdNext
	CmdPrevious
	CmdFirst
	CmdLast
	CmdNextTab
	CmdPreviousTab
)

// typingCommands are the only commands honored in Typing mode.
var typingCommands = map[Command]bool{
	CmdCommit:    true,
	CmdBackspace: true,
}

// Options configures a Controller.
type Options struct {
	// Tabs defaults to DefaultTabs.
	Tabs []Tab
	// Tab is the label of the initially active tab.
	Tab string
	// Filter is the initial filter text, compiled immediately.
	Filter string
	// Regex compiles filter text as a regular expression instead of a literal.
	Regex    bool
	ShowHelp bool
	Logger   *logging.Logger
	Observer Observer
}

// Controller owns the filter, the tabs, the connection view and the pause
// flag. A single mutex guards all of them so that a refresh cycle and a
// user command never interleave.
type Controller struct {
	source   Source
	logger   *logging.Logger
	observer Observer

	mu       sync.Mutex
	tabs     Tabs
	filter   Filter
	view     ConnectionView
	paused   bool
	showHelp bool
	showInfo bool
	loaded   bool
	snapshot []netstat.Record
	summary  netstat.Summary
	lastErr  error
	updated  time.Time

	// fetchSeq numbers fetches as they start; applied is the newest one
	// whose outcome reached the state.
	fetchSeq uint64
	applied  uint64
}

// NewController creates a Controller reading from source. It does not
// fetch; call Refresh before the first render.
func NewController(source Source, opts Options) (*Controller, error) {
	if source == nil {
		return nil, errors.New(errors.KindValidation, "snapshot source is required")
	}

	tabs := NewTabs(opts.Tabs...)
	if opts.Tab != "" && !tabs.Select(opts.Tab) {
		return nil, errors.Attr(
			errors.Errorf(errors.KindValidation, "unknown tab %q", opts.Tab),
			"field", "tab")
	}

	filter, err := NewFilter(opts.Filter, opts.Regex)
	if err != nil {
		return nil, errors.Attr(
			errors.Wrap(err, errors.KindValidation, "invalid filter pattern"),
			"field", "filter")
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.WithComponent("view")
	}

	return &Controller{
		source:   source,
		logger:   logger,
		observer: opts.Observer,
		tabs:     tabs,
		filter:   filter,
		view:     NewConnectionView(),
		showHelp: opts.ShowHelp,
	}, nil
}

// Refresh runs one refresh cycle. Unless paused it fetches a snapshot for
// the union of all tabs; the fetch runs without holding the lock. On fetch
// failure the displayed items are left untouched and the error is
// returned and kept for Status. A snapshot that arrives after the user
// paused is discarded, as is one that finishes after a newer fetch.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	paused := c.paused
	mask := c.tabs.UnionMask()
	if !paused {
		c.fetchSeq++
	}
	seq := c.fetchSeq
	c.mu.Unlock()

	if paused {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.logger.Debug("refresh paused, reusing last snapshot", "records", len(c.snapshot))
		c.rebuild()
		return nil
	}

	start := time.Now()
	records, err := c.source.Snapshot(ctx, mask)
	elapsed := time.Since(start)
	if c.observer != nil {
		c.observer.ObserveFetch(elapsed, len(records), err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq < c.applied {
		c.logger.Debug("discarding stale snapshot", "seq", seq, "applied", c.applied)
		return err
	}
	c.applied = seq

	if err != nil {
		c.lastErr = err
		c.logger.WithError(err).Error("snapshot fetch failed",
			"kind", errors.GetKind(err).String(), "mask", mask.String())
		return err
	}
	c.lastErr = nil

	if c.paused {
		c.logger.Debug("discarding snapshot fetched while pausing")
	} else {
		c.snapshot = records
		c.summary = netstat.Summarize(records)
		c.loaded = true
		c.updated = start
	}
	c.rebuild()
	return nil
}

// rebuild recomputes the displayed list from the cached snapshot.
// Callers hold mu.
func (c *Controller) rebuild() {
	c.view.ReplaceItems(Build(c.snapshot, c.tabs.SelectedMask(), c.filter.Pattern()))
	if c.observer != nil {
		c.observer.ObserveRefresh(c.view.Len(), c.summary, c.paused)
	}
}

// Dispatch applies cmd. Filter editing commands are honored only in
// Typing mode and everything else only in Normal mode; it reports whether
// cmd was applied. Tab and filter changes rebuild the list from the
// cached snapshot without fetching.
func (c *Controller) Dispatch(cmd Command) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.filter.Mode() == ModeTyping {
		if !typingCommands[cmd] {
			return false
		}
	} else if typingCommands[cmd] {
		return false
	}

	switch cmd {
	case CmdBeginTyping:
		c.filter.Begin()
	case CmdCommit:
		c.filter.Commit()
		c.logFilterError()
		c.rebuild()
	case CmdBackspace:
		c.filter.Backspace()
		c.logFilterError()
		c.rebuild()
	case CmdClearFilter:
		c.filter.Clear()
		c.rebuild()
	case CmdTogglePause:
		c.paused = !c.paused
		c.logger.Info("pause toggled", "paused", c.paused)
	case CmdToggleHelp:
		c.showHelp = !c.showHelp
	case CmdToggleInfo:
		c.showInfo = !c.showInfo
	case CmdNext:
		c.view.Next()
	case CmdPrevious:
		c.view.Previous()
	case CmdFirst:
		c.view.First()
	case CmdLast:
		c.view.Last()
	case CmdNextTab:
		c.tabs.Next()
		c.rebuild()
	case CmdPreviousTab:
		c.tabs.Previous()
		c.rebuild()
	default:
		return false
	}
	return true
}

func (c *Controller) logFilterError() {
	if err := c.filter.Err(); err != nil {
		c.logger.WithError(err).Warn("filter pattern rejected, keeping previous", "text", c.filter.Text())
	}
}

// TypeRune appends r to the filter text. It is ignored outside Typing mode.
func (c *Controller) TypeRune(r rune) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.filter.Mode() != ModeTyping {
		return false
	}
	c.filter.Append(r)
	return true
}

// Mode returns the current input mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter.Mode()
}

// State is a consistent copy of everything a renderer needs.
type State struct {
	Items  []netstat.Record
	Cursor int

	Tabs     []Tab
	TabIndex int

	FilterText   string
	FilterActive bool
	FilterErr    error
	Mode         Mode
	Regex        bool

	Paused   bool
	ShowHelp bool
	ShowInfo bool

	// Loaded is false until the first successful fetch.
	Loaded  bool
	Summary netstat.Summary
	Err     error
	Updated time.Time
}

// State returns the current presentation state. Item slices are replaced
// wholesale on rebuild and never mutated, so the copy stays valid.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Items:        c.view.Items(),
		Cursor:       c.view.Cursor(),
		Tabs:         c.tabs.List(),
		TabIndex:     c.tabs.Index(),
		FilterText:   c.filter.Text(),
		FilterActive: c.filter.Active(),
		FilterErr:    c.filter.Err(),
		Mode:         c.filter.Mode(),
		Regex:        c.filter.Regex(),
		Paused:       c.paused,
		ShowHelp:     c.showHelp,
		ShowInfo:     c.showInfo,
		Loaded:       c.loaded,
		Summary:      c.summary,
		Err:          c.lastErr,
		Updated:      c.updated,
	}
}

// Selected returns the record under the cursor.
func (s State) Selected() (netstat.Record, bool) {
	if s.Cursor < 0 || s.Cursor >= len(s.Items) {
		return netstat.Record{}, false
	}
	return s.Items[s.Cursor], true
}

// MatchStatus classifies the displayed list for the status box.
type MatchStatus int

const (
	MatchWaiting MatchStatus = iota
	MatchSome
	MatchNone
)

// PausedSuffix is appended to the status while paused.
const PausedSuffix = " (paused)"

// MatchStatus is MatchWaiting without a filter, otherwise MatchSome or
// MatchNone depending on the displayed items.
func (s State) MatchStatus() MatchStatus {
	switch {
	case !s.FilterActive:
		return MatchWaiting
	case len(s.Items) == 0:
		return MatchNone
	default:
		return MatchSome
	}
}

// MatchText is the status text without the paused marker.
func (s State) MatchText() string {
	switch s.MatchStatus() {
	case MatchSome:
		return fmt.Sprintf("%d Matches", len(s.Items))
	case MatchNone:
		return "No Matches"
	default:
		return "Waiting"
	}
}

// Status is the status box text: "Waiting" without a filter, otherwise
// "N Matches" or "No Matches", followed by " (paused)" while paused.
func (s State) Status() string {
	if s.Paused {
		return s.MatchText() + PausedSuffix
	}
	return s.MatchText()
}
