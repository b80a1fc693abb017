// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package view

import (
	"regexp"

	"grimm.is/nets/internal/netstat"
)

// Mode is the input mode of the filter box.
type Mode int

const (
	// ModeNormal routes keys to navigation commands.
	ModeNormal Mode = iota
	// ModeTyping appends keys to the filter text.
	ModeTyping
)

func (m Mode) String() string {
	if m == ModeTyping {
		return "typing"
	}
	return "normal"
}

// Compile turns filter text into a literal, case-sensitive substring
// pattern. Empty text yields nil, which matches every record.
func Compile(text string) *regexp.Regexp {
	if text == "" {
		return nil
	}
	return regexp.MustCompile(regexp.QuoteMeta(text))
}

// CompileRegex compiles text as a regular expression. Empty text yields nil.
func CompileRegex(text string) (*regexp.Regexp, error) {
	if text == "" {
		return nil, nil
	}
	return regexp.Compile(text)
}

// Matches reports whether any display field of r contains pattern.
// A nil pattern matches everything.
func Matches(r netstat.Record, pattern *regexp.Regexp) bool {
	if pattern == nil {
		return true
	}
	for _, field := range r.Fields {
		if pattern.MatchString(field) {
			return true
		}
	}
	return false
}

// Filter is the filter box state. The pattern is recompiled only on
// explicit commit, backspace or clear, never per typed rune.
type Filter struct {
	text    string
	mode    Mode
	regex   bool
	pattern *regexp.Regexp
	err     error
}

// NewFilter returns a filter in Normal mode with text already compiled.
// In regex mode an invalid initial pattern is reported and the filter
// matches everything.
func NewFilter(text string, regex bool) (Filter, error) {
	f := Filter{text: text, regex: regex}
	f.recompile()
	return f, f.err
}

func (f *Filter) Text() string            { return f.text }
func (f *Filter) Mode() Mode              { return f.mode }
func (f *Filter) Regex() bool             { return f.regex }
func (f *Filter) Pattern() *regexp.Regexp { return f.pattern }
func (f *Filter) Err() error              { return f.err }

// Active reports whether a pattern is narrowing the list.
func (f *Filter) Active() bool { return f.pattern != nil }

// Begin enters Typing mode.
func (f *Filter) Begin() { f.mode = ModeTyping }

// Append adds r to the text without recompiling.
func (f *Filter) Append(r rune) { f.text += string(r) }

// Backspace drops the last rune and recompiles.
func (f *Filter) Backspace() {
	if f.text != "" {
		runes := []rune(f.text)
		f.text = string(runes[:len(runes)-1])
	}
	f.recompile()
}

// Commit recompiles and returns to Normal mode.
func (f *Filter) Commit() {
	f.recompile()
	f.mode = ModeNormal
}

// Clear empties the text and recompiles.
func (f *Filter) Clear() {
	f.text = ""
	f.recompile()
}

// recompile derives the pattern from the text. A regex that fails to
// compile keeps the previous pattern and records the error.
func (f *Filter) recompile() {
	if !f.regex {
		f.pattern, f.err = Compile(f.text), nil
		return
	}
	p, err := CompileRegex(f.text)
	if err != nil {
		f.err = err
		return
	}
	f.pattern, f.err = p, nil
}
