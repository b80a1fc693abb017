// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"":        LevelInfo,
		"warning": LevelWarn,
		"error":   LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestLogger_JSONComponent(t *testing.T) {
	var buf bytes.Buffer
	lg := New(Config{Output: &buf, Level: LevelInfo, JSON: true})

	lg.WithComponent("view").WithError(errors.New("permission denied")).Error("snapshot fetch failed", "tab", "All")

	out := buf.String()
	assert.Contains(t, out, `"msg":"snapshot fetch failed"`)
	assert.Contains(t, out, `"component":"view"`)
	assert.Contains(t, out, `"error":"permission denied"`)
	assert.Contains(t, out, `"tab":"All"`)
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	lg := New(Config{Output: &buf, Level: LevelWarn, JSON: true})

	lg.Debug("noisy")
	lg.Info("still noisy")
	assert.Empty(t, buf.String())

	lg.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestDefault(t *testing.T) {
	prev := Default()
	defer SetDefault(prev)

	var buf bytes.Buffer
	SetDefault(New(Config{Output: &buf, Level: LevelDebug, JSON: true}))
	WithComponent("netstat").Debug("resolved", "pid", 42)

	assert.Contains(t, buf.String(), `"component":"netstat"`)
	assert.Contains(t, buf.String(), `"pid":42`)

	SetDefault(nil)
	assert.NotNil(t, Default())
}

func TestNew_NilOutput(t *testing.T) {
	lg := New(Config{})
	assert.NotPanics(t, func() { lg.Error("dropped") })
	assert.NotPanics(t, func() { Discard().Info("dropped") })
}
