// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grimm.is/nets/internal/errors"
	"grimm.is/nets/internal/logging"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, time.Second, cfg.Interval())
	assert.Equal(t, SourceAuto, cfg.Source)
	assert.Equal(t, "all", cfg.DefaultTab)
	assert.Equal(t, logging.LevelInfo, cfg.LogLevel())
	assert.Empty(t, cfg.Metrics.Listen)
	assert.False(t, cfg.Filter.Regex)
}

func TestLoadFile_HCL(t *testing.T) {
	path := writeFile(t, "nets.hcl", `
refresh_interval = "250ms"
source           = "procfs"
default_tab      = "udp"
show_help        = true

filter {
  text = "nginx"
}

log {
  level = "debug"
  file  = "/tmp/nets.log"
  json  = true
}

metrics {
  listen = "127.0.0.1:9137"
}
`)
	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.Interval())
	assert.Equal(t, SourceProcfs, cfg.Source)
	assert.Equal(t, "udp", cfg.DefaultTab)
	assert.True(t, cfg.ShowHelp)
	assert.Equal(t, "nginx", cfg.Filter.Text)
	assert.Equal(t, logging.LevelDebug, cfg.LogLevel())
	assert.Equal(t, "/tmp/nets.log", cfg.Log.File)
	assert.True(t, cfg.Log.JSON)
	assert.Equal(t, "127.0.0.1:9137", cfg.Metrics.Listen)
}

func TestLoadFile_HCLPartial(t *testing.T) {
	path := writeFile(t, "nets.hcl", `source = "netlink"`)
	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, SourceNetlink, cfg.Source)
	assert.Equal(t, time.Second, cfg.Interval())
	assert.NotNil(t, cfg.Filter)
	assert.NotNil(t, cfg.Log)
	assert.NotNil(t, cfg.Metrics)
}

func TestLoadFile_YAML(t *testing.T) {
	path := writeFile(t, "nets.yaml", `
refresh_interval: 2s
default_tab: tcp
filter:
  text: "10\\.0\\..*"
  regex: true
`)
	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.Interval())
	assert.Equal(t, "tcp", cfg.DefaultTab)
	assert.True(t, cfg.Filter.Regex)
	assert.Equal(t, `10\.0\..*`, cfg.Filter.Text)
}

func TestLoadFile_JSON(t *testing.T) {
	path := writeFile(t, "nets.json", `{"source": "gopsutil", "log": {"level": "warn"}}`)
	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, SourceGopsutil, cfg.Source)
	assert.Equal(t, logging.LevelWarn, cfg.LogLevel())
}

func TestLoadFile_NoExtensionIsHCL(t *testing.T) {
	path := writeFile(t, "netsrc", `default_tab = "tcp"`)
	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "tcp", cfg.DefaultTab)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.hcl"))
	require.Error(t, err)
	assert.Equal(t, errors.KindUnavailable, errors.GetKind(err))
}

func TestValidate_Rejects(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		field string
	}{
		{"interval too short", `refresh_interval = "10ms"`, "refresh_interval"},
		{"interval garbage", `refresh_interval = "soon"`, "refresh_interval"},
		{"unknown source", `source = "bpf"`, "source"},
		{"unknown tab", `default_tab = "icmp"`, "default_tab"},
		{"bad log level", "log {\n  level = \"loud\"\n}", "log.level"},
		{"bad regex", "filter {\n  text = \"(\"\n  regex = true\n}", "filter.text"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode("nets.hcl", []byte(tc.body))
			require.Error(t, err)
			assert.Equal(t, errors.KindValidation, errors.GetKind(err))
			assert.Equal(t, tc.field, errors.GetAttributes(err)["field"])
		})
	}
}

func TestValidate_LiteralFilterNeedsNoRegex(t *testing.T) {
	cfg, err := Decode("nets.hcl", []byte("filter {\n  text = \"(\"\n}"))
	require.NoError(t, err)
	assert.Equal(t, "(", cfg.Filter.Text)
}

func TestDecode_SyntaxError(t *testing.T) {
	_, err := Decode("nets.hcl", []byte(`refresh_interval = `))
	require.Error(t, err)
	assert.Equal(t, errors.KindValidation, errors.GetKind(err))
}
