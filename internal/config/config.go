// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package config loads the dashboard configuration file.
//
// The file may be HCL, YAML or JSON; the format is chosen by extension and
// HCL is tried for anything else:
//
//	refresh_interval = "2s"
//	source           = "procfs"
//	default_tab      = "tcp"
//
//	filter {
//	  text  = "nginx"
//	  regex = false
//	}
//
//	log {
//	  level = "debug"
//	  file  = "/tmp/nets.log"
//	}
//
//	metrics {
//	  listen = "127.0.0.1:9137"
//	}
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"gopkg.in/yaml.v3"

	"grimm.is/nets/internal/errors"
	"grimm.is/nets/internal/logging"
)

const (
	DefaultRefreshInterval = time.Second
	MinRefreshInterval     = 100 * time.Millisecond
)

// Snapshot sources accepted by Source.
const (
	SourceAuto     = "auto"
	SourceProcfs   = "procfs"
	SourceNetlink  = "netlink"
	SourceGopsutil = "gopsutil"
)

// Config is the top-level configuration.
type Config struct {
	RefreshInterval string `hcl:"refresh_interval,optional" yaml:"refresh_interval" json:"refresh_interval,omitempty"`
	Source          string `hcl:"source,optional" yaml:"source" json:"source,omitempty"`
	DefaultTab      string `hcl:"default_tab,optional" yaml:"default_tab" json:"default_tab,omitempty"`
	ShowHelp        bool   `hcl:"show_help,optional" yaml:"show_help" json:"show_help,omitempty"`

	Filter  *FilterConfig  `hcl:"filter,block" yaml:"filter" json:"filter,omitempty"`
	Log     *LogConfig     `hcl:"log,block" yaml:"log" json:"log,omitempty"`
	Metrics *MetricsConfig `hcl:"metrics,block" yaml:"metrics" json:"metrics,omitempty"`
}

// FilterConfig seeds the text filter at start-up.
type FilterConfig struct {
	Text string `hcl:"text,optional" yaml:"text" json:"text,omitempty"`
	// Regex compiles filter text as a regular expression instead of a literal.
	Regex bool `hcl:"regex,optional" yaml:"regex" json:"regex,omitempty"`
}

// LogConfig controls the log sink. The terminal belongs to the dashboard,
// so nothing is logged unless File is set.
type LogConfig struct {
	Level string `hcl:"level,optional" yaml:"level" json:"level,omitempty"`
	File  string `hcl:"file,optional" yaml:"file" json:"file,omitempty"`
	JSON  bool   `hcl:"json,optional" yaml:"json" json:"json,omitempty"`
}

// MetricsConfig enables the Prometheus endpoint when Listen is non-empty.
type MetricsConfig struct {
	Listen string `hcl:"listen,optional" yaml:"listen" json:"listen,omitempty"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.RefreshInterval == "" {
		c.RefreshInterval = DefaultRefreshInterval.String()
	}
	if c.Source == "" {
		c.Source = SourceAuto
	}
	if c.DefaultTab == "" {
		c.DefaultTab = "all"
	}
	if c.Filter == nil {
		c.Filter = &FilterConfig{}
	}
	if c.Log == nil {
		c.Log = &LogConfig{}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Metrics == nil {
		c.Metrics = &MetricsConfig{}
	}
}

// Interval returns the parsed refresh interval. Call Validate first; an
// unparsable value yields DefaultRefreshInterval.
func (c *Config) Interval() time.Duration {
	d, err := time.ParseDuration(c.RefreshInterval)
	if err != nil {
		return DefaultRefreshInterval
	}
	return d
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() logging.Level {
	lvl, _ := logging.ParseLevel(c.Log.Level)
	return lvl
}

// Validate checks every field and returns the first problem as a
// KindValidation error carrying the field name.
func (c *Config) Validate() error {
	c.applyDefaults()

	d, err := time.ParseDuration(c.RefreshInterval)
	if err != nil {
		return invalid("refresh_interval", c.RefreshInterval, err)
	}
	if d < MinRefreshInterval {
		return invalid("refresh_interval", c.RefreshInterval,
			errors.Errorf(errors.KindValidation, "must be at least %s", MinRefreshInterval))
	}

	switch c.Source {
	case SourceAuto, SourceProcfs, SourceNetlink, SourceGopsutil:
	default:
		return invalid("source", c.Source, errors.New(errors.KindValidation, "unknown snapshot source"))
	}

	switch strings.ToLower(c.DefaultTab) {
	case "all", "tcp", "udp":
	default:
		return invalid("default_tab", c.DefaultTab, errors.New(errors.KindValidation, "expected all, tcp or udp"))
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return invalid("log.level", c.Log.Level, err)
	}

	if c.Filter.Regex && c.Filter.Text != "" {
		if _, err := regexp.Compile(c.Filter.Text); err != nil {
			return invalid("filter.text", c.Filter.Text, err)
		}
	}
	return nil
}

func invalid(field, value string, cause error) error {
	err := errors.Wrapf(cause, errors.KindValidation, "invalid %s %q", field, value)
	return errors.Attr(err, "field", field)
}

// LoadFile reads, decodes and validates the configuration at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapOS(err, "failed to read config file")
	}
	cfg, err := Decode(path, data)
	if err != nil {
		return nil, errors.Attr(err, "path", path)
	}
	return cfg, nil
}

// Decode parses data according to the extension of filename.
func Decode(filename string, data []byte) (*Config, error) {
	var cfg Config
	var err error

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".json":
		err = json.Unmarshal(data, &cfg)
	default:
		name := filename
		if !strings.EqualFold(filepath.Ext(name), ".hcl") {
			// hclsimple picks the syntax from the extension
			name += ".hcl"
		}
		err = hclsimple.Decode(name, data, nil, &cfg)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.KindValidation, "failed to decode config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
