// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package logging wraps charmbracelet/log with component-scoped loggers.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// Level is a log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// ParseLevel maps "debug", "info", "warn" and "error" to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

func (l Level) charm() log.Level {
	switch l {
	case LevelDebug:
		return log.DebugLevel
	case LevelWarn:
		return log.WarnLevel
	case LevelError:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Config controls logger construction.
type Config struct {
	Output io.Writer
	Level  Level
	JSON   bool
	// Timestamps adds a time field to every entry.
	Timestamps bool
}

// DefaultConfig logs text at info level to stderr.
func DefaultConfig() Config {
	return Config{
		Output:     os.Stderr,
		Level:      LevelInfo,
		Timestamps: true,
	}
}

// Logger is a structured logger. Methods take a message followed by
// alternating key/value pairs.
type Logger struct {
	l *log.Logger
}

// New creates a Logger from cfg. A nil Output discards everything.
func New(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = io.Discard
	}
	formatter := log.TextFormatter
	if cfg.JSON {
		formatter = log.JSONFormatter
	}
	return &Logger{l: log.NewWithOptions(out, log.Options{
		Level:           cfg.Level.charm(),
		Formatter:       formatter,
		ReportTimestamp: cfg.Timestamps,
		TimeFormat:      "2006-01-02T15:04:05.000Z07:00",
	})}
}

// Discard returns a logger that drops every entry.
func Discard() *Logger {
	return New(Config{Output: io.Discard, Level: LevelError})
}

// WithComponent returns a child logger tagged with component=name.
func (lg *Logger) WithComponent(name string) *Logger {
	return &Logger{l: lg.l.With("component", name)}
}

// WithError returns a child logger carrying err.
func (lg *Logger) WithError(err error) *Logger {
	return &Logger{l: lg.l.With("error", err)}
}

// With returns a child logger carrying the given key/value pairs.
func (lg *Logger) With(kv ...any) *Logger {
	return &Logger{l: lg.l.With(kv...)}
}

func (lg *Logger) Debug(msg string, kv ...any) { lg.l.Debug(msg, kv...) }
func (lg *Logger) Info(msg string, kv ...any)  { lg.l.Info(msg, kv...) }
func (lg *Logger) Warn(msg string, kv ...any)  { lg.l.Warn(msg, kv...) }
func (lg *Logger) Error(msg string, kv ...any) { lg.l.Error(msg, kv...) }

var std atomic.Pointer[Logger]

func init() {
	std.Store(New(DefaultConfig()))
}

// Default returns the process-wide logger.
func Default() *Logger { return std.Load() }

// SetDefault replaces the process-wide logger.
func SetDefault(lg *Logger) {
	if lg != nil {
		std.Store(lg)
	}
}

// WithComponent is Default().WithComponent(name).
func WithComponent(name string) *Logger { return Default().WithComponent(name) }

func Debug(msg string, kv ...any) { Default().Debug(msg, kv...) }
func Info(msg string, kv ...any)  { Default().Info(msg, kv...) }
func Warn(msg string, kv ...any)  { Default().Warn(msg, kv...) }
func Error(msg string, kv ...any) { Default().Error(msg, kv...) }
