// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package obslog defines the structured-logging interface shared by
// every core component: a short static message plus alternating
// key/value args. The default implementation is backed by
// charmbracelet/log, giving real leveled, timestamped output for a
// long-running server.
package obslog

import (
	"io"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// Logger is a leveled, structured logger. msg is a short static
// description; args are alternating key/value pairs, matching the
// shape charmbracelet/log.Logger's Debug/Info/Warn/Error accept.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// New builds a Logger writing to w at the given level ("debug",
// "info", "warn", "error"; unrecognized values default to "info").
func New(w io.Writer, level string) Logger {
	l := charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		Level:           parseLevel(level),
	})
	return &charmLogger{l: l}
}

// NewDefault builds a Logger writing to stderr at info level,
// suitable for cmd/gitconf-server's default wiring.
func NewDefault() Logger {
	return New(os.Stderr, "info")
}

func parseLevel(level string) charmlog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return charmlog.DebugLevel
	case "warn", "warning":
		return charmlog.WarnLevel
	case "error":
		return charmlog.ErrorLevel
	default:
		return charmlog.InfoLevel
	}
}

type charmLogger struct {
	l *charmlog.Logger
}

func (c *charmLogger) Debug(msg string, args ...interface{}) { c.l.Debug(msg, args...) }
func (c *charmLogger) Info(msg string, args ...interface{})  { c.l.Info(msg, args...) }
func (c *charmLogger) Warn(msg string, args ...interface{})  { c.l.Warn(msg, args...) }
func (c *charmLogger) Error(msg string, args ...interface{}) { c.l.Error(msg, args...) }

// noopLogger discards everything. Useful in tests that don't care
// about log output.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

// NewNoop returns a Logger that discards all output.
func NewNoop() Logger { return noopLogger{} }
