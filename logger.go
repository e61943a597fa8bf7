// Copyright 2025 Matthew Gall <me@matthewgall.dev>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
)

// Logger wraps slog.Logger with domain-specific methods
type Logger struct {
	*slog.Logger
}

// NewLogger creates a text-formatted logger
func NewLogger(debug bool) *Logger {
	return newLogger(os.Stderr, debug, false)
}

// NewJSONLogger creates a JSON-formatted logger
func NewJSONLogger(debug bool) *Logger {
	return newLogger(os.Stderr, debug, true)
}

// NewDiscardLogger creates a logger that drops everything, used by tests
func NewDiscardLogger() *Logger {
	return newLogger(io.Discard, false, false)
}

func newLogger(w io.Writer, debug, json bool) *Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if json {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return &Logger{slog.New(handler)}
}

// WithComponent adds a component field to the logger
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{l.With("component", component)}
}

// LogDatasetLoaded logs a table that finished loading
func (l *Logger) LogDatasetLoaded(table, path string, rows int, elapsed time.Duration) {
	l.Info("Dataset loaded",
		"table", table,
		"path", path,
		"rows", rows,
		"elapsed", elapsed.Round(time.Millisecond),
	)
}

// LogUnmappedCodes logs rows whose category code had no label
func (l *Logger) LogUnmappedCodes(table, column string, count int) {
	l.Warn("Unmapped category codes",
		"table", table,
		"column", column,
		"rows", count,
		"label", UnknownLabel,
	)
}

// LogFilterApplied logs the effect of a selection on a table
func (l *Logger) LogFilterApplied(table string, before, after int) {
	l.Debug("Filter applied",
		"table", table,
		"rows_before", before,
		"rows_after", after,
	)
}

// LogAnalysisStage logs analysis stage completion
func (l *Logger) LogAnalysisStage(stage string) {
	l.Debug("Analysis stage completed",
		"stage", stage,
	)
}

// LogRender logs a rendered chart
func (l *Logger) LogRender(chart, format string, size int) {
	l.Debug("Chart rendered",
		"chart", chart,
		"format", format,
		"size", humanize.Bytes(uint64(size)),
	)
}

// LogRequest logs a served HTTP request
func (l *Logger) LogRequest(method, path string, status int, elapsed time.Duration) {
	l.Info("Request served",
		"method", method,
		"path", path,
		"status", status,
		"elapsed", elapsed.Round(time.Microsecond),
	)
}

// UserMessage outputs a message directly to stdout (bypassing structured logging)
func (l *Logger) UserMessage(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
}
