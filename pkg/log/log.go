// Copyright 2025 walteh LLC
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

package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/walteh/dimigrate/pkg/status"
)

// 🎨 Display configuration
const fileIndent = 4 // spaces to indent file entries

// 🎯 Logger prints per-file lines to the console and mirrors them to zerolog
type Logger struct {
	zlog      zerolog.Logger
	console   io.Writer
	formatter status.FileFormatter
	mu        sync.Mutex
}

// 🏭 New creates a new logger. Structured records go to zlog.
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:      zlog,
		console:   console,
		formatter: status.NewDefaultFileFormatter(),
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

func symbolFor(r status.FileResult) (rune, color.Attribute) {
	switch r.Outcome {
	case status.OutcomeUpdated:
		return '⟳', color.FgBlue
	case status.OutcomeUnchanged:
		return '•', color.FgCyan
	case status.OutcomeSkipped:
		return '-', color.FgYellow
	case status.OutcomeMissingFile, status.OutcomeFailed:
		return '✗', color.FgRed
	default:
		return '?', color.Faint
	}
}

// 📝 LogResult prints the console lines of one file result
func (l *Logger) LogResult(ctx context.Context, r status.FileResult) {
	l.mu.Lock()
	defer l.mu.Unlock()

	symbol, symbolColor := symbolFor(r)
	for i, line := range l.formatter.FormatResult(r) {
		mark := " "
		if i == 0 {
			mark = color.New(symbolColor).Sprint(string(symbol))
		}
		fmt.Fprintf(l.console, "%*s%s %s\n", fileIndent, "", mark, line)
	}

	if r.Diff != "" {
		fmt.Fprint(l.console, r.Diff)
	}

	ev := l.zlog.Info()
	if r.Outcome == status.OutcomeFailed {
		ev = l.zlog.Error().Err(r.Err)
	}
	ev.Str("pass", r.Pass).
		Str("file", r.Path).
		Str("outcome", r.Outcome.String()).
		Str("reason", string(r.Reason())).
		Int("edits", r.Edits).
		Msg("file processed")
}

// 📝 LogSummary prints the one-line summary of a pass
func (l *Logger) LogSummary(ctx context.Context, r *status.Report) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, color.New(color.Faint).Sprint(l.formatter.FormatSummary(r)))
	l.zlog.Info().
		Str("pass", r.Pass).
		Int("updated", r.Count(status.OutcomeUpdated)).
		Int("unchanged", r.Count(status.OutcomeUnchanged)).
		Int("skipped", r.Count(status.OutcomeSkipped)).
		Int("missing", r.Count(status.OutcomeMissingFile)).
		Int("failed", r.Count(status.OutcomeFailed)).
		Bool("cancelled", r.Cancelled).
		Msg("pass complete")
}

// 📝 StartPass prints the header of a pass
func (l *Logger) StartPass(ctx context.Context, name, description string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.console, "%s %s", color.New(color.FgMagenta).Sprint("◆"), color.New(color.Bold).Sprint(name))
	if description != "" {
		fmt.Fprintf(l.console, " %s %s", color.New(color.Faint).Sprint("•"), description)
	}
	fmt.Fprintln(l.console)

	l.zlog.Info().Str("pass", name).Msg("starting pass")
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("dimigrate")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}
