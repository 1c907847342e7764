// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log provides package scoped loggers on top of the go-ethereum root logger.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"

	ethlog "github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-isatty"
)

// Logger writes leveled key/value records.
type Logger interface {
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	Enabled(level slog.Level) bool
}

// WithContext returns a logger that prefixes every record with ctx. Records go to whatever
// root logger is installed at the time they are written, so package level loggers can be
// declared before Init runs.
func WithContext(ctx ...any) Logger {
	return &lazyLogger{ctx: ctx}
}

type lazyLogger struct {
	ctx []any
}

func (l *lazyLogger) root() ethlog.Logger {
	return ethlog.Root().With(l.ctx...)
}

func (l *lazyLogger) Trace(msg string, ctx ...any) { l.root().Trace(msg, ctx...) }
func (l *lazyLogger) Debug(msg string, ctx ...any) { l.root().Debug(msg, ctx...) }
func (l *lazyLogger) Info(msg string, ctx ...any)  { l.root().Info(msg, ctx...) }
func (l *lazyLogger) Warn(msg string, ctx ...any)  { l.root().Warn(msg, ctx...) }
func (l *lazyLogger) Error(msg string, ctx ...any) { l.root().Error(msg, ctx...) }

func (l *lazyLogger) Enabled(level slog.Level) bool {
	return ethlog.Root().Enabled(context.Background(), level)
}

// Init installs the root handler. verbosity follows the legacy scale, 0 (crit) to 5 (trace).
// Terminal output is colored when w is a terminal.
func Init(w io.Writer, verbosity int, json bool) {
	level := ethlog.FromLegacyLevel(verbosity)

	var handler slog.Handler
	if json {
		handler = ethlog.JSONHandlerWithLevel(w, level)
	} else {
		handler = ethlog.NewTerminalHandlerWithLevel(w, level, useColor(w))
	}
	ethlog.SetDefault(ethlog.NewLogger(handler))
}

func useColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
