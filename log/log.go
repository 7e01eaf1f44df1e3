// Package log provides structured logging for the core engines (ambient
// stack, SPEC_FULL.md §A.1): a thin wrapper around log/slog with a
// go-ethereum-style glog verbosity handler and terminal formatter, so the
// trie, EVM and state-transition packages can log at Trace/Debug detail
// without needing any of that detail in production verbosity.
package log

import (
	"context"
	"log/slog"
	"os"
)

// Level mirrors slog.Level with Ethereum-familiar names; Trace sits below
// slog's builtin Debug level.
const (
	LevelCrit  slog.Level = 12
	LevelError slog.Level = slog.LevelError
	LevelWarn  slog.Level = slog.LevelWarn
	LevelInfo  slog.Level = slog.LevelInfo
	LevelDebug slog.Level = slog.LevelDebug
	LevelTrace slog.Level = -8
)

// Logger writes structured log records with caller context, following the
// go-ethereum log.Logger interface.
type Logger interface {
	With(ctx ...any) Logger
	New(ctx ...any) Logger

	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	Crit(msg string, ctx ...any)

	Write(level slog.Level, msg string, ctx ...any)
	Enabled(ctx context.Context, level slog.Level) bool
	Handler() slog.Handler
}

type logger struct {
	inner *slog.Logger
}

// NewLogger returns a Logger that writes through h.
func NewLogger(h slog.Handler) Logger {
	return &logger{inner: slog.New(h)}
}

func (l *logger) Write(level slog.Level, msg string, ctx ...any) {
	if !l.inner.Enabled(context.Background(), level) {
		return
	}
	l.inner.Log(context.Background(), level, msg, ctx...)
}

func (l *logger) With(ctx ...any) Logger { return &logger{inner: l.inner.With(ctx...)} }
func (l *logger) New(ctx ...any) Logger  { return l.With(ctx...) }

func (l *logger) Trace(msg string, ctx ...any) { l.Write(LevelTrace, msg, ctx...) }
func (l *logger) Debug(msg string, ctx ...any) { l.Write(LevelDebug, msg, ctx...) }
func (l *logger) Info(msg string, ctx ...any)  { l.Write(LevelInfo, msg, ctx...) }
func (l *logger) Warn(msg string, ctx ...any)  { l.Write(LevelWarn, msg, ctx...) }
func (l *logger) Error(msg string, ctx ...any) { l.Write(LevelError, msg, ctx...) }
func (l *logger) Crit(msg string, ctx ...any) {
	l.Write(LevelCrit, msg, ctx...)
	os.Exit(1)
}

func (l *logger) Enabled(ctx context.Context, level slog.Level) bool {
	return l.inner.Enabled(ctx, level)
}
func (l *logger) Handler() slog.Handler { return l.inner.Handler() }

var root = NewLogger(NewTerminalHandlerWithLevel(os.Stderr, LevelInfo, true))

// Root returns the root logger, used by packages that were not handed an
// explicit Logger (e.g. a trie.Database opened without one).
func Root() Logger { return root }

// SetDefault replaces the root logger, e.g. so a CLI wrapper (out of scope
// per spec.md §1, but the seam is kept) can redirect output.
func SetDefault(l Logger) { root = l }

func Trace(msg string, ctx ...any) { root.Trace(msg, ctx...) }
func Debug(msg string, ctx ...any) { root.Debug(msg, ctx...) }
func Info(msg string, ctx ...any)  { root.Info(msg, ctx...) }
func Warn(msg string, ctx ...any)  { root.Warn(msg, ctx...) }
func Error(msg string, ctx ...any) { root.Error(msg, ctx...) }
func Crit(msg string, ctx ...any)  { root.Crit(msg, ctx...) }
