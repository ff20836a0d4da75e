// Package tracelog provides the optional leveled logger the SQL generator
// emits diagnostic spans through. It mirrors the pgroll migrations package's
// Logger pattern: a small interface, a pterm-backed implementation, and a
// no-op implementation for callers that don't want output. Logging carries
// no part of the API contract; it exists purely as an aid while developing
// or operating the compiler.
package tracelog

import "github.com/pterm/pterm"

// Logger emits leveled diagnostic messages. A compile is expected to emit
// Debug-level spans around lexing, parsing and generation, and Trace-level
// detail about alias assignment and join-planning decisions.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type ptermLogger struct {
	logger pterm.Logger
}

// New returns a Logger backed by pterm's default logger.
func New() Logger {
	return &ptermLogger{logger: pterm.DefaultLogger}
}

func (l *ptermLogger) Trace(msg string, args ...any) {
	l.logger.Trace(msg, l.logger.Args(args...))
}

func (l *ptermLogger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, l.logger.Args(args...))
}

func (l *ptermLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, l.logger.Args(args...))
}

func (l *ptermLogger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, l.logger.Args(args...))
}

func (l *ptermLogger) Error(msg string, args ...any) {
	l.logger.Error(msg, l.logger.Args(args...))
}

type noopLogger struct{}

// NewNoopLogger returns a Logger that discards everything, the default when
// Options.Logger is left unset.
func NewNoopLogger() Logger {
	return noopLogger{}
}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
