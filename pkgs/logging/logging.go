// Package logging supplies the observability sink the core pipeline
// consumes. The core never imports log/slog directly — it depends only
// on the small Logger interface below, so tests can substitute a
// recording stub without touching a real sink.
package logging

import (
	"log/slog"
	"os"
)

// Logger is the interface the tokenizer, parser, and CLI log through
// (the graph emitter does not log). It never affects correctness, only observability (spec §6).
type Logger interface {
	Info(msg string)
	Error(msg string)
}

// slogLogger adapts a *slog.Logger to Logger.
type slogLogger struct {
	inner *slog.Logger
}

func (l slogLogger) Info(msg string)  { l.inner.Info(msg) }
func (l slogLogger) Error(msg string) { l.inner.Error(msg) }

// New builds a Logger backed by log/slog, writing text-formatted
// records to stderr. When debug is false only Error-level records are
// emitted; when true, Info records are emitted too.
//
// This mirrors the teacher's debug-gated slog.Logger
// (cli/internal/parser/parser.go): a text handler with a ReplaceAttr
// that drops the timestamp and level keys, producing terse
// single-line traces instead of slog's default structured form.
func New(debug bool) Logger {
	level := slog.LevelError
	if debug {
		level = slog.LevelInfo
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	})
	return slogLogger{inner: slog.New(handler)}
}

// Discard is a Logger that drops everything, used by callers (and most
// tests) that don't care about observability.
var Discard Logger = discard{}

type discard struct{}

func (discard) Info(string)  {}
func (discard) Error(string) {}

// Recorder is a Logger that keeps every message it receives, for tests
// that assert on what was logged.
type Recorder struct {
	Infos  []string
	Errors []string
}

func (r *Recorder) Info(msg string)  { r.Infos = append(r.Infos, msg) }
func (r *Recorder) Error(msg string) { r.Errors = append(r.Errors, msg) }
