// Package mdlog provides the structured logger shared by every mdtool CLI
// surface and internal package. It is a thin wrapper over log/slog, carried
// through context.Context rather than a package-level global.
package mdlog

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// LoggerConfig is a minimal, convenient set of options for NewLogger.
type LoggerConfig struct {
	Version string

	// If Out is nil, stderr is used (stdout is reserved for command output).
	Out io.Writer

	Level slog.Level
	JSON  bool // true => JSON output, false => text
}

// NewLogger builds a configured *slog.Logger and a no-op shutdown func,
// kept for symmetry with callers that expect to defer a shutdown hook if a
// buffered or file-backed writer is added later.
func NewLogger(cfg LoggerConfig) (*slog.Logger, func() error, error) {
	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: cfg.Level}
	if cfg.JSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	logger := slog.New(handler)
	if cfg.Version != "" {
		logger = logger.With(slog.String("version", cfg.Version))
	}
	return logger, func() error { return nil }, nil
}

// ParseLevel maps common level names to slog.Level, defaulting to Info for
// anything unrecognized (including the empty string).
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type ctxKeyType struct{}

var ctxKey ctxKeyType

// DefaultLogger discards everything; it is the context value a command
// checks against to decide whether a production logger still needs to be
// installed (so tests that inject their own logger are left alone).
var DefaultLogger = slog.New(&nopHandler{})

// WithLogger stores lg on ctx.
func WithLogger(ctx context.Context, lg *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey, lg)
}

// LoggerFromContext returns the logger stored on ctx, or DefaultLogger.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return DefaultLogger
	}
	if v := ctx.Value(ctxKey); v != nil {
		if lg, ok := v.(*slog.Logger); ok && lg != nil {
			return lg
		}
	}
	return DefaultLogger
}

type nopHandler struct{}

func (n *nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (n *nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (n *nopHandler) WithAttrs(attrs []slog.Attr) slog.Handler  { return n }
func (n *nopHandler) WithGroup(name string) slog.Handler        { return n }

var _ slog.Handler = (*nopHandler)(nil)
