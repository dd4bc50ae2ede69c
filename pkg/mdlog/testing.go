package mdlog

import (
	"context"
	"log/slog"
	"sync"
)

// LoggedEntry captures one structured log record for test assertions.
type LoggedEntry struct {
	Level slog.Level
	Msg   string
	Attrs map[string]any
}

// TestHandler is a thread-safe slog.Handler that records entries instead of
// writing them, for use in tests that assert on logging behavior.
type TestHandler struct {
	mu      sync.Mutex
	Entries []LoggedEntry
}

func NewTestLogger() (*slog.Logger, *TestHandler) {
	th := &TestHandler{}
	return slog.New(th), th
}

func (h *TestHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *TestHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := map[string]any{}
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})
	h.mu.Lock()
	h.Entries = append(h.Entries, LoggedEntry{Level: r.Level, Msg: r.Message, Attrs: attrs})
	h.mu.Unlock()
	return nil
}

func (h *TestHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }
func (h *TestHandler) WithGroup(_ string) slog.Handler      { return h }

// Find returns a copy of every recorded entry matching pred.
func (h *TestHandler) Find(pred func(LoggedEntry) bool) []LoggedEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []LoggedEntry
	for _, e := range h.Entries {
		if pred(e) {
			out = append(out, e)
		}
	}
	return out
}

var _ slog.Handler = (*TestHandler)(nil)
