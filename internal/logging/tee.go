package logging

import (
	"context"
	"log/slog"
)

// teeHandler duplicates records across its targets. A failing target
// does not silence the others; the first error is reported.
type teeHandler struct {
	targets []slog.Handler
}

func (t *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t.targets {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t *teeHandler) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	for _, h := range t.targets {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		if err := h.Handle(ctx, record.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (t *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	targets := make([]slog.Handler, 0, len(t.targets))
	for _, h := range t.targets {
		targets = append(targets, h.WithAttrs(attrs))
	}
	return &teeHandler{targets: targets}
}

func (t *teeHandler) WithGroup(name string) slog.Handler {
	targets := make([]slog.Handler, 0, len(t.targets))
	for _, h := range t.targets {
		targets = append(targets, h.WithGroup(name))
	}
	return &teeHandler{targets: targets}
}
