package telemetry

import (
	"context"
	"log/slog"

	gosentry "github.com/getsentry/sentry-go"
)

// sentryHandler tees every record to the wrapped handler and, when Sentry
// is enabled, promotes Error+ records to captured messages and every
// lower-level record to a breadcrumb (warning level for Warn, info level
// otherwise).
type sentryHandler struct {
	inner slog.Handler
}

func (h *sentryHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *sentryHandler) Handle(ctx context.Context, r slog.Record) error {
	if enabled {
		switch {
		case r.Level >= slog.LevelError:
			gosentry.CaptureMessage(r.Message)
		case r.Level >= slog.LevelWarn:
			gosentry.AddBreadcrumb(&gosentry.Breadcrumb{
				Level:    gosentry.LevelWarning,
				Category: "log",
				Message:  r.Message,
			})
		default:
			gosentry.AddBreadcrumb(&gosentry.Breadcrumb{
				Level:    gosentry.LevelInfo,
				Category: "log",
				Message:  r.Message,
			})
		}
	}
	return h.inner.Handle(ctx, r)
}

func (h *sentryHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &sentryHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h *sentryHandler) WithGroup(name string) slog.Handler {
	return &sentryHandler{inner: h.inner.WithGroup(name)}
}
