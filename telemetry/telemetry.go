// Package telemetry wires the control core's structured logging
// (log/slog) to an optional Sentry sink, the way the GUI-frontend sibling
// project wires its own diagnostics: logs always go to the configured
// writer, and error-level lines are additionally reported to Sentry when
// a DSN is configured.
package telemetry

import (
	"log/slog"
	"os"
	"runtime"
	"time"

	gosentry "github.com/getsentry/sentry-go"
)

var enabled bool

// Init initializes the Sentry SDK when dsn is non-empty. version is
// attached to every event/breadcrumb. Safe to call with an empty dsn —
// Sentry reporting then stays off: Flush and RecoverPanic do nothing, and
// NewLogger's logger only writes to its output.
func Init(dsn, version string) error {
	if dsn == "" {
		enabled = false
		return nil
	}

	if err := gosentry.Init(gosentry.ClientOptions{
		Dsn:              dsn,
		Release:          "termania@" + version,
		AttachStacktrace: true,
		SampleRate:       1.0,
	}); err != nil {
		return err
	}

	gosentry.ConfigureScope(func(scope *gosentry.Scope) {
		scope.SetTag("os", runtime.GOOS)
		scope.SetTag("arch", runtime.GOARCH)
		scope.SetTag("go_version", runtime.Version())
		scope.SetTag("version", version)
	})

	enabled = true
	return nil
}

// IsEnabled reports whether Sentry reporting is active.
func IsEnabled() bool { return enabled }

// Flush waits up to 2 seconds for buffered events to be sent.
func Flush() {
	if !enabled {
		return
	}
	gosentry.Flush(2 * time.Second)
}

// RecoverPanic captures a panic to Sentry, flushes, then re-panics, so
// the panic still propagates. cmd/termaniad defers it at the top of its
// serve command; the ABI shim does not use it.
func RecoverPanic() {
	if !enabled {
		return
	}
	if err := recover(); err != nil {
		gosentry.CurrentHub().Recover(err)
		gosentry.Flush(2 * time.Second)
		panic(err)
	}
}

// NewLogger returns the process-wide structured logger: text-handler to
// stderr when out is nil, tee'd to Sentry through sentryHandler
// (handler.go) when Sentry is enabled.
func NewLogger(out *os.File) *slog.Logger {
	if out == nil {
		out = os.Stderr
	}
	h := &sentryHandler{inner: slog.NewTextHandler(out, nil)}
	return slog.New(h)
}
