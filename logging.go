package appsettings

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// The package logs advisories only: zero-load access, defaulted and extra
// parameters, unsupported formats, stale paths. Hard failures are returned
// as errors, never logged here.

var pkgLogger atomic.Pointer[slog.Logger]

// SetLogger replaces the logger used for advisories. Passing nil reverts to
// slog.Default(). The host application controls handlers and level
// filtering; strict mode only selects between Debug and Warn severity.
func SetLogger(l *slog.Logger) {
	if l == nil {
		pkgLogger.Store(nil)
		return
	}
	pkgLogger.Store(l)
}

func logger() *slog.Logger {
	if l := pkgLogger.Load(); l != nil {
		return l
	}
	return slog.Default()
}

// logAdvisory emits an advisory at the severity implied by the kind's
// strict-mode flag.
func logAdvisory(kind ParameterKind, msg string, args ...any) {
	logger().Log(context.Background(), logLevel(kind), msg, args...)
}
