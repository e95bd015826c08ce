package aspen

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record. Enabled reports false so callers skip
// formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger used by aspen and its backends.
// By default aspen produces no log output. Pass nil to silence it again.
//
// Log levels used by aspen:
//   - [slog.LevelDebug]: per-frame diagnostics (batch resorts, viewport passes, draw counts)
//   - [slog.LevelInfo]: lifecycle events (context created, backend selected)
//   - [slog.LevelWarn]: non-fatal issues (unsupported blend factors, double releases)
//
// Example:
//
//	aspen.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger. Backend packages call this so they share
// the configuration set with SetLogger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
