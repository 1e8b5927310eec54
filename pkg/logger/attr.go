// Package logger provides slog attribute helpers shared across the SDK.
//
// Helpers use the empty Attr pattern for nil safety: log.Info("msg",
// logger.Error(err)) is valid even when err is nil.
package logger

import (
	"log/slog"
	"time"
)

// Error creates an attribute for a single error under the key "error".
// Returns an empty Attr for nil errors.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Duration creates an attribute for a duration under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Component tags log lines with the emitting component's name.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event tags log lines with a realtime event kind.
func Event(kind string) slog.Attr {
	return slog.String("event", kind)
}
