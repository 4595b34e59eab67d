package util

import "log/slog"

// LogNotifyResult runs a notification sender and logs how it went.
func LogNotifyResult(fn func() error, kind string) {
	if err := fn(); err != nil {
		slog.Error("notification failed", "kind", kind, "error", err)
		return
	}
	slog.Info("notification sent", "kind", kind)
}
