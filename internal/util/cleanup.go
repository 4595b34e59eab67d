// Package util provides small helpers shared across the meter.
package util

import (
	"io"
	"log/slog"
)

// SafeClose closes closer and logs a failure. A nil closer is ignored.
func SafeClose(closer io.Closer, name string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		slog.Warn("failed to close resource", "resource", name, "error", err)
	}
}

// SafeCloseFunc returns a closure for use with defer.
func SafeCloseFunc(closer io.Closer, name string) func() {
	return func() {
		SafeClose(closer, name)
	}
}
