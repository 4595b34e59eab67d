//go:build windows

package util

import (
	"errors"
	"os"
)

// ErrGracefulNotSupported is returned by GracefulSignal on Windows, which makes
// exec.Cmd fall back to killing the process after WaitDelay.
var ErrGracefulNotSupported = errors.New("graceful signal not supported on Windows")

// ShutdownSignals returns the signals that trigger a graceful shutdown.
func ShutdownSignals() []os.Signal {
	return []os.Signal{os.Interrupt}
}

// GracefulSignal asks a child process to exit cleanly.
func GracefulSignal(_ *os.Process) error {
	return ErrGracefulNotSupported
}
