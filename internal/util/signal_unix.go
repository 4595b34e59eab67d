//go:build !windows

package util

import (
	"os"
	"syscall"
)

// ShutdownSignals returns the signals that trigger a graceful shutdown.
func ShutdownSignals() []os.Signal {
	return []os.Signal{syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM}
}

// GracefulSignal asks a child process to exit cleanly.
func GracefulSignal(p *os.Process) error {
	return p.Signal(syscall.SIGINT)
}
