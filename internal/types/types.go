// Package types provides shared type definitions used across the meter.
package types

import "time"

// EngineState represents the lifecycle state of the meter engine.
type EngineState string

const (
	// StateStopped indicates the engine is not running.
	StateStopped EngineState = "stopped"
	// StateStarting indicates the engine is initializing its input and outputs.
	StateStarting EngineState = "starting"
	// StateRunning indicates the tick loop is active.
	StateRunning EngineState = "running"
	// StateStopping indicates the engine is shutting down.
	StateStopping EngineState = "stopping"
)

// Retry settings for the capture process.
const (
	InitialRetryDelay = 1 * time.Second
	MaxRetryDelay     = 30 * time.Second
	SuccessThreshold  = 30 * time.Second // Reset retry count after running this long
)

// ShutdownTimeout is how long a capture process gets to exit before it is killed.
const ShutdownTimeout = 3 * time.Second

// AudioDevice represents an audio input device.
type AudioDevice struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Frame is one tick of meter output as shown on the live monitor.
type Frame struct {
	Reading    float64 `json:"reading"`              // Raw dB reading of this tick
	Level      int     `json:"level"`                // Displayed level in dB after decay
	PeakLevel  int     `json:"peak_level"`           // Held peak in dB
	PeakActive bool    `json:"peak_active,omitzero"` // Peak-hold overlay is shown
	Lights     []bool  `json:"lights"`               // Lit positions, lowest first
	NoData     bool    `json:"no_data,omitzero"`     // Last tick had no usable audio
}

// SourceStatus contains runtime status of the capture process.
type SourceStatus struct {
	Running    bool   `json:"running"`
	Device     string `json:"device"`
	LastError  string `json:"last_error,omitzero"`
	RetryCount int    `json:"retry_count,omitzero"`
}

// EngineStatus contains a summary of the engine's current operational state.
type EngineStatus struct {
	State     EngineState  `json:"state"`
	Uptime    string       `json:"uptime,omitzero"`
	Input     string       `json:"input"`
	Output    string       `json:"output"`
	Ticks     uint64       `json:"ticks"`
	NoData    uint64       `json:"no_data_ticks,omitzero"`
	Silence   bool         `json:"silence,omitzero"`
	Source    SourceStatus `json:"source,omitzero"`
	LastError string       `json:"last_error,omitzero"`
}

// SilenceLogEntry is one line of the JSON-lines alert log.
type SilenceLogEntry struct {
	Timestamp   string  `json:"timestamp"`
	Event       string  `json:"event"`
	DurationSec float64 `json:"duration_sec,omitzero"`
	ThresholdDB float64 `json:"threshold_db,omitzero"`
}

// VersionInfo describes the running build and the latest known release.
type VersionInfo struct {
	Current     string `json:"current"`
	Latest      string `json:"latest,omitzero"`
	UpdateAvail bool   `json:"update_available,omitzero"`
	Commit      string `json:"commit,omitzero"`
	BuildTime   string `json:"build_time,omitzero"`
}

// WSTestResult is sent to the monitor after a notification test.
type WSTestResult struct {
	Type     string `json:"type"`
	TestType string `json:"test_type"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitzero"`
}

// WSSilenceLogResult carries the newest alert log entries to the monitor.
type WSSilenceLogResult struct {
	Type    string            `json:"type"`
	Success bool              `json:"success"`
	Entries []SilenceLogEntry `json:"entries,omitzero"`
	Path    string            `json:"path,omitzero"`
	Error   string            `json:"error,omitzero"`
}
