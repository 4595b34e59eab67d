package notify

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/oszuidwest/zwfm-ledmeter/internal/types"
	"github.com/oszuidwest/zwfm-ledmeter/internal/util"
)

// LogSilenceStart appends a silence_start entry to the alert log.
func LogSilenceStart(logPath string, threshold float64) error {
	return appendLogEntry(logPath, types.SilenceLogEntry{
		Timestamp:   util.RFC3339Now(),
		Event:       "silence_start",
		ThresholdDB: threshold,
	})
}

// LogSilenceEnd appends a silence_end entry with the total silence duration.
func LogSilenceEnd(logPath string, silenceDuration, threshold float64) error {
	return appendLogEntry(logPath, types.SilenceLogEntry{
		Timestamp:   util.RFC3339Now(),
		Event:       "silence_end",
		DurationSec: silenceDuration,
		ThresholdDB: threshold,
	})
}

// WriteTestLog appends a test entry to verify the log file configuration.
func WriteTestLog(logPath string) error {
	if logPath == "" {
		return fmt.Errorf("log file path not configured")
	}

	return appendLogEntry(logPath, types.SilenceLogEntry{
		Timestamp: util.RFC3339Now(),
		Event:     "test",
	})
}

// appendLogEntry appends one JSON line to the file.
func appendLogEntry(logPath string, entry types.SilenceLogEntry) error {
	if !util.IsConfigured(logPath) {
		return nil
	}

	jsonData, err := json.Marshal(entry)
	if err != nil {
		return util.WrapError("marshal log entry", err)
	}
	jsonData = append(jsonData, '\n')

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return util.WrapError("open log file", err)
	}
	defer util.SafeCloseFunc(f, "log file")()

	if _, err := f.Write(jsonData); err != nil {
		return util.WrapError("write log entry", err)
	}

	return nil
}
