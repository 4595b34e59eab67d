package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/oszuidwest/zwfm-ledmeter/internal/types"
)

// maxLogEntries is how many alert log entries the monitor shows.
const maxLogEntries = 100

// WSCommand is a command received from a WebSocket client.
type WSCommand struct {
	Type string `json:"type"`
}

// CommandHandler processes WebSocket commands.
type CommandHandler struct {
	logPath      string
	testTriggers map[string]func() error
}

// NewCommandHandler creates a command handler. testTriggers maps a sink name
// such as "webhook" to a function that sends a test alert.
func NewCommandHandler(logPath string, testTriggers map[string]func() error) *CommandHandler {
	return &CommandHandler{
		logPath:      logPath,
		testTriggers: testTriggers,
	}
}

// Handle runs cmd and answers on conn. Answers are written from a new
// goroutine because alert tests can take a while.
func (h *CommandHandler) Handle(cmd WSCommand, conn *Conn) {
	switch {
	case strings.HasPrefix(cmd.Type, "test_"):
		h.handleTest(conn, strings.TrimPrefix(cmd.Type, "test_"))
	case cmd.Type == "view_silence_log":
		go h.handleViewSilenceLog(conn)
	default:
		slog.Warn("unknown websocket command", "type", cmd.Type)
	}
}

// handleTest sends a test alert and reports the outcome.
func (h *CommandHandler) handleTest(conn *Conn, testType string) {
	trigger, ok := h.testTriggers[testType]
	if !ok {
		slog.Warn("unknown test type", "type", testType)
		return
	}

	go func() {
		result := types.WSTestResult{
			Type:     "test_result",
			TestType: testType,
			Success:  true,
		}
		if err := trigger(); err != nil {
			slog.Error("test failed", "type", testType, "error", err)
			result.Success = false
			result.Error = err.Error()
		} else {
			slog.Info("test succeeded", "type", testType)
		}

		if err := conn.WriteJSON(result); err != nil {
			slog.Error("failed to send test response", "type", testType, "error", err)
		}
	}()
}

// handleViewSilenceLog sends the newest alert log entries.
func (h *CommandHandler) handleViewSilenceLog(conn *Conn) {
	result := types.WSSilenceLogResult{
		Type:    "silence_log_result",
		Success: true,
	}

	if h.logPath == "" {
		result.Success = false
		result.Error = "Log file path not configured"
	} else if entries, err := readSilenceLog(h.logPath, maxLogEntries); err != nil {
		result.Success = false
		result.Error = err.Error()
	} else {
		result.Entries = entries
		result.Path = h.logPath
	}

	if err := conn.WriteJSON(result); err != nil {
		slog.Error("failed to send silence log response", "error", err)
	}
}

// readSilenceLog returns up to maxEntries log entries, newest first.
func readSilenceLog(logPath string, maxEntries int) ([]types.SilenceLogEntry, error) {
	data, err := os.ReadFile(logPath)
	if os.IsNotExist(err) {
		return []types.SilenceLogEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}

	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return []types.SilenceLogEntry{}, nil
	}
	lines := strings.Split(trimmed, "\n")
	lines = lines[max(0, len(lines)-maxEntries):]

	entries := make([]types.SilenceLogEntry, 0, len(lines))
	for _, line := range lines {
		var entry types.SilenceLogEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	slices.Reverse(entries)
	return entries, nil
}
