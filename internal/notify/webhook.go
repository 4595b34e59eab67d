package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/oszuidwest/zwfm-ledmeter/internal/util"
)

// webhookTimeout bounds a single webhook delivery.
const webhookTimeout = 10 * time.Second

// SendSilenceWebhook posts a signal-loss event to the webhook URL.
func SendSilenceWebhook(webhookURL string, duration, threshold float64) error {
	return sendWebhook(webhookURL, map[string]any{
		"event":            "silence_detected",
		"source":           "ledmeter",
		"silence_duration": duration,
		"threshold":        threshold,
		"timestamp":        util.RFC3339Now(),
	})
}

// SendRecoveryWebhook posts a recovery event to the webhook URL.
func SendRecoveryWebhook(webhookURL string, silenceDuration float64) error {
	return sendWebhook(webhookURL, map[string]any{
		"event":            "silence_recovered",
		"source":           "ledmeter",
		"silence_duration": silenceDuration,
		"timestamp":        util.RFC3339Now(),
	})
}

// SendTestWebhook posts a test event to verify the webhook configuration.
func SendTestWebhook(webhookURL string) error {
	if webhookURL == "" {
		return fmt.Errorf("webhook URL not configured")
	}

	return sendWebhook(webhookURL, map[string]any{
		"event":     "test",
		"source":    "ledmeter",
		"message":   "This is a test notification from the ZuidWest FM LED meter",
		"timestamp": util.RFC3339Now(),
	})
}

// sendWebhook posts payload as JSON.
func sendWebhook(webhookURL string, payload map[string]any) error {
	if !util.IsConfigured(webhookURL) {
		return nil
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return util.WrapError("marshal payload", err)
	}

	client := &http.Client{Timeout: webhookTimeout}
	resp, err := client.Post(webhookURL, "application/json", bytes.NewReader(jsonData))
	if err != nil {
		return util.WrapError("send webhook request", err)
	}
	defer util.SafeCloseFunc(resp.Body, "webhook response body")()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}
