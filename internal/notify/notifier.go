package notify

import (
	"sync"

	"github.com/oszuidwest/zwfm-ledmeter/internal/audio"
	"github.com/oszuidwest/zwfm-ledmeter/internal/config"
	"github.com/oszuidwest/zwfm-ledmeter/internal/util"
)

// SilenceNotifier turns silence events into alerts. It remembers which
// alerts went out for the current silence so each is sent once, and only
// sends a recovery alert on the channels that reported the loss.
type SilenceNotifier struct {
	cfg config.Config

	// mu protects the flags below
	mu          sync.Mutex
	webhookSent bool
	emailSent   bool
	logSent     bool

	wg sync.WaitGroup
}

// NewSilenceNotifier returns a SilenceNotifier for the sinks in cfg.
func NewSilenceNotifier(cfg config.Config) *SilenceNotifier {
	return &SilenceNotifier{cfg: cfg}
}

// HandleEvent processes the result of a SilenceDetector update.
func (n *SilenceNotifier) HandleEvent(event audio.SilenceEvent) {
	if event.JustEntered {
		n.handleSilenceStart(event.Duration)
	}
	if event.JustRecovered {
		n.handleSilenceEnd(event.TotalDuration)
	}
}

// Wait blocks until every alert in flight has been delivered or has failed.
func (n *SilenceNotifier) Wait() {
	n.wg.Wait()
}

// Reset forgets which alerts were sent.
func (n *SilenceNotifier) Reset() {
	n.mu.Lock()
	n.webhookSent = false
	n.emailSent = false
	n.logSent = false
	n.mu.Unlock()
}

func (n *SilenceNotifier) handleSilenceStart(duration float64) {
	threshold := n.cfg.SilenceDetection.ThresholdDB

	n.trySend(&n.webhookSent, n.cfg.HasWebhook(), func() {
		util.LogNotifyResult(func() error {
			return SendSilenceWebhook(n.cfg.Notifications.WebhookURL, duration, threshold)
		}, "silence webhook")
	})
	n.trySend(&n.emailSent, n.cfg.HasEmail(), func() {
		email := n.cfg.Notifications.Email
		util.LogNotifyResult(func() error {
			return SendSilenceAlert(&email, duration, threshold)
		}, "silence email")
	})
	n.trySend(&n.logSent, n.cfg.HasLogPath(), func() {
		util.LogNotifyResult(func() error {
			return LogSilenceStart(n.cfg.Notifications.LogPath, threshold)
		}, "silence log")
	})
}

func (n *SilenceNotifier) handleSilenceEnd(total float64) {
	n.mu.Lock()
	webhook, email, log := n.webhookSent, n.emailSent, n.logSent
	n.webhookSent = false
	n.emailSent = false
	n.logSent = false
	n.mu.Unlock()

	if webhook {
		n.spawn(func() {
			util.LogNotifyResult(func() error {
				return SendRecoveryWebhook(n.cfg.Notifications.WebhookURL, total)
			}, "recovery webhook")
		})
	}
	if email {
		n.spawn(func() {
			cfg := n.cfg.Notifications.Email
			util.LogNotifyResult(func() error {
				return SendRecoveryAlert(&cfg, total)
			}, "recovery email")
		})
	}
	if log {
		n.spawn(func() {
			util.LogNotifyResult(func() error {
				return LogSilenceEnd(n.cfg.Notifications.LogPath, total, n.cfg.SilenceDetection.ThresholdDB)
			}, "recovery log")
		})
	}
}

// trySend sets the flag and starts sender unless it was already set.
func (n *SilenceNotifier) trySend(sent *bool, condition bool, sender func()) {
	n.mu.Lock()
	shouldSend := !*sent && condition
	if shouldSend {
		*sent = true
	}
	n.mu.Unlock()
	if shouldSend {
		n.spawn(sender)
	}
}

func (n *SilenceNotifier) spawn(fn func()) {
	n.wg.Go(fn)
}
