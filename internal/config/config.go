// Package config provides the meter configuration and the values derived from it.
package config

import (
	"cmp"
	"errors"
	"time"

	"github.com/oszuidwest/zwfm-ledmeter/internal/audio"
	"github.com/oszuidwest/zwfm-ledmeter/internal/meter"
	"github.com/oszuidwest/zwfm-ledmeter/internal/util"
)

// Configuration defaults.
const (
	DefaultRate             = 40
	DefaultRefLevel         = 0.0
	DefaultDecayStep        = 4
	DefaultSingleDecayStep  = 2
	DefaultDecayBias        = 2
	DefaultLights           = 8
	DefaultChannels         = 2
	DefaultSampleRate       = 48000
	DefaultWebUsername      = "admin"
	DefaultWebPassword      = "ledmeter"
	DefaultSilenceThreshold = -40.0
	DefaultSilenceDuration  = 15.0
	DefaultSilenceRecovery  = 5.0
	DefaultEmailSMTPPort    = 587
	DefaultEmailFromName    = "ZuidWest FM LED Meter"
)

// AutoDecay selects the decay step that fits the display mode.
const AutoDecay = -1

// Limits for the meter settings.
const (
	MaxRate      = 1000
	MaxDecayStep = 10
)

// holdSeconds is both the peak-hold time and the base of the decay window.
const holdSeconds = 1.6

// OutputMode selects the indicator back-end.
type OutputMode string

// Supported output modes.
const (
	OutputGPIO          OutputMode = "gpio"
	OutputShiftRegister OutputMode = "shift-register"
	OutputText          OutputMode = "text"
	OutputTerminal      OutputMode = "terminal"
	OutputNone          OutputMode = "none"
)

// OutputModes lists every supported output mode.
func OutputModes() []string {
	return []string{
		string(OutputGPIO), string(OutputShiftRegister), string(OutputText),
		string(OutputTerminal), string(OutputNone),
	}
}

// Hardware reports whether the mode drives real pins.
func (m OutputMode) Hardware() bool {
	return m == OutputGPIO || m == OutputShiftRegister
}

// InputMode selects where readings come from.
type InputMode string

// Supported input modes.
const (
	InputCapture InputMode = "capture"
	InputText    InputMode = "text"
)

// MeterConfig contains the pipeline settings.
type MeterConfig struct {
	Rate      int     `json:"rate"`
	RefLevel  float64 `json:"ref_level"`
	Decay     int     `json:"decay"`
	DecayBias int     `json:"decay_bias"`
	Lights    int     `json:"lights"`
	Single    bool    `json:"single"`
	PeakHold  bool    `json:"peak_hold"`
	Scale     string  `json:"scale"`
}

// AudioConfig contains audio input configuration.
type AudioConfig struct {
	Input      InputMode `json:"input"`
	Device     string    `json:"device,omitzero"`
	Channels   int       `json:"channels"`
	SampleRate int       `json:"sample_rate"`
}

// OutputConfig contains indicator output configuration.
type OutputConfig struct {
	Mode     OutputMode `json:"mode"`
	FirstPin int        `json:"first_pin"`
	SelfTest bool       `json:"self_test"`
}

// WebConfig contains web monitor configuration. Port 0 disables the monitor.
type WebConfig struct {
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"-"`
}

// SilenceDetectionConfig contains silence detection configuration.
type SilenceDetectionConfig struct {
	ThresholdDB     float64 `json:"threshold_db"`
	DurationSeconds float64 `json:"duration_seconds"`
	RecoverySeconds float64 `json:"recovery_seconds"`
}

// EmailConfig contains email notification configuration.
type EmailConfig struct {
	Host       string `json:"host,omitzero"`
	Port       int    `json:"port,omitzero"`
	FromName   string `json:"from_name,omitzero"`
	Username   string `json:"username,omitzero"`
	Password   string `json:"-"`
	Recipients string `json:"recipients,omitzero"`
}

// NotificationsConfig contains all notification configuration.
type NotificationsConfig struct {
	WebhookURL string      `json:"webhook_url,omitzero"`
	LogPath    string      `json:"log_path,omitzero"`
	Email      EmailConfig `json:"email,omitzero"`
}

// Config holds all application configuration. It is built once at startup
// and passed by value, so it needs no locking.
type Config struct {
	Meter            MeterConfig            `json:"meter"`
	Audio            AudioConfig            `json:"audio"`
	Output           OutputConfig           `json:"output"`
	Web              WebConfig              `json:"web"`
	SilenceDetection SilenceDetectionConfig `json:"silence_detection"`
	Notifications    NotificationsConfig    `json:"notifications,omitzero"`
}

// New returns a Config with default values.
func New() Config {
	return Config{
		Meter: MeterConfig{
			Rate:      DefaultRate,
			RefLevel:  DefaultRefLevel,
			Decay:     AutoDecay,
			DecayBias: DefaultDecayBias,
			Lights:    DefaultLights,
			Scale:     meter.DefaultScale,
		},
		Audio: AudioConfig{
			Input:      InputCapture,
			Channels:   DefaultChannels,
			SampleRate: DefaultSampleRate,
		},
		Output: OutputConfig{
			Mode:     OutputGPIO,
			SelfTest: true,
		},
		Web: WebConfig{
			Username: DefaultWebUsername,
			Password: DefaultWebPassword,
		},
		SilenceDetection: SilenceDetectionConfig{
			ThresholdDB:     DefaultSilenceThreshold,
			DurationSeconds: DefaultSilenceDuration,
			RecoverySeconds: DefaultSilenceRecovery,
		},
		Notifications: NotificationsConfig{
			Email: EmailConfig{
				Port:     DefaultEmailSMTPPort,
				FromName: DefaultEmailFromName,
			},
		},
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	add := func(v *util.ValidationError) {
		if v != nil {
			errs = append(errs, v)
		}
	}

	add(util.ValidateRange("rate", c.Meter.Rate, 1, MaxRate))
	add(util.ValidateRange("leds", c.Meter.Lights, 1, meter.MaxLights))
	add(util.ValidateRangeFloat("ref-level", c.Meter.RefLevel, -144, 144))
	add(util.ValidateOneOf("scale", c.Meter.Scale, meter.ScaleNames()...))
	add(util.ValidateOneOf("output", string(c.Output.Mode), OutputModes()...))
	add(util.ValidateOneOf("input", string(c.Audio.Input), string(InputCapture), string(InputText)))
	add(util.ValidateRange("first-pin", c.Output.FirstPin, 0, 31))
	add(util.ValidateRange("channels", c.Audio.Channels, 1, 32))
	add(util.ValidateRange("sample-rate", c.Audio.SampleRate, 8000, 384000))
	add(util.ValidateRangeFloat("silence-threshold", c.SilenceDetection.ThresholdDB, -144, 0))
	add(util.ValidateRangeFloat("silence-duration", c.SilenceDetection.DurationSeconds, 0.5, 3600))
	add(util.ValidateRangeFloat("silence-recovery", c.SilenceDetection.RecoverySeconds, 0.5, 3600))
	if c.Web.Port != 0 {
		add(util.ValidatePort("web-port", c.Web.Port))
	}
	if c.Notifications.Email.Host != "" {
		add(util.ValidatePort("smtp-port", c.Notifications.Email.Port))
	}

	return errors.Join(errs...)
}

// Bias returns the linear factor that maps the reference level to 0 dB.
func (c Config) Bias() float64 {
	return audio.Bias(c.Meter.RefLevel)
}

// TickInterval returns the time between two meter updates.
func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(max(c.Meter.Rate, 1))
}

// DecayStep returns the dB drop per decay step. An explicit value is clamped
// to 0..MaxDecayStep; AutoDecay picks a gentler step for a single light.
func (c Config) DecayStep() int {
	if c.Meter.Decay == AutoDecay {
		if c.Meter.Single {
			return DefaultSingleDecayStep
		}
		return DefaultDecayStep
	}
	return min(max(c.Meter.Decay, 0), MaxDecayStep)
}

// DecayBias returns the decay window multiplier, at least 1.
func (c Config) DecayBias() int {
	return max(c.Meter.DecayBias, 1)
}

// PeakHoldTicks returns how many ticks make up 1.6 seconds.
func (c Config) PeakHoldTicks() int {
	return int(holdSeconds * float64(max(c.Meter.Rate, 1)))
}

// DecayWindowTicks returns how many lower ticks pass between decay steps.
// The integer division is deliberate and yields 2 at the default rate and bias.
func (c Config) DecayWindowTicks() int {
	rate := max(c.Meter.Rate, 1)
	return max(c.PeakHoldTicks()/rate*c.DecayBias(), 1)
}

// Ballistics returns the animator timing derived from the meter settings.
func (c Config) Ballistics() meter.Ballistics {
	b := meter.Ballistics{
		DecayStep:   c.DecayStep(),
		DecayWindow: c.DecayWindowTicks(),
	}
	if c.Meter.PeakHold {
		b.HoldTicks = c.PeakHoldTicks()
	}
	return b
}

// Thresholds returns the configured threshold table.
func (c Config) Thresholds() (meter.ThresholdTable, error) {
	return meter.Scale(cmp.Or(c.Meter.Scale, meter.DefaultScale))
}

// Mapper returns the display mapper for the configured lights.
func (c Config) Mapper() (*meter.Mapper, error) {
	table, err := c.Thresholds()
	if err != nil {
		return nil, err
	}
	if err := table.Validate(c.Meter.Lights); err != nil {
		return nil, err
	}
	mode := meter.ModeBar
	if c.Meter.Single {
		mode = meter.ModeSingle
	}
	return &meter.Mapper{
		Table:    table,
		Count:    c.Meter.Lights,
		Mode:     mode,
		PeakHold: c.Meter.PeakHold,
	}, nil
}

// ReadsStdin reports whether the meter consumes stdin for its levels.
func (c Config) ReadsStdin() bool {
	return c.Audio.Input == InputText
}

// HasWebhook returns true if a webhook URL is configured.
func (c Config) HasWebhook() bool {
	return c.Notifications.WebhookURL != ""
}

// HasEmail returns true if email notifications are configured.
func (c Config) HasEmail() bool {
	return util.IsConfigured(c.Notifications.Email.Host, c.Notifications.Email.Username, c.Notifications.Email.Recipients)
}

// HasLogPath returns true if an alert log path is configured.
func (c Config) HasLogPath() bool {
	return c.Notifications.LogPath != ""
}

// HasAlerts reports whether any alert sink is configured.
func (c Config) HasAlerts() bool {
	return c.HasWebhook() || c.HasEmail() || c.HasLogPath()
}

// Silence returns the signal-loss detector settings.
func (c Config) Silence() audio.SilenceConfig {
	return audio.SilenceConfig{
		Threshold: c.SilenceDetection.ThresholdDB,
		Duration:  c.SilenceDetection.DurationSeconds,
		Recovery:  c.SilenceDetection.RecoverySeconds,
	}
}

// CaptureFormat returns the PCM format requested from the capture process.
func (c Config) CaptureFormat() audio.Format {
	return audio.Format{SampleRate: c.Audio.SampleRate, Channels: c.Audio.Channels}
}
