package audio

import "time"

// SilenceConfig holds the thresholds for signal-loss detection.
type SilenceConfig struct {
	Threshold float64 // dB level below which the meter input counts as silent
	Duration  float64 // seconds of silence before alerting
	Recovery  float64 // seconds of signal before considering it recovered
}

// SilenceEvent is the result of one SilenceDetector update.
type SilenceEvent struct {
	InSilence     bool    // confirmed silence, including the recovery period
	Duration      float64 // seconds of the current silence
	JustEntered   bool    // silence was confirmed on this update
	JustRecovered bool    // signal was confirmed back on this update
	TotalDuration float64 // length of the silence that just ended
}

// SilenceDetector tracks signal loss with hysteresis. It only reports silence
// after Duration seconds below the threshold, and only reports recovery after
// Recovery seconds above it. It is not safe for concurrent use.
type SilenceDetector struct {
	cfg           SilenceConfig
	silenceStart  time.Time
	recoveryStart time.Time
	inSilence     bool
}

// NewSilenceDetector creates a detector using cfg.
func NewSilenceDetector(cfg SilenceConfig) *SilenceDetector {
	return &SilenceDetector{cfg: cfg}
}

// Update feeds one reading taken at now. No-data ticks should pass FloorDB.
func (d *SilenceDetector) Update(db float64, now time.Time) SilenceEvent {
	var ev SilenceEvent

	if db < d.cfg.Threshold {
		d.recoveryStart = time.Time{}
		if d.silenceStart.IsZero() {
			d.silenceStart = now
		}
		silent := now.Sub(d.silenceStart).Seconds()

		if !d.inSilence && silent >= d.cfg.Duration {
			d.inSilence = true
			ev.JustEntered = true
		}
		if d.inSilence {
			ev.InSilence = true
			ev.Duration = silent
		}
		return ev
	}

	if !d.inSilence {
		d.silenceStart = time.Time{}
		return ev
	}

	if d.recoveryStart.IsZero() {
		d.recoveryStart = now
	}
	if now.Sub(d.recoveryStart).Seconds() < d.cfg.Recovery {
		ev.InSilence = true
		ev.Duration = d.recoveryStart.Sub(d.silenceStart).Seconds()
		return ev
	}

	ev.JustRecovered = true
	ev.TotalDuration = d.recoveryStart.Sub(d.silenceStart).Seconds()
	d.inSilence = false
	d.silenceStart = time.Time{}
	d.recoveryStart = time.Time{}
	return ev
}

// Reset clears the detection state.
func (d *SilenceDetector) Reset() {
	d.silenceStart = time.Time{}
	d.recoveryStart = time.Time{}
	d.inSilence = false
}
