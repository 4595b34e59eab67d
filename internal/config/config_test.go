package config

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/oszuidwest/zwfm-ledmeter/internal/meter"
	"github.com/oszuidwest/zwfm-ledmeter/internal/util"
)

func TestDefaultsValid(t *testing.T) {
	if err := New().Validate(); err != nil {
		t.Fatalf("New().Validate() = %v", err)
	}
}

func TestDerivedDefaults(t *testing.T) {
	c := New()

	if got := c.TickInterval(); got != 25*time.Millisecond {
		t.Errorf("TickInterval() = %v, want 25ms", got)
	}
	if got := c.PeakHoldTicks(); got != 64 {
		t.Errorf("PeakHoldTicks() = %d, want 64", got)
	}
	if got := c.DecayWindowTicks(); got != 2 {
		t.Errorf("DecayWindowTicks() = %d, want 2", got)
	}
	if got := c.DecayStep(); got != DefaultDecayStep {
		t.Errorf("DecayStep() = %d, want %d", got, DefaultDecayStep)
	}
	if got := c.Bias(); got != 1 {
		t.Errorf("Bias() = %v, want 1", got)
	}
}

func TestBias(t *testing.T) {
	tests := []struct {
		ref  float64
		want float64
	}{
		{0, 1},
		{20, 0.1},
		{-20, 10},
		{6, 0.501187},
	}

	for _, tt := range tests {
		c := New()
		c.Meter.RefLevel = tt.ref
		if got := c.Bias(); math.Abs(got-tt.want) > 1e-6 {
			t.Errorf("Bias() with ref %v = %v, want %v", tt.ref, got, tt.want)
		}
	}
}

func TestDecayStep(t *testing.T) {
	tests := []struct {
		name   string
		decay  int
		single bool
		want   int
	}{
		{"auto bar", AutoDecay, false, 4},
		{"auto single", AutoDecay, true, 2},
		{"explicit single", 6, true, 6},
		{"disabled", 0, false, 0},
		{"clamped high", 25, false, 10},
		{"clamped low", -7, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			c.Meter.Decay = tt.decay
			c.Meter.Single = tt.single
			if got := c.DecayStep(); got != tt.want {
				t.Errorf("DecayStep() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDecayWindowTicks(t *testing.T) {
	tests := []struct {
		rate int
		bias int
		want int
	}{
		{40, 2, 2},
		{40, 1, 1},
		{40, 0, 1},
		{40, 5, 5},
		{10, 3, 3},
		{1, 1, 1},
		{1000, 2, 2},
	}

	for _, tt := range tests {
		c := New()
		c.Meter.Rate = tt.rate
		c.Meter.DecayBias = tt.bias
		if got := c.DecayWindowTicks(); got != tt.want {
			t.Errorf("DecayWindowTicks() rate %d bias %d = %d, want %d", tt.rate, tt.bias, got, tt.want)
		}
	}
}

func TestBallisticsPeakHold(t *testing.T) {
	c := New()
	if got := c.Ballistics().HoldTicks; got != 0 {
		t.Errorf("HoldTicks without peak hold = %d, want 0", got)
	}
	c.Meter.PeakHold = true
	if got := c.Ballistics().HoldTicks; got != 64 {
		t.Errorf("HoldTicks with peak hold = %d, want 64", got)
	}
}

func TestMapper(t *testing.T) {
	c := New()
	c.Meter.Single = true
	c.Meter.Lights = 12
	m, err := c.Mapper()
	if err != nil {
		t.Fatal(err)
	}
	if m.Mode != meter.ModeSingle || m.Count != 12 {
		t.Errorf("Mapper() = mode %v count %d, want single 12", m.Mode, m.Count)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero rate", func(c *Config) { c.Meter.Rate = 0 }, "rate"},
		{"too many lights", func(c *Config) { c.Meter.Lights = 17 }, "leds"},
		{"no lights", func(c *Config) { c.Meter.Lights = 0 }, "leds"},
		{"unknown scale", func(c *Config) { c.Meter.Scale = "linear" }, "scale"},
		{"unknown output", func(c *Config) { c.Output.Mode = "serial" }, "output"},
		{"unknown input", func(c *Config) { c.Audio.Input = "jack" }, "input"},
		{"bad web port", func(c *Config) { c.Web.Port = 70000 }, "web-port"},
		{"bad smtp port", func(c *Config) {
			c.Notifications.Email.Host = "smtp.example.com"
			c.Notifications.Email.Port = 0
		}, "smtp-port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			tt.mutate(&c)
			err := c.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			var verr *util.ValidationError
			if !errors.As(err, &verr) || verr.Field != tt.field {
				t.Errorf("Validate() = %v, want error for %q", err, tt.field)
			}
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	c := New()
	c.Meter.Rate = 0
	c.Meter.Lights = 99
	err := c.Validate()
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok || len(joined.Unwrap()) != 2 {
		t.Errorf("Validate() = %v, want two joined errors", err)
	}
}

func TestAlertSinks(t *testing.T) {
	c := New()
	if c.HasAlerts() {
		t.Error("HasAlerts() = true with no sinks")
	}
	c.Notifications.Email.Host = "smtp.example.com"
	if c.HasEmail() {
		t.Error("HasEmail() = true without recipients")
	}
	c.Notifications.Email.Recipients = "ops@example.com"
	if c.HasEmail() {
		t.Error("HasEmail() = true without a sender address")
	}
	c.Notifications.Email.Username = "meter@example.com"
	if !c.HasEmail() || !c.HasAlerts() {
		t.Error("HasEmail() = false with host, sender and recipients")
	}
}

func TestReadsStdin(t *testing.T) {
	tests := []struct {
		input InputMode
		want  bool
	}{
		{InputCapture, false},
		{InputText, true},
	}
	for _, tt := range tests {
		cfg := New()
		cfg.Audio.Input = tt.input
		if got := cfg.ReadsStdin(); got != tt.want {
			t.Errorf("ReadsStdin() with input %s = %v, want %v", tt.input, got, tt.want)
		}
	}
}
