package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/oszuidwest/zwfm-ledmeter/internal/config"
)

func parseArgs(t *testing.T, args ...string) *CLI {
	t.Helper()
	c := &CLI{}
	parser, err := kong.New(c, kong.Name("ledmeter"), kong.Configuration(kong.JSON), vars())
	if err != nil {
		t.Fatalf("kong.New: %v", err)
	}
	if _, err := parser.Parse(args); err != nil {
		t.Fatalf("Parse(%v): %v", args, err)
	}
	return c
}

func TestDefaultFlagsMatchConfig(t *testing.T) {
	got := parseArgs(t).settings()
	want := config.New()

	if got.Meter != want.Meter {
		t.Errorf("Meter = %+v, want %+v", got.Meter, want.Meter)
	}
	if got.Audio != want.Audio {
		t.Errorf("Audio = %+v, want %+v", got.Audio, want.Audio)
	}
	if got.Output != want.Output {
		t.Errorf("Output = %+v, want %+v", got.Output, want.Output)
	}
	if got.Web != want.Web {
		t.Errorf("Web = %+v, want %+v", got.Web, want.Web)
	}
	if got.SilenceDetection != want.SilenceDetection {
		t.Errorf("SilenceDetection = %+v, want %+v", got.SilenceDetection, want.SilenceDetection)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("default flags do not validate: %v", err)
	}
}

func TestFlags(t *testing.T) {
	cfg := parseArgs(t,
		"-f", "100", "--ref-level=-6", "-c", "3", "-b", "1", "-n", "12",
		"-s", "-p", "--scale", "2db", "--output", "terminal", "--input", "text",
		"--no-self-test", "--web-port", "8080",
	).settings()

	if cfg.Meter.Rate != 100 || cfg.Meter.RefLevel != -6 || cfg.Meter.Decay != 3 || cfg.Meter.DecayBias != 1 {
		t.Errorf("Meter = %+v", cfg.Meter)
	}
	if cfg.Meter.Lights != 12 || !cfg.Meter.Single || !cfg.Meter.PeakHold || cfg.Meter.Scale != "2db" {
		t.Errorf("Meter = %+v", cfg.Meter)
	}
	if cfg.Output.Mode != config.OutputTerminal || cfg.Output.SelfTest {
		t.Errorf("Output = %+v", cfg.Output)
	}
	if cfg.Audio.Input != config.InputText || cfg.Web.Port != 8080 {
		t.Errorf("Audio = %+v, Web = %+v", cfg.Audio, cfg.Web)
	}
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledmeter.json")
	if err := os.WriteFile(path, []byte(`{"rate": 25, "leds": 10, "output": "none"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := parseArgs(t, "--config", path, "--leds", "6").settings()

	if cfg.Meter.Rate != 25 {
		t.Errorf("Rate = %d, want 25 from the file", cfg.Meter.Rate)
	}
	if cfg.Meter.Lights != 6 {
		t.Errorf("Lights = %d, want 6 from the command line", cfg.Meter.Lights)
	}
	if cfg.Output.Mode != config.OutputNone {
		t.Errorf("Output = %q, want none", cfg.Output.Mode)
	}
}

func TestProgramOptionsKeepStdinForLevels(t *testing.T) {
	tests := []struct {
		input config.InputMode
		want  int
	}{
		{config.InputCapture, 1},
		{config.InputText, 2},
	}

	for _, tt := range tests {
		cfg := config.New()
		cfg.Output.Mode = config.OutputTerminal
		cfg.Audio.Input = tt.input
		if got := len(programOptions(cfg)); got != tt.want {
			t.Errorf("programOptions(input %s) has %d options, want %d", tt.input, got, tt.want)
		}
	}
}
