// Package main implements a peak level meter that drives a row of LEDs from
// live audio.
//
// Usage:
//
//	ledmeter [flags]
//
// Flags can also be read from a JSON file with --config, keyed by flag name.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/oszuidwest/zwfm-ledmeter/internal/audio"
	"github.com/oszuidwest/zwfm-ledmeter/internal/cli"
	"github.com/oszuidwest/zwfm-ledmeter/internal/config"
	"github.com/oszuidwest/zwfm-ledmeter/internal/engine"
	"github.com/oszuidwest/zwfm-ledmeter/internal/meter"
	"github.com/oszuidwest/zwfm-ledmeter/internal/notify"
	"github.com/oszuidwest/zwfm-ledmeter/internal/output"
	"github.com/oszuidwest/zwfm-ledmeter/internal/types"
	"github.com/oszuidwest/zwfm-ledmeter/internal/ui"
	"github.com/oszuidwest/zwfm-ledmeter/internal/util"
)

// CLI defines the command-line interface
type CLI struct {
	Config kong.ConfigFlag `help:"Path to a JSON file with flag defaults"`

	Rate      int     `short:"f" default:"${rate}" help:"Meter updates per second (1..1000)"`
	RefLevel  float64 `short:"r" default:"0" help:"Input level in dB shown as 0 dB (use --ref-level=-6 for negative values)"`
	Decay     int     `short:"c" default:"-1" help:"dB per decay step, 0..10; -1 picks ${decay} or ${single_decay} for a single light"`
	DecayBias int     `short:"b" default:"${decay_bias}" help:"Decay window multiplier"`
	Leds      int     `short:"n" default:"${leds}" help:"Number of lights (1..16)"`
	FirstPin  int     `short:"1" default:"0" help:"wiringPi number of the first light, or of the shift register data pin"`
	Single    bool    `short:"s" help:"Light a single wandering light instead of a bar"`
	PeakHold  bool    `short:"p" help:"Hold the highest level for 1.6 seconds"`
	Scale     string  `default:"${scale}" help:"Threshold table (${scales})"`

	Output     string `default:"gpio" enum:"${outputs}" help:"Light output (${outputs})"`
	Input      string `default:"capture" enum:"capture,text" help:"Level source: audio capture or dB values on stdin"`
	Device     string `help:"Capture device (default ${device})"`
	Channels   int    `default:"${channels}" help:"Capture channel count"`
	SampleRate int    `default:"${sample_rate}" help:"Capture sample rate"`
	SelfTest   bool   `default:"true" negatable:"" help:"Spin the lights at startup"`

	WebPort     int    `default:"0" help:"Live monitor port, 0 disables the monitor"`
	WebUser     string `default:"${web_user}" help:"Live monitor username"`
	WebPassword string `default:"${web_password}" help:"Live monitor password"`

	SilenceThreshold float64 `default:"${silence_threshold}" help:"Signal-loss level in dB"`
	SilenceDuration  float64 `default:"${silence_duration}" help:"Seconds below the threshold before alerting"`
	SilenceRecovery  float64 `default:"${silence_recovery}" help:"Seconds above the threshold before recovering"`

	WebhookURL      string `help:"POST signal-loss events to this URL"`
	AlertLog        string `type:"path" help:"Append signal-loss events to this JSON-lines file"`
	SMTPHost        string `name:"smtp-host" help:"SMTP server for alert email"`
	SMTPPort        int    `name:"smtp-port" default:"${smtp_port}" help:"SMTP port"`
	SMTPUser        string `name:"smtp-user" help:"SMTP username, also the sender address"`
	SMTPPassword    string `name:"smtp-password" help:"SMTP password"`
	SMTPFromName    string `name:"smtp-from-name" default:"${from_name}" help:"Sender display name"`
	EmailRecipients string `help:"Comma-separated alert recipients"`

	LogLevel string `default:"info" enum:"debug,info,warn,error" help:"Log level"`
	LogJSON  bool   `name:"log-json" help:"Log as JSON"`
	LogFile  string `type:"path" help:"Write logs to this file (terminal output discards logs otherwise)"`

	ListDevices bool `help:"List capture devices and exit"`
	Version     bool `short:"v" help:"Show version information"`
}

// settings converts the parsed flags into the meter configuration.
func (c *CLI) settings() config.Config {
	cfg := config.New()

	cfg.Meter = config.MeterConfig{
		Rate:      c.Rate,
		RefLevel:  c.RefLevel,
		Decay:     c.Decay,
		DecayBias: c.DecayBias,
		Lights:    c.Leds,
		Single:    c.Single,
		PeakHold:  c.PeakHold,
		Scale:     c.Scale,
	}
	cfg.Audio = config.AudioConfig{
		Input:      config.InputMode(c.Input),
		Device:     c.Device,
		Channels:   c.Channels,
		SampleRate: c.SampleRate,
	}
	cfg.Output = config.OutputConfig{
		Mode:     config.OutputMode(c.Output),
		FirstPin: c.FirstPin,
		SelfTest: c.SelfTest,
	}
	cfg.Web = config.WebConfig{
		Port:     c.WebPort,
		Username: c.WebUser,
		Password: c.WebPassword,
	}
	cfg.SilenceDetection = config.SilenceDetectionConfig{
		ThresholdDB:     c.SilenceThreshold,
		DurationSeconds: c.SilenceDuration,
		RecoverySeconds: c.SilenceRecovery,
	}
	cfg.Notifications = config.NotificationsConfig{
		WebhookURL: c.WebhookURL,
		LogPath:    c.AlertLog,
		Email: config.EmailConfig{
			Host:       c.SMTPHost,
			Port:       c.SMTPPort,
			FromName:   c.SMTPFromName,
			Username:   c.SMTPUser,
			Password:   c.SMTPPassword,
			Recipients: c.EmailRecipients,
		},
	}
	return cfg
}

// vars exposes the configuration defaults to the flag tags.
func vars() kong.Vars {
	return kong.Vars{
		"rate":              fmt.Sprint(config.DefaultRate),
		"decay":             fmt.Sprint(config.DefaultDecayStep),
		"single_decay":      fmt.Sprint(config.DefaultSingleDecayStep),
		"decay_bias":        fmt.Sprint(config.DefaultDecayBias),
		"leds":              fmt.Sprint(config.DefaultLights),
		"scale":             meter.DefaultScale,
		"scales":            strings.Join(meter.ScaleNames(), ", "),
		"outputs":           strings.Join(config.OutputModes(), ","),
		"device":            deviceHelp(),
		"channels":          fmt.Sprint(config.DefaultChannels),
		"sample_rate":       fmt.Sprint(config.DefaultSampleRate),
		"web_user":          config.DefaultWebUsername,
		"web_password":      config.DefaultWebPassword,
		"silence_threshold": fmt.Sprint(config.DefaultSilenceThreshold),
		"silence_duration":  fmt.Sprint(config.DefaultSilenceDuration),
		"silence_recovery":  fmt.Sprint(config.DefaultSilenceRecovery),
		"smtp_port":         fmt.Sprint(config.DefaultEmailSMTPPort),
		"from_name":         config.DefaultEmailFromName,
	}
}

func deviceHelp() string {
	if d := audio.DefaultDevice(); d != "" {
		return d
	}
	return "first detected device"
}

func main() {
	args := &CLI{}
	kong.Parse(args,
		kong.Name("ledmeter"),
		kong.Description("Peak level meter for a row of LEDs"),
		kong.UsageOnError(),
		kong.Configuration(kong.JSON),
		vars(),
	)

	if args.Version {
		cli.PrintVersion(os.Stdout, NewVersionChecker().GetInfo())
		return
	}
	if args.ListDevices {
		cli.PrintDevices(os.Stdout, audio.ListDevices())
		return
	}

	cfg := args.settings()

	closeLog, err := setupLogging(args, cfg.Output.Mode == config.OutputTerminal)
	if err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		cli.PrintError(err.Error())
		closeLog()
		os.Exit(1)
	}

	code := run(cfg)
	closeLog()
	os.Exit(code)
}

// setupLogging installs the default logger. The terminal simulator owns the
// screen, so its logs go to --log-file or nowhere.
func setupLogging(args *CLI, terminal bool) (func(), error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(args.LogLevel)); err != nil {
		return nil, util.WrapError("parse log level", err)
	}

	var w io.Writer = os.Stderr
	closeFn := func() {}
	switch {
	case args.LogFile != "":
		f, err := os.OpenFile(args.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, util.WrapError("open log file", err)
		}
		w = f
		closeFn = util.SafeCloseFunc(f, "log file")
	case terminal:
		w = io.Discard
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler = slog.NewTextHandler(w, opts)
	if args.LogJSON {
		h = slog.NewJSONHandler(w, opts)
	}
	slog.SetDefault(slog.New(h))
	return closeFn, nil
}

// programOptions returns the terminal simulator options. When the levels
// arrive on stdin the keyboard is read from the controlling terminal instead.
func programOptions(cfg config.Config) []tea.ProgramOption {
	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.ReadsStdin() {
		opts = append(opts, tea.WithInputTTY())
	}
	return opts
}

// frameFunc adapts a function to ui.FrameSource.
type frameFunc func() types.Frame

func (f frameFunc) Frame() types.Frame { return f() }

// run wires the meter together and blocks until it ends. It returns the
// process exit code.
func run(cfg config.Config) int {
	opts := engine.Options{}

	switch cfg.Audio.Input {
	case config.InputText:
		opts.Input = os.Stdin
	default:
		if err := audio.CheckCapture(); err != nil {
			slog.Error("audio capture tool not available", "error", err)
			return 1
		}
		sampler := audio.NewPeakSampler()
		opts.Sampler = sampler
		opts.Source = audio.NewSource(cfg.Audio.Device, cfg.CaptureFormat(), sampler)
	}

	var (
		eng     *engine.Engine
		program *tea.Program
	)

	var ind output.Indicator
	switch cfg.Output.Mode {
	case config.OutputGPIO, config.OutputShiftRegister:
		open, err := output.HostPins()
		if err != nil {
			slog.Error("failed to initialize gpio", "error", err)
			return 1
		}
		if cfg.Output.Mode == config.OutputGPIO {
			ind, err = output.NewGPIO(open, cfg.Output.FirstPin, cfg.Meter.Lights)
		} else {
			ind, err = output.NewShiftRegister(open, cfg.Output.FirstPin, cfg.Meter.Lights)
		}
		if err != nil {
			slog.Error("failed to open light pins", "first_pin", cfg.Output.FirstPin, "error", err)
			return 1
		}
	case config.OutputTerminal:
		model := ui.NewModel(cli.Title, cfg.Meter.Lights, frameFunc(func() types.Frame { return eng.Frame() }))
		program = tea.NewProgram(model, programOptions(cfg)...)
		ind = ui.NewPanel(program, cfg.Meter.Lights)
	case config.OutputText:
		opts.Readings = output.NewReadingWriter(os.Stdout)
	default:
		ind = output.Discard
	}

	if ind != nil {
		panel := output.NewPanel(ind, cfg.Meter.Lights)
		defer util.SafeClose(panel, "lights")
		opts.Panel = panel
	}

	if cfg.HasAlerts() {
		opts.Alerts = notify.NewSilenceNotifier(cfg)
	}

	var err error
	eng, err = engine.New(cfg, opts)
	if err != nil {
		slog.Error("failed to create meter", "error", err)
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var httpServer *http.Server
	if cfg.Web.Port != 0 {
		versions := NewVersionChecker()
		versions.Start(ctx)
		httpServer = NewServer(cfg, eng, versions).Start()
	}

	if err := eng.Start(); err != nil {
		slog.Error("failed to start meter", "error", err)
		return 1
	}

	tuiDone := make(chan struct{})
	if program != nil {
		go func() {
			defer close(tuiDone)
			if _, err := program.Run(); err != nil {
				slog.Error("terminal display failed", "error", err)
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, util.ShutdownSignals()...)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		slog.Info("shutting down", "signal", sig)
	case <-eng.Done():
	case <-tuiDone:
		slog.Info("terminal display closed")
	}

	if err := eng.Stop(); err != nil {
		slog.Error("error stopping meter", "error", err)
	}

	if httpServer != nil {
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShutdown()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP server shutdown error", "error", err)
		}
	}

	if program != nil {
		program.Quit()
		<-tuiDone
	}

	return 0
}
