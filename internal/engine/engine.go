// Package engine runs the meter: it reads one level per tick, animates it
// and shows the result on the lights.
package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/oszuidwest/zwfm-ledmeter/internal/audio"
	"github.com/oszuidwest/zwfm-ledmeter/internal/config"
	"github.com/oszuidwest/zwfm-ledmeter/internal/meter"
	"github.com/oszuidwest/zwfm-ledmeter/internal/output"
	"github.com/oszuidwest/zwfm-ledmeter/internal/types"
	"github.com/oszuidwest/zwfm-ledmeter/internal/util"
)

// ErrAlreadyRunning is returned by Start on a running engine.
var ErrAlreadyRunning = errors.New("engine already running")

// CaptureSource is a background audio capture feeding the engine's sampler.
type CaptureSource interface {
	Start()
	Stop()
	Status() types.SourceStatus
}

// AlertHandler receives signal-loss events.
type AlertHandler interface {
	HandleEvent(event audio.SilenceEvent)
	Wait()
}

// Options wires the engine to its input and output.
type Options struct {
	// Panel shows the animated level. Leave nil when Readings is set.
	Panel *output.Panel
	// Readings receives the raw reading of every tick instead of the lights.
	Readings *output.ReadingWriter

	// Input supplies dB values as text, one tick per value. When nil the
	// engine ticks on a timer and reads peaks from Sampler.
	Input   io.Reader
	Sampler *audio.PeakSampler
	Source  CaptureSource

	// Alerts is optional.
	Alerts AlertHandler
}

// Engine owns the tick loop and the meter state.
type Engine struct {
	cfg      config.Config
	opts     Options
	bias     float64
	animator *meter.Animator
	mapper   *meter.Mapper
	silence  *audio.SilenceDetector

	mu        sync.RWMutex
	state     types.EngineState
	startTime time.Time
	frame     types.Frame
	ticks     uint64
	noData    uint64
	inSilence bool
	lastError string
	stopChan  chan struct{}
	done      chan struct{}

	emptyBuffers int
}

// New creates an Engine for cfg.
func New(cfg config.Config, opts Options) (*Engine, error) {
	if (opts.Panel == nil) == (opts.Readings == nil) {
		return nil, errors.New("engine needs exactly one of a panel or a reading writer")
	}
	if opts.Input == nil && opts.Sampler == nil {
		return nil, errors.New("engine needs a text input or a sampler")
	}

	mapper, err := cfg.Mapper()
	if err != nil {
		return nil, err
	}

	done := make(chan struct{})
	close(done)

	return &Engine{
		cfg:      cfg,
		opts:     opts,
		bias:     cfg.Bias(),
		animator: meter.NewAnimator(cfg.Ballistics()),
		mapper:   mapper,
		silence:  audio.NewSilenceDetector(cfg.Silence()),
		state:    types.StateStopped,
		frame:    types.Frame{Reading: audio.FloorDB, Level: meter.FloorLevel, PeakLevel: meter.FloorLevel, NoData: true},
		done:     done,
	}, nil
}

// Start launches the tick loop in the background.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != types.StateStopped {
		return ErrAlreadyRunning
	}

	e.state = types.StateStarting
	e.startTime = time.Now()
	e.stopChan = make(chan struct{})
	e.done = make(chan struct{})
	e.emptyBuffers = 0
	e.animator.Reset()
	e.silence.Reset()

	go e.run(e.stopChan, e.done)
	return nil
}

// Stop ends the tick loop and waits until the capture is released and the
// lights are off. It is safe to call more than once.
func (e *Engine) Stop() error {
	e.mu.Lock()
	if e.state == types.StateRunning || e.state == types.StateStarting {
		e.state = types.StateStopping
		close(e.stopChan)
	}
	done := e.done
	e.mu.Unlock()

	<-done
	return nil
}

// Done is closed when the loop has exited, either after Stop or at the end
// of a text input.
func (e *Engine) Done() <-chan struct{} {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.done
}

// Frame returns the most recent tick.
func (e *Engine) Frame() types.Frame {
	e.mu.RLock()
	defer e.mu.RUnlock()
	f := e.frame
	f.Lights = slices.Clone(e.frame.Lights)
	return f
}

// Status returns a summary of the engine's operational state.
func (e *Engine) Status() types.EngineStatus {
	e.mu.RLock()
	defer e.mu.RUnlock()

	st := types.EngineStatus{
		State:     e.state,
		Input:     string(e.cfg.Audio.Input),
		Output:    string(e.cfg.Output.Mode),
		Ticks:     e.ticks,
		NoData:    e.noData,
		Silence:   e.inSilence,
		LastError: e.lastError,
	}
	if e.state == types.StateRunning {
		st.Uptime = util.FormatUptime(time.Since(e.startTime))
	}
	if e.opts.Source != nil {
		st.Source = e.opts.Source.Status()
	}
	return st
}

// run is the engine goroutine.
func (e *Engine) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer e.cleanup()

	if e.opts.Panel != nil && e.cfg.Output.SelfTest && e.cfg.Output.Mode.Hardware() {
		e.selfTest(stop)
	}

	select {
	case <-stop:
		return
	default:
	}

	if e.opts.Input == nil && e.opts.Source != nil {
		e.opts.Source.Start()
	}
	e.setState(types.StateRunning)
	slog.Info("meter running",
		"input", e.cfg.Audio.Input,
		"output", e.cfg.Output.Mode,
		"rate", e.cfg.Meter.Rate,
		"lights", e.cfg.Meter.Lights,
		"mode", e.mapper.Mode,
		"decay", e.cfg.DecayStep(),
		"decay_window", e.cfg.DecayWindowTicks())

	if e.opts.Input != nil {
		e.runText(stop)
		return
	}
	e.runCapture(stop)
}

// selfTest spins the lights and returns early on stop.
func (e *Engine) selfTest(stop <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-stop:
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := output.SelfTest(ctx, e.opts.Panel, output.SelfTestStep); err != nil {
		e.recordError("light self-test failed", err)
	}
}

// runCapture ticks at the configured rate and reads the sampler.
func (e *Engine) runCapture(stop <-chan struct{}) {
	ticker := time.NewTicker(e.cfg.TickInterval())
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			e.tickPeak(e.opts.Sampler.ReadAndReset(), e.opts.Sampler.Attached(), now)
		}
	}
}

// tickPeak handles one timer tick. A tick without audio holds the display.
func (e *Engine) tickPeak(peak float64, attached bool, now time.Time) {
	db := audio.ToDecibels(peak, e.bias)
	e.trackSilence(db, now)

	if !audio.HasSignal(db) {
		e.reportNoData(attached)
		return
	}
	e.show(db)
}

// reportNoData counts an empty tick. The first empty buffer once the capture
// is attached is expected; the second one is logged, and only once.
func (e *Engine) reportNoData(attached bool) {
	e.mu.Lock()
	e.noData++
	e.frame.NoData = true
	if attached {
		e.emptyBuffers++
	}
	report := e.emptyBuffers == 2 && attached
	e.mu.Unlock()

	if report {
		slog.Warn("empty audio buffer, rate too high or capture latency too large?", "rate", e.cfg.Meter.Rate)
	}
}

// trackSilence feeds the signal-loss detector.
func (e *Engine) trackSilence(db float64, now time.Time) {
	ev := e.silence.Update(db, now)

	e.mu.Lock()
	e.inSilence = ev.InSilence
	e.mu.Unlock()

	if ev.JustEntered {
		slog.Warn("signal lost", "duration", ev.Duration, "threshold", e.cfg.SilenceDetection.ThresholdDB)
	}
	if ev.JustRecovered {
		slog.Info("signal recovered", "silence_duration", ev.TotalDuration)
	}
	if e.opts.Alerts != nil && (ev.JustEntered || ev.JustRecovered) {
		e.opts.Alerts.HandleEvent(ev)
	}
}

// show runs one reading through the animator onto the lights, or writes it
// out raw in text output mode.
func (e *Engine) show(db float64) {
	if e.opts.Readings != nil {
		if err := e.opts.Readings.WriteReading(db); err != nil {
			e.recordError("write reading", err)
		}
		e.setFrame(types.Frame{Reading: db, Level: int(db), PeakLevel: meter.FloorLevel})
		return
	}

	st := e.animator.Process(db)
	pattern := e.mapper.Render(st)
	if err := e.opts.Panel.Apply(pattern); err != nil {
		e.recordError("update lights", err)
	}
	e.setFrame(types.Frame{
		Reading:    db,
		Level:      st.Level,
		PeakLevel:  st.PeakLevel,
		PeakActive: st.PeakActive && e.mapper.PeakHold,
		Lights:     pattern,
	})
}

func (e *Engine) setFrame(f types.Frame) {
	e.mu.Lock()
	e.ticks++
	e.frame = f
	e.mu.Unlock()
}

func (e *Engine) setState(s types.EngineState) {
	e.mu.Lock()
	if e.state != types.StateStopping {
		e.state = s
	}
	e.mu.Unlock()
}

// recordError logs err unless it repeats the previous error.
func (e *Engine) recordError(msg string, err error) {
	text := msg + ": " + err.Error()

	e.mu.Lock()
	repeat := e.lastError == text
	e.lastError = text
	e.mu.Unlock()

	if !repeat {
		slog.Error(msg, "error", err)
	}
}

// cleanup releases the capture and turns the lights off.
func (e *Engine) cleanup() {
	if e.opts.Input == nil && e.opts.Source != nil {
		e.opts.Source.Stop()
	}
	if e.opts.Panel != nil {
		if err := e.opts.Panel.Clear(); err != nil {
			slog.Error("failed to turn lights off", "error", err)
		}
	}
	if e.opts.Alerts != nil {
		e.opts.Alerts.Wait()
	}

	e.mu.Lock()
	e.state = types.StateStopped
	e.frame.Lights = make([]bool, len(e.frame.Lights))
	e.mu.Unlock()
	slog.Info("meter stopped")
}
