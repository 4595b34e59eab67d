package audio

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os/exec"
	"sync"
	"time"

	"github.com/oszuidwest/zwfm-ledmeter/internal/types"
	"github.com/oszuidwest/zwfm-ledmeter/internal/util"
)

// BlockFrames is how many frames the reader hands to the sampler at once.
const BlockFrames = 256

// commandFunc builds the capture command. Tests replace it.
type commandFunc func(ctx context.Context, name string, args ...string) *exec.Cmd

// Source runs the platform capture process and feeds its PCM output to a
// PeakSampler. A failed process is restarted with exponential backoff until
// Stop is called. Source is safe for concurrent use.
type Source struct {
	device  string
	format  Format
	sampler *PeakSampler
	command commandFunc

	mu        sync.Mutex
	running   bool
	cancel    context.CancelFunc
	stopChan  chan struct{}
	wg        sync.WaitGroup
	lastError string
	retries   int
	backoff   *util.Backoff
}

// NewSource returns a Source capturing device in format into sampler.
func NewSource(device string, format Format, sampler *PeakSampler) *Source {
	return &Source{
		device:  device,
		format:  format,
		sampler: sampler,
		command: exec.CommandContext,
		backoff: util.NewBackoff(types.InitialRetryDelay, types.MaxRetryDelay),
	}
}

// Start launches the capture loop in the background.
func (s *Source) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopChan != nil {
		return
	}
	s.stopChan = make(chan struct{})
	s.wg.Add(1)
	go s.run(s.stopChan)
}

// Stop terminates the capture process and waits for the loop to exit.
func (s *Source) Stop() {
	s.mu.Lock()
	if s.stopChan == nil {
		s.mu.Unlock()
		return
	}
	close(s.stopChan)
	s.stopChan = nil
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	s.wg.Wait()
	s.sampler.Detach()
}

// Status returns the current capture status.
func (s *Source) Status() types.SourceStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return types.SourceStatus{
		Running:    s.running,
		Device:     s.device,
		LastError:  s.lastError,
		RetryCount: s.retries,
	}
}

// run restarts the capture process until stop is closed.
func (s *Source) run(stop <-chan struct{}) {
	defer s.wg.Done()

	for {
		select {
		case <-stop:
			return
		default:
		}

		started := time.Now()
		err := s.runOnce(stop)

		select {
		case <-stop:
			return
		default:
		}

		s.mu.Lock()
		if time.Since(started) >= types.SuccessThreshold {
			s.retries = 0
			s.backoff.Reset()
		}
		s.retries++
		if err != nil {
			s.lastError = err.Error()
		}
		delay := s.backoff.Next()
		retries := s.retries
		s.mu.Unlock()

		slog.Warn("audio capture stopped, restarting", "error", err, "delay", delay, "attempt", retries)

		select {
		case <-stop:
			return
		case <-time.After(delay):
		}
	}
}

// runOnce runs one capture process until it exits or stop is closed.
func (s *Source) runOnce(stop <-chan struct{}) error {
	name, args, err := BuildCaptureCommand(s.device, s.format)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cmd := s.command(ctx, name, args...)
	cmd.Cancel = func() error {
		return util.GracefulSignal(cmd.Process)
	}
	cmd.WaitDelay = types.ShutdownTimeout

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return util.WrapError("open capture stdout", err)
	}
	stderr := util.NewStderrBuffer()
	cmd.Stderr = stderr

	s.mu.Lock()
	select {
	case <-stop:
		s.mu.Unlock()
		return nil
	default:
	}
	s.cancel = cancel
	s.mu.Unlock()

	slog.Info("starting audio capture", "command", name, "device", s.device)
	if err := cmd.Start(); err != nil {
		return util.WrapError("start capture", err)
	}

	s.mu.Lock()
	s.running = true
	s.lastError = ""
	s.mu.Unlock()

	s.sampler.Attach()
	s.pump(stdout)
	s.sampler.Detach()

	err = cmd.Wait()

	s.mu.Lock()
	s.running = false
	s.cancel = nil
	s.mu.Unlock()

	if msg := stderr.LastLine(); msg != "" {
		return errors.New(msg)
	}
	if err != nil {
		return err
	}
	return io.EOF
}

// pump reads frame-aligned blocks from r into the sampler until r fails.
func (s *Source) pump(r io.Reader) {
	buf := make([]byte, BlockFrames*s.format.BytesPerFrame())
	for {
		n, err := io.ReadFull(r, buf)
		if n > 0 {
			s.sampler.ObservePCM(buf[:n])
		}
		if err != nil {
			return
		}
	}
}
