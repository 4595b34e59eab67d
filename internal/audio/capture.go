package audio

import (
	"errors"
	"os/exec"
)

// ErrNoAudioDevice is returned when no audio input device is available.
var ErrNoAudioDevice = errors.New("no audio input device found")

// Format describes the PCM stream the capture process writes: S16LE, interleaved.
type Format struct {
	SampleRate int
	Channels   int
}

// BytesPerFrame returns the size of one interleaved frame.
func (f Format) BytesPerFrame() int {
	return 2 * f.Channels
}

// CaptureConfig defines platform-specific audio capture configuration.
type CaptureConfig struct {
	// Command is the executable name (e.g., "arecord", "ffmpeg").
	Command string

	// DefaultDevice is used when no device is configured.
	DefaultDevice string

	// BuildArgs returns the command arguments for capturing device in format.
	BuildArgs func(device string, format Format) []string
}

// BuildCaptureCommand returns the command and arguments for audio capture.
// If device is empty, it uses the platform default or the first detected device.
func BuildCaptureCommand(device string, format Format) (cmd string, args []string, err error) {
	cfg := getPlatformConfig()

	if device == "" {
		device = cfg.DefaultDevice
	}

	// Windows has no safe default.
	if device == "" {
		devices := ListDevices()
		if len(devices) == 0 {
			return "", nil, ErrNoAudioDevice
		}
		device = devices[0].ID
	}

	return cfg.Command, cfg.BuildArgs(device, format), nil
}

// CheckCapture verifies that the platform capture tool is installed.
func CheckCapture() error {
	cfg := getPlatformConfig()
	if _, err := exec.LookPath(cfg.Command); err != nil {
		return err
	}
	return nil
}

// DefaultDevice returns the platform default capture device.
func DefaultDevice() string {
	return getPlatformConfig().DefaultDevice
}
