//go:build windows

package audio

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/oszuidwest/zwfm-ledmeter/internal/types"
)

func getPlatformConfig() CaptureConfig {
	return CaptureConfig{
		Command:       "ffmpeg",
		DefaultDevice: "", // auto-detect
		BuildArgs:     buildWindowsArgs,
	}
}

func buildWindowsArgs(device string, format Format) []string {
	return []string{
		"-f", "dshow",
		"-i", device,
		"-nostdin",
		"-hide_banner",
		"-loglevel", "warning",
		"-vn",
		"-f", "s16le",
		"-ac", strconv.Itoa(format.Channels),
		"-ar", strconv.Itoa(format.SampleRate),
		"pipe:1",
	}
}

// ListDevices returns the DirectShow audio devices reported by FFmpeg.
func (cfg CaptureConfig) ListDevices() []types.AudioDevice {
	return parseDeviceList(&DeviceListConfig{
		Command:          []string{"ffmpeg", "-f", "dshow", "-list_devices", "true", "-i", "dummy"},
		AudioStartMarker: "DirectShow audio devices",
		AudioStopMarker:  "DirectShow video devices",
		DevicePattern:    regexp.MustCompile(`\[dshow[^\]]*\]\s*"([^"]+)"`),
		ParseDevice: func(matches []string) *types.AudioDevice {
			if len(matches) < 2 {
				return nil
			}
			name := strings.TrimSpace(matches[1])
			return &types.AudioDevice{
				ID:   "audio=" + name,
				Name: name,
			}
		},
	})
}
