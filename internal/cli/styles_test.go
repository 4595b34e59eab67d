package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/oszuidwest/zwfm-ledmeter/internal/types"
)

func TestPrintDevices(t *testing.T) {
	var buf bytes.Buffer
	PrintDevices(&buf, []types.AudioDevice{
		{ID: "hw:0,0", Name: "Built-in"},
		{ID: "hw:1,0", Name: "HiFiBerry"},
	})
	out := buf.String()
	for _, want := range []string{"hw:0,0", "Built-in", "hw:1,0", "HiFiBerry"} {
		if !strings.Contains(out, want) {
			t.Errorf("PrintDevices output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintDevicesEmpty(t *testing.T) {
	var buf bytes.Buffer
	PrintDevices(&buf, nil)
	if !strings.Contains(buf.String(), "none found") {
		t.Errorf("PrintDevices(nil) = %q", buf.String())
	}
}

func TestPrintVersion(t *testing.T) {
	var buf bytes.Buffer
	PrintVersion(&buf, types.VersionInfo{Current: "1.2.3", Commit: "abc123", BuildTime: "today"})
	for _, want := range []string{Title, "1.2.3", "abc123", "today"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("PrintVersion output missing %q", want)
		}
	}
}
