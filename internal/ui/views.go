package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#A40000"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	lightGreen  = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e"))
	lightYellow = lipgloss.NewStyle().Foreground(lipgloss.Color("#eab308"))
	lightRed    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
	lightOff    = lipgloss.NewStyle().Foreground(lipgloss.Color("#404040"))
)

const (
	lightOn    = "●"
	lightDark  = "○"
	lightSpace = " "
)

// renderMeter renders the title, the lights and the readout
func renderMeter(m Model) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.Title))
	b.WriteString("\n\n  ")
	b.WriteString(renderLights(m.Lights))
	b.WriteString("\n\n")
	if m.Source != nil {
		b.WriteString(renderReadout(m))
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render("q to quit"))
	b.WriteString("\n")

	return b.String()
}

// renderLights draws one symbol per light, lowest first, coloured like a
// VU meter: the top fifth red, the next three tenths yellow, the rest green
func renderLights(lights []bool) string {
	parts := make([]string, len(lights))
	for i, on := range lights {
		if !on {
			parts[i] = lightOff.Render(lightDark)
			continue
		}
		parts[i] = lightStyle(i, len(lights)).Render(lightOn)
	}
	return strings.Join(parts, lightSpace)
}

// lightStyle picks the colour for position i of n
func lightStyle(i, n int) lipgloss.Style {
	pct := float64(i+1) / float64(n)
	switch {
	case pct > 0.8:
		return lightRed
	case pct > 0.5:
		return lightYellow
	default:
		return lightGreen
	}
}

// renderReadout shows the displayed level and the held peak
func renderReadout(m Model) string {
	f := m.Frame
	if f.NoData {
		return mutedStyle.Render("  no signal")
	}
	s := fmt.Sprintf("  level %4d dB", f.Level)
	if f.PeakActive {
		s += fmt.Sprintf("   peak %4d dB", f.PeakLevel)
	}
	return mutedStyle.Render(s)
}
