// Package cli prints the styled informational output of the command line.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/oszuidwest/zwfm-ledmeter/internal/types"
)

// Color palette
var (
	primaryColor = lipgloss.Color("#A40000") // ZuidWest red
	mutedColor   = lipgloss.Color("#888888") // Gray
	textColor    = lipgloss.Color("#FFFFFF") // White
)

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	KeyStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	ValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor)
)

// Title is the program name shown in headers.
const Title = "ZuidWest FM LED Meter"

// PrintVersion prints version information
func PrintVersion(w io.Writer, info types.VersionInfo) {
	fmt.Fprintln(w, TitleStyle.Render(Title))
	fmt.Fprintf(w, "%s %s\n", KeyStyle.Render("Version:"), ValueStyle.Render(info.Current))
	fmt.Fprintf(w, "%s %s\n", KeyStyle.Render("Commit:"), ValueStyle.Render(info.Commit))
	fmt.Fprintf(w, "%s %s\n", KeyStyle.Render("Built:"), ValueStyle.Render(info.BuildTime))
}

// PrintDevices lists capture devices, one per line
func PrintDevices(w io.Writer, devices []types.AudioDevice) {
	fmt.Fprintln(w, TitleStyle.Render("Audio input devices"))
	if len(devices) == 0 {
		fmt.Fprintln(w, KeyStyle.Render("none found"))
		return
	}
	for _, d := range devices {
		fmt.Fprintf(w, "  %s  %s\n", ValueStyle.Render(d.ID), KeyStyle.Render(d.Name))
	}
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render("Error:"), message)
}
