// Package ui provides the Bubbletea terminal light simulator
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/oszuidwest/zwfm-ledmeter/internal/types"
)

// PollInterval is how often the readout below the lights is refreshed
const PollInterval = 100 * time.Millisecond

// FrameSource provides the latest meter frame
type FrameSource interface {
	Frame() types.Frame
}

// Model is the Bubbletea model for the simulated lights
type Model struct {
	Title  string
	Lights []bool
	Frame  types.Frame

	// Source is polled for the dB readout; nil shows lights only
	Source FrameSource

	// Terminal dimensions
	Width  int
	Height int
}

// NewModel creates a model for count lights
func NewModel(title string, count int, src FrameSource) Model {
	return Model{
		Title:  title,
		Lights: make([]bool, count),
		Source: src,
	}
}

// Init starts the readout polling
func (m Model) Init() tea.Cmd {
	if m.Source == nil {
		return nil
	}
	return poll()
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case LightsMsg:
		if len(msg.Lights) == len(m.Lights) {
			m.Lights = msg.Lights
		}

	case FrameMsg:
		m.Frame = msg.Frame

	case pollMsg:
		if m.Source == nil {
			return m, nil
		}
		frame := m.Source.Frame()
		return m, tea.Batch(
			func() tea.Msg { return FrameMsg{Frame: frame} },
			poll(),
		)
	}

	return m, nil
}

// View renders the UI
func (m Model) View() string {
	return renderMeter(m)
}

// poll schedules the next readout refresh
func poll() tea.Cmd {
	return tea.Tick(PollInterval, func(time.Time) tea.Msg {
		return pollMsg{}
	})
}
