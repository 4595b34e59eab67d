package ui

import (
	"fmt"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
)

// Sender delivers messages to a running program, usually *tea.Program
type Sender interface {
	Send(msg tea.Msg)
}

// Panel is an indicator that draws its lights in the terminal model
type Panel struct {
	send   Sender
	lights []bool
}

// NewPanel returns a Panel with count lights feeding s
func NewPanel(s Sender, count int) *Panel {
	return &Panel{send: s, lights: make([]bool, count)}
}

// SetPosition buffers one light until the next Flush
func (p *Panel) SetPosition(index int, on bool) error {
	if index < 0 || index >= len(p.lights) {
		return fmt.Errorf("light %d out of range", index)
	}
	p.lights[index] = on
	return nil
}

// Flush sends the buffered lights to the program
func (p *Panel) Flush() error {
	p.send.Send(LightsMsg{Lights: slices.Clone(p.lights)})
	return nil
}

// Close turns the simulated lights off
func (p *Panel) Close() error {
	clear(p.lights)
	return p.Flush()
}
