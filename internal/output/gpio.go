package output

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/gpio"
)

// GPIO drives one pin per light.
type GPIO struct {
	lines []Line
}

// NewGPIO opens count pins starting at wiringPi pin first. Position 0 is
// wired to the first pin.
func NewGPIO(open PinOpener, first, count int) (*GPIO, error) {
	lines, err := openLines(open, first, count)
	if err != nil {
		return nil, err
	}
	return &GPIO{lines: lines}, nil
}

// SetPosition switches one light.
func (g *GPIO) SetPosition(index int, on bool) error {
	if index < 0 || index >= len(g.lines) {
		return fmt.Errorf("light %d out of range", index)
	}
	return g.lines[index].Out(gpio.Level(on))
}

// Close switches every light off.
func (g *GPIO) Close() error {
	var errs []error
	for _, line := range g.lines {
		errs = append(errs, line.Out(gpio.Low))
	}
	return errors.Join(errs...)
}
