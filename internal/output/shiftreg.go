package output

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
)

// ShiftRegister drives a chain of 74x595 shift registers through three pins:
// data, clock and latch. SetPosition only updates a buffer; Flush clocks the
// buffer out and latches it.
type ShiftRegister struct {
	data, clock, latch Line
	bits               []bool
}

// NewShiftRegister opens the data, clock and latch pins at wiringPi numbers
// first, first+1 and first+2 for a chain of count outputs.
func NewShiftRegister(open PinOpener, first, count int) (*ShiftRegister, error) {
	lines, err := openLines(open, first, 3)
	if err != nil {
		return nil, err
	}
	sr := &ShiftRegister{
		data:  lines[0],
		clock: lines[1],
		latch: lines[2],
		bits:  make([]bool, count),
	}
	return sr, sr.Flush()
}

// SetPosition buffers one light.
func (s *ShiftRegister) SetPosition(index int, on bool) error {
	if index < 0 || index >= len(s.bits) {
		return fmt.Errorf("light %d out of range", index)
	}
	s.bits[index] = on
	return nil
}

// Flush shifts the buffer out, highest position first, and latches it.
func (s *ShiftRegister) Flush() error {
	if err := s.latch.Out(gpio.Low); err != nil {
		return err
	}
	for i := len(s.bits) - 1; i >= 0; i-- {
		if err := s.data.Out(gpio.Level(s.bits[i])); err != nil {
			return err
		}
		if err := s.pulse(s.clock); err != nil {
			return err
		}
	}
	return s.pulse(s.latch)
}

// Close switches every output off.
func (s *ShiftRegister) Close() error {
	clear(s.bits)
	return s.Flush()
}

func (s *ShiftRegister) pulse(l Line) error {
	if err := l.Out(gpio.High); err != nil {
		return err
	}
	return l.Out(gpio.Low)
}
