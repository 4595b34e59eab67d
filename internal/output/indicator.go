// Package output drives indicator lights: GPIO pins, a shift register chain,
// or nothing at all.
package output

import "errors"

// ErrPinNotFound is returned when a pin name is not known to the host.
var ErrPinNotFound = errors.New("gpio pin not found")

// Indicator switches individual lights. Positions run from 0 (lowest) to
// the light count minus one.
type Indicator interface {
	SetPosition(index int, on bool) error
	Close() error
}

// Flusher is implemented by indicators that buffer SetPosition calls and
// need an explicit push to make them visible.
type Flusher interface {
	Flush() error
}

// Discard is an Indicator that drops every write. It keeps the meter running
// headless, for example with only the web monitor attached.
var Discard Indicator = discard{}

type discard struct{}

func (discard) SetPosition(int, bool) error { return nil }
func (discard) Close() error                { return nil }
