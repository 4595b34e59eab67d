package output

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// Line is a single output pin.
type Line interface {
	Out(l gpio.Level) error
}

// PinOpener resolves a BCM pin name such as "GPIO17" to a Line.
type PinOpener func(name string) (Line, error)

// wiringPiToBCM maps wiringPi pin numbers to Broadcom GPIO numbers on the
// 40-pin header.
var wiringPiToBCM = map[int]int{
	0: 17, 1: 18, 2: 27, 3: 22, 4: 23, 5: 24, 6: 25, 7: 4,
	8: 2, 9: 3, 10: 8, 11: 7, 12: 10, 13: 9, 14: 11, 15: 14, 16: 15,
	21: 5, 22: 6, 23: 13, 24: 19, 25: 26, 26: 12, 27: 16,
	28: 20, 29: 21, 30: 0, 31: 1,
}

// PinName returns the BCM name for a wiringPi pin number.
func PinName(wiringPi int) (string, error) {
	bcm, ok := wiringPiToBCM[wiringPi]
	if !ok {
		return "", fmt.Errorf("%w: wiringPi %d has no header pin", ErrPinNotFound, wiringPi)
	}
	return fmt.Sprintf("GPIO%d", bcm), nil
}

var (
	hostOnce sync.Once
	hostErr  error
)

// HostPins initializes the periph host drivers once and returns an opener
// backed by the GPIO registry.
func HostPins() (PinOpener, error) {
	hostOnce.Do(func() {
		_, hostErr = host.Init()
	})
	if hostErr != nil {
		return nil, fmt.Errorf("init gpio host: %w", hostErr)
	}
	return openRegistryPin, nil
}

func openRegistryPin(name string) (Line, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrPinNotFound, name)
	}
	return p, nil
}

// openLines opens count consecutive wiringPi pins starting at first and
// drives them low.
func openLines(open PinOpener, first, count int) ([]Line, error) {
	lines := make([]Line, 0, count)
	for i := range count {
		name, err := PinName(first + i)
		if err != nil {
			return nil, err
		}
		line, err := open(name)
		if err != nil {
			return nil, err
		}
		if err := line.Out(gpio.Low); err != nil {
			return nil, fmt.Errorf("set %s low: %w", name, err)
		}
		lines = append(lines, line)
	}
	return lines, nil
}
