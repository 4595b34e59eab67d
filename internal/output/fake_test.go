package output

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/gpio"
)

// recorder is an Indicator that logs every call.
type recorder struct {
	lights  []bool
	writes  []string
	flushes int
	closed  bool
	fail    error
}

func newRecorder(n int) *recorder {
	return &recorder{lights: make([]bool, n)}
}

func (r *recorder) SetPosition(i int, on bool) error {
	if r.fail != nil {
		return r.fail
	}
	r.lights[i] = on
	r.writes = append(r.writes, fmt.Sprintf("%d=%t", i, on))
	return nil
}

func (r *recorder) Flush() error {
	r.flushes++
	return nil
}

func (r *recorder) Close() error {
	r.closed = true
	return nil
}

// fakeLine records the levels written to one pin.
type fakeLine struct {
	name   string
	levels []gpio.Level
	log    *[]string
}

func (l *fakeLine) Out(level gpio.Level) error {
	l.levels = append(l.levels, level)
	if l.log != nil {
		*l.log = append(*l.log, fmt.Sprintf("%s=%v", l.name, level))
	}
	return nil
}

func (l *fakeLine) last() gpio.Level {
	if len(l.levels) == 0 {
		return gpio.Low
	}
	return l.levels[len(l.levels)-1]
}

// fakePins hands out fakeLines by name.
type fakePins struct {
	lines map[string]*fakeLine
	log   []string
}

func newFakePins() *fakePins {
	return &fakePins{lines: make(map[string]*fakeLine)}
}

func (f *fakePins) open(name string) (Line, error) {
	if name == "GPIO99" {
		return nil, errors.New("unexpected pin")
	}
	l, ok := f.lines[name]
	if !ok {
		l = &fakeLine{name: name, log: &f.log}
		f.lines[name] = l
	}
	return l, nil
}
