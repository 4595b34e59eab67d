// Package meter turns a stream of dB readings into light patterns with
// peak-meter ballistics: instant attack, stepped decay and an optional
// peak-hold marker.
package meter

// FloorLevel is the lowest displayable level in whole dB.
const FloorLevel = -144

// State is the animator's memory between ticks.
type State struct {
	Level      int  // displayed level in dB
	DecayTicks int  // lower readings seen since the last decay step
	PeakLevel  int  // held peak in dB
	PeakTicks  int  // ticks left on the peak-hold marker
	PeakActive bool // peak-hold marker is shown for this tick
}

// Ballistics configures the animator's timing.
type Ballistics struct {
	// DecayStep is how many dB the level drops per decay step. With 0 the
	// level never falls and the display holds the highest peak.
	DecayStep int
	// DecayWindow is how many lower readings it takes to trigger one step.
	DecayWindow int
	// HoldTicks is how many ticks the peak-hold marker stays after a peak.
	HoldTicks int
}

// Animator applies Ballistics to one reading per tick. It is not safe for
// concurrent use; the tick loop owns it.
type Animator struct {
	b     Ballistics
	state State
}

// NewAnimator returns an animator resting at the floor.
func NewAnimator(b Ballistics) *Animator {
	b.DecayWindow = max(b.DecayWindow, 1)
	return &Animator{
		b: b,
		state: State{
			Level:     FloorLevel,
			PeakLevel: FloorLevel,
		},
	}
}

// State returns the state after the most recent Process call.
func (a *Animator) State() State {
	return a.state
}

// Process advances the animator by one tick with reading in dB and returns
// the new state. The reading is truncated to whole dB.
func (a *Animator) Process(reading float64) State {
	r := max(int(reading), FloorLevel)
	s := &a.state

	if r >= s.Level {
		s.Level = r
		s.DecayTicks = 0
		s.PeakLevel = r
		s.PeakTicks = a.b.HoldTicks
		s.PeakActive = s.PeakTicks > 0
		return *s
	}

	s.DecayTicks++
	if s.DecayTicks >= a.b.DecayWindow {
		s.DecayTicks = 0
		s.Level = max(s.Level-a.b.DecayStep, FloorLevel)
	}

	s.PeakActive = s.PeakTicks > 0
	if s.PeakTicks > 0 {
		s.PeakTicks--
	}
	return *s
}

// Reset returns the animator to the floor.
func (a *Animator) Reset() {
	a.state = State{Level: FloorLevel, PeakLevel: FloorLevel}
}
