package output

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/oszuidwest/zwfm-ledmeter/internal/meter"
)

// Panel applies display patterns to an Indicator. It remembers what it last
// wrote and only touches positions that changed, which avoids flicker on
// slow outputs. Panel is safe for concurrent use.
type Panel struct {
	ind   Indicator
	count int

	mu     sync.Mutex
	last   meter.Pattern
	primed bool
}

// NewPanel returns a Panel for count lights on ind.
func NewPanel(ind Indicator, count int) *Panel {
	return &Panel{
		ind:   ind,
		count: count,
		last:  make(meter.Pattern, count),
	}
}

// Count returns the number of lights.
func (p *Panel) Count() int {
	return p.count
}

// Apply shows pattern. The first call writes every position because the
// hardware state is unknown until then.
func (p *Panel) Apply(pattern meter.Pattern) error {
	if len(pattern) != p.count {
		return fmt.Errorf("pattern has %d lights, panel has %d", len(pattern), p.count)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.applyLocked(pattern, !p.primed)
}

// Clear turns every light off.
func (p *Panel) Clear() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.applyLocked(make(meter.Pattern, p.count), true)
}

// Last returns a copy of the pattern currently shown.
func (p *Panel) Last() meter.Pattern {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.last)
}

// Close turns every light off and releases the indicator.
func (p *Panel) Close() error {
	return errors.Join(p.Clear(), p.ind.Close())
}

func (p *Panel) applyLocked(pattern meter.Pattern, force bool) error {
	changed := false
	for i, on := range pattern {
		if !force && p.last[i] == on {
			continue
		}
		if err := p.ind.SetPosition(i, on); err != nil {
			return fmt.Errorf("set light %d: %w", i, err)
		}
		p.last[i] = on
		changed = true
	}
	p.primed = true

	if f, ok := p.ind.(Flusher); ok && changed {
		return f.Flush()
	}
	return nil
}
