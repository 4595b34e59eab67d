package output

import (
	"context"
	"time"

	"github.com/oszuidwest/zwfm-ledmeter/internal/meter"
)

// SelfTestStep is how long each light stays on during the startup test.
const SelfTestStep = 100 * time.Millisecond

// SelfTest walks a single light up the panel and back down so the wiring
// order can be checked by eye. It stops early when ctx is done and always
// leaves the panel dark.
func SelfTest(ctx context.Context, p *Panel, step time.Duration) error {
	n := p.Count()
	order := make([]int, 0, 2*n)
	for i := range n {
		order = append(order, i)
	}
	for i := n - 1; i >= 0; i-- {
		order = append(order, i)
	}

	for _, pos := range order {
		pattern := make(meter.Pattern, n)
		pattern[pos] = true
		if err := p.Apply(pattern); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return p.Clear()
		case <-time.After(step):
		}
	}
	return p.Clear()
}
