package meter

import (
	"fmt"
	"slices"
	"sort"
)

// ThresholdTable lists the dB level each light needs, top light first. Entries
// are strictly decreasing. With N lights only the first N entries are used,
// and the light at position p (0 = lowest) uses entry N-1-p.
type ThresholdTable []int

// Built-in threshold tables.
var scales = map[string]ThresholdTable{
	// 1 dB steps.
	"1db": {-1, -2, -3, -4, -5, -6, -7, -8, -9, -10, -11, -12, -13, -14, -15, -16},
	// 1 dB steps down to -6, then 2 dB steps.
	"mixed": {-1, -2, -3, -4, -5, -6, -8, -10, -12, -14, -16, -18, -20, -22, -24, -26},
	// 2 dB steps. Eight lights cover down to -15 dB.
	"2db": {-1, -3, -5, -7, -9, -11, -13, -15, -17, -19, -21, -23, -25, -27, -29, -31},
	// 3 dB steps. Eight lights cover down to -21 dB.
	"3db": {-1, -3, -6, -9, -12, -15, -18, -21, -24, -27, -30, -33, -36, -39, -42, -45},
	// Pseudo-logarithmic. Eight lights cover down to -30 dB.
	"pseudo-log": {-1, -3, -5, -7, -10, -15, -20, -25, -30, -35, -40, -50, -60, -70, -80, -90},
}

// DefaultScale is the table used when none is configured.
const DefaultScale = "1db"

// MaxLights is the number of entries in every built-in table.
const MaxLights = 16

// Scale returns a copy of the named built-in table.
func Scale(name string) (ThresholdTable, error) {
	t, ok := scales[name]
	if !ok {
		return nil, fmt.Errorf("unknown scale %q (known: %v)", name, ScaleNames())
	}
	return slices.Clone(t), nil
}

// ScaleNames returns the names of the built-in tables, sorted.
func ScaleNames() []string {
	names := make([]string, 0, len(scales))
	for name := range scales {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that t can drive count lights.
func (t ThresholdTable) Validate(count int) error {
	if count < 1 || count > len(t) {
		return fmt.Errorf("light count must be between 1 and %d, got %d", len(t), count)
	}
	for i := 1; i < len(t); i++ {
		if t[i] >= t[i-1] {
			return fmt.Errorf("thresholds must be strictly decreasing: %d follows %d", t[i], t[i-1])
		}
	}
	return nil
}

// Threshold returns the level the light at position needs when count lights are used.
func (t ThresholdTable) Threshold(position, count int) int {
	return t[count-1-position]
}
