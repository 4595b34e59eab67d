package meter

// Mode selects how a level is drawn.
type Mode int

const (
	// ModeBar lights every position whose threshold is met.
	ModeBar Mode = iota
	// ModeSingle lights only the highest position whose threshold is met.
	ModeSingle
)

// String returns the mode name.
func (m Mode) String() string {
	if m == ModeSingle {
		return "single"
	}
	return "bar"
}

// Pattern holds one on/off value per light, lowest position first.
type Pattern []bool

// Lit returns the indexes of the lit positions.
func (p Pattern) Lit() []int {
	var lit []int
	for i, on := range p {
		if on {
			lit = append(lit, i)
		}
	}
	return lit
}

// Mapper renders animator states onto Count lights.
type Mapper struct {
	Table    ThresholdTable
	Count    int
	Mode     Mode
	PeakHold bool
}

// Render returns the lights to show for st.
func (m *Mapper) Render(st State) Pattern {
	p := make(Pattern, m.Count)

	switch m.Mode {
	case ModeSingle:
		if top := m.highest(st.Level); top >= 0 {
			p[top] = true
		}
	default:
		for i := range p {
			p[i] = st.Level >= m.Table.Threshold(i, m.Count)
		}
	}

	if m.PeakHold && st.PeakActive {
		if top := m.highest(st.PeakLevel); top >= 0 {
			p[top] = true
		}
	}
	return p
}

// highest returns the highest position whose threshold level meets, or -1.
func (m *Mapper) highest(level int) int {
	for i := m.Count - 1; i >= 0; i-- {
		if level >= m.Table.Threshold(i, m.Count) {
			return i
		}
	}
	return -1
}
