package ui

import "github.com/oszuidwest/zwfm-ledmeter/internal/types"

// LightsMsg carries the lights the meter just switched
type LightsMsg struct {
	Lights []bool // Lowest position first
}

// FrameMsg carries the meter frame polled for the readout
type FrameMsg struct {
	Frame types.Frame
}

// pollMsg asks the model to read a new frame
type pollMsg struct{}
