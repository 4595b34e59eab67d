package audio

import (
	"encoding/binary"
	"math"
	"sync/atomic"
)

// fullScale16 is the magnitude of the most negative 16-bit sample.
const fullScale16 = 32768.0

// PeakSampler holds the largest absolute sample value seen since the last read.
//
// Observe is called from the audio delivery goroutine and ReadAndReset from the
// tick loop. Neither takes a lock: the peak lives in an atomic word holding
// float64 bits, raised with compare-and-swap and drained with swap.
type PeakSampler struct {
	bits     atomic.Uint64
	attached atomic.Bool
}

// NewPeakSampler returns a detached sampler holding a zero peak.
func NewPeakSampler() *PeakSampler {
	return &PeakSampler{}
}

// Attach marks the input as connected. Observe ignores samples until then.
func (s *PeakSampler) Attach() {
	s.attached.Store(true)
}

// Detach marks the input as disconnected.
func (s *PeakSampler) Detach() {
	s.attached.Store(false)
}

// Attached reports whether an input is connected.
func (s *PeakSampler) Attached() bool {
	return s.attached.Load()
}

// Observe raises the stored peak to the largest absolute value in samples.
func (s *PeakSampler) Observe(samples []float32) {
	if !s.attached.Load() {
		return
	}
	var block float64
	for _, v := range samples {
		if a := math.Abs(float64(v)); a > block {
			block = a
		}
	}
	s.raise(block)
}

// ObservePCM is Observe for interleaved S16LE PCM. All channels share one
// max-abs peak; the loudest sample of any channel wins.
// A trailing odd byte is ignored.
func (s *PeakSampler) ObservePCM(buf []byte) {
	if !s.attached.Load() {
		return
	}
	var block int32
	for i := 0; i+1 < len(buf); i += 2 {
		v := int32(int16(binary.LittleEndian.Uint16(buf[i:])))
		if v < 0 {
			v = -v
		}
		if v > block {
			block = v
		}
	}
	s.raise(float64(block) / fullScale16)
}

// raise stores v if it is larger than the current peak.
func (s *PeakSampler) raise(v float64) {
	if !(v > 0) {
		return
	}
	newBits := math.Float64bits(v)
	for {
		old := s.bits.Load()
		if math.Float64frombits(old) >= v {
			return
		}
		if s.bits.CompareAndSwap(old, newBits) {
			return
		}
	}
}

// ReadAndReset returns the peak seen since the previous call and resets it to 0.
func (s *PeakSampler) ReadAndReset() float64 {
	return math.Float64frombits(s.bits.Swap(0))
}
