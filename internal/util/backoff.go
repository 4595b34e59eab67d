package util

import "time"

// Backoff produces exponentially growing restart delays capped at a maximum.
type Backoff struct {
	current  time.Duration
	initial  time.Duration
	maxDelay time.Duration
	factor   float64
}

// NewBackoff returns a Backoff that doubles from initial up to maxDelay.
func NewBackoff(initial, maxDelay time.Duration) *Backoff {
	return &Backoff{
		current:  initial,
		initial:  initial,
		maxDelay: maxDelay,
		factor:   2.0,
	}
}

// Next returns the delay to wait now and advances to the following one.
func (b *Backoff) Next() time.Duration {
	current := b.current
	b.current = min(time.Duration(float64(b.current)*b.factor), b.maxDelay)
	return current
}

// Current returns the delay Next would return, without advancing.
func (b *Backoff) Current() time.Duration {
	return b.current
}

// Reset starts over from the initial delay.
func (b *Backoff) Reset() {
	b.current = b.initial
}
