// Package backoff computes the delay before the next reconciliation pass
// after a pass fails.
package backoff

import (
	"math/rand"
	"time"
)

// BackOff grows a delay geometrically from Duration up to MaxDuration.
type BackOff struct {
	attempts int
	current  time.Duration
	// Duration is the first delay.
	Duration time.Duration
	// Factor multiplies the delay after each attempt. Zero keeps it constant.
	Factor float64
	// MaxDuration caps the delay before jitter is applied.
	MaxDuration time.Duration
	// JitterFactor adds up to JitterFactor*delay of random extra delay.
	JitterFactor float64
}

// New returns a BackOff doubling from initial up to max.
func New(initial, max time.Duration) *BackOff {
	return &BackOff{Duration: initial, Factor: 2, MaxDuration: max}
}

// NextDuration returns the delay for the next attempt.
func (b *BackOff) NextDuration() time.Duration {
	if b.attempts == 0 || b.current == 0 {
		b.current = b.Duration
	}
	b.attempts++

	duration := b.current
	if b.Factor != 0 {
		b.current = time.Duration(float64(b.current) * b.Factor)
		if b.MaxDuration > 0 && b.current > b.MaxDuration {
			b.current = b.MaxDuration
		}
	}

	if b.JitterFactor > 0 {
		duration = b.Jitter(duration)
	}
	return duration
}

// Jitter returns a duration between initial and initial*(1+JitterFactor).
func (b *BackOff) Jitter(initial time.Duration) time.Duration {
	factor := b.JitterFactor
	if factor <= 0 {
		factor = 1
	}
	return initial + time.Duration(rand.Float64()*factor*float64(initial))
}

// Attempts returns the number of delays handed out since the last Reset.
func (b *BackOff) Attempts() int {
	return b.attempts
}

// Reset starts over from Duration. Called after a successful pass.
func (b *BackOff) Reset() {
	b.attempts = 0
	b.current = 0
}
