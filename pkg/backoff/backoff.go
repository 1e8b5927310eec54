// Package backoff computes exponential retry delays with jitter.
//
// The zero value of Exponential is usable and matches the defaults used by the
// realtime reconnection loop: 500ms initial interval, doubling per attempt,
// capped at 30s, with 10% jitter to avoid thundering-herd reconnects.
package backoff

import (
	"math/rand/v2"
	"time"
)

const (
	defaultInitialInterval = 500 * time.Millisecond
	defaultMaxInterval     = 30 * time.Second
	defaultMultiplier      = 2.0
	defaultJitterFactor    = 0.1
)

// Exponential computes delays of the form initial * multiplier^attempt,
// capped at MaxInterval, with +/- JitterFactor randomization.
type Exponential struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	JitterFactor    float64
}

// Delay returns the wait before retry number attempt (0-based). Negative
// attempts are treated as zero.
func (e Exponential) Delay(attempt int) time.Duration {
	initial := e.InitialInterval
	if initial <= 0 {
		initial = defaultInitialInterval
	}
	max := e.MaxInterval
	if max <= 0 {
		max = defaultMaxInterval
	}
	multiplier := e.Multiplier
	if multiplier <= 1 {
		multiplier = defaultMultiplier
	}
	jitter := e.JitterFactor
	if jitter < 0 || jitter >= 1 {
		jitter = defaultJitterFactor
	}
	if attempt < 0 {
		attempt = 0
	}

	delay := float64(initial)
	for i := 0; i < attempt; i++ {
		delay *= multiplier
		if delay >= float64(max) {
			delay = float64(max)
			break
		}
	}

	if jitter > 0 {
		// Spread the delay across [delay*(1-jitter), delay*(1+jitter)].
		delay *= 1 + jitter*(2*rand.Float64()-1)
	}

	if delay > float64(max) {
		delay = float64(max)
	}
	return time.Duration(delay)
}
