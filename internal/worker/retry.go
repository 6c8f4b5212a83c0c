package worker

import (
	"math"
	"time"
)

// RetryPolicy shapes the backoff between sheet sync attempts. Delays grow
// geometrically from Base up to Cap; MaxAttempts bounds how often a task is
// retried before it is dead-lettered.
type RetryPolicy struct {
	MaxAttempts int
	Base        time.Duration
	Cap         time.Duration
	Factor      float64
}

// Delay returns the wait before the given attempt. Attempt numbers are
// 1-based; anything lower is treated as the first attempt.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	base := p.Base
	if base <= 0 {
		base = time.Second
	}
	factor := p.Factor
	if factor <= 0 {
		factor = 2
	}

	d := time.Duration(float64(base) * math.Pow(factor, float64(attempt-1)))
	if d <= 0 {
		d = base
	}
	if p.Cap > 0 && d > p.Cap {
		d = p.Cap
	}
	return d
}
