// internal/backoff/backoff.go

// Package backoff provides the reconnection policy for the realtime
// connection: a linear, capped delay schedule with a bounded attempt budget.
package backoff

import "time"

const (
	DefaultBaseDelay   = 3 * time.Second
	DefaultCapDelay    = 15 * time.Second
	DefaultMaxAttempts = 5
)

// Policy maps a reconnection attempt count to a delay. Attempt counting
// starts at zero and resets on every successful open, so a healthy
// connection that later drops restarts the schedule from the first step.
type Policy struct {
	BaseDelay   time.Duration
	CapDelay    time.Duration
	MaxAttempts int
}

// Default returns the policy used when the caller configures nothing.
func Default() Policy {
	return Policy{
		BaseDelay:   DefaultBaseDelay,
		CapDelay:    DefaultCapDelay,
		MaxAttempts: DefaultMaxAttempts,
	}
}

// Delay returns the wait before retry number attempt (zero-based):
// min(base*(attempt+1), cap). It is non-decreasing in attempt.
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	d := p.BaseDelay * time.Duration(attempt+1)
	if d > p.CapDelay {
		return p.CapDelay
	}
	return d
}

// Exhausted reports whether the attempt budget is spent.
func (p Policy) Exhausted(attempts int) bool {
	return attempts >= p.MaxAttempts
}
