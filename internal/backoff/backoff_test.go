// internal/backoff/backoff_test.go
package backoff

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDelayStartsAtBase(t *testing.T) {
	p := Default()
	assert.Equal(t, p.BaseDelay, p.Delay(0))
}

func TestDelayMonotonicAndCapped(t *testing.T) {
	p := Policy{BaseDelay: 3 * time.Second, CapDelay: 15 * time.Second, MaxAttempts: 10}

	prev := time.Duration(0)
	for attempt := 0; attempt < 20; attempt++ {
		d := p.Delay(attempt)
		assert.GreaterOrEqual(t, d, prev, "delay must be non-decreasing at attempt %d", attempt)
		assert.LessOrEqual(t, d, p.CapDelay, "delay must honor the cap at attempt %d", attempt)
		prev = d
	}
}

func TestDelaySchedule(t *testing.T) {
	p := Policy{BaseDelay: 3 * time.Second, CapDelay: 15 * time.Second, MaxAttempts: 5}

	assert.Equal(t, 3*time.Second, p.Delay(0))
	assert.Equal(t, 6*time.Second, p.Delay(1))
	assert.Equal(t, 9*time.Second, p.Delay(2))
	assert.Equal(t, 12*time.Second, p.Delay(3))
	assert.Equal(t, 15*time.Second, p.Delay(4))
	// Capped from here on.
	assert.Equal(t, 15*time.Second, p.Delay(5))
	assert.Equal(t, 15*time.Second, p.Delay(100))
}

func TestDelayNegativeAttemptClamped(t *testing.T) {
	p := Default()
	assert.Equal(t, p.Delay(0), p.Delay(-3))
}

func TestExhausted(t *testing.T) {
	p := Policy{BaseDelay: time.Second, CapDelay: time.Second, MaxAttempts: 5}

	assert.False(t, p.Exhausted(0))
	assert.False(t, p.Exhausted(4))
	assert.True(t, p.Exhausted(5))
	assert.True(t, p.Exhausted(6))
}
