package infra

import (
	"context"
	"math/rand/v2"
	"time"
)

// Backoff paces a reconnect loop: each Wait sleeps a jittered delay that
// doubles up to Max. Not safe for concurrent use; each retry loop owns its
// own instance.
type Backoff struct {
	Min time.Duration
	Max time.Duration

	delay   time.Duration
	attempt int
}

func NewBackoff(min, max time.Duration) *Backoff {
	return &Backoff{Min: min, Max: max}
}

// Wait blocks for the next delay, returning early with the context error on
// cancellation. Jitter is +/-20% so restarting replicas do not reconnect in
// lockstep.
func (b *Backoff) Wait(ctx context.Context) error {
	if b.delay == 0 {
		b.delay = b.Min
	}
	jitter := time.Duration((rand.Float64()*0.4 - 0.2) * float64(b.delay))
	wait := max(b.delay+jitter, b.Min)

	b.delay = min(2*b.delay, b.Max)
	b.attempt++

	select {
	case <-time.After(wait):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Attempt reports how many waits have completed or started.
func (b *Backoff) Attempt() int { return b.attempt }
