// Package ai drives the LLM niche classification: a rate-limited primary
// provider with a secondary fallback, and the fixed pipe-delimited response
// protocol the discovery pipeline depends on.
package ai

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter enforces a minimum delay between consecutive calls to a single
// scarce downstream resource. Single-process only: the primary provider's
// quota is owned by this process alone.
type Limiter struct {
	limiter *rate.Limiter
	delay   time.Duration
}

// NewLimiter returns a limiter that spaces calls at least delay apart. The
// delay is fixed at construction.
func NewLimiter(delay time.Duration) *Limiter {
	return &Limiter{
		limiter: rate.NewLimiter(rate.Every(delay), 1),
		delay:   delay,
	}
}

// Wait blocks until at least the configured delay has passed since the
// previous call returned. The first call never blocks.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Delay returns the configured minimum spacing.
func (l *Limiter) Delay() time.Duration {
	return l.delay
}
