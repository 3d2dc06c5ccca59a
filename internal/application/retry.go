package application

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"

	"noteboard/internal/metrics"
)

// RetryPolicy retries an operation that failed with ErrConflictRetryable,
// backing off exponentially with jitter between attempts.
type RetryPolicy struct {
	// Attempts is the total number of tries, including the first
	Attempts int

	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64

	// JitterFactor is the maximum jitter as a fraction of the delay (0.0 to 1.0)
	JitterFactor float64
}

// DefaultRetryPolicy returns the policy used by every command.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts:     5,
		InitialDelay: 10 * time.Millisecond,
		MaxDelay:     500 * time.Millisecond,
		Multiplier:   2.0,
		JitterFactor: 0.3,
	}
}

// NextDelay returns the pause before retry number attempt (0-based).
func (p RetryPolicy) NextDelay(attempt int) time.Duration {
	delay := float64(p.InitialDelay) * math.Pow(p.Multiplier, float64(attempt))
	if delay > float64(p.MaxDelay) {
		delay = float64(p.MaxDelay)
	}
	if p.JitterFactor > 0 {
		delay += delay * p.JitterFactor * (2*rand.Float64() - 1)
		if delay < 0 {
			delay = float64(p.InitialDelay)
		}
	}
	return time.Duration(delay)
}

// Do runs fn until it succeeds, fails with a terminal error, or the
// attempts are used up. The last error is returned unchanged.
func (p RetryPolicy) Do(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	attempts := max(p.Attempts, 1)
	log := zerolog.Ctx(ctx)

	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil || !IsRetryable(err) || attempt+1 >= attempts {
			return err
		}

		delay := p.NextDelay(attempt)
		metrics.ConflictRetriesTotal.WithLabelValues(operation).Inc()
		log.Debug().
			Str("operation", operation).
			Int("attempt", attempt+1).
			Dur("backoff", delay).
			Err(err).
			Msg("retrying after conflict")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
