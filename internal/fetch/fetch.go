// Package fetch wraps outbound calls to external collaborators with bounded
// retry and backoff. A caller getting an error back must treat it as "skip
// this unit of work" — never as a zero or otherwise valid business value.
package fetch

import (
	"context"
	"fmt"
	"log"
	"time"

	"actives_trader/internal/metrics"
)

// Policy bounds the retry behavior of Do.
type Policy struct {
	MaxAttempts       int
	BaseDelay         time.Duration // wait before retrying a transient failure
	RateLimitCooldown time.Duration // wait before retrying after an HTTP 429
}

// Do attempts op up to MaxAttempts times. Rate-limited and transient failures
// are retried after their respective delays; anything else fails fast. There
// is no separate attempt budget for rate limits: a 429 consumes an attempt,
// it just waits longer, so retries never amplify the rate limiting.
func Do[T any](ctx context.Context, desc string, p Policy, op func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		res, err := op()
		if err == nil {
			return res, nil
		}
		lastErr = err

		switch Classify(err) {
		case KindRateLimited:
			log.Printf("Rate limit hit fetching %s (attempt %d/%d): %v", desc, attempt, p.MaxAttempts, err)
			metrics.FetchRetries.WithLabelValues("rate_limited").Inc()
			if attempt < p.MaxAttempts {
				if err := sleep(ctx, p.RateLimitCooldown); err != nil {
					return zero, err
				}
			}
		case KindTransient:
			log.Printf("Transient failure fetching %s (attempt %d/%d): %v", desc, attempt, p.MaxAttempts, err)
			metrics.FetchRetries.WithLabelValues("transient").Inc()
			if attempt < p.MaxAttempts {
				if err := sleep(ctx, p.BaseDelay); err != nil {
					return zero, err
				}
			}
		default:
			log.Printf("Error fetching %s (attempt %d/%d), not retrying: %v", desc, attempt, p.MaxAttempts, err)
			return zero, err
		}
	}

	return zero, fmt.Errorf("%s: retries exhausted: %w", desc, lastErr)
}

// sleep waits for d or until ctx is canceled, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
