// Package retry implements with_retry: exponential backoff with
// optional jitter, retrying only errors classified as transient.
//
// A dead connection returns an error straight to the caller rather
// than retrying internally; this package gives callers a transient-only
// retry policy to wrap around that, using errors.IsTransient as the
// retry predicate.
package retry

import (
	"context"
	"math/rand"
	"time"

	bolterrors "github.com/corebolt/neobolt/errors"
)

// Policy configures with_retry's backoff.
type Policy struct {
	MaxRetries int
	Base       time.Duration
	Max        time.Duration
	Jitter     bool
}

// DefaultPolicy is max_retries=3, base=100ms, max=5s, jitter on.
func DefaultPolicy() Policy {
	return Policy{MaxRetries: 3, Base: 100 * time.Millisecond, Max: 5 * time.Second, Jitter: true}
}

// Do runs fn, retrying it under p's backoff policy as long as fn
// returns a transient error (per errors.IsTransient) and attempts
// remain. A non-transient error returns immediately without retrying.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !bolterrors.IsTransient(lastErr) {
			return lastErr
		}
		if attempt == p.MaxRetries {
			break
		}

		delay := backoff(p, attempt)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return lastErr
}

func backoff(p Policy, attempt int) time.Duration {
	d := p.Base << attempt
	if d > p.Max || d <= 0 {
		d = p.Max
	}
	if !p.Jitter {
		return d
	}
	// up to 25% jitter, applied as a reduction so the delay never exceeds max.
	jitter := time.Duration(rand.Int63n(int64(d)/4 + 1))
	return d - jitter
}
