// Package retry wraps fallible operations with bounded exponential backoff.
package retry

import (
	"context"
	"time"
)

// Do invokes op up to maxAttempts times, sleeping baseDelay*2^(i-1) before
// attempt i (first attempt runs immediately). No jitter: the remote sources
// expose no rate-limit metadata worth adapting to. Returns the last error
// once attempts are exhausted, or ctx.Err() if cancelled mid-backoff.
func Do[T any](ctx context.Context, maxAttempts int, baseDelay time.Duration, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			delay := baseDelay << (attempt - 1)
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
		}

		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}
	return zero, lastErr
}
