package reservation

import (
	"context"
	"log"
	"time"
)

// withRetry runs fn up to maxAttempts times, sleeping baseDelay×attempt
// between attempts (linear backoff).  Final errors — the engine's
// logical results — propagate immediately and are never retried; only
// transient storage faults consume attempts.  After the last attempt
// the underlying fault is folded into ErrStorageUnavailable so callers
// see a single stable failure kind.
func withRetry(ctx context.Context, maxAttempts int, baseDelay time.Duration, fn func() error) error {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if isFinal(err) {
			return err
		}
		if attempt == maxAttempts {
			log.Printf("reservation: giving up after %d attempts: %v", maxAttempts, err)
			return ErrStorageUnavailable
		}
		log.Printf("reservation: transient storage fault (attempt %d/%d): %v", attempt, maxAttempts, err)
		select {
		case <-time.After(baseDelay * time.Duration(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return ErrStorageUnavailable
}
