package retry

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// DefaultPublishPolicy retries outbox publishes with exponential backoff
// until the message is handed to the broker.
func DefaultPublishPolicy(log *zap.Logger) Policy {
	return Policy{
		Name:     "outbox.publish",
		Attempts: 6,
		Backoff:  ExpoJitter{Base: 200 * time.Millisecond, Max: 30 * time.Second, Jitter: 0.2},
		OnAttempt: func(i int, err error) {
			if log != nil {
				log.Warn("publish retry", zap.Int("attempt", i+1), zap.Error(err))
			}
		},
		OnExhaust: func(err error) {
			if log != nil && !errors.Is(err, context.Canceled) {
				log.Error("publish retries exhausted", zap.Error(err))
			}
		},
	}
}

// FetchPolicy is a short policy for idempotent API reads.
func FetchPolicy(retryable func(error) bool) Policy {
	return Policy{
		Name:      "syncer.fetch",
		Attempts:  3,
		Backoff:   ExpoJitter{Base: 100 * time.Millisecond, Max: 2 * time.Second, Jitter: 0.2},
		Retryable: retryable,
	}
}
