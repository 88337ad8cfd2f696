package retry

import (
	"context"
	"fmt"
	"time"
)

// RetryConfig describes one retry policy that can be shared across call sites.
type RetryConfig struct {
	MaxAttempts int
	Delay       time.Duration
	Backoff     bool // exponential backoff: Delay, 2*Delay, 4*Delay, ...

	// Retryable decides whether an error is worth another attempt.
	// Nil means every error is retried.
	Retryable func(error) bool
}

// WithRetry runs fn until it succeeds, the attempts are exhausted,
// or fn returns a non-retryable error.
func WithRetry(ctx context.Context, config RetryConfig, fn func() error) error {
	var lastErr error

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		if err := fn(); err != nil {
			lastErr = err

			if config.Retryable != nil && !config.Retryable(err) {
				return err
			}

			if attempt == config.MaxAttempts {
				return fmt.Errorf("failed after %d attempts: %w", config.MaxAttempts, err)
			}

			delay := config.Delay
			if config.Backoff {
				delay = config.Delay << (attempt - 1)
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				continue
			}
		}
		return nil
	}

	return lastErr
}
