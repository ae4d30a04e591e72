package cli

import (
	"context"
	"time"

	"github.com/matzehuels/smartstep/pkg/errors"
)

// Backend connection retry defaults.
const (
	dialAttempts = 3
	dialDelay    = 500 * time.Millisecond
)

// dial runs connect up to attempts times, doubling the delay after each
// failure. Invalid-input errors (a malformed URI or address) are returned at
// once since retrying cannot fix them.
func dial(ctx context.Context, what string, attempts int, delay time.Duration, connect func(context.Context) error) error {
	logger := loggerFromContext(ctx)
	attempts = max(attempts, 1)

	var lastErr error
	for i := range attempts {
		lastErr = connect(ctx)
		if lastErr == nil {
			return nil
		}
		if errors.Is(lastErr, errors.ErrCodeInvalidInput) {
			return lastErr
		}
		if i == attempts-1 {
			break
		}
		logger.Warn("backend unavailable, retrying", "backend", what, "attempt", i+1, "in", delay, "err", lastErr)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return lastErr
}
