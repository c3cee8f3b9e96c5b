package translate

import (
	"context"
	"time"

	"github.com/ayoubaydy/tajreba"
)

// TranslateFunc is the signature for a single translation attempt.
type TranslateFunc func(ctx context.Context) (string, error)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff delays for translation retries:
// 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// TranslateWithRetryDelays attempts a translation with backoff between
// attempts. Invalid-input errors are not retried; they will fail the same
// way every time. The logger function, if provided, is called on each retry.
func TranslateWithRetryDelays(ctx context.Context, fn TranslateFunc, logger LogFunc, delays []time.Duration) (string, error) {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		out, err := fn(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if tajreba.ErrorCode(err) == tajreba.EINVALID {
			break
		}
		if attempt >= maxAttempts-1 {
			break
		}

		if logger != nil {
			logger("  retry translation (attempt %d): %v", attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return "", lastErr
}
