package collectlog

import (
	"time"

	"triageir/scanerrors"
)

// Retry attempts op up to maxAttempts times, sleeping 100*attempt
// milliseconds between attempts. It stops and returns immediately on the
// first attempt whose error is not classified retryable (including a
// success, which returns with no error). On exhaustion it returns the
// last error.
func Retry[T any](maxAttempts int, op func() (T, error)) (T, int, error) {
	var zero T
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		val, err := op()
		if err == nil {
			return val, attempt, nil
		}
		lastErr = err

		var serr *scanerrors.Error
		if !scanerrors.As(err, &serr) || !serr.Retryable() {
			return zero, attempt, err
		}

		if attempt < maxAttempts {
			time.Sleep(time.Duration(100*attempt) * time.Millisecond)
		}
	}

	return zero, maxAttempts, lastErr
}
