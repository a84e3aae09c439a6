package cache

import (
	"context"
	"errors"
	"time"
)

// errMiss signals a missing key inside a retry loop. It never escapes Get.
var errMiss = errors.New("cache miss")

// Retry schedule of RetryWithBackoff.
const (
	retryAttempts = 3
	retryDelay    = 250 * time.Millisecond
)

// RetryableError marks a backend failure worth retrying, such as a dropped
// Redis connection.
type RetryableError struct{ Err error }

// Retryable wraps err as a RetryableError. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err, or anything it wraps, is a RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// RetryWithBackoff calls fn until it succeeds, returns an error that is not
// retryable, or has run retryAttempts times. The delay doubles after each
// retryable failure. Cancelling ctx ends the wait with ctx.Err().
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := retryDelay
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil || !IsRetryable(err) || attempt == retryAttempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
}
