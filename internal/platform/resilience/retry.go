package resilience

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
)

// ErrRetriesExhausted wraps the final attempt's error once the cap is hit.
var ErrRetriesExhausted = crerr.New("retries exhausted")

type retryableError struct {
	cause error
}

func (e *retryableError) Error() string { return e.cause.Error() }
func (e *retryableError) Unwrap() error { return e.cause }

// MarkRetryable tags an error as transient so Retry keeps attempting it.
func MarkRetryable(err error) error {
	if err == nil {
		return nil
	}
	return &retryableError{cause: err}
}

// IsRetryable reports whether an error was tagged transient.
func IsRetryable(err error) bool {
	var marker *retryableError
	return crerr.As(err, &marker)
}

type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   200 * time.Millisecond,
		MaxDelay:    5 * time.Second,
	}
}

// Retry runs op with exponential backoff. Only errors tagged via
// MarkRetryable are retried; everything else surfaces immediately. Context
// cancellation aborts between attempts.
func Retry(ctx context.Context, cfg RetryConfig, op func(ctx context.Context) error) error {
	defaults := DefaultRetryConfig()
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = defaults.MaxAttempts
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = defaults.BaseDelay
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = defaults.MaxDelay
	}

	var lastErr error
	delay := cfg.BaseDelay
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if !IsRetryable(lastErr) {
			return lastErr
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return crerr.Mark(crerr.Wrapf(lastErr, "after %d attempts", cfg.MaxAttempts), ErrRetriesExhausted)
}
