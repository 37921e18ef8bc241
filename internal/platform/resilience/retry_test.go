package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastRetryConfig(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts: attempts,
		BaseDelay:   time.Millisecond,
		MaxDelay:    2 * time.Millisecond,
	}
}

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastRetryConfig(3), func(context.Context) error {
		calls++
		if calls < 3 {
			return MarkRetryable(errors.New("flaky upstream"))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestRetryStopsOnPermanentError(t *testing.T) {
	permanent := errors.New("bad request")

	calls := 0
	err := Retry(context.Background(), fastRetryConfig(5), func(context.Context) error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("got %v, want the permanent error", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, permanent errors must not retry", calls)
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	transient := errors.New("still down")

	calls := 0
	err := Retry(context.Background(), fastRetryConfig(3), func(context.Context) error {
		calls++
		return MarkRetryable(transient)
	})
	if !errors.Is(err, ErrRetriesExhausted) {
		t.Fatalf("got %v, want ErrRetriesExhausted", err)
	}
	if !errors.Is(err, transient) {
		t.Fatal("exhausted error should keep the underlying cause")
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestRetryHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := Retry(ctx, RetryConfig{MaxAttempts: 10, BaseDelay: 50 * time.Millisecond}, func(context.Context) error {
		calls++
		cancel()
		return MarkRetryable(errors.New("down"))
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestIsRetryable(t *testing.T) {
	if IsRetryable(errors.New("plain")) {
		t.Fatal("plain errors are not retryable")
	}
	if !IsRetryable(MarkRetryable(errors.New("transient"))) {
		t.Fatal("marked errors are retryable")
	}
	if MarkRetryable(nil) != nil {
		t.Fatal("marking nil should stay nil")
	}
}
