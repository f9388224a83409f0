package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fast(attempts int) Backoff {
	return Backoff{MaxAttempts: attempts, Initial: time.Millisecond, Max: 2 * time.Millisecond, Factor: 2}
}

func TestDoSucceedsAfterFailures(t *testing.T) {
	calls := 0
	var retried []int
	b := fast(3)
	b.OnRetry = func(attempt int, _ error, _ time.Duration) { retried = append(retried, attempt) }

	err := Do(context.Background(), b, func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("leader not available")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if calls != 3 || len(retried) != 2 {
		t.Errorf("calls=%d retried=%v", calls, retried)
	}
}

func TestDoReturnsLastError(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fast(2), func(context.Context) error {
		calls++
		return errors.New("attempt failed")
	})
	if err == nil || err.Error() != "attempt failed" {
		t.Fatalf("err = %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestDoStopsOnPermanentError(t *testing.T) {
	permanent := errors.New("message too large")
	b := fast(5)
	b.Retryable = func(err error) bool { return !errors.Is(err, permanent) }

	calls := 0
	err := Do(context.Background(), b, func(context.Context) error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) || calls != 1 {
		t.Fatalf("err=%v calls=%d", err, calls)
	}
}

func TestDoHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	err := Do(ctx, fast(3), func(context.Context) error {
		calls++
		return nil
	})
	if !errors.Is(err, context.Canceled) || calls != 0 {
		t.Fatalf("err=%v calls=%d", err, calls)
	}

	ctx, cancel = context.WithCancel(context.Background())
	b := Backoff{MaxAttempts: 5, Initial: time.Hour, Max: time.Hour, Factor: 2}
	b.OnRetry = func(int, error, time.Duration) { cancel() }
	err = Do(ctx, b, func(context.Context) error { return errors.New("broker down") })
	if err == nil || err.Error() != "broker down" {
		t.Fatalf("cancel during wait returned %v", err)
	}
}

func TestDelay(t *testing.T) {
	b := Backoff{Initial: 100 * time.Millisecond, Max: 300 * time.Millisecond, Factor: 2}
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 300 * time.Millisecond},
		{8, 300 * time.Millisecond},
	}
	for _, tc := range tests {
		if got := b.delay(tc.attempt); got != tc.want {
			t.Errorf("delay(%d) = %v, want %v", tc.attempt, got, tc.want)
		}
	}

	b.Jitter = 0.5
	for range 50 {
		if d := b.delay(1); d < 50*time.Millisecond || d > 150*time.Millisecond {
			t.Fatalf("jittered delay %v out of range", d)
		}
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(context.Canceled) || Retryable(context.DeadlineExceeded) {
		t.Error("context errors must not be retried")
	}
	if !Retryable(errors.New("io timeout")) {
		t.Error("plain errors are retryable")
	}
}
