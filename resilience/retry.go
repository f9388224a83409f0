package resilience

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// Backoff describes how long to wait between attempts of a retried call.
type Backoff struct {
	// MaxAttempts counts the first call.
	MaxAttempts int
	Initial     time.Duration
	Max         time.Duration
	Factor      float64
	// Jitter spreads each delay by up to this fraction in either direction.
	Jitter float64
	// Retryable reports whether err is worth another attempt.
	Retryable func(error) bool
	// OnRetry runs before each wait.
	OnRetry func(attempt int, err error, wait time.Duration)
}

// DefaultBackoff retries three times starting at 100ms.
func DefaultBackoff() Backoff {
	return Backoff{
		MaxAttempts: 3,
		Initial:     100 * time.Millisecond,
		Max:         5 * time.Second,
		Factor:      2,
		Jitter:      0.1,
	}
}

// Retryable treats everything except context cancellation as transient.
func Retryable(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func (b *Backoff) normalize() {
	if b.MaxAttempts <= 0 {
		b.MaxAttempts = 1
	}
	if b.Initial <= 0 {
		b.Initial = 100 * time.Millisecond
	}
	if b.Max < b.Initial {
		b.Max = b.Initial
	}
	if b.Factor < 1 {
		b.Factor = 2
	}
	if b.Retryable == nil {
		b.Retryable = Retryable
	}
}

// Do calls fn until it succeeds, returns a non-retryable error, runs out of
// attempts or ctx ends. The last error from fn is returned as is.
func Do(ctx context.Context, b Backoff, fn func(ctx context.Context) error) error {
	b.normalize()
	var err error
	for attempt := 1; ; attempt++ {
		if cerr := ctx.Err(); cerr != nil {
			if err != nil {
				return err
			}
			return cerr
		}
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt >= b.MaxAttempts || !b.Retryable(err) {
			return err
		}

		wait := b.delay(attempt)
		if b.OnRetry != nil {
			b.OnRetry(attempt, err, wait)
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}
}

// delay is Initial * Factor^(attempt-1), jittered and capped at Max.
func (b Backoff) delay(attempt int) time.Duration {
	d := float64(b.Initial) * math.Pow(b.Factor, float64(attempt-1))
	if b.Jitter > 0 {
		d += (rand.Float64()*2 - 1) * d * b.Jitter
	}
	if d > float64(b.Max) {
		d = float64(b.Max)
	}
	if d <= 0 {
		d = float64(b.Initial)
	}
	return time.Duration(d)
}
