// Package resilience retries transient failures with capped exponential
// backoff.
//
//	err := resilience.Do(ctx, resilience.DefaultBackoff(), func(ctx context.Context) error {
//		return writer.WriteMessages(ctx, msg)
//	})
package resilience
