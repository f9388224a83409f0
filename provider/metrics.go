package provider

import (
	"context"
	"errors"
	"time"

	"github.com/kbukum/transcriptiond/observability"
)

// Outcome classifies an Execute error for metrics and logs.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		return "error"
	}
}

// WithMetrics records the duration and outcome of every call.
func WithMetrics[I, O any](metrics *observability.Metrics) Middleware[I, O] {
	if metrics == nil {
		metrics = observability.NoopMetrics()
	}
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &metricsRR[I, O]{wrapped: wrapped[I, O]{inner}, metrics: metrics}
	}
}

type metricsRR[I, O any] struct {
	wrapped[I, O]
	metrics *observability.Metrics
}

func (m *metricsRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	start := time.Now()
	output, err := m.inner.Execute(ctx, input)
	m.metrics.RecordOperation(ctx, m.inner.Name(), "execute", Outcome(err), time.Since(start))
	return output, err
}
