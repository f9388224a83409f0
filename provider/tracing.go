package provider

import (
	"context"

	"github.com/kbukum/transcriptiond/observability"
)

// WithTracing wraps each call in a span named "<prefix>.<provider>".
func WithTracing[I, O any](prefix string) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &tracingRR[I, O]{wrapped: wrapped[I, O]{inner}, prefix: prefix}
	}
}

type tracingRR[I, O any] struct {
	wrapped[I, O]
	prefix string
}

func (t *tracingRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	ctx, span := observability.StartSpan(ctx, t.prefix+"."+t.inner.Name())
	defer span.End()

	observability.SetSpanAttributes(ctx, observability.AttrOperation, t.inner.Name())
	output, err := t.inner.Execute(ctx, input)
	if err != nil {
		observability.SetSpanError(ctx, err)
	}
	return output, err
}
