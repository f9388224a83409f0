// Package provider defines the request/response contract for external
// backends and composable middleware for logging, metrics and tracing.
package provider

import "context"

// Provider is the base interface all providers implement.
type Provider interface {
	Name() string
	// IsAvailable reports whether the provider can take requests now.
	IsAvailable(ctx context.Context) bool
}

// RequestResponse takes one input and returns one output: an HTTP call, a
// subprocess run, an object store write.
type RequestResponse[I, O any] interface {
	Provider
	Execute(ctx context.Context, input I) (O, error)
}

// Middleware wraps a RequestResponse provider.
type Middleware[I, O any] func(RequestResponse[I, O]) RequestResponse[I, O]

// Chain composes middlewares; the first one is outermost.
//
// Chain(a, b, c)(p) is equivalent to a(b(c(p))).
func Chain[I, O any](middlewares ...Middleware[I, O]) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		for i := len(middlewares) - 1; i >= 0; i-- {
			inner = middlewares[i](inner)
		}
		return inner
	}
}

// wrapped forwards Name and IsAvailable to the inner provider.
type wrapped[I, O any] struct {
	inner RequestResponse[I, O]
}

func (w wrapped[I, O]) Name() string                         { return w.inner.Name() }
func (w wrapped[I, O]) IsAvailable(ctx context.Context) bool { return w.inner.IsAvailable(ctx) }
