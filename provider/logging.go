package provider

import (
	"context"
	"time"

	"github.com/kbukum/transcriptiond/logger"
)

// WithLogging logs every call. Failures are errors, except calls ended by
// their context, which are warnings.
func WithLogging[I, O any](log *logger.Logger) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &loggingRR[I, O]{wrapped: wrapped[I, O]{inner}, log: log}
	}
}

type loggingRR[I, O any] struct {
	wrapped[I, O]
	log *logger.Logger
}

func (l *loggingRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	start := time.Now()
	output, err := l.inner.Execute(ctx, input)

	fields := logger.DurationFields("execute", time.Since(start))
	fields["provider"] = l.inner.Name()
	fields[logger.FieldStatus] = Outcome(err)
	log := l.log.WithContext(ctx)
	switch Outcome(err) {
	case "ok":
		log.Debug("provider call finished", fields)
	case "error":
		log.Error("provider call failed", logger.MergeWithError(fields, err))
	default:
		log.Warn("provider call interrupted", logger.MergeWithError(fields, err))
	}
	return output, err
}
