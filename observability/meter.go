package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const meterName = "github.com/kbukum/transcriptiond"

// InitMeter installs a periodic OTLP/HTTP meter provider as the global
// provider.
func InitMeter(ctx context.Context, cfg Config, res Resource) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	r, err := newResource(res)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.MetricsInterval))),
		sdkmetric.WithResource(r),
	)
	otel.SetMeterProvider(mp)
	return mp, nil
}

// Metrics holds the instruments recorded by the HTTP layer, the job runner
// and the transcription backends.
type Metrics struct {
	requestTotal      metric.Int64Counter
	requestDuration   metric.Float64Histogram
	jobTotal          metric.Int64Counter
	jobDuration       metric.Float64Histogram
	jobActive         metric.Int64UpDownCounter
	jobRejected       metric.Int64Counter
	operationTotal    metric.Int64Counter
	operationDuration metric.Float64Histogram
}

// NewMetrics creates the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var (
		m   Metrics
		err error
	)
	if m.requestTotal, err = meter.Int64Counter("http.server.requests",
		metric.WithDescription("HTTP requests by route and status")); err != nil {
		return nil, fmt.Errorf("creating http.server.requests: %w", err)
	}
	if m.requestDuration, err = meter.Float64Histogram("http.server.duration",
		metric.WithDescription("HTTP request duration"), metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("creating http.server.duration: %w", err)
	}
	if m.jobTotal, err = meter.Int64Counter("jobs.completed",
		metric.WithDescription("Finished transcription jobs by outcome")); err != nil {
		return nil, fmt.Errorf("creating jobs.completed: %w", err)
	}
	if m.jobDuration, err = meter.Float64Histogram("jobs.duration",
		metric.WithDescription("Transcription job duration"), metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("creating jobs.duration: %w", err)
	}
	if m.jobActive, err = meter.Int64UpDownCounter("jobs.active",
		metric.WithDescription("Jobs currently holding the execution slot")); err != nil {
		return nil, fmt.Errorf("creating jobs.active: %w", err)
	}
	if m.jobRejected, err = meter.Int64Counter("jobs.rejected",
		metric.WithDescription("Submissions rejected because a job was running")); err != nil {
		return nil, fmt.Errorf("creating jobs.rejected: %w", err)
	}
	if m.operationTotal, err = meter.Int64Counter("provider.operations",
		metric.WithDescription("Backend calls by provider and status")); err != nil {
		return nil, fmt.Errorf("creating provider.operations: %w", err)
	}
	if m.operationDuration, err = meter.Float64Histogram("provider.duration",
		metric.WithDescription("Backend call duration"), metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("creating provider.duration: %w", err)
	}
	return &m, nil
}

// GlobalMetrics creates the instruments on the global meter provider.
func GlobalMetrics() (*Metrics, error) {
	return NewMetrics(otel.Meter(meterName))
}

// NoopMetrics returns instruments that record nothing.
func NoopMetrics() *Metrics {
	m, _ := NewMetrics(noop.NewMeterProvider().Meter(meterName))
	return m
}

// RecordRequest records a finished HTTP request.
func (m *Metrics) RecordRequest(ctx context.Context, method, route string, status int, d time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.Int("status", status),
	)
	m.requestTotal.Add(ctx, 1, attrs)
	m.requestDuration.Record(ctx, d.Seconds(), attrs)
}

// JobStarted marks the slot as taken.
func (m *Metrics) JobStarted(ctx context.Context) {
	m.jobActive.Add(ctx, 1)
}

// JobFinished releases the active gauge and records the outcome.
func (m *Metrics) JobFinished(ctx context.Context, status string, d time.Duration) {
	m.jobActive.Add(ctx, -1)
	attrs := metric.WithAttributes(attribute.String("status", status))
	m.jobTotal.Add(ctx, 1, attrs)
	m.jobDuration.Record(ctx, d.Seconds(), attrs)
}

// JobRejected counts a busy rejection.
func (m *Metrics) JobRejected(ctx context.Context) {
	m.jobRejected.Add(ctx, 1)
}

// RecordOperation records one backend call.
func (m *Metrics) RecordOperation(ctx context.Context, provider, operation, status string, d time.Duration) {
	m.operationTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
	m.operationDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("operation", operation),
	))
}
