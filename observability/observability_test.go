package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestConfigDefaultsAndValidate(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Endpoint != "localhost:4318" || cfg.SampleRate != 1.0 || cfg.MetricsInterval != 15*time.Second {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	cfg.SampleRate = 2
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for sample rate > 1")
	}
}

func TestSpanHelpers(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	ctx, span := StartSpan(context.Background(), "job.run")
	SetSpanAttributes(ctx, AttrJobID, "j1", AttrModel)
	SetSpanError(ctx, errors.New("exit code 1"))
	span.End()

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	s := spans[0]
	if s.Name() != "job.run" {
		t.Errorf("span name = %q", s.Name())
	}
	if s.Status().Code != codes.Error {
		t.Errorf("status = %v, want Error", s.Status().Code)
	}
	attrs := s.Attributes()
	if len(attrs) != 1 || string(attrs[0].Key) != AttrJobID || attrs[0].Value.AsString() != "j1" {
		t.Errorf("unexpected attributes: %v", attrs)
	}
}

func TestSpanHelpersWithoutSpan(t *testing.T) {
	SetSpanAttributes(context.Background(), "k", "v")
	SetSpanError(context.Background(), errors.New("x"))
}

func TestJobMetricsAreRecorded(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	ctx := context.Background()
	m.JobStarted(ctx)
	m.JobFinished(ctx, "succeeded", time.Second)
	m.JobRejected(ctx)
	m.JobRejected(ctx)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}

	sums := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			if sum, ok := md.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					sums[md.Name] += dp.Value
				}
			}
		}
	}
	if sums["jobs.completed"] != 1 {
		t.Errorf("jobs.completed = %d, want 1", sums["jobs.completed"])
	}
	if sums["jobs.rejected"] != 2 {
		t.Errorf("jobs.rejected = %d, want 2", sums["jobs.rejected"])
	}
	if sums["jobs.active"] != 0 {
		t.Errorf("jobs.active = %d, want 0", sums["jobs.active"])
	}
}

func TestNoopMetrics(t *testing.T) {
	m := NoopMetrics()
	if m == nil {
		t.Fatal("expected instruments")
	}
	m.RecordRequest(context.Background(), "GET", "/status", 200, time.Millisecond)
	m.RecordOperation(context.Background(), "script", "transcribe", "ok", time.Millisecond)
}

func TestDisabledComponent(t *testing.T) {
	c := NewComponent(Config{}, Resource{ServiceName: "svc"})
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if c.tp != nil || c.mp != nil {
		t.Error("providers should not be created when disabled")
	}
	if err := c.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestSampler(t *testing.T) {
	if sampler(1).Description() != sdktrace.AlwaysSample().Description() {
		t.Error("rate 1 should always sample")
	}
	if sampler(0).Description() != sdktrace.NeverSample().Description() {
		t.Error("rate 0 should never sample")
	}
}
