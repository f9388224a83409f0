package observability

import (
	"context"
	"errors"
	"fmt"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/transcriptiond/component"
)

// Component owns the tracer and meter providers.
type Component struct {
	cfg Config
	res Resource
	tp  *sdktrace.TracerProvider
	mp  *sdkmetric.MeterProvider
}

// NewComponent creates the component; providers are installed on Start.
func NewComponent(cfg Config, res Resource) *Component {
	return &Component{cfg: cfg, res: res}
}

var _ component.Component = (*Component)(nil)

func (c *Component) Name() string { return "observability" }

// Start installs the global providers when export is enabled.
func (c *Component) Start(ctx context.Context) error {
	if !c.cfg.Enabled {
		return nil
	}
	tp, err := InitTracer(ctx, c.cfg, c.res)
	if err != nil {
		return err
	}
	mp, err := InitMeter(ctx, c.cfg, c.res)
	if err != nil {
		tp.Shutdown(ctx)
		return err
	}
	c.tp, c.mp = tp, mp
	return nil
}

// Stop flushes and shuts down the providers.
func (c *Component) Stop(ctx context.Context) error {
	var errs []error
	if c.tp != nil {
		if err := c.tp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if c.mp != nil {
		if err := c.mp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (c *Component) Health(context.Context) component.Health {
	msg := "export disabled"
	if c.cfg.Enabled {
		msg = "exporting to " + c.cfg.Endpoint
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy, Message: msg}
}

func (c *Component) Describe() component.Description {
	return component.Description{Name: "OpenTelemetry", Type: "observability", Details: c.Health(context.Background()).Message}
}
