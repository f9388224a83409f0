package storage

import (
	"context"
	"fmt"

	"github.com/kbukum/transcriptiond/component"
)

const healthProbeKey = ".health"

// Component exposes a backend to the component registry for health and the
// startup summary. The backend itself is built eagerly by New.
type Component struct {
	name    string
	storage Storage
	cfg     Config
}

// NewComponent wraps an existing backend.
func NewComponent(name string, s Storage, cfg Config) *Component {
	return &Component{name: name, storage: s, cfg: cfg}
}

var _ component.Component = (*Component)(nil)

func (c *Component) Name() string { return c.name }

// Storage returns the wrapped backend.
func (c *Component) Storage() Storage { return c.storage }

func (c *Component) Start(context.Context) error { return nil }

func (c *Component) Stop(context.Context) error { return nil }

// Health probes the backend with an existence check.
func (c *Component) Health(ctx context.Context) component.Health {
	if _, err := c.storage.Exists(ctx, healthProbeKey); err != nil {
		return component.Health{
			Name:    c.name,
			Status:  component.StatusUnhealthy,
			Message: fmt.Sprintf("health probe failed: %v", err),
		}
	}
	return component.Health{Name: c.name, Status: component.StatusHealthy}
}

// Describe returns the startup summary line.
func (c *Component) Describe() component.Description {
	details := "provider=" + c.cfg.Provider
	switch c.cfg.Provider {
	case ProviderLocal:
		details += " path=" + c.cfg.Local.BasePath
	case ProviderS3:
		details += " bucket=" + c.cfg.S3.Bucket
	}
	return component.Description{Name: c.name, Type: "storage", Details: details}
}
