package sse

import (
	"context"
	"fmt"

	"github.com/kbukum/transcriptiond/component"
)

// Component owns the hub loop for the job event stream.
type Component struct {
	hub     *Hub
	path    string
	stopped chan struct{}
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates a component with a fresh Hub served at path.
func NewComponent(path string) *Component {
	return &Component{hub: NewHub(), path: path}
}

func (c *Component) Hub() *Hub { return c.hub }

func (c *Component) Name() string { return "sse" }

func (c *Component) Start(context.Context) error {
	c.stopped = make(chan struct{})
	go func() {
		defer close(c.stopped)
		c.hub.Run()
	}()
	return nil
}

// Stop disconnects every subscriber and waits for the hub loop to exit or
// ctx to end.
func (c *Component) Stop(ctx context.Context) error {
	c.hub.Stop()
	if c.stopped == nil {
		return nil
	}
	select {
	case <-c.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Health is unhealthy once the hub loop has exited.
func (c *Component) Health(context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	select {
	case <-c.hub.done:
		h.Status, h.Message = component.StatusUnhealthy, "hub stopped"
	default:
		h.Message = fmt.Sprintf("%d clients connected", c.hub.ClientCount())
	}
	return h
}

func (c *Component) Describe() component.Description {
	return component.Description{Name: "Job events", Type: "sse", Details: "path=" + c.path}
}
