package main

import (
	"fmt"
	"strings"

	"github.com/kbukum/transcriptiond/auth"
	"github.com/kbukum/transcriptiond/config"
	"github.com/kbukum/transcriptiond/job"
	"github.com/kbukum/transcriptiond/kafka"
	"github.com/kbukum/transcriptiond/observability"
	"github.com/kbukum/transcriptiond/server"
	"github.com/kbukum/transcriptiond/storage"
	"github.com/kbukum/transcriptiond/transcription"
	"github.com/kbukum/transcriptiond/version"
)

const serviceName = "transcriptiond"

// Config is the root configuration of the service.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Storage       storage.Config       `yaml:"storage" mapstructure:"storage"`
	Jobs          job.Config           `yaml:"jobs" mapstructure:"jobs"`
	Transcription transcription.Config `yaml:"transcription" mapstructure:"transcription"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
	Events        EventsConfig         `yaml:"events" mapstructure:"events"`
	Auth          auth.Config          `yaml:"auth" mapstructure:"auth"`
}

// EventsConfig selects where job lifecycle events go. The SSE stream is
// always served; Kafka is optional.
type EventsConfig struct {
	SSEPath string       `yaml:"sse_path" mapstructure:"sse_path"`
	Kafka   kafka.Config `yaml:"kafka" mapstructure:"kafka"`
}

func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	if c.Version == "" {
		c.Version = version.Short()
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Storage.ApplyDefaults()
	c.Jobs.ApplyDefaults()
	c.Transcription.ApplyDefaults()
	c.Observability.ApplyDefaults()
	if c.Events.SSEPath == "" {
		c.Events.SSEPath = "/events"
	}
	c.Events.Kafka.ApplyDefaults()
	c.Auth.ApplyDefaults()
}

func (c *Config) Validate() error {
	checks := []struct {
		section string
		err     error
	}{
		{"", c.ServiceConfig.Validate()},
		{"server", c.Server.Validate()},
		{"storage", c.Storage.Validate()},
		{"jobs", c.Jobs.Validate()},
		{"transcription", c.Transcription.Validate()},
		{"observability", c.Observability.Validate()},
		{"events.kafka", c.Events.Kafka.Validate()},
		{"auth", c.Auth.Validate()},
	}
	for _, ch := range checks {
		if ch.err == nil {
			continue
		}
		if ch.section == "" {
			return ch.err
		}
		return fmt.Errorf("%s: %w", ch.section, ch.err)
	}
	if !strings.HasPrefix(c.Events.SSEPath, "/") {
		return fmt.Errorf("events.sse_path must start with '/' (got: %s)", c.Events.SSEPath)
	}
	return nil
}
