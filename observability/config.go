package observability

import (
	"fmt"
	"time"
)

// Config configures OTLP export. When Enabled is false the global no-op
// providers stay in place and instruments record nothing.
type Config struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	Endpoint        string        `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure        bool          `yaml:"insecure" mapstructure:"insecure"`
	SampleRate      float64       `yaml:"sample_rate" mapstructure:"sample_rate"`
	MetricsInterval time.Duration `yaml:"metrics_interval" mapstructure:"metrics_interval"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.MetricsInterval == 0 {
		c.MetricsInterval = 15 * time.Second
	}
}

// Validate checks ranges.
func (c *Config) Validate() error {
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("observability.sample_rate must be within [0, 1] (got: %v)", c.SampleRate)
	}
	if c.MetricsInterval < 0 {
		return fmt.Errorf("observability.metrics_interval must not be negative")
	}
	return nil
}

// Resource identifies the service in exported telemetry.
type Resource struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
}
