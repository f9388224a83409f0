package server

import (
	"fmt"
	"time"

	"github.com/kbukum/transcriptiond/server/middleware"
	"github.com/kbukum/transcriptiond/util"
)

// Config holds HTTP server configuration.
type Config struct {
	Host            string                `yaml:"host" mapstructure:"host"`
	Port            int                   `yaml:"port" mapstructure:"port"`
	ReadTimeout     time.Duration         `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration         `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout     time.Duration         `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration         `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	MaxBodySize     string                `yaml:"max_body_size" mapstructure:"max_body_size"` // e.g. "500MB", "0" disables
	CORS            middleware.CORSConfig `yaml:"cors" mapstructure:"cors"`
}

// ApplyDefaults sets default values for unset fields. WriteTimeout stays
// zero so SSE streams are not cut off.
func (c *Config) ApplyDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 10 * time.Minute
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 2 * time.Minute
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 5 * time.Second
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "1GB"
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"*"}
	}
	if len(c.CORS.AllowedMethods) == 0 {
		c.CORS.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(c.CORS.AllowedHeaders) == 0 {
		c.CORS.AllowedHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID}
	}
	if c.CORS.MaxAge == 0 {
		c.CORS.MaxAge = 10 * time.Minute
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535 (got: %d)", c.Port)
	}
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 || c.IdleTimeout < 0 || c.ShutdownTimeout < 0 {
		return fmt.Errorf("server timeouts must be non-negative")
	}
	if _, err := c.BodyLimit(); err != nil {
		return err
	}
	return nil
}

// BodyLimit returns MaxBodySize in bytes; zero means unlimited.
func (c *Config) BodyLimit() (int64, error) {
	if c.MaxBodySize == "" {
		return 0, nil
	}
	n, err := util.ParseSize(c.MaxBodySize)
	if err != nil {
		return 0, fmt.Errorf("server.max_body_size: %w", err)
	}
	return n, nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
