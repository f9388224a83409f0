package auth

import (
	"fmt"

	"github.com/kbukum/transcriptiond/auth/jwt"
)

// Config enables bearer-token authentication on mutating endpoints.
type Config struct {
	Enabled bool       `yaml:"enabled" mapstructure:"enabled"`
	JWT     jwt.Config `yaml:"jwt" mapstructure:"jwt"`
}

func (c *Config) ApplyDefaults() {
	c.JWT.ApplyDefaults()
}

func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if err := c.JWT.Validate(); err != nil {
		return fmt.Errorf("auth.jwt: %w", err)
	}
	return nil
}

// Describe returns a one-liner for the startup summary.
func (c *Config) Describe() string {
	if !c.Enabled {
		return "disabled"
	}
	return fmt.Sprintf("JWT(%s) issuer=%q", c.JWT.Method, c.JWT.Issuer)
}
