package jwt

import (
	"errors"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// SigningMethod is an HMAC algorithm name.
type SigningMethod string

const (
	HS256 SigningMethod = "HS256"
	HS384 SigningMethod = "HS384"
	HS512 SigningMethod = "HS512"
)

// Config configures token signing and verification.
type Config struct {
	// Secret is the shared HMAC key.
	Secret   string        `yaml:"secret" mapstructure:"secret"`
	Method   SigningMethod `yaml:"method" mapstructure:"method"`
	Issuer   string        `yaml:"issuer" mapstructure:"issuer"`
	Audience string        `yaml:"audience" mapstructure:"audience"`
	// TokenTTL is the lifetime of tokens issued by Generate.
	TokenTTL time.Duration `yaml:"token_ttl" mapstructure:"token_ttl"`
	// Leeway tolerates clock skew when checking exp and nbf.
	Leeway time.Duration `yaml:"leeway" mapstructure:"leeway"`
}

func (c *Config) ApplyDefaults() {
	if c.Method == "" {
		c.Method = HS256
	}
	if c.TokenTTL == 0 {
		c.TokenTTL = 24 * time.Hour
	}
	if c.Leeway == 0 {
		c.Leeway = 30 * time.Second
	}
}

func (c *Config) Validate() error {
	if c.signingMethod() == nil {
		return errors.New("unsupported signing method: " + string(c.Method))
	}
	if len(c.Secret) < 16 {
		return errors.New("secret must be at least 16 bytes")
	}
	return nil
}

func (c *Config) signingMethod() gojwt.SigningMethod {
	switch c.Method {
	case HS256:
		return gojwt.SigningMethodHS256
	case HS384:
		return gojwt.SigningMethodHS384
	case HS512:
		return gojwt.SigningMethodHS512
	default:
		return nil
	}
}
