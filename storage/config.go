package storage

import (
	"errors"
	"fmt"
)

// Provider names.
const (
	ProviderLocal = "local"
	ProviderS3    = "s3"
)

const (
	DefaultProvider = ProviderLocal
	DefaultBasePath = "./outputs"
	DefaultRegion   = "us-east-1"
)

// Config selects and configures a storage backend.
type Config struct {
	Provider string      `yaml:"provider" mapstructure:"provider"`
	Local    LocalConfig `yaml:"local" mapstructure:"local"`
	S3       S3Config    `yaml:"s3" mapstructure:"s3"`
}

// LocalConfig configures the filesystem backend.
type LocalConfig struct {
	BasePath string `yaml:"base_path" mapstructure:"base_path"`
}

// S3Config configures the S3 backend. Endpoint allows S3-compatible services
// such as MinIO.
type S3Config struct {
	Bucket         string `yaml:"bucket" mapstructure:"bucket"`
	Prefix         string `yaml:"prefix" mapstructure:"prefix"`
	Region         string `yaml:"region" mapstructure:"region"`
	Endpoint       string `yaml:"endpoint" mapstructure:"endpoint"`
	AccessKey      string `yaml:"access_key" mapstructure:"access_key"`
	SecretKey      string `yaml:"secret_key" mapstructure:"secret_key"`
	ForcePathStyle bool   `yaml:"force_path_style" mapstructure:"force_path_style"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if c.Local.BasePath == "" {
		c.Local.BasePath = DefaultBasePath
	}
	if c.S3.Region == "" {
		c.S3.Region = DefaultRegion
	}
}

// Validate checks the settings required by the selected provider.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderLocal:
		if c.Local.BasePath == "" {
			return errors.New("storage: local.base_path is required")
		}
	case ProviderS3:
		var errs []error
		if c.S3.Bucket == "" {
			errs = append(errs, errors.New("storage: s3.bucket is required"))
		}
		if c.S3.Region == "" {
			errs = append(errs, errors.New("storage: s3.region is required"))
		}
		if (c.S3.AccessKey == "") != (c.S3.SecretKey == "") {
			errs = append(errs, errors.New("storage: s3.access_key and s3.secret_key must be set together"))
		}
		if len(errs) > 0 {
			return fmt.Errorf("storage: invalid s3 config: %w", errors.Join(errs...))
		}
	default:
		return fmt.Errorf("storage: unsupported provider %q", c.Provider)
	}
	return nil
}
