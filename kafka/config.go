package kafka

import (
	"fmt"
	"time"
)

// Config holds broker connection and producer settings.
type Config struct {
	Enabled bool     `yaml:"enabled" mapstructure:"enabled"`
	Brokers []string `yaml:"brokers" mapstructure:"brokers"`
	// Topic receives job lifecycle events.
	Topic    string `yaml:"topic" mapstructure:"topic"`
	ClientID string `yaml:"client_id" mapstructure:"client_id"`

	EnableTLS     bool   `yaml:"enable_tls" mapstructure:"enable_tls"`
	TLSSkipVerify bool   `yaml:"tls_skip_verify" mapstructure:"tls_skip_verify"`
	TLSCAFile     string `yaml:"tls_ca_file" mapstructure:"tls_ca_file"`
	TLSCertFile   string `yaml:"tls_cert_file" mapstructure:"tls_cert_file"`
	TLSKeyFile    string `yaml:"tls_key_file" mapstructure:"tls_key_file"`

	EnableSASL bool `yaml:"enable_sasl" mapstructure:"enable_sasl"`
	// SASLMechanism is PLAIN, SCRAM-SHA-256 or SCRAM-SHA-512.
	SASLMechanism string `yaml:"sasl_mechanism" mapstructure:"sasl_mechanism"`
	Username      string `yaml:"username" mapstructure:"username"`
	Password      string `yaml:"password" mapstructure:"password"`

	// Compression is none, gzip, snappy, lz4 or zstd.
	Compression  string        `yaml:"compression" mapstructure:"compression"`
	Retries      int           `yaml:"retries" mapstructure:"retries"`
	BatchTimeout time.Duration `yaml:"batch_timeout" mapstructure:"batch_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	RequiredAcks int           `yaml:"required_acks" mapstructure:"required_acks"`
	DialTimeout  time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	MetadataTTL  time.Duration `yaml:"metadata_ttl" mapstructure:"metadata_ttl"`
}

func (c *Config) ApplyDefaults() {
	if len(c.Brokers) == 0 {
		c.Brokers = []string{"localhost:9092"}
	}
	if c.Topic == "" {
		c.Topic = "transcription.events"
	}
	if c.ClientID == "" {
		c.ClientID = "transcriptiond"
	}
	if c.Compression == "" {
		c.Compression = "snappy"
	}
	if c.Retries <= 0 {
		c.Retries = 3
	}
	if c.BatchTimeout == 0 {
		// Events are rare; do not hold them for a batch.
		c.BatchTimeout = 10 * time.Millisecond
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 10 * time.Second
	}
	if c.RequiredAcks == 0 {
		c.RequiredAcks = -1
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = 10 * time.Second
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 30 * time.Second
	}
	if c.MetadataTTL == 0 {
		c.MetadataTTL = 6 * time.Second
	}
	if c.EnableSASL && c.SASLMechanism == "" {
		c.SASLMechanism = "PLAIN"
	}
}

func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if len(c.Brokers) == 0 {
		return fmt.Errorf("kafka brokers are required")
	}
	if c.Topic == "" {
		return fmt.Errorf("kafka topic is required")
	}
	if c.EnableSASL {
		switch c.SASLMechanism {
		case "PLAIN", "SCRAM-SHA-256", "SCRAM-SHA-512":
		default:
			return fmt.Errorf("unsupported SASL mechanism: %s", c.SASLMechanism)
		}
		if c.Username == "" {
			return fmt.Errorf("SASL username is required")
		}
	}
	if _, ok := compressionCodecs[c.Compression]; !ok {
		return fmt.Errorf("unsupported compression: %s", c.Compression)
	}
	return nil
}
