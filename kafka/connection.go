package kafka

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
)

var compressionCodecs = map[string]kafka.Compression{
	"none":   0,
	"gzip":   kafka.Gzip,
	"snappy": kafka.Snappy,
	"lz4":    kafka.Lz4,
	"zstd":   kafka.Zstd,
}

// ResolveCompression maps a compression name to a codec; unknown names
// fall back to snappy.
func ResolveCompression(name string) kafka.Compression {
	if c, ok := compressionCodecs[name]; ok {
		return c
	}
	return kafka.Snappy
}

// security is the TLS and SASL setup shared by writers and dialers.
type security struct {
	tls  *tls.Config
	sasl sasl.Mechanism
}

func newSecurity(cfg *Config) (security, error) {
	var s security
	if cfg.EnableTLS {
		tc, err := tlsConfig(cfg)
		if err != nil {
			return s, fmt.Errorf("TLS config: %w", err)
		}
		s.tls = tc
	}
	if cfg.EnableSASL {
		m, err := saslMechanism(cfg)
		if err != nil {
			return s, fmt.Errorf("SASL config: %w", err)
		}
		s.sasl = m
	}
	return s, nil
}

// CreateTransport builds the transport used by the event writer.
func CreateTransport(cfg *Config) (*kafka.Transport, error) {
	sec, err := newSecurity(cfg)
	if err != nil {
		return nil, err
	}
	return &kafka.Transport{
		ClientID:    cfg.ClientID,
		DialTimeout: cfg.DialTimeout,
		IdleTimeout: cfg.IdleTimeout,
		MetadataTTL: cfg.MetadataTTL,
		TLS:         sec.tls,
		SASL:        sec.sasl,
	}, nil
}

// CreateDialer builds the dialer used by broker health checks.
func CreateDialer(cfg *Config) (*kafka.Dialer, error) {
	sec, err := newSecurity(cfg)
	if err != nil {
		return nil, err
	}
	return &kafka.Dialer{
		ClientID:      cfg.ClientID,
		Timeout:       cfg.DialTimeout,
		DualStack:     true,
		TLS:           sec.tls,
		SASLMechanism: sec.sasl,
	}, nil
}

func tlsConfig(cfg *Config) (*tls.Config, error) {
	tc := &tls.Config{
		InsecureSkipVerify: cfg.TLSSkipVerify, //nolint:gosec // opt-in for test clusters
		MinVersion:         tls.VersionTLS12,
	}
	if cfg.TLSCAFile != "" {
		pem, err := os.ReadFile(cfg.TLSCAFile)
		if err != nil {
			return nil, fmt.Errorf("read CA file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, errors.New("no certificates found in CA file")
		}
		tc.RootCAs = pool
	}
	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		cert, err := tls.LoadX509KeyPair(cfg.TLSCertFile, cfg.TLSKeyFile)
		if err != nil {
			return nil, fmt.Errorf("load client cert: %w", err)
		}
		tc.Certificates = []tls.Certificate{cert}
	}
	return tc, nil
}

func saslMechanism(cfg *Config) (sasl.Mechanism, error) {
	switch cfg.SASLMechanism {
	case "PLAIN":
		return plain.Mechanism{Username: cfg.Username, Password: cfg.Password}, nil
	case "SCRAM-SHA-256":
		return scram.Mechanism(scram.SHA256, cfg.Username, cfg.Password)
	case "SCRAM-SHA-512":
		return scram.Mechanism(scram.SHA512, cfg.Username, cfg.Password)
	}
	return nil, fmt.Errorf("unsupported SASL mechanism: %s", cfg.SASLMechanism)
}
