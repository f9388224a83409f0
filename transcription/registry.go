package transcription

import (
	"fmt"

	"github.com/kbukum/transcriptiond/logger"
	"github.com/kbukum/transcriptiond/observability"
	"github.com/kbukum/transcriptiond/provider"
)

var backends = provider.NewRegistry[Config, Provider]()

// Register makes a backend available to New. Backend packages call it from
// init; import them for side effects.
func Register(name string, f provider.Factory[Config, Provider]) {
	backends.Register(name, f)
}

// Backends returns the registered backend names.
func Backends() []string { return backends.Names() }

// New builds the configured backend wrapped with logging, tracing and
// metrics middleware.
func New(cfg Config, log *logger.Logger, metrics *observability.Metrics) (Provider, error) {
	p, err := backends.Create(cfg.Backend, cfg)
	if err != nil {
		return nil, fmt.Errorf("transcription: %w", err)
	}
	return provider.Chain(
		provider.WithLogging[Request, *Artifact](log),
		provider.WithTracing[Request, *Artifact]("transcription"),
		provider.WithMetrics[Request, *Artifact](metrics),
	)(p), nil
}
