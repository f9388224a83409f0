package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/transcriptiond/logger"
)

// Factory builds a backend from config. Backends register themselves from
// an init function; import them for side effects to make them available.
type Factory func(ctx context.Context, cfg Config, log *logger.Logger) (Storage, error)

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]Factory)
)

// RegisterFactory registers a backend factory under a provider name.
func RegisterFactory(name string, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[name] = f
}

// New validates cfg and builds the selected backend.
func New(ctx context.Context, cfg Config, log *logger.Logger) (Storage, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	factoriesMu.RLock()
	f, ok := factories[cfg.Provider]
	factoriesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: provider %q is not registered", cfg.Provider)
	}

	log.Info("initializing storage", logger.Fields("provider", cfg.Provider))
	return f(ctx, cfg, log)
}
