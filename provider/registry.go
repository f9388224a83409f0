package provider

import (
	"fmt"
	"sort"
	"sync"
)

// Factory builds a provider from a typed config.
type Factory[C any, T Provider] func(cfg C) (T, error)

// Registry maps provider names to factories.
type Registry[C any, T Provider] struct {
	mu        sync.RWMutex
	factories map[string]Factory[C, T]
}

// NewRegistry creates an empty registry.
func NewRegistry[C any, T Provider]() *Registry[C, T] {
	return &Registry[C, T]{factories: make(map[string]Factory[C, T])}
}

// Register adds or replaces a named factory.
func (r *Registry[C, T]) Register(name string, f Factory[C, T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

// Create builds the named provider.
func (r *Registry[C, T]) Create(name string, cfg C) (T, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		var zero T
		return zero, fmt.Errorf("provider %q not registered (available: %v)", name, r.Names())
	}
	return f(cfg)
}

// Names returns the registered names in sorted order.
func (r *Registry[C, T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
