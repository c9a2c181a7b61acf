package provider

import (
	"fmt"
	"sort"
	"sync"

	"github.com/felixgeelhaar/taskplan/internal/errors"
)

// Registry manages named provider clients.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Client
	configs   map[string]*Config
}

// NewRegistry creates a new provider registry
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Client),
		configs:   make(map[string]*Config),
	}
}

// Register adds a provider to the registry
func (r *Registry) Register(name string, client Client, cfg *Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("provider %s already registered", name)
	}

	r.providers[name] = client
	r.configs[name] = cfg
	return nil
}

// Get retrieves a provider by name
func (r *Registry) Get(name string) (Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	client, exists := r.providers[name]
	if !exists {
		return nil, errors.New(errors.ErrCodeProviderNotFound, fmt.Sprintf("provider %s not found", name))
	}
	return client, nil
}

// GetConfig retrieves a provider's configuration
func (r *Registry) GetConfig(name string) (*Config, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, exists := r.configs[name]
	if !exists {
		return nil, errors.New(errors.ErrCodeProviderNotFound, fmt.Sprintf("provider %s not found", name))
	}
	return cfg, nil
}

// List returns all registered provider names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Remove removes a provider from the registry and closes it
func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	client, exists := r.providers[name]
	if !exists {
		return errors.New(errors.ErrCodeProviderNotFound, fmt.Sprintf("provider %s not found", name))
	}

	if err := client.Close(); err != nil {
		return fmt.Errorf("close provider %s: %w", name, err)
	}

	delete(r.providers, name)
	delete(r.configs, name)
	return nil
}

// CloseAll closes all registered providers
func (r *Registry) CloseAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for name, client := range r.providers {
		if err := client.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close provider %s: %w", name, err)
		}
	}
	r.providers = make(map[string]Client)
	r.configs = make(map[string]*Config)
	return firstErr
}
