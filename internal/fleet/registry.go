package fleet

import (
	"context"
	"sort"
	"strings"
	"sync"

	droneerrors "github.com/aboldguess/Nerfdrone/internal/errors"
)

// Provider is the control surface every drone integration implements.
// Implementations must be safe for use from a single dispatch goroutine;
// the registry hands out a fresh provider per dispatch.
type Provider interface {
	// Name returns the registry identifier of the integration.
	Name() string
	// Connect establishes a link with the drone hardware or simulator.
	Connect(ctx context.Context) error
	// Disconnect tears the link down and releases resources.
	Disconnect(ctx context.Context) error
	// Send dispatches commands in order and reports how many went out.
	Send(ctx context.Context, commands []Command) (int, error)
	// EmergencyLand triggers the provider's emergency landing procedure.
	EmergencyLand(ctx context.Context) error
	// Metadata returns diagnostic pairs for UI displays.
	Metadata() map[string]string
}

// Factory builds a provider bound to a vendor connection string.
type Factory func(connection string) Provider

// Registry maps provider identifiers to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a provider factory under a case-insensitive identifier.
// Re-registering an identifier replaces the previous factory.
func (r *Registry) Register(name string, factory Factory) {
	identifier := strings.ToLower(strings.TrimSpace(name))
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[identifier] = factory
}

// Providers returns the registered identifiers in sorted order.
func (r *Registry) Providers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New instantiates the provider registered under the identifier.
func (r *Registry) New(name, connection string) (Provider, error) {
	identifier := strings.ToLower(strings.TrimSpace(name))
	r.mu.RLock()
	factory, ok := r.factories[identifier]
	r.mu.RUnlock()
	if !ok {
		return nil, droneerrors.NewProviderNotFound(name)
	}
	return factory(connection), nil
}
