package provider

import (
	"fmt"

	"github.com/inkforge/inkforge-api/internal/domain"
)

// Registry maps provider kinds to their adapter implementations. The set
// of supported vendors is extended by registering a new adapter, not by
// modifying dispatch code.
type Registry struct {
	adapters map[domain.ProviderKind]Adapter
}

// NewRegistry creates an empty adapter registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[domain.ProviderKind]Adapter)}
}

// Register binds an adapter to a provider kind, replacing any previous
// binding for the same kind.
func (r *Registry) Register(kind domain.ProviderKind, adapter Adapter) {
	r.adapters[kind] = adapter
}

// Adapter returns the adapter registered for the given kind.
// Returns ErrUnsupportedProvider when the kind is unknown.
func (r *Registry) Adapter(kind domain.ProviderKind) (Adapter, error) {
	adapter, ok := r.adapters[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, kind)
	}
	return adapter, nil
}

// Kinds returns the registered provider kinds.
func (r *Registry) Kinds() []domain.ProviderKind {
	kinds := make([]domain.ProviderKind, 0, len(r.adapters))
	for kind := range r.adapters {
		kinds = append(kinds, kind)
	}
	return kinds
}
