package reconcile

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps spec target types to their reconcilers.
type Registry struct {
	mu          sync.RWMutex
	reconcilers map[string]Reconciler
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{reconcilers: make(map[string]Reconciler)}
}

// Register adds a reconciler for the provided target type.
func (r *Registry) Register(targetType string, rec Reconciler) error {
	if rec == nil {
		return fmt.Errorf("reconciler for %q is nil", targetType)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.reconcilers[targetType]; exists {
		return fmt.Errorf("reconciler for %q already registered", targetType)
	}

	r.reconcilers[targetType] = rec
	return nil
}

// Get retrieves a reconciler by target type.
func (r *Registry) Get(targetType string) (Reconciler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.reconcilers[targetType]
	if !ok {
		return nil, fmt.Errorf("no reconciler registered for target type %q", targetType)
	}

	return rec, nil
}

// Types returns the registered target types in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.reconcilers))
	for t := range r.reconcilers {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
