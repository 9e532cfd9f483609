package xfer

import (
	"sort"
	"sync"
)

// Registry maps a transfer-type identifier to the strategy that computes
// it. New strategies can be registered without modifying any call site: a
// caller only ever resolves by identifier. Safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	strategies map[string]TransferStrategy
}

// NewRegistry returns a registry with the built-in "hohmann" strategy
// already registered.
func NewRegistry() *Registry {
	r := &Registry{strategies: make(map[string]TransferStrategy)}
	r.Register(NewHohmann(nil))
	return r
}

// Register adds a strategy under its own type identifier. Registering the
// same identifier twice replaces the previous strategy.
func (r *Registry) Register(s TransferStrategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies[s.Type()] = s
}

// Resolve returns the strategy for the given identifier.
func (r *Registry) Resolve(typeID string) (TransferStrategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, found := r.strategies[typeID]
	if !found {
		return nil, UnsupportedTransferTypeError{Type: typeID}
	}
	return s, nil
}

// Types returns the sorted identifiers of all registered strategies.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.strategies))
	for t := range r.strategies {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
