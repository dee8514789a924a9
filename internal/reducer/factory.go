package reducer

import (
	"fmt"
	"sort"
	"sync"
)

// Factory is a registry of summation strategies keyed by short name.
type Factory struct {
	mu      sync.RWMutex
	summers map[string]Summer
}

// NewFactory returns an empty factory.
func NewFactory() *Factory {
	return &Factory{summers: make(map[string]Summer)}
}

// NewDefaultFactory returns a factory with the built-in strategies
// registered as "loop" and "formula".
func NewDefaultFactory() *Factory {
	f := NewFactory()
	f.Register("loop", &LoopSummer{})
	f.Register("formula", FormulaSummer{})
	return f
}

// Register adds or replaces the summer stored under name.
func (f *Factory) Register(name string, s Summer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summers[name] = s
}

// Get returns the summer registered under name.
func (f *Factory) Get(name string) (Summer, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	s, ok := f.summers[name]
	if !ok {
		return nil, fmt.Errorf("unknown algorithm %q", name)
	}
	return s, nil
}

// List returns the registered names in sorted order.
func (f *Factory) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]string, 0, len(f.summers))
	for name := range f.summers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetAll returns a copy of the registry.
func (f *Factory) GetAll() map[string]Summer {
	f.mu.RLock()
	defer f.mu.RUnlock()
	all := make(map[string]Summer, len(f.summers))
	for name, s := range f.summers {
		all[name] = s
	}
	return all
}
