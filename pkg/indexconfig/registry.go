package indexconfig

import (
	"fmt"
	"sync"
)

var (
	registry = make(map[string]Provider)
	order    []string
	mu       sync.RWMutex
)

// Register adds a provider under its index name.
func Register(p Provider) error {
	name := p.IndexName()

	mu.Lock()
	defer mu.Unlock()
	if existing, ok := registry[name]; ok {
		return fmt.Errorf("%w: %s is provided by %T and %T", ErrAlreadyRegistered, name, existing, p)
	}
	registry[name] = p
	order = append(order, name)
	return nil
}

// MustRegister is Register for init functions; it panics on conflicts.
func MustRegister(p Provider) {
	if err := Register(p); err != nil {
		panic(err)
	}
}

// Lookup returns the provider registered for an index name.
func Lookup(name string) (Provider, bool) {
	mu.RLock()
	defer mu.RUnlock()
	p, ok := registry[name]
	return p, ok
}

// Registered returns all providers in registration order.
func Registered() []Provider {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Provider, 0, len(order))
	for _, name := range order {
		out = append(out, registry[name])
	}
	return out
}

// Reset empties the registry.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	registry = make(map[string]Provider)
	order = nil
}
