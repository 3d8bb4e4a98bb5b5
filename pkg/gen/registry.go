package gen

import (
	"fmt"
	"sort"
	"sync"
)

// Registry stores targets by name, providing discovery and duplication
// safeguards. Implementations can embed or wrap this for dependency
// injection.
type Registry struct {
	mu      sync.RWMutex
	targets map[string]Target
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		targets: make(map[string]Target),
	}
}

// Register adds a target by its Name(). Duplicate names return an error.
func (r *Registry) Register(target Target) error {
	if target == nil {
		return fmt.Errorf("gen: target is required")
	}
	name := target.Name()
	if name == "" {
		return fmt.Errorf("gen: target name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.targets[name]; exists {
		return fmt.Errorf("gen: target %q already registered", name)
	}

	r.targets[name] = target
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(target Target) {
	if err := r.Register(target); err != nil {
		panic(err)
	}
}

// Get retrieves a target by name.
func (r *Registry) Get(name string) (Target, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	target, ok := r.targets[name]
	if !ok {
		return nil, fmt.Errorf("gen: target %q not found", name)
	}
	return target, nil
}

// MustGet panics if the target is missing.
func (r *Registry) MustGet(name string) Target {
	target, err := r.Get(name)
	if err != nil {
		panic(err)
	}
	return target
}

// List returns a sorted list of target names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.targets))
	for name := range r.targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a target is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.targets[name]
	return ok
}
