package orchestrator

import (
	"fmt"
	"strings"
	"sync"

	"github.com/shepmaster/my-error/pkg/schema"
)

// AdapterRegistry holds the format adapters a run can decompose documents
// with. Adapters are probed in registration order, so register the most
// specific format first.
type AdapterRegistry struct {
	mu     sync.RWMutex
	order  []string
	byName map[string]schema.FormatAdapter
}

// NewAdapterRegistry creates an empty adapter registry.
func NewAdapterRegistry() *AdapterRegistry {
	return &AdapterRegistry{
		byName: make(map[string]schema.FormatAdapter),
	}
}

// Register adds an adapter under its Name(). Names are case-insensitive
// and must be unique.
func (r *AdapterRegistry) Register(adapter schema.FormatAdapter) error {
	if adapter == nil {
		return fmt.Errorf("orchestrator: adapter is required")
	}
	name := normalizeAdapterName(adapter.Name())
	if name == "" {
		return fmt.Errorf("orchestrator: adapter name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("orchestrator: adapter %q already registered", name)
	}
	r.byName[name] = adapter
	r.order = append(r.order, name)
	return nil
}

// MustRegister panics on registration failure.
func (r *AdapterRegistry) MustRegister(adapter schema.FormatAdapter) {
	if err := r.Register(adapter); err != nil {
		panic(err)
	}
}

// Get retrieves an adapter by name.
func (r *AdapterRegistry) Get(name string) (schema.FormatAdapter, error) {
	key := normalizeAdapterName(name)
	if key == "" {
		return nil, fmt.Errorf("orchestrator: adapter name is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	adapter, ok := r.byName[key]
	if !ok {
		return nil, fmt.Errorf("orchestrator: adapter %q not found (registered: %s)", key, strings.Join(r.order, ", "))
	}
	return adapter, nil
}

// List returns the adapter names in registration order.
func (r *AdapterRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Has reports whether an adapter is registered.
func (r *AdapterRegistry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byName[normalizeAdapterName(name)]
	return ok
}

// Detect probes every adapter against the source and payload and returns
// the ones that claim it, in registration order.
func (r *AdapterRegistry) Detect(src schema.Source, raw []byte) []schema.FormatAdapter {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []schema.FormatAdapter
	for _, name := range r.order {
		if adapter := r.byName[name]; adapter != nil && adapter.Detect(src, raw) {
			matches = append(matches, adapter)
		}
	}
	return matches
}

func normalizeAdapterName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
