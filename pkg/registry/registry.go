package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vango-dev/history/internal/errors"
	"github.com/vango-dev/history/pkg/history"
)

// DefaultKey is the key used when a caller does not pick one.
const DefaultKey = "history"

// Registry maps keys to injectors.
type Registry struct {
	mu        sync.Mutex
	injectors map[string]*Injector
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{injectors: make(map[string]*Injector)}
}

// Define binds h to key and returns its injector.
func (r *Registry) Define(key string, h history.History) (*Injector, error) {
	if h == nil {
		return nil, errors.New("H003")
	}
	if key == "" {
		key = DefaultKey
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.injectors[key]; ok {
		return nil, errors.New("H001").
			WithDetail(fmt.Sprintf("A history provider is already registered under %q.", key)).
			WithSuggestion("Register each navigation context under its own key")
	}

	inj := newInjector(key, h)
	r.injectors[key] = inj
	return inj, nil
}

// Injector returns the injector bound to key.
func (r *Registry) Injector(key string) (*Injector, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inj, ok := r.injectors[key]
	if !ok {
		return nil, errors.New("H002").
			WithDetail(fmt.Sprintf("No history provider is registered under %q.", key))
	}
	return inj, nil
}

// Remove detaches and unbinds the injector under key.
// It reports whether a binding existed.
func (r *Registry) Remove(key string) bool {
	r.mu.Lock()
	inj, ok := r.injectors[key]
	delete(r.injectors, key)
	r.mu.Unlock()

	if ok {
		inj.detach()
	}
	return ok
}

// Keys returns the bound keys in sorted order.
func (r *Registry) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]string, 0, len(r.injectors))
	for k := range r.injectors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Close detaches every injector from its provider and empties the registry.
// Providers themselves are left open.
func (r *Registry) Close() {
	r.mu.Lock()
	injectors := r.injectors
	r.injectors = make(map[string]*Injector)
	r.mu.Unlock()

	for _, inj := range injectors {
		inj.detach()
	}
}
