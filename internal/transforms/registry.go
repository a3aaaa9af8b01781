// ABOUTME: Transform Registry — a lookup from transform name to a pure scalar function
// ABOUTME: Unknown names raise a permanent error at evaluation time, never at pattern-load time

package transforms

import (
	"sync"

	"github.com/BumpyClock/doublefetch/internal/doferr"
	"github.com/BumpyClock/doublefetch/internal/patterns"
)

// Transform is a pure unary function over a scalar value plus the
// string arguments supplied by the pattern's transform step.
type Transform func(value string, args ...string) (string, error)

// Registry is a name -> Transform lookup. The zero value is not usable;
// call NewRegistry to get one pre-populated with the builtins.
type Registry struct {
	mu         sync.RWMutex
	transforms map[string]Transform
}

// NewRegistry returns a Registry with every builtin transform
// (internal/transforms/builtin.go) registered.
func NewRegistry() *Registry {
	r := &Registry{transforms: make(map[string]Transform)}
	registerBuiltins(r)
	return r
}

// Register adds or replaces a named transform. Pattern authors extending
// the registry with site-specific primitives call this before running
// any extraction.
func (r *Registry) Register(name string, fn Transform) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transforms[name] = fn
}

// Lookup resolves a transform name, returning a permanent error if the
// name is unknown (spec.md §4.1).
func (r *Registry) Lookup(name string) (Transform, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.transforms[name]
	if !ok {
		return nil, doferr.Permanentf("transforms.Lookup", "unknown transform %q", name)
	}
	return fn, nil
}

// Run applies a chain of transform steps to value, per spec.md §4.3. A
// nil value short-circuits to nil without consulting the registry, and
// an empty chain returns the value unchanged.
func (r *Registry) Run(value *string, steps []patterns.TransformStep) (*string, error) {
	if value == nil {
		return nil, nil
	}
	current := *value
	for _, step := range steps {
		fn, err := r.Lookup(step.Name)
		if err != nil {
			return nil, err
		}
		next, err := fn(current, step.Args...)
		if err != nil {
			return nil, doferr.Permanentf("transforms.Run", "transform %q: %v", step.Name, err)
		}
		current = next
	}
	return &current, nil
}
