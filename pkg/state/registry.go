package state

import (
	"sync"

	"github.com/gouse-dev/gouse/pkg/reactive"
)

// Registry is a process-wide, key-addressed map of signals with explicit
// lifecycle. Safe for concurrent use.
//
// Keys are created once with Create and live until Destroy; Reset returns
// a key to the initial value it was created with.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

type entry struct {
	signal any
	reset  func()
	set    func(any) bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// DefaultRegistry is the process-wide registry used by the package-level
// helpers.
var DefaultRegistry = NewRegistry()

// Create returns the signal registered under key, creating it with the
// given initial value on first use. Subsequent calls for the same key
// return the existing signal regardless of their initial argument; a
// mismatched value type panics, since two callers disagreeing on a key's
// type is a programming error.
func Create[T any](r *Registry, key string, initial T) *reactive.Signal[T] {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[key]; ok {
		sig, ok := e.signal.(*reactive.Signal[T])
		if !ok {
			panic("state: type mismatch for registry key " + key)
		}
		return sig
	}

	sig := reactive.NewSignal(initial)
	r.entries[key] = &entry{
		signal: sig,
		reset:  func() { sig.Set(initial) },
		set: func(v any) bool {
			tv, ok := v.(T)
			if ok {
				sig.Set(tv)
			}
			return ok
		},
	}

	return sig
}

// Get returns the signal registered under key, or false when the key was
// never created or has been destroyed.
func Get[T any](r *Registry, key string) (*reactive.Signal[T], bool) {
	r.mu.RLock()
	e, ok := r.entries[key]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}

	sig, ok := e.signal.(*reactive.Signal[T])
	return sig, ok
}

// Set writes value to the signal registered under key. It reports whether
// the key existed and the value type matched.
func (r *Registry) Set(key string, value any) bool {
	r.mu.RLock()
	e, ok := r.entries[key]
	r.mu.RUnlock()
	if !ok {
		return false
	}

	return e.set(value)
}

// Reset returns the key to the initial value it was created with.
// Unknown keys are a no-op.
func (r *Registry) Reset(key string) {
	r.mu.RLock()
	e, ok := r.entries[key]
	r.mu.RUnlock()
	if ok {
		e.reset()
	}
}

// ResetAll resets every registered key to its initial value.
func (r *Registry) ResetAll() {
	r.mu.RLock()
	entries := make([]*entry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	for _, e := range entries {
		e.reset()
	}
}

// Destroy removes the key from the registry. Consumers still holding the
// signal keep a working but detached instance; a later Create under the
// same key yields a fresh signal.
func (r *Registry) Destroy(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, key)
}

// Len returns the number of registered keys.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
