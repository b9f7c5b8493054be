package state

import (
	"sync"
	"sync/atomic"

	"github.com/gouse-dev/gouse/pkg/reactive"
)

// Global wraps a signal shared across ALL consumers in the process. It
// embeds *reactive.Signal[T], so every signal method is directly
// available.
//
// Global state is visible to every session and user; be careful with
// sensitive data.
type Global[T any] struct {
	*reactive.Signal[T]
}

// NewGlobal creates a process-wide signal with the given initial value.
//
//	var ServerStatus = state.NewGlobal("online")
func NewGlobal[T any](initial T) *Global[T] {
	return &Global[T]{Signal: reactive.NewSignal(initial)}
}

// =============================================================================
// Scoped definitions
// =============================================================================

// StoreKey is the scope context key under which a *Store is provided.
var StoreKey = &struct{ name string }{"state.Store"}

// Store holds the signals of one consumer (typically one user session).
// Scoped definitions resolve against the store provided on the current
// scope chain.
type Store struct {
	signals sync.Map // map[uint64]any
}

// NewStore creates an empty per-consumer store.
func NewStore() *Store {
	return &Store{}
}

// Attach provides the store on the given scope, making it the resolution
// target for Scoped definitions used underneath it.
func (s *Store) Attach(scope *reactive.Scope) {
	scope.Provide(StoreKey, s)
}

// getOrCreate returns the signal registered under id, creating it with
// createFn on first access.
func (s *Store) getOrCreate(id uint64, createFn func() any) any {
	if val, ok := s.signals.Load(id); ok {
		return val
	}

	actual, _ := s.signals.LoadOrStore(id, createFn())
	return actual
}

var scopedID uint64

// Scoped defines a per-consumer signal. The definition is typically a
// package-level variable; each store that resolves it gets its own
// independent signal, created lazily with the definition's initial value.
//
// Outside any store context the definition falls back to its initial
// value on reads, and writes are dropped.
type Scoped[T any] struct {
	id      uint64
	initial T
}

// NewScoped creates a per-consumer signal definition.
//
//	var CartItems = state.NewScoped([]CartItem{})
func NewScoped[T any](initial T) *Scoped[T] {
	return &Scoped[T]{
		id:      atomic.AddUint64(&scopedID, 1),
		initial: initial,
	}
}

// Signal returns the underlying signal for the current scope's store,
// creating it on first access. Returns nil outside any store context.
func (s *Scoped[T]) Signal() *reactive.Signal[T] {
	scope := reactive.CurrentScope()
	if scope == nil {
		return nil
	}

	store, ok := scope.Lookup(StoreKey).(*Store)
	if !ok {
		return nil
	}

	sig := store.getOrCreate(s.id, func() any {
		return reactive.NewSignal(s.initial)
	})

	return sig.(*reactive.Signal[T])
}

// Get returns the current value for the current store, or the initial
// value outside any store context.
func (s *Scoped[T]) Get() T {
	sig := s.Signal()
	if sig == nil {
		return s.initial
	}
	return sig.Get()
}

// Peek returns the current value without subscribing.
func (s *Scoped[T]) Peek() T {
	sig := s.Signal()
	if sig == nil {
		return s.initial
	}
	return sig.Peek()
}

// Set updates the value for the current store. No-op outside any store
// context.
func (s *Scoped[T]) Set(value T) {
	if sig := s.Signal(); sig != nil {
		sig.Set(value)
	}
}

// Update atomically transforms the value for the current store.
func (s *Scoped[T]) Update(fn func(T) T) {
	if sig := s.Signal(); sig != nil {
		sig.Update(fn)
	}
}
