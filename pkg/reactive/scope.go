package reactive

import (
	"sync"
	"sync/atomic"
)

// Scope is a component-level ownership context. Effects, cleanups, and
// child scopes registered while a scope is current are disposed with it,
// in reverse creation order. This is the teardown guarantee hooks rely
// on: every resource a hook allocates is released exactly once when the
// consuming context ends.
//
// Scopes form a hierarchy mirroring the component tree; disposing a
// parent disposes all descendants first.
type Scope struct {
	id uint64

	parent *Scope

	childrenMu sync.Mutex
	children   []*Scope

	effectsMu sync.Mutex
	effects   []*Effect

	cleanupsMu sync.Mutex
	cleanups   []func()

	valuesMu sync.RWMutex
	values   map[any]any

	disposed atomic.Bool
}

// NewScope creates a scope under parent. A nil parent creates a root
// scope.
func NewScope(parent *Scope) *Scope {
	s := &Scope{
		id:     nextID(),
		parent: parent,
	}

	if parent != nil {
		parent.addChild(s)
	}

	return s
}

// ID returns the unique identifier for this scope.
func (s *Scope) ID() uint64 {
	return s.id
}

// Parent returns the parent scope, or nil for a root scope.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// IsDisposed reports whether Dispose has been called.
func (s *Scope) IsDisposed() bool {
	return s.disposed.Load()
}

// Run executes fn with this scope as the current scope.
func (s *Scope) Run(fn func()) {
	WithScope(s, fn)
}

// OnCleanup registers fn to run when the scope is disposed. If the scope
// is already disposed fn runs immediately.
func (s *Scope) OnCleanup(fn func()) {
	if s.disposed.Load() {
		fn()
		return
	}

	s.cleanupsMu.Lock()
	defer s.cleanupsMu.Unlock()
	s.cleanups = append(s.cleanups, fn)
}

// Provide stores a context value on this scope, visible to Lookup from
// this scope and its descendants.
func (s *Scope) Provide(key, value any) {
	s.valuesMu.Lock()
	defer s.valuesMu.Unlock()

	if s.values == nil {
		s.values = make(map[any]any)
	}
	s.values[key] = value
}

// Lookup walks the scope chain from here to the root and returns the
// first value provided under key, or nil.
func (s *Scope) Lookup(key any) any {
	for cur := s; cur != nil; cur = cur.parent {
		cur.valuesMu.RLock()
		v, ok := cur.values[key]
		cur.valuesMu.RUnlock()
		if ok {
			return v
		}
	}
	return nil
}

// Dispose disposes this scope: children first (in reverse creation
// order), then effects, then cleanups in reverse registration order.
// Idempotent; after disposal the scope cannot be reused.
func (s *Scope) Dispose() {
	if s.disposed.Swap(true) {
		return
	}

	if s.parent != nil {
		s.parent.removeChild(s)
	}

	s.childrenMu.Lock()
	children := make([]*Scope, len(s.children))
	copy(children, s.children)
	s.children = nil
	s.childrenMu.Unlock()

	for i := len(children) - 1; i >= 0; i-- {
		children[i].Dispose()
	}

	s.effectsMu.Lock()
	effects := s.effects
	s.effects = nil
	s.effectsMu.Unlock()

	for _, e := range effects {
		e.Dispose()
	}

	s.cleanupsMu.Lock()
	cleanups := s.cleanups
	s.cleanups = nil
	s.cleanupsMu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}

func (s *Scope) addChild(child *Scope) {
	s.childrenMu.Lock()
	defer s.childrenMu.Unlock()
	s.children = append(s.children, child)
}

func (s *Scope) removeChild(child *Scope) {
	s.childrenMu.Lock()
	defer s.childrenMu.Unlock()

	for i, c := range s.children {
		if c == child {
			s.children = append(s.children[:i], s.children[i+1:]...)
			return
		}
	}
}

func (s *Scope) registerEffect(e *Effect) {
	if s.disposed.Load() {
		return
	}

	s.effectsMu.Lock()
	defer s.effectsMu.Unlock()
	s.effects = append(s.effects, e)
}
