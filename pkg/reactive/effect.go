package reactive

import (
	"sync"
	"sync/atomic"
)

// Effect is a reactive side effect. It runs immediately when created and
// re-runs whenever any signal or memo it read during execution changes.
// The function may return a Cleanup that runs before each re-run and when
// the effect is disposed.
type Effect struct {
	id uint64

	fn      func() Cleanup
	cleanup Cleanup

	sourcesMu sync.Mutex
	sources   []*signalBase

	scope *Scope

	running  atomic.Bool
	disposed atomic.Bool
}

// NewEffect creates and immediately runs an effect within the current
// scope. Disposing the scope disposes the effect.
func NewEffect(fn func() Cleanup) *Effect {
	e := &Effect{
		id:    nextID(),
		fn:    fn,
		scope: CurrentScope(),
	}

	if e.scope != nil {
		e.scope.registerEffect(e)
	}

	e.run()

	return e
}

// OnMount runs fn once when the effect is created and never re-runs it.
func OnMount(fn func()) {
	NewEffect(func() Cleanup {
		Untracked(fn)
		return nil
	})
}

// OnUnmount registers fn to run when the current scope is disposed.
func OnUnmount(fn func()) {
	if scope := CurrentScope(); scope != nil {
		scope.OnCleanup(fn)
	}
}

// OnUpdate creates an effect that skips the callback on the first run.
// deps establishes the tracked dependencies; callback runs only when they
// change afterwards.
func OnUpdate(deps func(), callback func()) {
	first := true
	NewEffect(func() Cleanup {
		deps()
		if first {
			first = false
			return nil
		}
		Untracked(callback)
		return nil
	})
}

// MarkDirty re-runs the effect. Implements Listener. Re-entrant marks
// during the effect's own run are ignored; an effect must not write its
// own dependencies.
func (e *Effect) MarkDirty() {
	if e.disposed.Load() {
		return
	}
	if e.running.Load() {
		return
	}

	e.run()
}

// ID implements Listener.
func (e *Effect) ID() uint64 {
	return e.id
}

func (e *Effect) run() {
	if e.disposed.Load() {
		return
	}

	e.running.Store(true)
	defer e.running.Store(false)

	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}

	// Resubscribe from scratch so dependencies follow the branches the
	// function actually took this run.
	e.sourcesMu.Lock()
	for _, source := range e.sources {
		source.unsubscribe(e)
	}
	e.sources = e.sources[:0]
	e.sourcesMu.Unlock()

	old := setCurrentListener(e)
	e.cleanup = e.fn()
	setCurrentListener(old)
}

// addSource implements sourceTracker; signals call it when read during
// this effect's execution.
func (e *Effect) addSource(source *signalBase) {
	e.sourcesMu.Lock()
	defer e.sourcesMu.Unlock()

	for _, s := range e.sources {
		if s == source {
			return
		}
	}
	e.sources = append(e.sources, source)
}

// Dispose runs the pending cleanup and unsubscribes from all sources.
// Idempotent.
func (e *Effect) Dispose() {
	if e.disposed.Swap(true) {
		return
	}

	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}

	e.sourcesMu.Lock()
	for _, source := range e.sources {
		source.unsubscribe(e)
	}
	e.sources = nil
	e.sourcesMu.Unlock()
}
