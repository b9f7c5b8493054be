package reactive

import (
	"runtime"
	"sync"
)

// trackingContext holds the reactive state for one goroutine: the scope
// that owns newly created effects, the listener currently collecting
// dependencies, and the batch queue.
type trackingContext struct {
	currentScope    *Scope
	currentListener Listener
	batchDepth      int
	pendingUpdates  []Listener
}

// trackingContexts stores per-goroutine tracking contexts.
var trackingContexts sync.Map

// goroutineID extracts the current goroutine's ID from the runtime stack.
// An implementation detail; never exposed.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	// The stack header is "goroutine <id> ".
	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

func getTrackingContext() *trackingContext {
	gid := goroutineID()
	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*trackingContext)
	}

	ctx := &trackingContext{}
	trackingContexts.Store(gid, ctx)
	return ctx
}

// peekTrackingContext returns the current goroutine's context without
// creating one. Read paths must use this: goroutine IDs are never reused,
// so a context created for a short-lived goroutine would stay in the map
// forever.
func peekTrackingContext() *trackingContext {
	if ctx, ok := trackingContexts.Load(goroutineID()); ok {
		return ctx.(*trackingContext)
	}
	return nil
}

// releaseIfIdle drops the map entry once the context carries no state.
// Every mutation path calls this after restoring, so a goroutine that
// finished its reactive work leaves nothing behind.
func releaseIfIdle(ctx *trackingContext) {
	if ctx.currentScope == nil && ctx.currentListener == nil &&
		ctx.batchDepth == 0 && len(ctx.pendingUpdates) == 0 {
		trackingContexts.Delete(goroutineID())
	}
}

func getCurrentListener() Listener {
	if ctx := peekTrackingContext(); ctx != nil {
		return ctx.currentListener
	}
	return nil
}

func setCurrentListener(l Listener) Listener {
	ctx := getTrackingContext()
	old := ctx.currentListener
	ctx.currentListener = l
	releaseIfIdle(ctx)
	return old
}

// CurrentScope returns the scope that owns newly created effects on this
// goroutine, or nil when none is active.
func CurrentScope() *Scope {
	if ctx := peekTrackingContext(); ctx != nil {
		return ctx.currentScope
	}
	return nil
}

func setCurrentScope(s *Scope) *Scope {
	ctx := getTrackingContext()
	old := ctx.currentScope
	ctx.currentScope = s
	releaseIfIdle(ctx)
	return old
}

func getBatchDepth() int {
	if ctx := peekTrackingContext(); ctx != nil {
		return ctx.batchDepth
	}
	return 0
}

func queuePendingUpdate(l Listener) {
	// Only reachable inside a batch, so the context already exists.
	ctx := getTrackingContext()
	ctx.pendingUpdates = append(ctx.pendingUpdates, l)
}

// WithScope runs fn with the given scope as the current scope. Effects and
// cleanups created inside fn belong to that scope.
func WithScope(scope *Scope, fn func()) {
	old := setCurrentScope(scope)
	defer setCurrentScope(old)
	fn()
}

// WithListener runs fn with the given listener collecting dependencies.
// Used internally and by tests.
func WithListener(l Listener, fn func()) {
	old := setCurrentListener(l)
	defer setCurrentListener(old)
	fn()
}

// Untracked runs fn without tracking signal reads as dependencies. For a
// single read, Signal.Peek is clearer.
func Untracked(fn func()) {
	old := setCurrentListener(nil)
	defer setCurrentListener(old)
	fn()
}
