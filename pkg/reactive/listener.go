package reactive

import "sync/atomic"

// Listener is anything that can be notified when a dependency changes:
// effects re-run, memos invalidate their cache.
type Listener interface {
	// MarkDirty notifies the listener that a dependency changed.
	MarkDirty()

	// ID returns a unique identifier, used for deduplication.
	ID() uint64
}

// Cleanup is returned by effects to release resources. It runs before the
// effect re-runs and when the owning scope is disposed.
type Cleanup func()

// idCounter is the source of unique IDs for all reactive primitives.
var idCounter uint64

func nextID() uint64 {
	return atomic.AddUint64(&idCounter, 1)
}
