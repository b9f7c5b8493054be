package schedule

import (
	"sync"
	"time"
)

// Throttled invokes a wrapped function at most once per wait-length
// window. A call while no window is open fires the leading edge (when
// enabled) and opens a window; calls arriving during an open window
// collapse into the pending arguments, and the window close fires the
// trailing edge with the most recent of them.
//
// Unlike debounce, further calls never push the window out: bursts always
// resolve at window close. There is no maxWait knob; the periodic window
// makes a separate ceiling redundant.
//
// All methods are safe for concurrent use. The wrapped function must not
// call back into the same Throttled instance.
type Throttled[A, R any] struct {
	fn   func(A) R
	wait time.Duration
	conf config

	mu    sync.Mutex
	timer *time.Timer
	armed bool

	pendingArgs A
	hasPending  bool

	lastCall   time.Time
	hasCalled  bool
	lastInvoke time.Time

	lastResult R

	metrics *Metrics
	name    string
}

// NewThrottle creates a throttle scheduler around fn. A non-positive wait
// falls back to DefaultWait. By default both edges fire; use Leading and
// Trailing to adjust the policy.
//
// The caller owning the scheduler must call Cancel when its consumer is
// torn down, so no timer is left armed and fn can never fire against a
// dead context.
func NewThrottle[A, R any](wait time.Duration, fn func(A) R, opts ...Option) *Throttled[A, R] {
	if wait <= 0 {
		wait = DefaultWait
	}

	conf := newConfig(true, opts)
	conf.maxWait = 0

	if !conf.leading && !conf.trailing {
		conf.trailing = true
	}

	t := &Throttled[A, R]{
		fn:      fn,
		wait:    wait,
		conf:    conf,
		metrics: conf.metrics,
		name:    conf.name,
	}
	t.timer = stoppedTimer(t.expire)

	return t
}

// Run records args as the pending arguments and applies the throttle
// policy: outside a window it opens one (invoking immediately when the
// leading edge is enabled); inside a window it only replaces the pending
// arguments, which the trailing edge will honor at window close.
//
// It returns the result of the most recent actual invocation, which is
// stale across suppressed calls.
func (t *Throttled[A, R]) Run(args A) R {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.conf.now()

	t.pendingArgs = args
	t.hasPending = true
	t.lastCall = now
	t.hasCalled = true

	if t.armed {
		// Window open: the burst collapses to the trailing edge.
		t.count(edgeNone)
		return t.lastResult
	}

	// No window open: this call opens one.
	t.timer.Reset(t.wait)
	t.armed = true

	if t.conf.leading {
		r := t.invoke(now)
		t.count(edgeLeading)
		return r
	}
	t.count(edgeNone)

	return t.lastResult
}

// Cancel discards any pending invocation and resets call/invoke history.
// After Cancel returns, no invocation can result from prior calls. It is
// idempotent and safe to call after teardown.
func (t *Throttled[A, R]) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.timer.Stop()
	t.armed = false
	t.hasPending = false
	var zero A
	t.pendingArgs = zero
	t.lastCall = time.Time{}
	t.hasCalled = false
	t.lastInvoke = time.Time{}

	if t.metrics != nil {
		t.metrics.cancels.WithLabelValues(t.name).Inc()
	}
}

// Flush closes an open window synchronously, invoking the trailing edge
// if one is owed, and returns the resulting (or last) result. With no
// window open it returns the last result without side effects.
func (t *Throttled[A, R]) Flush() R {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.metrics != nil {
		t.metrics.flushes.WithLabelValues(t.name).Inc()
	}

	if !t.armed {
		return t.lastResult
	}

	return t.trailingEdge(t.conf.now())
}

// Pending reports whether a window is currently open.
func (t *Throttled[A, R]) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.armed
}

// trailingEdge closes the window at time now, invoking fn with the pending
// arguments if the trailing edge is enabled and arguments are owed.
func (t *Throttled[A, R]) trailingEdge(now time.Time) R {
	t.timer.Stop()
	t.armed = false

	if t.conf.trailing && t.hasPending {
		r := t.invoke(now)
		t.count(edgeTrailing)
		return r
	}

	t.hasPending = false
	var zero A
	t.pendingArgs = zero

	return t.lastResult
}

// invoke executes fn with the pending arguments and records the result.
// Caller holds the mutex.
func (t *Throttled[A, R]) invoke(now time.Time) R {
	args := t.pendingArgs
	t.hasPending = false
	var zero A
	t.pendingArgs = zero
	t.lastInvoke = now

	t.lastResult = t.fn(args)

	return t.lastResult
}

// expire is the timer callback closing the window. When the leading edge
// consumed the only call of the window there is nothing pending and the
// scheduler simply returns to idle.
func (t *Throttled[A, R]) expire() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.armed {
		// Cancelled or flushed between timer fire and lock acquisition.
		return
	}

	t.trailingEdge(t.conf.now())
}

func (t *Throttled[A, R]) count(edge string) {
	if t.metrics == nil {
		return
	}
	if edge == edgeNone {
		t.metrics.suppressed.WithLabelValues(t.name).Inc()
		return
	}
	t.metrics.invocations.WithLabelValues(t.name, edge).Inc()
}
