package schedule

import (
	"sync"
	"time"
)

// Debounced invokes a wrapped function only after calls stop arriving for
// a wait period, optionally bounded by a maximum total suppression time.
//
// A is the argument type of the wrapped function and R its result type.
// Functions taking several arguments wrap them in a struct; functions
// returning nothing use struct{}.
//
// All methods are safe for concurrent use. The wrapped function must not
// call back into the same Debounced instance.
type Debounced[A, R any] struct {
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

// NewDebounce creates a debounce scheduler around fn. A non-positive wait
// falls back to DefaultWait. By default only the trailing edge fires; use
// Leading, Trailing and MaxWait to adjust the policy.
//
// The caller owning the scheduler must call Cancel when its consumer is
// torn down, so no timer is left armed and fn can never fire against a
// dead context.
func NewDebounce[A, R any](wait time.Duration, fn func(A) R, opts ...Option) *Debounced[A, R] {
	if wait <= 0 {
		wait = DefaultWait
	}

	conf := newConfig(false, opts)

	// If neither edge is enabled the scheduler would never invoke;
	// default to trailing, matching the debounce contract.
	if !conf.leading && !conf.trailing {
		conf.trailing = true
	}

	// A maxWait below the wait period can never trigger before the
	// ordinary trailing edge, so it is disabled.
	if conf.maxWait > 0 && conf.maxWait < wait {
		conf.maxWait = 0
	}

	d := &Debounced[A, R]{
		fn:      fn,
		wait:    wait,
		conf:    conf,
		metrics: conf.metrics,
		name:    conf.name,
	}
	d.timer = stoppedTimer(d.expire)

	return d
}

// Run records args as the pending arguments and applies the invocation
// policy: it invokes fn immediately on a fresh leading edge (when enabled)
// or when the maxWait ceiling is exceeded, and otherwise leaves the armed
// timer to fire the trailing edge once calls stop arriving.
//
// It returns the result of the most recent actual invocation, which is
// stale across suppressed calls. This is a documented property of the
// scheduler, not a defect.
func (d *Debounced[A, R]) Run(args A) R {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.conf.now()
	invoking := d.shouldInvoke(now)

	d.pendingArgs = args
	d.hasPending = true
	d.lastCall = now
	d.hasCalled = true

	if invoking {
		if !d.armed {
			return d.leadingEdge(now)
		}
		if d.conf.maxWait > 0 {
			// Ceiling exceeded mid-window: invoke now and restart
			// the timer so the cadence continues.
			d.timer.Reset(d.wait)
			return d.invoke(now)
		}
	}

	if !d.armed {
		d.timer.Reset(d.wait)
		d.armed = true
	}
	d.count(edgeNone)

	return d.lastResult
}

// Cancel discards any pending invocation and resets call/invoke history.
// After Cancel returns, no invocation can result from prior calls. It is
// idempotent and safe to call after teardown.
func (d *Debounced[A, R]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.timer.Stop()
	d.armed = false
	d.hasPending = false
	var zero A
	d.pendingArgs = zero
	d.lastCall = time.Time{}
	d.hasCalled = false
	d.lastInvoke = time.Time{}

	if d.metrics != nil {
		d.metrics.cancels.WithLabelValues(d.name).Inc()
	}
}

// Flush performs an owed trailing invocation synchronously and returns its
// result. With no timer armed it returns the last result without side
// effects.
func (d *Debounced[A, R]) Flush() R {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.metrics != nil {
		d.metrics.flushes.WithLabelValues(d.name).Inc()
	}

	if !d.armed {
		return d.lastResult
	}

	return d.trailingEdge(d.conf.now())
}

// Pending reports whether a deferred invocation timer is armed.
func (d *Debounced[A, R]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.armed
}

// shouldInvoke decides whether an invocation is due at time now. A first
// call, enough idle time, an exceeded maxWait ceiling, or a clock that
// moved backward (timeSinceLastCall < 0, an inherited heuristic guarding
// against unreliable timers) all open a fresh edge.
func (d *Debounced[A, R]) shouldInvoke(now time.Time) bool {
	if !d.hasCalled {
		return true
	}

	sinceCall := now.Sub(d.lastCall)
	if sinceCall < 0 || sinceCall >= d.wait {
		return true
	}

	return d.conf.maxWait > 0 && now.Sub(d.lastInvoke) >= d.conf.maxWait
}

// leadingEdge opens a window at time now: the timer is armed for the
// trailing edge and, when leading invocation is enabled, fn fires
// immediately with the just-recorded arguments.
func (d *Debounced[A, R]) leadingEdge(now time.Time) R {
	// Counts as an invocation point even when leading is disabled, so
	// the maxWait ceiling measures from window open.
	d.lastInvoke = now
	d.timer.Reset(d.wait)
	d.armed = true

	if d.conf.leading {
		r := d.invoke(now)
		d.count(edgeLeading)
		return r
	}
	d.count(edgeNone)

	return d.lastResult
}

// trailingEdge closes the window at time now, invoking fn with the pending
// arguments if the trailing edge is enabled and arguments are owed.
func (d *Debounced[A, R]) trailingEdge(now time.Time) R {
	d.timer.Stop()
	d.armed = false

	if d.conf.trailing && d.hasPending {
		r := d.invoke(now)
		d.count(edgeTrailing)
		return r
	}

	d.hasPending = false
	var zero A
	d.pendingArgs = zero

	return d.lastResult
}

// invoke executes fn with the pending arguments and records the result.
// Caller holds the mutex.
func (d *Debounced[A, R]) invoke(now time.Time) R {
	args := d.pendingArgs
	d.hasPending = false
	var zero A
	d.pendingArgs = zero
	d.lastInvoke = now

	d.lastResult = d.fn(args)

	return d.lastResult
}

// expire is the timer callback: it fires the trailing edge when enough
// idle time has passed, and otherwise re-arms the timer for the remaining
// wait.
func (d *Debounced[A, R]) expire() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.armed {
		// Cancelled or flushed between timer fire and lock acquisition.
		return
	}

	now := d.conf.now()
	if d.shouldInvoke(now) {
		d.trailingEdge(now)
		return
	}

	d.timer.Reset(d.remainingWait(now))
}

// remainingWait computes how long the timer should still sleep: the time
// left until the idle window closes, capped by the time left until the
// maxWait ceiling forces an invocation.
func (d *Debounced[A, R]) remainingWait(now time.Time) time.Duration {
	remaining := d.wait - now.Sub(d.lastCall)

	if d.conf.maxWait > 0 {
		untilCeiling := d.conf.maxWait - now.Sub(d.lastInvoke)
		if untilCeiling < remaining {
			remaining = untilCeiling
		}
	}

	if remaining < 0 {
		remaining = 0
	}

	return remaining
}

func (d *Debounced[A, R]) count(edge string) {
	if d.metrics == nil {
		return
	}
	if edge == edgeNone {
		d.metrics.suppressed.WithLabelValues(d.name).Inc()
		return
	}
	d.metrics.invocations.WithLabelValues(d.name, edge).Inc()
}
