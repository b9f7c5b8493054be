package hooks

import (
	"sync"
	"time"

	"github.com/gouse-dev/gouse/pkg/reactive"
)

// Interval runs a function on a fixed period until paused or its scope
// is disposed.
type Interval struct {
	Active *reactive.Signal[bool]

	fn     func()
	period time.Duration

	mu     sync.Mutex
	stop   chan struct{}
	closed bool
}

// IntervalOption configures UseInterval.
type IntervalOption func(*intervalConfig)

type intervalConfig struct {
	immediate bool
	paused    bool
}

// Immediate runs fn once synchronously before the first tick.
func Immediate() IntervalOption {
	return func(c *intervalConfig) {
		c.immediate = true
	}
}

// StartPaused creates the interval without starting it; call Resume to
// begin ticking.
func StartPaused() IntervalOption {
	return func(c *intervalConfig) {
		c.paused = true
	}
}

// UseInterval runs fn every period. The interval stops for good when
// the current scope is disposed.
func UseInterval(period time.Duration, fn func(), opts ...IntervalOption) *Interval {
	cfg := &intervalConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	iv := &Interval{
		Active: reactive.NewSignal(false),
		fn:     fn,
		period: period,
	}

	if s := reactive.CurrentScope(); s != nil {
		s.OnCleanup(iv.close)
	}

	if cfg.immediate {
		fn()
	}
	if !cfg.paused {
		iv.Resume()
	}
	return iv
}

// Resume starts ticking. No-op if already running or closed.
func (iv *Interval) Resume() {
	iv.mu.Lock()
	defer iv.mu.Unlock()

	if iv.closed || iv.stop != nil {
		return
	}

	stop := make(chan struct{})
	iv.stop = stop
	iv.Active.Set(true)

	go func() {
		ticker := time.NewTicker(iv.period)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				iv.fn()
			case <-stop:
				return
			}
		}
	}()
}

// Pause stops ticking. Resume restarts with a fresh period.
func (iv *Interval) Pause() {
	iv.mu.Lock()
	defer iv.mu.Unlock()
	iv.pauseLocked()
}

func (iv *Interval) pauseLocked() {
	if iv.stop != nil {
		close(iv.stop)
		iv.stop = nil
		iv.Active.Set(false)
	}
}

func (iv *Interval) close() {
	iv.mu.Lock()
	defer iv.mu.Unlock()
	iv.pauseLocked()
	iv.closed = true
}

// Timeout is a single pending invocation that can be stopped.
type Timeout struct {
	timer *time.Timer
}

// UseTimeout runs fn once after d, unless stopped or the current scope
// is disposed first.
func UseTimeout(d time.Duration, fn func()) *Timeout {
	to := &Timeout{timer: time.AfterFunc(d, fn)}
	if s := reactive.CurrentScope(); s != nil {
		s.OnCleanup(func() { to.Stop() })
	}
	return to
}

// Stop cancels the pending invocation. It reports whether the call was
// still pending.
func (to *Timeout) Stop() bool {
	return to.timer.Stop()
}

// Reset re-arms the timeout for d from now.
func (to *Timeout) Reset(d time.Duration) {
	to.timer.Reset(d)
}
