package schedule

import "time"

// DefaultWait is used when a scheduler is constructed with a non-positive
// wait duration.
const DefaultWait = 300 * time.Millisecond

// config holds the invocation policy shared by both scheduler variants.
type config struct {
	leading  bool
	trailing bool
	maxWait  time.Duration
	now      func() time.Time
	metrics  *Metrics
	name     string
}

// Option configures a scheduler's invocation policy.
type Option func(*config)

// Leading controls whether the wrapped function fires at window open,
// before any waiting occurs. Defaults to false for debounce and true for
// throttle.
func Leading(on bool) Option {
	return func(c *config) {
		c.leading = on
	}
}

// Trailing controls whether the wrapped function fires at window close,
// using the most recently supplied arguments. Defaults to true.
func Trailing(on bool) Option {
	return func(c *config) {
		c.trailing = on
	}
}

// MaxWait bounds the total suppression time of a debounce scheduler:
// continuous calls arriving faster than the wait period still force an
// invocation within maxWait of the last invocation. Values smaller than
// the wait period disable the bound. Throttle schedulers ignore this
// option; their periodic window makes a separate ceiling redundant.
func MaxWait(d time.Duration) Option {
	return func(c *config) {
		c.maxWait = d
	}
}

// Instrument attaches Prometheus metrics to the scheduler. Every
// instrumented scheduler needs a name; it becomes the "scheduler" label
// on the collected series.
func Instrument(m *Metrics, name string) Option {
	return func(c *config) {
		c.metrics = m
		c.name = name
	}
}

func newConfig(leadingDefault bool, opts []Option) config {
	c := config{
		leading:  leadingDefault,
		trailing: true,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
