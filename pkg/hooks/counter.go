package hooks

import (
	"math"

	"github.com/gouse-dev/gouse/pkg/reactive"
)

// Counter is an integer signal clamped to an optional [min, max] range.
type Counter struct {
	Value   *reactive.Signal[int]
	initial int
	min     int
	max     int
}

// CounterOption configures a Counter.
type CounterOption func(*Counter)

// WithMin sets the lower bound (inclusive).
func WithMin(min int) CounterOption {
	return func(c *Counter) {
		c.min = min
	}
}

// WithMax sets the upper bound (inclusive).
func WithMax(max int) CounterOption {
	return func(c *Counter) {
		c.max = max
	}
}

// UseCounter creates a counter starting at initial. The initial value
// itself is clamped into range.
func UseCounter(initial int, opts ...CounterOption) *Counter {
	c := &Counter{
		min: math.MinInt,
		max: math.MaxInt,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.initial = c.clamp(initial)
	c.Value = reactive.NewSignal(c.initial)
	return c
}

func (c *Counter) clamp(v int) int {
	if v < c.min {
		return c.min
	}
	if v > c.max {
		return c.max
	}
	return v
}

// Inc increments by 1.
func (c *Counter) Inc() { c.IncBy(1) }

// Dec decrements by 1.
func (c *Counter) Dec() { c.IncBy(-1) }

// IncBy adds delta, clamping to range.
func (c *Counter) IncBy(delta int) {
	c.Value.Update(func(v int) int { return c.clamp(v + delta) })
}

// Set assigns a value, clamping to range.
func (c *Counter) Set(v int) {
	c.Value.Set(c.clamp(v))
}

// Reset restores the initial value.
func (c *Counter) Reset() {
	c.Value.Set(c.initial)
}
