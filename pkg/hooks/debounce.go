package hooks

import (
	"time"

	"github.com/gouse-dev/gouse/pkg/reactive"
	"github.com/gouse-dev/gouse/pkg/schedule"
)

// UseDebounceFn wraps fn in a debounce scheduler. The scheduler is
// cancelled when the current scope is disposed, so a pending trailing
// invocation can never fire into torn-down state.
func UseDebounceFn[A, R any](wait time.Duration, fn func(A) R, opts ...schedule.Option) *schedule.Debounced[A, R] {
	d := schedule.NewDebounce(wait, fn, opts...)
	if s := reactive.CurrentScope(); s != nil {
		s.OnCleanup(d.Cancel)
	}
	return d
}

// UseThrottleFn wraps fn in a throttle scheduler with the same
// lifecycle rule as UseDebounceFn.
func UseThrottleFn[A, R any](wait time.Duration, fn func(A) R, opts ...schedule.Option) *schedule.Throttled[A, R] {
	t := schedule.NewThrottle(wait, fn, opts...)
	if s := reactive.CurrentScope(); s != nil {
		s.OnCleanup(t.Cancel)
	}
	return t
}

// UseDebounce returns a signal that follows source, but only settles
// wait after the source stops changing.
func UseDebounce[T any](source *reactive.Signal[T], wait time.Duration, opts ...schedule.Option) *reactive.Signal[T] {
	out := reactive.NewSignal(source.Peek())
	d := UseDebounceFn(wait, func(v T) struct{} {
		out.Set(v)
		return struct{}{}
	}, opts...)

	first := true
	reactive.NewEffect(func() reactive.Cleanup {
		v := source.Get()
		if first {
			// The initial value is already in out; only changes
			// go through the scheduler.
			first = false
			return nil
		}
		d.Run(v)
		return nil
	})
	return out
}

// UseThrottle returns a signal that follows source at a bounded rate.
func UseThrottle[T any](source *reactive.Signal[T], wait time.Duration, opts ...schedule.Option) *reactive.Signal[T] {
	out := reactive.NewSignal(source.Peek())
	th := UseThrottleFn(wait, func(v T) struct{} {
		out.Set(v)
		return struct{}{}
	}, opts...)

	first := true
	reactive.NewEffect(func() reactive.Cleanup {
		v := source.Get()
		if first {
			first = false
			return nil
		}
		th.Run(v)
		return nil
	})
	return out
}
