package hooks

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gouse-dev/gouse/pkg/reactive"
	"github.com/gouse-dev/gouse/pkg/schedule"
)

func newHookScope(t *testing.T) *reactive.Scope {
	t.Helper()
	s := reactive.NewScope(nil)
	t.Cleanup(func() {
		if !s.IsDisposed() {
			s.Dispose()
		}
	})
	return s
}

func TestUseDebounceFnCancelledOnDispose(t *testing.T) {
	scope := newHookScope(t)

	var calls atomic.Int32
	var d *schedule.Debounced[string, struct{}]
	reactive.WithScope(scope, func() {
		d = UseDebounceFn(30*time.Millisecond, func(string) struct{} {
			calls.Add(1)
			return struct{}{}
		})
	})

	d.Run("pending")
	scope.Dispose()

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load(), "trailing invocation fired after scope disposal")
}

func TestUseThrottleFnCancelledOnDispose(t *testing.T) {
	scope := newHookScope(t)

	var calls atomic.Int32
	var th *schedule.Throttled[int, struct{}]
	reactive.WithScope(scope, func() {
		th = UseThrottleFn(30*time.Millisecond, func(int) struct{} {
			calls.Add(1)
			return struct{}{}
		})
	})

	th.Run(1) // leading fires
	th.Run(2) // queued for trailing
	scope.Dispose()

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load(), "trailing invocation fired after scope disposal")
}

func TestUseDebounceSignal(t *testing.T) {
	scope := newHookScope(t)

	src := reactive.NewSignal("a")
	var out *reactive.Signal[string]
	reactive.WithScope(scope, func() {
		out = UseDebounce(src, 40*time.Millisecond)
	})

	assert.Equal(t, "a", out.Get())

	src.Set("b")
	src.Set("c")
	assert.Equal(t, "a", out.Get(), "debounced signal updated before wait elapsed")

	require.Eventually(t, func() bool {
		return out.Peek() == "c"
	}, time.Second, 5*time.Millisecond)
}

func TestUseThrottleSignal(t *testing.T) {
	scope := newHookScope(t)

	src := reactive.NewSignal(0)
	var out *reactive.Signal[int]
	reactive.WithScope(scope, func() {
		out = UseThrottle(src, 50*time.Millisecond)
	})

	// First change invokes on the leading edge.
	src.Set(1)
	assert.Equal(t, 1, out.Get())

	// Changes inside the window are deferred to the trailing edge.
	src.Set(2)
	src.Set(3)
	assert.Equal(t, 1, out.Get())

	require.Eventually(t, func() bool {
		return out.Peek() == 3
	}, time.Second, 5*time.Millisecond)
}
