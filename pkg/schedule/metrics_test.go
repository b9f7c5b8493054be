package schedule

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestInstrumentedDebounce(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg), WithNamespace("test"))

	rec := newRecorder()
	d := NewDebounce(time.Second, rec.fn, Leading(true), Instrument(m, "search"))
	defer d.Cancel()

	d.Run("a") // leading invocation
	d.Run("b") // suppressed
	d.Run("c") // suppressed
	d.Flush()  // trailing invocation with c
	d.Cancel()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.invocations.WithLabelValues("search", edgeLeading)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.invocations.WithLabelValues("search", edgeTrailing)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.suppressed.WithLabelValues("search")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.flushes.WithLabelValues("search")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cancels.WithLabelValues("search")))
}

func TestInstrumentedThrottle(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg), WithSubsystem("throttle"))

	rec := newRecorder()
	th := NewThrottle(time.Second, rec.fn, Instrument(m, "scroll"))
	defer th.Cancel()

	th.Run("a") // leading
	th.Run("b") // suppressed
	th.Flush()  // trailing with b

	assert.Equal(t, 1.0, testutil.ToFloat64(m.invocations.WithLabelValues("scroll", edgeLeading)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.invocations.WithLabelValues("scroll", edgeTrailing)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.suppressed.WithLabelValues("scroll")))
}
