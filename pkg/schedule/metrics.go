package schedule

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Edge labels attached to the invocation counter.
const (
	edgeLeading  = "leading"
	edgeTrailing = "trailing"
	edgeNone     = ""
)

// MetricsConfig configures the Prometheus collectors for schedulers.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "gouse").
	Namespace string

	// Subsystem is the metrics subsystem (default: "schedule").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// MetricsOption configures the scheduler metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// Metrics holds the Prometheus collectors shared by instrumented
// schedulers. Create one per process (or per registry) and attach it to
// individual schedulers with the Instrument option.
type Metrics struct {
	invocations *prometheus.CounterVec
	suppressed  *prometheus.CounterVec
	cancels     *prometheus.CounterVec
	flushes     *prometheus.CounterVec
}

// NewMetrics creates and registers the scheduler collectors.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := MetricsConfig{
		Namespace: "gouse",
		Subsystem: "schedule",
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		invocations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "invocations_total",
			Help:        "Actual invocations of wrapped functions, by edge",
			ConstLabels: config.ConstLabels,
		}, []string{"scheduler", "edge"}),

		suppressed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "suppressed_calls_total",
			Help:        "Calls absorbed into a policy window without invoking",
			ConstLabels: config.ConstLabels,
		}, []string{"scheduler"}),

		cancels: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "cancels_total",
			Help:        "Cancel operations, including teardown cancels",
			ConstLabels: config.ConstLabels,
		}, []string{"scheduler"}),

		flushes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flushes_total",
			Help:        "Flush operations forcing pending trailing invocations",
			ConstLabels: config.ConstLabels,
		}, []string{"scheduler"}),
	}
}
