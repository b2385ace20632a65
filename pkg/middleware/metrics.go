package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vango-dev/history/pkg/history"
)

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "history").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics.
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

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "history",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors for history providers.
// One Metrics value is shared by every provider of a process.
type Metrics struct {
	changesTotal *prometheus.CounterVec
	providers    prometheus.Gauge
	listening    prometheus.Gauge
	writeErrors  prometheus.Counter
}

// Prometheus registers the history metrics and returns them.
//
// Metrics collected:
//   - history_changes_total: Counter of change events by cause
//   - history_providers: Gauge of providers currently observed
//   - history_listening_providers: Gauge of providers currently listening
//   - history_location_write_errors_total: Counter of failed location commands
func Prometheus(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		changesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "changes_total",
			Help:        "Total number of history change events",
			ConstLabels: config.ConstLabels,
		}, []string{"cause"}),

		providers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "providers",
			Help:        "Number of history providers currently observed",
			ConstLabels: config.ConstLabels,
		}),

		listening: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "listening_providers",
			Help:        "Number of history providers currently listening",
			ConstLabels: config.ConstLabels,
		}),

		writeErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "location_write_errors_total",
			Help:        "Total number of location commands that could not be delivered",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// Observe counts the change events of h until the returned function is
// called.
func (m *Metrics) Observe(h history.History) func() {
	m.providers.Inc()
	stop := h.On(func(e history.Event) {
		m.changesTotal.WithLabelValues(string(e.Cause)).Inc()
	})

	detached := false
	return func() {
		if detached {
			return
		}
		detached = true
		stop()
		m.providers.Dec()
	}
}

// RecordListen records a provider starting to listen.
func (m *Metrics) RecordListen() {
	m.listening.Inc()
}

// RecordUnlisten records a provider that stopped listening.
func (m *Metrics) RecordUnlisten() {
	m.listening.Dec()
}

// RecordWriteErrors adds n failed location commands.
func (m *Metrics) RecordWriteErrors(n int64) {
	if n > 0 {
		m.writeErrors.Add(float64(n))
	}
}
