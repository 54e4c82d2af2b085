package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics wraps Prometheus collectors for the status monitor.
type Metrics struct {
	registry                 *prometheus.Registry
	cycleDurationSeconds     prometheus.Histogram
	servicesTotal            *prometheus.GaugeVec
	probeFailuresTotal       *prometheus.CounterVec
	storeErrorsTotal         prometheus.Counter
	lastSuccessfulCycleGauge prometheus.Gauge
}

// New initializes a Metrics registry with all collectors registered.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		cycleDurationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "status_monitor_cycle_duration_seconds",
			Help:    "Duration of check cycles in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		servicesTotal: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "status_monitor_services_total",
			Help: "Total services by status.",
		}, []string{"status"}),
		probeFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "status_monitor_probe_failures_total",
			Help: "Total probe transport failures by service.",
		}, []string{"service"}),
		storeErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "status_monitor_store_errors_total",
			Help: "Total persistence errors during check cycles.",
		}),
		lastSuccessfulCycleGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "status_monitor_last_successful_cycle_timestamp",
			Help: "Unix timestamp of the last successful cycle.",
		}),
	}

	registry.MustRegister(
		m.cycleDurationSeconds,
		m.servicesTotal,
		m.probeFailuresTotal,
		m.storeErrorsTotal,
		m.lastSuccessfulCycleGauge,
	)

	return m
}

// Handler returns a Prometheus HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveCycleDuration records the duration of a completed cycle.
func (m *Metrics) ObserveCycleDuration(duration time.Duration) {
	if m == nil {
		return
	}
	m.cycleDurationSeconds.Observe(duration.Seconds())
}

// SetServicesTotal sets the services gauge for the given status.
func (m *Metrics) SetServicesTotal(status string, value int) {
	if m == nil {
		return
	}
	m.servicesTotal.WithLabelValues(status).Set(float64(value))
}

// IncProbeFailures increments the probe failure counter for a service.
func (m *Metrics) IncProbeFailures(service string) {
	if m == nil {
		return
	}
	m.probeFailuresTotal.WithLabelValues(service).Inc()
}

// IncStoreErrors increments the persistence error counter.
func (m *Metrics) IncStoreErrors() {
	if m == nil {
		return
	}
	m.storeErrorsTotal.Inc()
}

// SetLastSuccessfulCycleTimestamp sets the last successful cycle time.
func (m *Metrics) SetLastSuccessfulCycleTimestamp(t time.Time) {
	if m == nil {
		return
	}
	m.lastSuccessfulCycleGauge.Set(float64(t.Unix()))
}
