// Package metrics exposes Prometheus instruments for the import service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "orceu"

// Import results used as label values.
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultInvalid  = "invalid"
	ResultError    = "error"
)

// Metrics holds the service instruments.
type Metrics struct {
	registry *prometheus.Registry

	imports       *prometheus.CounterVec
	rows          *prometheus.CounterVec
	parseDuration *prometheus.HistogramVec
	queueDepth    prometheus.Gauge
}

// New creates the instruments on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		imports: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imports_total",
			Help:      "Total number of estimate imports by endpoint and result.",
		}, []string{"endpoint", "result"}),
		rows: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parsed_rows_total",
			Help:      "Total number of sheet rows parsed, by classification.",
		}, []string{"kind"}),
		parseDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "parse_duration_seconds",
			Help:      "Time spent reading and parsing an uploaded file.",
			Buckets: []float64{
				0.005, 0.01, 0.025, 0.05,
				0.1, 0.25, 0.5,
				1, 2.5, 5, 10,
			},
		}, []string{"format"}),
		queueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_depth",
			Help:      "Import tasks waiting in the in-memory queue.",
		}),
	}
}

// ObserveImport counts one import.
func (m *Metrics) ObserveImport(endpoint, result string) {
	m.imports.WithLabelValues(endpoint, result).Inc()
}

// ObserveRows adds n rows of the given kind.
func (m *Metrics) ObserveRows(kind string, n int) {
	if n > 0 {
		m.rows.WithLabelValues(kind).Add(float64(n))
	}
}

// ObserveParse records how long a parse took.
func (m *Metrics) ObserveParse(format string, d time.Duration) {
	m.parseDuration.WithLabelValues(format).Observe(d.Seconds())
}

// SetQueueDepth records the number of waiting tasks.
func (m *Metrics) SetQueueDepth(n int) {
	m.queueDepth.Set(float64(n))
}

// Registry returns the registry the instruments live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
