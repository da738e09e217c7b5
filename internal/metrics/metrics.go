// Package metrics exposes Prometheus collectors for extractions, the two
// persisted collections and exports. All methods are safe on a nil *Metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrSnakeDoc/propintel/internal/domain"
)

const namespace = "propintel"

// Extraction outcomes.
const (
	OutcomeSuccess    = "success"
	OutcomeValidation = "validation_error"
	OutcomeFetch      = "fetch_error"
	OutcomeExtraction = "extraction_error"
)

// Persistence operations.
const (
	OpRead  = "read"
	OpWrite = "write"
)

type Metrics struct {
	registry *prometheus.Registry

	extractions         *prometheus.CounterVec
	extractionDuration  *prometheus.HistogramVec
	historyEntries      prometheus.Gauge
	savedProperties     prometheus.Gauge
	persistenceFailures *prometheus.CounterVec
	exports             *prometheus.CounterVec
}

// New registers every collector on a private registry.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.extractions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "extractions_total",
		Help:      "Extraction attempts by source type and outcome",
	}, []string{"source", "outcome"})
	m.extractionDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "extraction_duration_seconds",
		Help:      "Time spent fetching and extracting a listing",
		Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
	}, []string{"source"})
	m.historyEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "history_entries",
		Help:      "Entries currently retained in the extraction history",
	})
	m.savedProperties = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "saved_properties",
		Help:      "Properties currently in the saved store",
	})
	m.persistenceFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "persistence_failures_total",
		Help:      "Failed reads and writes of persisted collections",
	}, []string{"collection", "op"})
	m.exports = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "exports_total",
		Help:      "Rendered exports by format",
	}, []string{"format"})

	m.registry.MustRegister(
		m.extractions,
		m.extractionDuration,
		m.historyEntries,
		m.savedProperties,
		m.persistenceFailures,
		m.exports,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveExtraction(source domain.SourceType, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.extractions.WithLabelValues(string(source), outcome).Inc()
	m.extractionDuration.WithLabelValues(string(source)).Observe(elapsed.Seconds())
}

func (m *Metrics) SetHistorySize(n int) {
	if m == nil {
		return
	}
	m.historyEntries.Set(float64(n))
}

func (m *Metrics) SetSavedSize(n int) {
	if m == nil {
		return
	}
	m.savedProperties.Set(float64(n))
}

func (m *Metrics) PersistenceFailure(c domain.Collection, op string) {
	if m == nil {
		return
	}
	m.persistenceFailures.WithLabelValues(string(c), op).Inc()
}

func (m *Metrics) ExportRendered(format string) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(format).Inc()
}
