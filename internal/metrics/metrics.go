// Package metrics holds the Prometheus collectors exposed by the dashboard.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics registers every collector on its own registry so several servers
// can coexist in one process (tests start many).
type Metrics struct {
	registry *prometheus.Registry

	// Aggregations by cache result ("hit" or "miss").
	Aggregations *prometheus.CounterVec

	AggregateLatency prometheus.Histogram

	// Expanded rows and work entries currently loaded.
	LoadedRows    prometheus.Gauge
	LoadedEntries prometheus.Gauge

	Requests *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Aggregations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "reviewdash_aggregations_total",
			Help: "Aggregate bundle lookups by cache result",
		}, []string{"cache"}),

		AggregateLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "reviewdash_aggregate_duration_seconds",
			Help:    "Duration of computing one year's aggregate bundle",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),

		LoadedRows: factory.NewGauge(prometheus.GaugeOpts{
			Name: "reviewdash_dataset_rows",
			Help: "Jurisdiction-expanded rows in the loaded dataset",
		}),

		LoadedEntries: factory.NewGauge(prometheus.GaugeOpts{
			Name: "reviewdash_dataset_entries",
			Help: "Work entries in the loaded dataset",
		}),

		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "reviewdash_http_requests_total",
			Help: "HTTP requests by route pattern and status code",
		}, []string{"route", "code"}),
	}
}

// Registry exposes the private registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) SetDataset(entries, rows int) {
	if m != nil {
		m.LoadedEntries.Set(float64(entries))
		m.LoadedRows.Set(float64(rows))
	}
}

func (m *Metrics) IncrementAggregation(hit bool) {
	if m == nil {
		return
	}
	label := "miss"
	if hit {
		label = "hit"
	}
	m.Aggregations.WithLabelValues(label).Inc()
}

func (m *Metrics) ObserveAggregateLatency(d time.Duration) {
	if m != nil {
		m.AggregateLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementRequest(route string, status int) {
	if m != nil {
		m.Requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	}
}
