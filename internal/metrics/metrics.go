// Package metrics exposes Prometheus instrumentation for the dashboard
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/chrissnell/airquality/internal/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "airquality"

// Metrics holds every collector registered by the dashboard
type Metrics struct {
	registry *prometheus.Registry

	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	chartFailures *prometheus.CounterVec
	reloads       *prometheus.CounterVec
	rows          prometheus.Gauge
	files         prometheus.Gauge
	loadedAt      prometheus.Gauge
}

// New creates the collectors on a private registry along with the standard
// Go and process collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		chartFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chart_failures_total",
			Help:      "Dashboard sections that failed to render, by chart.",
		}, []string{"chart"}),
		reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "data_reloads_total",
			Help:      "Data directory loads by result.",
		}, []string{"result"}),
		rows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "table_rows",
			Help:      "Rows in the loaded table.",
		}),
		files: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "table_files",
			Help:      "Files concatenated into the loaded table.",
		}),
		loadedAt: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "table_loaded_timestamp_seconds",
			Help:      "Unix time the current table was loaded.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.duration,
		m.chartFailures,
		m.reloads,
		m.rows,
		m.files,
		m.loadedAt,
	)
	return m
}

// Registry returns the registry the collectors are registered on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one served HTTP request
func (m *Metrics) ObserveRequest(route string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// ChartFailed counts a section that could not be rendered. Its signature
// matches charts.FailureFunc.
func (m *Metrics) ChartFailed(chartID string, _ error) {
	m.chartFailures.WithLabelValues(chartID).Inc()
}

// TableLoaded records the outcome of a data load. Its signature matches
// dataset.ReloadObserver.
func (m *Metrics) TableLoaded(t *types.Table, err error) {
	if err != nil {
		m.reloads.WithLabelValues("error").Inc()
		return
	}
	m.reloads.WithLabelValues("success").Inc()
	m.rows.Set(float64(t.Len()))
	m.files.Set(float64(len(t.Files)))
	m.loadedAt.Set(float64(t.LoadedAt.Unix()))
}
