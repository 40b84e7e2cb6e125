// Package observability wires Prometheus metrics and OpenTelemetry tracing.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name
const Namespace = "sfb"

// Metrics holds the service collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	PackagesGenerated  *prometheus.CounterVec
	ComputeDuration    *prometheus.HistogramVec
	DataPoints         prometheus.Histogram
	RecordsDropped     prometheus.Counter
	OutliersDetected   prometheus.Counter
	RateLimited        prometheus.Counter
	EventsPublished    *prometheus.CounterVec
}

// NewMetrics creates collectors on a fresh registry that also carries the
// Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		PackagesGenerated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: prometheus.BuildFQName(Namespace, "package", "generated_total"),
			Help: "Statistical package requests by mode and result code",
		}, []string{"mode", "code"}),
		ComputeDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    prometheus.BuildFQName(Namespace, "package", "compute_duration_seconds"),
			Help:    "Duration of statistical package computation in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"mode"}),
		DataPoints: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    prometheus.BuildFQName(Namespace, "package", "data_points"),
			Help:    "Number of values analyzed per dataset",
			Buckets: prometheus.ExponentialBuckets(3, 4, 10),
		}),
		RecordsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: prometheus.BuildFQName(Namespace, "extract", "records_dropped_total"),
			Help: "Records skipped during extraction because their value was missing or not numeric",
		}),
		OutliersDetected: factory.NewCounter(prometheus.CounterOpts{
			Name: prometheus.BuildFQName(Namespace, "package", "outliers_total"),
			Help: "Outliers reported across all packages",
		}),
		RateLimited: factory.NewCounter(prometheus.CounterOpts{
			Name: prometheus.BuildFQName(Namespace, "http", "rate_limited_total"),
			Help: "Requests rejected by the rate limiter",
		}),
		EventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: prometheus.BuildFQName(Namespace, "events", "published_total"),
			Help: "Package events published by result",
		}, []string{"result"}),
	}
}

// Registry returns the registry the collectors live on
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveGeneration records the outcome of one generate call
func (m *Metrics) ObserveGeneration(mode, code string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.PackagesGenerated.WithLabelValues(mode, code).Inc()
	m.ComputeDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
}

// ObserveDataset records per-dataset extraction and outlier counts
func (m *Metrics) ObserveDataset(values, dropped, outliers int) {
	if m == nil {
		return
	}
	m.DataPoints.Observe(float64(values))
	m.RecordsDropped.Add(float64(dropped))
	m.OutliersDetected.Add(float64(outliers))
}

// IncRateLimited counts a rejected request
func (m *Metrics) IncRateLimited() {
	if m == nil {
		return
	}
	m.RateLimited.Inc()
}

// IncEvent counts a publish attempt by result ("ok" or "error")
func (m *Metrics) IncEvent(result string) {
	if m == nil {
		return
	}
	m.EventsPublished.WithLabelValues(result).Inc()
}
