// Package metrics defines the Prometheus collectors used by the search
// service and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bm25"

// Metrics holds all Prometheus collectors for the service.
type Metrics struct {
	// HTTP surface. Label names follow promhttp so the instrumentation
	// helpers can drive them directly.
	HTTPRequestsTotal    *prometheus.CounterVec   // method, path, code
	HTTPRequestDuration  *prometheus.HistogramVec // method, path
	HTTPRequestsInFlight prometheus.Gauge

	SearchQueriesTotal *prometheus.CounterVec   // result_type
	SearchLatency      *prometheus.HistogramVec // cache_status
	SearchMatchedDocs  prometheus.Histogram
	QueryTermsCount    prometheus.Histogram

	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter

	IndexedDocuments  prometheus.Gauge
	IndexedTerms      prometheus.Gauge
	IndexBuildSeconds prometheus.Gauge

	gatherer prometheus.Gatherer
}

// New registers every collector with reg. A nil reg uses a fresh private
// registry so tests and multiple engines in one process never collide on the
// global default.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "path", "code"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "path"}),
		HTTPRequestsInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "HTTP requests currently being served.",
		}),

		SearchQueriesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_queries_total",
			Help:      "Search queries by outcome (match, zero_result, invalid, error).",
		}, []string{"result_type"}),
		SearchLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_latency_seconds",
			Help:      "Search latency by cache outcome (hit, miss, disabled).",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"cache_status"}),
		SearchMatchedDocs: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_matched_documents",
			Help:      "Documents with a non-zero score per query.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 500, 1000},
		}),
		QueryTermsCount: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_terms",
			Help:      "Distinct normalised terms per query.",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21},
		}),

		CacheHitsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Result cache hits.",
		}),
		CacheMissesTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Result cache misses, including store errors.",
		}),

		IndexedDocuments: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "indexed_documents",
			Help:      "Documents in the served corpus.",
		}),
		IndexedTerms: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "indexed_terms",
			Help:      "Distinct terms in the served corpus.",
		}),
		IndexBuildSeconds: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "index_build_seconds",
			Help:      "Wall time spent building the corpus index.",
		}),

		gatherer: reg,
	}
}

// RegisterRuntime adds the Go runtime and process collectors to reg.
func RegisterRuntime(reg prometheus.Registerer) {
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler returns the scrape handler for the registry m was built with.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
