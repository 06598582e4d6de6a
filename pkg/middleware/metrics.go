// Package middleware provides the HTTP middleware chain of the search
// service: request IDs, Prometheus metrics and request timeouts.
package middleware

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Adithya-Monish-Kumar-K/bm25-relevance/pkg/metrics"
)

// knownPaths bounds the path label to the routes the service serves.
var knownPaths = []string{
	"/api/v1/search",
	"/api/v1/index/stats",
	"/api/v1/cache/stats",
	"/api/v1/cache/invalidate",
	"/health/live",
	"/health/ready",
}

const otherPath = "other"

// Metrics records request count, latency and in-flight requests. Each route
// gets its own instrumented handler with the path label curried in; unrouted
// paths share the "other" label.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		byPath := make(map[string]http.Handler, len(knownPaths))
		for _, p := range knownPaths {
			byPath[p] = instrument(m, p, next)
		}
		other := instrument(m, otherPath, next)

		return promhttp.InstrumentHandlerInFlight(m.HTTPRequestsInFlight,
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if h, ok := byPath[r.URL.Path]; ok {
					h.ServeHTTP(w, r)
					return
				}
				other.ServeHTTP(w, r)
			}))
	}
}

func instrument(m *metrics.Metrics, path string, next http.Handler) http.Handler {
	labels := prometheus.Labels{"path": path}
	return promhttp.InstrumentHandlerCounter(
		m.HTTPRequestsTotal.MustCurryWith(labels),
		promhttp.InstrumentHandlerDuration(
			m.HTTPRequestDuration.MustCurryWith(labels),
			next,
		),
	)
}
