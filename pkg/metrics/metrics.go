// Package metrics provides the Prometheus registry used by the favorites
// duration tool. Metrics are defined in their owning packages (client,
// pagination, cache) and registered via promauto.
//
// This package provides the registry reference and the metric catalogue.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the default Prometheus registry.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Gatherer is the gatherer paired with Registry.
var Gatherer = prometheus.DefaultGatherer

// Handler returns the HTTP handler that exposes all registered metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - favlist_requests_total{outcome} (Counter): Page requests by outcome (ok or error kind)
//   - favlist_request_duration_seconds (Histogram): Page request duration
//   - favlist_errors_total{kind} (Counter): Fetch errors by kind (network, malformed_response, api, invalid_structure)
//
// Aggregation Metrics (pkg/pagination):
//   - favlist_runs_total{outcome} (Counter): Aggregation runs by outcome (ok, error)
//   - favlist_pages_fetched_total (Counter): Pages consumed by aggregation runs
//   - favlist_page_cap_reached_total (Counter): Runs truncated by the page cap
//
// Cache Metrics (pkg/cache):
//   - favlist_cache_hits_total (Counter): Page cache hits
//   - favlist_cache_misses_total (Counter): Page cache misses
//   - favlist_cache_size_bytes (Counter): Bytes written to the page cache
//   - favlist_cache_errors_total{operation} (Counter): Cache operation errors
//
// Example Prometheus Queries:
//
//   # Failed run ratio
//   sum(rate(favlist_runs_total{outcome="error"}[5m])) / sum(rate(favlist_runs_total[5m]))
//
//   # Errors by kind
//   sum by (kind) (rate(favlist_errors_total[5m]))
//
//   # P95 page latency
//   histogram_quantile(0.95, rate(favlist_request_duration_seconds_bucket[5m]))
//
//   # Truncated runs
//   increase(favlist_page_cap_reached_total[1h])
