// Package metrics is the reference point for the lazy list Prometheus metrics.
// Metrics are defined with promauto in the packages that record them
// (pagination, source, cache, internal/server) so that no package depends on
// this one; this package exposes the registry and the scrape handler.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the registerer every lazylist_* metric is registered with.
var Registry = prometheus.DefaultRegisterer

// Gatherer is the gatherer served by Handler.
var Gatherer = prometheus.DefaultGatherer

// Namespace prefixes every metric name.
const Namespace = "lazylist"

// Handler returns the /metrics scrape handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Metrics Documentation
//
// Loader Metrics (pkg/pagination):
//   - lazylist_page_fetches_total{source, result} (Counter): settled fetches, result ok|empty|error
//   - lazylist_page_fetch_duration_seconds{source} (Histogram): time until a fetch settles
//   - lazylist_records_loaded_total{source} (Counter): records merged into lists
//   - lazylist_rejected_requests_total{source, reason} (Counter): guard rejections,
//     reason in_flight|no_more_pages|disposed
//
// Source Metrics (pkg/source):
//   - lazylist_source_requests_total{object, status} (Counter): HTTP requests to the record service
//   - lazylist_source_request_duration_seconds{object} (Histogram): request duration
//   - lazylist_source_errors_total{class} (Counter): errors by class (client, server, network, decode)
//   - lazylist_source_retries_total{error_class} (Counter): retry attempts
//   - lazylist_source_retry_backoff_seconds{error_class} (Histogram): backoff waits
//   - lazylist_source_retry_exhausted_total{error_class} (Counter): requests out of retries
//
// Cache Metrics (pkg/cache):
//   - lazylist_cache_hits_total{object} (Counter): page cache hits
//   - lazylist_cache_misses_total{object} (Counter): page cache misses
//   - lazylist_cache_stored_bytes (Counter): bytes written to Redis
//   - lazylist_cache_errors_total{operation} (Counter): get|set|delete|invalidate errors
//
// Server Metrics (internal/server):
//   - lazylist_http_requests_total{route, status} (Counter): requests served
//   - lazylist_http_request_duration_seconds{route} (Histogram): serve duration
//
// Example Prometheus Queries:
//
//   # Page fetch error rate
//   sum(rate(lazylist_page_fetches_total{result="error"}[5m])) /
//   sum(rate(lazylist_page_fetches_total[5m]))
//
//   # Scroll events arriving while a page is in flight
//   rate(lazylist_rejected_requests_total{reason="in_flight"}[5m])
//
//   # Cache Hit Rate
//   sum(rate(lazylist_cache_hits_total[5m])) /
//   (sum(rate(lazylist_cache_hits_total[5m])) + sum(rate(lazylist_cache_misses_total[5m])))
//
//   # P95 page latency
//   histogram_quantile(0.95, rate(lazylist_page_fetch_duration_seconds_bucket[5m]))
