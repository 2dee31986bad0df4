// Package metrics provides the centralized Prometheus metrics registry for
// the offline cache gateway. All metrics are defined in their respective
// packages (gateway, store, health) to maintain modularity and avoid
// circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the gateway.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/gateway):
//   - offcache_fetches_total{strategy, outcome} (Counter): Admitted requests by
//     strategy ("network_first", "cache_first") and outcome ("network", "cache",
//     "offline_page", "synthesized")
//   - offcache_fetch_duration_seconds{strategy} (Histogram): Request handling duration
//   - offcache_passthrough_total (Counter): Requests declined by the admission filter
//   - offcache_precache_failures_total (Counter): Manifest entries that failed at install
//   - offcache_recovered_panics_total (Counter): Panics recovered at the dispatch boundary
//
// Store Metrics (pkg/store):
//   - offcache_store_hits_total{layer="redis"} (Counter): Store hits by layer
//   - offcache_store_misses_total (Counter): Store misses
//   - offcache_store_size_bytes{layer="redis"} (Gauge): Bytes written to the store
//   - offcache_store_errors_total{operation} (Counter): Store operation errors
//   - offcache_versions_dropped_total (Counter): Cache generations dropped at activation
//
// Origin Health Metrics (pkg/health):
//   - offcache_origin_consecutive_failures (Gauge): Current failure run length
//   - offcache_origin_failures_total (Counter): Failed network fetches
//   - offcache_origin_recoveries_total (Counter): Recoveries after a failure run
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate (assets)
//   sum(rate(offcache_fetches_total{strategy="cache_first",outcome="cache"}[5m])) /
//   sum(rate(offcache_fetches_total{strategy="cache_first"}[5m]))
//
//   # Offline Fallback Rate (documents)
//   sum(rate(offcache_fetches_total{strategy="network_first",outcome!="network"}[5m]))
//
//   # Origin Reachability
//   offcache_origin_consecutive_failures > 3
//
//   # P95 Handling Latency
//   histogram_quantile(0.95, rate(offcache_fetch_duration_seconds_bucket[5m]))
