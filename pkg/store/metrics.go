package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StoreHits tracks store hits by layer (redis)
	StoreHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "offcache_store_hits_total",
			Help: "Total number of offline cache store hits",
		},
		[]string{"layer"}, // "redis"
	)

	// StoreMisses tracks store misses
	StoreMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "offcache_store_misses_total",
			Help: "Total number of offline cache store misses",
		},
	)

	// StoreSize tracks bytes written to the store by layer
	StoreSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "offcache_store_size_bytes",
			Help: "Bytes written to the offline cache store",
		},
		[]string{"layer"}, // "redis"
	)

	// StoreErrors tracks store operation errors
	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "offcache_store_errors_total",
			Help: "Total number of store operation errors",
		},
		[]string{"operation"}, // "get", "put", "delete", "versions", "drop"
	)

	// VersionsDropped tracks cache generations deleted at rotation
	VersionsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "offcache_versions_dropped_total",
			Help: "Total number of cache versions dropped during activation",
		},
	)
)
