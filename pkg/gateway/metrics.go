package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for gateway request handling.
var (
	fetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "offcache_fetches_total",
		Help: "Total admitted requests by strategy and outcome",
	}, []string{"strategy", "outcome"}) // outcome: "network", "cache", "offline_page", "synthesized"

	fetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "offcache_fetch_duration_seconds",
		Help:    "Request handling duration in seconds by strategy",
		Buckets: []float64{0.005, 0.025, 0.1, 0.5, 1, 2, 5, 10},
	}, []string{"strategy"})

	passthroughTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "offcache_passthrough_total",
		Help: "Total requests declined by the admission filter",
	})

	precacheFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "offcache_precache_failures_total",
		Help: "Total manifest entries that failed to precache at install",
	})

	recoveredPanics = promauto.NewCounter(prometheus.CounterOpts{
		Name: "offcache_recovered_panics_total",
		Help: "Total panics recovered at the dispatch boundary",
	})
)
