// Package metrics holds the Prometheus collectors exposed at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vault_http_requests_total",
			Help: "HTTP requests served, by route pattern and status code",
		},
		[]string{"route", "code"},
	)

	// Upstream metrics
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vault_upstream_requests_total",
			Help: "Calls to the content store and markdown sources",
		},
		[]string{"operation", "outcome"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vault_upstream_request_seconds",
			Help:    "Latency of upstream calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// Renderer metrics
	RenderedBlocks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vault_rendered_blocks_total",
			Help: "Blocks rendered into previews, by kind",
		},
		[]string{"kind"},
	)

	// Cache metrics
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vault_cache_lookups_total",
			Help: "Read cache lookups",
		},
		[]string{"cache", "result"},
	)
)

// Outcome labels.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// ObserveUpstream records one upstream call.
func ObserveUpstream(operation string, seconds float64, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	UpstreamRequests.WithLabelValues(operation, outcome).Inc()
	UpstreamDuration.WithLabelValues(operation).Observe(seconds)
}

// CacheResult records a cache hit or miss.
func CacheResult(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookups.WithLabelValues(cache, result).Inc()
}
