// Package metrics registers the Prometheus metrics used by the pokedex
// service. All metrics are registered on the default registry via promauto,
// so importing this package is enough before mounting the /metrics handler.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Cache lookup outcomes used as the "outcome" label of CacheLookups.
const (
	OutcomeHit   = "hit"
	OutcomeJoin  = "join"
	OutcomeMiss  = "miss"
	OutcomeStale = "stale"
)

var (
	// CacheLookups counts cache lookups by outcome: "hit" (fresh record),
	// "join" (attached to an in-flight fetch), "miss" (absent) and "stale"
	// (record present but past its freshness window).
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokedex_cache_lookups_total",
			Help: "Total cache lookups by outcome.",
		},
		[]string{"outcome"},
	)

	// CacheRecords tracks the number of stored records. The cache has no
	// size eviction, so this only grows until a clear.
	CacheRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pokedex_cache_records",
			Help: "Number of response records held by the cache.",
		},
	)

	// CacheInFlight tracks the number of upstream fetches currently running.
	CacheInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pokedex_cache_inflight",
			Help: "Number of upstream fetches currently in flight.",
		},
	)

	// CacheClears counts whole-cache clears.
	CacheClears = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pokedex_cache_clears_total",
			Help: "Total number of whole-cache clears.",
		},
	)

	// UpstreamRequests counts requests sent to the upstream API labelled by
	// HTTP status code, or "transport_error" when no response was received.
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokedex_upstream_requests_total",
			Help: "Total upstream API requests by status.",
		},
		[]string{"status"},
	)

	// UpstreamDuration observes upstream request latency in seconds.
	UpstreamDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pokedex_upstream_request_duration_seconds",
			Help:    "Upstream API request duration in seconds.",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	// RateLimitRejections counts requests rejected by rate limiting, labelled
	// by key_type ("ip").
	RateLimitRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokedex_rate_limit_rejections_total",
			Help: "Total requests rejected by rate limiting.",
		},
		[]string{"key_type"},
	)
)

// Handler returns the HTTP handler serving the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
