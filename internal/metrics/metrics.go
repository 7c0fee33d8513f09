package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   prometheus.CounterVec
	HTTPRequestDuration prometheus.HistogramVec

	// Recommendation metrics
	RecommendationRequests prometheus.CounterVec
	RecommendationDuration prometheus.HistogramVec
	RecommendationFallback prometheus.CounterVec
	RecommendationsServed  prometheus.CounterVec

	// External metadata provider metrics
	MetadataLookupsTotal   prometheus.CounterVec
	MetadataLookupFailures prometheus.CounterVec

	// Cache metrics
	CacheHitsTotal   prometheus.CounterVec
	CacheMissesTotal prometheus.CounterVec

	// Error metrics
	ErrorsTotal prometheus.CounterVec
}

var (
	instance *Metrics
	once     sync.Once
)

// Initialize creates and registers all Prometheus metrics
func Initialize() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			HTTPRequestsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "http_requests_total",
					Help: "Total number of HTTP requests",
				},
				[]string{"method", "path", "status"},
			),
			HTTPRequestDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_request_duration_seconds",
					Help:    "HTTP request latency in seconds",
					Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
				},
				[]string{"method", "path", "status"},
			),

			RecommendationRequests: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "recommendation_requests_total",
					Help: "Total number of recommendation requests",
				},
				[]string{"popularity_mode"},
			),
			RecommendationDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "recommendation_duration_seconds",
					Help:    "Time to compute one ranked list in seconds",
					Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
				},
				[]string{"mode"},
			),
			RecommendationFallback: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "recommendation_fallbacks_total",
					Help: "Requests served preference-only after a history error",
				},
				[]string{"reason"},
			),
			RecommendationsServed: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "recommendations_served_total",
					Help: "Total number of ranked movies returned",
				},
				[]string{"mode"},
			),

			MetadataLookupsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "metadata_lookups_total",
					Help: "Total number of external metadata lookups",
				},
				[]string{"kind"},
			),
			MetadataLookupFailures: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "metadata_lookup_failures_total",
					Help: "External metadata lookups that failed or timed out",
				},
				[]string{"kind"},
			),

			CacheHitsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cache_hits_total",
					Help: "Total number of cache hits",
				},
				[]string{"cache_name"},
			),
			CacheMissesTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cache_misses_total",
					Help: "Total number of cache misses",
				},
				[]string{"cache_name"},
			),

			ErrorsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "errors_total",
					Help: "Total number of errors by type",
				},
				[]string{"error_type", "endpoint"},
			),
		}
	})
	return instance
}

// Get returns the global metrics instance
func Get() *Metrics {
	if instance == nil {
		return Initialize()
	}
	return instance
}
