// Package metrics holds the Prometheus instrumentation of the service.
// Collectors register on the default registry and are exposed on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "eventreport"

var (
	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "route"},
	)

	// Scraper
	ScraperRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scraper_requests_total",
			Help:      "Total number of requests sent to Eventernote",
		},
		[]string{"endpoint", "outcome"}, // outcome: ok, not_found, error, breaker_open
	)

	ScraperRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scraper_request_duration_seconds",
			Help:      "Duration of requests sent to Eventernote in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	ScraperBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scraper_breaker_state",
			Help:      "Scraper circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
	)

	// Cache
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Total number of cache hits",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Total number of cache misses",
		},
		[]string{"cache"},
	)

	CacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cache_entries",
			Help:      "Current number of cache entries",
		},
		[]string{"cache"},
	)

	// Analytics
	AnalyticsDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analytics_computation_duration_seconds",
			Help:      "Time spent computing analytics in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"kind"}, // comprehensive, chart, artists, venues
	)

	AnalyticsEventsProcessed = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analytics_events_processed",
			Help:      "Number of events per analytics computation",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
	)
)

// RecordHTTPRequest records one served HTTP request
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordScrape records one request to Eventernote
func RecordScrape(endpoint, outcome string, duration time.Duration) {
	ScraperRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	ScraperRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// SetBreakerState publishes the circuit breaker state
func SetBreakerState(state int) {
	ScraperBreakerState.Set(float64(state))
}

// RecordCacheHit increments the hit counter of the named cache
func RecordCacheHit(cache string) {
	CacheHits.WithLabelValues(cache).Inc()
}

// RecordCacheMiss increments the miss counter of the named cache
func RecordCacheMiss(cache string) {
	CacheMisses.WithLabelValues(cache).Inc()
}

// SetCacheEntries publishes the size of the named cache
func SetCacheEntries(cache string, n int) {
	CacheEntries.WithLabelValues(cache).Set(float64(n))
}

// RecordAnalytics records one analytics computation over events
func RecordAnalytics(kind string, events int, duration time.Duration) {
	AnalyticsDuration.WithLabelValues(kind).Observe(duration.Seconds())
	AnalyticsEventsProcessed.Observe(float64(events))
}
