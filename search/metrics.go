package search

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the search client.
type Metrics struct {
	Registry        *prometheus.Registry
	RequestsTotal   *prometheus.CounterVec
	RequestDuration prometheus.Histogram
	ItemsFoundTotal prometheus.Counter
	CacheHitsTotal  prometheus.Counter
	ErrorsTotal     *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalogue_requests_total",
			Help: "Total HTTP requests issued to the catalogue.",
		},
		[]string{"page"},
	)
	requestDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalogue_request_duration_seconds",
			Help:    "HTTP request latency for catalogue requests.",
			Buckets: prometheus.DefBuckets,
		},
	)
	itemsFound := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalogue_items_found_total",
			Help: "Total number of search result items extracted.",
		},
	)
	cacheHits := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalogue_page_cache_hits_total",
			Help: "Total number of page fetches served from the cache.",
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalogue_fetch_errors_total",
			Help: "Total number of fetch errors by type.",
		},
		[]string{"error_type"},
	)

	registry.MustRegister(requests, requestDuration, itemsFound, cacheHits, errorsTotal)

	return &Metrics{
		Registry:        registry,
		RequestsTotal:   requests,
		RequestDuration: requestDuration,
		ItemsFoundTotal: itemsFound,
		CacheHitsTotal:  cacheHits,
		ErrorsTotal:     errorsTotal,
	}
}

// IncRequest increments the requests counter for a page kind.
func (m *Metrics) IncRequest(page string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(page).Inc()
}

// ObserveDuration records an HTTP request duration.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.Observe(d.Seconds())
}

// IncItems adds extracted items to the items counter.
func (m *Metrics) IncItems(n int) {
	if m == nil {
		return
	}
	m.ItemsFoundTotal.Add(float64(n))
}

// IncCacheHit increments the page cache hit counter.
func (m *Metrics) IncCacheHit() {
	if m == nil {
		return
	}
	m.CacheHitsTotal.Inc()
}

// IncError increments the errors counter for a type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}
