package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	ScrapesTotal    *prometheus.CounterVec
	ScrapeDuration  *prometheus.HistogramVec
	ProductsScraped *prometheus.CounterVec
	CacheEvents     *prometheus.CounterVec
	AIRequests      *prometheus.CounterVec
	SearchesTotal   prometheus.Counter
	SearchDuration  prometheus.Histogram
}

// NewMetrics registers the metric families on the default registerer.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith registers on a caller-supplied registerer; tests pass a
// fresh registry to avoid duplicate-registration panics.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ScrapesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "merchfinder_scrapes_total",
			Help: "Per-target scrape attempts by outcome",
		}, []string{"target", "status"}), // status: 'success', 'failed'
		ScrapeDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "merchfinder_scrape_duration_seconds",
			Help:    "Wall time of one target's retry-wrapped fetch",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		}, []string{"target"}),
		ProductsScraped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "merchfinder_products_scraped_total",
			Help: "Products extracted per target",
		}, []string{"target"}),
		CacheEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "merchfinder_cache_events_total",
			Help: "Result cache hits and misses",
		}, []string{"event"}), // 'hit', 'miss'
		AIRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "merchfinder_ai_requests_total",
			Help: "Collaborator calls by kind and outcome",
		}, []string{"kind", "status"}), // kind: 'intent', 'extract', 'summary'
		SearchesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "merchfinder_searches_total",
			Help: "Search requests served",
		}),
		SearchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "merchfinder_search_duration_seconds",
			Help:    "End-to-end search latency",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 8),
		}),
	}
}

func (m *Metrics) ObserveScrape(target string, d time.Duration, success bool) {
	status := "success"
	if !success {
		status = "failed"
	}
	m.ScrapesTotal.WithLabelValues(target, status).Inc()
	m.ScrapeDuration.WithLabelValues(target).Observe(d.Seconds())
}

func (m *Metrics) AddProducts(target string, n int) {
	m.ProductsScraped.WithLabelValues(target).Add(float64(n))
}

func (m *Metrics) IncCacheEvent(event string) {
	m.CacheEvents.WithLabelValues(event).Inc()
}

// AIObserver returns a callback that files collaborator call outcomes under
// kind, shaped for ai.Instrument.
func (m *Metrics) AIObserver(kind string) func(err error) {
	return func(err error) {
		status := "success"
		if err != nil {
			status = "failed"
		}
		m.AIRequests.WithLabelValues(kind, status).Inc()
	}
}
