package observability

import (
	"time"

	"github.com/justinsenglish/crave.services/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	reportsTotal    *prometheus.CounterVec
	pagesFetched    prometheus.Counter
	ordersFetched   prometheus.Counter
	platformErrors  *prometheus.CounterVec
	externalErrors  *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "royalties_operation_duration_seconds",
				Help:    "Duration of engine operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		reportsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "royalties_reports_total",
				Help: "Sales reports produced, by outcome.",
			},
			[]string{"status"},
		),
		pagesFetched: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "royalties_order_pages_fetched_total",
				Help: "Order search pages fetched from Square.",
			},
		),
		ordersFetched: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "royalties_orders_fetched_total",
				Help: "Orders fetched from Square.",
			},
		),
		platformErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "royalties_platform_errors_total",
				Help: "Errors reported inline by Square alongside data.",
			},
			[]string{"category"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "royalties_external_errors_total",
				Help: "Total errors from external services.",
			},
			[]string{"service"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "royalties_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "royalties_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrReport increments the report counter with a status label.
func (m *Metrics) IncrReport(status string) {
	m.reportsTotal.WithLabelValues(status).Inc()
}

// AddPage records one fetched page and the orders it carried.
func (m *Metrics) AddPage(orders int) {
	m.pagesFetched.Inc()
	m.ordersFetched.Add(float64(orders))
}

// IncrPlatformError counts an inline Square error.
func (m *Metrics) IncrPlatformError(category string) {
	m.platformErrors.WithLabelValues(category).Inc()
}

// IncrExternalError increments the external error counter.
func (m *Metrics) IncrExternalError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// GetReportSnapshot returns cumulative report metrics for GET /v1/metrics/reports.
func (m *Metrics) GetReportSnapshot() *domain.ReportMetrics {
	success := metricValue(m.reportsTotal.WithLabelValues("success"))
	failed := metricValue(m.reportsTotal.WithLabelValues("error"))
	hits := metricValue(m.cacheHits.WithLabelValues("locations"))
	misses := metricValue(m.cacheMisses.WithLabelValues("locations"))

	total := success + failed
	errorRate := float64(0)
	if total > 0 {
		errorRate = failed / total
	}
	cacheHitRate := float64(0)
	if hits+misses > 0 {
		cacheHitRate = hits / (hits + misses)
	}

	return &domain.ReportMetrics{
		TotalReports:   int64(total),
		FailedReports:  int64(failed),
		ErrorRate:      errorRate,
		PagesFetched:   int64(metricValue(m.pagesFetched)),
		PlatformErrors: int64(sumCounterVec(m.platformErrors)),
		CacheHitRate:   cacheHitRate,
		Period:         "all_time",
	}
}

// metricValue reads the current value of a single counter.
func metricValue(c prometheus.Metric) float64 {
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}

// sumCounterVec adds up every label combination of a CounterVec.
func sumCounterVec(cv *prometheus.CounterVec) float64 {
	ch := make(chan prometheus.Metric, 16)
	go func() {
		cv.Collect(ch)
		close(ch)
	}()

	var total float64
	for metric := range ch {
		total += metricValue(metric)
	}
	return total
}
