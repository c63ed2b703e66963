package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics Prometheus collectors for the booking service
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration *prometheus.HistogramVec

	BookingsTotal *prometheus.CounterVec
	ActiveHolds   prometheus.Gauge
	HoldsExpired  prometheus.Counter
	HoldRetries   prometheus.Counter

	CatalogRebuilds prometheus.Counter
	SearchDuration  prometheus.Histogram
}

// New registers and returns the service metrics.
// serviceName is attached as a constant label to every collector.
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),

		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),

		BookingsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "bookings_total",
			Help:        "Booking attempts by outcome",
			ConstLabels: constLabels,
		}, []string{"outcome"}),

		ActiveHolds: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "booking_active_holds",
			Help:        "Number of seats currently held",
			ConstLabels: constLabels,
		}),

		HoldsExpired: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "booking_holds_expired_total",
			Help:        "Holds released by the expiry sweeper",
			ConstLabels: constLabels,
		}),

		HoldRetries: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "booking_hold_retries_total",
			Help:        "Optimistic concurrency retries during hold acquisition",
			ConstLabels: constLabels,
		}),

		CatalogRebuilds: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "catalog_rebuilds_total",
			Help:        "Catalog index entry rebuilds",
			ConstLabels: constLabels,
		}),

		SearchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:        "catalog_search_duration_seconds",
			Help:        "Catalog search latency",
			ConstLabels: constLabels,
			Buckets:     []float64{.0005, .001, .005, .01, .05, .1, .5},
		}),
	}
}

// ObserveDBQuery records a database query duration
func (m *Metrics) ObserveDBQuery(operation string, started time.Time) {
	m.DBQueryDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

// IncBookingOutcome counts one booking attempt by outcome
// (held, confirmed, sold_out, contention, expired, cancelled, error)
func (m *Metrics) IncBookingOutcome(outcome string) {
	m.BookingsTotal.WithLabelValues(outcome).Inc()
}

// IncHoldRetry counts one optimistic-concurrency retry
func (m *Metrics) IncHoldRetry() {
	m.HoldRetries.Inc()
}

// AddActiveHolds moves the active-holds gauge by delta seats
func (m *Metrics) AddActiveHolds(delta int) {
	m.ActiveHolds.Add(float64(delta))
}

// IncHoldsExpired counts holds released after missing their deadline
func (m *Metrics) IncHoldsExpired(n int) {
	m.HoldsExpired.Add(float64(n))
}

// IncCatalogRebuild counts one catalog entry rebuild
func (m *Metrics) IncCatalogRebuild() {
	m.CatalogRebuilds.Inc()
}

// ObserveSearch records a catalog search duration
func (m *Metrics) ObserveSearch(started time.Time) {
	m.SearchDuration.Observe(time.Since(started).Seconds())
}
