package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Booking metrics
	BookingsCreated   prometheus.Counter
	BookingsSettled   prometheus.Counter
	BookingsCancelled prometheus.Counter
	BookingPrice      prometheus.Histogram

	// Ledger metrics
	LedgerEntriesCreated *prometheus.CounterVec
	PaymentsCredited     prometheus.Counter
	PaymentAmount        prometheus.Histogram

	// Clock metrics
	ClockEvents *prometheus.CounterVec

	// Reconciliation metrics
	ReconciliationRuns       prometheus.Counter
	ReconciliationMismatches prometheus.Counter

	// Outbox metrics
	OutboxPublished     prometheus.Counter
	OutboxPublishErrors prometheus.Counter

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec

	// Database metrics
	DBConnections prometheus.Gauge
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Booking metrics
		BookingsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kosherbill_bookings_created_total",
			Help: "Total number of bookings created",
		}),
		BookingsSettled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kosherbill_bookings_settled_total",
			Help: "Total number of bookings settled",
		}),
		BookingsCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kosherbill_bookings_cancelled_total",
			Help: "Total number of bookings cancelled",
		}),
		BookingPrice: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "kosherbill_booking_price_credits",
			Help:    "Booking prices in credits",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000},
		}),

		// Ledger metrics
		LedgerEntriesCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kosherbill_ledger_entries_total",
				Help: "Total ledger entries created by status",
			},
			[]string{"status"},
		),
		PaymentsCredited: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kosherbill_payments_credited_total",
			Help: "Total number of payments credited",
		}),
		PaymentAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "kosherbill_payment_amount_credits",
			Help:    "Credited payment amounts in credits",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000},
		}),

		// Clock metrics
		ClockEvents: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kosherbill_clock_events_total",
				Help: "Total clock events by kind",
			},
			[]string{"kind"},
		),

		// Reconciliation metrics
		ReconciliationRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kosherbill_reconciliation_runs_total",
			Help: "Total reconciliation checks performed",
		}),
		ReconciliationMismatches: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kosherbill_reconciliation_mismatches_total",
			Help: "Total reconciliation mismatches detected",
		}),

		// Outbox metrics
		OutboxPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kosherbill_outbox_published_total",
			Help: "Total outbox events published",
		}),
		OutboxPublishErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kosherbill_outbox_publish_errors_total",
			Help: "Total outbox publish failures",
		}),

		// Authentication metrics
		AuthAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kosherbill_auth_attempts_total",
				Help: "Total authentication attempts by status",
			},
			[]string{"status"},
		),

		// Database metrics
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "kosherbill_db_connections",
			Help: "Current number of database connections",
		}),
	}
}
