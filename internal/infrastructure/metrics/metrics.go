package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Spend metrics
	EntriesCreated       prometheus.Counter
	DebitAmounts         prometheus.Histogram
	InsufficientAttempts prometheus.Counter
	RateFetchFailures    prometheus.Counter

	// Wallet metrics
	WalletsCreated prometheus.Counter
	WalletsDeleted prometheus.Counter

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec

	// Database metrics
	DBConnections prometheus.Gauge
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		EntriesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gobudget_entries_created_total",
			Help: "Total number of budget entries recorded",
		}),
		DebitAmounts: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "gobudget_debit_amount",
			Help:    "Wallet-currency debit amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		InsufficientAttempts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gobudget_insufficient_funds_total",
			Help: "Total number of spends rejected for insufficient funds",
		}),
		RateFetchFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gobudget_rate_fetch_failures_total",
			Help: "Total number of failed exchange rate fetches",
		}),

		WalletsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gobudget_wallets_created_total",
			Help: "Total number of wallets created",
		}),
		WalletsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gobudget_wallets_deleted_total",
			Help: "Total number of wallets deleted",
		}),

		AuthAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobudget_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"status"},
		),

		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "gobudget_db_connections",
			Help: "Current number of database connections",
		}),
	}
}

// EntryCreated records a successful spend and its debit amount.
func (m *Metrics) EntryCreated(debit decimal.Decimal) {
	m.EntriesCreated.Inc()

	f, _ := debit.Float64()
	m.DebitAmounts.Observe(f)
}

// InsufficientFunds records a spend rejected on balance grounds.
func (m *Metrics) InsufficientFunds() {
	m.InsufficientAttempts.Inc()
}

// RateFetchFailed records a failed rate provider round trip.
func (m *Metrics) RateFetchFailed() {
	m.RateFetchFailures.Inc()
}
