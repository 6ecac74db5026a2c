package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Wallet metrics
	WalletsCreated prometheus.Counter
	WalletReads    *prometheus.CounterVec

	// Ledger metrics
	DepositsCreated    prometheus.Counter
	WithdrawalsCreated prometheus.Counter
	TransfersCreated   prometheus.Counter
	RollbacksCreated   *prometheus.CounterVec
	TransactionAmount  *prometheus.HistogramVec
	TransactionErrors  *prometheus.CounterVec

	// Audit metrics
	AuditsRun          prometheus.Counter
	AuditInconsistency prometheus.Counter

	// Database metrics
	DBConnections prometheus.Gauge
	DBRetries     prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Wallet metrics
		WalletsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_wallets_created_total",
			Help: "Total number of wallets created",
		}),
		WalletReads: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_wallet_reads_total",
				Help: "Total wallet reads by source",
			},
			[]string{"source"},
		),

		// Ledger metrics
		DepositsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_deposits_created_total",
			Help: "Total number of deposits created",
		}),
		WithdrawalsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_withdrawals_created_total",
			Help: "Total number of withdrawals created",
		}),
		TransfersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_transfers_created_total",
			Help: "Total number of transfers created",
		}),
		RollbacksCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_rollbacks_created_total",
				Help: "Total number of rollback entries by kind",
			},
			[]string{"kind"},
		),
		TransactionAmount: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gowallet_transaction_amount",
				Help:    "Ledger entry amounts",
				Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
			},
			[]string{"kind", "currency"},
		),
		TransactionErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_transaction_errors_total",
				Help: "Total number of ledger write errors by type",
			},
			[]string{"error_type"},
		),

		// Audit metrics
		AuditsRun: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_audits_run_total",
			Help: "Total number of balance audits run",
		}),
		AuditInconsistency: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_audit_inconsistencies_total",
			Help: "Total number of audits that found balance drift",
		}),

		// Database metrics
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "gowallet_db_connections",
			Help: "Current number of database connections",
		}),
		DBRetries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_db_retries_total",
			Help: "Total number of retried database transactions",
		}),
	}
}
