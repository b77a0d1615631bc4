package metrics

import (
	"time"

	"wallet-ledger/internal/core/domain"

	"github.com/prometheus/client_golang/prometheus"
)

const metricPrefix = "wallet_ledger_"

// Ledger implements ports.LedgerMetrics with Prometheus collectors. Outcome
// labels are the ports.Outcome* values.
type Ledger struct {
	commits       *prometheus.CounterVec
	commitLatency *prometheus.HistogramVec
	settlements   *prometheus.CounterVec
	retries       *prometheus.CounterVec
}

// New constructs the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Ledger {
	m := &Ledger{
		commits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "commits_total",
				Help: "Total ledger commits by transaction type and outcome",
			},
			[]string{"type", "outcome"},
		),
		commitLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "commit_latency_seconds",
				Help:    "Ledger commit latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"type"},
		),
		settlements: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "settlement_transitions_total",
				Help: "Total settlement transitions by kind and outcome",
			},
			[]string{"transition", "outcome"},
		),
		retries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "retries_total",
				Help: "Total retried settlement operations",
			},
			[]string{"operation"},
		),
	}
	reg.MustRegister(m.commits, m.commitLatency, m.settlements, m.retries)
	return m
}

// ObserveCommit records one ApplyTransaction call.
func (m *Ledger) ObserveCommit(txType domain.TransactionType, outcome string, elapsed time.Duration) {
	m.commits.WithLabelValues(string(txType), outcome).Inc()
	m.commitLatency.WithLabelValues(string(txType)).Observe(elapsed.Seconds())
}

// ObserveSettlement records one settlement step.
func (m *Ledger) ObserveSettlement(transition domain.TransitionKind, outcome string) {
	m.settlements.WithLabelValues(string(transition), outcome).Inc()
}

// ObserveRetry records a retried attempt of operation.
func (m *Ledger) ObserveRetry(operation string) {
	m.retries.WithLabelValues(operation).Inc()
}

// Nop discards all observations.
type Nop struct{}

func (Nop) ObserveCommit(domain.TransactionType, string, time.Duration) {}
func (Nop) ObserveSettlement(domain.TransitionKind, string)             {}
func (Nop) ObserveRetry(string)                                         {}
