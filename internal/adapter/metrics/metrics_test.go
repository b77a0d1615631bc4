package metrics

import (
	"testing"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ ports.LedgerMetrics = (*Ledger)(nil)
	_ ports.LedgerMetrics = Nop{}
)

func TestLedger_ObserveCommit(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveCommit(domain.TransactionTypeEarning, ports.OutcomeCommitted, 5*time.Millisecond)
	m.ObserveCommit(domain.TransactionTypeEarning, ports.OutcomeCommitted, 7*time.Millisecond)
	m.ObserveCommit(domain.TransactionTypeReservation, ports.OutcomeRejected, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.commits.WithLabelValues("earning", ports.OutcomeCommitted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.commits.WithLabelValues("reservation", ports.OutcomeRejected)))
	assert.Equal(t, 2, testutil.CollectAndCount(m.commitLatency))
}

func TestLedger_ObserveSettlementAndRetry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveSettlement(domain.TransitionPayoutCapture, ports.OutcomeError)
	m.ObserveRetry("trigger_payout")
	m.ObserveRetry("trigger_payout")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.settlements.WithLabelValues("payout:capture", ports.OutcomeError)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.retries.WithLabelValues("trigger_payout")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 2)
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
