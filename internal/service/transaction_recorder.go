package service

import (
	"context"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TransactionRecorderImpl implements ports.TransactionRecorder. It is the
// single path by which drafts reach the ledger store.
type TransactionRecorderImpl struct {
	store   ports.LedgerStore
	metrics ports.LedgerMetrics
	log     zerolog.Logger
}

// NewTransactionRecorder creates a new TransactionRecorderImpl.
func NewTransactionRecorder(store ports.LedgerStore, metrics ports.LedgerMetrics, log zerolog.Logger) *TransactionRecorderImpl {
	return &TransactionRecorderImpl{
		store:   store,
		metrics: metrics,
		log:     log,
	}
}

// Record validates the draft and commits it. Store errors are returned
// unchanged and never retried here.
func (r *TransactionRecorderImpl) Record(ctx context.Context, walletID uuid.UUID, draft domain.TransactionDraft) (*domain.ApplyResult, error) {
	if !draft.Type.Valid() {
		return nil, apperror.Validation("unknown transaction type: " + string(draft.Type))
	}
	if draft.Plan == nil {
		return nil, apperror.Validation("transaction draft has no planner")
	}
	if draft.Guard != nil && draft.RelatedOrderID == nil {
		return nil, apperror.Validation("guarded transaction draft has no related order")
	}

	start := time.Now()
	result, err := r.store.ApplyTransaction(ctx, walletID, draft)
	elapsed := time.Since(start)

	if err != nil {
		outcome := ports.OutcomeRejected
		if apperror.IsRetryable(err) || apperror.HasCode(err, apperror.CodeInternal) {
			outcome = ports.OutcomeError
		}
		r.metrics.ObserveCommit(draft.Type, outcome, elapsed)
		r.log.Warn().Err(err).
			Str("wallet_id", walletID.String()).
			Str("type", string(draft.Type)).
			Str("outcome", outcome).
			Msg("ledger commit failed")
		return nil, err
	}

	outcome := ports.OutcomeCommitted
	if result.Replayed {
		outcome = ports.OutcomeReplayed
	}
	r.metrics.ObserveCommit(draft.Type, outcome, elapsed)
	r.log.Info().
		Str("wallet_id", walletID.String()).
		Str("transaction_id", result.Transaction.ID.String()).
		Str("type", string(draft.Type)).
		Str("amount", result.Transaction.Amount.String()).
		Int64("sequence", result.Transaction.Sequence).
		Bool("replayed", result.Replayed).
		Msg("ledger entry recorded")
	return result, nil
}
