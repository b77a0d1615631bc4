package handler

import (
	"time"

	"wallet-ledger/internal/adapter/http/dto"
	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"
	"wallet-ledger/pkg/money"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func parseID(c *gin.Context, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		return uuid.Nil, apperror.Validation("invalid " + param)
	}
	return id, nil
}

func parseAmount(mc *money.Context, s string) (money.Money, error) {
	m, err := mc.Parse(s)
	if err != nil {
		return money.Money{}, apperror.ErrInvalidAmount(err)
	}
	return m, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func optionalID(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func toWalletResponse(w *domain.Wallet) dto.WalletResponse {
	return dto.WalletResponse{
		ID:               w.ID.String(),
		ShopperID:        w.ShopperID.String(),
		AvailableBalance: w.AvailableBalance.String(),
		ReservedBalance:  w.ReservedBalance.String(),
		Version:          w.Version,
		CreatedAt:        formatTime(w.CreatedAt),
		LastUpdated:      formatTime(w.LastUpdated),
	}
}

func toTransactionResponse(t *domain.WalletTransaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:             t.ID.String(),
		WalletID:       t.WalletID.String(),
		Amount:         t.Amount.String(),
		Type:           string(t.Type),
		Status:         string(t.Status),
		RelatedOrderID: optionalID(t.RelatedOrderID),
		AvailableDelta: t.AvailableDelta.String(),
		ReservedDelta:  t.ReservedDelta.String(),
		AvailableAfter: t.AvailableAfter.String(),
		ReservedAfter:  t.ReservedAfter.String(),
		Sequence:       t.Sequence,
		IdempotencyKey: t.IdempotencyKey,
		ReversalOf:     optionalID(t.ReversalOf),
		Description:    t.Description,
		CreatedAt:      formatTime(t.CreatedAt),
	}
}

func toTransactionList(txns []domain.WalletTransaction) []dto.TransactionResponse {
	out := make([]dto.TransactionResponse, len(txns))
	for i := range txns {
		out[i] = toTransactionResponse(&txns[i])
	}
	return out
}

func optionalTransaction(t *domain.WalletTransaction) *dto.TransactionResponse {
	if t == nil {
		return nil
	}
	r := toTransactionResponse(t)
	return &r
}

func toIntentResponse(r *domain.ApplyResult) dto.IntentResponse {
	return dto.IntentResponse{
		Wallet:      toWalletResponse(r.Wallet),
		Transaction: toTransactionResponse(r.Transaction),
		Replayed:    r.Replayed,
	}
}

func toReconcileResponse(r *ports.ReconcileReport) dto.ReconcileResponse {
	return dto.ReconcileResponse{
		WalletID:          r.WalletID.String(),
		StoredAvailable:   r.StoredAvailable.String(),
		StoredReserved:    r.StoredReserved.String(),
		ReplayedAvailable: r.ReplayedAvailable.String(),
		ReplayedReserved:  r.ReplayedReserved.String(),
		Entries:           r.Entries,
		Consistent:        r.Consistent,
	}
}

func toSettlementResponse(s *domain.OrderSettlement) dto.SettlementResponse {
	return dto.SettlementResponse{
		OrderID:       s.OrderID.String(),
		State:         string(s.State),
		WalletID:      optionalID(s.WalletID),
		Earning:       optionalTransaction(s.Earning),
		Reservation:   optionalTransaction(s.OutstandingReservation),
		Payout:        optionalTransaction(s.Payout),
		RefundDebit:   optionalTransaction(s.RefundDebit),
		Compensations: s.Compensations,
	}
}

func toOutcomeResponse(o *ports.SettlementOutcome) dto.SettlementOutcomeResponse {
	return dto.SettlementOutcomeResponse{
		Settlement:   toSettlementResponse(o.Settlement),
		Transactions: toTransactionList(o.Transactions),
		Replayed:     o.Replayed,
	}
}
