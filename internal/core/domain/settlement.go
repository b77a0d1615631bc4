package domain

import (
	"strconv"

	"github.com/google/uuid"
)

// SettlementState is the position of an order in the settlement lifecycle.
type SettlementState string

const (
	SettlementStateNone              SettlementState = "NONE"
	SettlementStateEarned            SettlementState = "EARNED"
	SettlementStateReservedForPayout SettlementState = "RESERVED_FOR_PAYOUT"
	SettlementStatePaidOut           SettlementState = "PAID_OUT"
	SettlementStateRefunded          SettlementState = "REFUNDED"
)

// TransitionKind names an idempotent settlement step.
type TransitionKind string

const (
	TransitionEarned        TransitionKind = "earned"
	TransitionPayoutReserve TransitionKind = "payout:reserve"
	TransitionPayoutCapture TransitionKind = "payout:capture"
	TransitionPayoutRelease TransitionKind = "payout:release"
	TransitionRefundRelease TransitionKind = "refund:release"
	TransitionRefundDebit   TransitionKind = "refund:debit"
)

// BuildSettlementKey constructs "<order_id>:<transition>" or, for steps tied
// to one payout reservation, "<order_id>:<transition>:<attempt>".
func BuildSettlementKey(orderID uuid.UUID, kind TransitionKind, attempt int) string {
	key := orderID.String() + ":" + string(kind)
	if attempt > 0 {
		key += ":" + strconv.Itoa(attempt)
	}
	return key
}

// BuildReversalKey constructs the key guarding a single reversal per entry.
func BuildReversalKey(transactionID uuid.UUID) string {
	return "reversal:" + transactionID.String()
}

// OrderSettlement is the settlement position of one order, derived from
// its ledger entries.
type OrderSettlement struct {
	OrderID                uuid.UUID          `json:"order_id"`
	State                  SettlementState    `json:"state"`
	WalletID               *uuid.UUID         `json:"wallet_id,omitempty"`
	Earning                *WalletTransaction `json:"earning,omitempty"`
	OutstandingReservation *WalletTransaction `json:"outstanding_reservation,omitempty"`
	Payout                 *WalletTransaction `json:"payout,omitempty"`
	RefundDebit            *WalletTransaction `json:"refund_debit,omitempty"`
	// Compensations counts payout reservations closed by a release, whether
	// the payout compensated itself or a refund released it.
	Compensations int `json:"compensations"`
}

// PayoutAttempt is the attempt number the next payout step belongs to. While
// a reservation is outstanding it is that reservation's attempt.
func (s *OrderSettlement) PayoutAttempt() int {
	return s.Compensations + 1
}

// HoldsReservation reports whether the order is reserved under key.
func (s *OrderSettlement) HoldsReservation(key string) bool {
	r := s.OutstandingReservation
	return s.State == SettlementStateReservedForPayout &&
		r != nil && r.IdempotencyKey != nil && *r.IdempotencyKey == key
}

// GuardSettlement builds an EntryGuard that re-derives the order from the
// entries read inside the commit and hands the result to check.
func GuardSettlement(orderID uuid.UUID, check func(*OrderSettlement) error) EntryGuard {
	return func(orderEntries []WalletTransaction) error {
		return check(DeriveSettlement(orderID, orderEntries))
	}
}

// DeriveSettlement folds an order's entries, in commit order, into its
// settlement position.
func DeriveSettlement(orderID uuid.UUID, txns []WalletTransaction) *OrderSettlement {
	s := &OrderSettlement{OrderID: orderID, State: SettlementStateNone}

	for i := range txns {
		t := &txns[i]
		if t.RelatedOrderID == nil || *t.RelatedOrderID != orderID {
			continue
		}
		walletID := t.WalletID
		s.WalletID = &walletID

		switch t.Type {
		case TransactionTypeEarning:
			s.Earning = t
		case TransactionTypeReservation:
			s.OutstandingReservation = t
		case TransactionTypeRelease:
			if s.OutstandingReservation != nil {
				s.Compensations++
			}
			s.OutstandingReservation = nil
		case TransactionTypePayout:
			s.OutstandingReservation = nil
			s.Payout = t
		case TransactionTypeRefundDebit:
			s.RefundDebit = t
		}
	}

	switch {
	case s.RefundDebit != nil:
		s.State = SettlementStateRefunded
	case s.Payout != nil:
		s.State = SettlementStatePaidOut
	case s.OutstandingReservation != nil:
		s.State = SettlementStateReservedForPayout
	case s.Earning != nil:
		s.State = SettlementStateEarned
	}
	return s
}
