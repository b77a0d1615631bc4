package domain

import (
	"time"

	"wallet-ledger/pkg/money"

	"github.com/google/uuid"
)

// TransactionType represents the kind of balance movement.
type TransactionType string

const (
	TransactionTypeEarning     TransactionType = "earning"
	TransactionTypeReservation TransactionType = "reservation"
	TransactionTypeRelease     TransactionType = "release"
	TransactionTypePayout      TransactionType = "payout"
	TransactionTypeRefundDebit TransactionType = "refund_debit"
	TransactionTypeAdjustment  TransactionType = "adjustment"
)

// Valid reports whether t is a known type.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeEarning, TransactionTypeReservation, TransactionTypeRelease,
		TransactionTypePayout, TransactionTypeRefundDebit, TransactionTypeAdjustment:
		return true
	}
	return false
}

// TransactionStatus represents the lifecycle state of a ledger entry.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusReversed  TransactionStatus = "reversed"
)

// WalletTransaction is an immutable, append-only ledger entry.
type WalletTransaction struct {
	ID             uuid.UUID         `json:"id"`
	WalletID       uuid.UUID         `json:"wallet_id"`
	Amount         money.Money       `json:"amount"` // Signed: positive credit, negative debit
	Type           TransactionType   `json:"type"`
	Status         TransactionStatus `json:"status"`
	RelatedOrderID *uuid.UUID        `json:"related_order_id,omitempty"`
	AvailableDelta money.Money       `json:"available_delta"`
	ReservedDelta  money.Money       `json:"reserved_delta"`
	AvailableAfter money.Money       `json:"available_after"`
	ReservedAfter  money.Money       `json:"reserved_after"`
	Sequence       int64             `json:"sequence"` // Wallet version produced by this commit
	IdempotencyKey *string           `json:"idempotency_key,omitempty"`
	ReversalOf     *uuid.UUID        `json:"reversal_of,omitempty"`
	Description    *string           `json:"description,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

// IsTerminal returns true once the entry can no longer change.
func (t *WalletTransaction) IsTerminal() bool {
	return t.Status == TransactionStatusCompleted ||
		t.Status == TransactionStatusReversed
}

// Delta returns the recorded balance effect of the entry.
func (t *WalletTransaction) Delta() BalanceDelta {
	return BalanceDelta{Available: t.AvailableDelta, Reserved: t.ReservedDelta}
}

// DeltaPlanner computes the balance effect of an intent from the locked
// wallet snapshot. Planners are pure and must not block.
type DeltaPlanner func(current Wallet) (BalanceDelta, error)

// EntryGuard checks a precondition against the related order's entries as
// read inside the commit, after the wallet is locked. A non-nil error aborts
// the commit.
type EntryGuard func(orderEntries []WalletTransaction) error

// TransactionDraft is a not-yet-committed ledger entry. Guard requires
// RelatedOrderID and runs after the idempotency check, so replays skip it.
type TransactionDraft struct {
	Type           TransactionType
	RelatedOrderID *uuid.UUID
	IdempotencyKey *string
	ReversalOf     *uuid.UUID
	Description    *string
	Plan           DeltaPlanner
	Guard          EntryGuard
}

// ApplyResult is the outcome of an atomic ledger commit. Replayed is true
// when the idempotency key matched an existing entry and nothing was written.
type ApplyResult struct {
	Wallet      *Wallet
	Transaction *WalletTransaction
	Replayed    bool
}
