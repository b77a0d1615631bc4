package ports

import (
	"context"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/pkg/money"

	"github.com/google/uuid"
)

// SettlementCache is the Redis-layer replay cache for settled transitions
// (fast path). The ledger store stays the source of truth.
type SettlementCache interface {
	Get(ctx context.Context, key string) (*domain.WalletTransaction, error) // nil on miss
	Set(ctx context.Context, key string, txn *domain.WalletTransaction, ttl time.Duration) error
}

// Observation outcomes reported to LedgerMetrics.
const (
	OutcomeCommitted = "committed"
	OutcomeReplayed  = "replayed"
	OutcomeRejected  = "rejected"
	OutcomeError     = "error"
)

// LedgerMetrics receives ledger and settlement observations.
type LedgerMetrics interface {
	ObserveCommit(txType domain.TransactionType, outcome string, elapsed time.Duration)
	ObserveSettlement(transition domain.TransitionKind, outcome string)
	ObserveRetry(operation string)
}

// --- Service Ports (Business Logic) ---

// IntentOptions carries the optional attributes of a wallet intent.
type IntentOptions struct {
	OrderID        *uuid.UUID
	IdempotencyKey *string
	Description    *string
	// Guard is checked against OrderID's entries inside the commit.
	Guard domain.EntryGuard
	// AvailableOnly keeps DebitForRefund off the reserved balance, which may
	// hold other orders' payout reservations.
	AvailableOnly bool
}

// WalletManager translates domain intents into balance deltas and owns
// wallet lookup and creation.
type WalletManager interface {
	GetOrCreateWallet(ctx context.Context, shopperID uuid.UUID) (*domain.Wallet, error)
	GetWallet(ctx context.Context, walletID uuid.UUID) (*domain.Wallet, error)

	Reserve(ctx context.Context, walletID uuid.UUID, amount money.Money, opts IntentOptions) (*domain.ApplyResult, error)
	Release(ctx context.Context, walletID uuid.UUID, amount money.Money, opts IntentOptions) (*domain.ApplyResult, error)
	Credit(ctx context.Context, walletID uuid.UUID, amount money.Money, opts IntentOptions) (*domain.ApplyResult, error)
	DebitPayout(ctx context.Context, walletID uuid.UUID, amount money.Money, opts IntentOptions) (*domain.ApplyResult, error)
	DebitForRefund(ctx context.Context, walletID uuid.UUID, amount money.Money, opts IntentOptions) (*domain.ApplyResult, error)
	CapturePayout(ctx context.Context, walletID uuid.UUID, amount money.Money, opts IntentOptions) (*domain.ApplyResult, error)
	Adjust(ctx context.Context, walletID uuid.UUID, amount money.Money, opts IntentOptions) (*domain.ApplyResult, error)
	Reverse(ctx context.Context, transactionID uuid.UUID, reason string) (*domain.ApplyResult, error)

	ListTransactions(ctx context.Context, params TransactionListParams) ([]domain.WalletTransaction, int64, error)
	Reconcile(ctx context.Context, walletID uuid.UUID) (*ReconcileReport, error)
}

// ReconcileReport compares stored balances with a replay of the history.
type ReconcileReport struct {
	WalletID          uuid.UUID   `json:"wallet_id"`
	StoredAvailable   money.Money `json:"stored_available"`
	StoredReserved    money.Money `json:"stored_reserved"`
	ReplayedAvailable money.Money `json:"replayed_available"`
	ReplayedReserved  money.Money `json:"replayed_reserved"`
	Entries           int         `json:"entries"`
	Consistent        bool        `json:"consistent"`
}

// TransactionRecorder is the only caller of LedgerStore.ApplyTransaction.
type TransactionRecorder interface {
	Record(ctx context.Context, walletID uuid.UUID, draft domain.TransactionDraft) (*domain.ApplyResult, error)
}

// SettlementEngine drives the per-order settlement state machine.
type SettlementEngine interface {
	CompleteOrder(ctx context.Context, orderID uuid.UUID) (*SettlementOutcome, error)
	TriggerPayout(ctx context.Context, orderID uuid.UUID) (*SettlementOutcome, error)
	ApproveRefund(ctx context.Context, orderID, refundID uuid.UUID) (*SettlementOutcome, error)
	OrderState(ctx context.Context, orderID uuid.UUID) (*domain.OrderSettlement, error)
}

// SettlementOutcome is the result of one lifecycle event. Replayed is true
// when every step had already been applied and nothing was written.
type SettlementOutcome struct {
	Settlement   *domain.OrderSettlement    `json:"settlement"`
	Transactions []domain.WalletTransaction `json:"transactions"`
	Replayed     bool                       `json:"replayed"`
}
