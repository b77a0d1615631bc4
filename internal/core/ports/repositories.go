package ports

import (
	"context"
	"time"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// LedgerStore defines durable storage for wallets and ledger entries.
// Lookups return (nil, nil) when the row does not exist.
type LedgerStore interface {
	// CreateWallet inserts a zero-balance wallet. Fails with DuplicateWallet
	// when the shopper already owns one.
	CreateWallet(ctx context.Context, wallet *domain.Wallet) error
	GetWallet(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	GetWalletByShopper(ctx context.Context, shopperID uuid.UUID) (*domain.Wallet, error)

	// ApplyTransaction locks the wallet, replays on a known idempotency key,
	// evaluates the draft's planner against the locked snapshot and commits
	// the new balances plus the entry as one atomic unit.
	ApplyTransaction(ctx context.Context, walletID uuid.UUID, draft domain.TransactionDraft) (*domain.ApplyResult, error)

	GetTransaction(ctx context.Context, id uuid.UUID) (*domain.WalletTransaction, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*domain.WalletTransaction, error)
	ListTransactions(ctx context.Context, params TransactionListParams) ([]domain.WalletTransaction, int64, error)
	// ListByOrder returns every entry referencing the order in commit order.
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]domain.WalletTransaction, error)
	// ListAllForWallet returns the wallet's full history ordered by sequence.
	ListAllForWallet(ctx context.Context, walletID uuid.UUID) ([]domain.WalletTransaction, error)
}

// OrderFactsReader reads the external, read-only order financials.
type OrderFactsReader interface {
	GetOrderFinancials(ctx context.Context, orderID uuid.UUID) (*domain.OrderFinancials, error)
	GetRefund(ctx context.Context, refundID uuid.UUID) (*domain.Refund, error)
}

// TransactionListParams holds filter + pagination for listing ledger entries.
type TransactionListParams struct {
	WalletID       uuid.UUID
	Type           *domain.TransactionType
	Status         *domain.TransactionStatus
	RelatedOrderID *uuid.UUID
	From           *time.Time
	To             *time.Time
	Page           int
	PageSize       int
	Descending     bool // Default is created_at ascending
}

// Normalize clamps pagination to sane bounds.
func (p *TransactionListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > 100 {
		p.PageSize = 20
	}
}

// Offset is the zero-based row offset of the current page.
func (p TransactionListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
