package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"
	"wallet-ledger/pkg/money"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// LedgerStore implements ports.LedgerStore on PostgreSQL. ApplyTransaction
// row-locks the wallet and guards the balance update with its version.
type LedgerStore struct {
	wallets    *WalletRepo
	txns       *TransactionRepo
	transactor ports.DBTransactor
	mc         *money.Context
	now        func() time.Time
	log        zerolog.Logger
}

// NewLedgerStore wires the repositories over one pool.
func NewLedgerStore(pool Pool, mc *money.Context, log zerolog.Logger) *LedgerStore {
	return &LedgerStore{
		wallets:    NewWalletRepo(pool, mc),
		txns:       NewTransactionRepo(pool, mc),
		transactor: NewTransactor(pool),
		mc:         mc,
		now:        func() time.Time { return time.Now().UTC() },
		log:        log,
	}
}

func (s *LedgerStore) CreateWallet(ctx context.Context, w *domain.Wallet) error {
	return s.wallets.Create(ctx, w)
}

func (s *LedgerStore) GetWallet(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	return s.wallets.GetByID(ctx, id)
}

func (s *LedgerStore) GetWalletByShopper(ctx context.Context, shopperID uuid.UUID) (*domain.Wallet, error) {
	return s.wallets.GetByShopperID(ctx, shopperID)
}

// ApplyTransaction runs lock, idempotency check, guard, planner, balance
// update and insert inside one database transaction. Every entry of an order
// is written under its wallet's row lock, so the guard's read is current.
func (s *LedgerStore) ApplyTransaction(ctx context.Context, walletID uuid.UUID, draft domain.TransactionDraft) (*domain.ApplyResult, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, storageError("begin tx", err)
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	// Lock & get wallet
	current, err := s.wallets.GetByIDForUpdate(ctx, dbTx, walletID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apperror.ErrWalletNotFound()
	}

	// Idempotency check under the row lock
	if draft.IdempotencyKey != nil {
		prior, err := s.txns.GetByIdempotencyKey(ctx, dbTx, *draft.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if prior != nil {
			return &domain.ApplyResult{Wallet: current, Transaction: prior, Replayed: true}, nil
		}
	}

	if draft.Guard != nil {
		var entries []domain.WalletTransaction
		if draft.RelatedOrderID != nil {
			entries, err = s.txns.ListByOrder(ctx, dbTx, *draft.RelatedOrderID)
			if err != nil {
				return nil, err
			}
		}
		if err := draft.Guard(entries); err != nil {
			return nil, err
		}
	}

	delta, err := draft.Plan(*current)
	if err != nil {
		return nil, err
	}
	available, reserved, err := delta.Apply(s.mc, *current)
	if err != nil {
		return nil, apperror.ErrAmountOverflow(err)
	}
	if !domain.IsSolvent(available, reserved) {
		return nil, apperror.ErrInsufficientBalance()
	}
	amount, err := delta.EntryAmount(s.mc, draft.Type)
	if err != nil {
		return nil, apperror.ErrAmountOverflow(err)
	}

	now := s.now()
	next := *current
	next.AvailableBalance = available
	next.ReservedBalance = reserved
	next.Version = current.Version + 1
	next.LastUpdated = now

	txn := &domain.WalletTransaction{
		ID:             uuid.New(),
		WalletID:       walletID,
		Amount:         amount,
		Type:           draft.Type,
		Status:         domain.TransactionStatusCompleted,
		RelatedOrderID: draft.RelatedOrderID,
		AvailableDelta: delta.Available,
		ReservedDelta:  delta.Reserved,
		AvailableAfter: available,
		ReservedAfter:  reserved,
		Sequence:       next.Version,
		IdempotencyKey: draft.IdempotencyKey,
		ReversalOf:     draft.ReversalOf,
		Description:    draft.Description,
		CreatedAt:      now,
	}

	if err := s.wallets.UpdateBalances(ctx, dbTx, &next, current.Version); err != nil {
		return nil, err
	}
	if err := s.txns.Create(ctx, dbTx, txn); err != nil {
		if draft.IdempotencyKey != nil && errors.Is(err, errDuplicateKey) {
			return s.replayAfterConflict(ctx, walletID, *draft.IdempotencyKey)
		}
		return nil, err
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, storageError("commit tx", err)
	}

	s.log.Debug().
		Str("wallet_id", walletID.String()).
		Str("tx_id", txn.ID.String()).
		Int64("sequence", txn.Sequence).
		Msg("ledger entry committed")

	return &domain.ApplyResult{Wallet: &next, Transaction: txn}, nil
}

// replayAfterConflict resolves a key recorded concurrently on another wallet.
// The aborted transaction is rolled back by the caller's defer.
func (s *LedgerStore) replayAfterConflict(ctx context.Context, walletID uuid.UUID, key string) (*domain.ApplyResult, error) {
	prior, err := s.txns.GetByIdempotencyKey(ctx, s.txns.pool, key)
	if err != nil {
		return nil, err
	}
	if prior == nil {
		return nil, apperror.ErrStorageUnavailable(fmt.Errorf("idempotency key %q: %w", key, errDuplicateKey))
	}
	w, err := s.wallets.GetByID(ctx, walletID)
	if err != nil {
		return nil, err
	}
	return &domain.ApplyResult{Wallet: w, Transaction: prior, Replayed: true}, nil
}

func (s *LedgerStore) GetTransaction(ctx context.Context, id uuid.UUID) (*domain.WalletTransaction, error) {
	return s.txns.GetByID(ctx, id)
}

func (s *LedgerStore) FindByIdempotencyKey(ctx context.Context, key string) (*domain.WalletTransaction, error) {
	return s.txns.GetByIdempotencyKey(ctx, s.txns.pool, key)
}

func (s *LedgerStore) ListTransactions(ctx context.Context, params ports.TransactionListParams) ([]domain.WalletTransaction, int64, error) {
	params.Normalize()
	return s.txns.List(ctx, params)
}

func (s *LedgerStore) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]domain.WalletTransaction, error) {
	return s.txns.ListByOrder(ctx, s.txns.pool, orderID)
}

func (s *LedgerStore) ListAllForWallet(ctx context.Context, walletID uuid.UUID) ([]domain.WalletTransaction, error) {
	return s.txns.ListByWallet(ctx, walletID)
}
