package postgres

import (
	"context"
	"errors"
	"fmt"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/pkg/apperror"
	"wallet-ledger/pkg/money"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const walletColumns = `id, shopper_id, available_balance::text, reserved_balance::text, version, created_at, last_updated`

// WalletRepo persists wallet rows.
type WalletRepo struct {
	pool Pool
	mc   *money.Context
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(pool Pool, mc *money.Context) *WalletRepo {
	return &WalletRepo{pool: pool, mc: mc}
}

// Create inserts a new wallet. A second wallet for the same shopper fails
// with DuplicateWallet.
func (r *WalletRepo) Create(ctx context.Context, w *domain.Wallet) error {
	query := `INSERT INTO wallets (id, shopper_id, available_balance, reserved_balance, version, created_at, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		w.ID, w.ShopperID, w.AvailableBalance.String(), w.ReservedBalance.String(),
		w.Version, w.CreatedAt, w.LastUpdated,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.ErrDuplicateWallet()
		}
		return storageError("insert wallet", err)
	}
	return nil
}

// GetByID fetches a wallet by its UUID (without locking).
func (r *WalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1`
	return r.scanWallet(r.pool.QueryRow(ctx, query, id), "get wallet by id")
}

// GetByShopperID fetches the shopper's wallet (without locking).
func (r *WalletRepo) GetByShopperID(ctx context.Context, shopperID uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE shopper_id = $1`
	return r.scanWallet(r.pool.QueryRow(ctx, query, shopperID), "get wallet by shopper")
}

// GetByIDForUpdate fetches a wallet by ID with pessimistic locking.
// This MUST be called within a transaction.
func (r *WalletRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1 FOR UPDATE`
	return r.scanWallet(tx.QueryRow(ctx, query, id), "get wallet for update")
}

// UpdateBalances writes both balances and the bumped version. The row must
// still be at expectedVersion.
func (r *WalletRepo) UpdateBalances(ctx context.Context, tx pgx.Tx, w *domain.Wallet, expectedVersion int64) error {
	query := `UPDATE wallets SET available_balance = $1, reserved_balance = $2, version = $3, last_updated = $4
		WHERE id = $5 AND version = $6`

	tag, err := tx.Exec(ctx, query,
		w.AvailableBalance.String(), w.ReservedBalance.String(), w.Version, w.LastUpdated,
		w.ID, expectedVersion,
	)
	if err != nil {
		return storageError("update wallet balances", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.ErrStorageUnavailable(fmt.Errorf("wallet %s: %w", w.ID, errVersionConflict))
	}
	return nil
}

func (r *WalletRepo) scanWallet(row pgx.Row, op string) (*domain.Wallet, error) {
	var available, reserved string
	w := &domain.Wallet{}
	err := row.Scan(&w.ID, &w.ShopperID, &available, &reserved, &w.Version, &w.CreatedAt, &w.LastUpdated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageError(op, err)
	}
	if w.AvailableBalance, err = r.mc.ParseStored(available); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("%s: available balance: %w", op, err))
	}
	if w.ReservedBalance, err = r.mc.ParseStored(reserved); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("%s: reserved balance: %w", op, err))
	}
	return w, nil
}
