package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"
	"wallet-ledger/pkg/money"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const transactionColumns = `id, wallet_id, amount::text, type, status, related_order_id,
	available_delta::text, reserved_delta::text, available_after::text, reserved_after::text,
	sequence, idempotency_key, reversal_of, description, created_at`

// TransactionRepo persists append-only ledger entries.
type TransactionRepo struct {
	pool Pool
	mc   *money.Context
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool, mc *money.Context) *TransactionRepo {
	return &TransactionRepo{pool: pool, mc: mc}
}

// Create inserts a ledger entry within a database transaction. A clash on
// idempotency_key returns errDuplicateKey.
func (r *TransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.WalletTransaction) error {
	query := `INSERT INTO wallet_transactions (id, wallet_id, amount, type, status, related_order_id,
		available_delta, reserved_delta, available_after, reserved_after,
		sequence, idempotency_key, reversal_of, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := tx.Exec(ctx, query,
		t.ID, t.WalletID, t.Amount.String(), t.Type, t.Status, t.RelatedOrderID,
		t.AvailableDelta.String(), t.ReservedDelta.String(),
		t.AvailableAfter.String(), t.ReservedAfter.String(),
		t.Sequence, t.IdempotencyKey, t.ReversalOf, t.Description, t.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) && t.IdempotencyKey != nil {
			return errDuplicateKey
		}
		return storageError("insert wallet transaction", err)
	}
	return nil
}

// GetByID fetches a ledger entry by UUID.
func (r *TransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.WalletTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM wallet_transactions WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id), "get wallet transaction")
}

// GetByIdempotencyKey fetches the entry recorded under key. q may be the
// pool or an open transaction.
func (r *TransactionRepo) GetByIdempotencyKey(ctx context.Context, q querier, key string) (*domain.WalletTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM wallet_transactions WHERE idempotency_key = $1`
	return r.scanOne(q.QueryRow(ctx, query, key), "get wallet transaction by key")
}

// List fetches a wallet's entries with filtering and pagination.
func (r *TransactionRepo) List(ctx context.Context, params ports.TransactionListParams) ([]domain.WalletTransaction, int64, error) {
	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, fmt.Sprintf("wallet_id = $%d", argIdx))
	args = append(args, params.WalletID)
	argIdx++

	if params.Type != nil {
		conditions = append(conditions, fmt.Sprintf("type = $%d", argIdx))
		args = append(args, *params.Type)
		argIdx++
	}
	if params.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *params.Status)
		argIdx++
	}
	if params.RelatedOrderID != nil {
		conditions = append(conditions, fmt.Sprintf("related_order_id = $%d", argIdx))
		args = append(args, *params.RelatedOrderID)
		argIdx++
	}
	if params.From != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argIdx))
		args = append(args, *params.From)
		argIdx++
	}
	if params.To != nil {
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", argIdx))
		args = append(args, *params.To)
		argIdx++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM wallet_transactions %s", where)
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, storageError("count wallet transactions", err)
	}

	order := "ASC"
	if params.Descending {
		order = "DESC"
	}
	dataQuery := fmt.Sprintf(`SELECT %s FROM wallet_transactions %s ORDER BY sequence %s LIMIT $%d OFFSET $%d`,
		transactionColumns, where, order, argIdx, argIdx+1)
	args = append(args, params.PageSize, params.Offset())

	txns, err := r.query(ctx, r.pool, "list wallet transactions", dataQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

// ListByOrder returns every entry referencing the order in commit order.
// Pass the open transaction to read under its wallet lock.
func (r *TransactionRepo) ListByOrder(ctx context.Context, q querier, orderID uuid.UUID) ([]domain.WalletTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM wallet_transactions
		WHERE related_order_id = $1 ORDER BY created_at ASC, sequence ASC`
	return r.query(ctx, q, "list wallet transactions by order", query, orderID)
}

// ListByWallet returns the wallet's full history ordered by sequence.
func (r *TransactionRepo) ListByWallet(ctx context.Context, walletID uuid.UUID) ([]domain.WalletTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM wallet_transactions
		WHERE wallet_id = $1 ORDER BY sequence ASC`
	return r.query(ctx, r.pool, "list wallet history", query, walletID)
}

func (r *TransactionRepo) query(ctx context.Context, q querier, op, sql string, args ...any) ([]domain.WalletTransaction, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, storageError(op, err)
	}
	defer rows.Close()

	txns := make([]domain.WalletTransaction, 0)
	for rows.Next() {
		t, err := r.scan(rows)
		if err != nil {
			return nil, scanError(op+": scan row", err)
		}
		txns = append(txns, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(op+": iterate rows", err)
	}
	return txns, nil
}

func (r *TransactionRepo) scanOne(row pgx.Row, op string) (*domain.WalletTransaction, error) {
	t, err := r.scan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, scanError(op, err)
	}
	return t, nil
}

// scan reads one row in transactionColumns order.
func (r *TransactionRepo) scan(row pgx.Row) (*domain.WalletTransaction, error) {
	var amount, availDelta, resDelta, availAfter, resAfter string
	t := &domain.WalletTransaction{}
	err := row.Scan(
		&t.ID, &t.WalletID, &amount, &t.Type, &t.Status, &t.RelatedOrderID,
		&availDelta, &resDelta, &availAfter, &resAfter,
		&t.Sequence, &t.IdempotencyKey, &t.ReversalOf, &t.Description, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	fields := []struct {
		dst *money.Money
		src string
	}{
		{&t.Amount, amount},
		{&t.AvailableDelta, availDelta},
		{&t.ReservedDelta, resDelta},
		{&t.AvailableAfter, availAfter},
		{&t.ReservedAfter, resAfter},
	}
	for _, f := range fields {
		if *f.dst, err = r.mc.ParseStored(f.src); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("decode stored amount: %w", err))
		}
	}
	return t, nil
}
