package postgres

import (
	"context"
	"testing"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func newTestTransaction(walletID uuid.UUID) *domain.WalletTransaction {
	orderID := uuid.New()
	return &domain.WalletTransaction{
		ID:             uuid.New(),
		WalletID:       walletID,
		Amount:         mc.MustParse("50.00"),
		Type:           domain.TransactionTypeEarning,
		Status:         domain.TransactionStatusCompleted,
		RelatedOrderID: &orderID,
		AvailableDelta: mc.MustParse("50.00"),
		ReservedDelta:  mc.Zero(),
		AvailableAfter: mc.MustParse("150.00"),
		ReservedAfter:  mc.Zero(),
		Sequence:       2,
		IdempotencyKey: strPtr(orderID.String() + ":earned"),
		CreatedAt:      time.Now().UTC().Truncate(time.Microsecond),
	}
}

func txColumns() []string {
	return []string{"id", "wallet_id", "amount", "type", "status", "related_order_id",
		"available_delta", "reserved_delta", "available_after", "reserved_after",
		"sequence", "idempotency_key", "reversal_of", "description", "created_at"}
}

func txRow(rows *pgxmock.Rows, t *domain.WalletTransaction) *pgxmock.Rows {
	return rows.AddRow(
		t.ID, t.WalletID, t.Amount.Decimal().StringFixed(8), t.Type, t.Status, t.RelatedOrderID,
		t.AvailableDelta.String(), t.ReservedDelta.String(), t.AvailableAfter.String(), t.ReservedAfter.String(),
		t.Sequence, t.IdempotencyKey, t.ReversalOf, t.Description, t.CreatedAt,
	)
}

func TestTransactionRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock, mc)
	txn := newTestTransaction(uuid.New())

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO wallet_transactions").
		WithArgs(
			txn.ID, txn.WalletID, "50.00", txn.Type, txn.Status, txn.RelatedOrderID,
			"50.00", "0.00", "150.00", "0.00",
			txn.Sequence, txn.IdempotencyKey, txn.ReversalOf, txn.Description, txn.CreatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	dbTx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), dbTx, txn)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_Create_DuplicateKey(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock, mc)
	txn := newTestTransaction(uuid.New())

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO wallet_transactions").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	dbTx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), dbTx, txn)
	assert.ErrorIs(t, err, errDuplicateKey)
}

func TestTransactionRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock, mc)
	txn := newTestTransaction(uuid.New())

	mock.ExpectQuery("SELECT .+ FROM wallet_transactions WHERE id").
		WithArgs(txn.ID).
		WillReturnRows(txRow(pgxmock.NewRows(txColumns()), txn))

	result, err := repo.GetByID(context.Background(), txn.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, txn.ID, result.ID)
	assert.Equal(t, "50.00", result.Amount.String())
	assert.Equal(t, "150.00", result.AvailableAfter.String())
	assert.Equal(t, *txn.IdempotencyKey, *result.IdempotencyKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock, mc)
	id := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM wallet_transactions WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(txColumns()))

	result, err := repo.GetByID(context.Background(), id)
	assert.NoError(t, err)
	assert.Nil(t, result)
}

func TestTransactionRepo_GetByID_CorruptAmount(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock, mc)
	txn := newTestTransaction(uuid.New())
	rows := pgxmock.NewRows(txColumns()).AddRow(
		txn.ID, txn.WalletID, "0.00100000", txn.Type, txn.Status, txn.RelatedOrderID,
		"0", "0", "0", "0", txn.Sequence, txn.IdempotencyKey, txn.ReversalOf, txn.Description, txn.CreatedAt,
	)

	mock.ExpectQuery("SELECT .+ FROM wallet_transactions WHERE id").
		WithArgs(txn.ID).
		WillReturnRows(rows)

	_, err = repo.GetByID(context.Background(), txn.ID)
	assert.True(t, apperror.HasCode(err, apperror.CodeInternal))
}

func TestTransactionRepo_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock, mc)
	walletID := uuid.New()
	typ := domain.TransactionTypeEarning
	first := newTestTransaction(walletID)
	second := newTestTransaction(walletID)
	second.Sequence = 3

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(walletID, typ).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(12)))
	mock.ExpectQuery("SELECT .+ FROM wallet_transactions WHERE wallet_id .+ ORDER BY sequence DESC LIMIT").
		WithArgs(walletID, typ, 2, 2).
		WillReturnRows(txRow(txRow(pgxmock.NewRows(txColumns()), second), first))

	params := ports.TransactionListParams{WalletID: walletID, Type: &typ, Page: 2, PageSize: 2, Descending: true}
	txns, total, err := repo.List(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	require.Len(t, txns, 2)
	assert.Equal(t, int64(3), txns[0].Sequence)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_ListByOrder(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock, mc)
	txn := newTestTransaction(uuid.New())

	mock.ExpectQuery("SELECT .+ FROM wallet_transactions WHERE related_order_id .+ ORDER BY created_at ASC").
		WithArgs(*txn.RelatedOrderID).
		WillReturnRows(txRow(pgxmock.NewRows(txColumns()), txn))

	txns, err := repo.ListByOrder(context.Background(), mock, *txn.RelatedOrderID)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, txn.ID, txns[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
