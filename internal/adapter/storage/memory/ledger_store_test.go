package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"
	"wallet-ledger/pkg/money"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var mc = money.Default

func newWallet(t *testing.T, s *LedgerStore) *domain.Wallet {
	t.Helper()
	w := domain.NewWallet(uuid.New(), mc, time.Now().UTC())
	require.NoError(t, s.CreateWallet(context.Background(), w))
	return w
}

func creditDraft(amount string, key *string) domain.TransactionDraft {
	m := mc.MustParse(amount)
	return domain.TransactionDraft{
		Type:           domain.TransactionTypeEarning,
		IdempotencyKey: key,
		Plan: func(domain.Wallet) (domain.BalanceDelta, error) {
			return domain.BalanceDelta{Available: m, Reserved: mc.Zero()}, nil
		},
	}
}

func reserveDraft(amount string) domain.TransactionDraft {
	m := mc.MustParse(amount)
	return domain.TransactionDraft{
		Type: domain.TransactionTypeReservation,
		Plan: func(domain.Wallet) (domain.BalanceDelta, error) {
			return domain.BalanceDelta{Available: m.Neg(), Reserved: m}, nil
		},
	}
}

func TestLedgerStore_CreateWallet_DuplicateShopper(t *testing.T) {
	s := NewLedgerStore(mc)
	w := newWallet(t, s)

	dup := domain.NewWallet(w.ShopperID, mc, time.Now().UTC())
	err := s.CreateWallet(context.Background(), dup)
	assert.True(t, apperror.HasCode(err, apperror.CodeDuplicateWallet))

	got, err := s.GetWalletByShopper(context.Background(), w.ShopperID)
	require.NoError(t, err)
	assert.Equal(t, w.ID, got.ID)
}

func TestLedgerStore_GetWallet_NotFound(t *testing.T) {
	s := NewLedgerStore(mc)

	w, err := s.GetWallet(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, w)
}

func TestLedgerStore_ApplyTransaction_Commit(t *testing.T) {
	s := NewLedgerStore(mc)
	w := newWallet(t, s)
	orderID := uuid.New()
	draft := creditDraft("150.00", nil)
	draft.RelatedOrderID = &orderID

	res, err := s.ApplyTransaction(context.Background(), w.ID, draft)
	require.NoError(t, err)
	assert.False(t, res.Replayed)
	assert.Equal(t, "150.00", res.Wallet.AvailableBalance.String())
	assert.Equal(t, int64(1), res.Wallet.Version)
	assert.Equal(t, domain.TransactionStatusCompleted, res.Transaction.Status)
	assert.Equal(t, "150.00", res.Transaction.Amount.String())
	assert.Equal(t, int64(1), res.Transaction.Sequence)

	byOrder, err := s.ListByOrder(context.Background(), orderID)
	require.NoError(t, err)
	require.Len(t, byOrder, 1)
	assert.Equal(t, res.Transaction.ID, byOrder[0].ID)
}

func TestLedgerStore_ApplyTransaction_WalletNotFound(t *testing.T) {
	s := NewLedgerStore(mc)

	_, err := s.ApplyTransaction(context.Background(), uuid.New(), creditDraft("1.00", nil))
	assert.True(t, apperror.HasCode(err, apperror.CodeWalletNotFound))
}

func TestLedgerStore_ApplyTransaction_InsufficientLeavesNoTrace(t *testing.T) {
	s := NewLedgerStore(mc)
	w := newWallet(t, s)
	_, err := s.ApplyTransaction(context.Background(), w.ID, creditDraft("10.00", nil))
	require.NoError(t, err)

	_, err = s.ApplyTransaction(context.Background(), w.ID, reserveDraft("10.01"))
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientBalance))

	got, err := s.GetWallet(context.Background(), w.ID)
	require.NoError(t, err)
	assert.Equal(t, "10.00", got.AvailableBalance.String())
	assert.Equal(t, "0.00", got.ReservedBalance.String())
	assert.Equal(t, int64(1), got.Version)

	history, err := s.ListAllForWallet(context.Background(), w.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestLedgerStore_ApplyTransaction_PlannerErrorPropagates(t *testing.T) {
	s := NewLedgerStore(mc)
	w := newWallet(t, s)
	draft := domain.TransactionDraft{
		Type: domain.TransactionTypeRelease,
		Plan: func(domain.Wallet) (domain.BalanceDelta, error) {
			return domain.BalanceDelta{}, apperror.ErrInvalidReservationState()
		},
	}

	_, err := s.ApplyTransaction(context.Background(), w.ID, draft)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidReservationState))
}

func TestLedgerStore_ApplyTransaction_IdempotentReplay(t *testing.T) {
	s := NewLedgerStore(mc)
	w := newWallet(t, s)
	key := "order-1:earned"

	first, err := s.ApplyTransaction(context.Background(), w.ID, creditDraft("25.00", &key))
	require.NoError(t, err)
	second, err := s.ApplyTransaction(context.Background(), w.ID, creditDraft("25.00", &key))
	require.NoError(t, err)

	assert.True(t, second.Replayed)
	assert.Equal(t, first.Transaction.ID, second.Transaction.ID)
	assert.Equal(t, "25.00", second.Wallet.AvailableBalance.String())

	found, err := s.FindByIdempotencyKey(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, first.Transaction.ID, found.ID)
}

func TestLedgerStore_ApplyTransaction_CancelledContext(t *testing.T) {
	s := NewLedgerStore(mc)
	w := newWallet(t, s)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ApplyTransaction(ctx, w.ID, creditDraft("1.00", nil))
	assert.True(t, apperror.HasCode(err, apperror.CodeStorageUnavailable))
	assert.True(t, apperror.IsRetryable(err))
}

// N reserves of the full balance: exactly one wins.
func TestLedgerStore_ConcurrentReserves(t *testing.T) {
	s := NewLedgerStore(mc)
	w := newWallet(t, s)
	_, err := s.ApplyTransaction(context.Background(), w.ID, creditDraft("50.00", nil))
	require.NoError(t, err)

	const n = 50
	var wg sync.WaitGroup
	var ok, insufficient atomic.Int32
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.ApplyTransaction(context.Background(), w.ID, reserveDraft("50.00"))
			switch {
			case err == nil:
				ok.Add(1)
			case apperror.HasCode(err, apperror.CodeInsufficientBalance):
				insufficient.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), ok.Load())
	assert.Equal(t, int32(n-1), insufficient.Load())

	got, err := s.GetWallet(context.Background(), w.ID)
	require.NoError(t, err)
	assert.Equal(t, "0.00", got.AvailableBalance.String())
	assert.Equal(t, "50.00", got.ReservedBalance.String())
}

// Concurrent replays of one key commit once.
func TestLedgerStore_ConcurrentReplays(t *testing.T) {
	s := NewLedgerStore(mc)
	w := newWallet(t, s)
	key := "order-2:earned"

	var wg sync.WaitGroup
	var replayed atomic.Int32
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := s.ApplyTransaction(context.Background(), w.ID, creditDraft("5.00", &key))
			if err == nil && res.Replayed {
				replayed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(19), replayed.Load())
	got, err := s.GetWallet(context.Background(), w.ID)
	require.NoError(t, err)
	assert.Equal(t, "5.00", got.AvailableBalance.String())
}

var errOrderClosed = errors.New("order already closed")

// closedOnce rejects the draft once the order carries any entry of typ.
func closedOnce(typ domain.TransactionType) domain.EntryGuard {
	return func(entries []domain.WalletTransaction) error {
		for _, e := range entries {
			if e.Type == typ {
				return errOrderClosed
			}
		}
		return nil
	}
}

func TestLedgerStore_ApplyTransaction_GuardSeesOrderEntries(t *testing.T) {
	s := NewLedgerStore(mc)
	w := newWallet(t, s)
	orderID, otherOrder := uuid.New(), uuid.New()

	seed := creditDraft("80.00", nil)
	seed.RelatedOrderID = &orderID
	_, err := s.ApplyTransaction(context.Background(), w.ID, seed)
	require.NoError(t, err)
	foreign := creditDraft("5.00", nil)
	foreign.RelatedOrderID = &otherOrder
	_, err = s.ApplyTransaction(context.Background(), w.ID, foreign)
	require.NoError(t, err)

	var seen []domain.WalletTransaction
	draft := reserveDraft("10.00")
	draft.RelatedOrderID = &orderID
	draft.Guard = func(entries []domain.WalletTransaction) error {
		seen = entries
		return nil
	}
	_, err = s.ApplyTransaction(context.Background(), w.ID, draft)
	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.Equal(t, domain.TransactionTypeEarning, seen[0].Type)

	rejected := reserveDraft("10.00")
	rejected.RelatedOrderID = &orderID
	rejected.Guard = closedOnce(domain.TransactionTypeReservation)
	_, err = s.ApplyTransaction(context.Background(), w.ID, rejected)
	assert.ErrorIs(t, err, errOrderClosed)

	got, err := s.GetWallet(context.Background(), w.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Version)
	assert.Equal(t, "10.00", got.ReservedBalance.String())
}

func TestLedgerStore_ApplyTransaction_ReplaySkipsGuard(t *testing.T) {
	s := NewLedgerStore(mc)
	w := newWallet(t, s)
	orderID := uuid.New()
	key := orderID.String() + ":earned"

	draft := creditDraft("20.00", &key)
	draft.RelatedOrderID = &orderID
	draft.Guard = closedOnce(domain.TransactionTypeEarning)
	first, err := s.ApplyTransaction(context.Background(), w.ID, draft)
	require.NoError(t, err)

	again, err := s.ApplyTransaction(context.Background(), w.ID, draft)
	require.NoError(t, err)
	assert.True(t, again.Replayed)
	assert.Equal(t, first.Transaction.ID, again.Transaction.ID)
}

// Two guarded drafts that each exclude the other: exactly one commits.
func TestLedgerStore_ConcurrentGuardedDrafts(t *testing.T) {
	s := NewLedgerStore(mc)
	w := newWallet(t, s)
	orderID := uuid.New()
	seed := creditDraft("100.00", nil)
	seed.RelatedOrderID = &orderID
	_, err := s.ApplyTransaction(context.Background(), w.ID, seed)
	require.NoError(t, err)

	exclusive := func(typ domain.TransactionType) domain.TransactionDraft {
		m := mc.MustParse("30.00")
		return domain.TransactionDraft{
			Type:           typ,
			RelatedOrderID: &orderID,
			Guard: func(entries []domain.WalletTransaction) error {
				for _, e := range entries {
					if e.Type == domain.TransactionTypePayout || e.Type == domain.TransactionTypeRefundDebit {
						return errOrderClosed
					}
				}
				return nil
			},
			Plan: func(domain.Wallet) (domain.BalanceDelta, error) {
				return domain.BalanceDelta{Available: m.Neg(), Reserved: mc.Zero()}, nil
			},
		}
	}

	const n = 20
	var wg sync.WaitGroup
	var ok, closed atomic.Int32
	for i := 0; i < n; i++ {
		typ := domain.TransactionTypePayout
		if i%2 == 1 {
			typ = domain.TransactionTypeRefundDebit
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.ApplyTransaction(context.Background(), w.ID, exclusive(typ))
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, errOrderClosed):
				closed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), ok.Load())
	assert.Equal(t, int32(n-1), closed.Load())
	got, err := s.GetWallet(context.Background(), w.ID)
	require.NoError(t, err)
	assert.Equal(t, "70.00", got.AvailableBalance.String())
}

func TestLedgerStore_ListTransactions(t *testing.T) {
	s := NewLedgerStore(mc)
	w := newWallet(t, s)
	for _, amt := range []string{"1.00", "2.00", "3.00"} {
		_, err := s.ApplyTransaction(context.Background(), w.ID, creditDraft(amt, nil))
		require.NoError(t, err)
	}
	_, err := s.ApplyTransaction(context.Background(), w.ID, reserveDraft("1.50"))
	require.NoError(t, err)

	t.Run("ascending page", func(t *testing.T) {
		txns, total, err := s.ListTransactions(context.Background(), ports.TransactionListParams{
			WalletID: w.ID, Page: 1, PageSize: 2,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		require.Len(t, txns, 2)
		assert.Equal(t, "1.00", txns[0].Amount.String())
		assert.Equal(t, "2.00", txns[1].Amount.String())
	})

	t.Run("descending", func(t *testing.T) {
		txns, _, err := s.ListTransactions(context.Background(), ports.TransactionListParams{
			WalletID: w.ID, Descending: true,
		})
		require.NoError(t, err)
		require.Len(t, txns, 4)
		assert.Equal(t, domain.TransactionTypeReservation, txns[0].Type)
	})

	t.Run("type filter", func(t *testing.T) {
		typ := domain.TransactionTypeReservation
		txns, total, err := s.ListTransactions(context.Background(), ports.TransactionListParams{
			WalletID: w.ID, Type: &typ,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "-1.50", txns[0].Amount.String())
		assert.Equal(t, "1.50", txns[0].ReservedDelta.String())
	})

	t.Run("page past the end", func(t *testing.T) {
		txns, total, err := s.ListTransactions(context.Background(), ports.TransactionListParams{
			WalletID: w.ID, Page: 5, PageSize: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Empty(t, txns)
	})
}
