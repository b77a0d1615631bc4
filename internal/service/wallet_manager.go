package service

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

// WalletManagerImpl implements ports.WalletManager.
type WalletManagerImpl struct {
	store    ports.LedgerStore
	recorder ports.TransactionRecorder
	mc       *money.Context
	timeout  time.Duration
	log      zerolog.Logger
	now      func() time.Time
}

// NewWalletManager creates a new WalletManagerImpl. timeout bounds each
// operation whose context carries no deadline; zero disables it.
func NewWalletManager(
	store ports.LedgerStore,
	recorder ports.TransactionRecorder,
	mc *money.Context,
	timeout time.Duration,
	log zerolog.Logger,
) *WalletManagerImpl {
	return &WalletManagerImpl{
		store:    store,
		recorder: recorder,
		mc:       mc,
		timeout:  timeout,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (m *WalletManagerImpl) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || m.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, m.timeout)
}

// GetOrCreateWallet returns the shopper's wallet, creating it on first use.
func (m *WalletManagerImpl) GetOrCreateWallet(ctx context.Context, shopperID uuid.UUID) (*domain.Wallet, error) {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	w, err := m.store.GetWalletByShopper(ctx, shopperID)
	if err != nil {
		return nil, err
	}
	if w != nil {
		return w, nil
	}

	w = domain.NewWallet(shopperID, m.mc, m.now())
	err = m.store.CreateWallet(ctx, w)
	if apperror.HasCode(err, apperror.CodeDuplicateWallet) {
		// Lost the creation race; the winner's wallet is authoritative.
		existing, lookupErr := m.store.GetWalletByShopper(ctx, shopperID)
		if lookupErr != nil {
			return nil, lookupErr
		}
		if existing == nil {
			return nil, apperror.InternalError(fmt.Errorf("wallet for shopper %s vanished after duplicate insert", shopperID))
		}
		return existing, nil
	}
	if err != nil {
		return nil, err
	}

	m.log.Info().
		Str("wallet_id", w.ID.String()).
		Str("shopper_id", shopperID.String()).
		Msg("wallet created")
	return w, nil
}

// GetWallet returns the wallet or WalletNotFound.
func (m *WalletManagerImpl) GetWallet(ctx context.Context, walletID uuid.UUID) (*domain.Wallet, error) {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	w, err := m.store.GetWallet(ctx, walletID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, apperror.ErrWalletNotFound()
	}
	return w, nil
}

// Reserve moves amount from available to reserved.
func (m *WalletManagerImpl) Reserve(ctx context.Context, walletID uuid.UUID, amount money.Money, opts ports.IntentOptions) (*domain.ApplyResult, error) {
	if err := requirePositive(amount); err != nil {
		return nil, err
	}
	return m.record(ctx, walletID, domain.TransactionTypeReservation, opts, func(w domain.Wallet) (domain.BalanceDelta, error) {
		if w.AvailableBalance.LessThan(amount) {
			return domain.BalanceDelta{}, apperror.ErrInsufficientBalance()
		}
		return domain.BalanceDelta{Available: amount.Neg(), Reserved: amount}, nil
	})
}

// Release moves amount from reserved back to available.
func (m *WalletManagerImpl) Release(ctx context.Context, walletID uuid.UUID, amount money.Money, opts ports.IntentOptions) (*domain.ApplyResult, error) {
	if err := requirePositive(amount); err != nil {
		return nil, err
	}
	return m.record(ctx, walletID, domain.TransactionTypeRelease, opts, func(w domain.Wallet) (domain.BalanceDelta, error) {
		if w.ReservedBalance.LessThan(amount) {
			return domain.BalanceDelta{}, apperror.ErrInvalidReservationState()
		}
		return domain.BalanceDelta{Available: amount, Reserved: amount.Neg()}, nil
	})
}

// Credit adds amount to the available balance.
func (m *WalletManagerImpl) Credit(ctx context.Context, walletID uuid.UUID, amount money.Money, opts ports.IntentOptions) (*domain.ApplyResult, error) {
	if err := requirePositive(amount); err != nil {
		return nil, err
	}
	return m.record(ctx, walletID, domain.TransactionTypeEarning, opts, func(domain.Wallet) (domain.BalanceDelta, error) {
		return domain.BalanceDelta{Available: amount, Reserved: m.mc.Zero()}, nil
	})
}

// DebitPayout pays amount out of the available balance.
func (m *WalletManagerImpl) DebitPayout(ctx context.Context, walletID uuid.UUID, amount money.Money, opts ports.IntentOptions) (*domain.ApplyResult, error) {
	if err := requirePositive(amount); err != nil {
		return nil, err
	}
	return m.record(ctx, walletID, domain.TransactionTypePayout, opts, func(w domain.Wallet) (domain.BalanceDelta, error) {
		if w.AvailableBalance.LessThan(amount) {
			return domain.BalanceDelta{}, apperror.ErrInsufficientBalance()
		}
		return domain.BalanceDelta{Available: amount.Neg(), Reserved: m.mc.Zero()}, nil
	})
}

// CapturePayout pays amount out of funds previously reserved for it.
func (m *WalletManagerImpl) CapturePayout(ctx context.Context, walletID uuid.UUID, amount money.Money, opts ports.IntentOptions) (*domain.ApplyResult, error) {
	if err := requirePositive(amount); err != nil {
		return nil, err
	}
	return m.record(ctx, walletID, domain.TransactionTypePayout, opts, func(w domain.Wallet) (domain.BalanceDelta, error) {
		if w.ReservedBalance.LessThan(amount) {
			return domain.BalanceDelta{}, apperror.ErrInvalidReservationState()
		}
		return domain.BalanceDelta{Available: m.mc.Zero(), Reserved: amount.Neg()}, nil
	})
}

// DebitForRefund takes amount from reserved first and the remainder from
// available, or only from available with opts.AvailableOnly. The split is
// computed against the locked snapshot.
func (m *WalletManagerImpl) DebitForRefund(ctx context.Context, walletID uuid.UUID, amount money.Money, opts ports.IntentOptions) (*domain.ApplyResult, error) {
	if err := requirePositive(amount); err != nil {
		return nil, err
	}
	return m.record(ctx, walletID, domain.TransactionTypeRefundDebit, opts, func(w domain.Wallet) (domain.BalanceDelta, error) {
		fromReserved := amount.Min(w.ReservedBalance)
		if opts.AvailableOnly {
			fromReserved = m.mc.Zero()
		}
		remainder, err := m.mc.Sub(amount, fromReserved)
		if err != nil {
			return domain.BalanceDelta{}, apperror.ErrAmountOverflow(err)
		}
		if w.AvailableBalance.LessThan(remainder) {
			return domain.BalanceDelta{}, apperror.ErrInsufficientBalance()
		}
		return domain.BalanceDelta{Available: remainder.Neg(), Reserved: fromReserved.Neg()}, nil
	})
}

// Adjust applies a signed correction to the available balance.
func (m *WalletManagerImpl) Adjust(ctx context.Context, walletID uuid.UUID, amount money.Money, opts ports.IntentOptions) (*domain.ApplyResult, error) {
	if amount.IsZero() {
		return nil, apperror.ErrInvalidAmount(errors.New("adjustment must be non-zero"))
	}
	return m.record(ctx, walletID, domain.TransactionTypeAdjustment, opts, func(domain.Wallet) (domain.BalanceDelta, error) {
		return domain.BalanceDelta{Available: amount, Reserved: m.mc.Zero()}, nil
	})
}

// Reverse offsets a completed entry with a new adjustment. The original
// entry is left untouched and can be reversed at most once.
func (m *WalletManagerImpl) Reverse(ctx context.Context, transactionID uuid.UUID, reason string) (*domain.ApplyResult, error) {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	orig, err := m.store.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if orig == nil {
		return nil, apperror.ErrTransactionNotFound()
	}
	if orig.Status != domain.TransactionStatusCompleted {
		return nil, apperror.Validation("only completed entries can be reversed")
	}
	if orig.ReversalOf != nil {
		return nil, apperror.Validation("a reversal cannot itself be reversed")
	}

	key := domain.BuildReversalKey(orig.ID)
	description := reason
	if description == "" {
		description = "reversal of " + orig.ID.String()
	}
	offset := domain.BalanceDelta{Available: orig.AvailableDelta.Neg(), Reserved: orig.ReservedDelta.Neg()}

	return m.recorder.Record(ctx, orig.WalletID, domain.TransactionDraft{
		Type:           domain.TransactionTypeAdjustment,
		RelatedOrderID: orig.RelatedOrderID,
		IdempotencyKey: &key,
		ReversalOf:     &orig.ID,
		Description:    &description,
		Plan: func(domain.Wallet) (domain.BalanceDelta, error) {
			return offset, nil
		},
	})
}

// ListTransactions returns a page of the wallet's entries.
func (m *WalletManagerImpl) ListTransactions(ctx context.Context, params ports.TransactionListParams) ([]domain.WalletTransaction, int64, error) {
	if _, err := m.GetWallet(ctx, params.WalletID); err != nil {
		return nil, 0, err
	}
	params.Normalize()

	ctx, cancel := m.withTimeout(ctx)
	defer cancel()
	return m.store.ListTransactions(ctx, params)
}

// Reconcile replays the wallet's history from zero and compares the result
// with the stored balances and version.
func (m *WalletManagerImpl) Reconcile(ctx context.Context, walletID uuid.UUID) (*ports.ReconcileReport, error) {
	w, err := m.GetWallet(ctx, walletID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	txns, err := m.store.ListAllForWallet(ctx, walletID)
	if err != nil {
		return nil, err
	}

	replayed := domain.Wallet{AvailableBalance: m.mc.Zero(), ReservedBalance: m.mc.Zero()}
	consistent := int64(len(txns)) == w.Version
	for i := range txns {
		t := &txns[i]
		available, reserved, err := t.Delta().Apply(m.mc, replayed)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("replay entry %s: %w", t.ID, err))
		}
		replayed.AvailableBalance, replayed.ReservedBalance = available, reserved
		if t.Sequence != int64(i+1) ||
			!t.AvailableAfter.Equal(available) || !t.ReservedAfter.Equal(reserved) ||
			!domain.IsSolvent(available, reserved) {
			consistent = false
		}
	}
	consistent = consistent &&
		replayed.AvailableBalance.Equal(w.AvailableBalance) &&
		replayed.ReservedBalance.Equal(w.ReservedBalance)

	report := &ports.ReconcileReport{
		WalletID:          walletID,
		StoredAvailable:   w.AvailableBalance,
		StoredReserved:    w.ReservedBalance,
		ReplayedAvailable: replayed.AvailableBalance,
		ReplayedReserved:  replayed.ReservedBalance,
		Entries:           len(txns),
		Consistent:        consistent,
	}
	if !consistent {
		m.log.Error().
			Str("wallet_id", walletID.String()).
			Str("stored_available", w.AvailableBalance.String()).
			Str("replayed_available", replayed.AvailableBalance.String()).
			Int("entries", len(txns)).
			Msg("ledger history does not reproduce wallet balances")
	}
	return report, nil
}

func (m *WalletManagerImpl) record(
	ctx context.Context,
	walletID uuid.UUID,
	typ domain.TransactionType,
	opts ports.IntentOptions,
	plan domain.DeltaPlanner,
) (*domain.ApplyResult, error) {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	return m.recorder.Record(ctx, walletID, domain.TransactionDraft{
		Type:           typ,
		RelatedOrderID: opts.OrderID,
		IdempotencyKey: opts.IdempotencyKey,
		Description:    opts.Description,
		Plan:           plan,
		Guard:          opts.Guard,
	})
}

func requirePositive(amount money.Money) error {
	if !amount.IsPositive() {
		return apperror.ErrInvalidAmount(fmt.Errorf("amount must be positive, got %s", amount))
	}
	return nil
}
