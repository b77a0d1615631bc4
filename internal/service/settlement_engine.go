package service

import (
	"context"
	"fmt"
	"time"

	"wallet-ledger/config"
	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"
	"wallet-ledger/pkg/money"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SettlementEngineImpl implements ports.SettlementEngine. It keeps no state
// of its own: an order's position is always derived from its ledger entries.
type SettlementEngineImpl struct {
	wallets ports.WalletManager
	store   ports.LedgerStore
	facts   ports.OrderFactsReader
	cache   ports.SettlementCache // optional
	metrics ports.LedgerMetrics
	mc      *money.Context
	cfg     config.SettlementConfig
	log     zerolog.Logger
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewSettlementEngine creates a new SettlementEngineImpl. cache may be nil.
func NewSettlementEngine(
	wallets ports.WalletManager,
	store ports.LedgerStore,
	facts ports.OrderFactsReader,
	cache ports.SettlementCache,
	metrics ports.LedgerMetrics,
	mc *money.Context,
	cfg config.SettlementConfig,
	log zerolog.Logger,
) *SettlementEngineImpl {
	return &SettlementEngineImpl{
		wallets: wallets,
		store:   store,
		facts:   facts,
		cache:   cache,
		metrics: metrics,
		mc:      mc,
		cfg:     cfg,
		log:     log,
		sleep:   sleepContext,
	}
}

// ==================== Lifecycle events ====================

// CompleteOrder credits the shopper's earning for a completed order.
func (e *SettlementEngineImpl) CompleteOrder(ctx context.Context, orderID uuid.UUID) (*ports.SettlementOutcome, error) {
	var out *ports.SettlementOutcome
	err := e.withRetry(ctx, "complete_order", func(ctx context.Context) error {
		var err error
		out, err = e.completeOrder(ctx, orderID)
		return err
	})
	return out, err
}

func (e *SettlementEngineImpl) completeOrder(ctx context.Context, orderID uuid.UUID) (*ports.SettlementOutcome, error) {
	run := newStepRun()
	key := domain.BuildSettlementKey(orderID, domain.TransitionEarned, 0)

	// A cached earning makes the facts lookup unnecessary.
	if cached := e.cached(ctx, key); cached != nil {
		run.add(cached, true)
		e.metrics.ObserveSettlement(domain.TransitionEarned, ports.OutcomeReplayed)
		return e.outcome(ctx, orderID, run)
	}

	order, err := e.facts.GetOrderFinancials(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.ErrOrderNotFound()
	}

	earning, err := order.ShopperEarning(e.mc)
	if err != nil {
		return nil, apperror.ErrAmountOverflow(err)
	}
	if !earning.IsPositive() {
		return nil, apperror.ErrInvalidAmount(fmt.Errorf("order %s yields non-positive earning %s", orderID, earning))
	}

	wallet, err := e.wallets.GetOrCreateWallet(ctx, order.ShopperID)
	if err != nil {
		return nil, err
	}

	err = e.step(ctx, run, domain.TransitionEarned, key, func(opts ports.IntentOptions) (*domain.ApplyResult, error) {
		opts.OrderID = &orderID
		return e.wallets.Credit(ctx, wallet.ID, earning, opts)
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Str("order_id", orderID.String()).
		Str("wallet_id", wallet.ID.String()).
		Str("earning", earning.String()).
		Bool("replayed", run.replayed()).
		Msg("order earning settled")
	return e.outcome(ctx, orderID, run)
}

// TriggerPayout reserves the order's earning and captures it as a payout.
// A failed capture releases its own reservation before returning.
func (e *SettlementEngineImpl) TriggerPayout(ctx context.Context, orderID uuid.UUID) (*ports.SettlementOutcome, error) {
	var out *ports.SettlementOutcome
	err := e.withRetry(ctx, "trigger_payout", func(ctx context.Context) error {
		var err error
		out, err = e.triggerPayout(ctx, orderID)
		return err
	})
	return out, err
}

func (e *SettlementEngineImpl) triggerPayout(ctx context.Context, orderID uuid.UUID) (*ports.SettlementOutcome, error) {
	s, err := e.derive(ctx, orderID)
	if err != nil {
		return nil, err
	}

	run := newStepRun()
	switch s.State {
	case domain.SettlementStatePaidOut:
		run.add(s.Payout, true)
		return &ports.SettlementOutcome{Settlement: s, Transactions: run.txns, Replayed: true}, nil
	case domain.SettlementStateEarned, domain.SettlementStateReservedForPayout:
	default:
		return nil, apperror.ErrInvalidSettlementState(fmt.Sprintf("cannot pay out order in state %s", s.State))
	}

	walletID := s.Earning.WalletID
	amount := s.Earning.Amount
	attempt := s.PayoutAttempt()

	// Resuming RESERVED_FOR_PAYOUT replays this step: the outstanding
	// reservation carries the same attempt key.
	reserveKey := domain.BuildSettlementKey(orderID, domain.TransitionPayoutReserve, attempt)
	err = e.step(ctx, run, domain.TransitionPayoutReserve, reserveKey, func(opts ports.IntentOptions) (*domain.ApplyResult, error) {
		opts.OrderID = &orderID
		opts.Guard = domain.GuardSettlement(orderID, earnedAt(attempt))
		return e.wallets.Reserve(ctx, walletID, amount, opts)
	})
	if err != nil {
		return nil, err
	}

	captureKey := domain.BuildSettlementKey(orderID, domain.TransitionPayoutCapture, attempt)
	captureErr := e.step(ctx, run, domain.TransitionPayoutCapture, captureKey, func(opts ports.IntentOptions) (*domain.ApplyResult, error) {
		opts.OrderID = &orderID
		opts.Guard = domain.GuardSettlement(orderID, holding(reserveKey))
		return e.wallets.CapturePayout(ctx, walletID, amount, opts)
	})
	if captureErr != nil {
		// A retryable failure may have committed; the retry replays the
		// capture by key instead of compensating.
		if apperror.IsRetryable(captureErr) {
			return nil, captureErr
		}
		releaseKey := domain.BuildSettlementKey(orderID, domain.TransitionPayoutRelease, attempt)
		releaseErr := e.step(ctx, run, domain.TransitionPayoutRelease, releaseKey, func(opts ports.IntentOptions) (*domain.ApplyResult, error) {
			opts.OrderID = &orderID
			opts.Guard = domain.GuardSettlement(orderID, holding(reserveKey))
			return e.wallets.Release(ctx, walletID, amount, opts)
		})
		if apperror.HasCode(releaseErr, apperror.CodeInvalidSettlementState) {
			// A concurrent refund closed the reservation first.
			e.log.Warn().Err(captureErr).
				Str("order_id", orderID.String()).
				Int("attempt", attempt).
				Msg("payout capture failed; reservation already closed")
			return nil, captureErr
		}
		if releaseErr != nil {
			e.log.Error().Err(releaseErr).
				AnErr("capture_error", captureErr).
				Str("order_id", orderID.String()).
				Int("attempt", attempt).
				Msg("payout compensation failed; reservation left outstanding")
			return nil, releaseErr
		}
		e.log.Warn().Err(captureErr).
			Str("order_id", orderID.String()).
			Int("attempt", attempt).
			Msg("payout capture failed; reservation released")
		return nil, captureErr
	}

	e.log.Info().
		Str("order_id", orderID.String()).
		Str("wallet_id", walletID.String()).
		Str("amount", amount.String()).
		Int("attempt", attempt).
		Bool("replayed", run.replayed()).
		Msg("order paid out")
	return e.outcome(ctx, orderID, run)
}

// ApproveRefund debits an approved refund from the order's wallet, first
// releasing any outstanding payout reservation.
func (e *SettlementEngineImpl) ApproveRefund(ctx context.Context, orderID, refundID uuid.UUID) (*ports.SettlementOutcome, error) {
	var out *ports.SettlementOutcome
	err := e.withRetry(ctx, "approve_refund", func(ctx context.Context) error {
		var err error
		out, err = e.approveRefund(ctx, orderID, refundID)
		return err
	})
	return out, err
}

func (e *SettlementEngineImpl) approveRefund(ctx context.Context, orderID, refundID uuid.UUID) (*ports.SettlementOutcome, error) {
	refund, err := e.facts.GetRefund(ctx, refundID)
	if err != nil {
		return nil, err
	}
	if refund == nil || refund.OrderID != orderID {
		return nil, apperror.ErrRefundNotFound()
	}
	if !refund.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount(fmt.Errorf("refund %s has non-positive amount %s", refundID, refund.Amount))
	}

	s, err := e.derive(ctx, orderID)
	if err != nil {
		return nil, err
	}

	description := refundDescription(refundID)
	run := newStepRun()
	switch s.State {
	case domain.SettlementStateRefunded:
		if d := s.RefundDebit.Description; d == nil || *d != description {
			return nil, apperror.ErrInvalidSettlementState("order already refunded by another refund")
		}
		run.add(s.RefundDebit, true)
		return &ports.SettlementOutcome{Settlement: s, Transactions: run.txns, Replayed: true}, nil
	case domain.SettlementStateEarned, domain.SettlementStateReservedForPayout:
	default:
		return nil, apperror.ErrInvalidSettlementState(fmt.Sprintf("cannot refund order in state %s", s.State))
	}

	walletID := s.Earning.WalletID
	if r := s.OutstandingReservation; r != nil {
		held, reservationID := r.ReservedDelta, r.ID
		// The release closes this attempt's reservation; a later payout
		// starts at the next attempt.
		key := domain.BuildSettlementKey(orderID, domain.TransitionRefundRelease, s.PayoutAttempt())
		err = e.step(ctx, run, domain.TransitionRefundRelease, key, func(opts ports.IntentOptions) (*domain.ApplyResult, error) {
			opts.OrderID = &orderID
			opts.Guard = domain.GuardSettlement(orderID, stillHeld(reservationID))
			return e.wallets.Release(ctx, walletID, held, opts)
		})
		if err != nil {
			return nil, err
		}
	}

	key := domain.BuildSettlementKey(orderID, domain.TransitionRefundDebit, 0)
	err = e.step(ctx, run, domain.TransitionRefundDebit, key, func(opts ports.IntentOptions) (*domain.ApplyResult, error) {
		opts.OrderID = &orderID
		opts.Description = &description
		opts.AvailableOnly = true
		opts.Guard = domain.GuardSettlement(orderID, inState(domain.SettlementStateEarned))
		return e.wallets.DebitForRefund(ctx, walletID, refund.Amount, opts)
	})
	if err != nil {
		return nil, err
	}
	// A concurrent approval of another refund may own the debit key.
	if d := run.last().Description; d == nil || *d != description {
		return nil, apperror.ErrInvalidSettlementState("order already refunded by another refund")
	}

	e.log.Info().
		Str("order_id", orderID.String()).
		Str("refund_id", refundID.String()).
		Str("amount", refund.Amount.String()).
		Str("generated_by", refund.GeneratedBy).
		Bool("replayed", run.replayed()).
		Msg("order refunded")
	return e.outcome(ctx, orderID, run)
}

// OrderState returns the order's derived settlement position.
func (e *SettlementEngineImpl) OrderState(ctx context.Context, orderID uuid.UUID) (*domain.OrderSettlement, error) {
	s, err := e.derive(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if s.State == domain.SettlementStateNone {
		order, err := e.facts.GetOrderFinancials(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if order == nil {
			return nil, apperror.ErrOrderNotFound()
		}
	}
	return s, nil
}

// ==================== Helpers ====================

// stepRun collects the entries touched by one lifecycle event.
type stepRun struct {
	txns    []domain.WalletTransaction
	fresh   int
	settled int
}

func newStepRun() *stepRun { return &stepRun{} }

func (r *stepRun) add(t *domain.WalletTransaction, replayed bool) {
	r.txns = append(r.txns, *t)
	r.settled++
	if !replayed {
		r.fresh++
	}
}

func (r *stepRun) replayed() bool { return r.settled > 0 && r.fresh == 0 }

func (r *stepRun) last() *domain.WalletTransaction { return &r.txns[len(r.txns)-1] }

// Guards re-check a step's precondition against the order's entries inside
// the commit, so a step planned from a stale read cannot land.

func inState(want domain.SettlementState) func(*domain.OrderSettlement) error {
	return func(s *domain.OrderSettlement) error {
		if s.State != want {
			return movedTo(s.State)
		}
		return nil
	}
}

// earnedAt admits a payout reservation only at the attempt it was planned for.
func earnedAt(attempt int) func(*domain.OrderSettlement) error {
	return func(s *domain.OrderSettlement) error {
		if s.State != domain.SettlementStateEarned || s.PayoutAttempt() != attempt {
			return movedTo(s.State)
		}
		return nil
	}
}

// holding admits a step only while the reservation under reserveKey is
// outstanding.
func holding(reserveKey string) func(*domain.OrderSettlement) error {
	return func(s *domain.OrderSettlement) error {
		if !s.HoldsReservation(reserveKey) {
			return movedTo(s.State)
		}
		return nil
	}
}

func stillHeld(reservationID uuid.UUID) func(*domain.OrderSettlement) error {
	return func(s *domain.OrderSettlement) error {
		if r := s.OutstandingReservation; r == nil || r.ID != reservationID {
			return movedTo(s.State)
		}
		return nil
	}
}

func movedTo(state domain.SettlementState) error {
	return apperror.ErrInvalidSettlementState(fmt.Sprintf("order moved to state %s concurrently", state))
}

// step runs one keyed wallet intent, answering from the replay cache when
// possible and populating it after a commit.
func (e *SettlementEngineImpl) step(
	ctx context.Context,
	run *stepRun,
	transition domain.TransitionKind,
	key string,
	intent func(opts ports.IntentOptions) (*domain.ApplyResult, error),
) error {
	if cached := e.cached(ctx, key); cached != nil {
		run.add(cached, true)
		e.metrics.ObserveSettlement(transition, ports.OutcomeReplayed)
		return nil
	}

	res, err := intent(ports.IntentOptions{IdempotencyKey: &key})
	if err != nil {
		outcome := ports.OutcomeRejected
		if apperror.IsRetryable(err) {
			outcome = ports.OutcomeError
		}
		e.metrics.ObserveSettlement(transition, outcome)
		return err
	}

	run.add(res.Transaction, res.Replayed)
	outcome := ports.OutcomeCommitted
	if res.Replayed {
		outcome = ports.OutcomeReplayed
	}
	e.metrics.ObserveSettlement(transition, outcome)
	e.remember(ctx, key, res.Transaction)
	return nil
}

func (e *SettlementEngineImpl) cached(ctx context.Context, key string) *domain.WalletTransaction {
	if e.cache == nil {
		return nil
	}
	t, err := e.cache.Get(ctx, key)
	if err != nil {
		e.log.Warn().Err(err).Str("key", key).Msg("settlement cache read failed, falling through to ledger")
		return nil
	}
	return t
}

func (e *SettlementEngineImpl) remember(ctx context.Context, key string, t *domain.WalletTransaction) {
	if e.cache == nil || e.cfg.CacheTTL <= 0 {
		return
	}
	if err := e.cache.Set(ctx, key, t, e.cfg.CacheTTL); err != nil {
		e.log.Warn().Err(err).Str("key", key).Msg("settlement cache write failed")
	}
}

func (e *SettlementEngineImpl) derive(ctx context.Context, orderID uuid.UUID) (*domain.OrderSettlement, error) {
	txns, err := e.store.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return domain.DeriveSettlement(orderID, txns), nil
}

func (e *SettlementEngineImpl) outcome(ctx context.Context, orderID uuid.UUID, run *stepRun) (*ports.SettlementOutcome, error) {
	s, err := e.derive(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &ports.SettlementOutcome{Settlement: s, Transactions: run.txns, Replayed: run.replayed()}, nil
}

// withRetry reruns fn on retryable errors with linear backoff. Every step is
// keyed, so a rerun replays what already committed.
func (e *SettlementEngineImpl) withRetry(ctx context.Context, operation string, fn func(context.Context) error) error {
	maxAttempts := e.cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	for attempt := 1; ; attempt++ {
		err := fn(ctx)
		if err == nil || !apperror.IsRetryable(err) || attempt >= maxAttempts {
			return err
		}
		e.metrics.ObserveRetry(operation)
		e.log.Warn().Err(err).
			Str("operation", operation).
			Int("attempt", attempt).
			Msg("retrying settlement operation")
		if sleepErr := e.sleep(ctx, time.Duration(attempt)*e.cfg.RetryBackoff); sleepErr != nil {
			return err
		}
	}
}

func refundDescription(refundID uuid.UUID) string {
	return "refund " + refundID.String()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
