// Package memory provides an in-process LedgerStore. Each wallet carries
// its own mutex, so commits on one wallet serialize while different wallets
// proceed in parallel.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"
	"wallet-ledger/pkg/money"

	"github.com/google/uuid"
)

type walletCell struct {
	mu     sync.Mutex
	wallet domain.Wallet
}

// LedgerStore implements ports.LedgerStore in memory.
type LedgerStore struct {
	mc  *money.Context
	now func() time.Time

	mu        sync.RWMutex
	wallets   map[uuid.UUID]*walletCell
	byShopper map[uuid.UUID]uuid.UUID
	txns      map[uuid.UUID]*domain.WalletTransaction
	byKey     map[string]uuid.UUID
	history   map[uuid.UUID][]uuid.UUID // wallet -> entries by sequence
	byOrder   map[uuid.UUID][]uuid.UUID // order -> entries by commit
}

// NewLedgerStore creates an empty store.
func NewLedgerStore(mc *money.Context) *LedgerStore {
	return &LedgerStore{
		mc:        mc,
		now:       func() time.Time { return time.Now().UTC() },
		wallets:   make(map[uuid.UUID]*walletCell),
		byShopper: make(map[uuid.UUID]uuid.UUID),
		txns:      make(map[uuid.UUID]*domain.WalletTransaction),
		byKey:     make(map[string]uuid.UUID),
		history:   make(map[uuid.UUID][]uuid.UUID),
		byOrder:   make(map[uuid.UUID][]uuid.UUID),
	}
}

func (s *LedgerStore) CreateWallet(ctx context.Context, w *domain.Wallet) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byShopper[w.ShopperID]; exists {
		return apperror.ErrDuplicateWallet()
	}
	if _, exists := s.wallets[w.ID]; exists {
		return apperror.ErrDuplicateWallet()
	}
	s.wallets[w.ID] = &walletCell{wallet: *w}
	s.byShopper[w.ShopperID] = w.ID
	return nil
}

func (s *LedgerStore) GetWallet(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	cell, ok := s.wallets[id]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	cell.mu.Lock()
	w := cell.wallet
	cell.mu.Unlock()
	return &w, nil
}

func (s *LedgerStore) GetWalletByShopper(ctx context.Context, shopperID uuid.UUID) (*domain.Wallet, error) {
	s.mu.RLock()
	id, ok := s.byShopper[shopperID]
	s.mu.RUnlock()
	if !ok {
		return nil, checkContext(ctx)
	}
	return s.GetWallet(ctx, id)
}

// ApplyTransaction holds the wallet mutex across the idempotency check, the
// guard, the planner and the commit. An order's entries all live on one
// wallet, so the guard sees every entry committed before this one.
func (s *LedgerStore) ApplyTransaction(ctx context.Context, walletID uuid.UUID, draft domain.TransactionDraft) (*domain.ApplyResult, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	cell, ok := s.wallets[walletID]
	s.mu.RUnlock()
	if !ok {
		return nil, apperror.ErrWalletNotFound()
	}

	cell.mu.Lock()
	defer cell.mu.Unlock()

	if draft.IdempotencyKey != nil {
		if prior := s.priorByKey(*draft.IdempotencyKey); prior != nil {
			return replay(cell.wallet, prior), nil
		}
	}

	if draft.Guard != nil {
		if err := draft.Guard(s.orderEntries(draft.RelatedOrderID)); err != nil {
			return nil, err
		}
	}

	delta, err := draft.Plan(cell.wallet)
	if err != nil {
		return nil, err
	}
	available, reserved, err := delta.Apply(s.mc, cell.wallet)
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

	// Last cancellation point; nothing below can fail.
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	now := s.now()
	next := cell.wallet
	next.AvailableBalance = available
	next.ReservedBalance = reserved
	next.Version++
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

	s.mu.Lock()
	if draft.IdempotencyKey != nil {
		// The same key may race in from another wallet.
		if id, dup := s.byKey[*draft.IdempotencyKey]; dup {
			prior := *s.txns[id]
			s.mu.Unlock()
			return replay(cell.wallet, &prior), nil
		}
		s.byKey[*draft.IdempotencyKey] = txn.ID
	}
	s.txns[txn.ID] = txn
	s.history[walletID] = append(s.history[walletID], txn.ID)
	if txn.RelatedOrderID != nil {
		s.byOrder[*txn.RelatedOrderID] = append(s.byOrder[*txn.RelatedOrderID], txn.ID)
	}
	s.mu.Unlock()

	cell.wallet = next
	w, t := next, *txn
	return &domain.ApplyResult{Wallet: &w, Transaction: &t}, nil
}

func (s *LedgerStore) GetTransaction(ctx context.Context, id uuid.UUID) (*domain.WalletTransaction, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.txns[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (s *LedgerStore) FindByIdempotencyKey(ctx context.Context, key string) (*domain.WalletTransaction, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	return s.priorByKey(key), nil
}

func (s *LedgerStore) ListTransactions(ctx context.Context, params ports.TransactionListParams) ([]domain.WalletTransaction, int64, error) {
	if err := checkContext(ctx); err != nil {
		return nil, 0, err
	}
	params.Normalize()

	s.mu.RLock()
	matched := make([]domain.WalletTransaction, 0)
	for _, id := range s.history[params.WalletID] {
		if t := s.txns[id]; matches(t, params) {
			matched = append(matched, *t)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		if params.Descending {
			return matched[i].Sequence > matched[j].Sequence
		}
		return matched[i].Sequence < matched[j].Sequence
	})

	total := int64(len(matched))
	start := params.Offset()
	if start >= len(matched) {
		return []domain.WalletTransaction{}, total, nil
	}
	end := start + params.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (s *LedgerStore) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]domain.WalletTransaction, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(s.byOrder[orderID]), nil
}

func (s *LedgerStore) ListAllForWallet(ctx context.Context, walletID uuid.UUID) ([]domain.WalletTransaction, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(s.history[walletID]), nil
}

func (s *LedgerStore) priorByKey(key string) *domain.WalletTransaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byKey[key]
	if !ok {
		return nil
	}
	cp := *s.txns[id]
	return &cp
}

func (s *LedgerStore) orderEntries(orderID *uuid.UUID) []domain.WalletTransaction {
	if orderID == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(s.byOrder[*orderID])
}

// collect must be called with s.mu held.
func (s *LedgerStore) collect(ids []uuid.UUID) []domain.WalletTransaction {
	out := make([]domain.WalletTransaction, 0, len(ids))
	for _, id := range ids {
		out = append(out, *s.txns[id])
	}
	return out
}

func matches(t *domain.WalletTransaction, p ports.TransactionListParams) bool {
	if p.Type != nil && t.Type != *p.Type {
		return false
	}
	if p.Status != nil && t.Status != *p.Status {
		return false
	}
	if p.RelatedOrderID != nil && (t.RelatedOrderID == nil || *t.RelatedOrderID != *p.RelatedOrderID) {
		return false
	}
	if p.From != nil && t.CreatedAt.Before(*p.From) {
		return false
	}
	if p.To != nil && t.CreatedAt.After(*p.To) {
		return false
	}
	return true
}

func replay(w domain.Wallet, prior *domain.WalletTransaction) *domain.ApplyResult {
	return &domain.ApplyResult{Wallet: &w, Transaction: prior, Replayed: true}
}

func checkContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return apperror.ErrStorageUnavailable(err)
	}
	return nil
}
