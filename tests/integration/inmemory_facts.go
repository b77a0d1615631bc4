package integration

import (
	"context"
	"sync"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
)

// inMemoryFacts is an OrderFactsReader the tests seed directly.
type inMemoryFacts struct {
	mu      sync.RWMutex
	orders  map[uuid.UUID]*domain.OrderFinancials
	refunds map[uuid.UUID]*domain.Refund
}

func newInMemoryFacts() *inMemoryFacts {
	return &inMemoryFacts{
		orders:  make(map[uuid.UUID]*domain.OrderFinancials),
		refunds: make(map[uuid.UUID]*domain.Refund),
	}
}

func (f *inMemoryFacts) putOrder(o *domain.OrderFinancials) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders[o.OrderID] = o
}

func (f *inMemoryFacts) putRefund(r *domain.Refund) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refunds[r.ID] = r
}

func (f *inMemoryFacts) GetOrderFinancials(_ context.Context, orderID uuid.UUID) (*domain.OrderFinancials, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	o, ok := f.orders[orderID]
	if !ok {
		return nil, nil
	}
	cp := *o
	cp.Revenue = append([]domain.RevenueShare(nil), o.Revenue...)
	return &cp, nil
}

func (f *inMemoryFacts) GetRefund(_ context.Context, refundID uuid.UUID) (*domain.Refund, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	r, ok := f.refunds[refundID]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}
