package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/pkg/money"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// SettlementCache implements ports.SettlementCache using Redis. Entries are
// keyed by settlement idempotency key.
type SettlementCache struct {
	client goredis.UniversalClient
	mc     *money.Context
	prefix string
}

// NewSettlementCache creates a new Redis-backed settlement cache.
func NewSettlementCache(client goredis.UniversalClient, mc *money.Context) *SettlementCache {
	return &SettlementCache{
		client: client,
		mc:     mc,
		prefix: "settlement:",
	}
}

// cachedEntry keeps amounts as strings so they decode with the configured
// precision rather than the package default.
type cachedEntry struct {
	ID             uuid.UUID                `json:"id"`
	WalletID       uuid.UUID                `json:"wallet_id"`
	Amount         string                   `json:"amount"`
	Type           domain.TransactionType   `json:"type"`
	Status         domain.TransactionStatus `json:"status"`
	RelatedOrderID *uuid.UUID               `json:"related_order_id,omitempty"`
	AvailableDelta string                   `json:"available_delta"`
	ReservedDelta  string                   `json:"reserved_delta"`
	AvailableAfter string                   `json:"available_after"`
	ReservedAfter  string                   `json:"reserved_after"`
	Sequence       int64                    `json:"sequence"`
	IdempotencyKey *string                  `json:"idempotency_key,omitempty"`
	ReversalOf     *uuid.UUID               `json:"reversal_of,omitempty"`
	Description    *string                  `json:"description,omitempty"`
	CreatedAt      time.Time                `json:"created_at"`
}

// Get returns the entry cached under key, or nil, nil on a miss.
func (c *SettlementCache) Get(ctx context.Context, key string) (*domain.WalletTransaction, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis settlement get: %w", err)
	}

	var e cachedEntry
	if err := json.Unmarshal(val, &e); err != nil {
		return nil, fmt.Errorf("decode cached settlement: %w", err)
	}
	return c.decode(&e)
}

// Set stores an entry with TTL.
func (c *SettlementCache) Set(ctx context.Context, key string, txn *domain.WalletTransaction, ttl time.Duration) error {
	payload, err := json.Marshal(cachedEntry{
		ID:             txn.ID,
		WalletID:       txn.WalletID,
		Amount:         txn.Amount.String(),
		Type:           txn.Type,
		Status:         txn.Status,
		RelatedOrderID: txn.RelatedOrderID,
		AvailableDelta: txn.AvailableDelta.String(),
		ReservedDelta:  txn.ReservedDelta.String(),
		AvailableAfter: txn.AvailableAfter.String(),
		ReservedAfter:  txn.ReservedAfter.String(),
		Sequence:       txn.Sequence,
		IdempotencyKey: txn.IdempotencyKey,
		ReversalOf:     txn.ReversalOf,
		Description:    txn.Description,
		CreatedAt:      txn.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("encode settlement: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis settlement set: %w", err)
	}
	return nil
}

func (c *SettlementCache) decode(e *cachedEntry) (*domain.WalletTransaction, error) {
	t := &domain.WalletTransaction{
		ID:             e.ID,
		WalletID:       e.WalletID,
		Type:           e.Type,
		Status:         e.Status,
		RelatedOrderID: e.RelatedOrderID,
		Sequence:       e.Sequence,
		IdempotencyKey: e.IdempotencyKey,
		ReversalOf:     e.ReversalOf,
		Description:    e.Description,
		CreatedAt:      e.CreatedAt,
	}
	pairs := []struct {
		dst *money.Money
		src string
	}{
		{&t.Amount, e.Amount},
		{&t.AvailableDelta, e.AvailableDelta},
		{&t.ReservedDelta, e.ReservedDelta},
		{&t.AvailableAfter, e.AvailableAfter},
		{&t.ReservedAfter, e.ReservedAfter},
	}
	for _, p := range pairs {
		m, err := c.mc.Parse(p.src)
		if err != nil {
			return nil, fmt.Errorf("decode cached amount: %w", err)
		}
		*p.dst = m
	}
	return t, nil
}
