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

// OrderFactsRepo implements ports.OrderFactsReader over the orders,
// revenue and refunds tables. It never writes.
type OrderFactsRepo struct {
	pool Pool
	mc   *money.Context
}

// NewOrderFactsRepo creates a new OrderFactsRepo.
func NewOrderFactsRepo(pool Pool, mc *money.Context) *OrderFactsRepo {
	return &OrderFactsRepo{pool: pool, mc: mc}
}

// GetOrderFinancials loads an order's monetary columns and its revenue rows.
func (r *OrderFactsRepo) GetOrderFinancials(ctx context.Context, orderID uuid.UUID) (*domain.OrderFinancials, error) {
	query := `SELECT id, shopper_id, total::text, service_fee::text, delivery_fee::text, discount::text
		FROM orders WHERE id = $1`

	var total, serviceFee, deliveryFee, discount string
	o := &domain.OrderFinancials{}
	err := r.pool.QueryRow(ctx, query, orderID).Scan(
		&o.OrderID, &o.ShopperID, &total, &serviceFee, &deliveryFee, &discount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageError("get order", err)
	}
	if err := r.decode(
		[]*money.Money{&o.Total, &o.ServiceFee, &o.DeliveryFee, &o.Discount},
		[]string{total, serviceFee, deliveryFee, discount},
	); err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `SELECT id, order_id, type, amount::text FROM revenue
		WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, storageError("list revenue", err)
	}
	defer rows.Close()

	for rows.Next() {
		var amount string
		rev := domain.RevenueShare{}
		if err := rows.Scan(&rev.ID, &rev.OrderID, &rev.Type, &amount); err != nil {
			return nil, storageError("scan revenue row", err)
		}
		if err := r.decode([]*money.Money{&rev.Amount}, []string{amount}); err != nil {
			return nil, err
		}
		o.Revenue = append(o.Revenue, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("iterate revenue rows", err)
	}
	return o, nil
}

// GetRefund loads one refund row.
func (r *OrderFactsRepo) GetRefund(ctx context.Context, refundID uuid.UUID) (*domain.Refund, error) {
	query := `SELECT id, order_id, amount::text, reason, paid, generated_by FROM refunds WHERE id = $1`

	var amount string
	ref := &domain.Refund{}
	err := r.pool.QueryRow(ctx, query, refundID).Scan(
		&ref.ID, &ref.OrderID, &amount, &ref.Reason, &ref.Paid, &ref.GeneratedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageError("get refund", err)
	}
	if err := r.decode([]*money.Money{&ref.Amount}, []string{amount}); err != nil {
		return nil, err
	}
	return ref, nil
}

func (r *OrderFactsRepo) decode(dst []*money.Money, src []string) error {
	for i := range dst {
		m, err := r.mc.ParseStored(src[i])
		if err != nil {
			return apperror.InternalError(fmt.Errorf("decode order amount: %w", err))
		}
		*dst[i] = m
	}
	return nil
}
