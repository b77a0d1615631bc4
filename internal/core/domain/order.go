package domain

import (
	"wallet-ledger/pkg/money"

	"github.com/google/uuid"
)

// RevenueType classifies the platform's share of an order.
type RevenueType string

const (
	RevenueTypeProduct  RevenueType = "product"
	RevenueTypeDelivery RevenueType = "delivery"
	RevenueTypeService  RevenueType = "service"
)

// RevenueShare is one platform revenue row for an order.
type RevenueShare struct {
	ID      uuid.UUID   `json:"id"`
	OrderID uuid.UUID   `json:"order_id"`
	Type    RevenueType `json:"type"`
	Amount  money.Money `json:"amount"`
}

// OrderFinancials are the read-only monetary facts of an order. The ledger
// never mutates them.
type OrderFinancials struct {
	OrderID     uuid.UUID      `json:"order_id"`
	ShopperID   uuid.UUID      `json:"shopper_id"`
	Total       money.Money    `json:"total"`
	ServiceFee  money.Money    `json:"service_fee"`
	DeliveryFee money.Money    `json:"delivery_fee"`
	Discount    money.Money    `json:"discount"`
	Revenue     []RevenueShare `json:"revenue"`
}

// ShopperEarning is total minus every platform revenue share minus the
// already-applied discount.
func (o *OrderFinancials) ShopperEarning(mc *money.Context) (money.Money, error) {
	earning, err := mc.Sub(o.Total, o.Discount)
	if err != nil {
		return money.Money{}, err
	}
	for _, r := range o.Revenue {
		if earning, err = mc.Sub(earning, r.Amount); err != nil {
			return money.Money{}, err
		}
	}
	return earning, nil
}

// Refund is an approved-or-pending refund row for an order.
type Refund struct {
	ID          uuid.UUID   `json:"id"`
	OrderID     uuid.UUID   `json:"order_id"`
	Amount      money.Money `json:"amount"`
	Reason      string      `json:"reason"`
	Paid        bool        `json:"paid"`
	GeneratedBy string      `json:"generated_by"`
}
