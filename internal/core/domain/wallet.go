package domain

import (
	"time"

	"wallet-ledger/pkg/money"

	"github.com/google/uuid"
)

// Wallet is one shopper's account. Balances change only through
// ApplyTransaction; Version is the per-wallet commit sequence.
type Wallet struct {
	ID               uuid.UUID   `json:"id"`
	ShopperID        uuid.UUID   `json:"shopper_id"`
	AvailableBalance money.Money `json:"available_balance"`
	ReservedBalance  money.Money `json:"reserved_balance"`
	Version          int64       `json:"version"`
	CreatedAt        time.Time   `json:"created_at"`
	LastUpdated      time.Time   `json:"last_updated"`
}

// NewWallet returns a zero-balance wallet for the shopper.
func NewWallet(shopperID uuid.UUID, mc *money.Context, now time.Time) *Wallet {
	return &Wallet{
		ID:               uuid.New(),
		ShopperID:        shopperID,
		AvailableBalance: mc.Zero(),
		ReservedBalance:  mc.Zero(),
		CreatedAt:        now,
		LastUpdated:      now,
	}
}

// BalanceDelta is the signed effect of one ledger entry on both balances.
type BalanceDelta struct {
	Available money.Money
	Reserved  money.Money
}

// Net is the combined effect on both balances.
func (d BalanceDelta) Net(mc *money.Context) (money.Money, error) {
	return mc.Add(d.Available, d.Reserved)
}

// EntryAmount is the signed amount recorded for an entry of type typ.
// Reservations and releases move funds between balances, so their amount is
// the change in spendable funds; every other type records the net effect.
func (d BalanceDelta) EntryAmount(mc *money.Context, typ TransactionType) (money.Money, error) {
	switch typ {
	case TransactionTypeReservation, TransactionTypeRelease:
		return d.Available, nil
	}
	return d.Net(mc)
}

// Apply returns the balances after the delta. It does not enforce
// non-negativity; callers check with IsSolvent.
func (d BalanceDelta) Apply(mc *money.Context, w Wallet) (available, reserved money.Money, err error) {
	if available, err = mc.Add(w.AvailableBalance, d.Available); err != nil {
		return money.Money{}, money.Money{}, err
	}
	if reserved, err = mc.Add(w.ReservedBalance, d.Reserved); err != nil {
		return money.Money{}, money.Money{}, err
	}
	return available, reserved, nil
}

// IsSolvent reports whether both balances are non-negative.
func IsSolvent(available, reserved money.Money) bool {
	return !available.IsNegative() && !reserved.IsNegative()
}
