package dto

import "time"

// CreateWalletRequest is the request body for wallet get-or-create.
type CreateWalletRequest struct {
	ShopperID string `json:"shopper_id" binding:"required,uuid"`
}

// IntentRequest is the request body shared by every wallet intent.
// Amount is a decimal string such as "120.50"; adjustments may be negative.
type IntentRequest struct {
	Amount         string  `json:"amount" binding:"required,decimal_amount"`
	OrderID        *string `json:"order_id,omitempty" binding:"omitempty,uuid"`
	IdempotencyKey *string `json:"idempotency_key,omitempty" binding:"omitempty,min=1,max=200,safe_id"`
	Reason         *string `json:"reason,omitempty" binding:"omitempty,max=500"`
}

// ReverseRequest is the request body for reversing a ledger entry.
type ReverseRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// ListTransactionsQuery holds the query parameters of a transaction listing.
type ListTransactionsQuery struct {
	Type     string     `form:"type" binding:"omitempty,oneof=earning reservation release payout refund_debit adjustment"`
	Status   string     `form:"status" binding:"omitempty,oneof=pending completed reversed"`
	OrderID  string     `form:"order_id" binding:"omitempty,uuid"`
	From     *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To       *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	Sort     string     `form:"sort" binding:"omitempty,oneof=asc desc"`
}

// WalletResponse is the response body for a wallet.
type WalletResponse struct {
	ID               string `json:"id"`
	ShopperID        string `json:"shopper_id"`
	AvailableBalance string `json:"available_balance"`
	ReservedBalance  string `json:"reserved_balance"`
	Version          int64  `json:"version"`
	CreatedAt        string `json:"created_at"`
	LastUpdated      string `json:"last_updated"`
}

// TransactionResponse is the response body for one ledger entry.
type TransactionResponse struct {
	ID             string  `json:"id"`
	WalletID       string  `json:"wallet_id"`
	Amount         string  `json:"amount"`
	Type           string  `json:"type"`
	Status         string  `json:"status"`
	RelatedOrderID *string `json:"related_order_id,omitempty"`
	AvailableDelta string  `json:"available_delta"`
	ReservedDelta  string  `json:"reserved_delta"`
	AvailableAfter string  `json:"available_after"`
	ReservedAfter  string  `json:"reserved_after"`
	Sequence       int64   `json:"sequence"`
	IdempotencyKey *string `json:"idempotency_key,omitempty"`
	ReversalOf     *string `json:"reversal_of,omitempty"`
	Description    *string `json:"description,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

// IntentResponse is the response body of a committed (or replayed) intent.
type IntentResponse struct {
	Wallet      WalletResponse      `json:"wallet"`
	Transaction TransactionResponse `json:"transaction"`
	Replayed    bool                `json:"replayed"`
}

// ReconcileResponse reports whether a wallet's history reproduces its balances.
type ReconcileResponse struct {
	WalletID          string `json:"wallet_id"`
	StoredAvailable   string `json:"stored_available"`
	StoredReserved    string `json:"stored_reserved"`
	ReplayedAvailable string `json:"replayed_available"`
	ReplayedReserved  string `json:"replayed_reserved"`
	Entries           int    `json:"entries"`
	Consistent        bool   `json:"consistent"`
}

// SettlementResponse is an order's settlement position.
type SettlementResponse struct {
	OrderID       string               `json:"order_id"`
	State         string               `json:"state"`
	WalletID      *string              `json:"wallet_id,omitempty"`
	Earning       *TransactionResponse `json:"earning,omitempty"`
	Reservation   *TransactionResponse `json:"outstanding_reservation,omitempty"`
	Payout        *TransactionResponse `json:"payout,omitempty"`
	RefundDebit   *TransactionResponse `json:"refund_debit,omitempty"`
	Compensations int                  `json:"compensations"`
}

// SettlementOutcomeResponse is the result of one order lifecycle event.
type SettlementOutcomeResponse struct {
	Settlement   SettlementResponse    `json:"settlement"`
	Transactions []TransactionResponse `json:"transactions"`
	Replayed     bool                  `json:"replayed"`
}
