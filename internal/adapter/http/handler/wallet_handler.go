package handler

import (
	"context"

	"wallet-ledger/internal/adapter/http/dto"
	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"
	"wallet-ledger/pkg/money"
	"wallet-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WalletHandler handles wallet endpoints.
type WalletHandler struct {
	wallets ports.WalletManager
	mc      *money.Context
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(wallets ports.WalletManager, mc *money.Context) *WalletHandler {
	return &WalletHandler{wallets: wallets, mc: mc}
}

// intentFunc is the shape shared by the WalletManager balance intents.
type intentFunc func(ctx context.Context, walletID uuid.UUID, amount money.Money, opts ports.IntentOptions) (*domain.ApplyResult, error)

// GetOrCreate handles POST /api/v1/wallets.
func (h *WalletHandler) GetOrCreate(c *gin.Context) {
	var req dto.CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	w, err := h.wallets.GetOrCreateWallet(c.Request.Context(), uuid.MustParse(req.ShopperID))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toWalletResponse(w))
}

// Get handles GET /api/v1/wallets/:id.
func (h *WalletHandler) Get(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	w, err := h.wallets.GetWallet(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toWalletResponse(w))
}

// ListTransactions handles GET /api/v1/wallets/:id/transactions.
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var q dto.ListTransactionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	params := ports.TransactionListParams{
		WalletID:   id,
		From:       q.From,
		To:         q.To,
		Page:       q.Page,
		PageSize:   q.PageSize,
		Descending: q.Sort == "desc",
	}
	if q.Type != "" {
		typ := domain.TransactionType(q.Type)
		params.Type = &typ
	}
	if q.Status != "" {
		status := domain.TransactionStatus(q.Status)
		params.Status = &status
	}
	if q.OrderID != "" {
		orderID := uuid.MustParse(q.OrderID)
		params.RelatedOrderID = &orderID
	}
	params.Normalize()

	txns, total, err := h.wallets.ListTransactions(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paged(c, toTransactionList(txns), params.Page, params.PageSize, total)
}

// Reconcile handles GET /api/v1/wallets/:id/reconcile.
func (h *WalletHandler) Reconcile(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	report, err := h.wallets.Reconcile(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toReconcileResponse(report))
}

// Reserve handles POST /api/v1/wallets/:id/reserve.
func (h *WalletHandler) Reserve(c *gin.Context) { h.intent(c, h.wallets.Reserve) }

// Release handles POST /api/v1/wallets/:id/release.
func (h *WalletHandler) Release(c *gin.Context) { h.intent(c, h.wallets.Release) }

// Credit handles POST /api/v1/wallets/:id/credit.
func (h *WalletHandler) Credit(c *gin.Context) { h.intent(c, h.wallets.Credit) }

// Payout handles POST /api/v1/wallets/:id/payout.
func (h *WalletHandler) Payout(c *gin.Context) { h.intent(c, h.wallets.DebitPayout) }

// RefundDebit handles POST /api/v1/wallets/:id/refund-debit.
func (h *WalletHandler) RefundDebit(c *gin.Context) { h.intent(c, h.wallets.DebitForRefund) }

// Adjust handles POST /api/v1/wallets/:id/adjust.
func (h *WalletHandler) Adjust(c *gin.Context) { h.intent(c, h.wallets.Adjust) }

// intent binds an IntentRequest and runs fn. A fresh commit answers 201,
// a replay 200.
func (h *WalletHandler) intent(c *gin.Context, fn intentFunc) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.IntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	amount, err := parseAmount(h.mc, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	opts := ports.IntentOptions{
		IdempotencyKey: req.IdempotencyKey,
		Description:    req.Reason,
	}
	if req.OrderID != nil {
		orderID := uuid.MustParse(*req.OrderID)
		opts.OrderID = &orderID
	}

	result, err := fn(c.Request.Context(), id, amount, opts)
	if err != nil {
		response.Error(c, err)
		return
	}
	if result.Replayed {
		response.OK(c, toIntentResponse(result))
		return
	}
	response.Created(c, toIntentResponse(result))
}

// Reverse handles POST /api/v1/transactions/:id/reverse.
func (h *WalletHandler) Reverse(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.ReverseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.wallets.Reverse(c.Request.Context(), id, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	if result.Replayed {
		response.OK(c, toIntentResponse(result))
		return
	}
	response.Created(c, toIntentResponse(result))
}
