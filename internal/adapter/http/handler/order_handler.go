package handler

import (
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// OrderHandler handles order settlement endpoints.
type OrderHandler struct {
	engine ports.SettlementEngine
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(engine ports.SettlementEngine) *OrderHandler {
	return &OrderHandler{engine: engine}
}

// Complete handles POST /api/v1/orders/:id/complete.
func (h *OrderHandler) Complete(c *gin.Context) {
	orderID, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c)(h.engine.CompleteOrder(c.Request.Context(), orderID))
}

// Payout handles POST /api/v1/orders/:id/payout.
func (h *OrderHandler) Payout(c *gin.Context) {
	orderID, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c)(h.engine.TriggerPayout(c.Request.Context(), orderID))
}

// ApproveRefund handles POST /api/v1/orders/:id/refunds/:refund_id/approve.
func (h *OrderHandler) ApproveRefund(c *gin.Context) {
	orderID, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	refundID, err := parseID(c, "refund_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c)(h.engine.ApproveRefund(c.Request.Context(), orderID, refundID))
}

// Settlement handles GET /api/v1/orders/:id/settlement.
func (h *OrderHandler) Settlement(c *gin.Context) {
	orderID, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	s, err := h.engine.OrderState(c.Request.Context(), orderID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toSettlementResponse(s))
}

func (h *OrderHandler) respond(c *gin.Context) func(*ports.SettlementOutcome, error) {
	return func(out *ports.SettlementOutcome, err error) {
		if err != nil {
			response.Error(c, err)
			return
		}
		if out.Replayed {
			response.OK(c, toOutcomeResponse(out))
			return
		}
		response.Created(c, toOutcomeResponse(out))
	}
}
