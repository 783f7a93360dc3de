package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fieldline/backend/internal/application/hierarchy"
	"github.com/fieldline/backend/internal/application/orderentry"
	"github.com/fieldline/backend/internal/interfaces/http/middleware"
)

// OrderHandler exposes draft editing, order commit, and the two-step delete
type OrderHandler struct {
	BaseHandler
	entry     *orderentry.Service
	hierarchy *hierarchy.Service
}

// NewOrderHandler creates an order handler
func NewOrderHandler(entry *orderentry.Service, hierarchySvc *hierarchy.Service) *OrderHandler {
	return &OrderHandler{entry: entry, hierarchy: hierarchySvc}
}

// StageLineRequest stages a quantity for a product in the draft
type StageLineRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int64  `json:"quantity"`
}

// StageLine validates and stores a draft line, returning its state
// POST /api/v1/orders/draft/lines
func (h *OrderHandler) StageLine(c *gin.Context) {
	var req StageLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "product_id is required")
		return
	}

	line, err := h.entry.Stage(c.Request.Context(), middleware.GetUID(c), req.ProductID, req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, line)
}

// UnstageLine removes a product line from the draft
// DELETE /api/v1/orders/draft/lines/:productID
func (h *OrderHandler) UnstageLine(c *gin.Context) {
	h.entry.Unstage(c.Request.Context(), middleware.GetUID(c), c.Param("productID"))
	h.NoContent(c)
}

// Draft returns the current draft state
// GET /api/v1/orders/draft
func (h *OrderHandler) Draft(c *gin.Context) {
	h.Success(c, h.entry.Draft(c.Request.Context(), middleware.GetUID(c)))
}

// ClearDraft discards the draft
// DELETE /api/v1/orders/draft
func (h *OrderHandler) ClearDraft(c *gin.Context) {
	h.entry.Clear(c.Request.Context(), middleware.GetUID(c))
	h.NoContent(c)
}

// CommitRequest commits the draft for a client
type CommitRequest struct {
	ClientID string `json:"client_id" binding:"required"`
}

// Commit turns the draft into a durable order
// POST /api/v1/orders
func (h *OrderHandler) Commit(c *gin.Context) {
	var req CommitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "client_id is required")
		return
	}

	order, err := h.entry.Commit(c.Request.Context(), middleware.GetUID(c), req.ClientID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// SoftDelete hides an order pending delete confirmation
// DELETE /api/v1/orders/:id
func (h *OrderHandler) SoftDelete(c *gin.Context) {
	orderID, ok := h.orderID(c)
	if !ok {
		return
	}
	if err := h.hierarchy.SoftDelete(c.Request.Context(), middleware.GetUID(c), orderID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Undo restores a soft-deleted order
// POST /api/v1/orders/:id/undo
func (h *OrderHandler) Undo(c *gin.Context) {
	orderID, ok := h.orderID(c)
	if !ok {
		return
	}
	if err := h.hierarchy.Undo(c.Request.Context(), middleware.GetUID(c), orderID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CommitDelete permanently removes a soft-deleted order
// DELETE /api/v1/orders/:id/commit
func (h *OrderHandler) CommitDelete(c *gin.Context) {
	orderID, ok := h.orderID(c)
	if !ok {
		return
	}
	if err := h.hierarchy.CommitDelete(c.Request.Context(), middleware.GetUID(c), orderID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *OrderHandler) orderID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.BadRequest(c, "invalid order id")
		return 0, false
	}
	return uint(id), true
}
