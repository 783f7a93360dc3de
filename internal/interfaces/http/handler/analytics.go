package handler

import (
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fieldline/backend/internal/application/analytics"
	"github.com/fieldline/backend/internal/interfaces/http/middleware"
)

// AnalyticsHandler exposes the aggregation dashboards
type AnalyticsHandler struct {
	BaseHandler
	service *analytics.Service
	logger  *zap.Logger
}

// NewAnalyticsHandler creates an analytics handler
func NewAnalyticsHandler(service *analytics.Service, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{service: service, logger: logger}
}

func scopeOf(c *gin.Context) analytics.Scope {
	return analytics.Scope(c.DefaultQuery("scope", string(analytics.ScopeMine)))
}

// Dashboard returns the current aggregation result
// GET /api/v1/analytics/dashboard?scope=mine|team
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.service.Dashboard(c.Request.Context(), middleware.GetUID(c), scopeOf(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dashboard)
}

// WindowRequest changes the rolling window length
type WindowRequest struct {
	Days int `json:"days" binding:"required,min=1,max=366"`
}

// SetWindow changes the rolling window and returns the recomputed dashboard
// PUT /api/v1/analytics/window?scope=mine|team
func (h *AnalyticsHandler) SetWindow(c *gin.Context) {
	var req WindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "days must be between 1 and 366")
		return
	}

	dashboard, err := h.service.SetWindow(c.Request.Context(), middleware.GetUID(c), scopeOf(c), req.Days)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dashboard)
}

// SelectionRequest pins a ranking list's chart on an entity. An empty id
// releases the pin.
type SelectionRequest struct {
	List analytics.List `json:"list" binding:"required"`
	ID   string         `json:"id"`
}

// SetSelection pins or releases a chart selection
// PUT /api/v1/analytics/selection?scope=mine|team
func (h *AnalyticsHandler) SetSelection(c *gin.Context) {
	var req SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "list is required")
		return
	}

	dashboard, err := h.service.Pin(c.Request.Context(), middleware.GetUID(c), scopeOf(c), req.List, req.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dashboard)
}

// Stream pushes dashboard updates over server-sent events until the client
// disconnects. Each event carries a complete dashboard, starting with the
// current one.
// GET /api/v1/analytics/stream?scope=mine|team
func (h *AnalyticsHandler) Stream(c *gin.Context) {
	updates, cancel, err := h.service.Subscribe(c.Request.Context(), middleware.GetUID(c), scopeOf(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-clientGone:
			return false
		case dashboard, ok := <-updates:
			if !ok {
				return false
			}
			payload, err := json.Marshal(dashboard)
			if err != nil {
				h.logger.Error("failed to encode dashboard event", zap.Error(err))
				return false
			}
			c.SSEvent("dashboard", string(payload))
			return true
		}
	})
}
