package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/fieldline/backend/internal/application/catalogsync"
)

// CatalogHandler exposes snapshot refresh and status
type CatalogHandler struct {
	BaseHandler
	service *catalogsync.Service
}

// NewCatalogHandler creates a catalog handler
func NewCatalogHandler(service *catalogsync.Service) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// Refresh triggers a bulk fetch of the remote collections. On failure the
// previous snapshot stays in effect; the response reflects the stale state.
// POST /api/v1/catalog/refresh
func (h *CatalogHandler) Refresh(c *gin.Context) {
	_ = h.service.Refresh(c.Request.Context())
	h.Success(c, h.service.Status())
}

// Status returns the snapshot state
// GET /api/v1/catalog/status
func (h *CatalogHandler) Status(c *gin.Context) {
	h.Success(c, h.service.Status())
}
