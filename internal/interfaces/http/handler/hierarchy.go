package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/fieldline/backend/internal/application/hierarchy"
	"github.com/fieldline/backend/internal/interfaces/http/middleware"
)

// HierarchyHandler exposes the Client -> Order -> Product view
type HierarchyHandler struct {
	BaseHandler
	service *hierarchy.Service
}

// NewHierarchyHandler creates a hierarchy handler
func NewHierarchyHandler(service *hierarchy.Service) *HierarchyHandler {
	return &HierarchyHandler{service: service}
}

// View returns the salesman's orders grouped under their clients
// GET /api/v1/hierarchy
func (h *HierarchyHandler) View(c *gin.Context) {
	groups, err := h.service.View(c.Request.Context(), middleware.GetUID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, groups)
}
