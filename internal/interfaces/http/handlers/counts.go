// internal/interfaces/http/handlers/counts.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-gateway/internal/domain/counts"
	"github.com/your-org/storefront-gateway/internal/interfaces/http/middleware"
)

// CountsHandler handles badge count endpoints
type CountsHandler struct {
	counts *counts.Service
}

// NewCountsHandler creates a new counts handler
func NewCountsHandler(countsService *counts.Service) *CountsHandler {
	return &CountsHandler{
		counts: countsService,
	}
}

// GetCounts handles GET /counts
func (h *CountsHandler) GetCounts(c *gin.Context) {
	descriptor, _ := middleware.GetDescriptorFromContext(c)
	deviceID, _ := middleware.GetDeviceIDFromContext(c)

	snapshot := h.counts.Get(c.Request.Context(), descriptor, deviceID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    snapshot,
	})
}

// RefreshCounts handles POST /counts/refresh
func (h *CountsHandler) RefreshCounts(c *gin.Context) {
	descriptor, _ := middleware.GetDescriptorFromContext(c)
	deviceID, _ := middleware.GetDeviceIDFromContext(c)

	snapshot := h.counts.Refresh(c.Request.Context(), descriptor, deviceID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    snapshot,
	})
}
