// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-gateway/internal/domain/cart"
	"github.com/your-org/storefront-gateway/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-gateway/internal/pkg/events"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	cart   *cart.Service
	bus    *events.Bus
	logger *logrus.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.Service, bus *events.Bus, logger *logrus.Logger) *CartHandler {
	return &CartHandler{
		cart:   cartService,
		bus:    bus,
		logger: logger,
	}
}

// AddItemRequest is the add-to-cart payload
type AddItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// UpdateItemRequest is the quantity-update payload
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// GetCart handles GET /cart. A backend failure still renders a well-formed
// empty cart so the caller never sees a malformed structure.
func (h *CartHandler) GetCart(c *gin.Context) {
	descriptor, _ := middleware.GetDescriptorFromContext(c)

	result, err := h.cart.Get(c.Request.Context(), descriptor)
	if err != nil {
		h.logger.WithError(err).Warn("Cart fetch degraded to empty")
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"cart": result,
		},
	})
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	descriptor, _ := middleware.GetDescriptorFromContext(c)
	deviceID, _ := middleware.GetDeviceIDFromContext(c)

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request data",
		})
		return
	}

	result, err := h.cart.AddItem(c.Request.Context(), descriptor, req.ProductID, req.Quantity)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"message": "Failed to add item to cart",
			"data":    gin.H{"cart": result},
		})
		return
	}

	h.bus.Publish(events.TopicCartChanged, deviceID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"cart": result,
		},
	})
}

// UpdateItem handles PUT /cart/items/:id
func (h *CartHandler) UpdateItem(c *gin.Context) {
	descriptor, _ := middleware.GetDescriptorFromContext(c)
	deviceID, _ := middleware.GetDeviceIDFromContext(c)
	productID := c.Param("id")

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request data",
		})
		return
	}

	result, err := h.cart.UpdateQuantity(c.Request.Context(), descriptor, productID, req.Quantity)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"message": "Failed to update cart item",
			"data":    gin.H{"cart": result},
		})
		return
	}

	h.bus.Publish(events.TopicCartChanged, deviceID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"cart": result,
		},
	})
}

// RemoveItem handles DELETE /cart/items/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	descriptor, _ := middleware.GetDescriptorFromContext(c)
	deviceID, _ := middleware.GetDeviceIDFromContext(c)
	productID := c.Param("id")

	result, err := h.cart.RemoveItem(c.Request.Context(), descriptor, productID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"message": "Failed to remove cart item",
			"data":    gin.H{"cart": result},
		})
		return
	}

	h.bus.Publish(events.TopicCartChanged, deviceID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"cart": result,
		},
	})
}
