// internal/interfaces/http/handlers/favorites.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-gateway/internal/domain/favorites"
	"github.com/your-org/storefront-gateway/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-gateway/internal/pkg/events"
)

// FavoritesHandler handles favorites endpoints
type FavoritesHandler struct {
	favorites *favorites.Service
	bus       *events.Bus
	logger    *logrus.Logger
}

// NewFavoritesHandler creates a new favorites handler
func NewFavoritesHandler(favoritesService *favorites.Service, bus *events.Bus, logger *logrus.Logger) *FavoritesHandler {
	return &FavoritesHandler{
		favorites: favoritesService,
		bus:       bus,
		logger:    logger,
	}
}

// GetFavorites handles GET /favorites. A backend failure still renders a
// well-formed empty set.
func (h *FavoritesHandler) GetFavorites(c *gin.Context) {
	descriptor, _ := middleware.GetDescriptorFromContext(c)

	result, err := h.favorites.Get(c.Request.Context(), descriptor)
	if err != nil {
		h.logger.WithError(err).Warn("Favorites fetch degraded to empty")
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"favorites": result,
		},
	})
}

// GetFavoriteStatus handles GET /favorites/status. With a product_id query
// parameter it checks that single product; without one it returns the full
// favorites set for membership testing.
func (h *FavoritesHandler) GetFavoriteStatus(c *gin.Context) {
	descriptor, _ := middleware.GetDescriptorFromContext(c)
	productID := c.Query("product_id")

	membership, err := h.favorites.IsInFavorites(c.Request.Context(), descriptor, productID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"message": "Failed to check favorite status",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    membership,
	})
}

// AddFavorite handles POST /favorites/:id
func (h *FavoritesHandler) AddFavorite(c *gin.Context) {
	descriptor, _ := middleware.GetDescriptorFromContext(c)
	deviceID, _ := middleware.GetDeviceIDFromContext(c)
	productID := c.Param("id")

	result, err := h.favorites.Add(c.Request.Context(), descriptor, productID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"message": "Failed to add favorite",
			"data":    gin.H{"favorites": result},
		})
		return
	}

	h.bus.Publish(events.TopicFavoritesChanged, deviceID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"favorites": result,
		},
	})
}

// RemoveFavorite handles DELETE /favorites/:id
func (h *FavoritesHandler) RemoveFavorite(c *gin.Context) {
	descriptor, _ := middleware.GetDescriptorFromContext(c)
	deviceID, _ := middleware.GetDeviceIDFromContext(c)
	productID := c.Param("id")

	result, err := h.favorites.Remove(c.Request.Context(), descriptor, productID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"message": "Failed to remove favorite",
			"data":    gin.H{"favorites": result},
		})
		return
	}

	h.bus.Publish(events.TopicFavoritesChanged, deviceID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"favorites": result,
		},
	})
}
