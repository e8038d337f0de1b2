// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-gateway/internal/domain/catalog"
	"github.com/your-org/storefront-gateway/internal/domain/favorites"
	"github.com/your-org/storefront-gateway/internal/interfaces/http/middleware"
)

// CatalogHandler handles product catalog endpoints
type CatalogHandler struct {
	catalog   *catalog.Service
	favorites *favorites.Service
	logger    *logrus.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *catalog.Service, favoritesService *favorites.Service, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog:   catalogService,
		favorites: favoritesService,
		logger:    logger,
	}
}

// GetProducts handles GET /products
func (h *CatalogHandler) GetProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "300"))

	products, err := h.catalog.FetchCatalog(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"message": "Unable to load products",
		})
		return
	}

	state := filterStateFromQuery(c)
	filtered := catalog.ApplyFilters(products, state)

	if descriptor, ok := middleware.GetDescriptorFromContext(c); ok {
		if favs, err := h.favorites.Get(c.Request.Context(), descriptor); err == nil {
			for i := range filtered {
				filtered[i].IsFavorite = favs.Contains(filtered[i].ID)
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"products": filtered,
			"total":    len(filtered),
		},
	})
}

// GetProduct handles GET /products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	productID := c.Param("id")

	product, err := h.catalog.FetchProduct(c.Request.Context(), productID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Product not found",
		})
		return
	}

	if descriptor, ok := middleware.GetDescriptorFromContext(c); ok {
		membership, err := h.favorites.IsInFavorites(c.Request.Context(), descriptor, productID)
		if err == nil {
			if membership.Checked {
				product.IsFavorite = membership.Favorite
			} else {
				for _, id := range membership.ProductIDs {
					if id == productID {
						product.IsFavorite = true
						break
					}
				}
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"product": product,
		},
	})
}

// filterStateFromQuery translates query parameters into a filter state.
// Absent parameters leave their dimension unrestricted.
func filterStateFromQuery(c *gin.Context) catalog.FilterState {
	state := catalog.FilterState{
		SearchText: c.Query("search"),
		SortBy:     catalog.SortOption(c.DefaultQuery("sort", string(catalog.SortRelevance))),
	}

	if raw := c.Query("categories"); raw != "" {
		state.Categories = splitList(raw)
	}
	if raw := c.Query("genders"); raw != "" {
		state.Genders = splitList(raw)
	}
	if raw := c.Query("max_price"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			state.MaxPrice = &v
		}
	}

	return state
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
