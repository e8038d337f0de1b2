// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-gateway/internal/config"
	"github.com/your-org/storefront-gateway/internal/domain/cart"
	"github.com/your-org/storefront-gateway/internal/domain/catalog"
	"github.com/your-org/storefront-gateway/internal/domain/counts"
	"github.com/your-org/storefront-gateway/internal/domain/favorites"
	"github.com/your-org/storefront-gateway/internal/domain/session"
	"github.com/your-org/storefront-gateway/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-gateway/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-gateway/internal/pkg/events"
)

// Dependencies carries the services the route handlers need
type Dependencies struct {
	Config    *config.Config
	Logger    *logrus.Logger
	Sessions  *session.Service
	Catalog   *catalog.Service
	Cart      *cart.Service
	Favorites *favorites.Service
	Counts    *counts.Service
	Bus       *events.Bus
}

// SetupRoutes sets up all storefront routes. Every route runs behind the
// device session middleware so handlers always see a resolved descriptor.
func SetupRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	sessionHandler := handlers.NewSessionHandler(deps.Sessions, deps.Bus, deps.Config)
	catalogHandler := handlers.NewCatalogHandler(deps.Catalog, deps.Favorites, deps.Logger)
	cartHandler := handlers.NewCartHandler(deps.Cart, deps.Bus, deps.Logger)
	favoritesHandler := handlers.NewFavoritesHandler(deps.Favorites, deps.Bus, deps.Logger)
	countsHandler := handlers.NewCountsHandler(deps.Counts)

	rg.Use(middleware.DeviceSession(deps.Sessions, deps.Config))

	rg.GET("/session", sessionHandler.GetSession)

	auth := rg.Group("/auth")
	{
		auth.POST("/login", sessionHandler.Login)
		auth.POST("/register", sessionHandler.Register)
		auth.POST("/logout", sessionHandler.Logout)
	}

	products := rg.Group("/products")
	{
		products.GET("", catalogHandler.GetProducts)
		products.GET("/:id", catalogHandler.GetProduct)
	}

	cartGroup := rg.Group("/cart")
	{
		cartGroup.GET("", cartHandler.GetCart)
		cartGroup.POST("/items", cartHandler.AddItem)
		cartGroup.PUT("/items/:id", cartHandler.UpdateItem)
		cartGroup.DELETE("/items/:id", cartHandler.RemoveItem)
	}

	favoritesGroup := rg.Group("/favorites")
	{
		favoritesGroup.GET("", favoritesHandler.GetFavorites)
		favoritesGroup.GET("/status", favoritesHandler.GetFavoriteStatus)
		favoritesGroup.POST("/:id", favoritesHandler.AddFavorite)
		favoritesGroup.DELETE("/:id", favoritesHandler.RemoveFavorite)
	}

	countsGroup := rg.Group("/counts")
	{
		countsGroup.GET("", countsHandler.GetCounts)
		countsGroup.POST("/refresh", countsHandler.RefreshCounts)
	}
}
