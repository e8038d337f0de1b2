// internal/interfaces/http/handlers/session.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-gateway/internal/config"
	"github.com/your-org/storefront-gateway/internal/domain/session"
	"github.com/your-org/storefront-gateway/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-gateway/internal/pkg/events"
	"github.com/your-org/storefront-gateway/internal/upstream"
)

// SessionHandler handles session and authentication endpoints
type SessionHandler struct {
	sessions *session.Service
	bus      *events.Bus
	config   *config.Config
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *session.Service, bus *events.Bus, cfg *config.Config) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		bus:      bus,
		config:   cfg,
	}
}

// LoginRequest is the login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// GetSession handles GET /session
func (h *SessionHandler) GetSession(c *gin.Context) {
	descriptor, _ := middleware.GetDescriptorFromContext(c)
	deviceID, _ := middleware.GetDeviceIDFromContext(c)

	payload := gin.H{"session": descriptor}
	if descriptor.IsUser() {
		if profile, err := h.sessions.Profile(c.Request.Context(), deviceID); err == nil {
			payload["user"] = profile
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    payload,
	})
}

// Login handles POST /auth/login
func (h *SessionHandler) Login(c *gin.Context) {
	deviceID, _ := middleware.GetDeviceIDFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request data",
		})
		return
	}

	descriptor, user, err := h.sessions.Login(c.Request.Context(), deviceID, req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Login failed",
		})
		return
	}

	h.bus.Publish(events.TopicSessionChanged, deviceID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"session": descriptor,
			"user":    user,
		},
	})
}

// Register handles POST /auth/register
func (h *SessionHandler) Register(c *gin.Context) {
	deviceID, _ := middleware.GetDeviceIDFromContext(c)

	var req upstream.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request data",
		})
		return
	}

	descriptor, user, err := h.sessions.Register(c.Request.Context(), deviceID, &req)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"message": "Registration failed",
		})
		return
	}

	h.bus.Publish(events.TopicSessionChanged, deviceID)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"session": descriptor,
			"user":    user,
		},
	})
}

// Logout handles POST /auth/logout
func (h *SessionHandler) Logout(c *gin.Context) {
	deviceID, _ := middleware.GetDeviceIDFromContext(c)

	descriptor, err := h.sessions.Logout(c.Request.Context(), deviceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Logout failed",
		})
		return
	}

	h.bus.Publish(events.TopicSessionChanged, deviceID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"session": descriptor,
		},
	})
}
