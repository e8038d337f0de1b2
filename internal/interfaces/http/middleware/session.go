// internal/interfaces/http/middleware/session.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/your-org/storefront-gateway/internal/config"
	"github.com/your-org/storefront-gateway/internal/domain/session"
)

const (
	contextKeyDeviceID   = "device_id"
	contextKeyDescriptor = "session_descriptor"
)

// DeviceSession resolves the session descriptor for every request. The
// device is identified by a long-lived cookie; a missing cookie mints a new
// device id. Resolution never fails a request: the worst case is a fallback
// guest descriptor.
func DeviceSession(sessions *session.Service, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		deviceID, err := c.Cookie(cfg.Session.CookieName)
		if err != nil || deviceID == "" {
			deviceID = uuid.New().String()
			c.SetCookie(cfg.Session.CookieName, deviceID,
				int(cfg.Session.CookieMaxAge.Seconds()), "/", "", false, true)
		}

		descriptor := sessions.Resolve(c.Request.Context(), deviceID)

		c.Set(contextKeyDeviceID, deviceID)
		c.Set(contextKeyDescriptor, descriptor)

		c.Next()
	}
}

// GetDeviceIDFromContext extracts the device id from gin context
func GetDeviceIDFromContext(c *gin.Context) (string, bool) {
	deviceID, exists := c.Get(contextKeyDeviceID)
	if !exists {
		return "", false
	}
	return deviceID.(string), true
}

// GetDescriptorFromContext extracts the session descriptor from gin context
func GetDescriptorFromContext(c *gin.Context) (session.Descriptor, bool) {
	descriptor, exists := c.Get(contextKeyDescriptor)
	if !exists {
		return session.Descriptor{}, false
	}
	return descriptor.(session.Descriptor), true
}
