package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	storeIDKey    = "store_id"
	storeIDHeader = "X-Store-ID"
)

// RequireStore extracts the store scope set upstream by the session layer
// and rejects requests without one. Authorization itself happens before the
// request reaches this service.
func RequireStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		storeID := c.GetHeader(storeIDHeader)
		if storeID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing store scope"})
			return
		}
		c.Set(storeIDKey, storeID)
		c.Next()
	}
}

// GetStoreID returns the store scope for the current request.
func GetStoreID(c *gin.Context) string {
	if val, ok := c.Get(storeIDKey); ok {
		if s, ok := val.(string); ok {
			return s
		}
	}
	// Fallback to the raw header for handlers mounted without the middleware.
	return c.GetHeader(storeIDHeader)
}

// GetActor returns the acting staff user id, when the session layer forwards
// one.
func GetActor(c *gin.Context) string {
	return c.GetHeader("X-User-ID")
}
