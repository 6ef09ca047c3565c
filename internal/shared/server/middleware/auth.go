package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cvtailor-backend/internal/shared/server/respond"
)

const userIDKey = "userId"

// Auth reads the authenticated user identity from the X-User-Id header.
// Session verification happens upstream at the gateway; by the time a request
// reaches this service the header is trusted.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		userID := strings.TrimSpace(c.GetHeader("X-User-Id"))
		if userID == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing identity", nil)
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
