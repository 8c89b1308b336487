package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const userIDKey = contextKey("userID")

// UserIDHeader carries the caller identity established by the upstream
// gateway. Authentication itself happens there; this layer only requires the
// identity to be present so it can thread an explicit userID parameter
// through every service call. No ambient "current user" exists below this
// middleware.
const UserIDHeader = "X-User-ID"

// Identity extracts the caller identity header and stores it in the Gin
// context. Requests without an identity are rejected before reaching any
// handler that records audit fields.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(UserIDHeader)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing " + UserIDHeader + " header"})
			return
		}
		c.Set(string(userIDKey), userID)
		c.Next()
	}
}

// GetUserIDFromContext retrieves the caller identity from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get(string(userIDKey))
	if !exists {
		return "", false
	}
	userID, ok := userIDVal.(string)
	if !ok {
		return "", false
	}
	return userID, true
}
