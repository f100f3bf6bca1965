package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// contextKey is used for values stored in both the Gin and the request context.
// Using a custom type prevents collisions.
type contextKey string

const (
	userIDKey = contextKey("userID")
	tokenKey  = contextKey("token")
	loggerKey = contextKey("logger")
)

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if v, exists := c.Get(string(userIDKey)); exists {
		userID, ok := v.(string)
		return userID, ok && userID != ""
	}
	return GetUserIDFromCtx(c.Request.Context())
}

// GetUserIDFromCtx retrieves the authenticated user ID from a request context.
func GetUserIDFromCtx(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// GetTokenFromContext returns the raw access token the request was authenticated with.
func GetTokenFromContext(c *gin.Context) (string, bool) {
	token, ok := c.Request.Context().Value(tokenKey).(string)
	return token, ok && token != ""
}
