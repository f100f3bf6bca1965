package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/money_tracker/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// RevocationChecker reports whether an access token was revoked by a logout.
type RevocationChecker interface {
	IsRevoked(token string) bool
}

type authOptions struct {
	revocations RevocationChecker
	cookieName  string
}

// AuthOption customizes AuthMiddleware.
type AuthOption func(*authOptions)

// WithRevocationCheck rejects tokens the checker reports as revoked.
func WithRevocationCheck(rc RevocationChecker) AuthOption {
	return func(o *authOptions) { o.revocations = rc }
}

// WithCookie also accepts the token from the named cookie when no Authorization header is sent.
func WithCookie(name string) AuthOption {
	return func(o *authOptions) { o.cookieName = name }
}

// AuthMiddleware creates a Gin middleware handler that validates JWT tokens.
func AuthMiddleware(jwtSecret string, opts ...AuthOption) gin.HandlerFunc {
	var o authOptions
	for _, opt := range opts {
		opt(&o)
	}

	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		tokenString, msg := extractToken(c, o.cookieName)
		if tokenString == "" {
			logger.Warn("Missing or malformed credentials", slog.String("reason", msg))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		claims, err := utils.ParseAndValidateJWT(tokenString, jwtSecret)
		if err != nil {
			logger.Warn("Invalid token", slog.String("error", err.Error()))
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token has expired"
			} else if errors.Is(err, jwt.ErrTokenNotValidYet) {
				msg = "Token not valid yet"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		if claims.Subject == "" {
			logger.Error("User ID (subject) missing from valid token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		if o.revocations != nil && o.revocations.IsRevoked(tokenString) {
			logger.Warn("Revoked token used", slog.String("user_id", claims.Subject))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token has been revoked"})
			return
		}

		userID := claims.Subject
		ctx := context.WithValue(c.Request.Context(), userIDKey, userID)
		ctx = context.WithValue(ctx, tokenKey, tokenString)
		ctx = WithLogger(ctx, logger.With(slog.String("user_id", userID)))
		c.Request = c.Request.WithContext(ctx)
		c.Set(string(userIDKey), userID)

		c.Next()
	}
}

// extractToken returns the bearer token, or an empty string and the reason it is missing.
func extractToken(c *gin.Context, cookieName string) (string, string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if cookieName != "" {
			if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
				return cookie, ""
			}
		}
		return "", "Authorization header required"
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", "Authorization header format must be Bearer {token}"
	}
	return parts[1], ""
}
