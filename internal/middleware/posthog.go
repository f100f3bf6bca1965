package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/money_tracker/internal/utils"
	"github.com/gin-gonic/gin"
)

// untrackedPaths are never reported to PostHog.
var untrackedPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// PosthogMiddleware reports successful authenticated API calls as PostHog events
// named after the route, e.g. "/api/people/send" becomes "api_people_send".
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !posthogClient.IsInitialized() || untrackedPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		userID, ok := GetUserIDFromContext(c)
		if !ok {
			return
		}
		eventName := routeEventName(c.FullPath())
		if eventName == "" {
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"status_code": c.Writer.Status(),
		}
		// Person names are user data; only the route shape is reported.
		posthogClient.Enqueue(userID, eventName, props)
	}
}

func routeEventName(fullPath string) string {
	trimmed := strings.Trim(fullPath, "/")
	if trimmed == "" {
		return ""
	}
	replacer := strings.NewReplacer("/", "_", ":", "", "*", "")
	return replacer.Replace(trimmed)
}
