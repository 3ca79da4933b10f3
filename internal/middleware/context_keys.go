package middleware

import "github.com/gin-gonic/gin"

// userIDKey stores the authenticated user's ID. The custom contextKey type
// keeps it from colliding with keys set by other packages.
const userIDKey = contextKey("userID")

// GetUserIDFromContext returns the authenticated user ID set by the auth
// middleware. It checks the gin context first and falls back to the request
// context, so it works for handlers and for code that only sees a
// context.Context.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if v, exists := c.Get(string(userIDKey)); exists {
		userID, ok := v.(string)
		return userID, ok && userID != ""
	}
	if v := c.Request.Context().Value(userIDKey); v != nil {
		userID, ok := v.(string)
		return userID, ok && userID != ""
	}
	return "", false
}
