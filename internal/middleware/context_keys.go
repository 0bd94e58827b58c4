package middleware

import "github.com/gin-gonic/gin"

const (
	bidderIDKey = contextKey("bidderID")
	roleKey     = contextKey("role")
)

// GetBidderIDFromContext retrieves the authenticated subject from the request context.
func GetBidderIDFromContext(c *gin.Context) (string, bool) {
	bidderID, ok := c.Request.Context().Value(bidderIDKey).(string)
	if !ok || bidderID == "" {
		return "", false
	}
	return bidderID, true
}

// IsAdmin reports whether the authenticated subject is a buyer-side admin.
func IsAdmin(c *gin.Context) bool {
	role, _ := c.Request.Context().Value(roleKey).(string)
	return role == RoleAdmin
}
