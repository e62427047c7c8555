package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// UserID extracts the authenticated user's id from the Gin context.
// This is set by RequireSession.
func UserID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxUserID))
}

// Username extracts the authenticated user's name from the Gin context.
func Username(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxUsername))
}
