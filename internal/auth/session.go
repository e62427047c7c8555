package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeah-diary/diary-backend/internal/sessions"
)

const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
)

// RequireSession rejects requests without a valid session cookie before
// any downstream work happens. On success the user id and username are
// placed in the gin context.
func RequireSession(store *sessions.Store, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || strings.TrimSpace(token) == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "not authenticated"})
			c.Abort()
			return
		}

		sess, err := store.Get(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, sessions.ErrSessionNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"message": "not authenticated"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to check session"})
			}
			c.Abort()
			return
		}

		c.Set(CtxUserID, sess.UserID)
		c.Set(CtxUsername, sess.Username)
		c.Next()
	}
}
