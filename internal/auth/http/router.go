package http

import "github.com/gin-gonic/gin"

// Register wires the account endpoints. None of them require a session.
func Register(rg *gin.RouterGroup, h *Handler) {
	rg.POST("/register", h.Register)
	rg.POST("/login", h.Login)
	rg.POST("/logout", h.Logout)
	rg.GET("/check-session", h.CheckSession)
}
