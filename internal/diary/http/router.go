package http

import "github.com/gin-gonic/gin"

// Register wires the diary endpoints onto an authenticated group.
func Register(rg *gin.RouterGroup, h *Handler) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.DELETE("/:id", h.Delete)
}
