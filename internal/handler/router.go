package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/hylur/internal/middleware"
)

type RouterDeps struct {
	Auth          *AuthHandler
	Documents     *DocumentHandler
	DataTables    *DataTableHandler
	WebLinks      *WebLinkHandler
	Search        *SearchHandler
	Chat          *ChatHandler
	Dashboard     *DashboardHandler
	JWTSecret     []byte
	ChatRateLimit time.Duration
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/auth/register", deps.Auth.Register)
	api.POST("/auth/login", deps.Auth.Login)

	authGroup := api.Group("")
	authGroup.Use(middleware.JWTAuth(deps.JWTSecret))
	authGroup.GET("/documents", deps.Documents.List)
	authGroup.POST("/documents/upload", deps.Documents.Upload)
	authGroup.GET("/documents/:id/file", deps.Documents.Download)
	authGroup.DELETE("/documents/:id", deps.Documents.Delete)

	authGroup.GET("/data-tables", deps.DataTables.List)
	authGroup.POST("/data-tables", deps.DataTables.Create)
	authGroup.GET("/data-tables/:id", deps.DataTables.Get)
	authGroup.PUT("/data-tables/:id", deps.DataTables.Update)
	authGroup.DELETE("/data-tables/:id", deps.DataTables.Delete)

	authGroup.GET("/web-links", deps.WebLinks.List)
	authGroup.POST("/web-links", deps.WebLinks.Create)
	authGroup.DELETE("/web-links/:id", deps.WebLinks.Delete)

	authGroup.GET("/search", deps.Search.Search)
	authGroup.POST("/chat", middleware.RateLimit(deps.ChatRateLimit), deps.Chat.Chat)
	authGroup.GET("/dashboard", deps.Dashboard.Overview)
}
