package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/tungtase04539/sangtaophaisinh/internal/handlers"
	"github.com/tungtase04539/sangtaophaisinh/internal/logger"
	"github.com/tungtase04539/sangtaophaisinh/ws"
)

// RegisterRoutes mounts the HTTP API, the websocket endpoint and the docs.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	wsHandler *ws.WebSocketHandler,
	requireAuth gin.HandlerFunc,
) {
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := ginRouter.Group("/api/v1")
	appHandlers.RegisterRoutes(api)

	wsGroup := ginRouter.Group("/ws")
	wsGroup.Use(requireAuth)
	{
		wsGroup.GET("", wsHandler.ServeWS)
	}
	logger.Info("WebSocket route /ws registered")

	ginRouter.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
