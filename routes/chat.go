package routes

import (
	"solace/controllers"
	"solace/internal/ratelimit"
	"solace/middlewares"

	"github.com/gin-gonic/gin"
)

// SetupChatRoutes sets up the chat API routes
func SetupChatRoutes(router *gin.RouterGroup, limiter *ratelimit.Limiter) {
	chat := router.Group("/chat")
	{
		chat.POST("/message", middlewares.RateLimitMiddleware(limiter), controllers.SendChatMessage)
	}

	router.GET("/resources", controllers.GetResources)
	router.GET("/about", controllers.GetAbout)
}
