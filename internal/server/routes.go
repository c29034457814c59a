package server

import (
	"github.com/gin-gonic/gin"

	"github.com/reelbase/reelbase/internal/server/handlers"
)

// setupRoutes configures the non-module API routes
func setupRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.GET("/health", handlers.HandleHealthCheck)
		api.GET("/health/database", handlers.HandleDatabaseHealth)
	}
}
