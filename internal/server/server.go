package server

import (
	"github.com/gin-gonic/gin"

	"github.com/reelbase/reelbase/internal/config"
	"github.com/reelbase/reelbase/internal/modules/modulemanager"

	// Import all modules to trigger their registration
	_ "github.com/reelbase/reelbase/internal/modules/catalogmodule"
)

// SetupRouter configures and returns the main router
func SetupRouter(cfg *config.Config) *gin.Engine {
	r := gin.Default()

	if cfg.Server.EnableCORS {
		r.Use(corsMiddleware())
	}

	setupRoutes(r)
	modulemanager.RegisterRoutes(r)

	return r
}

// corsMiddleware allows any origin, matching the permissive policy of the
// original deployment where the browser client is served separately.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
