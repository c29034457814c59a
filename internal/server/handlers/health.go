// Package handlers contains HTTP request handlers that don't belong to a
// feature module.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reelbase/reelbase/internal/database"
	"github.com/reelbase/reelbase/internal/modules/modulemanager"
)

// cacheHealthChecker is implemented by modules that own a cache backend.
type cacheHealthChecker interface {
	CacheHealth(ctx context.Context) error
}

// HandleHealthCheck reports overall service health with per-component status
// for the catalog store and the cache backend.
func HandleHealthCheck(c *gin.Context) {
	statusCode := http.StatusOK

	dbStatus := "ok"
	if err := database.HealthCheck(); err != nil {
		dbStatus = err.Error()
		statusCode = http.StatusServiceUnavailable
	}

	cacheStatus := "ok"
	if err := cacheHealth(c.Request.Context()); err != nil {
		cacheStatus = err.Error()
		statusCode = http.StatusServiceUnavailable
	}

	status := "ok"
	if statusCode != http.StatusOK {
		status = "degraded"
	}

	c.JSON(statusCode, gin.H{
		"status":   status,
		"service":  "reelbase",
		"database": dbStatus,
		"cache":    cacheStatus,
	})
}

// cacheHealth asks every registered module that owns a cache backend whether
// it is reachable.
func cacheHealth(ctx context.Context) error {
	for _, m := range modulemanager.ListModules() {
		if checker, ok := m.(cacheHealthChecker); ok {
			if err := checker.CacheHealth(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

// HandleDatabaseHealth checks and returns the catalog store connection status
func HandleDatabaseHealth(c *gin.Context) {
	if err := database.HealthCheck(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	stats, err := database.GetConnectionStats()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":           "healthy",
		"open_connections": stats.OpenConnections,
		"max_connections":  stats.MaxOpenConnections,
		"in_use":           stats.InUse,
		"idle":             stats.Idle,
	})
}
