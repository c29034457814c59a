package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/reelbase/reelbase/internal/database"
	"github.com/reelbase/reelbase/internal/modules/modulemanager"
)

// stubCacheModule stands in for a module owning a cache backend.
type stubCacheModule struct {
	err error
}

func (s *stubCacheModule) ID() string                      { return "test.cache" }
func (s *stubCacheModule) Name() string                    { return "Test Cache" }
func (s *stubCacheModule) Core() bool                      { return false }
func (s *stubCacheModule) Migrate(*gorm.DB) error          { return nil }
func (s *stubCacheModule) Init() error                     { return nil }
func (s *stubCacheModule) CacheHealth(context.Context) error { return s.err }

func healthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/health", HandleHealthCheck)
	router.GET("/api/health/database", HandleDatabaseHealth)
	return router
}

func getHealth(t *testing.T, router *gin.Engine, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func setTestDB(t *testing.T) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	database.SetDB(db)
	t.Cleanup(func() { database.SetDB(nil) })
}

func TestHealthCheckDegradedWithoutDatabase(t *testing.T) {
	w, body := getHealth(t, healthRouter(), "/api/health")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "degraded", body["status"])
	assert.Contains(t, body["database"], "not initialized")
}

func TestHealthCheckHealthy(t *testing.T) {
	setTestDB(t)

	w, body := getHealth(t, healthRouter(), "/api/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "ok", body["database"])
	assert.Equal(t, "ok", body["cache"])
}

func TestHealthCheckReportsCacheBackendFailure(t *testing.T) {
	setTestDB(t)
	modulemanager.Register(&stubCacheModule{err: errors.New("connection refused")})

	w, body := getHealth(t, healthRouter(), "/api/health")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, "ok", body["database"])
	assert.Contains(t, body["cache"], "connection refused")
}

func TestDatabaseHealthReportsPoolStats(t *testing.T) {
	setTestDB(t)

	w, body := getHealth(t, healthRouter(), "/api/health/database")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Contains(t, body, "open_connections")
}
