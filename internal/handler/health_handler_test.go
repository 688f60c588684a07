package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuzumoe/sitescope-api/internal/handler"
	"github.com/fuzumoe/sitescope-api/internal/service"
)

// dummyHealthService implements service.HealthService for unit testing.
type dummyHealthService struct {
	response *service.HealthStatus
}

func (d *dummyHealthService) Check(context.Context) *service.HealthStatus {
	return d.response
}

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(status *service.HealthStatus) *gin.Engine {
		router := gin.New()
		handler.NewHealthHandler(&dummyHealthService{response: status}).RegisterRoutes(router.Group(""))
		return router
	}

	t.Run("Home Endpoint", func(t *testing.T) {
		router := newRouter(&service.HealthStatus{Service: "TestService", Storage: "healthy", Healthy: true, Checked: time.Now().UTC()})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Welcome to SiteScope!", resp["message"])
		assert.Equal(t, "TestService", resp["service"])
		assert.Equal(t, "running", resp["status"])
	})

	testHealthEndpoint := func(t *testing.T, storage string, healthy bool, expectedCode int, expectedStatus string) {
		checked := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
		router := newRouter(&service.HealthStatus{
			Service:      "TestService",
			Storage:      storage,
			ActiveCrawls: 2,
			Healthy:      healthy,
			Checked:      checked,
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, expectedCode, rec.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "TestService", resp["service"])
		assert.Equal(t, expectedStatus, resp["status"])
		assert.Equal(t, storage, resp["storage"])
		assert.EqualValues(t, 2, resp["active_crawls"])
		assert.Equal(t, "2025-07-01T12:00:00Z", resp["checked"])
	}

	t.Run("Healthy", func(t *testing.T) {
		testHealthEndpoint(t, "healthy", true, http.StatusOK, "ok")
	})

	t.Run("Unhealthy", func(t *testing.T) {
		testHealthEndpoint(t, "unhealthy", false, http.StatusServiceUnavailable, "degraded")
	})
}
