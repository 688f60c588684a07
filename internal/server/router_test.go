package server_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"

	"github.com/fuzumoe/sitescope-api/internal/server"
)

// MockRegistrar is a mock implementation of RouteRegistrar
type MockRegistrar struct {
	RegisterRoutesCalled bool
	RoutePattern         string
	RouteHandler         gin.HandlerFunc
}

// RegisterRoutes implements the RouteRegistrar interface
func (m *MockRegistrar) RegisterRoutes(rg *gin.RouterGroup) {
	m.RegisterRoutesCalled = true
	rg.GET(m.RoutePattern, m.RouteHandler)
}

func TestRegisterRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	root := &MockRegistrar{
		RoutePattern: "/health",
		RouteHandler: func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) },
	}
	api := &MockRegistrar{
		RoutePattern: "/crawls",
		RouteHandler: func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": []string{}}) },
	}
	panicky := &MockRegistrar{
		RoutePattern: "/boom",
		RouteHandler: func(*gin.Context) { panic("boom") },
	}

	log, hook := logtest.NewNullLogger()
	server.RegisterRoutes(
		r,
		server.Options{CORSOrigins: []string{"https://app.example.com"}, Logger: log},
		[]server.RouteRegistrar{root},
		[]server.RouteRegistrar{api, panicky},
	)
	assert.True(t, root.RegisterRoutesCalled)
	assert.True(t, api.RegisterRoutesCalled)

	get := func(path, origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	t.Run("Root group", func(t *testing.T) {
		rec := get("/health", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	})

	t.Run("API group is versioned", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, get("/api/v1/crawls", "").Code)
		assert.Equal(t, http.StatusNotFound, get("/crawls", "").Code)
	})

	t.Run("CORS applied", func(t *testing.T) {
		rec := get("/api/v1/crawls", "https://app.example.com")
		assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Recovery", func(t *testing.T) {
		rec := get("/api/v1/boom", "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotEmpty(t, hook.AllEntries(), "request was logged")
	})

	t.Run("Swagger", func(t *testing.T) {
		rec := get("/swagger/doc.json", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "/api/v1/crawls")
	})
}
