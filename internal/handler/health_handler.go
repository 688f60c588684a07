package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fuzumoe/sitescope-api/internal/service"
)

// HealthHandler handles HTTP requests related to application health.
type HealthHandler struct {
	healthService service.HealthService
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(hs service.HealthService) *HealthHandler {
	return &HealthHandler{
		healthService: hs,
	}
}

// Home returns a simple "running" status for the root endpoint.
func (h *HealthHandler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to SiteScope!",
		"service": h.healthService.Check(c.Request.Context()).Service,
		"status":  "running",
	})
}

// Health returns application and storage health.
func (h *HealthHandler) Health(c *gin.Context) {
	stat := h.healthService.Check(c.Request.Context())
	code := http.StatusOK
	status := "ok"
	if !stat.Healthy {
		code = http.StatusServiceUnavailable
		status = "degraded"
	}
	c.JSON(code, gin.H{
		"service":       stat.Service,
		"status":        status,
		"storage":       stat.Storage,
		"active_crawls": stat.ActiveCrawls,
		"checked":       stat.Checked.Format(time.RFC3339),
	})
}

// RegisterRoutes mounts the health endpoints on the given router group.
func (h *HealthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.Home)
	rg.GET("/health", h.Health)
}
