package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fuzumoe/sitescope-api/internal/model"
	"github.com/fuzumoe/sitescope-api/internal/repository"
	"github.com/fuzumoe/sitescope-api/internal/service"
)

type CrawlHandler struct {
	crawlService service.CrawlService
}

func NewCrawlHandler(svc service.CrawlService) *CrawlHandler { return &CrawlHandler{crawlService: svc} }

func paginationFromQuery(c *gin.Context) repository.Pagination {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	return repository.Pagination{Page: page, PageSize: size}
}

// errorStatus maps service and storage errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, service.ErrNothingToExport):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrTooManyCrawls):
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(errorStatus(err), gin.H{"error": err.Error()})
}

// @Summary Start a crawl session
// @Tags    crawls
// @Accept  json
// @Produce json
// @Param   input body model.StartCrawlInput true "Seed URL and limits"
// @Success 202 {object} map[string]string "{id, status}"
// @Failure 400 {object} map[string]string "error"
// @Failure 429 {object} map[string]string "error"
// @Router  /api/v1/crawls [post]
func (h *CrawlHandler) Start(c *gin.Context) {
	var in model.StartCrawlInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	id, err := h.crawlService.StartCrawl(c.Request.Context(), &in)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"id": id, "status": model.StatusPending})
}

// @Summary List crawl sessions (paginated, newest first)
// @Tags    crawls
// @Produce json
// @Param   page      query int false "page"
// @Param   page_size query int false "page_size"
// @Success 200 {object} model.PaginatedResponse[model.CrawlSession]
// @Router  /api/v1/crawls [get]
func (h *CrawlHandler) List(c *gin.Context) {
	items, err := h.crawlService.List(c.Request.Context(), paginationFromQuery(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// @Summary Session progress with pages and stats
// @Tags    crawls
// @Produce json
// @Param   id path string true "Session ID"
// @Success 200 {object} model.CrawlProgress
// @Failure 404 {object} map[string]string "error"
// @Router  /api/v1/crawls/{id} [get]
func (h *CrawlHandler) Progress(c *gin.Context) {
	progress, err := h.crawlService.GetProgress(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

// @Summary Crawled pages of a session (paginated)
// @Tags    crawls
// @Produce json
// @Param   id        path  string true  "Session ID"
// @Param   page      query int    false "page"
// @Param   page_size query int    false "page_size"
// @Success 200 {object} model.PaginatedResponse[model.CrawledPage]
// @Failure 404 {object} map[string]string "error"
// @Router  /api/v1/crawls/{id}/pages [get]
func (h *CrawlHandler) Pages(c *gin.Context) {
	items, err := h.crawlService.Pages(c.Request.Context(), c.Param("id"), paginationFromQuery(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// @Summary Groups of URLs sharing the same content
// @Tags    crawls
// @Produce json
// @Param   id path string true "Session ID"
// @Success 200 {array} model.DuplicateGroup
// @Failure 404 {object} map[string]string "error"
// @Router  /api/v1/crawls/{id}/duplicates [get]
func (h *CrawlHandler) Duplicates(c *gin.Context) {
	groups, err := h.crawlService.Duplicates(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

// @Summary Stop a crawl
// @Tags    crawls
// @Produce json
// @Param   id path string true "Session ID"
// @Success 202 {object} map[string]string "stopped"
// @Failure 404 {object} map[string]string "error"
// @Router  /api/v1/crawls/{id}/stop [patch]
func (h *CrawlHandler) Stop(c *gin.Context) {
	if err := h.crawlService.StopCrawl(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": model.StatusStopped})
}

// @Summary Export pages and PDF links as CSV
// @Tags    crawls
// @Produce text/csv
// @Param   id path string true "Session ID"
// @Success 200 {file} file
// @Failure 404 {object} map[string]string "error"
// @Router  /api/v1/crawls/{id}/export [get]
func (h *CrawlHandler) Export(c *gin.Context) {
	id := c.Param("id")
	var buf bytes.Buffer
	if err := h.crawlService.ExportCSV(c.Request.Context(), id, &buf); err != nil {
		abortWithError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=crawl-%s.csv", id))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// RegisterRoutes mounts the crawl endpoints on the given router group.
func (h *CrawlHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/crawls", h.Start)
	rg.GET("/crawls", h.List)
	rg.GET("/crawls/:id", h.Progress)
	rg.GET("/crawls/:id/pages", h.Pages)
	rg.GET("/crawls/:id/duplicates", h.Duplicates)
	rg.PATCH("/crawls/:id/stop", h.Stop)
	rg.GET("/crawls/:id/export", h.Export)
}
