package service

import (
	"context"
	"time"

	"github.com/fuzumoe/sitescope-api/internal/crawler"
	"github.com/fuzumoe/sitescope-api/internal/repository"
)

type HealthStatus struct {
	Service      string
	Storage      string
	ActiveCrawls int
	Healthy      bool
	Checked      time.Time
}

type HealthService interface {
	Check(ctx context.Context) *HealthStatus
}

type healthService struct {
	store    repository.Store
	registry *crawler.Registry
	name     string
}

func NewHealthService(store repository.Store, registry *crawler.Registry, name string) HealthService {
	return &healthService{store: store, registry: registry, name: name}
}

func (h *healthService) Check(ctx context.Context) *HealthStatus {
	stat := &HealthStatus{
		Service: h.name,
		Storage: "healthy",
		Healthy: true,
		Checked: time.Now().UTC(),
	}
	if h.registry != nil {
		stat.ActiveCrawls = h.registry.Len()
	}
	if h.store == nil {
		stat.Storage, stat.Healthy = "disconnected", false
		return stat
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		stat.Storage, stat.Healthy = "unhealthy", false
	}
	return stat
}
