package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/fuzumoe/sitescope-api/configs"
	"github.com/fuzumoe/sitescope-api/internal/analyzer"
	"github.com/fuzumoe/sitescope-api/internal/crawler"
	"github.com/fuzumoe/sitescope-api/internal/handler"
	"github.com/fuzumoe/sitescope-api/internal/repository"
	"github.com/fuzumoe/sitescope-api/internal/server"
	"github.com/fuzumoe/sitescope-api/internal/service"
)

const serviceName = "sitescope"

// hookable functions for dependency injection
var (
	LoadConfig     = configs.Load
	NewDB          = repository.NewDB
	MigrateDB      = repository.Migrate
	NotifyContext  = signal.NotifyContext
	ListenAndServe = func(srv *http.Server) error { return srv.ListenAndServe() }
)

// Deps holds the wired collaborators of the service.
type Deps struct {
	Log           *logrus.Logger
	Store         repository.Store
	Registry      *crawler.Registry
	CrawlService  service.CrawlService
	HealthService service.HealthService
}

// NewLogger returns a logrus logger at the given level, falling back to info.
func NewLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		log.WithField("level", level).Warn("unknown LOG_LEVEL, using info")
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

// OpenStore returns the storage backend selected by cfg.StorageDriver.
func OpenStore(cfg *configs.Config) (repository.Store, error) {
	if cfg.StorageDriver != configs.StorageMySQL {
		return repository.NewMemoryStore(), nil
	}
	db, err := NewDB(cfg.DatabaseURL, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := MigrateDB(db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}
	return repository.NewGormStore(db), nil
}

// Build wires the crawl engine and services on top of store.
func Build(cfg *configs.Config, store repository.Store, log *logrus.Logger) *Deps {
	a := analyzer.New(analyzer.Options{
		Timeout:        cfg.FetchTimeout,
		SitemapTimeout: cfg.SitemapTimeout,
		MaxRedirects:   cfg.MaxRedirects,
		MaxBodyBytes:   cfg.MaxBodyBytes,
		UserAgent:      cfg.UserAgent,
	})
	registry := crawler.NewRegistry(cfg.MaxConcurrentCrawls)
	controller := crawler.NewController(store, a, cfg.RequestDelay, log)
	return &Deps{
		Log:           log,
		Store:         store,
		Registry:      registry,
		CrawlService:  service.NewCrawlService(store, registry, controller, log),
		HealthService: service.NewHealthService(store, registry, serviceName),
	}
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(cfg *configs.Config, deps *Deps) *gin.Engine {
	r := gin.New()
	server.RegisterRoutes(
		r,
		server.Options{CORSOrigins: cfg.CORSOrigins, Logger: deps.Log},
		[]server.RouteRegistrar{handler.NewHealthHandler(deps.HealthService)},
		[]server.RouteRegistrar{handler.NewCrawlHandler(deps.CrawlService)},
	)
	return r
}

// Run loads config, opens storage, and serves HTTP until SIGINT/SIGTERM.
func Run() error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("config load error: %w", err)
	}
	log := NewLogger(cfg.LogLevel)

	store, err := OpenStore(cfg)
	if err != nil {
		return err
	}
	deps := Build(cfg, store, log)

	gin.SetMode(cfg.ServerMode)
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           NewRouter(cfg, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return Serve(ctx, srv, deps.CrawlService, cfg.ShutdownTimeout, log)
}

// Serve runs srv until ctx is done, then shuts down the server and every
// running crawl within timeout.
func Serve(ctx context.Context, srv *http.Server, crawls service.CrawlService, timeout time.Duration, log logrus.FieldLogger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.WithField("addr", srv.Addr).Info("http server listening")
		if err := ListenAndServe(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		var errs []error
		if err := srv.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
		if err := crawls.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("crawl shutdown: %w", err))
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}
