package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fuzumoe/sitescope-api/internal/analyzer"
	"github.com/fuzumoe/sitescope-api/internal/crawler"
	"github.com/fuzumoe/sitescope-api/internal/model"
	"github.com/fuzumoe/sitescope-api/internal/repository"
)

const (
	DefaultMaxPages = 1000
	MaxPagesLimit   = 10000
	MinDepth        = 1
	MaxDepthLimit   = 20
)

var (
	// ErrInvalidInput wraps every rejected start request.
	ErrInvalidInput = errors.New("invalid crawl request")
	// ErrNothingToExport is returned when a session has no pages and no PDF links.
	ErrNothingToExport = errors.New("no data to export")
	// ErrTooManyCrawls is returned when the concurrent crawl limit is reached.
	ErrTooManyCrawls = crawler.ErrTooManyCrawls
)

// CrawlService defines the lifecycle operations of crawl sessions.
type CrawlService interface {
	StartCrawl(ctx context.Context, in *model.StartCrawlInput) (string, error)
	GetProgress(ctx context.Context, id string) (*model.CrawlProgress, error)
	StopCrawl(ctx context.Context, id string) error
	ExportCSV(ctx context.Context, id string, w io.Writer) error
	List(ctx context.Context, p repository.Pagination) (*model.PaginatedResponse[*model.CrawlSession], error)
	Pages(ctx context.Context, id string, p repository.Pagination) (*model.PaginatedResponse[*model.CrawledPage], error)
	Duplicates(ctx context.Context, id string) ([]model.DuplicateGroup, error)
	// Wait blocks until the crawl of id is no longer running or ctx ends.
	Wait(ctx context.Context, id string) error
	Shutdown(ctx context.Context) error
}

type crawlService struct {
	store      repository.Store
	registry   *crawler.Registry
	controller *crawler.Controller
	log        logrus.FieldLogger
}

// NewCrawlService constructs a CrawlService.
func NewCrawlService(
	store repository.Store,
	registry *crawler.Registry,
	controller *crawler.Controller,
	log logrus.FieldLogger,
) CrawlService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &crawlService{store: store, registry: registry, controller: controller, log: log}
}

// ValidateStartInput checks the request and returns the effective page budget.
func ValidateStartInput(in *model.StartCrawlInput) (int, error) {
	if in == nil {
		return 0, fmt.Errorf("%w: empty request", ErrInvalidInput)
	}
	in.URL = strings.TrimSpace(in.URL)
	u, err := url.Parse(in.URL)
	if err != nil || !u.IsAbs() || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return 0, fmt.Errorf("%w: url must be an absolute http(s) URL", ErrInvalidInput)
	}
	in.URL = analyzer.Canonical(u)
	maxPages := DefaultMaxPages
	if in.MaxPages != nil {
		maxPages = *in.MaxPages
	}
	if maxPages < 1 || maxPages > MaxPagesLimit {
		return 0, fmt.Errorf("%w: max_pages must be between 1 and %d", ErrInvalidInput, MaxPagesLimit)
	}
	if in.MaxDepth < MinDepth || in.MaxDepth > MaxDepthLimit {
		return 0, fmt.Errorf("%w: max_depth must be between %d and %d", ErrInvalidInput, MinDepth, MaxDepthLimit)
	}
	return maxPages, nil
}

// StartCrawl validates the request, persists a pending session and starts
// its crawl in the background.
func (s *crawlService) StartCrawl(ctx context.Context, in *model.StartCrawlInput) (string, error) {
	maxPages, err := ValidateStartInput(in)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	h, err := s.registry.Reserve(id)
	if err != nil {
		return "", err
	}
	sess := model.SessionFromStartInput(id, in, maxPages)
	if err := s.store.CreateSession(ctx, sess); err != nil {
		s.registry.Release(h)
		return "", fmt.Errorf("create session: %w", err)
	}

	s.registry.Start(h, func(h *crawler.Handle) {
		out := s.controller.Run(h, sess)
		s.log.WithFields(logrus.Fields{
			"session":  out.SessionID,
			"status":   out.Status,
			"duration": out.Duration.Truncate(time.Millisecond).String(),
		}).Debug("crawl task exited")
	})
	return id, nil
}

func (s *crawlService) GetProgress(ctx context.Context, id string) (*model.CrawlProgress, error) {
	sess, err := s.store.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if h, ok := s.registry.Get(id); ok {
		if cur := h.CurrentURL(); cur != "" {
			sess.CurrentURL = cur
		}
	}
	pages, err := s.store.ListPages(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	stats, err := s.stats(ctx, id, pages)
	if err != nil {
		return nil, err
	}
	return &model.CrawlProgress{Session: sess, Pages: pages, Stats: stats}, nil
}

// StopCrawl requests cancellation of a running crawl and marks it stopped.
// Stopping a finished session succeeds without changing it.
func (s *crawlService) StopCrawl(ctx context.Context, id string) error {
	sess, err := s.store.GetSession(ctx, id)
	if err != nil {
		return err
	}
	if sess.Status.Terminal() {
		return nil
	}

	markStopped := func() error {
		now := time.Now().UTC()
		return s.store.UpdateStatus(ctx, id, model.StatusStopped, &now, nil)
	}
	active, err := s.registry.Stop(id, markStopped)
	if err != nil {
		return fmt.Errorf("stop crawl: %w", err)
	}
	if active {
		s.log.WithField("session", id).Info("stop requested")
		return nil
	}

	// Not running here: it either just finished or was left over by a
	// previous process.
	sess, err = s.store.GetSession(ctx, id)
	if err != nil {
		return err
	}
	if sess.Status.Terminal() {
		return nil
	}
	return markStopped()
}

func (s *crawlService) List(ctx context.Context, p repository.Pagination) (*model.PaginatedResponse[*model.CrawlSession], error) {
	sessions, total, err := s.store.ListSessions(ctx, p)
	if err != nil {
		return nil, err
	}
	for _, sess := range sessions {
		if h, ok := s.registry.Get(sess.ID); ok {
			if cur := h.CurrentURL(); cur != "" {
				sess.CurrentURL = cur
			}
		}
	}
	return paginate(sessions, total, p), nil
}

func (s *crawlService) Pages(ctx context.Context, id string, p repository.Pagination) (*model.PaginatedResponse[*model.CrawledPage], error) {
	if _, err := s.store.GetSession(ctx, id); err != nil {
		return nil, err
	}
	pages, total, err := s.store.ListPagesPaged(ctx, id, p)
	if err != nil {
		return nil, err
	}
	return paginate(pages, total, p), nil
}

// Duplicates groups the URLs of a session that share a content hash.
func (s *crawlService) Duplicates(ctx context.Context, id string) ([]model.DuplicateGroup, error) {
	if _, err := s.store.GetSession(ctx, id); err != nil {
		return nil, err
	}
	hashes, err := s.store.UniqueHashes(ctx, id)
	if err != nil {
		return nil, err
	}
	groups := make([]model.DuplicateGroup, 0)
	for _, h := range hashes {
		pages, err := s.store.PagesByHash(ctx, id, h)
		if err != nil {
			return nil, err
		}
		if len(pages) < 2 {
			continue
		}
		g := model.DuplicateGroup{ContentHash: h, URLs: make([]string, len(pages))}
		for i, p := range pages {
			g.URLs[i] = p.URL
		}
		groups = append(groups, g)
	}
	return groups, nil
}

func (s *crawlService) Wait(ctx context.Context, id string) error {
	h, ok := s.registry.Get(id)
	if !ok {
		return nil
	}
	select {
	case <-h.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *crawlService) Shutdown(ctx context.Context) error {
	return s.registry.Shutdown(ctx)
}

func paginate[T any](items []T, total int, p repository.Pagination) *model.PaginatedResponse[T] {
	size := p.Limit()
	totalPages := total / size
	if total%size > 0 {
		totalPages++
	}
	page := p.Page
	if page < 1 {
		page = 1
	}
	return &model.PaginatedResponse[T]{
		Data: items,
		Pagination: model.PaginationMetaDTO{
			Page:       page,
			PageSize:   size,
			TotalItems: total,
			TotalPages: totalPages,
		},
	}
}
