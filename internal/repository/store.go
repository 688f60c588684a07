package repository

import (
	"context"
	"errors"
	"time"

	"github.com/fuzumoe/sitescope-api/internal/model"
)

// ErrNotFound is returned when a session does not exist.
var ErrNotFound = errors.New("record not found")

// SessionRepository defines storage ops around crawl sessions.
type SessionRepository interface {
	CreateSession(ctx context.Context, s *model.CrawlSession) error
	GetSession(ctx context.Context, id string) (*model.CrawlSession, error)
	UpdateSession(ctx context.Context, s *model.CrawlSession) error
	// UpdateProgress writes only the counters and current URL so that a
	// concurrent status change is never overwritten by the crawl loop.
	UpdateProgress(ctx context.Context, id string, c model.Counters, currentURL string) error
	UpdateStatus(ctx context.Context, id string, status model.SessionStatus, completedAt *time.Time, errMsg *string) error
	ListSessions(ctx context.Context, p Pagination) ([]*model.CrawlSession, int, error)
}

// PageRepository defines storage ops around crawled pages.
type PageRepository interface {
	CreatePage(ctx context.Context, p *model.CrawledPage) error
	ListPages(ctx context.Context, sessionID string) ([]*model.CrawledPage, error)
	ListPagesPaged(ctx context.Context, sessionID string, p Pagination) ([]*model.CrawledPage, int, error)
	UniqueHashes(ctx context.Context, sessionID string) ([]string, error)
	PagesByHash(ctx context.Context, sessionID, hash string) ([]*model.CrawledPage, error)
}

// PdfLinkRepository defines storage ops around discovered PDF links.
type PdfLinkRepository interface {
	// AddPdfLink is a no-op when the URL is already recorded for the session.
	AddPdfLink(ctx context.Context, sessionID, url string) error
	CountPdfLinks(ctx context.Context, sessionID string) (int, error)
	ListPdfLinks(ctx context.Context, sessionID string) ([]string, error)
}

// Store is the full storage contract consumed by the crawler and services.
type Store interface {
	SessionRepository
	PageRepository
	PdfLinkRepository
	Ping(ctx context.Context) error
}
