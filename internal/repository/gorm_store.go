package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fuzumoe/sitescope-api/internal/model"
)

type gormStore struct {
	db *gorm.DB
}

// NewGormStore returns a Store backed by the given GORM connection.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (r *gormStore) CreateSession(ctx context.Context, s *model.CrawlSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *gormStore) GetSession(ctx context.Context, id string) (*model.CrawlSession, error) {
	var s model.CrawlSession
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *gormStore) UpdateSession(ctx context.Context, s *model.CrawlSession) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *gormStore) UpdateProgress(ctx context.Context, id string, c model.Counters, currentURL string) error {
	return r.db.WithContext(ctx).
		Model(&model.CrawlSession{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"total_pages":      c.TotalPages,
			"successful_pages": c.SuccessfulPages,
			"error_pages":      c.ErrorPages,
			"current_url":      currentURL,
		}).Error
}

// UpdateStatus sets the status; at is stored as started_at for running and
// as completed_at for every other status.
func (r *gormStore) UpdateStatus(
	ctx context.Context,
	id string,
	status model.SessionStatus,
	at *time.Time,
	errMsg *string,
) error {
	fields := map[string]any{"status": status}
	if at != nil {
		if status == model.StatusRunning {
			fields["started_at"] = *at
		} else {
			fields["completed_at"] = *at
		}
	}
	if errMsg != nil {
		fields["error"] = *errMsg
	}
	res := r.db.WithContext(ctx).
		Model(&model.CrawlSession{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormStore) ListSessions(ctx context.Context, p Pagination) ([]*model.CrawlSession, int, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.CrawlSession{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var sessions []*model.CrawlSession
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(p.Limit()).
		Offset(p.Offset()).
		Find(&sessions).Error
	return sessions, int(total), err
}

func (r *gormStore) CreatePage(ctx context.Context, p *model.CrawledPage) error {
	p.URLHash = model.URLKey(p.URL)
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *gormStore) ListPages(ctx context.Context, sessionID string) ([]*model.CrawledPage, error) {
	var pages []*model.CrawledPage
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id").
		Find(&pages).Error
	return pages, err
}

func (r *gormStore) ListPagesPaged(ctx context.Context, sessionID string, p Pagination) ([]*model.CrawledPage, int, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&model.CrawledPage{}).
		Where("session_id = ?", sessionID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var pages []*model.CrawledPage
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id").
		Limit(p.Limit()).
		Offset(p.Offset()).
		Find(&pages).Error
	return pages, int(total), err
}

func (r *gormStore) UniqueHashes(ctx context.Context, sessionID string) ([]string, error) {
	var hashes []string
	err := r.db.WithContext(ctx).
		Model(&model.CrawledPage{}).
		Where("session_id = ? AND content_hash IS NOT NULL", sessionID).
		Distinct().
		Order("content_hash").
		Pluck("content_hash", &hashes).Error
	return hashes, err
}

func (r *gormStore) PagesByHash(ctx context.Context, sessionID, hash string) ([]*model.CrawledPage, error) {
	var pages []*model.CrawledPage
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND content_hash = ?", sessionID, hash).
		Order("id").
		Find(&pages).Error
	return pages, err
}

func (r *gormStore) AddPdfLink(ctx context.Context, sessionID, url string) error {
	link := &model.PdfLink{SessionID: sessionID, URL: url, URLHash: model.URLKey(url)}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(link).Error
}

func (r *gormStore) CountPdfLinks(ctx context.Context, sessionID string) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.PdfLink{}).
		Where("session_id = ?", sessionID).
		Count(&n).Error
	return int(n), err
}

func (r *gormStore) ListPdfLinks(ctx context.Context, sessionID string) ([]string, error) {
	var urls []string
	err := r.db.WithContext(ctx).
		Model(&model.PdfLink{}).
		Where("session_id = ?", sessionID).
		Order("id").
		Pluck("url", &urls).Error
	return urls, err
}

func (r *gormStore) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}
