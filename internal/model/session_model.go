package model

import (
	"time"
)

// SessionStatus is the lifecycle state of a crawl session.
type SessionStatus string

const (
	StatusPending   SessionStatus = "pending"
	StatusRunning   SessionStatus = "running"
	StatusCompleted SessionStatus = "completed"
	StatusStopped   SessionStatus = "stopped"
	StatusError     SessionStatus = "error"
)

// Terminal reports whether no further transition is allowed from s.
func (s SessionStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusStopped, StatusError:
		return true
	}
	return false
}

// CanTransition reports whether moving from s to next goes forward in the
// pending → running → {completed|stopped|error} machine.
func (s SessionStatus) CanTransition(next SessionStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusRunning || next.Terminal()
	case StatusRunning:
		return next.Terminal()
	}
	return false
}

// CrawlSession is one bounded crawl run against a single seed URL.
type CrawlSession struct {
	ID              string        `gorm:"primaryKey;size:36" json:"id"`
	SeedURL         string        `gorm:"type:text;not null" json:"url"`
	MaxPages        int           `gorm:"not null" json:"max_pages"`
	MaxDepth        int           `gorm:"not null" json:"max_depth"`
	Status          SessionStatus `gorm:"size:16;not null;default:'pending';index" json:"status"`
	TotalPages      int           `gorm:"not null;default:0" json:"total_pages"`
	SuccessfulPages int           `gorm:"not null;default:0" json:"successful_pages"`
	ErrorPages      int           `gorm:"not null;default:0" json:"error_pages"`
	CurrentURL      string        `gorm:"type:text" json:"current_url,omitempty"`
	StartedAt       *time.Time    `json:"started_at,omitempty"`
	CompletedAt     *time.Time    `json:"completed_at,omitempty"`
	Error           *string       `gorm:"type:text" json:"error,omitempty"`
	CreatedAt       time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName returns the name of the table for CrawlSession.
func (CrawlSession) TableName() string {
	return "crawl_sessions"
}

// Counters groups the monotonic page counters of a session.
type Counters struct {
	TotalPages      int
	SuccessfulPages int
	ErrorPages      int
}

// Counters returns a snapshot of the session's page counters.
func (s *CrawlSession) Counters() Counters {
	return Counters{
		TotalPages:      s.TotalPages,
		SuccessfulPages: s.SuccessfulPages,
		ErrorPages:      s.ErrorPages,
	}
}

// StartCrawlInput defines the fields accepted to start a crawl.
type StartCrawlInput struct {
	URL      string `json:"url" binding:"required,url"`
	MaxPages *int   `json:"max_pages,omitempty"`
	MaxDepth int    `json:"max_depth" binding:"required"`
}

// SessionFromStartInput maps a validated StartCrawlInput to a pending session.
func SessionFromStartInput(id string, in *StartCrawlInput, maxPages int) *CrawlSession {
	now := time.Now()
	return &CrawlSession{
		ID:        id,
		SeedURL:   in.URL,
		MaxPages:  maxPages,
		MaxDepth:  in.MaxDepth,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
