package model

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// CrawledPage records the outcome of one fetch attempt.
type CrawledPage struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID    string    `gorm:"size:36;not null;uniqueIndex:idx_page_session_url,priority:1;index:idx_page_session_hash,priority:1" json:"session_id"`
	URL          string    `gorm:"type:text;not null" json:"url"`
	URLHash      string    `gorm:"type:char(64);not null;uniqueIndex:idx_page_session_url,priority:2" json:"-"`
	StatusCode   int       `json:"status_code"`
	ContentType  string    `gorm:"size:255" json:"content_type"`
	Size         int64     `json:"size"`
	LoadTime     int64     `json:"load_time"`
	Depth        int       `json:"depth"`
	ContentHash  *string   `gorm:"size:64;index:idx_page_session_hash,priority:2" json:"content_hash"`
	DiscoveredAt time.Time `json:"discovered_at"`
}

// TableName returns the name of the table for CrawledPage.
func (CrawledPage) TableName() string {
	return "crawled_pages"
}

// TransportFailed reports whether the fetch produced no HTTP response.
func (p *CrawledPage) TransportFailed() bool {
	return p.StatusCode == 0
}

// Successful reports whether the page answered with a 2xx status.
func (p *CrawledPage) Successful() bool {
	return p.StatusCode >= 200 && p.StatusCode < 300
}

// PdfLink is a PDF URL discovered on an HTML page of a session.
type PdfLink struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID string    `gorm:"size:36;not null;uniqueIndex:idx_pdf_session_url,priority:1" json:"session_id"`
	URL       string    `gorm:"type:text;not null" json:"url"`
	URLHash   string    `gorm:"type:char(64);not null;uniqueIndex:idx_pdf_session_url,priority:2" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName returns the name of the table for PdfLink.
func (PdfLink) TableName() string {
	return "pdf_links"
}

// URLKey returns the hex SHA-256 of u. Unique indexes key on it instead of
// the URL text.
func URLKey(u string) string {
	sum := sha256.Sum256([]byte(u))
	return hex.EncodeToString(sum[:])
}
