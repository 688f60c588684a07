package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fuzumoe/sitescope-api/internal/model"
)

// memoryStore keeps everything in process memory. Records are copied on the
// way in and out so callers never share state with the store.
type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*model.CrawlSession
	order    []string
	pages    map[string][]*model.CrawledPage
	pageURLs map[string]map[string]struct{}
	pdfs     map[string][]string
	pdfSet   map[string]map[string]struct{}
	nextPage uint
}

// NewMemoryStore returns an empty in-memory Store.
func NewMemoryStore() Store {
	return &memoryStore{
		sessions: make(map[string]*model.CrawlSession),
		pages:    make(map[string][]*model.CrawledPage),
		pageURLs: make(map[string]map[string]struct{}),
		pdfs:     make(map[string][]string),
		pdfSet:   make(map[string]map[string]struct{}),
	}
}

func (s *memoryStore) CreateSession(_ context.Context, sess *model.CrawlSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sess.ID]; ok {
		return fmt.Errorf("session %s already exists", sess.ID)
	}
	now := time.Now()
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = now
	}
	sess.UpdatedAt = now
	cp := *sess
	s.sessions[sess.ID] = &cp
	s.order = append(s.order, sess.ID)
	return nil
}

func (s *memoryStore) GetSession(_ context.Context, id string) (*model.CrawlSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *sess
	return &cp, nil
}

func (s *memoryStore) UpdateSession(_ context.Context, sess *model.CrawlSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sess.ID]; !ok {
		return ErrNotFound
	}
	sess.UpdatedAt = time.Now()
	cp := *sess
	s.sessions[sess.ID] = &cp
	return nil
}

func (s *memoryStore) UpdateProgress(_ context.Context, id string, c model.Counters, currentURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}
	sess.TotalPages = c.TotalPages
	sess.SuccessfulPages = c.SuccessfulPages
	sess.ErrorPages = c.ErrorPages
	sess.CurrentURL = currentURL
	sess.UpdatedAt = time.Now()
	return nil
}

func (s *memoryStore) UpdateStatus(
	_ context.Context,
	id string,
	status model.SessionStatus,
	at *time.Time,
	errMsg *string,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}
	sess.Status = status
	if at != nil {
		t := *at
		if status == model.StatusRunning {
			sess.StartedAt = &t
		} else {
			sess.CompletedAt = &t
		}
	}
	if errMsg != nil {
		msg := *errMsg
		sess.Error = &msg
	}
	sess.UpdatedAt = time.Now()
	return nil
}

func (s *memoryStore) ListSessions(_ context.Context, p Pagination) ([]*model.CrawlSession, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// newest first, like the SQL store
	n := len(s.order)
	start, end := p.window(n)
	out := make([]*model.CrawlSession, 0, end-start)
	for i := start; i < end; i++ {
		cp := *s.sessions[s.order[n-1-i]]
		out = append(out, &cp)
	}
	return out, n, nil
}

func (s *memoryStore) CreatePage(_ context.Context, p *model.CrawledPage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[p.SessionID]; !ok {
		return ErrNotFound
	}
	urls := s.pageURLs[p.SessionID]
	if urls == nil {
		urls = make(map[string]struct{})
		s.pageURLs[p.SessionID] = urls
	}
	if _, dup := urls[p.URL]; dup {
		return fmt.Errorf("page %s already recorded for session %s", p.URL, p.SessionID)
	}
	urls[p.URL] = struct{}{}

	s.nextPage++
	p.ID = s.nextPage
	if p.DiscoveredAt.IsZero() {
		p.DiscoveredAt = time.Now()
	}
	s.pages[p.SessionID] = append(s.pages[p.SessionID], copyPage(p))
	return nil
}

func (s *memoryStore) ListPages(_ context.Context, sessionID string) ([]*model.CrawledPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pages := s.pages[sessionID]
	out := make([]*model.CrawledPage, len(pages))
	for i, p := range pages {
		out[i] = copyPage(p)
	}
	return out, nil
}

func (s *memoryStore) ListPagesPaged(_ context.Context, sessionID string, p Pagination) ([]*model.CrawledPage, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pages := s.pages[sessionID]
	start, end := p.window(len(pages))
	out := make([]*model.CrawledPage, 0, end-start)
	for _, pg := range pages[start:end] {
		out = append(out, copyPage(pg))
	}
	return out, len(pages), nil
}

func (s *memoryStore) UniqueHashes(_ context.Context, sessionID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, p := range s.pages[sessionID] {
		if p.ContentHash != nil {
			seen[*p.ContentHash] = struct{}{}
		}
	}
	hashes := make([]string, 0, len(seen))
	for h := range seen {
		hashes = append(hashes, h)
	}
	sort.Strings(hashes)
	return hashes, nil
}

func (s *memoryStore) PagesByHash(_ context.Context, sessionID, hash string) ([]*model.CrawledPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*model.CrawledPage
	for _, p := range s.pages[sessionID] {
		if p.ContentHash != nil && *p.ContentHash == hash {
			out = append(out, copyPage(p))
		}
	}
	return out, nil
}

func (s *memoryStore) AddPdfLink(_ context.Context, sessionID, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.pdfSet[sessionID]
	if set == nil {
		set = make(map[string]struct{})
		s.pdfSet[sessionID] = set
	}
	if _, ok := set[url]; ok {
		return nil
	}
	set[url] = struct{}{}
	s.pdfs[sessionID] = append(s.pdfs[sessionID], url)
	return nil
}

func (s *memoryStore) CountPdfLinks(_ context.Context, sessionID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pdfs[sessionID]), nil
}

func (s *memoryStore) ListPdfLinks(_ context.Context, sessionID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.pdfs[sessionID]...), nil
}

func (s *memoryStore) Ping(context.Context) error { return nil }

func copyPage(p *model.CrawledPage) *model.CrawledPage {
	cp := *p
	if p.ContentHash != nil {
		h := *p.ContentHash
		cp.ContentHash = &h
	}
	return &cp
}
