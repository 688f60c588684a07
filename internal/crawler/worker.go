package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/fuzumoe/sitescope-api/internal/analyzer"
	"github.com/fuzumoe/sitescope-api/internal/model"
	"github.com/fuzumoe/sitescope-api/internal/repository"
)

// DefaultDelay is the pause between two fetches of the same session.
const DefaultDelay = 100 * time.Millisecond

// Controller drives the crawl loop of one session at a time. A single
// Controller may serve many sessions concurrently; all per-session state
// lives on the stack of Run.
type Controller struct {
	store    repository.Store
	analyzer analyzer.Analyzer
	delay    time.Duration
	log      logrus.FieldLogger
}

// NewController wires a controller. delay <= 0 disables pacing.
func NewController(store repository.Store, a analyzer.Analyzer, delay time.Duration, log logrus.FieldLogger) *Controller {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Controller{store: store, analyzer: a, delay: delay, log: log}
}

// session carries the per-run state of the crawl loop.
type session struct {
	cfg      *model.CrawlSession
	seed     *url.URL
	handle   *Handle
	frontier *Frontier
	counters model.Counters
	log      logrus.FieldLogger
	// store writes must survive a stop request
	storeCtx context.Context
}

// Run executes the crawl of sess until the frontier drains, the page budget
// is spent, or h is cancelled. It always persists a terminal status.
func (c *Controller) Run(h *Handle, sess *model.CrawlSession) (out Outcome) {
	start := time.Now()
	s := &session{
		cfg:      sess,
		handle:   h,
		frontier: NewFrontier(),
		log:      c.log.WithField("session", sess.ID),
		storeCtx: context.WithoutCancel(h.Context()),
	}

	var fatal error
	defer func() {
		if r := recover(); r != nil {
			fatal = fmt.Errorf("crawl panic: %v", r)
		}
		out = c.finish(s, fatal)
		out.Duration = time.Since(start)
	}()

	started, err := h.begin(func() error {
		now := time.Now().UTC()
		return c.store.UpdateStatus(s.storeCtx, sess.ID, model.StatusRunning, &now, nil)
	})
	if err != nil {
		fatal = fmt.Errorf("mark running: %w", err)
		return
	}
	if !started {
		s.log.Info("stop requested before start")
		return
	}
	s.log.WithField("url", sess.SeedURL).Info("crawl started")
	fatal = c.crawl(s)
	return
}

func (c *Controller) crawl(s *session) error {
	seed, err := url.Parse(s.cfg.SeedURL)
	if err != nil {
		return fmt.Errorf("parse seed: %w", err)
	}
	s.seed = seed
	s.frontier.Push(analyzer.Canonical(seed), 0)
	c.seedFromSitemap(s)

	limiter := rate.NewLimiter(rate.Inf, 1)
	if c.delay > 0 {
		limiter = rate.NewLimiter(rate.Every(c.delay), 1)
	}

	for s.frontier.Len() > 0 && s.counters.TotalPages < s.cfg.MaxPages {
		if s.handle.Cancelled() {
			break
		}
		t, _ := s.frontier.Pop()
		if s.frontier.Visited(t.URL) || t.Depth > s.cfg.MaxDepth {
			continue
		}
		if err := limiter.Wait(s.handle.Context()); err != nil {
			// cancelled while pacing
			break
		}
		s.frontier.Visit(t.URL)
		s.handle.SetCurrentURL(t.URL)

		if err := c.visit(s, t); err != nil {
			return err
		}
	}
	return nil
}

// seedFromSitemap queues sitemap entries at depth 0. Failures are ignored.
func (c *Controller) seedFromSitemap(s *session) {
	locs := c.analyzer.Sitemap(s.handle.Context(), s.seed)
	added := 0
	for _, loc := range locs {
		if s.frontier.Seen() >= s.cfg.MaxPages {
			break
		}
		d := analyzer.Classify(s.seed, loc)
		if d.Kind != analyzer.LinkPage {
			continue
		}
		if s.frontier.Push(d.URL, 0) {
			added++
		}
	}
	if len(locs) > 0 {
		s.log.WithFields(logrus.Fields{"entries": len(locs), "queued": added}).Debug("sitemap seeded")
	}
}

// visit fetches one target, records it and expands its links.
func (c *Controller) visit(s *session, t Target) error {
	// an in-flight fetch is never preempted by a stop request
	res := c.analyzer.Fetch(s.storeCtx, t.URL)

	page := &model.CrawledPage{
		SessionID:    s.cfg.ID,
		URL:          t.URL,
		Depth:        t.Depth,
		LoadTime:     res.Elapsed.Milliseconds(),
		DiscoveredAt: time.Now().UTC(),
	}
	if !res.TransportFailed() {
		page.StatusCode = res.StatusCode
		page.ContentType = res.ContentType
		page.Size = int64(len(res.Body))
		page.ContentHash = analyzer.Fingerprint(res.Body, res.RawContentType, res.StatusCode)
	}

	if err := c.store.CreatePage(s.storeCtx, page); err != nil {
		return fmt.Errorf("record page %s: %w", t.URL, err)
	}
	s.counters.TotalPages++
	if res.Successful() {
		s.counters.SuccessfulPages++
	} else {
		s.counters.ErrorPages++
	}

	entry := s.log.WithFields(logrus.Fields{"url": t.URL, "depth": t.Depth, "status": page.StatusCode})
	if res.TransportFailed() {
		entry.WithError(res.Err).Warn("fetch failed")
	} else {
		entry.Debug("page recorded")
	}

	if res.Successful() && analyzer.IsHTML(res.ContentType) && t.Depth < s.cfg.MaxDepth {
		if err := c.follow(s, res, t.Depth); err != nil {
			return err
		}
	}

	if err := c.store.UpdateProgress(s.storeCtx, s.cfg.ID, s.counters, t.URL); err != nil {
		return fmt.Errorf("update progress: %w", err)
	}
	return nil
}

// follow extracts links of an HTML page, records PDFs and queues pages.
func (c *Controller) follow(s *session, res *analyzer.FetchResult, depth int) error {
	base, err := url.Parse(res.FinalURL)
	if err != nil || !analyzer.SameSite(s.seed, base) {
		// redirected off-site; its links are not ours to follow
		return nil
	}
	hrefs, err := analyzer.ExtractLinks(res.Body, res.RawContentType)
	if err != nil {
		s.log.WithError(err).WithField("url", res.URL).Debug("link extraction failed")
		return nil
	}

	for _, href := range hrefs {
		d := analyzer.Classify(base, href)
		switch d.Kind {
		case analyzer.LinkPDF:
			if err := c.store.AddPdfLink(s.storeCtx, s.cfg.ID, d.URL); err != nil {
				return fmt.Errorf("record pdf %s: %w", d.URL, err)
			}
		case analyzer.LinkPage:
			if s.frontier.Seen() >= s.cfg.MaxPages {
				continue
			}
			s.frontier.Push(d.URL, depth+1)
		}
	}
	return nil
}

// finish persists the terminal status. A stop request wins over a fault so a
// stopped session never moves on to error.
func (c *Controller) finish(s *session, fatal error) Outcome {
	out := Outcome{SessionID: s.cfg.ID, Counters: s.counters, Err: fatal}

	err := s.handle.finish(func(cancelled bool, current string) error {
		switch {
		case cancelled:
			out.Status = model.StatusStopped
		case fatal != nil:
			out.Status = model.StatusError
		default:
			out.Status = model.StatusCompleted
		}

		var errs []error
		if err := c.store.UpdateProgress(s.storeCtx, s.cfg.ID, s.counters, current); err != nil {
			errs = append(errs, err)
		}
		var msg *string
		if out.Status == model.StatusError {
			m := fatal.Error()
			msg = &m
		}
		now := time.Now().UTC()
		if err := c.store.UpdateStatus(s.storeCtx, s.cfg.ID, out.Status, &now, msg); err != nil {
			errs = append(errs, err)
		}
		return errors.Join(errs...)
	})

	if n, cerr := c.store.CountPdfLinks(s.storeCtx, s.cfg.ID); cerr == nil {
		out.PdfLinks = n
	}

	entry := s.log.WithFields(logrus.Fields{
		"status": out.Status,
		"pages":  s.counters.TotalPages,
		"errors": s.counters.ErrorPages,
	})
	if fatal != nil {
		entry = entry.WithError(fatal)
	}
	if err != nil {
		entry.WithField("persist_error", err.Error()).Error("crawl finished, final state not saved")
	} else {
		entry.Info("crawl finished")
	}
	return out
}
