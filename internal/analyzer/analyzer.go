package analyzer

import (
	"context"
	"net/url"
	"time"
)

// Analyzer performs the network side of a crawl.
type Analyzer interface {
	// Fetch performs one bounded GET. It never returns nil; transport
	// failures are reported through FetchResult.Err.
	Fetch(ctx context.Context, rawURL string) *FetchResult
	// Sitemap returns the <loc> entries of the site's sitemap.xml, or nil
	// when it cannot be retrieved or parsed.
	Sitemap(ctx context.Context, seed *url.URL) []string
}

// Options bounds the fetches made by an Analyzer.
type Options struct {
	Timeout        time.Duration
	SitemapTimeout time.Duration
	MaxRedirects   int
	MaxBodyBytes   int64
	UserAgent      string
}

// DefaultOptions returns the stock limits: 10s per request, 5s for the
// sitemap, 5 redirects and 50MB bodies.
func DefaultOptions() Options {
	return Options{
		Timeout:        10 * time.Second,
		SitemapTimeout: 5 * time.Second,
		MaxRedirects:   5,
		MaxBodyBytes:   50 << 20,
		UserAgent:      "SiteScope-Bot/1.0",
	}
}

// New creates an HTTP Analyzer. Zero fields in opts fall back to DefaultOptions.
func New(opts Options) Analyzer { return newHTTPAnalyzer(opts) }
