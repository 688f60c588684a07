package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

var (
	// ErrTooManyRedirects is returned when the redirect cap is exceeded.
	ErrTooManyRedirects = errors.New("too many redirects")
	// ErrBodyTooLarge is returned when a response body exceeds the size cap.
	ErrBodyTooLarge = errors.New("response body exceeds size limit")
)

// FetchResult is the outcome of one GET. StatusCode is 0 when Err is set.
type FetchResult struct {
	URL            string
	FinalURL       string
	StatusCode     int
	ContentType    string // media type without parameters
	RawContentType string // header value as received, or sniffed
	Body           []byte
	Elapsed        time.Duration
	Err            error
}

// TransportFailed reports whether no HTTP response was obtained.
func (r *FetchResult) TransportFailed() bool { return r.Err != nil }

// Successful reports whether the response carried a 2xx status.
func (r *FetchResult) Successful() bool {
	return r.Err == nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// httpAnalyzer fetches pages over HTTP with fixed limits.
type httpAnalyzer struct {
	client *http.Client
	opts   Options
}

func newHTTPAnalyzer(opts Options) *httpAnalyzer {
	def := DefaultOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	if opts.SitemapTimeout <= 0 {
		opts.SitemapTimeout = def.SitemapTimeout
	}
	if opts.MaxRedirects <= 0 {
		opts.MaxRedirects = def.MaxRedirects
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = def.MaxBodyBytes
	}
	if opts.UserAgent == "" {
		opts.UserAgent = def.UserAgent
	}

	maxRedirects := opts.MaxRedirects
	return &httpAnalyzer{
		opts: opts,
		client: &http.Client{
			Timeout: opts.Timeout,
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) > maxRedirects {
					return fmt.Errorf("%w: stopped after %d", ErrTooManyRedirects, maxRedirects)
				}
				return nil
			},
		},
	}
}

// Fetch performs a single bounded GET. Any HTTP status is a successful fetch.
func (a *httpAnalyzer) Fetch(ctx context.Context, rawURL string) *FetchResult {
	res := &FetchResult{URL: rawURL, FinalURL: rawURL}
	start := time.Now()
	defer func() { res.Elapsed = time.Since(start) }()

	body, resp, err := a.get(ctx, rawURL)
	if err != nil {
		res.Err = err
		return res
	}

	res.StatusCode = resp.StatusCode
	res.FinalURL = resp.Request.URL.String()
	res.Body = body
	res.RawContentType = resp.Header.Get("Content-Type")
	res.ContentType = mediaType(res.RawContentType)
	if res.ContentType == "" && len(body) > 0 {
		res.RawContentType = mimetype.Detect(body).String()
		res.ContentType = mediaType(res.RawContentType)
	}
	return res
}

// get issues the request and reads at most MaxBodyBytes of the body.
func (a *httpAnalyzer) get(ctx context.Context, rawURL string) ([]byte, *http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("User-Agent", a.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,*/*;q=0.8")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	limit := a.opts.MaxBodyBytes
	if resp.ContentLength > limit {
		return nil, nil, fmt.Errorf("%w: %d bytes declared", ErrBodyTooLarge, resp.ContentLength)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > limit {
		return nil, nil, fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, limit)
	}
	return body, resp, nil
}

func mediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		// keep whatever precedes the parameters
		mt, _, _ = strings.Cut(contentType, ";")
	}
	return strings.ToLower(strings.TrimSpace(mt))
}
