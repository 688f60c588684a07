package analyzer

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/antchfx/xmlquery"
)

// Sitemap fetches {origin}/sitemap.xml within SitemapTimeout. Failures of any
// kind yield nil.
func (a *httpAnalyzer) Sitemap(ctx context.Context, seed *url.URL) []string {
	ctx, cancel := context.WithTimeout(ctx, a.opts.SitemapTimeout)
	defer cancel()

	loc := (&url.URL{Scheme: seed.Scheme, Host: seed.Host, Path: "/sitemap.xml"}).String()
	body, resp, err := a.get(ctx, loc)
	if err != nil || resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil
	}
	urls, err := ParseSitemap(body)
	if err != nil {
		return nil
	}
	return urls
}

// ParseSitemap returns the <loc> values of a sitemap URL set in document order.
func ParseSitemap(body []byte) ([]string, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	var locs []string
	for _, n := range xmlquery.Find(doc, "//urlset/url/loc") {
		if v := strings.TrimSpace(n.InnerText()); v != "" {
			locs = append(locs, v)
		}
	}
	return locs, nil
}
