package analyzer

import (
	"net/url"
	"path"
	"strings"
)

// LinkKind classifies a discovered hyperlink.
type LinkKind int

const (
	LinkRejected LinkKind = iota
	LinkPage
	LinkPDF
)

func (k LinkKind) String() string {
	switch k {
	case LinkPage:
		return "page"
	case LinkPDF:
		return "pdf"
	}
	return "rejected"
}

// Decision is the outcome of classifying one href.
type Decision struct {
	Kind LinkKind
	URL  string // canonical absolute URL, empty when rejected
}

var blockedSchemes = []string{"javascript:", "mailto:", "tel:", "ftp:"}

// non-page resources that are never queued
var skippedExtensions = map[string]struct{}{
	// images
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".svg": {}, ".webp": {},
	".ico": {}, ".bmp": {}, ".tif": {}, ".tiff": {}, ".avif": {},
	// archives
	".zip": {}, ".rar": {}, ".tar": {}, ".gz": {}, ".tgz": {}, ".bz2": {}, ".7z": {}, ".xz": {},
	// audio and video
	".mp3": {}, ".wav": {}, ".ogg": {}, ".flac": {}, ".aac": {}, ".m4a": {},
	".mp4": {}, ".avi": {}, ".mov": {}, ".wmv": {}, ".mkv": {}, ".webm": {}, ".m4v": {},
	// office documents
	".doc": {}, ".docx": {}, ".xls": {}, ".xlsx": {}, ".ppt": {}, ".pptx": {},
	".odt": {}, ".ods": {}, ".odp": {}, ".rtf": {},
}

// Classify decides whether href, found on the page at base, is an in-scope
// page to crawl, a PDF reference, or something to ignore.
func Classify(base *url.URL, href string) Decision {
	reject := Decision{Kind: LinkRejected}

	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return reject
	}
	lower := strings.ToLower(href)
	for _, scheme := range blockedSchemes {
		if strings.HasPrefix(lower, scheme) {
			return reject
		}
	}

	ref, err := url.Parse(href)
	if err != nil {
		return reject
	}
	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return reject
	}
	if abs.Host == "" {
		return reject
	}

	if abs.Fragment != "" && Canonical(abs) == Canonical(base) {
		return reject
	}

	if strings.HasSuffix(strings.ToLower(abs.Path), ".pdf") {
		return Decision{Kind: LinkPDF, URL: Canonical(abs)}
	}

	if !SameSite(base, abs) {
		return reject
	}

	if _, skip := skippedExtensions[strings.ToLower(path.Ext(abs.Path))]; skip {
		return reject
	}

	return Decision{Kind: LinkPage, URL: Canonical(abs)}
}

// SameSite compares hostnames with a leading "www." removed from both sides.
func SameSite(a, b *url.URL) bool {
	return siteHost(a) == siteHost(b)
}

func siteHost(u *url.URL) string {
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// StripFragment returns u as a string without its fragment.
func StripFragment(u *url.URL) string {
	cp := *u
	cp.Fragment = ""
	cp.RawFragment = ""
	return cp.String()
}

// Canonical is the frontier key of u: lower-case scheme and host, "/" for an
// empty path, no fragment. Seeds and discovered links must both go through it.
func Canonical(u *url.URL) string {
	cp := *u
	cp.Scheme = strings.ToLower(cp.Scheme)
	cp.Host = strings.ToLower(cp.Host)
	if cp.Path == "" && cp.Opaque == "" {
		cp.Path = "/"
		cp.RawPath = ""
	}
	return StripFragment(&cp)
}
