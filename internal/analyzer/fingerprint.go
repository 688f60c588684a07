package analyzer

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

// IsHTML reports whether the media type is an HTML document.
func IsHTML(mediaType string) bool {
	switch strings.ToLower(mediaType) {
	case "text/html", "application/xhtml+xml":
		return true
	}
	return false
}

// Fingerprint hashes the semantic content of a response. Only 2xx responses
// are hashed. HTML is reduced to its visible body text first so that markup,
// scripts and styles do not influence the result. contentType is the raw
// Content-Type header value, parameters included. A nil result means there
// is nothing to compare.
func Fingerprint(body []byte, contentType string, status int) (hash *string) {
	if status < 200 || status >= 300 {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			hash = nil
		}
	}()

	if IsHTML(mediaType(contentType)) {
		text, err := VisibleText(body, contentType)
		if err != nil || text == "" {
			return nil
		}
		return digest([]byte(text))
	}
	if len(body) == 0 {
		return nil
	}
	return digest(body)
}

// VisibleText returns the whitespace-normalized body text of an HTML
// document with script, style and noscript subtrees removed.
func VisibleText(body []byte, contentType string) (string, error) {
	doc, err := parseDocument(body, contentType)
	if err != nil {
		return "", err
	}
	doc.Find("script, style, noscript").Remove()
	return strings.Join(strings.Fields(doc.Find("body").Text()), " "), nil
}

func parseDocument(body []byte, contentType string) (*goquery.Document, error) {
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(r)
}

func digest(b []byte) *string {
	sum := sha256.Sum256(b)
	h := hex.EncodeToString(sum[:])
	return &h
}
