package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuzumoe/sitescope-api/internal/model"
)

func newSite() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/{$}", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<a href="/a">a</a><a href="/gone">gone</a><a href="/guide.pdf">pdf</a>`)
	})
	mux.HandleFunc("/a", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<p>page a</p>`)
	})
	return httptest.NewServer(mux)
}

func TestRunCrawl_WritesSummaryAndReport(t *testing.T) {
	site := newSite()
	defer site.Close()

	report := filepath.Join(t.TempDir(), "report.csv")
	opts := &crawlOptions{maxPages: 10, maxDepth: 2, timeout: 2 * time.Second, output: report}
	var out bytes.Buffer

	require.NoError(t, runCrawl(context.Background(), &out, site.URL+"/", "error", opts))

	summary := out.String()
	assert.Contains(t, summary, "(completed)")
	assert.Contains(t, summary, "pages     3 (ok 2, errors 1)")
	assert.Contains(t, summary, "pdf links 1")
	assert.Contains(t, summary, "status 404: 1")
	assert.Contains(t, summary, "report written to "+report)

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "URL,Status Code,"))
	assert.Contains(t, string(data), site.URL+"/guide.pdf")
}

func TestRunCrawl_InvalidInput(t *testing.T) {
	opts := &crawlOptions{maxPages: 10, maxDepth: 0}
	err := runCrawl(context.Background(), &bytes.Buffer{}, "not a url", "error", opts)
	require.Error(t, err)
}

func TestPrintSummary(t *testing.T) {
	msg := "crawl panic: boom"
	p := &model.CrawlProgress{
		Session: &model.CrawlSession{ID: "s1", Status: model.StatusError, Error: &msg},
		Stats: model.CrawlStats{
			TotalFound: 2, Successful: 1, Errors: 1, UniquePages: 1,
			DuplicateURLs: 1, StatusCodes: map[int]int{500: 1, 200: 1},
		},
	}
	var out bytes.Buffer
	printSummary(&out, p)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "session   s1 (error)", lines[0])
	assert.Equal(t, "error     crawl panic: boom", lines[1])
	assert.Equal(t, "  status 200: 1", lines[5])
	assert.Equal(t, "  status 500: 1", lines[6])
}

func TestRootCmd_HasCrawl(t *testing.T) {
	cmd := NewRootCmd()
	sub, _, err := cmd.Find([]string{"crawl"})
	require.NoError(t, err)
	assert.Equal(t, "crawl", sub.Name())

	cmd.SetArgs([]string{"crawl"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.Error(t, cmd.Execute(), "crawl requires a url argument")
}
