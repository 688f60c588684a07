package service

import (
	"context"
	"fmt"

	"github.com/fuzumoe/sitescope-api/internal/model"
)

// unknownType labels pages without a content type, transport failures included.
const unknownType = "unknown"

// stats derives the progress statistics of a session from its page records.
// It is an O(n) pass over pages per call.
func (s *crawlService) stats(ctx context.Context, id string, pages []*model.CrawledPage) (model.CrawlStats, error) {
	hashes, err := s.store.UniqueHashes(ctx, id)
	if err != nil {
		return model.CrawlStats{}, fmt.Errorf("unique hashes: %w", err)
	}
	pdfs, err := s.store.CountPdfLinks(ctx, id)
	if err != nil {
		return model.CrawlStats{}, fmt.Errorf("count pdf links: %w", err)
	}
	return ComputeStats(pages, len(hashes), pdfs), nil
}

// ComputeStats aggregates status codes, content types and duplicate counts.
// duplicateUrls is totalFound minus the number of distinct content hashes.
func ComputeStats(pages []*model.CrawledPage, uniqueHashes, pdfLinks int) model.CrawlStats {
	st := model.CrawlStats{
		TotalFound:  len(pages),
		UniquePages: uniqueHashes,
		PdfLinks:    pdfLinks,
		StatusCodes: make(map[int]int),
		PageTypes:   make(map[string]int),
	}
	for _, p := range pages {
		if p.Successful() {
			st.Successful++
		} else {
			st.Errors++
		}
		st.StatusCodes[p.StatusCode]++
		ct := p.ContentType
		if ct == "" {
			ct = unknownType
		}
		st.PageTypes[ct]++
	}
	st.DuplicateURLs = st.TotalFound - st.UniquePages
	return st
}
