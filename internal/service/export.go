package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

var pageHeader = []string{
	"URL", "Status Code", "Content Type", "Size (bytes)", "Load Time (ms)", "Depth", "Content Hash",
}

// ExportCSV writes one row per crawled page followed by a PDF links section.
func (s *crawlService) ExportCSV(ctx context.Context, id string, w io.Writer) error {
	if _, err := s.store.GetSession(ctx, id); err != nil {
		return err
	}
	pages, err := s.store.ListPages(ctx, id)
	if err != nil {
		return fmt.Errorf("list pages: %w", err)
	}
	pdfs, err := s.store.ListPdfLinks(ctx, id)
	if err != nil {
		return fmt.Errorf("list pdf links: %w", err)
	}
	if len(pages) == 0 && len(pdfs) == 0 {
		return ErrNothingToExport
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(pageHeader); err != nil {
		return err
	}
	for _, p := range pages {
		hash := ""
		if p.ContentHash != nil {
			hash = *p.ContentHash
		}
		row := []string{
			p.URL,
			strconv.Itoa(p.StatusCode),
			p.ContentType,
			strconv.FormatInt(p.Size, 10),
			strconv.FormatInt(p.LoadTime, 10),
			strconv.Itoa(p.Depth),
			hash,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	// blank separator line, then the PDF section
	if err := cw.Write(nil); err != nil {
		return err
	}
	if err := cw.Write([]string{"PDF Links"}); err != nil {
		return err
	}
	for _, u := range pdfs {
		if err := cw.Write([]string{u}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
