package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fuzumoe/sitescope-api/configs"
	"github.com/fuzumoe/sitescope-api/internal/analyzer"
	"github.com/fuzumoe/sitescope-api/internal/app"
	"github.com/fuzumoe/sitescope-api/internal/model"
	"github.com/fuzumoe/sitescope-api/internal/repository"
	"github.com/fuzumoe/sitescope-api/internal/service"
)

type crawlOptions struct {
	maxPages int
	maxDepth int
	delay    time.Duration
	timeout  time.Duration
	output   string
}

// NewCrawlCmd creates the crawl subcommand.
func NewCrawlCmd() *cobra.Command {
	opts := &crawlOptions{}
	def := analyzer.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "crawl <url>",
		Short: "Crawl a site and write a CSV report",
		Long: `Crawl the site rooted at <url> in memory and print a summary.
Press Ctrl+C to stop early; the pages crawled so far are still reported.`,
		Example: `  sitescope crawl https://example.com --max-depth 2
  sitescope crawl https://example.com --max-pages 200 -o report.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, _ := cmd.Flags().GetString("log-level")
			return runCrawl(cmd.Context(), cmd.OutOrStdout(), args[0], level, opts)
		},
	}

	cmd.Flags().IntVar(&opts.maxPages, "max-pages", service.DefaultMaxPages, "Maximum number of pages to fetch")
	cmd.Flags().IntVar(&opts.maxDepth, "max-depth", 3, "Maximum link depth from the seed URL")
	cmd.Flags().DurationVar(&opts.delay, "delay", 100*time.Millisecond, "Pause between two requests")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", def.Timeout, "Per-request timeout")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write the CSV report to this file")
	return cmd
}

func runCrawl(ctx context.Context, out io.Writer, seed, level string, opts *crawlOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	def := analyzer.DefaultOptions()
	cfg := &configs.Config{
		StorageDriver:  configs.StorageMemory,
		LogLevel:       level,
		FetchTimeout:   opts.timeout,
		SitemapTimeout: def.SitemapTimeout,
		MaxRedirects:   def.MaxRedirects,
		MaxBodyBytes:   def.MaxBodyBytes,
		RequestDelay:   opts.delay,
		UserAgent:      def.UserAgent,
	}
	deps := app.Build(cfg, repository.NewMemoryStore(), app.NewLogger(level))
	svc := deps.CrawlService

	maxPages := opts.maxPages
	id, err := svc.StartCrawl(ctx, &model.StartCrawlInput{URL: seed, MaxPages: &maxPages, MaxDepth: opts.maxDepth})
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := svc.Wait(sigCtx, id); err != nil {
		fmt.Fprintln(out, "stopping...")
		if err := svc.StopCrawl(context.Background(), id); err != nil {
			return err
		}
		if err := svc.Wait(context.Background(), id); err != nil {
			return err
		}
	}

	progress, err := svc.GetProgress(context.Background(), id)
	if err != nil {
		return err
	}
	printSummary(out, progress)

	if opts.output == "" {
		return nil
	}
	f, err := os.Create(opts.output)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer f.Close()
	if err := svc.ExportCSV(context.Background(), id, f); err != nil {
		return fmt.Errorf("export report: %w", err)
	}
	fmt.Fprintf(out, "report written to %s\n", opts.output)
	return nil
}

func printSummary(out io.Writer, p *model.CrawlProgress) {
	s := p.Session
	st := p.Stats
	fmt.Fprintf(out, "session   %s (%s)\n", s.ID, s.Status)
	if s.Error != nil {
		fmt.Fprintf(out, "error     %s\n", *s.Error)
	}
	fmt.Fprintf(out, "pages     %d (ok %d, errors %d)\n", st.TotalFound, st.Successful, st.Errors)
	fmt.Fprintf(out, "unique    %d (duplicate urls %d)\n", st.UniquePages, st.DuplicateURLs)
	fmt.Fprintf(out, "pdf links %d\n", st.PdfLinks)

	codes := make([]int, 0, len(st.StatusCodes))
	for c := range st.StatusCodes {
		codes = append(codes, c)
	}
	sort.Ints(codes)
	for _, c := range codes {
		fmt.Fprintf(out, "  status %3d: %d\n", c, st.StatusCodes[c])
	}
}
