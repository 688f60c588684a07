package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for sitescope.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitescope",
		Short: "Crawl a single website and report its pages",
		Long: `sitescope walks the internal links of one website from a seed URL,
records status, content type, size, timing and depth of every page,
detects duplicate content and collects PDF references.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(NewCrawlCmd())
	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
