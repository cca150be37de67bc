package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for crawlmap.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawlmap",
		Short: "Map a web domain by crawling it breadth-first",
		Long: `crawlmap crawls a single web domain starting from its root, discovers
in-domain links by parsing HTML, and writes the set of discovered URLs
to a file in the selected format (txt, json, csv, md).

The crawler is polite by default: it respects robots.txt (including
Crawl-delay) and pauses between requests.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
