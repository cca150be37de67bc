package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/crawlmap/crawlmap/internal/config"
	"github.com/crawlmap/crawlmap/internal/crawler"
	logpkg "github.com/crawlmap/crawlmap/internal/log"
	"github.com/crawlmap/crawlmap/internal/model"
	"github.com/crawlmap/crawlmap/internal/pipeline"
	"github.com/crawlmap/crawlmap/internal/report"
	"github.com/crawlmap/crawlmap/internal/robots"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl <domain>",
		Short: "Crawl a domain and write the discovered URLs to a file",
		Long: `Crawl visits a single domain breadth-first starting from its root,
extracts same-domain links from each HTML page, and writes the ordered
set of discovered URLs to <output-dir>/<domain>_<timestamp>.<ext>.

robots.txt is fetched once and respected: disallowed paths are recorded
but never fetched, and the larger of --delay and the domain's
Crawl-delay paces the requests. A missing or broken robots.txt permits
everything (fail-open).

Examples:
  # Crawl a domain with defaults (txt output, 1s delay)
  crawlmap crawl example.com

  # JSON output, custom identification, no pacing
  crawlmap crawl --format json --user-agent "mybot/1.0" --delay 0 example.com

  # Bounded crawl with per-domain overrides from a config file
  crawlmap crawl --max-pages 200 --max-depth 3 -c sites.yml example.com

Configuration file (.crawlmap) example:
  domains:
    example.com:
      cookie: "session_id=abc123"
      delay: 2s
      ignorePatterns: ["/logout*", "*.pdf"]`,
		Args: cobra.ExactArgs(1),
		RunE: runCrawlCmd,
	}

	cmd.Flags().StringP("format", "f", config.DefaultFormat,
		"Output format: txt, json, csv, or md")
	cmd.Flags().StringP("output-dir", "o", config.DefaultOutputDir,
		"Directory the report file is written to (created if missing)")
	cmd.Flags().StringP("user-agent", "u", crawler.DefaultUserAgent,
		"User-Agent header sent with every request")
	cmd.Flags().DurationP("delay", "d", config.DefaultDelay,
		"Minimum pause between requests (0 to disable)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each HTTP request")
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of pages to visit (0 = unlimited)")
	cmd.Flags().IntP("max-depth", "D", config.DefaultMaxDepth,
		"Maximum link depth from the root (0 = unlimited)")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .crawlmap in current or XDG config directory)")
	cmd.Flags().BoolP("quiet", "q", false,
		"Suppress per-URL progress output")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(getVerboseFlag(cmd), cfg.Quiet)
	slog.SetDefault(logger)

	// The output directory must be usable before any crawling starts:
	// an unwritable destination is a configuration error, and nothing
	// should be fetched if the result cannot be written.
	if err := os.MkdirAll(cfg.OutputDir, 0o750); err != nil {
		return fmt.Errorf("configuration error: output directory %q: %w", cfg.OutputDir, err)
	}

	// Cancel the crawl on interrupt; the partial result is still written.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, finishing current fetch...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runCrawl(ctx, cmd, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Domain = args[0]

	var err error

	cfg.Format, err = cmd.Flags().GetString("format")
	if err != nil {
		return nil, err
	}

	cfg.OutputDir, err = cmd.Flags().GetString("output-dir")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.Delay, err = cmd.Flags().GetDuration("delay")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.MaxPages, err = cmd.Flags().GetInt("max-pages")
	if err != nil {
		return nil, err
	}

	cfg.MaxDepth, err = cmd.Flags().GetInt("max-depth")
	if err != nil {
		return nil, err
	}

	cfg.Quiet, err = cmd.Flags().GetBool("quiet")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicitly specified config file must exist; an implicit
	// search silently falls back to an empty config.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.DomainConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	return cfg, nil
}

// setupLogger creates a structured logger. Per-URL progress is logged
// at info level, so quiet raises the threshold to warnings; verbose
// lowers it to debug. All output passes through the redaction handler
// so configured cookies and auth headers never appear in logs.
func setupLogger(verbose, quiet bool) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case quiet:
		level = slog.LevelWarn
	case verbose:
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(logpkg.NewRedactHandler(handler))
}

// runCrawl wires up the crawl pipeline and executes it.
func runCrawl(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	seedURL, err := crawler.NormalizeURL(cfg.SeedURL())
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	seed, err := url.Parse(seedURL)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	domainCfg := cfg.DomainConfigs.Get(seed.Hostname())
	userAgent := cfg.UserAgent
	if domainCfg.UserAgent != "" {
		userAgent = domainCfg.UserAgent
	}
	delay := cfg.Delay
	if !domainCfg.Delay.IsZero() {
		delay = domainCfg.Delay.Duration
	}
	maxDepth := cfg.MaxDepth
	if domainCfg.MaxDepth != 0 {
		maxDepth = domainCfg.MaxDepth
	}

	headers := make(map[string]string, len(domainCfg.Headers)+1)
	for k, v := range domainCfg.Headers {
		headers[k] = v
	}
	if domainCfg.Cookie != "" {
		headers["Cookie"] = domainCfg.Cookie
	}

	logger.Debug("starting crawl",
		"seed", seedURL,
		"userAgent", userAgent,
		"delay", delay,
		"maxPages", cfg.MaxPages,
		"maxDepth", maxDepth,
		"cookie", domainCfg.Cookie,
	)

	client := &http.Client{Timeout: cfg.Timeout}

	policy := robots.NewPolicy(client, seed,
		robots.WithUserAgent(userAgent),
		robots.WithLogger(logger),
	)

	fetcher := crawler.NewFetcher(client,
		crawler.WithUserAgent(userAgent),
		crawler.WithTimeout(cfg.Timeout),
		crawler.WithHeaders(headers),
	)

	engine := crawler.New(fetcher,
		crawler.WithRobots(policy),
		crawler.WithDelay(delay),
		crawler.WithMaxPages(cfg.MaxPages),
		crawler.WithMaxDepth(maxDepth),
		crawler.WithIgnorePatterns(domainCfg.IgnorePatterns),
		crawler.WithFollowPatterns(domainCfg.FollowPatterns),
		crawler.WithLogger(logger),
	)

	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	p := pipeline.New(pipeline.WithLogger(logger))
	p.AddSteps(
		pipeline.NewCrawlStep(engine, seedURL, logger),
		pipeline.NewReportStep(cfg.OutputDir, format, getVersion(),
			pipeline.WithReportLogger(logger)),
	)

	result := &model.CrawlResult{}
	if err := p.Execute(ctx, result); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "crawled %d URLs on %s (%d errors)\n",
		len(result.Visits), result.Domain, result.Errors())
	fmt.Fprintf(cmd.OutOrStdout(), "report: %s\n", result.OutputFile)
	return nil
}
