package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/crawlmap/crawlmap/internal/crawler"
	"github.com/crawlmap/crawlmap/internal/model"
	"github.com/crawlmap/crawlmap/internal/report"
)

// CrawlStep runs the crawl engine and fills the shared result.
type CrawlStep struct {
	// engine drives the crawl.
	engine *crawler.Engine

	// seedURL is where the crawl starts.
	seedURL string

	// logger for step-level events.
	logger *slog.Logger
}

// NewCrawlStep creates the crawl step.
func NewCrawlStep(engine *crawler.Engine, seedURL string, logger *slog.Logger) *CrawlStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &CrawlStep{engine: engine, seedURL: seedURL, logger: logger}
}

// Name returns the step name.
func (s *CrawlStep) Name() string {
	return "crawl"
}

// Do runs the crawl. Cancellation is not a step failure: the partial
// result is kept so the report step can still write it.
func (s *CrawlStep) Do(ctx context.Context, result *model.CrawlResult) error {
	res, err := s.engine.Crawl(ctx, s.seedURL)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			s.logger.Warn("crawl interrupted, keeping partial result",
				"visited", len(res.Visits), "reason", err)
			*result = *res
			return nil
		}
		return fmt.Errorf("crawl failed: %w", err)
	}

	*result = *res
	return nil
}

// ReportStep writes the finished result to an output file named
// <domain>_<YYYYMMDD_HHMMSS>.<ext> in the output directory.
type ReportStep struct {
	// outputDir receives the report file. It must already exist; the
	// CLI creates it before any crawling starts.
	outputDir string

	// format selects the serialization.
	format report.Format

	// version is embedded in metadata-carrying formats.
	version string

	// now is the clock used for file naming, injectable for tests.
	now func() time.Time

	// logger for step-level events.
	logger *slog.Logger
}

// ReportStepOption configures a ReportStep.
type ReportStepOption func(*ReportStep)

// WithClock substitutes the clock used for output file naming.
func WithClock(now func() time.Time) ReportStepOption {
	return func(s *ReportStep) {
		if now != nil {
			s.now = now
		}
	}
}

// WithReportLogger sets the step logger.
func WithReportLogger(logger *slog.Logger) ReportStepOption {
	return func(s *ReportStep) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewReportStep creates the report-writing step.
func NewReportStep(outputDir string, format report.Format, version string, opts ...ReportStepOption) *ReportStep {
	s := &ReportStep{
		outputDir: outputDir,
		format:    format,
		version:   version,
		now:       time.Now,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *ReportStep) Name() string {
	return "report"
}

// runsOnCancel marks the step cancel-tolerant: an interrupted crawl
// still gets its partial result written to the output file.
func (s *ReportStep) runsOnCancel() bool {
	return true
}

// Do serializes the result into the output directory.
func (s *ReportStep) Do(_ context.Context, result *model.CrawlResult) error {
	name := report.OutputFileName(result.Domain, s.format, s.now())
	path := filepath.Join(s.outputDir, name)

	f, err := os.Create(path) //nolint:gosec // Path is derived from validated configuration
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	w, err := report.NewWriter(s.format, f, s.version)
	if err != nil {
		return err
	}

	n, err := w.Write(result)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	result.OutputFile = path
	s.logger.Info("report written", "path", path, "bytes", n, "urls", len(result.Visits))
	return nil
}
