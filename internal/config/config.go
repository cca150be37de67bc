package config

import (
	"net/url"
	"strings"
	"time"

	"github.com/crawlmap/crawlmap/internal/report"
)

// Default configuration values. Chosen to match polite-crawler
// conventions; all of them can be overridden via CLI flags or the
// configuration file.
const (
	// AppName is the application name, used for the XDG config path.
	AppName = "crawlmap"

	// DefaultFormat is the output format when none is selected.
	DefaultFormat = "txt"

	// DefaultOutputDir receives report files. Created if missing.
	DefaultOutputDir = "output"

	// DefaultDelay is the pause between requests. One second is a
	// conservative politeness default; set --delay 0 to disable.
	DefaultDelay = 1 * time.Second

	// DefaultTimeout bounds each individual HTTP request.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxPages of zero means the crawl runs until the frontier
	// empties.
	DefaultMaxPages = 0

	// DefaultMaxDepth of zero means link depth is unlimited.
	DefaultMaxDepth = 0
)

// Config holds all options for one crawl run. It is populated from CLI
// flags (plus the optional config file) and passed through the
// application by dependency injection rather than global state.
//
// Design decision: A single flat struct keeps flag wiring simple; the
// option count does not justify nesting.
type Config struct {
	// Domain is the target to crawl: a bare domain name or a full URL.
	// A bare domain defaults to the https scheme.
	Domain string

	// Format selects the report serialization (txt, json, csv, md).
	Format string

	// OutputDir is where the report file is written.
	OutputDir string

	// UserAgent is the identification header sent with every request.
	// Empty means the fetcher's conservative default.
	UserAgent string

	// Delay is the configured minimum pause between requests. The
	// effective pause is max(Delay, robots.txt Crawl-delay).
	Delay time.Duration

	// Timeout bounds each individual HTTP request.
	Timeout time.Duration

	// MaxPages caps the number of visits. Zero means unlimited.
	MaxPages int

	// MaxDepth caps link-following depth. Zero means unlimited.
	MaxDepth int

	// Quiet suppresses per-URL progress output; only warnings and
	// errors are logged.
	Quiet bool

	// Verbose enables debug-level logging. Ignored when Quiet is set.
	Verbose bool

	// ConfigFilePath is an explicit config file location. Empty means
	// search the working directory and the XDG config directory.
	ConfigFilePath string

	// DomainConfigs holds per-domain overrides loaded from the config
	// file.
	DomainConfigs *File
}

// NewConfig creates a Config with default values.
//
// Design decision: A constructor rather than zero values, because most
// defaults are non-zero and this documents what they are.
func NewConfig() *Config {
	return &Config{
		Format:    DefaultFormat,
		OutputDir: DefaultOutputDir,
		Delay:     DefaultDelay,
		Timeout:   DefaultTimeout,
		MaxPages:  DefaultMaxPages,
		MaxDepth:  DefaultMaxDepth,
		DomainConfigs: &File{
			Domains: make(map[string]DomainConfig),
		},
	}
}

// SeedURL returns the crawl's starting URL: the domain root, with the
// https scheme assumed when the argument carried none.
func (c *Config) SeedURL() string {
	d := strings.TrimSpace(c.Domain)
	if d == "" {
		return ""
	}
	if !strings.Contains(d, "://") {
		d = "https://" + d
	}
	return d
}

// Validate checks the configuration and returns a specific error for
// the first problem found. It runs once after flag parsing, before any
// crawling starts; configuration errors are the only fatal errors in a
// run.
func (c *Config) Validate() error {
	seed, err := url.Parse(c.SeedURL())
	if err != nil || seed.Host == "" {
		return ErrInvalidDomain
	}
	if seed.Scheme != "http" && seed.Scheme != "https" {
		return ErrInvalidDomain
	}

	if _, err := report.ParseFormat(c.Format); err != nil {
		return ErrInvalidFormat
	}

	if c.OutputDir == "" {
		return ErrNoOutputDir
	}

	if c.Delay < 0 {
		return ErrInvalidDelay
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.MaxPages < 0 {
		return ErrInvalidMaxPages
	}

	if c.MaxDepth < 0 {
		return ErrInvalidMaxDepth
	}

	return nil
}
