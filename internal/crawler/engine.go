package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/crawlmap/crawlmap/internal/model"
)

// RobotsPolicy answers allow/disallow and crawl-delay queries for the
// target domain. The zero-restriction policy is represented by a nil
// RobotsPolicy on the engine.
type RobotsPolicy interface {
	// IsAllowed reports whether the URL's path may be fetched.
	IsAllowed(ctx context.Context, u *url.URL) bool

	// CrawlDelay returns the domain's requested minimum delay between
	// requests, or zero when none is mandated.
	CrawlDelay() time.Duration
}

// Engine owns the frontier and the visited set and drives the
// fetch -> extract -> enqueue loop for one domain.
//
// Per-URL state transitions are monotonic: pending -> fetching ->
// visited-success or visited-error, with the visited set as the guard.
// Once a URL is visited it can never re-enter the frontier.
//
// The engine is single-threaded: one fetch in flight at a time, with
// the pacing delay applied between requests. Nothing in it is safe for
// concurrent use.
type Engine struct {
	// fetcher performs the HTTP GET requests.
	fetcher *Fetcher

	// robots is consulted before each fetch. Nil permits everything.
	robots RobotsPolicy

	// extractor parses fetched bodies for candidate links. When nil, a
	// LinkExtractor confined to the seed host is created per crawl.
	extractor Extractor

	// delay is the configured minimum pause between requests. The
	// effective pause is the larger of this and the robots crawl-delay.
	delay time.Duration

	// maxPages caps the number of visits. Zero means unlimited.
	maxPages int

	// maxDepth caps link-following depth from the seed (which is depth
	// zero). Zero means unlimited.
	maxDepth int

	// ignorePatterns are path globs that are never enqueued.
	ignorePatterns []string

	// followPatterns, when set, restrict enqueueing to matching paths.
	followPatterns []string

	// logger receives one structured event per visited URL. Defaults
	// to slog.Default().
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithRobots sets the robots policy consulted before each fetch.
func WithRobots(p RobotsPolicy) Option {
	return func(e *Engine) {
		e.robots = p
	}
}

// WithExtractor substitutes the link extractor.
func WithExtractor(x Extractor) Option {
	return func(e *Engine) {
		e.extractor = x
	}
}

// WithDelay sets the configured inter-request delay.
func WithDelay(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.delay = d
		}
	}
}

// WithMaxPages caps the number of pages visited. Zero means unlimited.
func WithMaxPages(n int) Option {
	return func(e *Engine) {
		e.maxPages = n
	}
}

// WithMaxDepth caps the crawl depth. Zero means unlimited.
func WithMaxDepth(n int) Option {
	return func(e *Engine) {
		e.maxDepth = n
	}
}

// WithIgnorePatterns sets path globs to skip during crawling,
// e.g. "/admin/*" or "*.pdf".
func WithIgnorePatterns(patterns []string) Option {
	return func(e *Engine) {
		e.ignorePatterns = patterns
	}
}

// WithFollowPatterns restricts crawling to paths matching at least one
// glob. Empty means all paths are eligible.
func WithFollowPatterns(patterns []string) Option {
	return func(e *Engine) {
		e.followPatterns = patterns
	}
}

// WithLogger injects the logger receiving per-URL visit events.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an Engine around the given fetcher.
func New(fetcher *Fetcher, opts ...Option) *Engine {
	e := &Engine{
		fetcher: fetcher,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = slog.Default()
	}

	return e
}

// Crawl runs the crawl loop from the seed URL until the frontier is
// empty or ctx is cancelled, and returns the visited sequence in visit
// order.
//
// Every per-URL failure (robots disallow, fetch error, parse error) is
// recovered locally and recorded in the result; Crawl itself only
// fails on an unusable seed. On cancellation it returns the
// accumulated partial result together with ctx.Err().
func (e *Engine) Crawl(ctx context.Context, seedURL string) (*model.CrawlResult, error) {
	seed, err := NormalizeURL(seedURL)
	if err != nil {
		return nil, fmt.Errorf("invalid seed URL %q: %w", seedURL, err)
	}
	seedParsed, err := url.Parse(seed)
	if err != nil {
		return nil, fmt.Errorf("invalid seed URL %q: %w", seedURL, err)
	}

	extractor := e.extractor
	if extractor == nil {
		extractor = NewLinkExtractor(seedParsed.Host)
	}

	result := &model.CrawlResult{
		Domain:    seedParsed.Host,
		StartedAt: time.Now(),
	}

	visited := make(map[string]bool)
	front := newFrontier()
	front.push(seed, 0, visited)

	for !front.empty() {
		if e.maxPages > 0 && len(result.Visits) >= e.maxPages {
			result.Truncated = true
			break
		}

		select {
		case <-ctx.Done():
			result.Truncated = true
			result.FinishedAt = time.Now()
			return result, ctx.Err()
		default:
		}

		item := front.pop()

		// The insert-if-absent frontier makes this unreachable; it is
		// the guard the no-revisit invariant rests on if the loop ever
		// gains concurrency.
		if visited[item.url] {
			continue
		}
		visited[item.url] = true

		u, err := url.Parse(item.url)
		if err != nil {
			// Cannot happen for URLs that passed NormalizeURL.
			continue
		}

		e.logger.Debug("visiting", "url", item.url, "depth", item.depth)

		if e.robots != nil && !e.robots.IsAllowed(ctx, u) {
			result.Record(model.PageVisit{
				URL:     item.url,
				Outcome: model.OutcomeRobotsDisallowed,
				Error:   "disallowed by robots.txt",
			})
			e.logger.Info("robots disallowed", "url", item.url)
			// No request was made, so no pacing pause is owed.
			continue
		}

		resp, err := e.fetcher.Fetch(ctx, item.url)
		if err != nil {
			result.Record(model.PageVisit{
				URL:     item.url,
				Outcome: outcomeForFetchError(err),
				Error:   err.Error(),
			})
			e.logger.Warn("fetch failed", "url", item.url, "error", err)
		} else {
			e.visit(ctx, result, front, visited, extractor, u, item, resp)
		}

		// Pacing between requests: n fetches incur n-1 pauses. Skipped
		// when the frontier drained because no further request follows.
		if !front.empty() {
			if stopped := e.pause(ctx); stopped {
				result.Truncated = true
				result.FinishedAt = time.Now()
				return result, ctx.Err()
			}
		}
	}

	result.FinishedAt = time.Now()
	return result, nil
}

// visit records a fetched response and, for 2xx HTML, enqueues the
// in-domain links it contains.
func (e *Engine) visit(ctx context.Context, result *model.CrawlResult, front *frontier, visited map[string]bool, extractor Extractor, u *url.URL, item frontierItem, resp *Response) {
	result.Record(model.PageVisit{
		URL:        item.url,
		Outcome:    model.OutcomeSuccess,
		StatusCode: resp.StatusCode,
	})

	// Non-2xx responses are recorded with their status but their
	// bodies (error pages, redirects) are not mined for links.
	if !resp.IsSuccess() {
		e.logger.Info("visited", "url", item.url, "status", resp.StatusCode, "links", 0)
		return
	}

	links, parseOK := extractor.Extract(u, resp.Body)
	if !parseOK {
		e.logger.Warn("html parse failed, no links extracted", "url", item.url)
	}

	enqueued := 0
	for _, link := range links {
		if e.maxDepth > 0 && item.depth >= e.maxDepth {
			break
		}
		if !e.shouldCrawl(link) {
			continue
		}
		if front.push(link, item.depth+1, visited) {
			enqueued++
		}
	}

	e.logger.Info("visited",
		"url", item.url,
		"status", resp.StatusCode,
		"links", len(links),
		"enqueued", enqueued,
		"pending", front.len(),
	)
}

// pause sleeps for the effective inter-request delay. Returns true if
// the context was cancelled during the pause.
func (e *Engine) pause(ctx context.Context) bool {
	delay := e.delay
	if e.robots != nil {
		if d := e.robots.CrawlDelay(); d > delay {
			delay = d
		}
	}
	if delay <= 0 {
		return false
	}

	select {
	case <-ctx.Done():
		return true
	case <-time.After(delay):
		return false
	}
}

// outcomeForFetchError maps a fetch failure onto a visit outcome.
func outcomeForFetchError(err error) model.VisitOutcome {
	var fe *FetchError
	if errors.As(err, &fe) {
		switch fe.Kind {
		case FetchTimeout:
			return model.OutcomeFetchTimeout
		case FetchConnection:
			return model.OutcomeFetchConnection
		}
	}
	return model.OutcomeFetchProtocol
}

// shouldCrawl applies the ignore/follow path globs to a candidate URL.
//
// Logic:
//  1. A URL matching any ignore pattern is skipped.
//  2. When follow patterns are set, the URL must match one of them.
//  3. Otherwise the URL is eligible.
func (e *Engine) shouldCrawl(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	path := u.Path
	if path == "" {
		path = "/"
	}

	for _, pattern := range e.ignorePatterns {
		if matchPattern(pattern, path) {
			return false
		}
	}

	if len(e.followPatterns) > 0 {
		for _, pattern := range e.followPatterns {
			if matchPattern(pattern, path) {
				return true
			}
		}
		return false
	}

	return true
}

// matchPattern checks a path against a glob pattern. Besides standard
// filepath.Match globs, "/prefix/*" matches the prefix itself and any
// path below it, and "*.ext" matches the extension anywhere.
func matchPattern(pattern, path string) bool {
	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "/*")
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}

	if strings.HasPrefix(pattern, "*.") {
		if strings.HasSuffix(path, strings.TrimPrefix(pattern, "*")) {
			return true
		}
	}

	if matched, err := filepath.Match(pattern, path); err == nil && matched {
		return true
	}

	return false
}
