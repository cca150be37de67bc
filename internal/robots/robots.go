// Package robots answers robots.txt allow/disallow and crawl-delay
// queries for one domain.
//
// The policy is deliberately fail-open: a missing, unreachable, or
// malformed robots.txt grants full permission and mandates no delay.
// Missing robots.txt files are common and must not halt a crawl; the
// trade-off is explicit here rather than buried in error handling.
package robots

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// robotsPath is where every domain serves its rules.
const robotsPath = "/robots.txt"

// maxRobotsSize bounds how much of a robots.txt response is read.
const maxRobotsSize = 512 * 1024

// Policy holds the parsed robots rules for one domain. Rules are
// fetched lazily on first use, at most once per run, and are immutable
// afterwards.
type Policy struct {
	// client performs the single robots.txt fetch.
	client *http.Client

	// userAgent selects the rule group and identifies the fetch.
	userAgent string

	// robotsURL is <scheme>://<host>/robots.txt for the target domain.
	robotsURL string

	// logger records the fetch outcome.
	logger *slog.Logger

	// once guards the lazy load.
	once sync.Once

	// group holds the matched rule group after loading. Nil means no
	// restrictions (the fail-open state).
	group *robotstxt.Group

	// delay is the Crawl-delay of the matched group, zero when absent.
	delay time.Duration
}

// PolicyOption configures a Policy.
type PolicyOption func(*Policy)

// WithUserAgent sets the user-agent used for group matching and for
// the robots.txt request itself.
func WithUserAgent(ua string) PolicyOption {
	return func(p *Policy) {
		if ua != "" {
			p.userAgent = ua
		}
	}
}

// WithLogger injects the logger for fetch diagnostics.
func WithLogger(logger *slog.Logger) PolicyOption {
	return func(p *Policy) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPolicy creates a Policy for the domain of the given seed URL.
// Nothing is fetched until the first IsAllowed call.
func NewPolicy(client *http.Client, seed *url.URL, opts ...PolicyOption) *Policy {
	p := &Policy{
		client:    client,
		userAgent: "crawlmap",
		robotsURL: seed.Scheme + "://" + seed.Host + robotsPath,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// IsAllowed reports whether the URL's path may be fetched under the
// domain's robots rules. The first call triggers the robots.txt fetch.
func (p *Policy) IsAllowed(ctx context.Context, u *url.URL) bool {
	p.once.Do(func() { p.load(ctx) })

	if p.group == nil {
		return true
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return p.group.Test(path)
}

// CrawlDelay returns the domain's requested minimum interval between
// requests, or zero when robots.txt mandates none. The value is only
// meaningful after the rules have been loaded by IsAllowed.
func (p *Policy) CrawlDelay() time.Duration {
	return p.delay
}

// load fetches and parses robots.txt exactly once. Every failure path
// leaves the policy in its fail-open state (nil group, zero delay).
func (p *Policy) load(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.robotsURL, nil)
	if err != nil {
		p.logger.Debug("robots.txt request failed, allowing all", "url", p.robotsURL, "error", err)
		return
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Debug("robots.txt fetch failed, allowing all", "url", p.robotsURL, "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.logger.Debug("robots.txt unavailable, allowing all", "url", p.robotsURL, "status", resp.StatusCode)
		return
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsSize))
	if err != nil {
		p.logger.Debug("robots.txt read failed, allowing all", "url", p.robotsURL, "error", err)
		return
	}

	data, err := robotstxt.FromBytes(body)
	if err != nil {
		p.logger.Debug("robots.txt parse failed, allowing all", "url", p.robotsURL, "error", err)
		return
	}

	// FindGroup returns the group whose user-agent token is the longest
	// prefix match, already falling back to the wildcard group.
	group := data.FindGroup(p.userAgent)
	if group == nil {
		group = data.FindGroup("*")
	}
	if group == nil {
		return
	}

	p.group = group
	p.delay = group.CrawlDelay
	p.logger.Debug("robots.txt loaded", "url", p.robotsURL, "crawlDelay", p.delay)
}
