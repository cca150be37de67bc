package crawler

import (
	"bytes"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Extractor is the capability the engine needs from a link extractor.
// Extract returns the normalized same-domain URLs found in body and
// whether the body parsed cleanly. A false parseOK is a logging signal,
// never a fatal condition: the links slice is simply empty.
//
// Design decision: This is an interface so a stricter or more lenient
// parser can be substituted without touching the engine.
type Extractor interface {
	Extract(base *url.URL, body []byte) (links []string, parseOK bool)
}

// LinkExtractor parses anchor targets out of an HTML document and
// returns the normalized URLs that stay on the target host.
//
// Design decision: We use golang.org/x/net/html rather than regex
// because it tolerates the malformed markup common on the web and
// produces a proper node tree to walk.
type LinkExtractor struct {
	// targetHost is the host links must match to survive filtering.
	// Comparison is exact (host-only, no subdomain expansion).
	targetHost string
}

// NewLinkExtractor creates an extractor confined to the given host.
func NewLinkExtractor(targetHost string) *LinkExtractor {
	return &LinkExtractor{targetHost: strings.ToLower(targetHost)}
}

// Extract parses body, resolves every anchor href against base, and
// returns the deduplicated set of normalized same-host URLs.
func (x *LinkExtractor) Extract(base *url.URL, body []byte) ([]string, bool) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		// html.Parse recovers from almost anything; when it does give
		// up, treat the page as having no links.
		return nil, false
	}

	seen := make(map[string]bool)
	links := make([]string, 0)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if link, ok := x.candidate(base, getAttr(n, "href")); ok && !seen[link] {
				seen[link] = true
				links = append(links, link)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return links, true
}

// candidate resolves an href against base and applies the same-domain
// filter. Off-domain and non-http(s) targets are silently dropped.
func (x *LinkExtractor) candidate(base *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" {
		return "", false
	}

	// Non-navigational schemes carry no crawlable target.
	if strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") {
		return "", false
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}

	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return "", false
	}
	if !strings.EqualFold(resolved.Host, x.targetHost) {
		return "", false
	}

	// Normalization strips the fragment and settles empty-path
	// equivalence, so deduplication here matches the visited set.
	normalized, err := NormalizeURL(resolved.String())
	if err != nil {
		return "", false
	}
	return normalized, true
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
