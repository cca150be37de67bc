package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// FetchErrorKind classifies why a fetch failed.
type FetchErrorKind string

// Fetch failure classifications. These map one-to-one onto the
// visited-error outcomes recorded in the crawl result.
const (
	// FetchTimeout means the request exceeded its deadline.
	FetchTimeout FetchErrorKind = "timeout"

	// FetchConnection means the TCP connection or DNS lookup failed.
	FetchConnection FetchErrorKind = "connection"

	// FetchProtocol means the request failed at the HTTP layer:
	// malformed response, redirect loop, or an unusable URL.
	FetchProtocol FetchErrorKind = "protocol"
)

// FetchError is the typed failure returned by Fetcher.Fetch.
// It is always recoverable: the engine records it against the URL and
// moves on to the next frontier entry.
type FetchError struct {
	// URL is the URL whose fetch failed.
	URL string

	// Kind classifies the failure.
	Kind FetchErrorKind

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Response is the result of a successful fetch. Non-2xx statuses are
// normal responses, not errors; the caller decides whether to extract
// links from them.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Body is the response body, truncated to the fetcher's size limit.
	// May be empty.
	Body []byte

	// ContentType is the Content-Type header value.
	ContentType string
}

// IsSuccess reports whether the status code is in the 2xx range.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Fetcher performs single HTTP GET requests with a bounded timeout and
// a configurable identification header.
//
// Design decision: We require an external http.Client rather than
// building one because it keeps transport configuration (proxies, TLS,
// connection pooling) out of the crawl logic and lets tests substitute
// httptest clients.
type Fetcher struct {
	// client performs the requests.
	client *http.Client

	// userAgent is sent as the User-Agent header on every request.
	userAgent string

	// timeout bounds each individual request.
	timeout time.Duration

	// maxBodySize limits how many response bytes are read.
	maxBodySize int64

	// headers are extra headers added to every request, typically from
	// per-domain configuration (cookies, auth).
	headers map[string]string
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithMaxBodySize sets the maximum response body size to read.
func WithMaxBodySize(size int64) FetcherOption {
	return func(f *Fetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// WithHeaders sets extra request headers, e.g. a Cookie from per-domain
// configuration.
func WithHeaders(headers map[string]string) FetcherOption {
	return func(f *Fetcher) {
		f.headers = headers
	}
}

// Default fetcher settings.
const (
	// DefaultFetchTimeout bounds a single request.
	DefaultFetchTimeout = 30 * time.Second

	// DefaultMaxBodySize is 5MB, enough for any reasonable HTML page
	// while preventing memory exhaustion from unexpected responses.
	DefaultMaxBodySize = 5 * 1024 * 1024

	// DefaultUserAgent identifies crawlmap in HTTP requests. Sending a
	// descriptive User-Agent lets operators recognize crawler traffic.
	DefaultUserAgent = "crawlmap/1.0 (+https://github.com/crawlmap/crawlmap)"
)

// NewFetcher creates a Fetcher using the given HTTP client.
func NewFetcher(client *http.Client, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:      client,
		userAgent:   DefaultUserAgent,
		timeout:     DefaultFetchTimeout,
		maxBodySize: DefaultMaxBodySize,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch issues one GET request for the URL. The returned error, when
// non-nil, is always a *FetchError carrying a classification; Fetch
// never panics or returns an unclassified failure.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Kind: FetchProtocol, Err: err}
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Kind: classifyFetchError(err), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, &FetchError{URL: rawURL, Kind: classifyFetchError(err), Err: err}
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

// classifyFetchError maps transport errors onto the fetch taxonomy.
// Timeouts are checked first because net timeout errors also satisfy
// the more general error types below.
func classifyFetchError(err error) FetchErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return FetchTimeout
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return FetchTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return FetchConnection
	}

	// net.OpError covers dial failures and connection resets. errors.As
	// sees through the url.Error wrapper http.Client returns.
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return FetchConnection
	}

	return FetchProtocol
}
