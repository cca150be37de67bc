package model

import "time"

// VisitOutcome describes how a single URL visit ended.
//
// Design decision: We use a string type rather than iota constants
// because outcomes appear verbatim in JSON/CSV reports and log events,
// and a self-describing value is more useful there than a number.
type VisitOutcome string

// Visit outcomes. A URL reaches exactly one of these states and never
// leaves it; the visited set guarantees the transition is monotonic.
const (
	// OutcomeSuccess means the fetch completed and returned an HTTP
	// response. Non-2xx statuses are still successes; the status code
	// is recorded and the caller decides whether to extract links.
	OutcomeSuccess VisitOutcome = "success"

	// OutcomeRobotsDisallowed means robots.txt forbade the path and the
	// URL was recorded without being fetched.
	OutcomeRobotsDisallowed VisitOutcome = "robots-disallowed"

	// OutcomeFetchTimeout means the request exceeded its deadline.
	OutcomeFetchTimeout VisitOutcome = "fetch-timeout"

	// OutcomeFetchConnection means the connection could not be
	// established (dial failure, DNS failure, reset).
	OutcomeFetchConnection VisitOutcome = "fetch-connection"

	// OutcomeFetchProtocol means the request failed at the HTTP layer
	// (malformed response, too many redirects, bad URL).
	OutcomeFetchProtocol VisitOutcome = "fetch-protocol"
)

// IsError reports whether the outcome represents a failed visit.
func (o VisitOutcome) IsError() bool {
	return o != OutcomeSuccess
}

// PageVisit records the outcome of visiting one URL.
type PageVisit struct {
	// URL is the normalized absolute URL that was visited.
	URL string `json:"url"`

	// Outcome classifies how the visit ended.
	Outcome VisitOutcome `json:"outcome"`

	// StatusCode is the HTTP status code, zero when no response was
	// received (robots-disallowed or fetch errors).
	StatusCode int `json:"status_code,omitempty"`

	// Error holds the failure detail for errored visits.
	Error string `json:"error,omitempty"`
}

// CrawlResult is the final artifact of one crawl run: the target domain
// and the sequence of visited URLs in visit order.
//
// The result is constructed incrementally as the engine records visits
// and finalized when the frontier empties or the run is cancelled.
type CrawlResult struct {
	// Domain is the host the crawl was confined to.
	Domain string `json:"domain"`

	// StartedAt is when the crawl loop began.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the crawl loop ended.
	FinishedAt time.Time `json:"finished_at"`

	// Visits holds one entry per visited URL, in visit order.
	Visits []PageVisit `json:"visits"`

	// Truncated is true when the crawl was stopped early by
	// cancellation or a page limit rather than an empty frontier.
	// The accumulated visits are still a valid partial result.
	Truncated bool `json:"truncated,omitempty"`

	// OutputFile is the path the report was written to.
	// Set by the report step, not serialized into the report itself.
	OutputFile string `json:"-"`
}

// Record appends a visit to the result.
func (r *CrawlResult) Record(v PageVisit) {
	r.Visits = append(r.Visits, v)
}

// URLs returns the visited URLs in visit order.
func (r *CrawlResult) URLs() []string {
	urls := make([]string, 0, len(r.Visits))
	for _, v := range r.Visits {
		urls = append(urls, v.URL)
	}
	return urls
}

// Successes returns the number of visits that received a response.
func (r *CrawlResult) Successes() int {
	n := 0
	for _, v := range r.Visits {
		if !v.Outcome.IsError() {
			n++
		}
	}
	return n
}

// Errors returns the number of visits that ended in an error outcome.
func (r *CrawlResult) Errors() int {
	return len(r.Visits) - r.Successes()
}
