package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestVisitOutcomeIsError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		outcome VisitOutcome
		want    bool
	}{
		{OutcomeSuccess, false},
		{OutcomeRobotsDisallowed, true},
		{OutcomeFetchTimeout, true},
		{OutcomeFetchConnection, true},
		{OutcomeFetchProtocol, true},
	}

	for _, tt := range tests {
		if got := tt.outcome.IsError(); got != tt.want {
			t.Errorf("%s.IsError() = %v, want %v", tt.outcome, got, tt.want)
		}
	}
}

func TestCrawlResultURLs(t *testing.T) {
	t.Parallel()

	r := &CrawlResult{Domain: "example.com"}
	r.Record(PageVisit{URL: "https://example.com/", Outcome: OutcomeSuccess, StatusCode: 200})
	r.Record(PageVisit{URL: "https://example.com/private", Outcome: OutcomeRobotsDisallowed})
	r.Record(PageVisit{URL: "https://example.com/a", Outcome: OutcomeSuccess, StatusCode: 404})

	want := []string{
		"https://example.com/",
		"https://example.com/private",
		"https://example.com/a",
	}
	if diff := cmp.Diff(want, r.URLs()); diff != "" {
		t.Errorf("URLs() mismatch (-want +got):\n%s", diff)
	}
}

func TestCrawlResultCounts(t *testing.T) {
	t.Parallel()

	r := &CrawlResult{}
	r.Record(PageVisit{URL: "https://example.com/", Outcome: OutcomeSuccess, StatusCode: 200})
	r.Record(PageVisit{URL: "https://example.com/x", Outcome: OutcomeFetchTimeout, Error: "deadline exceeded"})
	r.Record(PageVisit{URL: "https://example.com/y", Outcome: OutcomeSuccess, StatusCode: 500})

	if got := r.Successes(); got != 2 {
		t.Errorf("Successes() = %d, want 2", got)
	}
	if got := r.Errors(); got != 1 {
		t.Errorf("Errors() = %d, want 1", got)
	}
}
