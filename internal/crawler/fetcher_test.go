package crawler

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFetcherFetch(t *testing.T) {
	t.Parallel()

	t.Run("returns body and status on success", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html>ok</html>"))
		}))
		defer srv.Close()

		f := NewFetcher(srv.Client())
		resp, err := f.Fetch(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}
		if string(resp.Body) != "<html>ok</html>" {
			t.Errorf("unexpected body: %q", resp.Body)
		}
		if !resp.IsSuccess() {
			t.Error("expected IsSuccess for 200")
		}
	})

	t.Run("non-2xx is a normal result, not an error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
		defer srv.Close()

		f := NewFetcher(srv.Client())
		resp, err := f.Fetch(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
		if resp.IsSuccess() {
			t.Error("IsSuccess should be false for 404")
		}
	})

	t.Run("sends identification and extra headers", func(t *testing.T) {
		t.Parallel()

		var gotUA, gotCookie string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
			gotCookie = r.Header.Get("Cookie")
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		f := NewFetcher(srv.Client(),
			WithUserAgent("testbot/1.0"),
			WithHeaders(map[string]string{"Cookie": "session=abc"}),
		)
		if _, err := f.Fetch(context.Background(), srv.URL); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotUA != "testbot/1.0" {
			t.Errorf("User-Agent = %q, want testbot/1.0", gotUA)
		}
		if gotCookie != "session=abc" {
			t.Errorf("Cookie = %q, want session=abc", gotCookie)
		}
	})

	t.Run("truncates body at the size limit", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("x", 1024)))
		}))
		defer srv.Close()

		f := NewFetcher(srv.Client(), WithMaxBodySize(100))
		resp, err := f.Fetch(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(resp.Body) != 100 {
			t.Errorf("body length = %d, want 100", len(resp.Body))
		}
	})

	t.Run("classifies timeouts", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-time.After(2 * time.Second):
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()

		f := NewFetcher(srv.Client(), WithTimeout(50*time.Millisecond))
		_, err := f.Fetch(context.Background(), srv.URL)

		var fe *FetchError
		if !errors.As(err, &fe) {
			t.Fatalf("expected *FetchError, got %T: %v", err, err)
		}
		if fe.Kind != FetchTimeout {
			t.Errorf("Kind = %s, want %s", fe.Kind, FetchTimeout)
		}
	})

	t.Run("classifies connection failures", func(t *testing.T) {
		t.Parallel()

		// Grab a port that is certainly closed.
		l, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("failed to listen: %v", err)
		}
		addr := l.Addr().String()
		_ = l.Close()

		f := NewFetcher(&http.Client{})
		_, err = f.Fetch(context.Background(), "http://"+addr+"/")

		var fe *FetchError
		if !errors.As(err, &fe) {
			t.Fatalf("expected *FetchError, got %T: %v", err, err)
		}
		if fe.Kind != FetchConnection {
			t.Errorf("Kind = %s, want %s", fe.Kind, FetchConnection)
		}
	})

	t.Run("classifies unusable URLs as protocol failures", func(t *testing.T) {
		t.Parallel()

		f := NewFetcher(&http.Client{})
		_, err := f.Fetch(context.Background(), "http://exa mple.com/")

		var fe *FetchError
		if !errors.As(err, &fe) {
			t.Fatalf("expected *FetchError, got %T: %v", err, err)
		}
		if fe.Kind != FetchProtocol {
			t.Errorf("Kind = %s, want %s", fe.Kind, FetchProtocol)
		}
	})
}
