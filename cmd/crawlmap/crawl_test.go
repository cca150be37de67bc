package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/crawlmap/crawlmap/internal/config"
)

func TestNewCrawlCmd(t *testing.T) {
	t.Parallel()

	t.Run("requires exactly one argument", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"crawl"})

		if err := cmd.Execute(); err == nil {
			t.Error("expected error when no domain is given")
		}
	})

	t.Run("rejects an unknown format before crawling", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"crawl", "--format", "xml", "example.com"})

		err := cmd.Execute()
		if err == nil {
			t.Fatal("expected error for unknown format")
		}
		if !strings.Contains(err.Error(), "configuration error") {
			t.Errorf("error = %v, want a configuration error", err)
		}
	})

	t.Run("rejects a missing explicit config file", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"crawl", "-c", filepath.Join(t.TempDir(), "absent"), "example.com"})

		err := cmd.Execute()
		if err == nil {
			t.Fatal("expected error for missing config file")
		}
		if !strings.Contains(err.Error(), "configuration file not found") {
			t.Errorf("error = %v", err)
		}
	})
}

func TestBuildConfig(t *testing.T) {
	t.Parallel()

	cmd := NewCrawlCmd()
	if err := cmd.Flags().Parse([]string{
		"--format", "json",
		"--output-dir", "/tmp/out",
		"--user-agent", "testbot/1.0",
		"--delay", "2s",
		"--timeout", "10s",
		"--max-pages", "100",
		"--max-depth", "3",
		"--quiet",
	}); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}

	cfg, err := buildConfig(cmd, []string{"example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Domain != "example.com" {
		t.Errorf("Domain = %q", cfg.Domain)
	}
	if cfg.Format != "json" {
		t.Errorf("Format = %q", cfg.Format)
	}
	if cfg.OutputDir != "/tmp/out" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
	if cfg.UserAgent != "testbot/1.0" {
		t.Errorf("UserAgent = %q", cfg.UserAgent)
	}
	if cfg.Delay != 2*time.Second {
		t.Errorf("Delay = %v", cfg.Delay)
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if cfg.MaxPages != 100 {
		t.Errorf("MaxPages = %d", cfg.MaxPages)
	}
	if cfg.MaxDepth != 3 {
		t.Errorf("MaxDepth = %d", cfg.MaxDepth)
	}
	if !cfg.Quiet {
		t.Error("Quiet should be set")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("built config should validate: %v", err)
	}
}

func TestBuildConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := buildConfig(NewCrawlCmd(), []string{"example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Format != config.DefaultFormat {
		t.Errorf("Format = %q, want %q", cfg.Format, config.DefaultFormat)
	}
	if cfg.Delay != config.DefaultDelay {
		t.Errorf("Delay = %v, want %v", cfg.Delay, config.DefaultDelay)
	}
	if cfg.Quiet {
		t.Error("Quiet should default to false")
	}
}

// TestCrawlCommandEndToEnd runs the full command against a local server
// and checks the written report.
func TestCrawlCommandEndToEnd(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><a href="/a">a</a></body></html>`))
	})
	mux.HandleFunc("/a", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body>leaf</body></html>"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	outDir := t.TempDir()
	var out bytes.Buffer

	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"crawl",
		"--output-dir", outDir,
		"--delay", "0s",
		"--quiet",
		srv.URL,
	})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(out.String(), "crawled 2 URLs") {
		t.Errorf("summary output = %q", out.String())
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatalf("failed to read output dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 report file, got %d", len(entries))
	}

	data, err := os.ReadFile(filepath.Join(outDir, entries[0].Name()))
	if err != nil {
		t.Fatalf("failed to read report: %v", err)
	}
	want := srv.URL + "/\n" + srv.URL + "/a\n"
	if string(data) != want {
		t.Errorf("report content = %q, want %q", data, want)
	}
}
