package report

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/crawlmap/crawlmap/internal/model"
)

// Format selects the report serialization.
type Format string

// Supported output formats.
const (
	// FormatText writes one visited URL per line.
	FormatText Format = "txt"

	// FormatJSON writes a JSON envelope with the visit details.
	FormatJSON Format = "json"

	// FormatCSV writes one row per visit with outcome and status.
	FormatCSV Format = "csv"

	// FormatMarkdown writes a human-readable Markdown report.
	FormatMarkdown Format = "md"
)

// ErrUnknownFormat is returned for format selectors outside the
// supported set.
var ErrUnknownFormat = errors.New("unknown output format (supported: txt, json, csv, md)")

// ParseFormat validates a format selector string.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatMarkdown, "markdown":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrUnknownFormat)
	}
}

// Ext returns the file extension for the format.
func (f Format) Ext() string {
	return string(f)
}

// OutputFileName builds the report file name: <domain>_<YYYYMMDD_HHMMSS>.<ext>.
func OutputFileName(domain string, f Format, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", domain, now.Format("20060102_150405"), f.Ext())
}

// Writer defines the interface for report output.
//
// Design decision: We use an interface so the same crawl result can be
// written to files, stdout, or buffers in any format with one API.
type Writer interface {
	// Write outputs the report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(result *model.CrawlResult) (int, error)
}

// NewWriter creates the Writer for a format. The version string is
// embedded by formats that carry metadata (JSON, Markdown).
func NewWriter(f Format, output io.Writer, version string) (Writer, error) {
	switch f {
	case FormatText:
		return NewTextWriter(output), nil
	case FormatJSON:
		return NewJSONWriter(output, version, WithPrettyPrint()), nil
	case FormatCSV:
		return NewCSVWriter(output), nil
	case FormatMarkdown:
		return NewMarkdownWriter(output, version), nil
	default:
		return nil, fmt.Errorf("%q: %w", f, ErrUnknownFormat)
	}
}

// baseWriter provides the shared output destination for writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// countingWriter tracks bytes written through writers (csv.Writer and
// similar) that do not report counts themselves.
type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}
