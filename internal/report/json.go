package report

import (
	"encoding/json"
	"io"

	"github.com/crawlmap/crawlmap/internal/model"
)

// JSONWriter outputs the crawl result as a JSON envelope.
// This format is designed for tool integration and programmatic
// processing.
//
// Design decision: We use standard encoding/json rather than a
// third-party JSON library because it is sufficient for a write-once
// report and keeps the dependency surface small.
type JSONWriter struct {
	baseWriter

	// version is the crawlmap version embedded in the envelope.
	version string

	// indent enables pretty-printed output.
	indent bool
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint enables indented JSON output.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, version string, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
		version:    version,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// jsonEnvelope wraps the result with output-specific metadata so the
// core data structure stays free of report concerns.
type jsonEnvelope struct {
	Version string             `json:"version"`
	URLs    []string           `json:"urls"`
	Result  *model.CrawlResult `json:"result"`
}

// Write outputs the crawl result in JSON format.
func (w *JSONWriter) Write(result *model.CrawlResult) (int, error) {
	envelope := jsonEnvelope{
		Version: w.version,
		URLs:    result.URLs(),
		Result:  result,
	}

	var data []byte
	var err error
	if w.indent {
		data, err = json.MarshalIndent(envelope, "", "  ")
	} else {
		data, err = json.Marshal(envelope)
	}
	if err != nil {
		return 0, err
	}

	// Trailing newline for terminal-friendly output.
	data = append(data, '\n')

	return w.output.Write(data)
}
