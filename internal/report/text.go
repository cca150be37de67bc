package report

import (
	"io"

	"github.com/crawlmap/crawlmap/internal/model"
)

// TextWriter outputs one visited URL per line, in visit order.
// This is the default format and the easiest to pipe into other tools.
type TextWriter struct {
	baseWriter
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer) *TextWriter {
	return &TextWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the crawl result in plain-text format.
func (w *TextWriter) Write(result *model.CrawlResult) (int, error) {
	var total int
	for _, u := range result.URLs() {
		n, err := io.WriteString(w.output, u+"\n")
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
