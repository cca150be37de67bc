package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/crawlmap/crawlmap/internal/model"
)

// CSVWriter outputs one row per visited URL with its outcome and HTTP
// status, for spreadsheet and awk-style consumption.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the crawl result in CSV format.
func (w *CSVWriter) Write(result *model.CrawlResult) (int, error) {
	counter := &countingWriter{w: w.output}
	cw := csv.NewWriter(counter)

	if err := cw.Write([]string{"url", "outcome", "status_code", "error"}); err != nil {
		return counter.n, err
	}

	for _, v := range result.Visits {
		status := ""
		if v.StatusCode != 0 {
			status = strconv.Itoa(v.StatusCode)
		}
		if err := cw.Write([]string{v.URL, string(v.Outcome), status, v.Error}); err != nil {
			return counter.n, err
		}
	}

	cw.Flush()
	return counter.n, cw.Error()
}
