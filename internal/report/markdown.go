package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/crawlmap/crawlmap/internal/model"
)

// MarkdownWriter outputs the crawl result as a GitHub-flavored Markdown
// document, suitable for sharing or committing alongside a site audit.
//
// Design decision: We use the nao1215/markdown library for fluent,
// type-safe markdown generation instead of string concatenation.
type MarkdownWriter struct {
	baseWriter

	// version is the crawlmap version shown in the report footer.
	version string
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given
// writer.
func NewMarkdownWriter(output io.Writer, version string) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		version:    version,
	}
}

// Write outputs the crawl result in Markdown format.
func (w *MarkdownWriter) Write(result *model.CrawlResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Crawl Report: " + result.Domain)
	md.PlainText("")

	status := "Complete"
	if result.Truncated {
		status = "Truncated (partial results)"
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Domain", "`" + result.Domain + "`"},
			{"Started", result.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Finished", result.FinishedAt.Format("2006-01-02 15:04:05 MST")},
			{"URLs Visited", strconv.Itoa(len(result.Visits))},
			{"Errors", strconv.Itoa(result.Errors())},
			{"Status", status},
		},
	})
	md.PlainText("")

	md.H2("Visited URLs")
	md.PlainText("")

	rows := make([][]string, 0, len(result.Visits))
	for _, v := range result.Visits {
		statusCode := "-"
		if v.StatusCode != 0 {
			statusCode = strconv.Itoa(v.StatusCode)
		}
		rows = append(rows, []string{v.URL, string(v.Outcome), statusCode})
	}
	md.Table(markdown.TableSet{
		Header: []string{"URL", "Outcome", "Status"},
		Rows:   rows,
	})
	md.PlainText("")

	md.PlainText("Generated by crawlmap " + w.version)

	return len(md.String()), md.Build()
}
