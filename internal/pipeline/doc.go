// Package pipeline orchestrates one crawl run as an ordered list of
// steps sharing a CrawlResult: crawl the domain, then write the report.
//
// The crawl step treats cancellation as a partial success, and the
// report step is cancel-tolerant, so an interrupted crawl still
// produces an output file with whatever was visited.
package pipeline
