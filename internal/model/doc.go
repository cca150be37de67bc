// Package model defines the data types shared across crawlmap packages.
//
// The central type is CrawlResult, which accumulates one PageVisit per
// URL in visit order while the crawl runs and is finalized when the
// frontier empties. Per-visit status is recorded for logging and
// reporting; it never filters which URLs appear in the output.
package model
