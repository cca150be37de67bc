// Package report serializes a finished crawl result to a destination.
//
// Writers are thin: they receive the ordered visited sequence and a
// domain name, and render it. The crawl engine never depends on this
// package.
package report
