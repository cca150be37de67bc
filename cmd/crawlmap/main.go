// Package main provides the entry point for the crawlmap CLI.
//
// crawlmap crawls a single web domain breadth-first from its root,
// respecting robots.txt, and writes the discovered URLs to a file.
//
// Usage:
//
//	crawlmap crawl example.com
//	crawlmap crawl --format json --delay 2s example.com
//
// See --help for all available options.
package main

// main is the entry point for crawlmap.
func main() {
	Execute()
}
