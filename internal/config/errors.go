package config

import "errors"

// Configuration validation errors, returned by Config.Validate().
//
// Design decision: Package-level sentinel errors let callers use
// errors.Is for programmatic handling while keeping human-readable
// messages. They carry no dynamic values, so errors.New suffices.
var (
	// ErrInvalidDomain is returned when the target domain is missing
	// or does not parse to an http(s) URL with a host.
	ErrInvalidDomain = errors.New("invalid domain: provide a domain name or http(s) URL")

	// ErrInvalidFormat is returned for an unknown output format.
	ErrInvalidFormat = errors.New("invalid format: must be one of txt, json, csv, md")

	// ErrNoOutputDir is returned when the output directory is empty.
	ErrNoOutputDir = errors.New("no output directory specified")

	// ErrInvalidDelay is returned when the inter-request delay is
	// negative. Use 0 for no delay.
	ErrInvalidDelay = errors.New("invalid delay: must be non-negative")

	// ErrInvalidTimeout is returned when the request timeout is not
	// positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxPages is returned when the page limit is negative.
	// Use 0 for no limit.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be non-negative")

	// ErrInvalidMaxDepth is returned when the depth limit is negative.
	// Use 0 for no limit.
	ErrInvalidMaxDepth = errors.New("invalid max depth: must be non-negative")
)
