// Package log provides a slog handler wrapper that redacts credential
// attributes (cookies, auth headers) from log output.
package log
