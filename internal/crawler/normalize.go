package crawler

import (
	"errors"
	"net/url"
	"strings"
)

// ErrInvalidURL is returned by NormalizeURL when the input is not an
// absolute http(s) URL with a host.
var ErrInvalidURL = errors.New("invalid URL: must be absolute with a host")

// NormalizeURL normalizes a URL for frontier and visited-set membership.
//
// Two syntactically distinct strings referring to the same resource must
// normalize to the same value, so the visited set never double-counts:
//   - scheme and host are lowercased
//   - the fragment is stripped (it never changes the fetched resource)
//   - an empty path becomes "/" so http://example.com and
//     http://example.com/ are the same URL
//
// The function is idempotent: NormalizeURL(NormalizeURL(u)) == NormalizeURL(u).
func NormalizeURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", ErrInvalidURL
	}
	if !u.IsAbs() || u.Host == "" {
		return "", ErrInvalidURL
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	if u.Path == "" {
		u.Path = "/"
	}

	return u.String(), nil
}
