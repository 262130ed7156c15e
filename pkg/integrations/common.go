package integrations

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	httpTimeout = 10 * time.Second

	// maxBodySize caps how much of a response body is read into memory.
	maxBodySize = 10 << 20
)

var (
	// ErrNotFound is returned when the requested resource doesn't exist (HTTP 404).
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for transport failures and 5xx responses.
	ErrNetwork = errors.New("network error")

	// ErrRateLimited is returned for 429 responses and 403 responses with an
	// exhausted rate-limit budget.
	ErrRateLimited = errors.New("rate limited")

	// ErrUnexpectedStatus is returned for any other non-2xx response.
	ErrUnexpectedStatus = errors.New("unexpected status")

	// ErrDecode is returned when a response body is not valid JSON for the target type.
	ErrDecode = errors.New("decode response")
)

// NewHTTPClient creates an HTTP client with a standard timeout for API requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

var repoURLReplacer = strings.NewReplacer(
	"git@github.com:", "https://github.com/",
	"git://github.com/", "https://github.com/",
)

// NormalizeRepoURL converts various repository URL formats to canonical HTTPS form.
// Handles git@, git://, and git+ prefixes, and removes .git suffixes and
// trailing slashes. Returns empty string if raw is empty.
func NormalizeRepoURL(raw string) string {
	if raw == "" {
		return ""
	}
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "git+")
	s = repoURLReplacer.Replace(s)
	s = strings.TrimRight(s, "/")
	return strings.TrimSuffix(s, ".git")
}

// WithQuery appends a query parameter to rawURL, preserving any existing query.
// If rawURL cannot be parsed it is returned unchanged.
func WithQuery(rawURL, key, value string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String()
}
