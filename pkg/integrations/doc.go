// Package integrations provides the shared HTTP layer for upstream API clients.
//
// # Overview
//
// API-specific clients live in subpackages and embed [Client]:
//
//   - [github]: GitHub REST API (repository metadata, contributors,
//     languages, commits)
//
// # Client Pattern
//
//	c := integrations.NewClient(map[string]string{"Accept": "application/json"},
//	    integrations.WithTimeout(5*time.Second))
//	var out map[string]any
//	err := c.Get(ctx, "https://api.example.com/thing", &out)
//
// [Client] handles:
//   - Default and per-request headers
//   - Status classification into [ErrNotFound], [ErrRateLimited],
//     [ErrNetwork] and [ErrUnexpectedStatus]
//   - JSON decoding, with [ErrDecode] for malformed bodies
//   - HTTP observability hooks for every request
//
// Failures are returned as [*errors.RemoteError] values carrying the URL and
// status; callers add the endpoint name. Requests are never retried.
//
// [github]: github.com/matzehuels/gitfind/pkg/integrations/github
// [*errors.RemoteError]: github.com/matzehuels/gitfind/pkg/errors.RemoteError
package integrations
