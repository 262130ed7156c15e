package github

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/gitfind/pkg/buildinfo"
	"github.com/matzehuels/gitfind/pkg/errors"
	"github.com/matzehuels/gitfind/pkg/integrations"
)

// DefaultBaseURL is the public GitHub REST API root.
const DefaultBaseURL = "https://api.github.com"

const apiVersion = "2022-11-28"

// Client provides access to the GitHub REST API for repository summaries.
// It issues plain GET requests with optional token authentication and never
// caches or retries.
type Client struct {
	*integrations.Client
	baseURL string
}

type options struct {
	baseURL    string
	userAgent  string
	timeout    time.Duration
	httpClient *http.Client
}

// Option configures a [Client].
type Option func(*options)

// WithBaseURL points the client at a different API root, e.g. a GitHub
// Enterprise server or a test server.
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = u }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) { o.userAgent = ua }
}

// NewClient creates a GitHub API client with optional authentication.
// Pass an empty string for token to use unauthenticated requests (lower rate limits).
func NewClient(token string, opts ...Option) *Client {
	o := options{
		baseURL:   DefaultBaseURL,
		userAgent: buildinfo.UserAgent(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	headers := map[string]string{
		"Accept":               "application/vnd.github+json",
		"X-GitHub-Api-Version": apiVersion,
		"User-Agent":           o.userAgent,
	}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}

	return &Client{
		Client: integrations.NewClient(headers,
			integrations.WithHTTPClient(o.httpClient),
			integrations.WithTimeout(o.timeout),
		),
		baseURL: strings.TrimRight(o.baseURL, "/"),
	}
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// FetchRepo retrieves repository metadata.
// Sub-resource URLs missing from the response are derived from the base URL,
// and the URI template suffix of commits_url is stripped.
func (c *Client) FetchRepo(ctx context.Context, ref RepoRef) (*Repo, error) {
	repoURL := c.repoURL(ref)

	var data Repo
	if err := c.Get(ctx, repoURL, &data); err != nil {
		return nil, endpointError(EndpointRepository, ref, err)
	}

	if data.ContributorsURL == "" {
		data.ContributorsURL = repoURL + "/contributors"
	}
	if data.LanguagesURL == "" {
		data.LanguagesURL = repoURL + "/languages"
	}
	data.CommitsURL = stripURITemplate(data.CommitsURL)
	if data.CommitsURL == "" {
		data.CommitsURL = repoURL + "/commits"
	}
	return &data, nil
}

// CountContributors returns the number of entries on the first page of the
// contributors listing at url. A 204 or empty body counts as zero.
func (c *Client) CountContributors(ctx context.Context, ref RepoRef, url string) (int, error) {
	var data []struct{}
	if err := c.Get(ctx, url, &data); err != nil {
		return 0, endpointError(EndpointContributors, ref, err)
	}
	return len(data), nil
}

// FetchLanguages retrieves the languages breakdown at url in response order.
func (c *Client) FetchLanguages(ctx context.Context, ref RepoRef, url string) (Languages, error) {
	var data Languages
	if err := c.Get(ctx, url, &data); err != nil {
		return nil, endpointError(EndpointLanguages, ref, err)
	}
	return data, nil
}

// FetchLatestCommitDate returns the author date of the most recent commit
// listed at url, or nil if the listing is empty.
func (c *Client) FetchLatestCommitDate(ctx context.Context, ref RepoRef, url string) (*string, error) {
	var data []commitResponse
	if err := c.Get(ctx, integrations.WithQuery(url, "per_page", "1"), &data); err != nil {
		return nil, endpointError(EndpointCommits, ref, err)
	}
	if len(data) == 0 || data[0].Commit.Author == nil {
		return nil, nil
	}
	return data[0].Commit.Author.Date, nil
}

func (c *Client) repoURL(ref RepoRef) string {
	return fmt.Sprintf("%s/repos/%s/%s", c.baseURL, url.PathEscape(ref.Owner), url.PathEscape(ref.Name))
}

// stripURITemplate removes an RFC 6570 suffix such as "{/sha}".
func stripURITemplate(s string) string {
	if i := strings.IndexByte(s, '{'); i >= 0 {
		return s[:i]
	}
	return s
}

// endpointError converts an integrations failure into a coded error that
// names the endpoint.
func endpointError(endpoint string, ref RepoRef, err error) error {
	if re, ok := errors.AsRemote(err); ok {
		re.Endpoint = endpoint
		return errors.Wrap(errors.ErrCodeRemote, re, "github %s %s", ref, endpoint)
	}
	if stderrors.Is(err, integrations.ErrDecode) {
		return errors.Wrap(errors.ErrCodeShape, err, "github %s %s: unexpected response", ref, endpoint)
	}
	return errors.Wrap(errors.ErrCodeInternal, err, "github %s %s", ref, endpoint)
}
