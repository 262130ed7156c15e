package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/gitfind/pkg/errors"
	"github.com/matzehuels/gitfind/pkg/integrations/github"
	"github.com/matzehuels/gitfind/pkg/observability"
)

// fakeAPI serves canned responses for one repository. Paths in status
// override the 200 default; bodies in body override the cpython fixture.
type fakeAPI struct {
	status map[string]int
	body   map[string]string
	hits   atomic.Int32
	order  []string
	mu     sync.Mutex
}

const (
	pathRepo         = "/repos/python/cpython"
	pathContributors = "/repos/python/cpython/contributors"
	pathLanguages    = "/repos/python/cpython/languages"
	pathCommits      = "/repos/python/cpython/commits"
)

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		status: map[string]int{},
		body: map[string]string{
			pathRepo: `{
				"stargazers_count": 100,
				"forks_count": 50,
				"pushed_at": "2023-01-01T00:00:00Z",
				"description": "The Python programming language",
				"name": "cpython"
			}`,
			pathContributors: `[{}, {}, {}]`,
			pathLanguages:    `{"Python": 8000, "C": 2000, "C++": 500}`,
			pathCommits:      `[{"commit": {"author": {"date": "2023-01-01T00:00:00Z"}}}]`,
		},
	}
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.hits.Add(1)
	f.mu.Lock()
	f.order = append(f.order, r.URL.Path)
	f.mu.Unlock()

	body, ok := f.body[r.URL.Path]
	if !ok {
		http.NotFound(w, r)
		return
	}
	if code, ok := f.status[r.URL.Path]; ok {
		w.WriteHeader(code)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(body))
}

func newTestSummarizer(t *testing.T, api *fakeAPI) *Summarizer {
	t.Helper()
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)
	client := github.NewClient("", github.WithBaseURL(server.URL), github.WithHTTPClient(server.Client()))
	return New(client)
}

func TestSummarize(t *testing.T) {
	api := newFakeAPI()
	s := newTestSummarizer(t, api)

	rec, err := s.Summarize(context.Background(), "https://github.com/python/cpython")
	if err != nil {
		t.Fatalf("Summarize() error: %v", err)
	}

	if rec.Stars != 100 {
		t.Errorf("Stars = %d, want 100", rec.Stars)
	}
	if rec.Forks != 50 {
		t.Errorf("Forks = %d, want 50", rec.Forks)
	}
	if rec.Contributors != 3 {
		t.Errorf("Contributors = %d, want 3", rec.Contributors)
	}
	if want := []string{"Python", "C", "C++"}; !slices.Equal(rec.Languages, want) {
		t.Errorf("Languages = %v, want %v", rec.Languages, want)
	}
	if rec.Owner != "python" || rec.Ref != "python/cpython" {
		t.Errorf("Owner, Ref = %q, %q", rec.Owner, rec.Ref)
	}
	if rec.Name == nil || *rec.Name != "cpython" {
		t.Errorf("Name = %v, want cpython", rec.Name)
	}
	if rec.Description == nil || *rec.Description != "The Python programming language" {
		t.Errorf("Description = %v", rec.Description)
	}
	if rec.LastCommitAt == nil || *rec.LastCommitAt != "2023-01-01T00:00:00Z" {
		t.Errorf("LastCommitAt = %v", rec.LastCommitAt)
	}
	if rec.LastPushedAt == nil || *rec.LastPushedAt != "2023-01-01T00:00:00Z" {
		t.Errorf("LastPushedAt = %v", rec.LastPushedAt)
	}

	for _, sub := range []string{"cpython", "100", "50", "3"} {
		if !strings.Contains(rec.Report, sub) {
			t.Errorf("Report %q does not contain %q", rec.Report, sub)
		}
	}
}

func TestSummarizeCallOrder(t *testing.T) {
	api := newFakeAPI()
	s := newTestSummarizer(t, api)

	if _, err := s.Summarize(context.Background(), "python/cpython"); err != nil {
		t.Fatalf("Summarize() error: %v", err)
	}

	want := []string{pathRepo, pathContributors, pathLanguages, pathCommits}
	if !slices.Equal(api.order, want) {
		t.Errorf("request order = %v, want %v", api.order, want)
	}
}

func TestSummarizeEndpointFailure(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		status   int
		endpoint string
		calls    int32
	}{
		{"repository not found", pathRepo, http.StatusNotFound, github.EndpointRepository, 1},
		{"repository server error", pathRepo, http.StatusInternalServerError, github.EndpointRepository, 1},
		{"contributors", pathContributors, http.StatusInternalServerError, github.EndpointContributors, 2},
		{"languages", pathLanguages, http.StatusForbidden, github.EndpointLanguages, 3},
		{"commits", pathCommits, http.StatusConflict, github.EndpointCommits, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI()
			api.status[tt.path] = tt.status
			s := newTestSummarizer(t, api)

			rec, err := s.Summarize(context.Background(), "python/cpython")
			if err == nil {
				t.Fatal("Summarize() error = nil, want failure")
			}
			if rec != nil {
				t.Errorf("Summarize() returned partial record %+v", rec)
			}
			if !errors.Is(err, errors.ErrCodeRemote) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeRemote)
			}
			re, ok := errors.AsRemote(err)
			if !ok {
				t.Fatalf("expected RemoteError in chain, got %v", err)
			}
			if re.Endpoint != tt.endpoint {
				t.Errorf("Endpoint = %q, want %q", re.Endpoint, tt.endpoint)
			}
			if re.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", re.StatusCode, tt.status)
			}
			if got := api.hits.Load(); got != tt.calls {
				t.Errorf("requests = %d, want %d", got, tt.calls)
			}
		})
	}
}

func TestSummarizeMalformedResponse(t *testing.T) {
	api := newFakeAPI()
	api.body[pathLanguages] = `["Python"]`
	s := newTestSummarizer(t, api)

	_, err := s.Summarize(context.Background(), "python/cpython")
	if !errors.Is(err, errors.ErrCodeShape) {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeShape)
	}
}

func TestSummarizeInvalidRef(t *testing.T) {
	api := newFakeAPI()
	s := newTestSummarizer(t, api)

	for _, ref := range []string{"", "python", "https://gitlab.com/python/cpython"} {
		_, err := s.Summarize(context.Background(), ref)
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Summarize(%q) code = %v, want %v", ref, errors.GetCode(err), errors.ErrCodeInvalidInput)
		}
	}
	if got := api.hits.Load(); got != 0 {
		t.Errorf("requests = %d, want none for invalid refs", got)
	}
}

func TestSummarizeIdempotent(t *testing.T) {
	api := newFakeAPI()
	s := newTestSummarizer(t, api)

	first, err := s.Summarize(context.Background(), "python/cpython")
	if err != nil {
		t.Fatalf("first Summarize() error: %v", err)
	}
	second, err := s.Summarize(context.Background(), "python/cpython")
	if err != nil {
		t.Fatalf("second Summarize() error: %v", err)
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if !bytes.Equal(a, b) {
		t.Errorf("records differ:\n%s\n%s", a, b)
	}
}

func TestSummarizeEmptyRepository(t *testing.T) {
	tests := []struct {
		name         string
		contributors string
		status       int
	}{
		{"empty array", `[]`, 0},
		{"no content", ``, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI()
			api.body[pathContributors] = tt.contributors
			if tt.status != 0 {
				api.status[pathContributors] = tt.status
			}
			api.body[pathCommits] = `[]`
			api.body[pathLanguages] = `{}`
			s := newTestSummarizer(t, api)

			rec, err := s.Summarize(context.Background(), "python/cpython")
			if err != nil {
				t.Fatalf("Summarize() error: %v", err)
			}
			if rec.Contributors != 0 {
				t.Errorf("Contributors = %d, want 0", rec.Contributors)
			}
			if rec.LastCommitAt != nil {
				t.Errorf("LastCommitAt = %q, want absent", *rec.LastCommitAt)
			}

			data, _ := json.Marshal(rec)
			if !bytes.Contains(data, []byte(`"Primary Programming Languages":[]`)) {
				t.Errorf("languages should marshal as empty array: %s", data)
			}
			if !bytes.Contains(data, []byte(`"Most Recent Commit":null`)) {
				t.Errorf("commit timestamp should marshal as null: %s", data)
			}
		})
	}
}

func TestSummarizeClampsNegativeCounts(t *testing.T) {
	api := newFakeAPI()
	api.body[pathRepo] = `{"name": "cpython", "stargazers_count": -5, "forks_count": -1}`
	s := newTestSummarizer(t, api)

	rec, err := s.Summarize(context.Background(), "python/cpython")
	if err != nil {
		t.Fatalf("Summarize() error: %v", err)
	}
	if rec.Stars != 0 || rec.Forks != 0 {
		t.Errorf("Stars, Forks = %d, %d, want 0, 0", rec.Stars, rec.Forks)
	}
}

func TestSummarizeMissingName(t *testing.T) {
	api := newFakeAPI()
	api.body[pathRepo] = `{"stargazers_count": 1}`
	s := newTestSummarizer(t, api)

	rec, err := s.Summarize(context.Background(), "python/cpython")
	if err != nil {
		t.Fatalf("Summarize() error: %v", err)
	}
	if rec.Name != nil {
		t.Errorf("Name = %q, want nil", *rec.Name)
	}
	if !strings.HasPrefix(rec.Report, "python/cpython is a GitHub repository") {
		t.Errorf("Report = %q, want owner/name fallback", rec.Report)
	}
}

func TestSummarizeCanceled(t *testing.T) {
	api := newFakeAPI()
	s := newTestSummarizer(t, api)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Summarize(ctx, "python/cpython"); err == nil {
		t.Fatal("Summarize() with canceled context should fail")
	}
	if got := api.hits.Load(); got != 0 {
		t.Errorf("requests = %d, want 0", got)
	}
}

type recordingHooks struct {
	mu       sync.Mutex
	started  []string
	steps    []string
	finished int
	lastErr  error
}

func (h *recordingHooks) OnSummaryStart(_ context.Context, repo string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.started = append(h.started, repo)
}

func (h *recordingHooks) OnStepComplete(_ context.Context, _, step string, _ time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.steps = append(h.steps, step+":"+strconv.FormatBool(err == nil))
}

func (h *recordingHooks) OnSummaryComplete(_ context.Context, _ string, _ time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.finished++
	h.lastErr = err
}

func TestSummarizeHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetSummaryHooks(hooks)
	defer observability.Reset()

	api := newFakeAPI()
	api.status[pathLanguages] = http.StatusBadGateway
	s := newTestSummarizer(t, api)

	if _, err := s.Summarize(context.Background(), "python/cpython"); err == nil {
		t.Fatal("expected failure")
	}

	if !slices.Equal(hooks.started, []string{"python/cpython"}) {
		t.Errorf("started = %v", hooks.started)
	}
	wantSteps := []string{"repository:true", "contributors:true", "languages:false"}
	if !slices.Equal(hooks.steps, wantSteps) {
		t.Errorf("steps = %v, want %v", hooks.steps, wantSteps)
	}
	if hooks.finished != 1 || hooks.lastErr == nil {
		t.Errorf("finished = %d, lastErr = %v", hooks.finished, hooks.lastErr)
	}
}

func TestReport(t *testing.T) {
	name := "cpython"
	desc := "The Python programming language."
	date := "2023-01-01T00:00:00Z"

	tests := []struct {
		name string
		rec  Record
		want string
	}{
		{
			name: "full",
			rec: Record{
				Owner: "python", Name: &name, Description: &desc,
				Stars: 100, Forks: 50, Contributors: 3,
				Languages:    []string{"Python", "C", "C++", "Shell"},
				LastCommitAt: &date,
			},
			want: "cpython is a GitHub repository owned by python with 100 stars, 50 forks and 3 contributors. " +
				"It is primarily written in Python, C and C++. " +
				"Description: The Python programming language. " +
				"The most recent commit was made on 2023-01-01T00:00:00Z.",
		},
		{
			name: "single language",
			rec:  Record{Owner: "python", Name: &name, Languages: []string{"Go"}},
			want: "cpython is a GitHub repository owned by python with 0 stars, 0 forks and 0 contributors. " +
				"It is primarily written in Go.",
		},
		{
			name: "bare",
			rec:  Record{Owner: "python", Languages: []string{}},
			want: "python is a GitHub repository owned by python with 0 stars, 0 forks and 0 contributors. " +
				"No programming languages were detected.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Report(&tt.rec); got != tt.want {
				t.Errorf("Report() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestJoinList(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{"Go"}, "Go"},
		{[]string{"Go", "C"}, "Go and C"},
		{[]string{"Go", "C", "Rust"}, "Go, C and Rust"},
	}
	for _, tt := range tests {
		if got := joinList(tt.in); got != tt.want {
			t.Errorf("joinList(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
