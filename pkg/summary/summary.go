package summary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gitfind/pkg/integrations/github"
	"github.com/matzehuels/gitfind/pkg/observability"
)

// maxReportLanguages caps how many languages the report text names.
const maxReportLanguages = 3

// Source fetches the four GitHub resources a summary is built from.
// *github.Client satisfies it.
type Source interface {
	FetchRepo(ctx context.Context, ref github.RepoRef) (*github.Repo, error)
	CountContributors(ctx context.Context, ref github.RepoRef, url string) (int, error)
	FetchLanguages(ctx context.Context, ref github.RepoRef, url string) (github.Languages, error)
	FetchLatestCommitDate(ctx context.Context, ref github.RepoRef, url string) (*string, error)
}

// Record is the summary of one repository. JSON keys match the report
// format consumed by existing tooling.
type Record struct {
	Ref          string   `json:"-"`
	Owner        string   `json:"Owner"`
	Name         *string  `json:"Repository Name"`
	Description  *string  `json:"Description"`
	Stars        int      `json:"Total Stars"`
	Forks        int      `json:"Total Forks"`
	Contributors int      `json:"Total Contributors"`
	Languages    []string `json:"Primary Programming Languages"`
	LastCommitAt *string  `json:"Most Recent Commit"`
	LastPushedAt *string  `json:"Last Pushed"`
	Report       string   `json:"Auto-generated summary report"`
}

// DisplayName returns the repository name, falling back to the owner/name
// reference when the API omitted it.
func (r *Record) DisplayName() string {
	if r.Name != nil && *r.Name != "" {
		return *r.Name
	}
	if r.Ref != "" {
		return r.Ref
	}
	return r.Owner
}

// Summarizer builds Records from a Source. It holds no per-call state and
// may be shared between goroutines.
type Summarizer struct {
	source Source
	logger *log.Logger
}

// Option configures a [Summarizer].
type Option func(*Summarizer)

// WithLogger sets the logger used for per-step debug output.
func WithLogger(l *log.Logger) Option {
	return func(s *Summarizer) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Summarizer reading from source.
func New(source Source, opts ...Option) *Summarizer {
	s := &Summarizer{source: source, logger: log.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize parses ref, fetches repository metadata, contributors, languages
// and the latest commit in that order, and assembles a Record.
//
// The first failing step aborts the summary and its error is returned as is:
// INVALID_INPUT for an unparseable ref, REMOTE_ERROR for a failed call and
// INVALID_RESPONSE for an undecodable body. No partial Record is returned.
func (s *Summarizer) Summarize(ctx context.Context, ref string) (*Record, error) {
	repoRef, err := github.ParseRepoRef(ref)
	if err != nil {
		return nil, err
	}

	hooks := observability.Summary()
	name := repoRef.String()
	start := time.Now()
	hooks.OnSummaryStart(ctx, name)

	rec, err := s.collect(ctx, repoRef)
	hooks.OnSummaryComplete(ctx, name, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("summary complete", "repo", name, "duration", time.Since(start))
	return rec, nil
}

func (s *Summarizer) collect(ctx context.Context, ref github.RepoRef) (*Record, error) {
	var (
		repo         *github.Repo
		contributors int
		langs        github.Languages
		lastCommit   *string
	)

	err := s.step(ctx, ref, github.EndpointRepository, func() (err error) {
		repo, err = s.source.FetchRepo(ctx, ref)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = s.step(ctx, ref, github.EndpointContributors, func() (err error) {
		contributors, err = s.source.CountContributors(ctx, ref, repo.ContributorsURL)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = s.step(ctx, ref, github.EndpointLanguages, func() (err error) {
		langs, err = s.source.FetchLanguages(ctx, ref, repo.LanguagesURL)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = s.step(ctx, ref, github.EndpointCommits, func() (err error) {
		lastCommit, err = s.source.FetchLatestCommitDate(ctx, ref, repo.CommitsURL)
		return err
	})
	if err != nil {
		return nil, err
	}

	rec := &Record{
		Ref:          ref.String(),
		Owner:        ref.Owner,
		Name:         repo.Name,
		Description:  repo.Description,
		Stars:        nonNegative(repo.Stars),
		Forks:        nonNegative(repo.Forks),
		Contributors: nonNegative(contributors),
		Languages:    langs.Ranked(),
		LastCommitAt: lastCommit,
		LastPushedAt: repo.PushedAt,
	}
	rec.Report = Report(rec)
	return rec, nil
}

// step runs fn as the named step, reporting its duration and outcome.
func (s *Summarizer) step(ctx context.Context, ref github.RepoRef, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)

	observability.Summary().OnStepComplete(ctx, ref.String(), name, elapsed, err)
	if err != nil {
		s.logger.Debug("step failed", "repo", ref, "step", name, "duration", elapsed, "error", err)
		return err
	}
	s.logger.Debug("step done", "repo", ref, "step", name, "duration", elapsed)
	return nil
}

// Report renders the one-paragraph digest for rec. The output depends only on
// the record's fields.
func Report(rec *Record) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s is a GitHub repository owned by %s with %d stars, %d forks and %d contributors.",
		rec.DisplayName(), rec.Owner, rec.Stars, rec.Forks, rec.Contributors)

	if len(rec.Languages) > 0 {
		top := rec.Languages[:min(len(rec.Languages), maxReportLanguages)]
		fmt.Fprintf(&b, " It is primarily written in %s.", joinList(top))
	} else {
		b.WriteString(" No programming languages were detected.")
	}

	if rec.Description != nil && *rec.Description != "" {
		fmt.Fprintf(&b, " Description: %s", strings.TrimSpace(*rec.Description))
		if !strings.HasSuffix(b.String(), ".") {
			b.WriteByte('.')
		}
	}

	if rec.LastCommitAt != nil && *rec.LastCommitAt != "" {
		fmt.Fprintf(&b, " The most recent commit was made on %s.", *rec.LastCommitAt)
	}

	return b.String()
}

// joinList renders ["a", "b", "c"] as "a, b and c".
func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
