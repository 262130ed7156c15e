package github

import (
	"regexp"
	"strings"

	"github.com/matzehuels/gitfind/pkg/errors"
	"github.com/matzehuels/gitfind/pkg/integrations"
)

// Regex patterns for GitHub resource validation.
var (
	// GitHub usernames/orgs: 1-39 alphanumeric or hyphen, not starting with hyphen
	validOwner = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,38}$`)
	// GitHub repo names: 1-100 alphanumeric, hyphen, underscore, or dot
	validRepo = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,100}$`)

	repoURLPattern = regexp.MustCompile(`^https?://(?:www\.)?github\.com/([^/?#]+)/([^/?#]+?)(?:\.git)?(?:[/?#]|$)`)
)

// RepoRef identifies a repository by owner and name.
type RepoRef struct {
	Owner string
	Name  string
}

// String returns the "owner/name" form.
func (r RepoRef) String() string { return r.Owner + "/" + r.Name }

// ValidateOwner validates a GitHub username or organization name.
func ValidateOwner(owner string) error {
	if owner == "" {
		return errors.New(errors.ErrCodeInvalidInput, "owner is required")
	}
	if !validOwner.MatchString(owner) {
		return errors.New(errors.ErrCodeInvalidInput, "invalid owner %q: must be 1-39 alphanumeric characters or hyphens, cannot start with hyphen", owner)
	}
	return nil
}

// ValidateRepo validates a GitHub repository name.
func ValidateRepo(repo string) error {
	if repo == "" {
		return errors.New(errors.ErrCodeInvalidInput, "repo is required")
	}
	if !validRepo.MatchString(repo) || repo == "." || repo == ".." {
		return errors.New(errors.ErrCodeInvalidInput, "invalid repo %q: must be 1-100 alphanumeric characters, hyphens, underscores, or dots", repo)
	}
	return nil
}

// ValidateRepoRef validates both owner and repo parameters.
func ValidateRepoRef(owner, repo string) error {
	if err := ValidateOwner(owner); err != nil {
		return err
	}
	return ValidateRepo(repo)
}

// ParseRepoRef parses a repository reference into a [RepoRef].
//
// Accepted forms are github.com URLs (http or https, optional www, with or
// without scheme, .git suffix, trailing path, query or fragment), SSH and
// git:// remotes, and a bare "owner/repo". All failures carry
// [errors.ErrCodeInvalidInput].
func ParseRepoRef(ref string) (RepoRef, error) {
	s := integrations.NormalizeRepoURL(ref)
	if s == "" {
		return RepoRef{}, errors.New(errors.ErrCodeInvalidInput, "repository reference is required")
	}

	if strings.HasPrefix(s, "github.com/") || strings.HasPrefix(s, "www.github.com/") {
		s = "https://" + s
	}

	var owner, repo string
	switch {
	case strings.Contains(s, "://"):
		m := repoURLPattern.FindStringSubmatch(s)
		if m == nil {
			return RepoRef{}, errors.New(errors.ErrCodeInvalidInput, "not a GitHub repository URL: %q", ref)
		}
		owner, repo = m[1], m[2]
	default:
		parts := strings.SplitN(s, "/", 2)
		if len(parts) != 2 {
			return RepoRef{}, errors.New(errors.ErrCodeInvalidInput, "invalid repository reference %q: use owner/repo or a GitHub URL", ref)
		}
		owner, repo = parts[0], parts[1]
	}

	if err := ValidateRepoRef(owner, repo); err != nil {
		return RepoRef{}, err
	}
	return RepoRef{Owner: owner, Name: repo}, nil
}
