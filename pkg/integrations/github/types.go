package github

// Endpoint names used in errors and hooks.
const (
	EndpointRepository   = "repository"
	EndpointContributors = "contributors"
	EndpointLanguages    = "languages"
	EndpointCommits      = "commits"
)

// Repo is the subset of the repository metadata response gitfind reads.
// Nullable upstream fields are pointers so they pass through unchanged.
type Repo struct {
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	Stars           int     `json:"stargazers_count"`
	Forks           int     `json:"forks_count"`
	PushedAt        *string `json:"pushed_at"`
	ContributorsURL string  `json:"contributors_url"`
	LanguagesURL    string  `json:"languages_url"`
	CommitsURL      string  `json:"commits_url"`
}

// commitResponse is one element of the commits listing.
type commitResponse struct {
	Commit struct {
		Author *struct {
			Date *string `json:"date"`
		} `json:"author"`
	} `json:"commit"`
}
