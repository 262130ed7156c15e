// Package github provides an HTTP client for the GitHub REST API.
//
// # Overview
//
// This package fetches the four resources a repository summary is built
// from (https://api.github.com):
//
//   - [Client.FetchRepo]: /repos/{owner}/{repo} metadata
//   - [Client.CountContributors]: first page of the contributors listing
//   - [Client.FetchLanguages]: language to byte count breakdown
//   - [Client.FetchLatestCommitDate]: author date of the newest commit
//
// # Usage
//
//	client := github.NewClient(os.Getenv("GITHUB_TOKEN"))
//
//	ref, err := github.ParseRepoRef("https://github.com/python/cpython")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	repo, err := client.FetchRepo(ctx, ref)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("Stars:", repo.Stars)
//
// # Authentication
//
// A GitHub personal access token is optional but recommended to avoid rate
// limits. Without a token, the client is limited to 60 requests/hour.
// With a token, the limit is 5000 requests/hour.
//
// # Errors
//
// Failures are coded errors from [errors]: a non-2xx or transport failure
// is REMOTE_ERROR with an [errors.RemoteError] naming the endpoint, and an
// undecodable body is INVALID_RESPONSE. Invalid references passed to
// [ParseRepoRef] are INVALID_INPUT.
//
// [errors]: github.com/matzehuels/gitfind/pkg/errors
// [errors.RemoteError]: github.com/matzehuels/gitfind/pkg/errors.RemoteError
package github
