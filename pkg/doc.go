// Package pkg provides the libraries behind gitfind.
//
// # Overview
//
// gitfind turns a GitHub repository reference into a summary record of its
// stars, forks, contributors, primary languages and latest commit. The pkg
// directory is organized as:
//
//  1. [summary] - The repository summarizer and its Record type
//  2. [integrations] - Shared HTTP client and the GitHub API client
//  3. [config] - Layered configuration (TOML file, .env, environment)
//  4. [errors] - Coded errors shared by the CLI and the HTTP server
//  5. [observability] - Hooks for logging and metrics
//
// # Data Flow
//
//	repository reference
//	         ↓
//	    [integrations/github] ParseRepoRef
//	         ↓
//	    repository → contributors → languages → commits
//	         ↓
//	    [summary] Record + report text
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/gitfind/pkg/integrations/github"
//	    "github.com/matzehuels/gitfind/pkg/summary"
//	)
//
//	client := github.NewClient(os.Getenv("GITHUB_TOKEN"))
//	rec, err := summary.New(client).Summarize(context.Background(), "python/cpython")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(rec.Report)
package pkg
