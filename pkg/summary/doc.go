// Package summary aggregates GitHub repository metrics into a single record.
//
// # Overview
//
// A [Summarizer] turns a repository reference into a [Record] by issuing four
// sequential requests through a [Source]:
//
//  1. Repository metadata: stars, forks, description and sub-resource URLs
//  2. Contributors: the length of the first page of the listing
//  3. Languages: byte counts, ranked descending with ties in response order
//  4. Commits: the author date of the newest commit
//
// Each request starts only after the previous one succeeded. The first
// failure aborts the summary; there is no partial record and no retry.
//
// # Usage
//
//	client := github.NewClient(os.Getenv("GITHUB_TOKEN"))
//	s := summary.New(client)
//
//	rec, err := s.Summarize(ctx, "https://github.com/python/cpython")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(rec.Report)
//
// # Determinism
//
// A Record holds nothing but values taken from the four responses, so two
// summaries of identical responses marshal to identical JSON.
package summary
