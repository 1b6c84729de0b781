// Package search provides the client for the external search collaborator,
// the Google Custom Search JSON API.
package search

import (
	"context"
	"fmt"
)

// Item is one search result.
type Item struct {
	Title   string
	Snippet string
	Link    string
}

// Searcher abstracts the search collaborator so the pipeline can run against
// a fake in tests.
type Searcher interface {
	// Search fetches up to pages result pages for query. On a mid-pagination
	// failure the items fetched so far are returned together with the error.
	Search(ctx context.Context, query string, pages int) ([]Item, error)
}

// APIError is a non-2xx response from the search API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("search api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("search api: %s (status %d)", e.Message, e.StatusCode)
}
