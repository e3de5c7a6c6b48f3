// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search talks to the Indian Kanoon search API: it issues title
// queries and validates the returned payload into documents.
package search

import (
	"context"

	"github.com/pdiddy/kanoon-match/pkg/types"
)

// Searcher issues one search request and returns the raw JSON payload.
// Client is the production implementation; tests substitute fakes.
type Searcher interface {
	Search(ctx context.Context, title string, pageNum, maxPages int) (string, error)
}

// Cache stores raw payloads between runs. *storage.FileStorage satisfies it.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, query, payload string) error
}

// Query is one title lookup. It is built once and not modified.
type Query struct {
	Title      string
	MaxResults int
}

// NewQuery builds the query for title using the candidate limit from cfg.
// An empty title is accepted.
func NewQuery(title string, cfg types.SearchConfig) Query {
	n := cfg.MaxResults
	if n <= 0 {
		n = types.DefaultMaxResults
	}
	return Query{Title: title, MaxResults: n}
}
