// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package lookup runs one title lookup end to end: query the search API,
// validate the payload, pick the closest title and assemble the outcome.
package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/kanoon-match/internal/match"
	"github.com/pdiddy/kanoon-match/internal/search"
	"github.com/pdiddy/kanoon-match/pkg/types"
)

// Finder performs title lookups against a Searcher.
type Finder struct {
	Searcher search.Searcher
	Config   types.SearchConfig
	Log      *logrus.Logger
}

// New returns a Finder using the fixed lookup settings.
func New(s search.Searcher, log *logrus.Logger) *Finder {
	return &Finder{Searcher: s, Config: types.DefaultSearchConfig(), Log: log}
}

func (f *Finder) logger() *logrus.Logger {
	if f.Log != nil {
		return f.Log
	}
	return logrus.StandardLogger()
}

// Find issues a single search for q and returns its outcome. A payload that
// is empty, malformed or without documents yields the no-results outcome
// with a nil error, including one that carries only an API error message.
// Search failures, non-2xx statuses among them, are returned as errors.
func (f *Finder) Find(ctx context.Context, q search.Query) (types.Outcome, error) {
	maxPages := f.Config.MaxPages
	if maxPages <= 0 {
		maxPages = 1
	}

	raw, err := f.Searcher.Search(ctx, q.Title, 0, maxPages)
	if err != nil {
		return types.Outcome{}, fmt.Errorf("searching %q: %w", q.Title, err)
	}

	resp, err := search.ParseResponse(raw, q.MaxResults)
	if err != nil {
		entry := f.logger().WithError(err).WithField("input", q.Title)
		var apiErr *search.APIError
		if errors.As(err, &apiErr) {
			entry.Warn("search API returned no documents")
		} else {
			entry.Debug("unusable search response")
		}
		return types.NoResults(q.Title), nil
	}
	if resp.Message != "" {
		f.logger().WithField("errmsg", resp.Message).WithField("input", q.Title).Warn("search API message")
	}

	if f.logger().IsLevelEnabled(logrus.DebugLevel) {
		for _, s := range match.Rank(q.Title, titles(resp.Docs)) {
			f.logger().WithFields(logrus.Fields{
				"candidate": s.Title,
				"score":     fmt.Sprintf("%.3f", s.Score),
				"ratio":     fmt.Sprintf("%.3f", s.Ratio),
			}).Debug("scored")
		}
	}

	return Assemble(q.Title, resp.Docs), nil
}

// Assemble builds the outcome for title from the candidate documents in
// server order. An empty candidate list yields the no-results outcome.
func Assemble(title string, docs []types.Document) types.Outcome {
	if len(docs) == 0 {
		return types.NoResults(title)
	}
	best := docs[match.Best(title, titles(docs))]
	return types.Matched(title, best, docs)
}

func titles(docs []types.Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.Title
	}
	return out
}

// WriteJSON writes o as a single JSON line. HTML characters in titles are
// written as-is.
func WriteJSON(w io.Writer, o types.Outcome) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(o)
}
