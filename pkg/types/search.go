// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for kanoon-match: the search
// settings, the documents returned by the search API, and the match outcome
// printed for each lookup.
package types

// DocURLPrefix is the canonical document URL prefix.
const DocURLPrefix = "https://indiankanoon.org/doc/"

// NoResultsMessage is the error text emitted when a lookup finds nothing usable.
const NoResultsMessage = "No results found"

// Document is one search hit. Only the title and identifier are consulted.
type Document struct {
	// Title is the document title exactly as the API returned it.
	Title string `json:"title" yaml:"title"`

	// ID is the API's document identifier (tid) in its verbatim textual form.
	ID string `json:"id" yaml:"id"`
}

// URL returns the canonical URL for the document.
func (d Document) URL() string {
	return DocURL(d.ID)
}

// DocURL builds the canonical document URL. The identifier is inserted
// verbatim, without escaping.
func DocURL(id string) string {
	return DocURLPrefix + id + "/"
}

// ResultLink is a document as it appears in an Outcome.
type ResultLink struct {
	Title string `json:"title" yaml:"title"`
	URL   string `json:"url" yaml:"url"`
}

// LinkFor converts a Document into its output form.
func LinkFor(d Document) ResultLink {
	return ResultLink{Title: d.Title, URL: d.URL()}
}

// Outcome is the result of one title lookup. Exactly one of two shapes is
// populated: a match (BestMatch and TopResults) or a no-results error
// (Error). Field order matches the printed JSON.
type Outcome struct {
	Error      string       `json:"error,omitempty" yaml:"error,omitempty"`
	Input      string       `json:"input" yaml:"input"`
	BestMatch  *ResultLink  `json:"best_match,omitempty" yaml:"best_match,omitempty"`
	TopResults []ResultLink `json:"top_results,omitempty" yaml:"top_results,omitempty"`
}

// NoResults returns the error outcome for title.
func NoResults(title string) Outcome {
	return Outcome{Error: NoResultsMessage, Input: title}
}

// Matched returns the success outcome. best must be an element of top.
func Matched(title string, best Document, top []Document) Outcome {
	link := LinkFor(best)
	links := make([]ResultLink, len(top))
	for i, d := range top {
		links[i] = LinkFor(d)
	}
	return Outcome{Input: title, BestMatch: &link, TopResults: links}
}

// Found reports whether the outcome carries a match.
func (o Outcome) Found() bool {
	return o.Error == "" && o.BestMatch != nil
}
