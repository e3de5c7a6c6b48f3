// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch runs title lookups for every entry of a YAML titles file and
// saves the outcomes to a YAML results file.
package batch

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/kanoon-match/internal/lookup"
	"github.com/pdiddy/kanoon-match/internal/search"
	"github.com/pdiddy/kanoon-match/pkg/types"
)

// TitlesFile is the input document: a list of titles to look up.
type TitlesFile struct {
	Titles []string `yaml:"titles"`
}

// ResultsFile is the on-disk record of a batch run.
type ResultsFile struct {
	Results  []types.Outcome `yaml:"results"`
	Failures []Failure       `yaml:"failures,omitempty"`
	Summary  Summary         `yaml:"summary"`
}

// Failure records a title whose lookup returned an error.
type Failure struct {
	Title string `yaml:"title"`
	Error string `yaml:"error"`
}

// Summary holds the counts of a batch run.
type Summary struct {
	Total     int       `yaml:"total"`
	Matched   int       `yaml:"matched"`
	NoResults int       `yaml:"no_results"`
	Failed    int       `yaml:"failed"`
	Timestamp time.Time `yaml:"timestamp"`
}

// HasFailures reports whether any lookup failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// ReadTitles loads the titles file at path.
func ReadTitles(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading titles file: %w", err)
	}
	var tf TitlesFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parsing titles file: %w", err)
	}
	if len(tf.Titles) == 0 {
		return nil, fmt.Errorf("titles file %s lists no titles", path)
	}
	return tf.Titles, nil
}

// Run looks up each title in order, one at a time. A failed lookup is
// recorded and the run continues. Titles that already have an outcome in
// prev, when prev is non-nil, reuse it without a search; earlier failures are
// retried. Progress lines are written to w. If ctx is cancelled, Run stops and
// returns what it has so far with ctx.Err(); rerunning with that result as
// prev picks up the remaining titles.
func Run(ctx context.Context, f *lookup.Finder, titles []string, prev *ResultsFile, w io.Writer) (ResultsFile, error) {
	done := prev.outcomes()
	rf := ResultsFile{Summary: Summary{Total: len(titles)}}
	for _, title := range titles {
		out, ok := done[title]
		if ok {
			fmt.Fprintf(w, "reused:    %s\n", title)
		} else {
			if err := ctx.Err(); err != nil {
				rf.Summary.Timestamp = time.Now()
				return rf, err
			}
			var err error
			out, err = f.Find(ctx, search.NewQuery(title, f.Config))
			if err != nil {
				fmt.Fprintf(w, "failed:    %s (%v)\n", title, err)
				rf.Failures = append(rf.Failures, Failure{Title: title, Error: err.Error()})
				rf.Summary.Failed++
				continue
			}
		}

		rf.Results = append(rf.Results, out)
		if out.Found() {
			if !ok {
				fmt.Fprintf(w, "matched:   %s -> %s\n", title, out.BestMatch.URL)
			}
			rf.Summary.Matched++
		} else {
			if !ok {
				fmt.Fprintf(w, "no match:  %s\n", title)
			}
			rf.Summary.NoResults++
		}
	}

	rf.Summary.Timestamp = time.Now()
	fmt.Fprintf(w, "\nBatch summary: %d matched, %d no results, %d failed (total: %d)\n",
		rf.Summary.Matched, rf.Summary.NoResults, rf.Summary.Failed, rf.Summary.Total)
	return rf, nil
}

// outcomes indexes the recorded outcomes by input title.
func (rf *ResultsFile) outcomes() map[string]types.Outcome {
	m := make(map[string]types.Outcome)
	if rf == nil {
		return m
	}
	for _, o := range rf.Results {
		m[o.Input] = o
	}
	return m
}

// WriteResults saves rf as YAML to path.
func WriteResults(path string, rf ResultsFile) error {
	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling results file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadResults loads a results file written by WriteResults.
func ReadResults(path string) (*ResultsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading results file: %w", err)
	}
	var rf ResultsFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing results file: %w", err)
	}
	return &rf, nil
}
