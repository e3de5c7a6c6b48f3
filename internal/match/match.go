// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package match selects the candidate title closest to a target title.
//
// Scores come from a sequence matcher over runes: the matching-blocks ratio
// 2*M/T, raised to the share of the target covered by the single longest
// matching block when that is higher. A candidate that contains the whole
// target verbatim therefore scores 1; among such candidates the one with the
// higher plain ratio, such as an exact title, wins. Titles are compared exactly as given;
// no case folding, trimming or punctuation stripping is applied.
package match

import (
	"github.com/pmezard/go-difflib/difflib"
)

// DefaultCutoff is the minimum score a candidate needs to count as a match.
const DefaultCutoff = 0.6

// Scored pairs a candidate index with its similarity to the target. Ratio is
// the plain matching-blocks ratio; it breaks ties between equal scores.
type Scored struct {
	Index int
	Title string
	Score float64
	Ratio float64
}

// Similarity returns a score in [0, 1] for how closely candidate resembles target.
func Similarity(target, candidate string) float64 {
	score, _ := similarity(target, candidate)
	return score
}

func similarity(target, candidate string) (score, ratio float64) {
	b := splitRunes(target)
	m := difflib.NewMatcher(splitRunes(candidate), b)

	ratio = m.Ratio()
	if len(b) == 0 {
		return ratio, ratio
	}

	longest := 0
	for _, blk := range m.GetMatchingBlocks() {
		if blk.Size > longest {
			longest = blk.Size
		}
	}
	score = ratio
	if cover := float64(longest) / float64(len(b)); cover > score {
		score = cover
	}
	return score, ratio
}

// Rank scores every candidate against target, in input order.
func Rank(target string, candidates []string) []Scored {
	out := make([]Scored, len(candidates))
	for i, c := range candidates {
		score, ratio := similarity(target, c)
		out[i] = Scored{Index: i, Title: c, Score: score, Ratio: ratio}
	}
	return out
}

// better reports whether s outranks the current best: higher score first,
// then higher ratio. Full ties keep the earlier candidate.
func (s Scored) better(best Scored) bool {
	if s.Score != best.Score {
		return s.Score > best.Score
	}
	return s.Ratio > best.Ratio
}

// Closest returns the index of the highest-scoring candidate whose score is
// at least cutoff. Equal scores resolve to the higher plain ratio, then to
// the earlier candidate. ok is false when candidates is empty or nothing
// reaches the cutoff.
func Closest(target string, candidates []string, cutoff float64) (idx int, ok bool) {
	var best Scored
	idx = -1
	for _, s := range Rank(target, candidates) {
		if s.Score < cutoff || (idx >= 0 && !s.better(best)) {
			continue
		}
		best, idx = s, s.Index
	}
	return idx, idx >= 0
}

// Best returns the index of the closest candidate at DefaultCutoff, falling
// back to the first candidate when none qualifies. candidates must not be empty.
func Best(target string, candidates []string) int {
	if idx, ok := Closest(target, candidates, DefaultCutoff); ok {
		return idx
	}
	return 0
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
