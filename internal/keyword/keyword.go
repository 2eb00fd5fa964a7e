// Package keyword counts keyword occurrences in free text.
//
// Counting is case-insensitive and, per keyword, non-overlapping: "aaaa"
// contains "aa" twice. Keywords match anywhere, not only on word boundaries,
// so "java" is also counted inside "javascript".
package keyword

import (
	"strings"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
)

// Counter reports, for each keyword, how many times it occurs in text.
type Counter interface {
	Count(text string, keywords []string) []int
}

// Total sums the per-keyword counts.
func Total(c Counter, text string, keywords []string) int {
	total := 0
	for _, n := range c.Count(text, keywords) {
		total += n
	}
	return total
}

// Scanner counts all keywords in a single pass over the text with an
// Aho-Corasick automaton built for the keyword set.
type Scanner struct{}

func (Scanner) Count(text string, keywords []string) []int {
	counts := make([]int, len(keywords))
	patterns, index := dedupe(keywords)
	if len(patterns) == 0 {
		return counts
	}

	ac := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		MatchKind: ahocorasick.StandardMatch,
		DFA:       true,
	}).Build(patterns)

	haystack := strings.ToLower(text)
	perPattern := make([]int, len(patterns))
	lastEnd := make([]int, len(patterns))

	// Overlapping iteration reports every occurrence; a pattern's own
	// occurrences arrive in start order, so skipping those that begin before
	// the previous accepted one ends yields non-overlapping counts.
	iter := ac.IterOverlapping(haystack)
	for m := iter.Next(); m != nil; m = iter.Next() {
		p := m.Pattern()
		if perPattern[p] > 0 && m.Start() < lastEnd[p] {
			continue
		}
		perPattern[p]++
		lastEnd[p] = m.End()
	}

	for i, p := range index {
		if p >= 0 {
			counts[i] = perPattern[p]
		}
	}
	return counts
}

// Naive counts each keyword with its own substring search.
type Naive struct{}

func (Naive) Count(text string, keywords []string) []int {
	counts := make([]int, len(keywords))
	haystack := strings.ToLower(text)
	for i, kw := range keywords {
		if kw = strings.ToLower(kw); kw != "" {
			counts[i] = strings.Count(haystack, kw)
		}
	}
	return counts
}

// dedupe lowercases keywords and returns the distinct non-empty patterns plus,
// for each keyword, the index of its pattern (-1 for empty keywords).
func dedupe(keywords []string) ([]string, []int) {
	seen := make(map[string]int, len(keywords))
	patterns := make([]string, 0, len(keywords))
	index := make([]int, len(keywords))
	for i, kw := range keywords {
		kw = strings.ToLower(kw)
		if kw == "" {
			index[i] = -1
			continue
		}
		p, ok := seen[kw]
		if !ok {
			p = len(patterns)
			seen[kw] = p
			patterns = append(patterns, kw)
		}
		index[i] = p
	}
	return patterns, index
}
