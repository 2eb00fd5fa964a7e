// Package lexicon holds the read-only tables the matcher consults: the skill
// synonym table, the gazetteer of skill phrases and the role and seniority
// priority tables. A Lexicon is never mutated after construction; reloading
// builds a new one and publishes it through a Store.
package lexicon

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Lexicon is an immutable snapshot of the skill tables.
type Lexicon struct {
	synonyms  map[string]string   // lowercase surface form -> canonical name
	patterns  [][]string          // gazetteer phrases as lowercase token sequences
	roles     map[string][]string // lowercase role -> lowercase priority skills
	seniority map[string][]string // lowercase level -> lowercase priority skills
	maxTokens int
	source    string
}

// Tables is the plain-data form of a lexicon, used for loading and for tests.
type Tables struct {
	Synonyms  map[string]string   `mapstructure:"synonyms"`
	Skills    []string            `mapstructure:"skills"`
	Roles     map[string][]string `mapstructure:"roles"`
	Seniority map[string][]string `mapstructure:"seniority"`
}

// New validates tables and builds a Lexicon from them. Every synonym key and
// every extra skill phrase becomes a gazetteer pattern.
func New(t Tables, source string) (*Lexicon, error) {
	l := &Lexicon{
		synonyms:  make(map[string]string, len(t.Synonyms)),
		roles:     normalizeTable(t.Roles),
		seniority: normalizeTable(t.Seniority),
		source:    source,
	}

	for surface, canonical := range t.Synonyms {
		key := normalizePhrase(surface)
		canonical = strings.TrimSpace(canonical)
		if key == "" || canonical == "" {
			return nil, fmt.Errorf("synonym %q -> %q: empty surface form or canonical name", surface, canonical)
		}
		l.synonyms[key] = canonical
	}

	// Canonical names must be fixed points, otherwise canonicalization would
	// chain or cycle.
	for surface, canonical := range l.synonyms {
		if next, ok := l.synonyms[strings.ToLower(canonical)]; ok && next != canonical {
			return nil, fmt.Errorf("synonym %q -> %q is not stable: %q maps to %q", surface, canonical, canonical, next)
		}
	}

	seen := make(map[string]bool)
	addPattern := func(phrase string) {
		key := normalizePhrase(phrase)
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		tokens := strings.Fields(key)
		l.patterns = append(l.patterns, tokens)
		l.maxTokens = max(l.maxTokens, len(tokens))
	}
	for _, surface := range slices.Sorted(maps.Keys(l.synonyms)) {
		addPattern(surface)
	}
	for _, skill := range t.Skills {
		addPattern(skill)
	}

	return l, nil
}

// MustNew is New for tables known to be valid at compile time.
func MustNew(t Tables, source string) *Lexicon {
	l, err := New(t, source)
	if err != nil {
		panic(err)
	}
	return l
}

func normalizePhrase(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func normalizeTable(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for key, values := range in {
		norm := make([]string, 0, len(values))
		for _, v := range values {
			if v = normalizePhrase(v); v != "" {
				norm = append(norm, v)
			}
		}
		out[normalizePhrase(key)] = norm
	}
	return out
}

// Canonicalize maps a surface form to its canonical skill name. Unknown forms
// are returned unchanged. Canonicalize(Canonicalize(s)) == Canonicalize(s).
func (l *Lexicon) Canonicalize(surface string) string {
	if canonical, ok := l.Lookup(surface); ok {
		return canonical
	}
	return surface
}

// Lookup returns the canonical name for a known surface form.
func (l *Lexicon) Lookup(surface string) (string, bool) {
	canonical, ok := l.synonyms[normalizePhrase(surface)]
	return canonical, ok
}

// Patterns returns the gazetteer token sequences. Callers must not modify them.
func (l *Lexicon) Patterns() [][]string { return l.patterns }

// MaxPatternTokens is the token length of the longest gazetteer phrase.
func (l *Lexicon) MaxPatternTokens() int { return l.maxTokens }

// Source names where the tables came from.
func (l *Lexicon) Source() string { return l.source }

// PriorityTerms returns the lowercase priority skills for a role and seniority
// hint. Unknown or empty hints contribute nothing.
func (l *Lexicon) PriorityTerms(role, seniority string) map[string]bool {
	terms := make(map[string]bool)
	for _, t := range l.roles[normalizePhrase(role)] {
		terms[t] = true
	}
	for _, t := range l.seniority[normalizePhrase(seniority)] {
		terms[t] = true
	}
	return terms
}

// Roles lists the known role hints in sorted order.
func (l *Lexicon) Roles() []string { return slices.Sorted(maps.Keys(l.roles)) }

// SeniorityLevels lists the known seniority hints in sorted order.
func (l *Lexicon) SeniorityLevels() []string { return slices.Sorted(maps.Keys(l.seniority)) }
