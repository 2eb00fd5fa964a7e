package matcher

import (
	"slices"
	"strings"
	"unicode"

	"resumatch/internal/lexicon"
)

// SkillLabel is the entity label kept from an EntityRecognizer.
const SkillLabel = "SKILL"

// Entity is a labelled span found by an EntityRecognizer.
type Entity struct {
	Text  string
	Label string
}

// EntityRecognizer is an optional general-purpose entity model consulted in
// addition to the gazetteer. Only SKILL entities are used.
type EntityRecognizer interface {
	Recognize(text string) []Entity
}

// SkillSet is a sorted set of canonical skill names.
type SkillSet []string

// Contains reports whether skill is in the set. Names compare exactly.
func (s SkillSet) Contains(skill string) bool {
	_, found := slices.BinarySearch(s, skill)
	return found
}

// Extractor finds skills in text using the gazetteer of the current lexicon.
type Extractor struct {
	lexicon    *lexicon.Lexicon
	recognizer EntityRecognizer
}

// NewExtractor creates an extractor. recognizer may be nil.
func NewExtractor(lex *lexicon.Lexicon, recognizer EntityRecognizer) *Extractor {
	return &Extractor{lexicon: lex, recognizer: recognizer}
}

// Extract returns the canonical skills mentioned in text. Gazetteer phrases
// match case-insensitively on token boundaries, longest phrase first.
// Spans with no synonym entry keep their surface text.
func (e *Extractor) Extract(text string) SkillSet {
	found := make(map[string]struct{})

	tokens := tokenize(text)
	byFirst := make(map[string][][]string)
	for _, p := range e.lexicon.Patterns() {
		byFirst[p[0]] = append(byFirst[p[0]], p)
	}

	for i := 0; i < len(tokens); {
		n := longestMatch(tokens[i:], byFirst[tokens[i].lower])
		if n == 0 {
			i++
			continue
		}
		found[e.canonical(text, tokens[i:i+n])] = struct{}{}
		i += n
	}

	if e.recognizer != nil {
		for _, ent := range e.recognizer.Recognize(text) {
			if ent.Label == SkillLabel && strings.TrimSpace(ent.Text) != "" {
				found[e.lexicon.Canonicalize(strings.TrimSpace(ent.Text))] = struct{}{}
			}
		}
	}

	skills := make(SkillSet, 0, len(found))
	for s := range found {
		skills = append(skills, s)
	}
	slices.Sort(skills)
	return skills
}

// canonical maps a matched span through the synonym table, falling back to
// the span's surface text.
func (e *Extractor) canonical(text string, span []token) string {
	key := make([]string, len(span))
	for i, t := range span {
		key[i] = t.lower
	}
	if name, ok := e.lexicon.Lookup(strings.Join(key, " ")); ok {
		return name
	}
	return text[span[0].start:span[len(span)-1].end]
}

func longestMatch(tokens []token, candidates [][]string) int {
	best := 0
	for _, pattern := range candidates {
		if len(pattern) <= best || len(pattern) > len(tokens) {
			continue
		}
		ok := true
		for j, want := range pattern {
			if tokens[j].lower != want {
				ok = false
				break
			}
		}
		if ok {
			best = len(pattern)
		}
	}
	return best
}

type token struct {
	lower      string
	start, end int // byte offsets into the source text
}

const tokenSeparators = ",;:!?()[]{}<>\"'|/“”‘’"

// tokenize splits on whitespace and separator punctuation, then trims
// leading and trailing dots, dashes and asterisks so "js." matches "js"
// while "3.11" and "node.js" stay whole.
func tokenize(text string) []token {
	var tokens []token
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		s, e := start, end
		for s < e && strings.ContainsRune(".-*", rune(text[s])) {
			s++
		}
		for e > s && strings.ContainsRune(".-*", rune(text[e-1])) {
			e--
		}
		if s < e {
			tokens = append(tokens, token{lower: strings.ToLower(text[s:e]), start: s, end: e})
		}
		start = -1
	}

	for i, r := range text {
		if unicode.IsSpace(r) || strings.ContainsRune(tokenSeparators, r) {
			flush(i)
			continue
		}
		if start < 0 {
			start = i
		}
	}
	flush(len(text))
	return tokens
}
