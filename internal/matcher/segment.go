package matcher

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxSentences bounds how many units one document contributes.
const DefaultMaxSentences = 200

// Source tells which document a sentence came from.
type Source string

const (
	SourceResume Source = "resume"
	SourceJob    Source = "job"
)

// SentenceUnit is one trimmed, non-empty sentence or bullet.
type SentenceUnit struct {
	Text   string
	Source Source
	Index  int
}

// chunkDelimiter matches line breaks, bullet glyphs and dashes or asterisks
// used as list markers (at a line start or surrounded by spaces). Hyphens
// inside words such as "full-time" are not delimiters.
var chunkDelimiter = regexp.MustCompile(`(?m)\r\n|[\n\r\x{2022}\x{2023}\x{25AA}\x{25CF}\x{25E6}\x{2219}\x{00B7}]|(?:^|\s)[-\x{2013}\x{2014}*]+\s`)

// Segment splits text into at most limit sentence units in document order.
// Text is first cut into chunks on bullets, newlines and dashes, then each
// chunk is cut after sentence-ending punctuation that is followed by
// whitespace. The punctuation stays with its sentence.
func Segment(text string, source Source, limit int) []SentenceUnit {
	if limit <= 0 {
		limit = DefaultMaxSentences
	}

	units := make([]SentenceUnit, 0)
	for _, chunk := range chunkDelimiter.Split(text, -1) {
		for _, sentence := range splitSentences(chunk) {
			if len(units) == limit {
				return units
			}
			units = append(units, SentenceUnit{Text: sentence, Source: source, Index: len(units)})
		}
	}
	return units
}

// Texts returns the sentence texts.
func Texts(units []SentenceUnit) []string {
	out := make([]string, len(units))
	for i, u := range units {
		out[i] = u.Text
	}
	return out
}

func splitSentences(chunk string) []string {
	var out []string
	emit := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}

	start := 0
	for i := 0; i < len(chunk); {
		r, size := utf8.DecodeRuneInString(chunk[i:])
		end := i + size
		if isTerminal(r) {
			// absorb runs like "?!" or "..."
			for end < len(chunk) {
				next, n := utf8.DecodeRuneInString(chunk[end:])
				if !isTerminal(next) {
					break
				}
				end += n
			}
			if end < len(chunk) {
				next, _ := utf8.DecodeRuneInString(chunk[end:])
				if unicode.IsSpace(next) {
					emit(chunk[start:end])
					start = end
				}
			}
		}
		i = end
	}
	emit(chunk[start:])
	return out
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
