package matcher

import (
	"slices"
	"strings"

	"resumatch/internal/keyword"
)

const (
	SuggestKeywordDensity = "Increase keyword density for job-specific terms"
	SuggestActionVerbs    = "Use more action verbs to describe achievements"
	SuggestSections       = "Include Education and Experience sections"
)

var actionVerbs = []string{"led", "managed", "built", "created", "developed", "designed"}

// KeywordCounter counts case-insensitive, non-overlapping keyword
// occurrences. keyword.Scanner and keyword.Naive implement it.
type KeywordCounter interface {
	Count(text string, keywords []string) []int
}

// ATSScorer rates how well a resume would fare in an applicant tracking
// system: up to 10 points for keyword density, 5 for action verbs and 5 for
// section completeness.
type ATSScorer struct {
	Counter KeywordCounter
}

// Score returns the ATS score and the suggestions triggered while scoring.
func (a ATSScorer) Score(resume string, jobSkills SkillSet) (float64, []string) {
	var suggestions []string
	total := 0.0
	lower := strings.ToLower(resume)

	words := max(len(strings.Fields(resume)), 1)
	density := float64(a.keywordHits(resume, jobSkills)) / float64(words)
	switch {
	case density > 0.02:
		total += 10
	case density > 0.01:
		total += 6
		suggestions = append(suggestions, SuggestKeywordDensity)
	default:
		total += 2
		suggestions = append(suggestions, SuggestKeywordDensity)
	}

	verbLines := 0
	for _, line := range strings.FieldsFunc(lower, isLineBreak) {
		if fields := strings.Fields(line); len(fields) > 0 && slices.Contains(actionVerbs, fields[0]) {
			verbLines++
		}
	}
	if verbLines >= 3 {
		total += 5
	} else {
		total += float64(verbLines) / 3 * 5
		suggestions = append(suggestions, SuggestActionVerbs)
	}

	if strings.Contains(lower, "education") && strings.Contains(lower, "experience") {
		total += 5
	} else {
		total += 2
		suggestions = append(suggestions, SuggestSections)
	}

	return total, suggestions
}

func (a ATSScorer) keywordHits(resume string, skills SkillSet) int {
	var counter KeywordCounter = keyword.Naive{}
	if a.Counter != nil {
		counter = a.Counter
	}
	hits := 0
	for _, n := range counter.Count(resume, skills) {
		hits += n
	}
	return hits
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
