package matcher

import (
	"math"
	"slices"
	"strings"
	"unicode/utf8"

	"resumatch/internal/types"
)

const (
	skillMatchMax = 50.0
	semanticMax   = 30.0

	SuggestQuantify = "Add quantifiable achievements to your experience"
	minSuggestions  = 3
)

// coverage splits job skills into matched and missing and returns the
// weighted share of matched skills scaled to 0-50.
func coverage(jobSkills, resumeSkills SkillSet, weights SkillWeights) (float64, []string, []string) {
	matched := make([]string, 0, len(jobSkills))
	missing := make([]string, 0)
	for _, skill := range jobSkills {
		if resumeSkills.Contains(skill) {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}

	total := weights.Total(jobSkills)
	if len(jobSkills) == 0 || total <= 0 {
		return 0, matched, missing
	}
	return weights.Total(matched) / total * skillMatchMax, matched, missing
}

// prioritizeMissing ranks missing skills by how often and how early they
// appear in the job text. weight = occurrences + 1/(first position+1);
// weight >= 2 is high priority, 1 <= weight < 2 is medium, anything lower
// is not reported.
func prioritizeMissing(missing []string, jobText string) types.MissingSkills {
	lowerJob := strings.ToLower(jobText)
	result := types.MissingSkills{HighPriority: []string{}, MediumPriority: []string{}}

	for _, skill := range missing {
		needle := strings.ToLower(skill)
		weight := float64(strings.Count(lowerJob, needle))
		if idx := strings.Index(lowerJob, needle); idx >= 0 {
			pos := utf8.RuneCountInString(lowerJob[:idx])
			weight += 1 / float64(pos+1)
		}
		switch {
		case weight >= 2:
			result.HighPriority = append(result.HighPriority, skill)
		case weight >= 1:
			result.MediumPriority = append(result.MediumPriority, skill)
		}
	}

	slices.Sort(result.HighPriority)
	slices.Sort(result.MediumPriority)
	return result
}

// buildSuggestions lists missing skills (high then medium), then ATS
// suggestions, then pads with a generic suggestion up to three entries.
func buildSuggestions(missing types.MissingSkills, atsSuggestions []string) []string {
	suggestions := make([]string, 0, len(missing.HighPriority)+len(missing.MediumPriority)+len(atsSuggestions)+minSuggestions)
	for _, skill := range missing.HighPriority {
		suggestions = append(suggestions, "Include '"+skill+"' in your resume")
	}
	for _, skill := range missing.MediumPriority {
		suggestions = append(suggestions, "Include '"+skill+"' in your resume")
	}
	suggestions = append(suggestions, atsSuggestions...)
	for len(suggestions) < minSuggestions {
		suggestions = append(suggestions, SuggestQuantify)
	}
	return suggestions
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
