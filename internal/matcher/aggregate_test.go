package matcher

import (
	"testing"

	"resumatch/internal/types"

	"github.com/stretchr/testify/assert"
)

func TestPrioritizeMissing(t *testing.T) {
	job := "Docker docker docker. Also Kubernetes"
	got := prioritizeMissing([]string{"Kubernetes", "Docker", "JavaScript"}, job)

	assert.Equal(t, []string{"Docker"}, got.HighPriority)
	assert.Equal(t, []string{"Kubernetes"}, got.MediumPriority)
}

func TestPrioritizeMissingLeadingSkillIsHigh(t *testing.T) {
	got := prioritizeMissing([]string{"Python", "SQL"}, "Python developer wanted, SQL a plus")
	assert.Equal(t, []string{"Python"}, got.HighPriority)
	assert.Equal(t, []string{"SQL"}, got.MediumPriority)
}

func TestPrioritizeMissingEmpty(t *testing.T) {
	got := prioritizeMissing(nil, "anything")
	assert.NotNil(t, got.HighPriority)
	assert.NotNil(t, got.MediumPriority)
	assert.Empty(t, got.HighPriority)
}

func TestBuildSuggestions(t *testing.T) {
	got := buildSuggestions(types.MissingSkills{
		HighPriority:   []string{"Docker"},
		MediumPriority: []string{"Kubernetes"},
	}, []string{SuggestSections})
	assert.Equal(t, []string{
		"Include 'Docker' in your resume",
		"Include 'Kubernetes' in your resume",
		SuggestSections,
	}, got)

	got = buildSuggestions(types.MissingSkills{}, nil)
	assert.Equal(t, []string{SuggestQuantify, SuggestQuantify, SuggestQuantify}, got)
}

func TestCoverage(t *testing.T) {
	weights := SkillWeights{"Go": 3, "SQL": 1}

	score, matched, missing := coverage(SkillSet{"Go", "SQL"}, SkillSet{"Go"}, weights)
	assert.InDelta(t, 37.5, score, 1e-9)
	assert.Equal(t, []string{"Go"}, matched)
	assert.Equal(t, []string{"SQL"}, missing)

	score, matched, missing = coverage(SkillSet{}, SkillSet{"Go"}, SkillWeights{})
	assert.Zero(t, score)
	assert.Empty(t, matched)
	assert.Empty(t, missing)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 42.86, round2(300.0/7))
	assert.Equal(t, 0.0, round2(0.004))
}
