package formatters

import (
	"encoding/json"
	"strings"
	"testing"

	"resumatch/internal/types"
)

func sampleResult() *types.AnalysisResult {
	return &types.AnalysisResult{
		Score: 54.86,
		Breakdown: types.ScoreBreakdown{
			SkillMatch:      42.86,
			ATSOptimization: 12,
		},
		MatchedSkills: []string{"Machine Learning"},
		MissingSkills: types.MissingSkills{
			HighPriority:   []string{},
			MediumPriority: []string{"Python"},
		},
		Suggestions:      []string{"Include 'Python' in your resume", "b", "c"},
		WeakRequirements: []string{"machine learning machine learning python"},
		Evidence: []types.Evidence{{
			JobSentence:    "Must know Go | SQL",
			ResumeSentence: "Built Go services",
			Similarity:     0.91,
		}},
		JobTitle: "Target Position",
	}
}

func TestRegistryFormats(t *testing.T) {
	registry := NewFormatterRegistry()

	tests := []struct {
		name     string
		data     any
		format   string
		contains []string
	}{
		{
			name:     "analysis text",
			data:     sampleResult(),
			format:   "text",
			contains: []string{"Score: 54.86/100", "Matched: Machine Learning", "Missing (high priority): none", "-> Built Go services (0.91)"},
		},
		{
			name:     "analysis markdown by value",
			data:     *sampleResult(),
			format:   "markdown",
			contains: []string{"# Resume Match: Target Position", "| Skill match | 42.86 | 50 |", `Must know Go \| SQL`, "- Include 'Python' in your resume"},
		},
		{
			name:     "skills text",
			data:     types.SkillsOutput{Skills: []string{"Go", "SQL"}, Count: 2},
			format:   "text",
			contains: []string{"=== SKILLS (2) ===", "Go\nSQL\n"},
		},
		{
			name:     "skills markdown",
			data:     &types.SkillsOutput{Skills: []string{"Go"}, Count: 1},
			format:   "markdown",
			contains: []string{"# Skills (1)", "- Go"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := registry.Format(tt.data, tt.format)
			if err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestJSONFormatterUsesWireNames(t *testing.T) {
	out, err := GlobalRegistry.Format(sampleResult(), "json")
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	breakdown, ok := decoded["breakdown"].(map[string]any)
	if !ok {
		t.Fatal("breakdown missing")
	}
	if breakdown["skill_match"] != 42.86 {
		t.Errorf("skill_match = %v, want 42.86", breakdown["skill_match"])
	}
}

func TestRegistryUnknownFormat(t *testing.T) {
	if _, err := GlobalRegistry.Format(sampleResult(), "yaml"); err == nil {
		t.Error("expected error for unsupported format")
	}
	if _, err := GlobalRegistry.Format(map[string]int{"a": 1}, "text"); err == nil {
		t.Error("expected error for text format of unknown type")
	}
}

func TestGetSupportedFormats(t *testing.T) {
	got := strings.Join(GlobalRegistry.GetSupportedFormats(), ",")
	if got != "json,markdown,text" {
		t.Errorf("GetSupportedFormats() = %s", got)
	}
}
