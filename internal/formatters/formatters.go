package formatters

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"resumatch/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "AnalysisResult", &AnalysisTextFormatter{})
	registry.RegisterFormatter("markdown", "AnalysisResult", &AnalysisMarkdownFormatter{})
	registry.RegisterFormatter("text", "SkillsOutput", &SkillsTextFormatter{})
	registry.RegisterFormatter("markdown", "SkillsOutput", &SkillsMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats, sorted
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	slices.Sort(formats)
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.AnalysisResult, *types.AnalysisResult:
		return "AnalysisResult"
	case types.SkillsOutput, *types.SkillsOutput:
		return "SkillsOutput"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData) + "\n", nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

func asAnalysisResult(data any) (types.AnalysisResult, error) {
	switch v := data.(type) {
	case types.AnalysisResult:
		return v, nil
	case *types.AnalysisResult:
		if v != nil {
			return *v, nil
		}
	}
	return types.AnalysisResult{}, fmt.Errorf("expected AnalysisResult, got %T", data)
}

func asSkillsOutput(data any) (types.SkillsOutput, error) {
	switch v := data.(type) {
	case types.SkillsOutput:
		return v, nil
	case *types.SkillsOutput:
		if v != nil {
			return *v, nil
		}
	}
	return types.SkillsOutput{}, fmt.Errorf("expected SkillsOutput, got %T", data)
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

// AnalysisTextFormatter handles text formatting for analysis results
type AnalysisTextFormatter struct{}

func (atf *AnalysisTextFormatter) Format(data any) (string, error) {
	result, err := asAnalysisResult(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("=== MATCH SCORE ===\n")
	output.WriteString(fmt.Sprintf("Position: %s\n", result.JobTitle))
	output.WriteString(fmt.Sprintf("Score: %.2f/100\n\n", result.Score))

	output.WriteString("=== BREAKDOWN ===\n")
	output.WriteString(fmt.Sprintf("Skill match:         %6.2f / 50\n", result.Breakdown.SkillMatch))
	output.WriteString(fmt.Sprintf("Semantic similarity: %6.2f / 30\n", result.Breakdown.SemanticSimilarity))
	output.WriteString(fmt.Sprintf("ATS optimization:    %6.2f / 20\n\n", result.Breakdown.ATSOptimization))

	output.WriteString("=== SKILLS ===\n")
	output.WriteString("Matched: " + listOrNone(result.MatchedSkills) + "\n")
	output.WriteString("Missing (high priority): " + listOrNone(result.MissingSkills.HighPriority) + "\n")
	output.WriteString("Missing (medium priority): " + listOrNone(result.MissingSkills.MediumPriority) + "\n\n")

	if len(result.WeakRequirements) > 0 {
		output.WriteString("=== WEAK REQUIREMENTS ===\n")
		for _, req := range result.WeakRequirements {
			output.WriteString("- " + req + "\n")
		}
		output.WriteString("\n")
	}

	if len(result.Evidence) > 0 {
		output.WriteString("=== EVIDENCE ===\n")
		if result.CrossEncoderUsed {
			output.WriteString("(re-ranked with cross-encoder)\n")
		}
		for i, ev := range result.Evidence {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, ev.JobSentence))
			output.WriteString(fmt.Sprintf("   -> %s (%.2f)\n", ev.ResumeSentence, ev.Similarity))
		}
		output.WriteString("\n")
	}

	output.WriteString("=== SUGGESTIONS ===\n")
	for i, s := range result.Suggestions {
		output.WriteString(fmt.Sprintf("%d. %s\n", i+1, s))
	}

	return output.String(), nil
}

func (atf *AnalysisTextFormatter) SupportedType() string {
	return "AnalysisResult"
}

// AnalysisMarkdownFormatter handles markdown formatting for analysis results
type AnalysisMarkdownFormatter struct{}

func (amf *AnalysisMarkdownFormatter) Format(data any) (string, error) {
	result, err := asAnalysisResult(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString(fmt.Sprintf("# Resume Match: %s\n\n", result.JobTitle))
	output.WriteString(fmt.Sprintf("**Score:** %.2f/100\n\n", result.Score))

	output.WriteString("## Breakdown\n\n")
	output.WriteString("| Component | Score | Max |\n|---|---:|---:|\n")
	output.WriteString(fmt.Sprintf("| Skill match | %.2f | 50 |\n", result.Breakdown.SkillMatch))
	output.WriteString(fmt.Sprintf("| Semantic similarity | %.2f | 30 |\n", result.Breakdown.SemanticSimilarity))
	output.WriteString(fmt.Sprintf("| ATS optimization | %.2f | 20 |\n\n", result.Breakdown.ATSOptimization))

	output.WriteString("## Skills\n\n")
	output.WriteString("**Matched:** " + listOrNone(result.MatchedSkills) + "\n\n")
	output.WriteString("**Missing (high priority):** " + listOrNone(result.MissingSkills.HighPriority) + "\n\n")
	output.WriteString("**Missing (medium priority):** " + listOrNone(result.MissingSkills.MediumPriority) + "\n\n")

	if len(result.WeakRequirements) > 0 {
		output.WriteString("## Weak Requirements\n\n")
		for _, req := range result.WeakRequirements {
			output.WriteString("- " + req + "\n")
		}
		output.WriteString("\n")
	}

	if len(result.Evidence) > 0 {
		output.WriteString("## Evidence\n\n")
		output.WriteString("| Job requirement | Best resume sentence | Similarity |\n|---|---|---:|\n")
		for _, ev := range result.Evidence {
			output.WriteString(fmt.Sprintf("| %s | %s | %.2f |\n",
				escapeCell(ev.JobSentence), escapeCell(ev.ResumeSentence), ev.Similarity))
		}
		output.WriteString("\n")
	}

	output.WriteString("## Suggestions\n\n")
	for _, s := range result.Suggestions {
		output.WriteString("- " + s + "\n")
	}

	return output.String(), nil
}

func (amf *AnalysisMarkdownFormatter) SupportedType() string {
	return "AnalysisResult"
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// SkillsTextFormatter handles text formatting for skill extraction
type SkillsTextFormatter struct{}

func (stf *SkillsTextFormatter) Format(data any) (string, error) {
	result, err := asSkillsOutput(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder
	output.WriteString(fmt.Sprintf("=== SKILLS (%d) ===\n", result.Count))
	for _, skill := range result.Skills {
		output.WriteString(skill + "\n")
	}
	return output.String(), nil
}

func (stf *SkillsTextFormatter) SupportedType() string {
	return "SkillsOutput"
}

// SkillsMarkdownFormatter handles markdown formatting for skill extraction
type SkillsMarkdownFormatter struct{}

func (smf *SkillsMarkdownFormatter) Format(data any) (string, error) {
	result, err := asSkillsOutput(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder
	output.WriteString(fmt.Sprintf("# Skills (%d)\n\n", result.Count))
	for _, skill := range result.Skills {
		output.WriteString("- " + skill + "\n")
	}
	return output.String(), nil
}

func (smf *SkillsMarkdownFormatter) SupportedType() string {
	return "SkillsOutput"
}

// GlobalRegistry is the default formatter registry instance
var GlobalRegistry = NewFormatterRegistry()
