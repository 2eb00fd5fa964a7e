package types

// AnalysisInput is the pair of documents to compare plus optional hints
// used to boost skills that matter for the target position.
type AnalysisInput struct {
	ResumeText     string `json:"resumeText"`
	JobDescription string `json:"jobDescription"`
	Role           string `json:"role,omitempty"`
	Seniority      string `json:"seniority,omitempty"`
}

// ScoreBreakdown holds the three sub-scores. They sum to AnalysisResult.Score.
type ScoreBreakdown struct {
	SkillMatch         float64 `json:"skill_match"`         // 0-50
	SemanticSimilarity float64 `json:"semantic_similarity"` // 0-30
	ATSOptimization    float64 `json:"ats_optimization"`    // 0-20
}

// Total returns the sum of the sub-scores.
func (b ScoreBreakdown) Total() float64 {
	return b.SkillMatch + b.SemanticSimilarity + b.ATSOptimization
}

// MissingSkills groups unmatched job skills by how prominent they are in the job text.
type MissingSkills struct {
	HighPriority   []string `json:"high_priority"`
	MediumPriority []string `json:"medium_priority"`
}

// Evidence links a job sentence to the resume sentence that best supports it.
type Evidence struct {
	JobSentence    string  `json:"job_sentence"`
	ResumeSentence string  `json:"resume_sentence"`
	Similarity     float64 `json:"similarity"`
}

// AnalysisResult is the engine's full answer for one resume/job pair.
type AnalysisResult struct {
	ID               string         `json:"id,omitempty"`
	Score            float64        `json:"score"`
	Breakdown        ScoreBreakdown `json:"breakdown"`
	MatchedSkills    []string       `json:"matched_skills"`
	MissingSkills    MissingSkills  `json:"missing_skills"`
	Suggestions      []string       `json:"suggestions"`
	WeakRequirements []string       `json:"weak_requirements"`
	Evidence         []Evidence     `json:"evidence"`
	ResumePreview    string         `json:"resume_preview,omitempty"`
	JobTitle         string         `json:"job_title,omitempty"`
	CrossEncoderUsed bool           `json:"cross_encoder_used"`
}

// SkillsInput is the input for skill extraction only.
type SkillsInput struct {
	Text string `json:"text"`
}

// SkillsOutput lists the canonical skills found in a text.
type SkillsOutput struct {
	Skills []string `json:"skills"`
	Count  int      `json:"count"`
}
