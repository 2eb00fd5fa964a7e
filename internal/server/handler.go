package server

import (
	"context"
	"net/http"

	"resumatch/internal/common"
	"resumatch/internal/types"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// analyzeHandler scores a resume against a job description
func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.om.Tracer("resumatch.api").Start(r.Context(), "api.analyze")
	defer span.End()

	var req AnalyzeRequest
	if err := s.parseJSONRequest(r, &req); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("error.type", "validation"))
		writeAppError(w, "Invalid request", err)
		return
	}

	id := uuid.NewString()
	span.SetAttributes(
		attribute.String("analysis.id", id),
		attribute.Int("request.resume_length", len(req.ResumeText)),
		attribute.Int("request.job_length", len(req.JobDescription)),
	)

	if s.lexicons != nil {
		lex := s.lexicons.Load()
		if unknown := common.UnknownHints(req.Role, req.Seniority, lex.Roles(), lex.SeniorityLevels()); len(unknown) > 0 {
			s.Logger.Debug("Hints have no priority table, no boost applied", "analysis_id", id, "hints", unknown)
		}
	}

	input := types.AnalysisInput{
		ResumeText:     req.ResumeText,
		JobDescription: req.JobDescription,
		Role:           req.Role,
		Seniority:      req.Seniority,
	}

	result, err := s.om.GetMetrics().TrackAnalysis(ctx, func(ctx context.Context) (*types.AnalysisResult, error) {
		return s.analyzer.Analyze(ctx, input)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.Logger.LogError(err, "Analysis failed", "analysis_id", id)
		writeAppError(w, "Failed to analyze resume", err)
		return
	}

	result.ID = id
	span.SetAttributes(
		attribute.Float64("score", result.Score),
		attribute.Bool("cross_encoder_used", result.CrossEncoderUsed),
	)
	s.Logger.Info("Analysis completed",
		"analysis_id", id,
		"score", result.Score,
		"matched", len(result.MatchedSkills),
		"cross_encoder_used", result.CrossEncoderUsed)

	writeJSON(w, http.StatusOK, result)
}

// skillsHandler extracts the canonical skills mentioned in a text
func (s *Server) skillsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.om.Tracer("resumatch.api").Start(r.Context(), "api.skills")
	defer span.End()

	var req SkillsRequest
	if err := s.parseJSONRequest(r, &req); err != nil {
		span.RecordError(err)
		writeAppError(w, "Invalid request", err)
		return
	}

	skills := s.analyzer.ExtractSkills(req.Text)
	if skills == nil {
		skills = []string{}
	}
	s.om.GetMetrics().RecordSkillExtraction(ctx, len(skills))
	span.SetAttributes(attribute.Int("skills.count", len(skills)))

	writeJSON(w, http.StatusOK, types.SkillsOutput{
		Skills: []string(skills),
		Count:  len(skills),
	})
}
