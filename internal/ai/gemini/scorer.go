package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	_ "embed"

	"github.com/HireDeck/hiredeck_backend/internal/apperrors"
	"github.com/HireDeck/hiredeck_backend/internal/core/domain"
	portssvc "github.com/HireDeck/hiredeck_backend/internal/core/ports/services"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

//go:embed prompt.md
var promptTemplate string

// Scorer implements the match scoring port on top of Gemini. Transport
// failures map to ErrScoringUnavailable; anything unparseable or out of
// range maps to ErrInvalidResponse. Both are per-candidate outcomes for the
// orchestrator, never run-level failures.
type Scorer struct {
	generator contentGenerator
}

// NewScorer creates a Scorer backed by the given generator.
func NewScorer(generator contentGenerator) *Scorer {
	return &Scorer{generator: generator}
}

var _ portssvc.MatchScorer = (*Scorer)(nil)

// ScoreMatch evaluates one candidate against one job.
func (s *Scorer) ScoreMatch(ctx context.Context, job *domain.JobPosting, candidate *domain.CandidateProfile) (*domain.MatchEntry, error) {
	if job == nil {
		return nil, fmt.Errorf("%w: job is required", apperrors.ErrValidation)
	}
	if candidate == nil {
		return nil, fmt.Errorf("%w: candidate is required", apperrors.ErrValidation)
	}

	jobPayload := map[string]any{
		"title":       job.Title,
		"description": job.Description,
	}
	jobJSON, err := json.MarshalIndent(jobPayload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal job payload: %w", err)
	}

	candidatePayload := map[string]any{
		"fullName":        candidate.FullName,
		"headline":        candidate.Headline,
		"skills":          candidate.Skills,
		"experienceYears": candidate.ExperienceYears,
		"summary":         candidate.Summary,
	}
	candidateJSON, err := json.MarshalIndent(candidatePayload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal candidate payload: %w", err)
	}

	prompt := buildPrompt(string(jobJSON), string(candidateJSON))

	raw, err := s.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrScoringUnavailable, err)
	}

	entry, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	entry.JobID = job.JobID
	entry.CandidateID = candidate.CandidateID
	return entry, nil
}

func buildPrompt(jobJSON, candidateJSON string) string {
	prompt := strings.ReplaceAll(promptTemplate, "{{JOB_JSON}}", jobJSON)
	prompt = strings.ReplaceAll(prompt, "{{CANDIDATE_JSON}}", candidateJSON)
	return prompt
}

type scoreResponse struct {
	Score     *int     `json:"score"`
	Strengths []string `json:"strengths"`
	Gaps      []string `json:"gaps"`
}

func parseResponse(raw string) (*domain.MatchEntry, error) {
	cleaned := extractJSON(strings.TrimSpace(raw))

	var data scoreResponse
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("%w: parse gemini response: %v", apperrors.ErrInvalidResponse, err)
	}

	if data.Score == nil {
		return nil, fmt.Errorf("%w: response carries no score", apperrors.ErrInvalidResponse)
	}
	if *data.Score < 0 || *data.Score > 100 {
		return nil, fmt.Errorf("%w: score %d is outside [0,100]", apperrors.ErrInvalidResponse, *data.Score)
	}

	// The model may legitimately find nothing to list; normalize absent
	// lists to empty so the cache's structural validation passes.
	if data.Strengths == nil {
		data.Strengths = []string{}
	}
	if data.Gaps == nil {
		data.Gaps = []string{}
	}

	return &domain.MatchEntry{
		Score: *data.Score,
		Explanation: domain.MatchExplanation{
			Strengths: data.Strengths,
			Gaps:      data.Gaps,
		},
	}, nil
}

// extractJSON strips surrounding prose or markdown fences the model may add
// despite instructions.
func extractJSON(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return raw
	}
	return raw[start : end+1]
}
