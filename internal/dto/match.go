package dto

import (
	"time"

	"github.com/HireDeck/hiredeck_backend/internal/core/domain"
)

// ListMatchesRequest captures the query parameters of the match listing.
type ListMatchesRequest struct {
	Limit     int     `form:"limit" binding:"omitempty,gt=0,lte=100"`
	NextToken *string `form:"nextToken"`
}

// MatchEntryResponse mirrors domain.MatchEntry for ranking consumers.
type MatchEntryResponse struct {
	CandidateID string    `json:"candidateID"`
	Score       int       `json:"score"`
	Strengths   []string  `json:"strengths"`
	Gaps        []string  `json:"gaps"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ListMatchesResponse is one page of a job's ranked matches.
type ListMatchesResponse struct {
	JobID     string               `json:"jobID"`
	Matches   []MatchEntryResponse `json:"matches"`
	NextToken *string              `json:"nextToken,omitempty"`
}

// MatchRunSummaryResponse mirrors domain.MatchRunSummary.
type MatchRunSummaryResponse struct {
	JobID                string `json:"jobID"`
	CandidatesConsidered int    `json:"candidatesConsidered"`
	CandidatesScored     int    `json:"candidatesScored"`
	CandidatesFailed     int    `json:"candidatesFailed"`
}

// ToListMatchesResponse converts a page of match entries to its DTO.
func ToListMatchesResponse(jobID string, entries []domain.MatchEntry, nextToken *string) ListMatchesResponse {
	matches := make([]MatchEntryResponse, len(entries))
	for i, e := range entries {
		matches[i] = MatchEntryResponse{
			CandidateID: e.CandidateID,
			Score:       e.Score,
			Strengths:   e.Explanation.Strengths,
			Gaps:        e.Explanation.Gaps,
			UpdatedAt:   e.UpdatedAt,
		}
	}
	return ListMatchesResponse{JobID: jobID, Matches: matches, NextToken: nextToken}
}

// ToMatchRunSummaryResponse converts a run summary to its DTO.
func ToMatchRunSummaryResponse(s *domain.MatchRunSummary) MatchRunSummaryResponse {
	return MatchRunSummaryResponse{
		JobID:                s.JobID,
		CandidatesConsidered: s.CandidatesConsidered,
		CandidatesScored:     s.CandidatesScored,
		CandidatesFailed:     s.CandidatesFailed,
	}
}
