package domain

import (
	"fmt"
	"time"

	"github.com/HireDeck/hiredeck_backend/internal/apperrors"
)

// MatchExplanation is the structured reasoning behind a score. Both lists
// must be present (possibly empty); a nil list marks a malformed external
// response that must not reach the cache.
type MatchExplanation struct {
	Strengths []string `json:"strengths"`
	Gaps      []string `json:"gaps"`
}

// MatchEntry is one cached scoring result, unique per (job, candidate).
// Entries are only ever created or overwritten; staleness is resolved by
// re-running the batch, never by deletion.
type MatchEntry struct {
	JobID       string           `json:"jobID"`
	CandidateID string           `json:"candidateID"`
	Score       int              `json:"score"` // [0,100]
	Explanation MatchExplanation `json:"explanation"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// Validate rejects entries that would poison downstream ranking consumers.
func (e *MatchEntry) Validate() error {
	if e.Score < 0 || e.Score > 100 {
		return fmt.Errorf("%w: score %d is outside [0,100]", apperrors.ErrInvalidScore, e.Score)
	}
	if e.Explanation.Strengths == nil || e.Explanation.Gaps == nil {
		return fmt.Errorf("%w: explanation is structurally incomplete", apperrors.ErrInvalidScore)
	}
	return nil
}

// MatchRunSummary is the outcome of one batch-matching run for a job.
// Failures are accumulated here rather than raised per candidate.
type MatchRunSummary struct {
	JobID                string `json:"jobID"`
	CandidatesConsidered int    `json:"candidatesConsidered"`
	CandidatesScored     int    `json:"candidatesScored"`
	CandidatesFailed     int    `json:"candidatesFailed"`
}
