package services

import (
	"context"

	"github.com/HireDeck/hiredeck_backend/internal/core/domain"
)

// MatchScorer is the external scoring capability this core depends on. The
// implementation may be slow, rate limited, or transiently unavailable;
// callers bound every invocation with a context timeout and must treat
// apperrors.ErrScoringUnavailable and apperrors.ErrInvalidResponse as
// per-candidate outcomes, never run-level failures.
type MatchScorer interface {
	ScoreMatch(ctx context.Context, job *domain.JobPosting, candidate *domain.CandidateProfile) (*domain.MatchEntry, error)
}

// MatchCacheSvcFacade is the durable, idempotent store of scoring results.
type MatchCacheSvcFacade interface {
	// UpsertEntry validates and writes the entry for its (job, candidate)
	// pair, overwriting any previous result. Invalid scores or malformed
	// explanations fail with apperrors.ErrInvalidScore and are never stored.
	UpsertEntry(ctx context.Context, entry domain.MatchEntry) error

	// ListMatches returns a page of a job's entries ordered by score
	// descending, for ranking consumers.
	ListMatches(ctx context.Context, jobID string, limit int, nextToken *string) ([]domain.MatchEntry, *string, error)
}

// BatchMatchSvcFacade runs the batch scoring pipeline for a job.
type BatchMatchSvcFacade interface {
	// RunForJob scores every eligible candidate against the job in bounded
	// concurrency batches, writing each success through to the cache as it
	// completes. Per-candidate failures are accumulated into the summary.
	// Re-running for the same job overwrites prior entries.
	RunForJob(ctx context.Context, jobID string) (*domain.MatchRunSummary, error)
}
