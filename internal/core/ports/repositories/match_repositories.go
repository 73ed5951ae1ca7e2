package repositories

import (
	"context"

	"github.com/HireDeck/hiredeck_backend/internal/core/domain"
)

// MatchRepositoryFacade defines persistence operations for the match cache.
type MatchRepositoryFacade interface {
	// UpsertEntry inserts or overwrites the single entry for the entry's
	// (job, candidate) pair. Last writer wins; entries for different pairs
	// never conflict.
	UpsertEntry(ctx context.Context, entry domain.MatchEntry) error

	// ListEntriesByJob returns a page of entries for a job ordered by score
	// descending (candidate id as tie-break), with the next-page token, or
	// nil when the listing is exhausted.
	ListEntriesByJob(ctx context.Context, jobID string, limit int, nextToken *string) ([]domain.MatchEntry, *string, error)

	// CountEntriesByJob returns the number of cached entries for a job.
	CountEntriesByJob(ctx context.Context, jobID string) (int, error)
}

// CandidateRepositoryFacade reads the candidate pool owned by the profiles
// subsystem. Read-only from this core's perspective.
type CandidateRepositoryFacade interface {
	// ListPublished returns every published candidate profile.
	ListPublished(ctx context.Context) ([]domain.CandidateProfile, error)
}
