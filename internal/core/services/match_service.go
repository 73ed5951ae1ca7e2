package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/HireDeck/hiredeck_backend/internal/core/domain"
	portsrepo "github.com/HireDeck/hiredeck_backend/internal/core/ports/repositories"
	portssvc "github.com/HireDeck/hiredeck_backend/internal/core/ports/services"
	"github.com/HireDeck/hiredeck_backend/internal/middleware"
)

// matchCacheService validates scoring results before they become durable.
// The cache itself is append/overwrite-only; concurrent upserts for
// different pairs never conflict and the same pair converges on the last
// writer.
type matchCacheService struct {
	matchRepo portsrepo.MatchRepositoryFacade
}

// NewMatchCacheService creates a new match cache service.
func NewMatchCacheService(matchRepo portsrepo.MatchRepositoryFacade) portssvc.MatchCacheSvcFacade {
	return &matchCacheService{matchRepo: matchRepo}
}

var _ portssvc.MatchCacheSvcFacade = (*matchCacheService)(nil)

// UpsertEntry validates and writes one scoring result. Invalid entries are
// rejected with apperrors.ErrInvalidScore and never stored, protecting
// downstream ranking consumers from malformed external output.
func (s *matchCacheService) UpsertEntry(ctx context.Context, entry domain.MatchEntry) error {
	if err := entry.Validate(); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Rejected invalid match entry",
			slog.String("job_id", entry.JobID),
			slog.String("candidate_id", entry.CandidateID),
			slog.String("error", err.Error()),
		)
		return err
	}

	if err := s.matchRepo.UpsertEntry(ctx, entry); err != nil {
		return fmt.Errorf("failed to persist match entry: %w", err)
	}
	return nil
}

// ListMatches returns one page of a job's entries, best score first.
func (s *matchCacheService) ListMatches(ctx context.Context, jobID string, limit int, nextToken *string) ([]domain.MatchEntry, *string, error) {
	return s.matchRepo.ListEntriesByJob(ctx, jobID, limit, nextToken)
}
