package services

import (
	"context"

	"github.com/HireDeck/hiredeck_backend/internal/core/domain"
	"github.com/HireDeck/hiredeck_backend/internal/dto"
)

// JobLifecycleSvcFacade governs job postings and their publication state
// machine. Transitions not present in the lifecycle table fail with
// apperrors.ErrInvalidStateTransition and have no side effect.
type JobLifecycleSvcFacade interface {
	// CreateJob persists a new posting in Draft.
	CreateJob(ctx context.Context, req dto.CreateJobRequest, userID string) (*domain.JobPosting, error)

	// GetJob retrieves a posting by id.
	GetJob(ctx context.Context, jobID string) (*domain.JobPosting, error)

	// ListJobs returns the newest postings first, optionally filtered by
	// lifecycle status.
	ListJobs(ctx context.Context, status *domain.JobStatus, limit int) ([]domain.JobPosting, error)

	// Publish moves a Draft or Paused job to Published, collecting the
	// one-time token charge if it has not been collected yet. The charge and
	// the status change are all-or-nothing: a failed status persist rolls
	// the debit back before the error is returned.
	Publish(ctx context.Context, jobID string, userID string) (*domain.JobPosting, error)

	// Pause moves a Published job to Paused. No ledger interaction.
	Pause(ctx context.Context, jobID string, userID string) (*domain.JobPosting, error)

	// Resume moves a Paused job back to Published without a new charge.
	Resume(ctx context.Context, jobID string, userID string) (*domain.JobPosting, error)

	// Inactivate terminally retires a job from any non-terminal state.
	// Tokens are consumed at publish time; no refund is issued.
	Inactivate(ctx context.Context, jobID string, userID string) (*domain.JobPosting, error)
}
