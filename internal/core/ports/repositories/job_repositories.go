package repositories

import (
	"context"
	"time"

	"github.com/HireDeck/hiredeck_backend/internal/core/domain"
)

// JobRepositoryFacade defines persistence operations for job postings.
type JobRepositoryFacade interface {
	// SaveJob inserts a new draft job posting.
	SaveJob(ctx context.Context, job domain.JobPosting) error

	// FindJobByID retrieves a job posting by its identifier.
	FindJobByID(ctx context.Context, jobID string) (*domain.JobPosting, error)

	// ListJobs returns the newest postings first, optionally filtered by
	// lifecycle status.
	ListJobs(ctx context.Context, status *domain.JobStatus, limit int) ([]domain.JobPosting, error)

	// UpdateStatus moves a job from one of the expected statuses to the new
	// one with a compare-and-set update: the write only lands if the stored
	// status is still in fromStatuses, which serializes racing transitions
	// at the storage layer. setChargedAt stamps charged_at iff it is still
	// unset, so the publication charge timestamp is written exactly once.
	// Returns apperrors.ErrInvalidStateTransition when the CAS misses on an
	// existing job, apperrors.ErrNotFound when the job does not exist.
	UpdateStatus(ctx context.Context, jobID string, fromStatuses []domain.JobStatus, to domain.JobStatus, setChargedAt *time.Time, updatedBy string, now time.Time) error
}
