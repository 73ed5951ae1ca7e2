package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/HireDeck/hiredeck_backend/internal/apperrors"
	"github.com/HireDeck/hiredeck_backend/internal/core/domain"
	portsrepo "github.com/HireDeck/hiredeck_backend/internal/core/ports/repositories"
	portssvc "github.com/HireDeck/hiredeck_backend/internal/core/ports/services"
	"github.com/HireDeck/hiredeck_backend/internal/dto"
	"github.com/HireDeck/hiredeck_backend/internal/middleware"
)

// jobLifecycleService implements the publication state machine. The only
// transition with a side effect beyond the status column is Publish, which
// pairs the status change with the one-time token charge.
type jobLifecycleService struct {
	jobRepo portsrepo.JobRepositoryFacade
	ledger  portssvc.TokenLedgerSvcFacade
}

// NewJobLifecycleService creates a new job lifecycle service.
func NewJobLifecycleService(jobRepo portsrepo.JobRepositoryFacade, ledger portssvc.TokenLedgerSvcFacade) portssvc.JobLifecycleSvcFacade {
	return &jobLifecycleService{jobRepo: jobRepo, ledger: ledger}
}

var _ portssvc.JobLifecycleSvcFacade = (*jobLifecycleService)(nil)

// CreateJob persists a new posting in Draft.
func (s *jobLifecycleService) CreateJob(ctx context.Context, req dto.CreateJobRequest, userID string) (*domain.JobPosting, error) {
	if req.TokenCost < 0 {
		return nil, fmt.Errorf("%w: token cost must not be negative", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	job := domain.JobPosting{
		JobID:       uuid.NewString(),
		AccountID:   req.AccountID,
		Title:       req.Title,
		Description: req.Description,
		TokenCost:   req.TokenCost,
		Status:      domain.Draft,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.jobRepo.SaveJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Job created", slog.String("job_id", job.JobID), slog.Int64("token_cost", job.TokenCost))
	return &job, nil
}

// GetJob retrieves a posting by id.
func (s *jobLifecycleService) GetJob(ctx context.Context, jobID string) (*domain.JobPosting, error) {
	return s.jobRepo.FindJobByID(ctx, jobID)
}

// ListJobs returns the newest postings first, optionally filtered by status.
func (s *jobLifecycleService) ListJobs(ctx context.Context, status *domain.JobStatus, limit int) ([]domain.JobPosting, error) {
	if status != nil && !domain.IsValidJobStatus(*status) {
		return nil, fmt.Errorf("%w: unknown job status %q", apperrors.ErrValidation, *status)
	}
	if limit <= 0 {
		limit = 20
	}
	return s.jobRepo.ListJobs(ctx, status, limit)
}

// Publish moves a Draft or Paused job to Published, collecting the one-time
// charge first when it is still owed. The charge and the status change are
// all-or-nothing: if the status persist fails after tokens were taken, the
// debit is reversed before the error surfaces, so the system never ends up
// charged-but-unpublished. The reversal consumes the debit's idempotency
// key, which is what lets a retried publish charge for real rather than
// replay a refunded debit and publish for free.
func (s *jobLifecycleService) Publish(ctx context.Context, jobID string, userID string) (*domain.JobPosting, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	job, err := s.jobRepo.FindJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransition(job.Status, domain.Published) {
		return nil, fmt.Errorf("%w: cannot publish job %s from %s", apperrors.ErrInvalidStateTransition, jobID, job.Status)
	}

	now := time.Now().UTC()
	var debited *domain.DebitResult

	if job.NeedsPublicationCharge() {
		debited, err = s.ledger.Debit(ctx, job.AccountID, job.TokenCost, job.PublishIdempotencyKey())
		if err != nil {
			if errors.Is(err, apperrors.ErrInsufficientTokens) {
				logger.Info("Publish refused: insufficient tokens",
					slog.String("job_id", jobID),
					slog.String("account_id", job.AccountID),
					slog.Int64("token_cost", job.TokenCost),
				)
			}
			return nil, err
		}
	}

	var chargedAt *time.Time
	if job.NeedsPublicationCharge() {
		chargedAt = &now
	}

	err = s.jobRepo.UpdateStatus(ctx, jobID, []domain.JobStatus{domain.Draft, domain.Paused}, domain.Published, chargedAt, userID, now)
	if err != nil {
		// Reverse the charge, but only when this call applied it: a
		// deduplicated debit belongs to a concurrent publish that may still
		// win its own status update.
		if debited != nil && debited.Applied {
			if revErr := s.ledger.Reverse(ctx, job.AccountID, job.TokenCost, job.PublishIdempotencyKey()); revErr != nil {
				logger.Error("Failed to roll back publication charge",
					slog.String("job_id", jobID),
					slog.String("account_id", job.AccountID),
					slog.String("error", revErr.Error()),
				)
				return nil, fmt.Errorf("status update failed and charge rollback failed: %w", revErr)
			}
			logger.Warn("Publication charge rolled back after status update failure", slog.String("job_id", jobID))
		}
		return nil, err
	}

	logger.Info("Job published", slog.String("job_id", jobID))
	return s.jobRepo.FindJobByID(ctx, jobID)
}

// Pause moves a Published job to Paused. No ledger interaction.
func (s *jobLifecycleService) Pause(ctx context.Context, jobID string, userID string) (*domain.JobPosting, error) {
	return s.transition(ctx, jobID, userID, []domain.JobStatus{domain.Published}, domain.Paused)
}

// Resume moves a Paused job back to Published. ChargedAt was set by the
// original publish, so this transition never touches the ledger; that is
// the policy that prevents double billing for pause/resume cycles.
func (s *jobLifecycleService) Resume(ctx context.Context, jobID string, userID string) (*domain.JobPosting, error) {
	job, err := s.jobRepo.FindJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != domain.Paused {
		return nil, fmt.Errorf("%w: cannot resume job %s from %s", apperrors.ErrInvalidStateTransition, jobID, job.Status)
	}
	if job.NeedsPublicationCharge() {
		// A paused job was necessarily published and charged (or free);
		// anything else is data corruption worth failing loudly on.
		return nil, fmt.Errorf("%w: paused job %s has no recorded charge", apperrors.ErrValidation, jobID)
	}
	return s.transition(ctx, jobID, userID, []domain.JobStatus{domain.Paused}, domain.Published)
}

// Inactivate terminally retires a job from any non-terminal state. No
// refund is issued: tokens are consumed at publish time, not pro-rated.
func (s *jobLifecycleService) Inactivate(ctx context.Context, jobID string, userID string) (*domain.JobPosting, error) {
	return s.transition(ctx, jobID, userID, []domain.JobStatus{domain.Draft, domain.Published, domain.Paused}, domain.Inactive)
}

func (s *jobLifecycleService) transition(ctx context.Context, jobID string, userID string, from []domain.JobStatus, to domain.JobStatus) (*domain.JobPosting, error) {
	job, err := s.jobRepo.FindJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransition(job.Status, to) {
		return nil, fmt.Errorf("%w: cannot move job %s from %s to %s", apperrors.ErrInvalidStateTransition, jobID, job.Status, to)
	}

	now := time.Now().UTC()
	if err := s.jobRepo.UpdateStatus(ctx, jobID, from, to, nil, userID, now); err != nil {
		return nil, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("Job status changed",
		slog.String("job_id", jobID),
		slog.String("from", string(job.Status)),
		slog.String("to", string(to)),
	)
	return s.jobRepo.FindJobByID(ctx, jobID)
}
