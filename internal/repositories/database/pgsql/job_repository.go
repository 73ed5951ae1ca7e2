package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/HireDeck/hiredeck_backend/internal/apperrors"
	"github.com/HireDeck/hiredeck_backend/internal/core/domain"
	portsrepo "github.com/HireDeck/hiredeck_backend/internal/core/ports/repositories"
	"github.com/HireDeck/hiredeck_backend/internal/models"
	"github.com/HireDeck/hiredeck_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxJobRepository struct {
	BaseRepository
}

// NewJobRepository creates a new repository for job posting data.
func NewJobRepository(pool *pgxpool.Pool) portsrepo.JobRepositoryFacade {
	return &PgxJobRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxJobRepository implements portsrepo.JobRepositoryFacade
var _ portsrepo.JobRepositoryFacade = (*PgxJobRepository)(nil)

// SaveJob inserts a new job posting.
func (r *PgxJobRepository) SaveJob(ctx context.Context, job domain.JobPosting) error {
	modelJob := mapping.ToModelJobPosting(job)

	query := `
		INSERT INTO job_postings (job_id, account_id, title, description, token_cost, status, charged_at, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelJob.JobID,
		modelJob.AccountID,
		modelJob.Title,
		modelJob.Description,
		modelJob.TokenCost,
		modelJob.Status,
		modelJob.ChargedAt,
		modelJob.CreatedAt,
		modelJob.CreatedBy,
		modelJob.LastUpdatedAt,
		modelJob.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: job with ID %s already exists", apperrors.ErrDuplicate, modelJob.JobID)
		}
		return fmt.Errorf("failed to save job %s: %w", modelJob.JobID, err)
	}
	return nil
}

// FindJobByID retrieves a job posting by its ID.
func (r *PgxJobRepository) FindJobByID(ctx context.Context, jobID string) (*domain.JobPosting, error) {
	query := `
		SELECT job_id, account_id, title, description, token_cost, status, charged_at, created_at, created_by, last_updated_at, last_updated_by
		FROM job_postings
		WHERE job_id = $1;
	`
	var modelJob models.JobPosting
	err := r.Pool.QueryRow(ctx, query, jobID).Scan(
		&modelJob.JobID,
		&modelJob.AccountID,
		&modelJob.Title,
		&modelJob.Description,
		&modelJob.TokenCost,
		&modelJob.Status,
		&modelJob.ChargedAt,
		&modelJob.CreatedAt,
		&modelJob.CreatedBy,
		&modelJob.LastUpdatedAt,
		&modelJob.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find job by ID %s: %w", jobID, err)
	}

	domainJob := mapping.ToDomainJobPosting(modelJob)
	return &domainJob, nil
}

// ListJobs returns the newest postings first, optionally filtered by status.
func (r *PgxJobRepository) ListJobs(ctx context.Context, status *domain.JobStatus, limit int) ([]domain.JobPosting, error) {
	query := `
		SELECT job_id, account_id, title, description, token_cost, status, charged_at, created_at, created_by, last_updated_at, last_updated_by
		FROM job_postings
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2;
	`
	var statusArg *string
	if status != nil {
		s := string(*status)
		statusArg = &s
	}

	rows, err := r.Pool.Query(ctx, query, statusArg, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []domain.JobPosting
	for rows.Next() {
		var modelJob models.JobPosting
		if err := rows.Scan(
			&modelJob.JobID,
			&modelJob.AccountID,
			&modelJob.Title,
			&modelJob.Description,
			&modelJob.TokenCost,
			&modelJob.Status,
			&modelJob.ChargedAt,
			&modelJob.CreatedAt,
			&modelJob.CreatedBy,
			&modelJob.LastUpdatedAt,
			&modelJob.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan job row: %w", err)
		}
		jobs = append(jobs, mapping.ToDomainJobPosting(modelJob))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate job rows: %w", err)
	}
	return jobs, nil
}

// UpdateStatus performs the compare-and-set status transition. The WHERE
// clause requires the stored status to still be one of fromStatuses, so of
// two racing transitions exactly one lands. charged_at is only ever filled
// in, never overwritten: COALESCE keeps the original charge timestamp on
// resume-after-pause and on replayed publishes.
func (r *PgxJobRepository) UpdateStatus(ctx context.Context, jobID string, fromStatuses []domain.JobStatus, to domain.JobStatus, setChargedAt *time.Time, updatedBy string, now time.Time) error {
	from := make([]string, len(fromStatuses))
	for i, s := range fromStatuses {
		from[i] = string(s)
	}

	query := `
		UPDATE job_postings
		SET status = $2, charged_at = COALESCE(charged_at, $3), last_updated_at = $4, last_updated_by = $5
		WHERE job_id = $1 AND status = ANY($6);
	`
	cmdTag, err := r.Pool.Exec(ctx, query, jobID, string(to), setChargedAt, now, updatedBy, from)
	if err != nil {
		return fmt.Errorf("failed to update status for job %s: %w", jobID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		// The job is gone, or its status moved from under us.
		_, findErr := r.FindJobByID(ctx, jobID)
		if errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}
		if findErr != nil {
			return fmt.Errorf("failed to check job %s after status CAS miss: %w", jobID, findErr)
		}
		return fmt.Errorf("%w: job %s is no longer in an eligible state", apperrors.ErrInvalidStateTransition, jobID)
	}

	return nil
}
