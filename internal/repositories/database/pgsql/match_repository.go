package pgsql

import (
	"context"
	"fmt"
	"strconv"

	"github.com/HireDeck/hiredeck_backend/internal/apperrors"
	"github.com/HireDeck/hiredeck_backend/internal/core/domain"
	portsrepo "github.com/HireDeck/hiredeck_backend/internal/core/ports/repositories"
	"github.com/HireDeck/hiredeck_backend/internal/models"
	"github.com/HireDeck/hiredeck_backend/internal/utils/mapping"
	"github.com/HireDeck/hiredeck_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxMatchRepository struct {
	BaseRepository
}

// NewMatchRepository creates a new repository for match cache data.
func NewMatchRepository(pool *pgxpool.Pool) portsrepo.MatchRepositoryFacade {
	return &PgxMatchRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxMatchRepository implements portsrepo.MatchRepositoryFacade
var _ portsrepo.MatchRepositoryFacade = (*PgxMatchRepository)(nil)

// UpsertEntry writes or overwrites the entry for its (job, candidate) pair.
// The primary key on (job_id, candidate_id) makes concurrent and repeated
// writes converge on last-writer-wins without any application locking.
func (r *PgxMatchRepository) UpsertEntry(ctx context.Context, entry domain.MatchEntry) error {
	modelEntry := mapping.ToModelMatchEntry(entry)

	query := `
		INSERT INTO match_entries (job_id, candidate_id, score, strengths, gaps, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (job_id, candidate_id)
		DO UPDATE SET score = EXCLUDED.score, strengths = EXCLUDED.strengths, gaps = EXCLUDED.gaps, updated_at = EXCLUDED.updated_at;
	`
	_, err := r.Pool.Exec(ctx, query,
		modelEntry.JobID,
		modelEntry.CandidateID,
		modelEntry.Score,
		modelEntry.Strengths,
		modelEntry.Gaps,
		modelEntry.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert match entry (%s, %s): %w", modelEntry.JobID, modelEntry.CandidateID, err)
	}
	return nil
}

// ListEntriesByJob returns one page of a job's entries ordered by score
// descending, candidate id descending. The cursor is the (score, candidateID)
// pair of the last row of the previous page, encoded as an opaque token.
func (r *PgxMatchRepository) ListEntriesByJob(ctx context.Context, jobID string, limit int, nextToken *string) ([]domain.MatchEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	args := []interface{}{jobID, limit + 1}
	cursorClause := ""
	if nextToken != nil && *nextToken != "" {
		fields, err := pagination.DecodeMultiFieldToken(*nextToken)
		if err != nil || len(fields) != 2 {
			return nil, nil, fmt.Errorf("%w: malformed nextToken", apperrors.ErrValidation)
		}
		afterScore, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, nil, fmt.Errorf("%w: malformed nextToken score", apperrors.ErrValidation)
		}
		cursorClause = "AND (score, candidate_id) < ($3, $4)"
		args = append(args, afterScore, fields[1])
	}

	// Fetch one extra row to detect whether another page exists. Both sort
	// keys descend so the cursor stays a single row comparison.
	query := fmt.Sprintf(`
		SELECT job_id, candidate_id, score, strengths, gaps, updated_at
		FROM match_entries
		WHERE job_id = $1 %s
		ORDER BY score DESC, candidate_id DESC
		LIMIT $2;
	`, cursorClause)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query match entries for job %s: %w", jobID, err)
	}
	defer rows.Close()

	entries := []domain.MatchEntry{}
	for rows.Next() {
		var m models.MatchEntry
		err := rows.Scan(
			&m.JobID,
			&m.CandidateID,
			&m.Score,
			&m.Strengths,
			&m.Gaps,
			&m.UpdatedAt,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan match entry row: %w", err)
		}
		entries = append(entries, mapping.ToDomainMatchEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating match entry rows for job %s: %w", jobID, err)
	}

	var newToken *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		token := pagination.EncodeMultiFieldToken(strconv.Itoa(last.Score), last.CandidateID)
		newToken = &token
	}

	return entries, newToken, nil
}

// CountEntriesByJob returns the number of cached entries for a job.
func (r *PgxMatchRepository) CountEntriesByJob(ctx context.Context, jobID string) (int, error) {
	var count int
	err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM match_entries WHERE job_id = $1;`, jobID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count match entries for job %s: %w", jobID, err)
	}
	return count, nil
}
