package pgsql

import (
	"context"
	"fmt"

	"github.com/HireDeck/hiredeck_backend/internal/core/domain"
	portsrepo "github.com/HireDeck/hiredeck_backend/internal/core/ports/repositories"
	"github.com/HireDeck/hiredeck_backend/internal/models"
	"github.com/HireDeck/hiredeck_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxCandidateRepository reads the candidate pool owned by the profiles
// subsystem. This core never writes these rows.
type PgxCandidateRepository struct {
	BaseRepository
}

// NewCandidateRepository creates a read-only repository over candidate profiles.
func NewCandidateRepository(pool *pgxpool.Pool) portsrepo.CandidateRepositoryFacade {
	return &PgxCandidateRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CandidateRepositoryFacade = (*PgxCandidateRepository)(nil)

// ListPublished returns every published candidate profile.
func (r *PgxCandidateRepository) ListPublished(ctx context.Context) ([]domain.CandidateProfile, error) {
	query := `
		SELECT candidate_id, full_name, headline, skills, experience_years, summary, is_published
		FROM candidate_profiles
		WHERE is_published = TRUE
		ORDER BY candidate_id;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query published candidates: %w", err)
	}
	defer rows.Close()

	candidates := []domain.CandidateProfile{}
	for rows.Next() {
		var m models.CandidateProfile
		err := rows.Scan(
			&m.CandidateID,
			&m.FullName,
			&m.Headline,
			&m.Skills,
			&m.ExperienceYears,
			&m.Summary,
			&m.IsPublished,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate row: %w", err)
		}
		candidates = append(candidates, mapping.ToDomainCandidateProfile(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating candidate rows: %w", err)
	}

	return candidates, nil
}
