package pgsql

import (
	portsrepo "github.com/HireDeck/hiredeck_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TokenRepo:     NewTokenRepository(dbPool),
		JobRepo:       NewJobRepository(dbPool),
		MatchRepo:     NewMatchRepository(dbPool),
		CandidateRepo: NewCandidateRepository(dbPool),
	}
}
