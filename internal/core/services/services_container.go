package services

import (
	portsrepo "github.com/HireDeck/hiredeck_backend/internal/core/ports/repositories"
	portssvc "github.com/HireDeck/hiredeck_backend/internal/core/ports/services"
	"github.com/HireDeck/hiredeck_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, scorer portssvc.MatchScorer) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The ledger comes first; the job lifecycle charges through it.
	container.TokenLedger = NewTokenLedgerService(repos.TokenRepo)
	container.Job = NewJobLifecycleService(repos.JobRepo, container.TokenLedger)
	container.MatchCache = NewMatchCacheService(repos.MatchRepo)
	container.BatchMatch = NewBatchMatchService(
		repos.JobRepo,
		repos.CandidateRepo,
		container.MatchCache,
		scorer,
		WithBatchSize(cfg.MatchBatchSize),
		WithInterBatchDelay(cfg.MatchInterBatchDelay),
		WithScoreTimeout(cfg.MatchScoreTimeout),
	)

	return container
}
