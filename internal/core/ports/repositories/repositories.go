package repositories

// RepositoryProvider bundles every repository implementation for injection
// into the service container.
type RepositoryProvider struct {
	TokenRepo     TokenRepositoryFacade
	JobRepo       JobRepositoryFacade
	MatchRepo     MatchRepositoryFacade
	CandidateRepo CandidateRepositoryFacade
}
