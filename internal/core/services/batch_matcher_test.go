package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/HireDeck/hiredeck_backend/internal/apperrors"
	"github.com/HireDeck/hiredeck_backend/internal/core/domain"
	portsrepo "github.com/HireDeck/hiredeck_backend/internal/core/ports/repositories"
	portssvc "github.com/HireDeck/hiredeck_backend/internal/core/ports/services"
	"github.com/HireDeck/hiredeck_backend/internal/core/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock CandidateRepository ---
type MockCandidateRepository struct {
	mock.Mock
}

var _ portsrepo.CandidateRepositoryFacade = (*MockCandidateRepository)(nil)

func (m *MockCandidateRepository) ListPublished(ctx context.Context) ([]domain.CandidateProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CandidateProfile), args.Error(1)
}

// --- In-memory match repository ---
// Upserts arrive concurrently from batch goroutines, so the fake has to be
// thread safe; a testify mock would force brittle per-candidate expectations.
type memMatchRepository struct {
	mu      sync.Mutex
	entries map[string]domain.MatchEntry // keyed by candidate id
}

var _ portsrepo.MatchRepositoryFacade = (*memMatchRepository)(nil)

func newMemMatchRepository() *memMatchRepository {
	return &memMatchRepository{entries: make(map[string]domain.MatchEntry)}
}

func (r *memMatchRepository) UpsertEntry(ctx context.Context, entry domain.MatchEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[entry.CandidateID] = entry
	return nil
}

func (r *memMatchRepository) ListEntriesByJob(ctx context.Context, jobID string, limit int, nextToken *string) ([]domain.MatchEntry, *string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.MatchEntry
	for _, e := range r.entries {
		if e.JobID == jobID {
			out = append(out, e)
		}
	}
	return out, nil, nil
}

func (r *memMatchRepository) CountEntriesByJob(ctx context.Context, jobID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries), nil
}

func (r *memMatchRepository) get(candidateID string) (domain.MatchEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[candidateID]
	return e, ok
}

// --- Stub scorer ---
type stubScorer struct {
	mu        sync.Mutex
	calls     int
	scoreFunc func(candidate *domain.CandidateProfile) (*domain.MatchEntry, error)
}

var _ portssvc.MatchScorer = (*stubScorer)(nil)

func (s *stubScorer) ScoreMatch(ctx context.Context, job *domain.JobPosting, candidate *domain.CandidateProfile) (*domain.MatchEntry, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.scoreFunc(candidate)
}

func (s *stubScorer) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func okEntry(score int) *domain.MatchEntry {
	return &domain.MatchEntry{
		Score: score,
		Explanation: domain.MatchExplanation{
			Strengths: []string{"relevant experience"},
			Gaps:      []string{},
		},
	}
}

// --- Test Suite Setup ---
type BatchMatchServiceTestSuite struct {
	suite.Suite
	mockJobRepo       *MockJobRepository
	mockCandidateRepo *MockCandidateRepository
	matchRepo         *memMatchRepository
	scorer            *stubScorer
	sleeps            []time.Duration
	job               domain.JobPosting
}

func (suite *BatchMatchServiceTestSuite) SetupTest() {
	suite.mockJobRepo = new(MockJobRepository)
	suite.mockCandidateRepo = new(MockCandidateRepository)
	suite.matchRepo = newMemMatchRepository()
	suite.scorer = &stubScorer{scoreFunc: func(*domain.CandidateProfile) (*domain.MatchEntry, error) {
		return okEntry(75), nil
	}}
	suite.sleeps = nil

	chargedAt := time.Now().UTC()
	suite.job = domain.JobPosting{
		JobID:     uuid.NewString(),
		AccountID: uuid.NewString(),
		Title:     "Platform Engineer",
		TokenCost: 5,
		Status:    domain.Published,
		ChargedAt: &chargedAt,
	}
}

func (suite *BatchMatchServiceTestSuite) newService(opts ...services.BatchMatchOption) portssvc.BatchMatchSvcFacade {
	base := []services.BatchMatchOption{
		services.WithSleeper(func(ctx context.Context, d time.Duration) {
			suite.sleeps = append(suite.sleeps, d)
		}),
	}
	return services.NewBatchMatchService(
		suite.mockJobRepo,
		suite.mockCandidateRepo,
		services.NewMatchCacheService(suite.matchRepo),
		suite.scorer,
		append(base, opts...)...,
	)
}

func (suite *BatchMatchServiceTestSuite) candidatePool(n int) []domain.CandidateProfile {
	pool := make([]domain.CandidateProfile, n)
	for i := range pool {
		pool[i] = domain.CandidateProfile{
			CandidateID: fmt.Sprintf("cand-%02d", i),
			FullName:    fmt.Sprintf("Candidate %d", i),
			IsPublished: true,
		}
	}
	return pool
}

// --- Test Cases ---

func (suite *BatchMatchServiceTestSuite) TestRunForJob_BatchesScoresAndCounts() {
	ctx := context.Background()
	pool := suite.candidatePool(23)

	failing := map[string]bool{"cand-03": true, "cand-07": true, "cand-12": true, "cand-21": true}
	suite.scorer.scoreFunc = func(c *domain.CandidateProfile) (*domain.MatchEntry, error) {
		if failing[c.CandidateID] {
			return nil, apperrors.ErrScoringUnavailable
		}
		return okEntry(75), nil
	}

	suite.mockJobRepo.On("FindJobByID", ctx, suite.job.JobID).Return(&suite.job, nil).Once()
	suite.mockCandidateRepo.On("ListPublished", ctx).Return(pool, nil).Once()

	svc := suite.newService(services.WithBatchSize(10), services.WithInterBatchDelay(50*time.Millisecond))
	summary, err := svc.RunForJob(ctx, suite.job.JobID)

	suite.Require().NoError(err)
	suite.Equal(23, summary.CandidatesConsidered)
	suite.Equal(19, summary.CandidatesScored)
	suite.Equal(4, summary.CandidatesFailed)
	suite.Equal(23, suite.scorer.callCount())

	// 23 candidates in batches of 10 means two pauses, not three.
	suite.Len(suite.sleeps, 2)
	suite.Equal(50*time.Millisecond, suite.sleeps[0])

	count, _ := suite.matchRepo.CountEntriesByJob(ctx, suite.job.JobID)
	suite.Equal(19, count)
	_, cached := suite.matchRepo.get("cand-03")
	suite.False(cached)

	entry, ok := suite.matchRepo.get("cand-00")
	suite.Require().True(ok)
	suite.Equal(suite.job.JobID, entry.JobID)
	suite.Equal("cand-00", entry.CandidateID)
	suite.False(entry.UpdatedAt.IsZero())
}

func (suite *BatchMatchServiceTestSuite) TestRunForJob_RerunOverwrites() {
	ctx := context.Background()
	pool := suite.candidatePool(3)

	suite.mockJobRepo.On("FindJobByID", ctx, suite.job.JobID).Return(&suite.job, nil).Twice()
	suite.mockCandidateRepo.On("ListPublished", ctx).Return(pool, nil).Twice()

	svc := suite.newService(services.WithBatchSize(10))

	suite.scorer.scoreFunc = func(*domain.CandidateProfile) (*domain.MatchEntry, error) { return okEntry(40), nil }
	_, err := svc.RunForJob(ctx, suite.job.JobID)
	suite.Require().NoError(err)

	suite.scorer.scoreFunc = func(*domain.CandidateProfile) (*domain.MatchEntry, error) { return okEntry(90), nil }
	summary, err := svc.RunForJob(ctx, suite.job.JobID)
	suite.Require().NoError(err)
	suite.Equal(3, summary.CandidatesScored)

	count, _ := suite.matchRepo.CountEntriesByJob(ctx, suite.job.JobID)
	suite.Equal(3, count)
	entry, ok := suite.matchRepo.get("cand-01")
	suite.Require().True(ok)
	suite.Equal(90, entry.Score)
}

func (suite *BatchMatchServiceTestSuite) TestRunForJob_EmptyPool() {
	ctx := context.Background()

	suite.mockJobRepo.On("FindJobByID", ctx, suite.job.JobID).Return(&suite.job, nil).Once()
	suite.mockCandidateRepo.On("ListPublished", ctx).Return([]domain.CandidateProfile{}, nil).Once()

	svc := suite.newService()
	summary, err := svc.RunForJob(ctx, suite.job.JobID)

	suite.Require().NoError(err)
	suite.Equal(0, summary.CandidatesConsidered)
	suite.Equal(0, summary.CandidatesScored)
	suite.Equal(0, summary.CandidatesFailed)
	suite.Empty(suite.sleeps)
	suite.Equal(0, suite.scorer.callCount())
}

func (suite *BatchMatchServiceTestSuite) TestRunForJob_JobNotFound() {
	ctx := context.Background()
	jobID := uuid.NewString()

	suite.mockJobRepo.On("FindJobByID", ctx, jobID).Return(nil, apperrors.ErrNotFound).Once()

	svc := suite.newService()
	summary, err := svc.RunForJob(ctx, jobID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(summary)
	suite.mockCandidateRepo.AssertNotCalled(suite.T(), "ListPublished", mock.Anything)
}

func (suite *BatchMatchServiceTestSuite) TestRunForJob_InvalidScoreIsPerCandidateFailure() {
	ctx := context.Background()
	pool := suite.candidatePool(2)

	// A score outside [0, 100] is rejected by the cache, not stored.
	suite.scorer.scoreFunc = func(c *domain.CandidateProfile) (*domain.MatchEntry, error) {
		if c.CandidateID == "cand-01" {
			return okEntry(250), nil
		}
		return okEntry(60), nil
	}

	suite.mockJobRepo.On("FindJobByID", ctx, suite.job.JobID).Return(&suite.job, nil).Once()
	suite.mockCandidateRepo.On("ListPublished", ctx).Return(pool, nil).Once()

	svc := suite.newService()
	summary, err := svc.RunForJob(ctx, suite.job.JobID)

	suite.Require().NoError(err)
	suite.Equal(1, summary.CandidatesScored)
	suite.Equal(1, summary.CandidatesFailed)
	count, _ := suite.matchRepo.CountEntriesByJob(ctx, suite.job.JobID)
	suite.Equal(1, count)
}

func (suite *BatchMatchServiceTestSuite) TestRunForJob_CancelledMidRun() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool := suite.candidatePool(15)

	suite.mockJobRepo.On("FindJobByID", ctx, suite.job.JobID).Return(&suite.job, nil).Once()
	suite.mockCandidateRepo.On("ListPublished", ctx).Return(pool, nil).Once()

	svc := services.NewBatchMatchService(
		suite.mockJobRepo,
		suite.mockCandidateRepo,
		services.NewMatchCacheService(suite.matchRepo),
		suite.scorer,
		services.WithBatchSize(10),
		services.WithSleeper(func(context.Context, time.Duration) { cancel() }),
	)

	summary, err := svc.RunForJob(ctx, suite.job.JobID)

	suite.Require().Error(err)
	suite.ErrorIs(err, context.Canceled)
	suite.Require().NotNil(summary)
	suite.Equal(15, summary.CandidatesConsidered)
	// Everything written before the cancellation stays cached.
	suite.GreaterOrEqual(summary.CandidatesScored, 10)
}

func TestBatchMatchServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BatchMatchServiceTestSuite))
}
