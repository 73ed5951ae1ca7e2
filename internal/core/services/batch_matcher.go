package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/HireDeck/hiredeck_backend/internal/core/domain"
	portsrepo "github.com/HireDeck/hiredeck_backend/internal/core/ports/repositories"
	portssvc "github.com/HireDeck/hiredeck_backend/internal/core/ports/services"
	"github.com/HireDeck/hiredeck_backend/internal/middleware"
)

const (
	defaultBatchSize       = 10
	defaultInterBatchDelay = 2 * time.Second
	defaultScoreTimeout    = 30 * time.Second
)

// Sleeper pauses between batches. Injectable so tests run without real time
// passing; the default honors context cancellation.
type Sleeper func(ctx context.Context, d time.Duration)

func defaultSleeper(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// batchMatchService scores a job against the whole eligible candidate pool:
// fixed-size batches processed sequentially, candidates within a batch
// scored concurrently, every success written through to the cache as it
// completes. A crash mid-run loses nothing already written; re-running
// simply overwrites entries with fresher scores.
type batchMatchService struct {
	jobRepo       portsrepo.JobRepositoryFacade
	candidateRepo portsrepo.CandidateRepositoryFacade
	cache         portssvc.MatchCacheSvcFacade
	scorer        portssvc.MatchScorer

	batchSize       int
	interBatchDelay time.Duration
	scoreTimeout    time.Duration
	sleep           Sleeper
}

// BatchMatchOption customizes the orchestrator.
type BatchMatchOption func(*batchMatchService)

// WithBatchSize sets the batch size, which also bounds in-flight concurrency.
func WithBatchSize(n int) BatchMatchOption {
	return func(s *batchMatchService) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithInterBatchDelay sets the pause between batches, respecting the
// external capability's rate limits.
func WithInterBatchDelay(d time.Duration) BatchMatchOption {
	return func(s *batchMatchService) {
		if d >= 0 {
			s.interBatchDelay = d
		}
	}
}

// WithScoreTimeout bounds each individual scoring call.
func WithScoreTimeout(d time.Duration) BatchMatchOption {
	return func(s *batchMatchService) {
		if d > 0 {
			s.scoreTimeout = d
		}
	}
}

// WithSleeper replaces the inter-batch delay implementation.
func WithSleeper(sleep Sleeper) BatchMatchOption {
	return func(s *batchMatchService) {
		if sleep != nil {
			s.sleep = sleep
		}
	}
}

// NewBatchMatchService creates a new batch match orchestrator.
func NewBatchMatchService(
	jobRepo portsrepo.JobRepositoryFacade,
	candidateRepo portsrepo.CandidateRepositoryFacade,
	cache portssvc.MatchCacheSvcFacade,
	scorer portssvc.MatchScorer,
	opts ...BatchMatchOption,
) portssvc.BatchMatchSvcFacade {
	s := &batchMatchService{
		jobRepo:         jobRepo,
		candidateRepo:   candidateRepo,
		cache:           cache,
		scorer:          scorer,
		batchSize:       defaultBatchSize,
		interBatchDelay: defaultInterBatchDelay,
		scoreTimeout:    defaultScoreTimeout,
		sleep:           defaultSleeper,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.BatchMatchSvcFacade = (*batchMatchService)(nil)

// RunForJob scores every eligible candidate against the job. Per-candidate
// failures are logged, counted and skipped; they never abort the batch or
// the run. On cancellation the partial summary is returned alongside the
// context error; all entries written so far stay valid.
func (s *batchMatchService) RunForJob(ctx context.Context, jobID string) (*domain.MatchRunSummary, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	job, err := s.jobRepo.FindJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	pool, err := s.candidateRepo.ListPublished(ctx)
	if err != nil {
		return nil, err
	}

	summary := &domain.MatchRunSummary{
		JobID:                jobID,
		CandidatesConsidered: len(pool),
	}

	logger.Info("Batch match run started",
		slog.String("job_id", jobID),
		slog.Int("pool_size", len(pool)),
		slog.Int("batch_size", s.batchSize),
	)

	for start := 0; start < len(pool); start += s.batchSize {
		end := start + s.batchSize
		if end > len(pool) {
			end = len(pool)
		}

		scored, failed := s.runBatch(ctx, job, pool[start:end])
		summary.CandidatesScored += scored
		summary.CandidatesFailed += failed

		if ctx.Err() != nil {
			logger.Warn("Batch match run cancelled", slog.String("job_id", jobID), slog.Int("scored_so_far", summary.CandidatesScored))
			return summary, ctx.Err()
		}

		if end < len(pool) {
			s.sleep(ctx, s.interBatchDelay)
		}
	}

	if summary.CandidatesConsidered > 0 && summary.CandidatesFailed == summary.CandidatesConsidered {
		// Smells like a scoring outage rather than bad candidates. The run
		// still completes; there is no agreed policy threshold for aborting
		// early.
		logger.Warn("Every candidate in the run failed scoring", slog.String("job_id", jobID))
	}

	logger.Info("Batch match run finished",
		slog.String("job_id", jobID),
		slog.Int("considered", summary.CandidatesConsidered),
		slog.Int("scored", summary.CandidatesScored),
		slog.Int("failed", summary.CandidatesFailed),
	)
	return summary, nil
}

// runBatch issues all scoring calls of one batch concurrently; the batch
// size is the in-flight concurrency bound. Each success is written through
// immediately so that partial progress is durable.
func (s *batchMatchService) runBatch(ctx context.Context, job *domain.JobPosting, batch []domain.CandidateProfile) (scored, failed int) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var wg sync.WaitGroup
	var mu sync.Mutex

	for i := range batch {
		candidate := batch[i]
		wg.Add(1)
		go func() {
			defer wg.Done()

			callCtx, cancel := context.WithTimeout(ctx, s.scoreTimeout)
			defer cancel()

			entry, err := s.scorer.ScoreMatch(callCtx, job, &candidate)
			if err != nil {
				logger.Warn("Candidate scoring failed",
					slog.String("job_id", job.JobID),
					slog.String("candidate_id", candidate.CandidateID),
					slog.String("error", err.Error()),
				)
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}

			entry.JobID = job.JobID
			entry.CandidateID = candidate.CandidateID
			entry.UpdatedAt = time.Now().UTC()

			// Write-through on success; a malformed result is a
			// per-candidate failure like any other.
			if err := s.cache.UpsertEntry(ctx, *entry); err != nil {
				logger.Warn("Failed to cache match result",
					slog.String("job_id", job.JobID),
					slog.String("candidate_id", candidate.CandidateID),
					slog.String("error", err.Error()),
				)
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}

			mu.Lock()
			scored++
			mu.Unlock()
		}()
	}

	wg.Wait()
	return scored, failed
}
