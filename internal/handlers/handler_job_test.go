package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/HireDeck/hiredeck_backend/internal/apperrors"
	"github.com/HireDeck/hiredeck_backend/internal/core/domain"
	portssvc "github.com/HireDeck/hiredeck_backend/internal/core/ports/services"
	"github.com/HireDeck/hiredeck_backend/internal/dto"
	"github.com/HireDeck/hiredeck_backend/internal/handlers"
	"github.com/HireDeck/hiredeck_backend/internal/middleware"
	"github.com/HireDeck/hiredeck_backend/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock TokenLedgerService ---
type MockTokenLedgerService struct {
	mock.Mock
}

var _ portssvc.TokenLedgerSvcFacade = (*MockTokenLedgerService)(nil)

func (m *MockTokenLedgerService) GetAccount(ctx context.Context, accountID string) (*domain.TokenAccount, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TokenAccount), args.Error(1)
}

func (m *MockTokenLedgerService) ListEntries(ctx context.Context, accountID string, limit int) ([]domain.TokenEntry, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TokenEntry), args.Error(1)
}

func (m *MockTokenLedgerService) CreateAccount(ctx context.Context, req dto.CreateTokenAccountRequest, userID string) (*domain.TokenAccount, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TokenAccount), args.Error(1)
}

func (m *MockTokenLedgerService) Debit(ctx context.Context, accountID string, amount int64, idempotencyKey string) (*domain.DebitResult, error) {
	args := m.Called(ctx, accountID, amount, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DebitResult), args.Error(1)
}

func (m *MockTokenLedgerService) Credit(ctx context.Context, accountID string, amount int64, idempotencyKey string) (*domain.DebitResult, error) {
	args := m.Called(ctx, accountID, amount, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DebitResult), args.Error(1)
}

func (m *MockTokenLedgerService) Reverse(ctx context.Context, accountID string, amount int64, idempotencyKey string) error {
	args := m.Called(ctx, accountID, amount, idempotencyKey)
	return args.Error(0)
}

func (m *MockTokenLedgerService) Purchase(ctx context.Context, accountID string, req dto.PurchaseTokensRequest, userID string) (*domain.TokenPurchase, error) {
	args := m.Called(ctx, accountID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TokenPurchase), args.Error(1)
}

// --- Mock JobLifecycleService ---
type MockJobService struct {
	mock.Mock
}

var _ portssvc.JobLifecycleSvcFacade = (*MockJobService)(nil)

func (m *MockJobService) CreateJob(ctx context.Context, req dto.CreateJobRequest, userID string) (*domain.JobPosting, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobPosting), args.Error(1)
}

func (m *MockJobService) GetJob(ctx context.Context, jobID string) (*domain.JobPosting, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobPosting), args.Error(1)
}

func (m *MockJobService) ListJobs(ctx context.Context, status *domain.JobStatus, limit int) ([]domain.JobPosting, error) {
	args := m.Called(ctx, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JobPosting), args.Error(1)
}

func (m *MockJobService) Publish(ctx context.Context, jobID string, userID string) (*domain.JobPosting, error) {
	args := m.Called(ctx, jobID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobPosting), args.Error(1)
}

func (m *MockJobService) Pause(ctx context.Context, jobID string, userID string) (*domain.JobPosting, error) {
	args := m.Called(ctx, jobID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobPosting), args.Error(1)
}

func (m *MockJobService) Resume(ctx context.Context, jobID string, userID string) (*domain.JobPosting, error) {
	args := m.Called(ctx, jobID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobPosting), args.Error(1)
}

func (m *MockJobService) Inactivate(ctx context.Context, jobID string, userID string) (*domain.JobPosting, error) {
	args := m.Called(ctx, jobID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobPosting), args.Error(1)
}

// --- Mock MatchCacheService ---
type MockMatchCacheService struct {
	mock.Mock
}

var _ portssvc.MatchCacheSvcFacade = (*MockMatchCacheService)(nil)

func (m *MockMatchCacheService) UpsertEntry(ctx context.Context, entry domain.MatchEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockMatchCacheService) ListMatches(ctx context.Context, jobID string, limit int, nextToken *string) ([]domain.MatchEntry, *string, error) {
	args := m.Called(ctx, jobID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.MatchEntry), returnedNextToken, args.Error(2)
}

// --- Mock BatchMatchService ---
type MockBatchMatchService struct {
	mock.Mock
}

var _ portssvc.BatchMatchSvcFacade = (*MockBatchMatchService)(nil)

func (m *MockBatchMatchService) RunForJob(ctx context.Context, jobID string) (*domain.MatchRunSummary, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MatchRunSummary), args.Error(1)
}

// --- Test Suite Setup ---
type JobHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockLedger   *MockTokenLedgerService
	mockJobs     *MockJobService
	mockCache    *MockMatchCacheService
	mockBatch    *MockBatchMatchService
	testUserID   string
	publishedJob domain.JobPosting
}

func (suite *JobHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.router.Use(middleware.StructuredLoggingMiddleware(slog.New(slog.DiscardHandler)))

	suite.mockLedger = new(MockTokenLedgerService)
	suite.mockJobs = new(MockJobService)
	suite.mockCache = new(MockMatchCacheService)
	suite.mockBatch = new(MockBatchMatchService)
	suite.testUserID = uuid.NewString()

	cfg := &config.Config{MatchRunRateLimit: "100-S"}
	sc := &portssvc.ServiceContainer{
		TokenLedger: suite.mockLedger,
		Job:         suite.mockJobs,
		MatchCache:  suite.mockCache,
		BatchMatch:  suite.mockBatch,
	}
	err := handlers.RegisterRoutes(suite.router, cfg, sc)
	suite.Require().NoError(err)

	chargedAt := time.Now().UTC()
	suite.publishedJob = domain.JobPosting{
		JobID:     uuid.NewString(),
		AccountID: uuid.NewString(),
		Title:     "Site Reliability Engineer",
		TokenCost: 5,
		Status:    domain.Published,
		ChargedAt: &chargedAt,
	}
}

func (suite *JobHandlerTestSuite) do(method, url string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reqBody = bytes.NewBuffer(raw)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, reqBody)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", suite.testUserID)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *JobHandlerTestSuite) TestPublishJob_Success() {
	jobID := suite.publishedJob.JobID
	suite.mockJobs.On("Publish", mock.Anything, jobID, suite.testUserID).Return(&suite.publishedJob, nil).Once()

	w := suite.do(http.MethodPost, fmt.Sprintf("/api/v1/jobs/%s/publish", jobID), nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.JobResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(jobID, resp.JobID)
	suite.Equal(domain.Published, resp.Status)
	suite.NotNil(resp.ChargedAt)
	suite.mockJobs.AssertExpectations(suite.T())
}

func (suite *JobHandlerTestSuite) TestPublishJob_InsufficientTokens() {
	jobID := uuid.NewString()
	suite.mockJobs.On("Publish", mock.Anything, jobID, suite.testUserID).
		Return(nil, apperrors.ErrInsufficientTokens).Once()

	w := suite.do(http.MethodPost, fmt.Sprintf("/api/v1/jobs/%s/publish", jobID), nil)

	suite.Equal(http.StatusPaymentRequired, w.Code)
}

func (suite *JobHandlerTestSuite) TestPublishJob_InvalidTransition() {
	jobID := uuid.NewString()
	suite.mockJobs.On("Publish", mock.Anything, jobID, suite.testUserID).
		Return(nil, fmt.Errorf("%w: cannot publish from Inactive", apperrors.ErrInvalidStateTransition)).Once()

	w := suite.do(http.MethodPost, fmt.Sprintf("/api/v1/jobs/%s/publish", jobID), nil)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *JobHandlerTestSuite) TestPublishJob_NotFound() {
	jobID := uuid.NewString()
	suite.mockJobs.On("Publish", mock.Anything, jobID, suite.testUserID).
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.do(http.MethodPost, fmt.Sprintf("/api/v1/jobs/%s/publish", jobID), nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *JobHandlerTestSuite) TestPublishJob_ConcurrentDuplicate() {
	jobID := uuid.NewString()
	suite.mockJobs.On("Publish", mock.Anything, jobID, suite.testUserID).
		Return(nil, fmt.Errorf("%w: concurrent operation with idempotency key %s:publish is still in flight", apperrors.ErrDuplicate, jobID)).Once()

	w := suite.do(http.MethodPost, fmt.Sprintf("/api/v1/jobs/%s/publish", jobID), nil)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *JobHandlerTestSuite) TestPublishJob_LedgerUnavailable() {
	jobID := uuid.NewString()
	suite.mockJobs.On("Publish", mock.Anything, jobID, suite.testUserID).
		Return(nil, fmt.Errorf("%w: connection refused", apperrors.ErrLedgerUnavailable)).Once()

	w := suite.do(http.MethodPost, fmt.Sprintf("/api/v1/jobs/%s/publish", jobID), nil)

	suite.Equal(http.StatusServiceUnavailable, w.Code)
}

func (suite *JobHandlerTestSuite) TestCreateJob_InvalidPayload() {
	w := suite.do(http.MethodPost, "/api/v1/jobs", map[string]any{"title": ""})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockJobs.AssertNotCalled(suite.T(), "CreateJob", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JobHandlerTestSuite) TestListJobs_InvalidStatusRejectedByBinding() {
	w := suite.do(http.MethodGet, "/api/v1/jobs?status=ARCHIVED", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockJobs.AssertNotCalled(suite.T(), "ListJobs", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JobHandlerTestSuite) TestListJobs_FiltersByStatus() {
	published := domain.Published
	suite.mockJobs.On("ListJobs", mock.Anything, &published, 0).
		Return([]domain.JobPosting{suite.publishedJob}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/jobs?status=PUBLISHED", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp []dto.JobResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp, 1)
	suite.Equal(suite.publishedJob.JobID, resp[0].JobID)
	suite.mockJobs.AssertExpectations(suite.T())
}

func (suite *JobHandlerTestSuite) TestRunMatches_ReturnsSummary() {
	jobID := uuid.NewString()
	summary := &domain.MatchRunSummary{
		JobID:                jobID,
		CandidatesConsidered: 23,
		CandidatesScored:     19,
		CandidatesFailed:     4,
	}
	suite.mockBatch.On("RunForJob", mock.Anything, jobID).Return(summary, nil).Once()

	w := suite.do(http.MethodPost, fmt.Sprintf("/api/v1/jobs/%s/matches/run", jobID), nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.MatchRunSummaryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(23, resp.CandidatesConsidered)
	suite.Equal(19, resp.CandidatesScored)
	suite.Equal(4, resp.CandidatesFailed)
}

func (suite *JobHandlerTestSuite) TestRunMatches_JobNotFound() {
	jobID := uuid.NewString()
	suite.mockBatch.On("RunForJob", mock.Anything, jobID).Return(nil, apperrors.ErrNotFound).Once()

	w := suite.do(http.MethodPost, fmt.Sprintf("/api/v1/jobs/%s/matches/run", jobID), nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *JobHandlerTestSuite) TestListMatches_ReturnsPage() {
	jobID := uuid.NewString()
	entries := []domain.MatchEntry{
		{
			JobID:       jobID,
			CandidateID: "cand-1",
			Score:       92,
			Explanation: domain.MatchExplanation{Strengths: []string{"Go"}, Gaps: []string{}},
			UpdatedAt:   time.Now().UTC(),
		},
	}
	suite.mockCache.On("ListMatches", mock.Anything, jobID, 20, (*string)(nil)).
		Return(entries, "cursor-token", nil).Once()

	w := suite.do(http.MethodGet, fmt.Sprintf("/api/v1/jobs/%s/matches", jobID), nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListMatchesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(jobID, resp.JobID)
	suite.Require().Len(resp.Matches, 1)
	suite.Equal(92, resp.Matches[0].Score)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal("cursor-token", *resp.NextToken)
}

func TestJobHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(JobHandlerTestSuite))
}
