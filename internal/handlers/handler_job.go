package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/HireDeck/hiredeck_backend/internal/apperrors"
	"github.com/HireDeck/hiredeck_backend/internal/core/domain"
	portssvc "github.com/HireDeck/hiredeck_backend/internal/core/ports/services"
	"github.com/HireDeck/hiredeck_backend/internal/dto"
	"github.com/HireDeck/hiredeck_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// jobHandler handles HTTP requests related to job postings and their lifecycle.
type jobHandler struct {
	jobs portssvc.JobLifecycleSvcFacade
}

func newJobHandler(jobs portssvc.JobLifecycleSvcFacade) *jobHandler {
	return &jobHandler{jobs: jobs}
}

// createJob godoc
// @Summary Create a job posting
// @Description Creates a new job posting in Draft state
// @Tags jobs
// @Accept json
// @Produce json
// @Param job body dto.CreateJobRequest true "Job details"
// @Success 201 {object} dto.JobResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Router /jobs [post]
func (h *jobHandler) createJob(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createJob", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	job, err := h.jobs.CreateJob(c.Request.Context(), req, requestUserID(c))
	if err != nil {
		respondJobError(c, err, "Failed to create job")
		return
	}

	c.JSON(http.StatusCreated, dto.ToJobResponse(job))
}

// getJob godoc
// @Summary Get a job posting
// @Description Retrieves a job posting by ID
// @Tags jobs
// @Produce json
// @Param jobID path string true "Job ID"
// @Success 200 {object} dto.JobResponse
// @Failure 404 {object} map[string]string "Job not found"
// @Router /jobs/{jobID} [get]
func (h *jobHandler) getJob(c *gin.Context) {
	job, err := h.jobs.GetJob(c.Request.Context(), c.Param("jobID"))
	if err != nil {
		respondJobError(c, err, "Failed to retrieve job")
		return
	}

	c.JSON(http.StatusOK, dto.ToJobResponse(job))
}

// listJobs godoc
// @Summary List job postings
// @Description Returns the newest postings first, optionally filtered by lifecycle status
// @Tags jobs
// @Produce json
// @Param status query string false "Lifecycle status filter" Enums(DRAFT, PUBLISHED, PAUSED, INACTIVE)
// @Param limit query int false "Page size"
// @Success 200 {array} dto.JobResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Router /jobs [get]
func (h *jobHandler) listJobs(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	var req dto.ListJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		logger.Warn("Failed to bind query for listJobs", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	var status *domain.JobStatus
	if req.Status != nil {
		s := domain.JobStatus(*req.Status)
		status = &s
	}

	jobs, err := h.jobs.ListJobs(c.Request.Context(), status, req.Limit)
	if err != nil {
		respondJobError(c, err, "Failed to list jobs")
		return
	}

	out := make([]dto.JobResponse, len(jobs))
	for i := range jobs {
		out[i] = dto.ToJobResponse(&jobs[i])
	}
	c.JSON(http.StatusOK, out)
}

// publishJob godoc
// @Summary Publish a job posting
// @Description Moves a Draft job to Published, charging the publication cost exactly once
// @Tags jobs
// @Produce json
// @Param jobID path string true "Job ID"
// @Success 200 {object} dto.JobResponse
// @Failure 402 {object} map[string]string "Insufficient tokens"
// @Failure 404 {object} map[string]string "Job not found"
// @Failure 409 {object} map[string]string "Invalid state transition"
// @Failure 503 {object} map[string]string "Ledger unavailable"
// @Router /jobs/{jobID}/publish [post]
func (h *jobHandler) publishJob(c *gin.Context) {
	job, err := h.jobs.Publish(c.Request.Context(), c.Param("jobID"), requestUserID(c))
	if err != nil {
		respondJobError(c, err, "Failed to publish job")
		return
	}

	c.JSON(http.StatusOK, dto.ToJobResponse(job))
}

// pauseJob godoc
// @Summary Pause a published job
// @Tags jobs
// @Produce json
// @Param jobID path string true "Job ID"
// @Success 200 {object} dto.JobResponse
// @Failure 404 {object} map[string]string "Job not found"
// @Failure 409 {object} map[string]string "Invalid state transition"
// @Router /jobs/{jobID}/pause [post]
func (h *jobHandler) pauseJob(c *gin.Context) {
	job, err := h.jobs.Pause(c.Request.Context(), c.Param("jobID"), requestUserID(c))
	if err != nil {
		respondJobError(c, err, "Failed to pause job")
		return
	}

	c.JSON(http.StatusOK, dto.ToJobResponse(job))
}

// resumeJob godoc
// @Summary Resume a paused job
// @Description Moves a Paused job back to Published without charging again
// @Tags jobs
// @Produce json
// @Param jobID path string true "Job ID"
// @Success 200 {object} dto.JobResponse
// @Failure 404 {object} map[string]string "Job not found"
// @Failure 409 {object} map[string]string "Invalid state transition"
// @Router /jobs/{jobID}/resume [post]
func (h *jobHandler) resumeJob(c *gin.Context) {
	job, err := h.jobs.Resume(c.Request.Context(), c.Param("jobID"), requestUserID(c))
	if err != nil {
		respondJobError(c, err, "Failed to resume job")
		return
	}

	c.JSON(http.StatusOK, dto.ToJobResponse(job))
}

// inactivateJob godoc
// @Summary Inactivate a job posting
// @Description Terminally closes a job; inactive jobs cannot be reopened
// @Tags jobs
// @Produce json
// @Param jobID path string true "Job ID"
// @Success 200 {object} dto.JobResponse
// @Failure 404 {object} map[string]string "Job not found"
// @Failure 409 {object} map[string]string "Invalid state transition"
// @Router /jobs/{jobID}/inactivate [post]
func (h *jobHandler) inactivateJob(c *gin.Context) {
	job, err := h.jobs.Inactivate(c.Request.Context(), c.Param("jobID"), requestUserID(c))
	if err != nil {
		respondJobError(c, err, "Failed to inactivate job")
		return
	}

	c.JSON(http.StatusOK, dto.ToJobResponse(job))
}

// respondJobError maps lifecycle errors onto HTTP statuses.
func respondJobError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
	case errors.Is(err, apperrors.ErrInsufficientTokens):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "Insufficient tokens to publish this job"})
	case errors.Is(err, apperrors.ErrInvalidStateTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": "A concurrent operation on this job is in flight, retry shortly"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrLedgerUnavailable):
		logger.Error("Token ledger unavailable during job operation", slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Token ledger temporarily unavailable, retry later"})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
