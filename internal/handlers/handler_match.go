package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/HireDeck/hiredeck_backend/internal/apperrors"
	portssvc "github.com/HireDeck/hiredeck_backend/internal/core/ports/services"
	"github.com/HireDeck/hiredeck_backend/internal/dto"
	"github.com/HireDeck/hiredeck_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// matchHandler handles HTTP requests for match runs and cached match listings.
type matchHandler struct {
	batch portssvc.BatchMatchSvcFacade
	cache portssvc.MatchCacheSvcFacade
}

func newMatchHandler(batch portssvc.BatchMatchSvcFacade, cache portssvc.MatchCacheSvcFacade) *matchHandler {
	return &matchHandler{batch: batch, cache: cache}
}

// runMatches godoc
// @Summary Run candidate matching for a job
// @Description Scores all published candidates against the job in batches and caches the results
// @Tags matches
// @Produce json
// @Param jobID path string true "Job ID"
// @Success 200 {object} dto.MatchRunSummaryResponse
// @Failure 404 {object} map[string]string "Job not found"
// @Failure 429 {object} map[string]string "Too many match runs"
// @Failure 503 {object} map[string]string "Scoring service unavailable"
// @Router /jobs/{jobID}/matches/run [post]
func (h *matchHandler) runMatches(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	jobID := c.Param("jobID")

	summary, err := h.batch.RunForJob(c.Request.Context(), jobID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		case summary != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)):
			// The run stopped early; report what completed so far.
			logger.Warn("Match run interrupted", slog.String("jobID", jobID), slog.String("error", err.Error()))
			c.JSON(http.StatusOK, dto.ToMatchRunSummaryResponse(summary))
		default:
			logger.Error("Match run failed", slog.String("jobID", jobID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Match run failed"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToMatchRunSummaryResponse(summary))
}

// listMatches godoc
// @Summary List cached matches for a job
// @Description Returns cached match results ordered by score descending, with cursor pagination
// @Tags matches
// @Produce json
// @Param jobID path string true "Job ID"
// @Param limit query int false "Page size"
// @Param nextToken query string false "Cursor from a previous page"
// @Success 200 {object} dto.ListMatchesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Router /jobs/{jobID}/matches [get]
func (h *matchHandler) listMatches(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	var req dto.ListMatchesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		logger.Warn("Failed to bind query for listMatches", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 20
	}

	jobID := c.Param("jobID")
	entries, nextToken, err := h.cache.ListMatches(c.Request.Context(), jobID, limit, req.NextToken)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to list matches", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list matches"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToListMatchesResponse(jobID, entries, nextToken))
}
