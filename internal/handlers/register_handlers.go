package handlers

import (
	"fmt"
	"net/http"

	"github.com/HireDeck/hiredeck_backend/internal/core/domain"
	portssvc "github.com/HireDeck/hiredeck_backend/internal/core/ports/services"
	"github.com/HireDeck/hiredeck_backend/internal/middleware"
	"github.com/HireDeck/hiredeck_backend/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/ulule/limiter/v3"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"
)

// RegisterRoutes registers all API routes with the Gin engine.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, sc *portssvc.ServiceContainer) error {
	if err := registerCustomValidators(); err != nil {
		return fmt.Errorf("failed to register custom validators: %w", err)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	tokenH := newTokenHandler(sc.TokenLedger)
	jobH := newJobHandler(sc.Job)
	matchH := newMatchHandler(sc.BatchMatch, sc.MatchCache)

	v1 := r.Group("/api/v1")

	accounts := v1.Group("/accounts")
	{
		accounts.POST("", tokenH.createAccount)
		accounts.GET("/:accountID", tokenH.getAccount)
		accounts.GET("/:accountID/entries", tokenH.listEntries)
		accounts.POST("/:accountID/purchases", tokenH.purchaseTokens)
	}

	jobs := v1.Group("/jobs")
	{
		jobs.POST("", jobH.createJob)
		jobs.GET("", jobH.listJobs)
		jobs.GET("/:jobID", jobH.getJob)
		jobs.POST("/:jobID/publish", jobH.publishJob)
		jobs.POST("/:jobID/pause", jobH.pauseJob)
		jobs.POST("/:jobID/resume", jobH.resumeJob)
		jobs.POST("/:jobID/inactivate", jobH.inactivateJob)

		jobs.GET("/:jobID/matches", matchH.listMatches)

		// Each run fans out to the external scorer, so the trigger endpoint
		// is rate limited per client IP.
		runLimiter, err := newMatchRunLimiter(cfg.MatchRunRateLimit)
		if err != nil {
			return err
		}
		jobs.POST("/:jobID/matches/run", middleware.RateLimit(runLimiter), matchH.runMatches)
	}

	return nil
}

// registerCustomValidators wires domain-aware rules into Gin's binding
// validator. "jobstatus" accepts only members of the job lifecycle enum.
func registerCustomValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine type %T", binding.Validator.Engine())
	}
	return v.RegisterValidation("jobstatus", func(fl validator.FieldLevel) bool {
		return domain.IsValidJobStatus(domain.JobStatus(fl.Field().String()))
	})
}

func newMatchRunLimiter(format string) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(format)
	if err != nil {
		return nil, fmt.Errorf("invalid match run rate limit %q: %w", format, err)
	}
	return limiter.New(memorystore.NewStore(), rate), nil
}

// requestUserID identifies the acting user for audit fields. Authentication
// is handled upstream; the gateway forwards the principal in this header.
func requestUserID(c *gin.Context) string {
	if id := c.GetHeader("X-User-ID"); id != "" {
		return id
	}
	return "system"
}
