package dto

import (
	"time"

	"github.com/HireDeck/hiredeck_backend/internal/core/domain"
)

// CreateJobRequest defines the data needed to create a draft job posting.
type CreateJobRequest struct {
	AccountID   string `json:"accountID" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	TokenCost   int64  `json:"tokenCost" binding:"gte=0"`
}

// ListJobsRequest captures the query parameters of the job listing. The
// status filter is validated by the custom "jobstatus" rule.
type ListJobsRequest struct {
	Status *string `form:"status" binding:"omitempty,jobstatus"`
	Limit  int     `form:"limit" binding:"omitempty,gt=0,lte=100"`
}

// JobResponse mirrors domain.JobPosting.
type JobResponse struct {
	JobID         string           `json:"jobID"`
	AccountID     string           `json:"accountID"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	TokenCost     int64            `json:"tokenCost"`
	Status        domain.JobStatus `json:"status"`
	ChargedAt     *time.Time       `json:"chargedAt,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	LastUpdatedAt time.Time        `json:"lastUpdatedAt"`
}

// ToJobResponse converts a domain.JobPosting to its DTO.
func ToJobResponse(job *domain.JobPosting) JobResponse {
	return JobResponse{
		JobID:         job.JobID,
		AccountID:     job.AccountID,
		Title:         job.Title,
		Description:   job.Description,
		TokenCost:     job.TokenCost,
		Status:        job.Status,
		ChargedAt:     job.ChargedAt,
		CreatedAt:     job.CreatedAt,
		LastUpdatedAt: job.LastUpdatedAt,
	}
}
