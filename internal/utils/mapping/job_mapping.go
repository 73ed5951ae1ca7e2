package mapping

import (
	"github.com/HireDeck/hiredeck_backend/internal/core/domain"
	"github.com/HireDeck/hiredeck_backend/internal/models"
)

// ToModelJobPosting converts a domain JobPosting to a model JobPosting
func ToModelJobPosting(d domain.JobPosting) models.JobPosting {
	return models.JobPosting{
		JobID:       d.JobID,
		AccountID:   d.AccountID,
		Title:       d.Title,
		Description: d.Description,
		TokenCost:   d.TokenCost,
		Status:      models.JobStatus(d.Status),
		ChargedAt:   d.ChargedAt,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

// ToDomainJobPosting converts a model JobPosting to a domain JobPosting
func ToDomainJobPosting(m models.JobPosting) domain.JobPosting {
	return domain.JobPosting{
		JobID:       m.JobID,
		AccountID:   m.AccountID,
		Title:       m.Title,
		Description: m.Description,
		TokenCost:   m.TokenCost,
		Status:      domain.JobStatus(m.Status),
		ChargedAt:   m.ChargedAt,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}
