package mapping

import (
	"github.com/HireDeck/hiredeck_backend/internal/core/domain"
	"github.com/HireDeck/hiredeck_backend/internal/models"
)

// ToModelMatchEntry converts a domain MatchEntry to a model MatchEntry
func ToModelMatchEntry(d domain.MatchEntry) models.MatchEntry {
	return models.MatchEntry{
		JobID:       d.JobID,
		CandidateID: d.CandidateID,
		Score:       d.Score,
		Strengths:   d.Explanation.Strengths,
		Gaps:        d.Explanation.Gaps,
		UpdatedAt:   d.UpdatedAt,
	}
}

// ToDomainMatchEntry converts a model MatchEntry to a domain MatchEntry
func ToDomainMatchEntry(m models.MatchEntry) domain.MatchEntry {
	return domain.MatchEntry{
		JobID:       m.JobID,
		CandidateID: m.CandidateID,
		Score:       m.Score,
		Explanation: domain.MatchExplanation{
			Strengths: m.Strengths,
			Gaps:      m.Gaps,
		},
		UpdatedAt: m.UpdatedAt,
	}
}

// ToDomainCandidateProfile converts a model CandidateProfile to its domain form
func ToDomainCandidateProfile(m models.CandidateProfile) domain.CandidateProfile {
	return domain.CandidateProfile{
		CandidateID:     m.CandidateID,
		FullName:        m.FullName,
		Headline:        m.Headline,
		Skills:          m.Skills,
		ExperienceYears: m.ExperienceYears,
		Summary:         m.Summary,
		IsPublished:     m.IsPublished,
	}
}
