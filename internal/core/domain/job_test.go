package domain_test

import (
	"testing"
	"time"

	"github.com/HireDeck/hiredeck_backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allStatuses := []domain.JobStatus{domain.Draft, domain.Published, domain.Paused, domain.Inactive}

	allowed := map[[2]domain.JobStatus]bool{
		{domain.Draft, domain.Published}:    true,
		{domain.Draft, domain.Inactive}:     true,
		{domain.Published, domain.Paused}:   true,
		{domain.Published, domain.Inactive}: true,
		{domain.Paused, domain.Published}:   true,
		{domain.Paused, domain.Inactive}:    true,
	}

	// Every pair not listed above must be rejected, including self
	// transitions and anything out of Inactive.
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			got := domain.CanTransition(from, to)
			assert.Equal(t, allowed[[2]domain.JobStatus{from, to}], got,
				"transition %s -> %s", from, to)
		}
	}
}

func TestCanTransition_UnknownStatus(t *testing.T) {
	assert.False(t, domain.CanTransition(domain.JobStatus("ARCHIVED"), domain.Published))
	assert.False(t, domain.CanTransition(domain.Draft, domain.JobStatus("ARCHIVED")))
}

func TestIsValidJobStatus(t *testing.T) {
	assert.True(t, domain.IsValidJobStatus(domain.Draft))
	assert.True(t, domain.IsValidJobStatus(domain.Inactive))
	assert.False(t, domain.IsValidJobStatus(domain.JobStatus("published"))) // case sensitive
	assert.False(t, domain.IsValidJobStatus(domain.JobStatus("")))
}

func TestNeedsPublicationCharge(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name string
		job  domain.JobPosting
		want bool
	}{
		{
			name: "uncharged job with cost",
			job:  domain.JobPosting{TokenCost: 5},
			want: true,
		},
		{
			name: "already charged job",
			job:  domain.JobPosting{TokenCost: 5, ChargedAt: &now},
			want: false,
		},
		{
			name: "free job",
			job:  domain.JobPosting{TokenCost: 0},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.job.NeedsPublicationCharge())
		})
	}
}

func TestPublishIdempotencyKey(t *testing.T) {
	job := domain.JobPosting{JobID: "job-1"}
	assert.Equal(t, "job-1:publish", job.PublishIdempotencyKey())
}
